// Package nlp extracts named entities from meeting text.
package nlp

import (
	"fmt"

	"github.com/jdkato/prose/v2"
	"github.com/minutes/minutes/internal/model"
)

// MaxChars is how much of the input is analysed.
const MaxChars = 10000

// allowedLabels are the entity kinds surfaced to clients.
var allowedLabels = map[string]bool{
	"PERSON": true,
	"ORG":    true,
	"GPE":    true,
	"DATE":   true,
	"MONEY":  true,
}

// Recognizer finds raw entities in text.
type Recognizer interface {
	Recognize(text string) ([]model.Entity, error)
}

// ProseRecognizer uses prose's built-in English NER model.
type ProseRecognizer struct{}

// Recognize runs tokenization, tagging and extraction over text.
func (ProseRecognizer) Recognize(text string) ([]model.Entity, error) {
	doc, err := prose.NewDocument(text, prose.WithSegmentation(false))
	if err != nil {
		return nil, fmt.Errorf("analyse text: %w", err)
	}

	ents := doc.Entities()
	out := make([]model.Entity, 0, len(ents))
	for _, e := range ents {
		out = append(out, model.Entity{Text: e.Text, Label: e.Label})
	}
	return out, nil
}

// Extractor filters recognized entities to the supported labels.
type Extractor struct {
	recognizer Recognizer
}

// NewExtractor creates an Extractor. A nil recognizer uses prose.
func NewExtractor(r Recognizer) *Extractor {
	if r == nil {
		r = ProseRecognizer{}
	}
	return &Extractor{recognizer: r}
}

// Extract returns entities from the first MaxChars characters of text,
// keeping supported labels and the first occurrence of each entity text.
func (e *Extractor) Extract(text string) ([]model.Entity, error) {
	if text == "" {
		return []model.Entity{}, nil
	}

	raw, err := e.recognizer.Recognize(truncate(text, MaxChars))
	if err != nil {
		return nil, err
	}
	return filterEntities(raw), nil
}

func filterEntities(raw []model.Entity) []model.Entity {
	seen := make(map[string]bool, len(raw))
	out := make([]model.Entity, 0, len(raw))
	for _, ent := range raw {
		if !allowedLabels[ent.Label] || seen[ent.Text] {
			continue
		}
		seen[ent.Text] = true
		out = append(out, ent)
	}
	return out
}

func truncate(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
