package model

// Entity is a named entity found in free text.
type Entity struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}
