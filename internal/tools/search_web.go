package tools

import (
	"context"
	"errors"
	"strings"

	"github.com/minutes/minutes/internal/search"
)

// searchWebResults is how many hits the agent sees.
const searchWebResults = 2

var errNoSearchKey = errors.New("no search credential configured")

type searchWebArgs struct {
	Query string `json:"query"`
}

// SearchWebTool runs a web search with a single credential. It does not
// fail over; the fact-check endpoint owns that behavior.
type SearchWebTool struct {
	searcher search.Searcher
	apiKey   string
}

// NewSearchWebTool creates the search_web tool bound to one credential.
func NewSearchWebTool(searcher search.Searcher, apiKey string) *SearchWebTool {
	return &SearchWebTool{searcher: searcher, apiKey: apiKey}
}

func (t *SearchWebTool) Name() Name { return NameSearchWeb }

func (t *SearchWebTool) Description() string {
	return "Search the internet for current events, facts, or live data (e.g., stock prices, news)."
}

func (t *SearchWebTool) Parameters() map[string]any {
	return singleStringParam("query", "What to search for")
}

func (t *SearchWebTool) Execute(ctx context.Context, args map[string]any) Result {
	const label = "Search failed"

	in, err := DecodeArgs[searchWebArgs](args)
	if err != nil {
		return Failure(label, err)
	}
	if strings.TrimSpace(in.Query) == "" {
		return Failure(label, errors.New("query is required"))
	}
	if t.apiKey == "" {
		return Failure(label, errNoSearchKey)
	}

	resp, err := t.searcher.Search(ctx, t.apiKey, search.Request{
		Query:      in.Query,
		Depth:      search.DepthBasic,
		MaxResults: searchWebResults,
	})
	if err != nil {
		return Failure(label, err)
	}

	return OK(search.Format(resp.Results, searchWebResults, search.CompactLine))
}
