package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/minutes/minutes/internal/metrics"
)

const (
	// FactCheckResults is how many results a fact-check returns.
	FactCheckResults = 3
)

var (
	// ErrNoCredentials is returned when the credential pool is empty.
	ErrNoCredentials = errors.New("no search credentials provisioned")
	// ErrAllCredentialsFailed is returned when every credential failed.
	// The wrapped error is the last failure.
	ErrAllCredentialsFailed = errors.New("all search credentials failed")
)

// Failover tries each credential in order until one search succeeds.
// Attempts are sequential and stateless between calls.
type Failover struct {
	searcher Searcher
	keys     []string
	logger   *slog.Logger
	metrics  metrics.Recorder
}

// NewFailover creates a Failover over keys in the given order.
func NewFailover(searcher Searcher, keys []string, logger *slog.Logger, recorder metrics.Recorder) *Failover {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &Failover{
		searcher: searcher,
		keys:     append([]string(nil), keys...),
		logger:   logger,
		metrics:  recorder,
	}
}

// Search returns the results of the first credential whose call succeeds.
func (f *Failover) Search(ctx context.Context, req Request) (*Response, error) {
	if len(f.keys) == 0 {
		return nil, ErrNoCredentials
	}

	var lastErr error
	for i, key := range f.keys {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("search canceled: %w", err)
		}

		resp, err := f.searcher.Search(ctx, key, req)
		if err == nil {
			f.metrics.IncSearchAttempt(metrics.OutcomeSuccess)
			f.logger.Debug("search succeeded",
				"attempt", i+1,
				"credential", MaskKey(key),
			)
			return resp, nil
		}

		f.metrics.IncSearchAttempt(metrics.OutcomeFailure)
		f.logger.Warn("search credential failed",
			"attempt", i+1,
			"credential", MaskKey(key),
			"error", err,
		)
		lastErr = err
	}

	return nil, fmt.Errorf("%w: %w", ErrAllCredentialsFailed, lastErr)
}

// FactCheck runs a basic-depth search and renders the top results as
// "- {content} (Source: {url})" lines.
func (f *Failover) FactCheck(ctx context.Context, query string) (string, error) {
	resp, err := f.Search(ctx, Request{
		Query:      query,
		Depth:      DepthBasic,
		MaxResults: FactCheckResults,
	})
	if err != nil {
		return "", err
	}
	return Format(resp.Results, FactCheckResults, SourcedLine), nil
}
