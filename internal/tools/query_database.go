package tools

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

const (
	queryDatabaseLimit = 3
	summaryPreviewLen  = 100
	// NoMeetingsText is returned when no summary matches the keyword.
	NoMeetingsText = "No matching meetings found."
)

// MeetingRow is the projection query_database reads.
type MeetingRow struct {
	Title   string
	Date    string
	Summary string
}

// SummarySearcher finds meetings whose summary contains keyword.
type SummarySearcher interface {
	SearchSummaries(ctx context.Context, keyword string, limit int) ([]MeetingRow, error)
}

type queryDatabaseArgs struct {
	Keyword string `json:"keyword"`
}

// QueryDatabaseTool matches a keyword against meeting summaries across all
// users and renders up to three rows.
type QueryDatabaseTool struct {
	source SummarySearcher
}

// NewQueryDatabaseTool creates the query_database tool.
func NewQueryDatabaseTool(source SummarySearcher) *QueryDatabaseTool {
	return &QueryDatabaseTool{source: source}
}

func (t *QueryDatabaseTool) Name() Name { return NameQueryDatabase }

func (t *QueryDatabaseTool) Description() string {
	return "Search past meetings for specific topics using a keyword match on their summaries."
}

func (t *QueryDatabaseTool) Parameters() map[string]any {
	return singleStringParam("keyword", "Word or phrase to look for in meeting summaries")
}

func (t *QueryDatabaseTool) Execute(ctx context.Context, args map[string]any) Result {
	const label = "Database error"

	in, err := DecodeArgs[queryDatabaseArgs](args)
	if err != nil {
		return Failure(label, err)
	}
	if in.Keyword == "" {
		return Failure(label, errors.New("keyword is required"))
	}

	rows, err := t.source.SearchSummaries(ctx, in.Keyword, queryDatabaseLimit)
	if err != nil {
		return Failure(label, err)
	}
	if len(rows) == 0 {
		return OK(NoMeetingsText)
	}

	if len(rows) > queryDatabaseLimit {
		rows = rows[:queryDatabaseLimit]
	}
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, formatMeetingRow(row))
	}
	return OK(strings.Join(lines, "\n"))
}

// formatMeetingRow renders "Meeting '{title}' on {date}: {summary[:100]}...".
func formatMeetingRow(row MeetingRow) string {
	return fmt.Sprintf("Meeting '%s' on %s: %s...", row.Title, row.Date, previewRunes(row.Summary, summaryPreviewLen))
}

func previewRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// PQSummarySearcher opens a short-lived read-only connection per search and
// closes it before returning. It does not share the application pool.
type PQSummarySearcher struct {
	dsn string
}

// NewPQSummarySearcher creates a searcher for the given PostgreSQL DSN.
func NewPQSummarySearcher(dsn string) *PQSummarySearcher {
	return &PQSummarySearcher{dsn: dsn}
}

// SearchSummaries runs a LIKE '%keyword%' match inside a read-only transaction.
func (s *PQSummarySearcher) SearchSummaries(ctx context.Context, keyword string, limit int) ([]MeetingRow, error) {
	connector, err := pq.NewConnector(s.dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	db := sql.OpenDB(connector)
	defer db.Close()
	db.SetMaxOpenConns(1)

	tx, err := db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("begin read-only transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	rows, err := tx.QueryContext(ctx, `
		SELECT title, date, summary
		FROM meetings
		WHERE summary LIKE $1
		LIMIT $2
	`, "%"+keyword+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("query meetings: %w", err)
	}
	defer rows.Close()

	var out []MeetingRow
	for rows.Next() {
		var row MeetingRow
		if err := rows.Scan(&row.Title, &row.Date, &row.Summary); err != nil {
			return nil, fmt.Errorf("scan meeting: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate meetings: %w", err)
	}
	return out, nil
}
