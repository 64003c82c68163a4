package tools

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/minutes/minutes/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTool struct {
	name   Name
	result Result
	panics bool
	got    map[string]any
}

func (s *stubTool) Name() Name                 { return s.name }
func (s *stubTool) Description() string        { return "stub " + string(s.name) }
func (s *stubTool) Parameters() map[string]any { return singleStringParam("x", "") }
func (s *stubTool) Execute(ctx context.Context, args map[string]any) Result {
	s.got = args
	if s.panics {
		panic("boom")
	}
	return s.result
}

func newTestRegistry(rec metrics.Recorder, tools ...Tool) *Registry {
	r := NewRegistry(slog.New(slog.NewTextHandler(io.Discard, nil)), rec)
	for _, t := range tools {
		r.MustRegister(t)
	}
	return r
}

func TestRegistry_UnknownTool(t *testing.T) {
	t.Parallel()

	rec := metrics.NewInMemory()
	r := newTestRegistry(rec, &stubTool{name: NameSearchWeb})

	assert.Equal(t, "Error: Tool not found.", r.Dispatch(context.Background(), "nonexistent_tool", map[string]any{}))

	res := r.Invoke(context.Background(), "", nil)
	assert.True(t, res.Failed)
	assert.Equal(t, NotFoundText, res.Text)
	assert.Equal(t, uint64(1), rec.Snapshot().ToolCalls["nonexistent_tool/unknown"])
}

func TestRegistry_DispatchRoutesByName(t *testing.T) {
	t.Parallel()

	web := &stubTool{name: NameSearchWeb, result: OK("web")}
	db := &stubTool{name: NameQueryDatabase, result: OK("db")}
	r := newTestRegistry(nil, web, db)

	assert.Equal(t, "web", r.Dispatch(context.Background(), "search_web", map[string]any{"query": "q"}))
	assert.Equal(t, "db", r.Dispatch(context.Background(), "query_database", map[string]any{"keyword": "k"}))
	assert.Equal(t, "q", web.got["query"])
	assert.Equal(t, "k", db.got["keyword"])
}

func TestRegistry_NilArgsBecomeEmptyMap(t *testing.T) {
	t.Parallel()

	tool := &stubTool{name: NameSearchWeb, result: OK("ok")}
	r := newTestRegistry(nil, tool)

	r.Dispatch(context.Background(), "search_web", nil)
	require.NotNil(t, tool.got)
	assert.Empty(t, tool.got)
}

func TestRegistry_RecoversPanics(t *testing.T) {
	t.Parallel()

	rec := metrics.NewInMemory()
	r := newTestRegistry(rec, &stubTool{name: NameQueryDatabase, panics: true})

	res := r.Invoke(context.Background(), "query_database", map[string]any{})
	assert.True(t, res.Failed)
	assert.Contains(t, res.Text, "query_database")
	assert.Equal(t, uint64(1), rec.Snapshot().ToolCalls["query_database/failure"])
}

func TestRegistry_FailedResultKeepsText(t *testing.T) {
	t.Parallel()

	r := newTestRegistry(nil, &stubTool{name: NameSearchWeb, result: Result{Text: "Search failed: nope", Failed: true}})
	assert.Equal(t, "Search failed: nope", r.Dispatch(context.Background(), "search_web", nil))
}

func TestRegistry_DuplicateRegistration(t *testing.T) {
	t.Parallel()

	r := newTestRegistry(nil, &stubTool{name: NameSearchWeb})
	assert.Error(t, r.Register(&stubTool{name: NameSearchWeb}))
	assert.Panics(t, func() { r.MustRegister(&stubTool{name: NameSearchWeb}) })
}

func TestRegistry_DefinitionsSorted(t *testing.T) {
	t.Parallel()

	r := newTestRegistry(nil, &stubTool{name: NameSearchWeb}, &stubTool{name: NameQueryDatabase})
	defs := r.Definitions()

	require.Len(t, defs, 2)
	assert.Equal(t, NameQueryDatabase, defs[0].Name)
	assert.Equal(t, NameSearchWeb, defs[1].Name)
	assert.Equal(t, "object", defs[0].Parameters["type"])
}

func TestSingleStringParam(t *testing.T) {
	t.Parallel()

	schema := singleStringParam("query", "What to search for")
	assert.Equal(t, "object", schema["type"])
	assert.Equal(t, []any{"query"}, schema["required"])

	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	query, ok := props["query"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "string", query["type"])
}

func TestDecodeArgs(t *testing.T) {
	t.Parallel()

	got, err := DecodeArgs[searchWebArgs](map[string]any{"query": "go", "extra": 1})
	require.NoError(t, err)
	assert.Equal(t, "go", got.Query)

	_, err = DecodeArgs[searchWebArgs](map[string]any{"query": 42})
	assert.Error(t, err)
}
