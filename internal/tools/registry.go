package tools

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/minutes/minutes/internal/metrics"
)

// Definition describes a tool to the agent.
type Definition struct {
	Name        Name           `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// Registry maps tool names to tools. It is populated at startup and
// read-only afterwards.
type Registry struct {
	tools   map[Name]Tool
	logger  *slog.Logger
	metrics metrics.Recorder
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *slog.Logger, recorder metrics.Recorder) *Registry {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &Registry{
		tools:   make(map[Name]Tool),
		logger:  logger,
		metrics: recorder,
	}
}

// Register adds a tool. Returns an error if the name is taken.
func (r *Registry) Register(tool Tool) error {
	name := tool.Name()
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("tool %s already registered", name)
	}
	r.tools[name] = tool
	return nil
}

// MustRegister registers a tool and panics on error.
func (r *Registry) MustRegister(tool Tool) {
	if err := r.Register(tool); err != nil {
		panic(err)
	}
}

// Definitions returns every tool definition sorted by name.
func (r *Registry) Definitions() []Definition {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, string(name))
	}
	sort.Strings(names)

	defs := make([]Definition, 0, len(names))
	for _, name := range names {
		tool := r.tools[Name(name)]
		defs = append(defs, Definition{
			Name:        tool.Name(),
			Description: tool.Description(),
			Parameters:  tool.Parameters(),
		})
	}
	return defs
}

// Invoke runs the named tool. Unknown names and handler panics become
// failed results; Invoke never panics and never returns an error.
func (r *Registry) Invoke(ctx context.Context, name string, args map[string]any) (res Result) {
	tool, ok := r.tools[Name(name)]
	if !ok {
		r.metrics.IncToolCall(name, "unknown")
		r.logger.Warn("unknown tool requested", "tool", name)
		return Result{Text: NotFoundText, Failed: true}
	}

	if args == nil {
		args = map[string]any{}
	}

	start := time.Now()
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("tool panicked", "tool", name, "panic", p)
			res = Result{Text: fmt.Sprintf("Error: tool %s crashed.", name), Failed: true}
		}

		outcome := metrics.OutcomeSuccess
		if res.Failed {
			outcome = metrics.OutcomeFailure
		}
		r.metrics.IncToolCall(name, outcome)
		r.metrics.ObserveToolDuration(name, time.Since(start))
		r.logger.Info("tool executed",
			"tool", name,
			"failed", res.Failed,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}()

	return tool.Execute(ctx, args)
}

// Dispatch runs the named tool and returns its text.
func (r *Registry) Dispatch(ctx context.Context, name string, args map[string]any) string {
	return r.Invoke(ctx, name, args).Text
}
