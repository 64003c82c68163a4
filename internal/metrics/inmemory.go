package metrics

import (
	"sync"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	SearchAttempts  map[string]uint64 // by outcome
	FactChecks      map[string]uint64 // by outcome
	ToolCalls       map[string]uint64 // by "tool/outcome"
	ToolDurations   map[string]uint64 // observation count by tool
	MeetingsCreated uint64
	MeetingsIndexed map[string]uint64 // by outcome
	AuthEvents      map[string]uint64 // by "event/outcome"
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	mu   sync.Mutex
	snap Snapshot
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{snap: emptySnapshot()}
}

func emptySnapshot() Snapshot {
	return Snapshot{
		SearchAttempts:  map[string]uint64{},
		FactChecks:      map[string]uint64{},
		ToolCalls:       map[string]uint64{},
		ToolDurations:   map[string]uint64{},
		MeetingsIndexed: map[string]uint64{},
		AuthEvents:      map[string]uint64{},
	}
}

// Snapshot returns a deep copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := emptySnapshot()
	out.MeetingsCreated = m.snap.MeetingsCreated
	copyInto(out.SearchAttempts, m.snap.SearchAttempts)
	copyInto(out.FactChecks, m.snap.FactChecks)
	copyInto(out.ToolCalls, m.snap.ToolCalls)
	copyInto(out.ToolDurations, m.snap.ToolDurations)
	copyInto(out.MeetingsIndexed, m.snap.MeetingsIndexed)
	copyInto(out.AuthEvents, m.snap.AuthEvents)
	return out
}

func copyInto(dst, src map[string]uint64) {
	for k, v := range src {
		dst[k] = v
	}
}

func (m *InMemoryRecorder) inc(counter map[string]uint64, key string) {
	m.mu.Lock()
	counter[key]++
	m.mu.Unlock()
}

// IncSearchAttempt counts one credential attempt.
func (m *InMemoryRecorder) IncSearchAttempt(outcome string) {
	m.inc(m.snap.SearchAttempts, outcome)
}

// IncFactCheck counts one fact-check request.
func (m *InMemoryRecorder) IncFactCheck(outcome string) {
	m.inc(m.snap.FactChecks, outcome)
}

// IncToolCall counts one dispatched tool call.
func (m *InMemoryRecorder) IncToolCall(tool, outcome string) {
	m.inc(m.snap.ToolCalls, tool+"/"+outcome)
}

// ObserveToolDuration counts a duration observation for the tool.
func (m *InMemoryRecorder) ObserveToolDuration(tool string, duration time.Duration) {
	m.inc(m.snap.ToolDurations, tool)
}

// IncMeetingCreated increments meeting created counter.
func (m *InMemoryRecorder) IncMeetingCreated() {
	m.mu.Lock()
	m.snap.MeetingsCreated++
	m.mu.Unlock()
}

// IncMeetingIndexed counts one vector index write.
func (m *InMemoryRecorder) IncMeetingIndexed(outcome string) {
	m.inc(m.snap.MeetingsIndexed, outcome)
}

// IncAuthEvent counts a signup or login attempt.
func (m *InMemoryRecorder) IncAuthEvent(event, outcome string) {
	m.inc(m.snap.AuthEvents, event+"/"+outcome)
}
