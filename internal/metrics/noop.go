package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

func (n *NoopRecorder) IncSearchAttempt(outcome string)                         {}
func (n *NoopRecorder) IncFactCheck(outcome string)                             {}
func (n *NoopRecorder) IncToolCall(tool, outcome string)                        {}
func (n *NoopRecorder) ObserveToolDuration(tool string, duration time.Duration) {}
func (n *NoopRecorder) IncMeetingCreated()                                      {}
func (n *NoopRecorder) IncMeetingIndexed(outcome string)                        {}
func (n *NoopRecorder) IncAuthEvent(event, outcome string)                      {}
