// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Outcome labels shared by the recorders.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Recorder captures metric events for the application.
type Recorder interface {
	// Web search credential attempts, outcome: "success" or "failure"
	IncSearchAttempt(outcome string)
	// Fact-check requests, outcome: "success", "no_credentials" or "failed"
	IncFactCheck(outcome string)

	// Agent tool dispatch, outcome: "success", "failure" or "unknown"
	IncToolCall(tool, outcome string)
	ObserveToolDuration(tool string, duration time.Duration)

	// Meetings
	IncMeetingCreated()
	IncMeetingIndexed(outcome string)

	// Auth, event: "signup" or "login"
	IncAuthEvent(event, outcome string)
}
