// Package metrics provides lightweight hooks for instrumentation.
package metrics

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Auth metrics
	IncUserRegistered()
	IncLoginSuccess()
	IncLoginFailure()
	IncTokenRejected()

	// Resource metrics
	IncResourceCreated(resource string) // resource: "todo", "event", "session"
	IncResourceUpdated(resource string)
	IncResourceDeleted(resource string)
	IncStatsComputed()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
