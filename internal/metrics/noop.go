package metrics

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncUserRegistered is a no-op.
func (n *NoopRecorder) IncUserRegistered() {}

// IncLoginSuccess is a no-op.
func (n *NoopRecorder) IncLoginSuccess() {}

// IncLoginFailure is a no-op.
func (n *NoopRecorder) IncLoginFailure() {}

// IncTokenRejected is a no-op.
func (n *NoopRecorder) IncTokenRejected() {}

// IncResourceCreated is a no-op.
func (n *NoopRecorder) IncResourceCreated(resource string) {}

// IncResourceUpdated is a no-op.
func (n *NoopRecorder) IncResourceUpdated(resource string) {}

// IncResourceDeleted is a no-op.
func (n *NoopRecorder) IncResourceDeleted(resource string) {}

// IncStatsComputed is a no-op.
func (n *NoopRecorder) IncStatsComputed() {}
