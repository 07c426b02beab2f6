package metrics

import (
	"sync"
	"sync/atomic"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	UsersRegistered  uint64
	LoginSuccesses   uint64
	LoginFailures    uint64
	TokensRejected   uint64
	ResourcesCreated map[string]uint64
	ResourcesUpdated map[string]uint64
	ResourcesDeleted map[string]uint64
	StatsComputed    uint64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	usersRegistered uint64
	loginSuccesses  uint64
	loginFailures   uint64
	tokensRejected  uint64
	statsComputed   uint64

	mu               sync.Mutex
	resourcesCreated map[string]uint64
	resourcesUpdated map[string]uint64
	resourcesDeleted map[string]uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{
		resourcesCreated: make(map[string]uint64),
		resourcesUpdated: make(map[string]uint64),
		resourcesDeleted: make(map[string]uint64),
	}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	return Snapshot{
		UsersRegistered:  atomic.LoadUint64(&m.usersRegistered),
		LoginSuccesses:   atomic.LoadUint64(&m.loginSuccesses),
		LoginFailures:    atomic.LoadUint64(&m.loginFailures),
		TokensRejected:   atomic.LoadUint64(&m.tokensRejected),
		StatsComputed:    atomic.LoadUint64(&m.statsComputed),
		ResourcesCreated: copyCounters(m.resourcesCreated),
		ResourcesUpdated: copyCounters(m.resourcesUpdated),
		ResourcesDeleted: copyCounters(m.resourcesDeleted),
	}
}

// IncUserRegistered increments the registration counter.
func (m *InMemoryRecorder) IncUserRegistered() {
	atomic.AddUint64(&m.usersRegistered, 1)
}

// IncLoginSuccess increments the successful login counter.
func (m *InMemoryRecorder) IncLoginSuccess() {
	atomic.AddUint64(&m.loginSuccesses, 1)
}

// IncLoginFailure increments the failed login counter.
func (m *InMemoryRecorder) IncLoginFailure() {
	atomic.AddUint64(&m.loginFailures, 1)
}

// IncTokenRejected increments the rejected token counter.
func (m *InMemoryRecorder) IncTokenRejected() {
	atomic.AddUint64(&m.tokensRejected, 1)
}

// IncResourceCreated increments the created counter for a resource kind.
func (m *InMemoryRecorder) IncResourceCreated(resource string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resourcesCreated[resource]++
}

// IncResourceUpdated increments the updated counter for a resource kind.
func (m *InMemoryRecorder) IncResourceUpdated(resource string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resourcesUpdated[resource]++
}

// IncResourceDeleted increments the deleted counter for a resource kind.
func (m *InMemoryRecorder) IncResourceDeleted(resource string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resourcesDeleted[resource]++
}

// IncStatsComputed increments the stats query counter.
func (m *InMemoryRecorder) IncStatsComputed() {
	atomic.AddUint64(&m.statsComputed, 1)
}

func copyCounters(src map[string]uint64) map[string]uint64 {
	dst := make(map[string]uint64, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
