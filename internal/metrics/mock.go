package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu               sync.Mutex
	eventsSubmitted  map[string]int
	syncRuns         map[string]int
	syncFailures     map[string]int
	syncDurations    []float64
	storeConflicts   int
	slackNotifSent   int
	slackNotifFailed int
	startupTime      float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		eventsSubmitted: make(map[string]int),
		syncRuns:        make(map[string]int),
		syncFailures:    make(map[string]int),
		syncDurations:   make([]float64, 0),
	}
}

func (m *Mock) IncEventsSubmitted(kind string, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.eventsSubmitted[kind] += n
}

func (m *Mock) IncSyncRuns(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.syncRuns[kind]++
}

func (m *Mock) IncSyncFailures(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.syncFailures[kind]++
}

func (m *Mock) ObserveSyncDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.syncDurations = append(m.syncDurations, duration)
}

func (m *Mock) IncStoreConflicts() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.storeConflicts++
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// EventsSubmitted returns the number of events counted for kind.
func (m *Mock) EventsSubmitted(kind string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.eventsSubmitted[kind]
}

// SyncRuns returns the number of sync runs recorded for kind.
func (m *Mock) SyncRuns(kind string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.syncRuns[kind]
}

// SyncFailures returns the number of failed sync runs recorded for kind.
func (m *Mock) SyncFailures(kind string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.syncFailures[kind]
}

// StoreConflicts returns the number of times IncStoreConflicts was called.
func (m *Mock) StoreConflicts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.storeConflicts
}

// SlackNotifSent returns the number of times IncSlackNotifSent was called.
func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

// SlackNotifFailed returns the number of times IncSlackNotifFailed was called.
func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}
