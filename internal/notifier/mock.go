package notifier

import (
	"context"
	"sync"

	"github.com/mauv0809/rinkstats/internal/pubsub"
	"github.com/mauv0809/rinkstats/internal/stats"
)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Call records
	SendSyncNotificationCalls []pubsub.BatchSynced
	SendSyncFailureCalls      []pubsub.SyncFailed

	// Spies
	SendSyncNotificationFunc         func(msg pubsub.BatchSynced, dryRun bool) error
	FormatLeaderboardResponseFunc    func(lb stats.Leaderboard) (any, error)
	FormatPlayerStatsResponseFunc    func(pg stats.PlayerGames) (any, error)
	FormatPlayerNotFoundResponseFunc func(query string) (any, error)

	// Call records for format functions
	LastLeaderboard  *stats.Leaderboard
	LastPlayerStats  *stats.PlayerGames
	LastNotFoundText string
}

var _ Notifier = (*Mock)(nil)

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendSyncNotificationCalls = nil
	m.SendSyncFailureCalls = nil
	m.LastLeaderboard = nil
	m.LastPlayerStats = nil
	m.LastNotFoundText = ""
}

func (m *Mock) SendSyncNotification(_ context.Context, msg pubsub.BatchSynced, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendSyncNotificationCalls = append(m.SendSyncNotificationCalls, msg)
	if m.SendSyncNotificationFunc != nil {
		return m.SendSyncNotificationFunc(msg, dryRun)
	}
	return nil
}

func (m *Mock) SendSyncFailure(_ context.Context, msg pubsub.SyncFailed, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendSyncFailureCalls = append(m.SendSyncFailureCalls, msg)
	return nil
}

func (m *Mock) FormatLeaderboardResponse(lb stats.Leaderboard) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastLeaderboard = &lb
	if m.FormatLeaderboardResponseFunc != nil {
		return m.FormatLeaderboardResponseFunc(lb)
	}
	return "formatted_leaderboard", nil
}

func (m *Mock) FormatPlayerStatsResponse(pg stats.PlayerGames) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastPlayerStats = &pg
	if m.FormatPlayerStatsResponseFunc != nil {
		return m.FormatPlayerStatsResponseFunc(pg)
	}
	return "formatted_player_stats", nil
}

func (m *Mock) FormatPlayerNotFoundResponse(query string) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastNotFoundText = query
	if m.FormatPlayerNotFoundResponseFunc != nil {
		return m.FormatPlayerNotFoundResponseFunc(query)
	}
	return "formatted_player_not_found", nil
}

// SyncNotifications returns a copy of the recorded sync notifications.
func (m *Mock) SyncNotifications() []pubsub.BatchSynced {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]pubsub.BatchSynced(nil), m.SendSyncNotificationCalls...)
}
