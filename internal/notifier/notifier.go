package notifier

import (
	"context"

	"github.com/mauv0809/rinkstats/internal/pubsub"
	"github.com/mauv0809/rinkstats/internal/stats"
)

// Notifier defines a high-level interface for sending notifications about business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// After journaled events reach the workbook
	SendSyncNotification(ctx context.Context, msg pubsub.BatchSynced, dryRun bool) error
	SendSyncFailure(ctx context.Context, msg pubsub.SyncFailed, dryRun bool) error

	// For formatting responses for slash commands
	FormatLeaderboardResponse(lb stats.Leaderboard) (any, error)
	FormatPlayerStatsResponse(pg stats.PlayerGames) (any, error)
	FormatPlayerNotFoundResponse(query string) (any, error)
}
