package notifier

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/rinkstats/internal/pubsub"
	"github.com/mauv0809/rinkstats/internal/stats"
	"github.com/slack-go/slack"
)

// LogNotifier writes notifications to the log. It is used when no Slack
// token is configured; slash command replies are plain-text Slack messages.
type LogNotifier struct{}

var _ Notifier = LogNotifier{}

func (LogNotifier) SendSyncNotification(_ context.Context, msg pubsub.BatchSynced, dryRun bool) error {
	log.Info("Events synced", "kind", msg.Kind, "sheet", msg.Sheet, "count", msg.Count, "total", msg.Total, "teams", msg.Teams, "dryRun", dryRun)
	return nil
}

func (LogNotifier) SendSyncFailure(_ context.Context, msg pubsub.SyncFailed, dryRun bool) error {
	log.Warn("Sync failed", "kind", msg.Kind, "pending", msg.Pending, "error", msg.Error, "dryRun", dryRun)
	return nil
}

func (LogNotifier) FormatLeaderboardResponse(lb stats.Leaderboard) (any, error) {
	if lb.Message != "" {
		return textMessage(lb.Message), nil
	}
	return textMessage(fmt.Sprintf("%s: %d scorers, %d shooters", lb.Query.Team, len(lb.Scores), len(lb.Shots))), nil
}

func (LogNotifier) FormatPlayerStatsResponse(pg stats.PlayerGames) (any, error) {
	if pg.Message != "" {
		return textMessage(pg.Message), nil
	}
	t := pg.Totals
	return textMessage(fmt.Sprintf("G %d A %d S %d PIM %d over %d games, scoring rate %.1f%%",
		t.Scores, t.Assists, t.Shots, t.Penalties, len(pg.Games), t.ScoringRate)), nil
}

func (LogNotifier) FormatPlayerNotFoundResponse(query string) (any, error) {
	return textMessage(fmt.Sprintf("No player matching %q", query)), nil
}

func textMessage(text string) slack.Message {
	return slack.Message{Msg: slack.Msg{Text: text}}
}
