package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/rinkstats/internal/metrics"
	"github.com/mauv0809/rinkstats/internal/notifier"
	"github.com/mauv0809/rinkstats/internal/pubsub"
	"github.com/mauv0809/rinkstats/internal/roster"
	"github.com/mauv0809/rinkstats/internal/stats"
	"github.com/slack-go/slack"
)

// leaderboardSize caps each leaderboard section.
const leaderboardSize = 5

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
	timeout   time.Duration
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	return NewNotifierWithAPI(slack.New(token), channelID, metrics)
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
		timeout:   10 * time.Second,
	}
}

func (s *Notifier) sendMessage(ctx context.Context, message slack.Message, dryRun bool) (string, string, error) {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-ts", "dry-run-thread-ts", nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)
	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", s.channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

func (s *Notifier) SendSyncNotification(ctx context.Context, msg pubsub.BatchSynced, dryRun bool) error {
	_, _, err := s.sendMessage(ctx, s.formatSyncNotification(msg), dryRun)
	return err
}

func (s *Notifier) SendSyncFailure(ctx context.Context, msg pubsub.SyncFailed, dryRun bool) error {
	_, _, err := s.sendMessage(ctx, s.formatSyncFailure(msg), dryRun)
	return err
}

// FormatLeaderboardResponse formats a leaderboard message for a slash command response.
func (s *Notifier) FormatLeaderboardResponse(lb stats.Leaderboard) (any, error) {
	return s.formatLeaderboard(lb), nil
}

// FormatPlayerStatsResponse formats a player stats message for a slash command response.
func (s *Notifier) FormatPlayerStatsResponse(pg stats.PlayerGames) (any, error) {
	return s.formatPlayerStats(pg), nil
}

// FormatPlayerNotFoundResponse formats a player not found message for a slash command response.
func (s *Notifier) FormatPlayerNotFoundResponse(query string) (any, error) {
	return s.formatPlayerNotFound(query), nil
}

func plain(text string) *slack.TextBlockObject {
	return slack.NewTextBlockObject("plain_text", text, true, false)
}

func mrkdwn(text string) *slack.TextBlockObject {
	return slack.NewTextBlockObject("mrkdwn", text, false, false)
}

// formatSyncNotification creates the Slack message for a committed batch using Block Kit.
func (s *Notifier) formatSyncNotification(msg pubsub.BatchSynced) slack.Message {
	blocks := []slack.Block{
		slack.NewHeaderBlock(plain(fmt.Sprintf("🏒 %d new %s rows saved", msg.Count, msg.Kind))),
	}

	details := fmt.Sprintf("*Sheet*: %s\n*Rows now*: %d", msg.Sheet, msg.Total)
	if len(msg.Teams) > 0 {
		details += "\n*Teams*: " + strings.Join(msg.Teams, ", ")
	}
	blocks = append(blocks, slack.NewSectionBlock(mrkdwn(details), nil, nil))

	var contextElements []slack.MixedElement
	if msg.Attempts > 1 {
		contextElements = append(contextElements, plain(fmt.Sprintf("Saved after %d attempts", msg.Attempts)))
	}
	if msg.BackupKey != "" {
		contextElements = append(contextElements, plain("Backup: "+msg.BackupKey))
	}
	if len(contextElements) > 0 {
		blocks = append(blocks, slack.NewContextBlock("", contextElements...))
	}
	return slack.NewBlockMessage(blocks...)
}

// formatSyncFailure creates the Slack message for a sync that gave up.
func (s *Notifier) formatSyncFailure(msg pubsub.SyncFailed) slack.Message {
	text := fmt.Sprintf("%d %s events are still waiting to be saved.\n> %s", msg.Pending, msg.Kind, msg.Error)
	return slack.NewBlockMessage(
		slack.NewHeaderBlock(plain("⚠️ Workbook sync failed")),
		slack.NewSectionBlock(mrkdwn(text), nil, nil),
	)
}

// formatLeaderboard creates a Slack message to display the team leaderboard.
func (s *Notifier) formatLeaderboard(lb stats.Leaderboard) slack.Message {
	blocks := []slack.Block{
		slack.NewHeaderBlock(plain(fmt.Sprintf("🏆 %s Leaderboard 🏆", lb.Query.Team))),
	}

	if lb.Message != "" {
		blocks = append(blocks, slack.NewSectionBlock(plain(lb.Message), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	sections := []struct {
		title   string
		leaders []stats.Leader
	}{
		{"Goals", lb.Scores},
		{"Assists", lb.Assists},
		{"Shots", lb.Shots},
		{"Penalties", lb.Penalties},
	}
	for _, sec := range sections {
		if len(sec.leaders) == 0 {
			continue
		}
		var lines []string
		for i, l := range sec.leaders {
			if i == leaderboardSize {
				break
			}
			lines = append(lines, fmt.Sprintf("%d. %s%s (%d)", i+1, medal(i+1), playerName(l.JerseyNumber, l.Player), l.Count))
		}
		text := fmt.Sprintf("*%s*\n%s", sec.title, strings.Join(lines, "\n"))
		blocks = append(blocks, slack.NewSectionBlock(mrkdwn(text), nil, nil))
	}
	return slack.NewBlockMessage(blocks...)
}

// formatPlayerStats creates a Slack message to display a single player's per-game stats.
func (s *Notifier) formatPlayerStats(pg stats.PlayerGames) slack.Message {
	name := pg.Query.Team
	if pg.Query.Player != nil {
		name = playerName(*pg.Query.Player, pg.Player)
	}
	blocks := []slack.Block{
		slack.NewHeaderBlock(plain(fmt.Sprintf("🏒 Stats for %s", name))),
	}

	if pg.Message != "" {
		blocks = append(blocks, slack.NewSectionBlock(plain(pg.Message), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	t := pg.Totals
	summary := fmt.Sprintf("> *Games*: %d\n> *Goals*: %d\n> *Assists*: %d\n> *Shots*: %d\n> *Penalties*: %d\n> *Scoring rate*: %.1f%%",
		len(pg.Games),
		t.Scores,
		t.Assists,
		t.Shots,
		t.Penalties,
		t.ScoringRate,
	)
	blocks = append(blocks, slack.NewSectionBlock(mrkdwn(summary), nil, nil))

	var fields []*slack.TextBlockObject
	for _, g := range pg.Games {
		if len(fields) == 10 {
			break
		}
		fields = append(fields, plain(fmt.Sprintf("%s vs %s\nG %d  A %d  S %d  P %d",
			g.GameDate, g.Opponent, g.Scores, g.Assists, g.Shots, g.Penalties)))
	}
	if len(fields) > 0 {
		blocks = append(blocks, slack.NewSectionBlock(plain("Recent games"), fields, nil))
	}
	return slack.NewBlockMessage(blocks...)
}

// formatPlayerNotFound creates a Slack message for when a player's stats are not found.
func (s *Notifier) formatPlayerNotFound(query string) slack.Message {
	text := fmt.Sprintf("Sorry, I couldn't find a player matching *%s*. Try `<team> <name or jersey>`.", query)
	return slack.NewBlockMessage(
		slack.NewSectionBlock(mrkdwn(text), nil, nil),
	)
}

func medal(rank int) string {
	switch rank {
	case 1:
		return "🥇 "
	case 2:
		return "🥈 "
	case 3:
		return "🥉 "
	}
	return ""
}

func playerName(jersey int, p *roster.Identity) string {
	if p == nil {
		return fmt.Sprintf("#%d", jersey)
	}
	return fmt.Sprintf("#%d %s", jersey, p.DisplayName())
}
