package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"

	"github.com/google/uuid"
	"github.com/mauv0809/rinkstats/internal/hockey"
	"github.com/spf13/cobra"
)

var (
	opponent string
	gameDate string
	status   string
)

func init() {
	for _, cmd := range []*cobra.Command{outcomesCmd, shotsCmd, penaltiesCmd, leaderboardCmd} {
		cmd.Flags().StringVar(&opponent, "opponent", "", "Limit to one opponent")
		cmd.Flags().StringVar(&gameDate, "date", "", "Limit to one game date")
	}
	submitCmd.Flags().String("submission-id", "", "Reuse a submission id to make a resend idempotent")
	journalCmd.Flags().StringVar(&status, "status", "", "Filter by sync status (PENDING, SYNCING, SYNCED, FAILED)")

	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(teamsCmd)
	rootCmd.AddCommand(outcomesCmd)
	rootCmd.AddCommand(shotsCmd)
	rootCmd.AddCommand(penaltiesCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(journalCmd)
	rootCmd.AddCommand(metricsCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health", nil)
	},
}

var teamsCmd = &cobra.Command{
	Use:   "teams",
	Short: "List the teams on the roster",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/api/teams", nil)
	},
}

// teamView builds a command for one of the per-team dashboard views.
func teamView(view, short string) *cobra.Command {
	return &cobra.Command{
		Use:   view + " <team>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			if opponent != "" {
				q.Set("opponent", opponent)
			}
			if gameDate != "" {
				q.Set("date", gameDate)
			}
			return performGetRequest("/api/teams/"+url.PathEscape(args[0])+"/"+view, q)
		},
	}
}

var (
	outcomesCmd    = teamView("outcomes", "Show wins and losses for a team")
	shotsCmd       = teamView("shots", "Show shooting stats for a team")
	penaltiesCmd   = teamView("penalties", "Show penalty stats for a team")
	leaderboardCmd = teamView("leaderboard", "Show the scoring leaders of a team")
)

var submitCmd = &cobra.Command{
	Use:   "submit <kind> <file.csv>",
	Short: "Submit the rows of a CSV export as events of one kind",
	Long: `Reads a CSV file whose header uses the workbook column names and
submits every row as one batch. Pass the printed submission id back with
--submission-id to resend a batch without duplicating rows.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := hockey.ParseKind(args[0])
		if err != nil {
			return err
		}
		records, err := readCSV(args[1])
		if err != nil {
			return err
		}
		id, _ := cmd.Flags().GetString("submission-id")
		if id == "" {
			id = uuid.NewString()
		}
		body, err := json.Marshal(map[string]any{"submission_id": id, "records": records})
		if err != nil {
			return err
		}
		fmt.Printf("Submitting %d %s rows (submission %s)\n", len(records), kind, id)
		return performPostRequest("/api/events/"+string(kind), nil, body)
	},
}

var syncCmd = &cobra.Command{
	Use:   "sync [kind]",
	Short: "Push pending journal entries to the workbook",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		q := url.Values{}
		if len(args) == 1 {
			q.Set("kind", args[0])
		}
		return performPostRequest("/api/sync", q, nil)
	},
}

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "List journaled events and their sync status",
	RunE: func(cmd *cobra.Command, args []string) error {
		q := url.Values{}
		if status != "" {
			q.Set("status", status)
		}
		return performGetRequest("/api/journal", q)
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics", nil)
	},
}

// readCSV maps each data row onto the header.
func readCSV(path string) ([]map[string]any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s has no header", path)
	}
	header := rows[0]
	out := make([]map[string]any, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(map[string]any, len(header))
		for i, col := range header {
			if i < len(row) {
				rec[col] = row[i]
			}
		}
		out = append(out, rec)
	}
	return out, nil
}

func buildURL(endpoint string, q url.Values) string {
	if q == nil {
		q = url.Values{}
	}
	if dryRun {
		q.Set("dry_run", "true")
	}
	u := host + endpoint
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

func performGetRequest(endpoint string, q url.Values) error {
	u := buildURL(endpoint, q)
	fmt.Printf("Making request to %s\n", u)

	resp, err := http.Get(u)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	return printResponse(resp)
}

func performPostRequest(endpoint string, q url.Values, body []byte) error {
	u := buildURL(endpoint, q)
	fmt.Printf("Making request to %s\n", u)

	resp, err := http.Post(u, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	return printResponse(resp)
}

func printResponse(resp *http.Response) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	var pretty bytes.Buffer
	if json.Indent(&pretty, body, "", "  ") == nil {
		fmt.Println(pretty.String())
	} else {
		fmt.Println(string(body))
	}
	return nil
}
