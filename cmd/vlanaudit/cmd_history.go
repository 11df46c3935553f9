package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/newtron-network/vlanaudit/pkg/cli"
	"github.com/newtron-network/vlanaudit/pkg/history"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "View past audit runs",
		Long: `View the run history log (~/.vlanaudit/history.log by default).

Every 'run' records its run ID, user, input folder, report path, device and
row counts, per-color counts, outcome and duration.

Examples:
  vlanaudit history list
  vlanaudit history list --last 7d
  vlanaudit history list --failures --json`,
	}
	cmd.AddCommand(newHistoryListCmd())
	return cmd
}

func newHistoryListCmd() *cobra.Command {
	var (
		input      string
		user       string
		last       string
		limit      int
		failures   bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:         "list",
		Short:       "List recorded runs, newest first",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{needsHistory: ""},
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := history.Filter{
				InputDir:    input,
				User:        user,
				Limit:       limit,
				FailureOnly: failures,
			}
			if last != "" {
				d, err := parseLast(last)
				if err != nil {
					return err
				}
				filter.StartTime = time.Now().Add(-d)
			}

			events, err := history.Query(filter)
			if err != nil {
				return fmt.Errorf("querying run history: %w", err)
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				return json.NewEncoder(out).Encode(events)
			}
			if len(events) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}

			t := cli.NewTableTo(out, "TIMESTAMP", "RUN", "USER", "INPUT", "DEVICES", "ROWS", "RED", "DURATION", "STATUS")
			for _, e := range events {
				status := green("ok")
				if !e.Success {
					status = red("failed")
				}
				t.Row(
					e.Timestamp.Local().Format("2006-01-02 15:04:05"),
					shortID(e.ID),
					e.User,
					e.InputDir,
					strconv.Itoa(e.Devices),
					strconv.Itoa(e.Rows),
					strconv.Itoa(e.ColorCounts["Red"]),
					e.Duration.Round(time.Millisecond).String(),
					status,
				)
			}
			t.Flush()
			return nil
		},
	}

	cmd.Flags().StringVar(&input, "input", "", "Filter by input folder")
	cmd.Flags().StringVar(&user, "user", "", "Filter by user")
	cmd.Flags().StringVar(&last, "last", "", "Show runs from last duration (e.g., 24h, 7d)")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum runs to show")
	cmd.Flags().BoolVar(&failures, "failures", false, "Show only failed runs")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "JSON output")
	return cmd
}

// parseLast accepts time.ParseDuration syntax plus a whole-day "Nd" form.
func parseLast(s string) (time.Duration, error) {
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err == nil && n >= 0 {
			return time.Duration(n) * 24 * time.Hour, nil
		}
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid duration: %s", s)
	}
	return d, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
