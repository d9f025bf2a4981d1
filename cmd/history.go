package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kotoba-lab/questcore/internal/ui/theme"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recently answered questions",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		records, err := a.svc.History(cmd.Context(), a.profile, limit)
		if err != nil {
			return fmt.Errorf("query play log: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(records) == 0 {
			fmt.Fprintln(out, "No games played yet.")
			return nil
		}

		// Header.
		fmt.Fprintf(out, "%-6s  %-19s  %-8s  %4s  %-20s  %s\n",
			"Seq", "Timestamp", "Session", "Q", "Category", "OK")
		fmt.Fprintln(out, strings.Repeat("─", 72))
		for _, r := range records {
			fmt.Fprintf(out, "%-6d  %-19s  %-8s  %4d  %-20s  %s\n",
				r.Sequence,
				r.Timestamp.Local().Format("2006-01-02 15:04:05"),
				r.SessionID[:min(8, len(r.SessionID))],
				r.QuestionID,
				r.Category,
				theme.Mark(r.IsCorrect))
		}
		fmt.Fprintf(out, "\n%d entries\n", len(records))
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 50, "Maximum number of entries")
}
