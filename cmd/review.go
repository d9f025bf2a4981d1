package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "List missed questions and how many are due for review",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		ctx := cmd.Context()
		h, err := a.svc.Home(ctx, a.profile)
		if err != nil {
			return err
		}
		missed, err := a.svc.Missed(ctx, a.profile)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		fmt.Fprintf(out, "今日の復習: %d問 (questcore play --category review)\n", h.ReviewCount)
		fmt.Fprintf(out, "苦手な問題: %d問 (questcore play --category weakness)\n\n", len(missed))
		if len(missed) == 0 {
			return nil
		}

		fmt.Fprintf(out, "%4s  %-40s  %s\n", "ID", "Question", "Answer")
		fmt.Fprintln(out, strings.Repeat("─", 80))
		for _, q := range missed {
			fmt.Fprintf(out, "%4d  %-40s  %s\n", q.ID, q.Prompt, q.Answer)
		}
		return nil
	},
}
