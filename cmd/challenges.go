package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kotoba-lab/questcore/internal/challenge"
)

var challengesCmd = &cobra.Command{
	Use:   "challenges",
	Short: "List challenges sent by other learners",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		out := cmd.OutOrStdout()
		if !a.challenges.Enabled() {
			fmt.Fprintln(out, "Challenge service not configured (set QUESTCORE_CHALLENGE_URL).")
			return nil
		}
		entries, err := pendingChallenges(cmd, a)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Fprintln(out, "挑戦状はありません。")
			return nil
		}

		// Header.
		fmt.Fprintf(out, "%-14s  %-12s  %-6s  %-20s  %9s  %s\n",
			"ID", "From", "Mode", "Category", "Questions", "Target")
		fmt.Fprintln(out, strings.Repeat("─", 80))
		for _, e := range entries {
			fmt.Fprintf(out, "%-14s  %-12s  %-6s  %-20s  %9d  %d\n",
				e.ID, e.ChallengerName, e.Mode, e.Scope, len(e.QuestionIDs), e.TargetScore)
		}
		fmt.Fprintln(out, "\nAccept with: questcore play --challenge <id>")
		return nil
	},
}

var challengesDeclineCmd = &cobra.Command{
	Use:   "decline <id>",
	Short: "Decline a challenge",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		entries, err := pendingChallenges(cmd, a)
		if err != nil {
			return err
		}
		if findChallenge(entries, args[0]) == nil {
			return fmt.Errorf("challenge %q not found", args[0])
		}
		a.svc.DeclineChallenge(cmd.Context(), args[0])
		fmt.Fprintln(cmd.OutOrStdout(), "挑戦状を辞退しました。")
		return nil
	},
}

func init() {
	challengesCmd.AddCommand(challengesDeclineCmd)
}

func pendingChallenges(cmd *cobra.Command, a *app) ([]challenge.Entry, error) {
	h, err := a.svc.Home(cmd.Context(), a.profile)
	if err != nil {
		return nil, err
	}
	if !h.LoggedIn() {
		return nil, fmt.Errorf("not logged in; run questcore login first")
	}
	return a.challenges.ListPending(cmd.Context(), learnerOf(h.UserInfo)), nil
}
