package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Erase levels, missions, mastery and the missed-question list",
	RunE: func(cmd *cobra.Command, args []string) error {
		if force, _ := cmd.Flags().GetBool("force"); !force {
			return errors.New("reset erases all progress; re-run with --force to confirm")
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.svc.Reset(cmd.Context(), a.profile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "記録をリセットしました。")
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("force", false, "Confirm the reset")
}
