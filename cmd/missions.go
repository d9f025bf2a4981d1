package cmd

import (
	"github.com/spf13/cobra"
)

var missionsCmd = &cobra.Command{
	Use:   "missions",
	Short: "Show today's missions",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		st, err := a.svc.EnsureMissions(cmd.Context(), a.profile)
		if err != nil {
			return err
		}
		writeMissions(cmd.OutOrStdout(), st)
		return nil
	},
}
