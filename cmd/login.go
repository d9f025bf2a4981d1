package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kotoba-lab/questcore/internal/store"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with grade, class and student number",
	RunE: func(cmd *cobra.Command, args []string) error {
		grade, _ := cmd.Flags().GetString("grade")
		class, _ := cmd.Flags().GetString("class")
		studentID, _ := cmd.Flags().GetString("student-id")

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		info := store.UserInfoData{Grade: grade, Class: class, StudentID: studentID}
		h, err := a.svc.Login(cmd.Context(), a.profile, info)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		writeHome(out, h)

		if pending := a.challenges.ListPending(cmd.Context(), learnerOf(h.UserInfo)); len(pending) > 0 {
			fmt.Fprintf(out, "挑戦状が%d件届いています (questcore challenges)\n", len(pending))
		}
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out (progress is kept)",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.svc.Logout(cmd.Context(), a.profile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "ログアウトしました。")
		return nil
	},
}

func init() {
	loginCmd.Flags().String("grade", "", "Grade (学年)")
	loginCmd.Flags().String("class", "", "Class (組)")
	loginCmd.Flags().String("student-id", "", "Student number (番号)")
	_ = loginCmd.MarkFlagRequired("grade")
	_ = loginCmd.MarkFlagRequired("class")
	_ = loginCmd.MarkFlagRequired("student-id")
}
