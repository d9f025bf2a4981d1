package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kotoba-lab/questcore/internal/ui/theme"
)

func runHome(cmd *cobra.Command) error {
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
	out := cmd.OutOrStdout()
	writeHome(out, h)

	if !h.LoggedIn() {
		fmt.Fprintln(out)
		fmt.Fprintln(out, theme.Hint.Render("questcore login --grade <学年> --class <組> --student-id <番号> でログインしてください。"))
		return nil
	}

	if pending := a.challenges.ListPending(ctx, learnerOf(h.UserInfo)); len(pending) > 0 {
		fmt.Fprintln(out, theme.Notice.Render(fmt.Sprintf("挑戦状が%d件届いています (questcore challenges)", len(pending))))
	}

	settings := a.challenges.AppSettings(ctx)
	if settings.ShowLogoutButton {
		fmt.Fprintln(out, theme.Hint.Render("ログアウト: questcore logout"))
	}
	if settings.ShowResetButton {
		fmt.Fprintln(out, theme.Hint.Render("記録のリセット: questcore reset --force"))
	}
	return nil
}
