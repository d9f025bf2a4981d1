package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kotoba-lab/questcore/internal/catalog"
	"github.com/kotoba-lab/questcore/internal/mastery"
	"github.com/kotoba-lab/questcore/internal/ui/theme"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show level, per-category accuracy and mastery",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		h, err := a.svc.Home(cmd.Context(), a.profile)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		s := h.Stats

		fmt.Fprintln(out, levelBar(s))
		fmt.Fprintf(out, "プレイ回数 %d  ベストスコア %d  解答数 %d\n\n", s.Plays, s.BestScore, s.TotalAnswered())

		fmt.Fprintf(out, "%-20s  %7s  %6s\n", "Category", "Correct", "Rate")
		fmt.Fprintln(out, strings.Repeat("─", 40))
		for _, c := range catalog.AllCategories() {
			cs, ok := s.CategoryStats[c]
			if !ok || cs.Total == 0 {
				fmt.Fprintf(out, "%-20s  %7s  %6s\n", c, "-", "-")
				continue
			}
			fmt.Fprintf(out, "%-20s  %3d/%-3d  %5.0f%%\n", c, cs.Correct, cs.Total, cs.Rate()*100)
		}

		fmt.Fprintln(out)
		fmt.Fprintln(out, theme.Title.Render("習熟度"))
		for _, lv := range []mastery.Level{mastery.LevelNew, mastery.LevelLearning, mastery.LevelMastered} {
			fmt.Fprintf(out, "  %-9s %d\n", lv, h.MasteryCounts[lv])
		}
		return nil
	},
}
