package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/kotoba-lab/questcore/internal/leveling"
	"github.com/kotoba-lab/questcore/internal/mission"
	"github.com/kotoba-lab/questcore/internal/progression"
	"github.com/kotoba-lab/questcore/internal/ui/components"
	"github.com/kotoba-lab/questcore/internal/ui/theme"
)

const barWidth = 24

func levelBar(s leveling.Stats) string {
	exp, next := s.Progress()
	return components.ProgressBar{
		Label:   fmt.Sprintf("Lv.%d", s.Level),
		Current: exp,
		Total:   next,
		Width:   barWidth,
	}.View()
}

func writeMissions(w io.Writer, st mission.State) {
	fmt.Fprintln(w, theme.Title.Render(fmt.Sprintf("今日のミッション (%s)", st.Date)))
	for _, m := range st.Missions {
		mark := theme.Pending.Render("□")
		if m.Completed {
			mark = theme.Done.Render("■")
		}
		progress := min(m.Progress, m.Target)
		fmt.Fprintf(w, "  %s %s  %s\n", mark, m.Description,
			theme.Subtitle.Render(fmt.Sprintf("%d/%d  +%d EXP", progress, m.Target, m.ExpReward)))
	}
}

func writeHome(w io.Writer, h *progression.Home) {
	who := "ゲスト"
	if h.UserInfo != nil {
		who = fmt.Sprintf("%s年 %s組 %s番", h.UserInfo.Grade, h.UserInfo.Class, h.UserInfo.StudentID)
	}
	fmt.Fprintln(w, theme.Title.Render("questcore")+"  "+theme.Subtitle.Render(who))
	fmt.Fprintln(w, levelBar(h.Stats))
	fmt.Fprintln(w)
	writeMissions(w, h.Missions)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "復習: %d問  苦手: %d問\n", h.ReviewCount, h.WeaknessCount)
}

func writeReport(w io.Writer, r *progression.FinishReport) {
	res := r.Result
	var b strings.Builder
	fmt.Fprintf(&b, "スコア %d   ランク %s\n", res.Score, theme.Rank(res.Rank))
	fmt.Fprintf(&b, "正解 %d / %d\n", res.CorrectAnswers, res.TotalQuestions)
	b.WriteString(theme.Body.Render(res.Comment))
	if r.NewBest {
		b.WriteString("\n" + theme.Notice.Render("ベストスコア更新！"))
	}
	fmt.Fprintln(w, theme.Card.Render(b.String()))

	for _, m := range r.CompletedMissions {
		fmt.Fprintln(w, theme.Notice.Render(fmt.Sprintf("ミッション達成！ %s (+%d EXP)", m.Description, m.ExpReward)))
	}
}

func writeLevelUp(w io.Writer, up *leveling.LevelUp) {
	fmt.Fprintln(w, theme.Notice.Render(fmt.Sprintf("レベルアップ！ Lv.%d → Lv.%d", up.From, up.To)))
}
