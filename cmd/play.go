package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kotoba-lab/questcore/internal/catalog"
	"github.com/kotoba-lab/questcore/internal/challenge"
	"github.com/kotoba-lab/questcore/internal/progression"
	"github.com/kotoba-lab/questcore/internal/selection"
	"github.com/kotoba-lab/questcore/internal/ui/theme"
)

// quitWord ends a game early; answers given so far still count.
const quitWord = ":q"

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a game",
	Long: "Play a game of up to 20 questions. --category accepts a grammar category, " +
		"or one of all, review and weakness. Type " + quitWord + " to stop early.",
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, _ := cmd.Flags().GetString("mode")
		category, _ := cmd.Flags().GetString("category")
		challengeID, _ := cmd.Flags().GetString("challenge")

		scope := selection.Scope(category)
		if _, known := scope.Category(); !known && !scope.Pseudo() {
			return fmt.Errorf("unknown category %q (see questcore questions --categories)", category)
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		ctx := cmd.Context()
		out := cmd.OutOrStdout()
		req := progression.StartRequest{Mode: selection.Mode(mode), Scope: scope}

		var entry *challenge.Entry
		if challengeID != "" {
			h, err := a.svc.Home(ctx, a.profile)
			if err != nil {
				return err
			}
			entry = findChallenge(a.challenges.ListPending(ctx, learnerOf(h.UserInfo)), challengeID)
			if entry == nil {
				return fmt.Errorf("challenge %q not found", challengeID)
			}
			req = progression.StartRequest{
				Mode:        entry.Mode,
				Scope:       entry.Scope,
				QuestionIDs: entry.QuestionIDs,
				ChallengeID: entry.ID,
			}
			fmt.Fprintf(out, "%sさんからの挑戦状  目標スコア %d\n\n", entry.ChallengerName, entry.TargetScore)
		}

		sess, err := a.svc.StartSession(ctx, a.profile, req)
		if selection.IsEmptyResult(err) {
			fmt.Fprintln(out, theme.Notice.Render(err.Error()))
			return nil
		}
		if err != nil {
			return err
		}

		answers := askAll(cmd.InOrStdin(), out, sess)
		if len(answers) == 0 {
			fmt.Fprintln(out, "中断しました。")
			return nil
		}

		report, err := a.svc.FinishSession(ctx, a.profile, sess, answers)
		if err != nil {
			return err
		}
		fmt.Fprintln(out)
		writeReport(out, report)
		if report.LevelUp != nil {
			time.Sleep(report.LevelUpDelay)
			writeLevelUp(out, report.LevelUp)
		}
		if entry != nil {
			if report.Result.Score >= entry.TargetScore {
				fmt.Fprintln(out, theme.Notice.Render("挑戦成功！"))
			} else {
				fmt.Fprintln(out, "挑戦失敗… また挑戦しよう。")
			}
		}
		return nil
	},
}

func init() {
	playCmd.Flags().String("mode", string(selection.ModeTest), "Question format: select, input, sort or test")
	playCmd.Flags().String("category", string(selection.ScopeAll), "Grammar category, all, review or weakness")
	playCmd.Flags().String("challenge", "", "Accept a pending challenge by id")
}

func findChallenge(entries []challenge.Entry, id string) *challenge.Entry {
	for i := range entries {
		if entries[i].ID == id {
			return &entries[i]
		}
	}
	return nil
}

// askAll prompts for every question and returns the answers given before
// the learner quit or input ended.
func askAll(in io.Reader, out io.Writer, sess *progression.Session) []progression.Answer {
	scanner := bufio.NewScanner(in)
	answers := make([]progression.Answer, 0, len(sess.Questions))

	for i, q := range sess.Questions {
		fmt.Fprintf(out, "\n%s %s\n", theme.Subtitle.Render(fmt.Sprintf("Q%d/%d [%s]", i+1, len(sess.Questions), q.Category)), q.Prompt)
		switch q.Type {
		case catalog.TypeSelect:
			for j, c := range q.Choices {
				fmt.Fprintf(out, "  %d) %s\n", j+1, c)
			}
		case catalog.TypeSort:
			fmt.Fprintf(out, "  %s\n", strings.Join(q.Words, " / "))
		}
		fmt.Fprint(out, "> ")

		start := time.Now()
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == quitWord {
			break
		}
		resp := choiceText(q, line)
		a := progression.Answer{QuestionID: q.ID, Response: resp, Elapsed: time.Since(start)}
		answers = append(answers, a)

		if q.Accepts(resp) {
			fmt.Fprintln(out, theme.Mark(true), theme.Correct.Render("正解！"))
		} else {
			fmt.Fprintln(out, theme.Mark(false), theme.Incorrect.Render("不正解"), "正解: "+q.Answer)
		}
	}
	return answers
}

// choiceText maps a numbered pick to its choice. Anything else is taken as
// the answer text.
func choiceText(q catalog.Question, line string) string {
	if q.Type != catalog.TypeSelect {
		return line
	}
	n, err := strconv.Atoi(line)
	if err != nil || n < 1 || n > len(q.Choices) {
		return line
	}
	return q.Choices[n-1]
}
