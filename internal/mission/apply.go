package mission

import (
	"github.com/kotoba-lab/questcore/internal/scoring"
	"github.com/kotoba-lab/questcore/internal/selection"
)

// SessionContext describes the finished session a result came from.
type SessionContext struct {
	Scope selection.Scope
}

// Apply advances every incomplete mission by the progress a session result
// earns. It returns the new state, the missions completed by this result,
// and the exp they award. Completed missions are never touched again, so a
// result can't award the same mission twice.
func Apply(st State, res scoring.GameResult, sc SessionContext) (State, []Mission, int) {
	out := st.clone()
	var completed []Mission
	exp := 0

	for i := range out.Missions {
		m := &out.Missions[i]
		if m.Completed {
			continue
		}

		if inc := increment(*m, res, sc); inc > 0 {
			m.Progress += inc
		}
		if m.Progress >= m.Target {
			m.Completed = true
			completed = append(completed, *m)
			exp += m.ExpReward
		}
	}
	return out, completed, exp
}

// increment returns the progress a result earns toward m.
func increment(m Mission, res scoring.GameResult, sc SessionContext) int {
	switch m.Type {
	case TypeAnswerTotal:
		return res.TotalQuestions
	case TypeSolveCategory:
		if !sc.Scope.Rankable() {
			return 0
		}
		if m.Category == AnyCategory || m.Category == string(sc.Scope) {
			return res.CorrectAnswers
		}
	case TypeGetRank:
		if m.Rank != "" && res.Rank.AtLeast(m.Rank) {
			return 1
		}
	case TypePerfectGame:
		if res.Perfect() {
			return 1
		}
	}
	return 0
}
