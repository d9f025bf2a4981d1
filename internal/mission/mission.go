package mission

import (
	"github.com/kotoba-lab/questcore/internal/calendar"
	"github.com/kotoba-lab/questcore/internal/scoring"
)

// Type is the kind of progress a mission counts.
type Type string

const (
	TypeSolveCategory Type = "solve_category"
	TypeGetRank       Type = "get_rank"
	TypeAnswerTotal   Type = "answer_total"
	TypePerfectGame   Type = "perfect_game"
)

// AnyCategory is the category of a solve_category mission that any
// rankable session counts toward.
const AnyCategory = "all"

// MaxMissions is the number of missions kept per day.
const MaxMissions = 3

// Mission is one daily objective.
type Mission struct {
	ID          string
	Type        Type
	Description string
	Target      int
	Progress    int
	Completed   bool
	Category    string       // solve_category only
	Rank        scoring.Rank // get_rank only
	ExpReward   int
}

// State is the mission set of one calendar day.
type State struct {
	Date     calendar.Date
	Missions []Mission
}

// Current reports whether the state belongs to today.
func (s State) Current(today calendar.Date) bool {
	return s.Date == today && len(s.Missions) > 0
}

// CompletedCount returns how many missions are done.
func (s State) CompletedCount() int {
	n := 0
	for _, m := range s.Missions {
		if m.Completed {
			n++
		}
	}
	return n
}

func (s State) clone() State {
	out := State{Date: s.Date, Missions: make([]Mission, len(s.Missions))}
	copy(out.Missions, s.Missions)
	return out
}
