package progression

import (
	"github.com/kotoba-lab/questcore/internal/leveling"
	"github.com/kotoba-lab/questcore/internal/mastery"
	"github.com/kotoba-lab/questcore/internal/mission"
	"github.com/kotoba-lab/questcore/internal/store"
)

// Home summarizes a learner for the home screen.
type Home struct {
	UserInfo *store.UserInfoData // nil when logged out
	Stats    leveling.Stats
	Missions mission.State

	// Exp and ExpToNext describe progress through the current level.
	Exp       int
	ExpToNext int

	WeaknessCount int
	ReviewCount   int
	MasteryCounts map[mastery.Level]int
}

// LoggedIn reports whether a user identity is stored.
func (h *Home) LoggedIn() bool { return h.UserInfo != nil }

func (s *Service) home(l *learner) *Home {
	exp, next := l.stats.Progress()
	h := &Home{
		UserInfo:      l.info,
		Stats:         l.stats,
		Exp:           exp,
		ExpToNext:     next,
		WeaknessCount: l.missed.Len(),
		ReviewCount:   len(l.mastery.QuestionsDueForReview(s.today())),
		MasteryCounts: l.mastery.CountByLevel(),
	}
	if l.missions != nil {
		h.Missions = *l.missions
	}
	return h
}
