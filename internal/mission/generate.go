package mission

import (
	"fmt"

	"github.com/kotoba-lab/questcore/internal/calendar"
	"github.com/kotoba-lab/questcore/internal/catalog"
	"github.com/kotoba-lab/questcore/internal/leveling"
	"github.com/kotoba-lab/questcore/internal/scoring"
)

// Shuffler permutes n elements through swap. *rand.Rand from math/rand/v2
// satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// MinAttemptsForWeakness is the number of answers a category needs beyond
// which it can be chosen as the weak category.
const MinAttemptsForWeakness = 2

// Mission rewards and targets.
const (
	WeakCategoryTarget = 5
	WeakCategoryExp    = 75
	AnyCategoryTarget  = 10
	AnyCategoryExp     = 50
	RankTarget         = 1
	RankExp            = 100
	AnswerTotalTarget  = 20
	AnswerTotalExp     = 50
)

// RequiredRank is the rank the daily rank mission asks for.
const RequiredRank = scoring.RankB

// WeakCategory returns the category with the lowest correct/total ratio
// among categories answered more than MinAttemptsForWeakness times. Ties go
// to the category listed first in catalog.AllCategories.
func WeakCategory(stats leveling.Stats) (catalog.Category, bool) {
	var best catalog.Category
	var bestStat leveling.CategoryStat
	found := false

	for _, cat := range catalog.AllCategories() {
		cs, ok := stats.CategoryStats[cat]
		if !ok || cs.Total <= MinAttemptsForWeakness {
			continue
		}
		// a/b < c/d  <=>  a*d < c*b for positive b, d.
		if !found || cs.Correct*bestStat.Total < bestStat.Correct*cs.Total {
			best, bestStat, found = cat, cs, true
		}
	}
	return best, found
}

// Generate builds a fresh mission set for today from the learner's stats.
// The display order is shuffled with rnd; a nil rnd keeps the assembly order.
func Generate(stats leveling.Stats, today calendar.Date, rnd Shuffler) State {
	var missions []Mission

	if weak, ok := WeakCategory(stats); ok {
		missions = append(missions, Mission{
			ID:          "cat_1",
			Type:        TypeSolveCategory,
			Description: fmt.Sprintf("「%s」の問題を%d問正解しよう", weak, WeakCategoryTarget),
			Target:      WeakCategoryTarget,
			Category:    string(weak),
			ExpReward:   WeakCategoryExp,
		})
	} else {
		missions = append(missions, Mission{
			ID:          "cat_generic_1",
			Type:        TypeSolveCategory,
			Description: fmt.Sprintf("好きな分野の問題を%d問正解しよう", AnyCategoryTarget),
			Target:      AnyCategoryTarget,
			Category:    AnyCategory,
			ExpReward:   AnyCategoryExp,
		})
	}

	missions = append(missions,
		Mission{
			ID:          "rank_1",
			Type:        TypeGetRank,
			Description: fmt.Sprintf("%sランク以上を%d回取ろう", RequiredRank, RankTarget),
			Target:      RankTarget,
			Rank:        RequiredRank,
			ExpReward:   RankExp,
		},
		Mission{
			ID:          "total_1",
			Type:        TypeAnswerTotal,
			Description: fmt.Sprintf("合計%d問に解答しよう", AnswerTotalTarget),
			Target:      AnswerTotalTarget,
			ExpReward:   AnswerTotalExp,
		},
	)

	if len(missions) > MaxMissions {
		missions = missions[:MaxMissions]
	}
	if rnd != nil {
		rnd.Shuffle(len(missions), func(i, j int) {
			missions[i], missions[j] = missions[j], missions[i]
		})
	}

	return State{Date: today, Missions: missions}
}

// EnsureToday returns cur unchanged when it already belongs to today, and a
// newly generated state otherwise. The bool reports whether a new state was
// generated and needs saving.
func EnsureToday(cur *State, stats leveling.Stats, today calendar.Date, rnd Shuffler) (State, bool) {
	if cur != nil && cur.Current(today) {
		return cur.clone(), false
	}
	return Generate(stats, today, rnd), true
}
