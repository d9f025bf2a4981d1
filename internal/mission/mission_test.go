package mission

import (
	"math/rand/v2"
	"reflect"
	"testing"

	"github.com/kotoba-lab/questcore/internal/calendar"
	"github.com/kotoba-lab/questcore/internal/catalog"
	"github.com/kotoba-lab/questcore/internal/leveling"
	"github.com/kotoba-lab/questcore/internal/scoring"
	"github.com/kotoba-lab/questcore/internal/selection"
)

const today = calendar.Date("2025-04-10")

func statsWith(cs map[catalog.Category]leveling.CategoryStat) leveling.Stats {
	s := leveling.NewStats()
	for k, v := range cs {
		s.CategoryStats[k] = v
	}
	return s
}

func missionIDs(st State) []string {
	out := make([]string, len(st.Missions))
	for i, m := range st.Missions {
		out[i] = m.ID
	}
	return out
}

func find(t *testing.T, st State, id string) Mission {
	t.Helper()
	for _, m := range st.Missions {
		if m.ID == id {
			return m
		}
	}
	t.Fatalf("mission %s not found in %v", id, missionIDs(st))
	return Mission{}
}

func TestWeakCategory(t *testing.T) {
	tests := []struct {
		name   string
		stats  map[catalog.Category]leveling.CategoryStat
		want   catalog.Category
		wantOK bool
	}{
		{
			name: "lowest ratio",
			stats: map[catalog.Category]leveling.CategoryStat{
				catalog.CategoryFuture:     {Correct: 1, Total: 5},
				catalog.CategoryComparison: {Correct: 4, Total: 5},
			},
			want: catalog.CategoryFuture, wantOK: true,
		},
		{
			name: "needs more than two attempts",
			stats: map[catalog.Category]leveling.CategoryStat{
				catalog.CategoryFuture:  {Correct: 0, Total: 2},
				catalog.CategoryPassive: {Correct: 2, Total: 3},
			},
			want: catalog.CategoryPassive, wantOK: true,
		},
		{
			name: "tie goes to enumeration order",
			stats: map[catalog.Category]leveling.CategoryStat{
				catalog.CategoryPassive:    {Correct: 1, Total: 4},
				catalog.CategoryComparison: {Correct: 2, Total: 8},
			},
			want: catalog.CategoryComparison, wantOK: true,
		},
		{
			name:  "no eligible category",
			stats: map[catalog.Category]leveling.CategoryStat{catalog.CategoryFuture: {Correct: 0, Total: 1}},
		},
		{
			name: "empty stats",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := WeakCategory(statsWith(tt.stats))
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("WeakCategory = %q, %v; want %q, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestGenerate_WeakCategoryMission(t *testing.T) {
	st := Generate(statsWith(map[catalog.Category]leveling.CategoryStat{
		catalog.CategoryFuture:     {Correct: 1, Total: 5},
		catalog.CategoryComparison: {Correct: 4, Total: 5},
	}), today, nil)

	if st.Date != today {
		t.Errorf("Date = %s, want %s", st.Date, today)
	}
	if !reflect.DeepEqual(missionIDs(st), []string{"cat_1", "rank_1", "total_1"}) {
		t.Fatalf("ids = %v", missionIDs(st))
	}
	m := find(t, st, "cat_1")
	if m.Category != string(catalog.CategoryFuture) || m.Target != 5 || m.ExpReward != 75 {
		t.Errorf("cat_1 = %+v, want 未来/5/75", m)
	}
	if m.Description != "「未来」の問題を5問正解しよう" {
		t.Errorf("Description = %q", m.Description)
	}

	r := find(t, st, "rank_1")
	if r.Type != TypeGetRank || r.Rank != scoring.RankB || r.Target != 1 || r.ExpReward != 100 {
		t.Errorf("rank_1 = %+v", r)
	}
	tot := find(t, st, "total_1")
	if tot.Type != TypeAnswerTotal || tot.Target != 20 || tot.ExpReward != 50 {
		t.Errorf("total_1 = %+v", tot)
	}
}

func TestGenerate_GenericFallback(t *testing.T) {
	st := Generate(leveling.NewStats(), today, nil)
	m := find(t, st, "cat_generic_1")
	if m.Category != AnyCategory || m.Target != 10 || m.ExpReward != 50 {
		t.Errorf("cat_generic_1 = %+v, want all/10/50", m)
	}
	if m.Description != "好きな分野の問題を10問正解しよう" {
		t.Errorf("Description = %q", m.Description)
	}
}

func TestGenerate_ShufflesWithInjectedSource(t *testing.T) {
	a := Generate(leveling.NewStats(), today, rand.New(rand.NewPCG(7, 7)))
	b := Generate(leveling.NewStats(), today, rand.New(rand.NewPCG(7, 7)))
	if !reflect.DeepEqual(missionIDs(a), missionIDs(b)) {
		t.Errorf("same seed gave %v and %v", missionIDs(a), missionIDs(b))
	}
	if len(a.Missions) != MaxMissions {
		t.Errorf("len = %d, want %d", len(a.Missions), MaxMissions)
	}
}

func TestEnsureToday(t *testing.T) {
	stats := leveling.NewStats()
	first, created := EnsureToday(nil, stats, today, nil)
	if !created {
		t.Fatal("expected generation when state is absent")
	}

	first.Missions[0].Progress = 4
	again, created := EnsureToday(&first, stats, today, rand.New(rand.NewPCG(1, 1)))
	if created {
		t.Error("same-day call regenerated")
	}
	if !reflect.DeepEqual(again, first) {
		t.Errorf("same-day state changed: %+v", again)
	}

	next, created := EnsureToday(&first, stats, today.AddDays(1), nil)
	if !created || next.Date != today.AddDays(1) {
		t.Errorf("stale state not regenerated: %+v", next)
	}
	for _, m := range next.Missions {
		if m.Progress != 0 || m.Completed {
			t.Errorf("new day mission %s carries progress", m.ID)
		}
	}
}

func dayState() State {
	return State{Date: today, Missions: []Mission{
		{ID: "cat_1", Type: TypeSolveCategory, Target: 5, Category: string(catalog.CategoryFuture), ExpReward: 75},
		{ID: "rank_1", Type: TypeGetRank, Target: 1, Rank: scoring.RankB, ExpReward: 100},
		{ID: "total_1", Type: TypeAnswerTotal, Target: 20, ExpReward: 50},
	}}
}

func TestApply_ProgressRules(t *testing.T) {
	tests := []struct {
		name     string
		res      scoring.GameResult
		scope    selection.Scope
		wantProg map[string]int
		wantDone []string
		wantExp  int
	}{
		{
			name:     "matching category, rank C",
			res:      scoring.GameResult{CorrectAnswers: 3, TotalQuestions: 10, Rank: scoring.RankC},
			scope:    selection.CategoryScope(catalog.CategoryFuture),
			wantProg: map[string]int{"cat_1": 3, "rank_1": 0, "total_1": 10},
		},
		{
			name:     "other category",
			res:      scoring.GameResult{CorrectAnswers: 8, TotalQuestions: 10, Rank: scoring.RankD},
			scope:    selection.CategoryScope(catalog.CategoryPassive),
			wantProg: map[string]int{"cat_1": 0, "rank_1": 0, "total_1": 10},
		},
		{
			name:     "review session does not count for category",
			res:      scoring.GameResult{CorrectAnswers: 9, TotalQuestions: 20, Rank: scoring.RankA},
			scope:    selection.ScopeReview,
			wantProg: map[string]int{"cat_1": 0, "rank_1": 1, "total_1": 20},
			wantDone: []string{"rank_1", "total_1"},
			wantExp:  150,
		},
		{
			name:     "rank B exactly",
			res:      scoring.GameResult{CorrectAnswers: 6, TotalQuestions: 6, Rank: scoring.RankB},
			scope:    selection.CategoryScope(catalog.CategoryFuture),
			wantProg: map[string]int{"cat_1": 6, "rank_1": 1, "total_1": 6},
			wantDone: []string{"cat_1", "rank_1"},
			wantExp:  175,
		},
		{
			name:     "rank S beats required B",
			res:      scoring.GameResult{CorrectAnswers: 4, TotalQuestions: 4, Rank: scoring.RankS},
			scope:    selection.CategoryScope(catalog.CategoryPassive),
			wantProg: map[string]int{"cat_1": 0, "rank_1": 1, "total_1": 4},
			wantDone: []string{"rank_1"},
			wantExp:  100,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := dayState()
			got, done, exp := Apply(st, tt.res, SessionContext{Scope: tt.scope})
			for id, want := range tt.wantProg {
				if p := find(t, got, id).Progress; p != want {
					t.Errorf("%s progress = %d, want %d", id, p, want)
				}
			}
			var doneIDs []string
			for _, m := range done {
				doneIDs = append(doneIDs, m.ID)
				if !m.Completed {
					t.Errorf("reported mission %s not marked completed", m.ID)
				}
			}
			if !reflect.DeepEqual(doneIDs, tt.wantDone) {
				t.Errorf("completed = %v, want %v", doneIDs, tt.wantDone)
			}
			if exp != tt.wantExp {
				t.Errorf("exp = %d, want %d", exp, tt.wantExp)
			}
			if !reflect.DeepEqual(st, dayState()) {
				t.Error("Apply mutated its input")
			}
		})
	}
}

func TestApply_AnyCategoryMission(t *testing.T) {
	st := State{Date: today, Missions: []Mission{
		{ID: "cat_generic_1", Type: TypeSolveCategory, Target: 10, Category: AnyCategory, ExpReward: 50},
	}}
	res := scoring.GameResult{CorrectAnswers: 4, TotalQuestions: 5, Rank: scoring.RankC}

	st, _, _ = Apply(st, res, SessionContext{Scope: selection.ScopeAll})
	st, _, _ = Apply(st, res, SessionContext{Scope: selection.CategoryScope(catalog.CategoryGerund)})
	st, _, _ = Apply(st, res, SessionContext{Scope: selection.ScopeWeakness})
	if p := st.Missions[0].Progress; p != 8 {
		t.Errorf("progress = %d, want 8", p)
	}
}

func TestApply_PerfectGame(t *testing.T) {
	st := State{Date: today, Missions: []Mission{
		{ID: "perfect_1", Type: TypePerfectGame, Target: 1, ExpReward: 80},
	}}
	_, done, _ := Apply(st, scoring.GameResult{CorrectAnswers: 0, TotalQuestions: 0, Rank: scoring.RankD}, SessionContext{Scope: selection.ScopeAll})
	if len(done) != 0 {
		t.Error("empty game counted as perfect")
	}
	_, done, exp := Apply(st, scoring.GameResult{CorrectAnswers: 5, TotalQuestions: 5, Rank: scoring.RankS}, SessionContext{Scope: selection.ScopeAll})
	if len(done) != 1 || exp != 80 {
		t.Errorf("done = %v, exp = %d; want perfect_1, 80", done, exp)
	}
}

func TestApply_CompletionIsIdempotent(t *testing.T) {
	res := scoring.GameResult{CorrectAnswers: 20, TotalQuestions: 20, Rank: scoring.RankS}
	sc := SessionContext{Scope: selection.CategoryScope(catalog.CategoryFuture)}

	once, done, exp := Apply(dayState(), res, sc)
	if len(done) != 3 || exp != 225 {
		t.Fatalf("first apply: %d done, %d exp; want 3, 225", len(done), exp)
	}
	twice, done, exp := Apply(once, res, sc)
	if len(done) != 0 || exp != 0 {
		t.Errorf("second apply: %d done, %d exp; want none", len(done), exp)
	}
	if !reflect.DeepEqual(once, twice) {
		t.Error("second apply changed progress of completed missions")
	}
	if twice.CompletedCount() != 3 {
		t.Errorf("CompletedCount = %d, want 3", twice.CompletedCount())
	}
}

func TestData_RoundTrip(t *testing.T) {
	st := dayState()
	st.Missions[1].Progress = 1
	st.Missions[1].Completed = true

	back := FromData(st.Data())
	if back == nil || !reflect.DeepEqual(*back, st) {
		t.Errorf("round trip = %+v, want %+v", back, st)
	}
	if FromData(nil) != nil {
		t.Error("FromData(nil) != nil")
	}
}
