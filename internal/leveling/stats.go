package leveling

import (
	"github.com/kotoba-lab/questcore/internal/catalog"
	"github.com/kotoba-lab/questcore/internal/store"
)

// CategoryStat counts answers within one category.
type CategoryStat struct {
	Correct int
	Total   int
}

// Rate returns Correct/Total, or 0 when nothing was answered.
func (c CategoryStat) Rate() float64 {
	if c.Total == 0 {
		return 0
	}
	return float64(c.Correct) / float64(c.Total)
}

// Stats is a learner's long-lived progress: level, exp toward the next level,
// per-category answer counts and a few play counters.
//
// Exp is always below ExpForLevel(Level) after ApplyExp.
type Stats struct {
	Level         int
	Exp           int
	CategoryStats map[catalog.Category]CategoryStat
	Plays         int
	BestScore     int
}

// NewStats returns the stats of a learner who has never played.
func NewStats() Stats {
	return Stats{
		Level:         1,
		CategoryStats: make(map[catalog.Category]CategoryStat),
	}
}

// RecordAnswer returns a copy of s with one answer counted in category.
func (s Stats) RecordAnswer(category catalog.Category, correct bool) Stats {
	out := s.clone()
	cs := out.CategoryStats[category]
	cs.Total++
	if correct {
		cs.Correct++
	}
	out.CategoryStats[category] = cs
	return out
}

// RecordGame returns a copy of s with one more finished game and the best
// score raised to score if it is higher.
func (s Stats) RecordGame(score int) Stats {
	out := s.clone()
	out.Plays++
	if score > out.BestScore {
		out.BestScore = score
	}
	return out
}

// Progress returns the exp held and the exp needed for the next level.
func (s Stats) Progress() (int, int) {
	return s.Exp, ExpForLevel(s.Level)
}

// TotalAnswered sums Total across categories.
func (s Stats) TotalAnswered() int {
	n := 0
	for _, cs := range s.CategoryStats {
		n += cs.Total
	}
	return n
}

func (s Stats) clone() Stats {
	out := s
	out.CategoryStats = make(map[catalog.Category]CategoryStat, len(s.CategoryStats))
	for k, v := range s.CategoryStats {
		out.CategoryStats[k] = v
	}
	return out
}

// normalize repairs values a hand-edited or legacy payload might carry.
func (s *Stats) normalize() {
	if s.Level < 1 {
		s.Level = 1
	}
	if s.Exp < 0 {
		s.Exp = 0
	}
	if s.CategoryStats == nil {
		s.CategoryStats = make(map[catalog.Category]CategoryStat)
	}
}

// FromData builds Stats from the persisted payload. A nil payload yields
// NewStats.
func FromData(data *store.StatsData) Stats {
	if data == nil {
		return NewStats()
	}
	s := Stats{
		Level:         data.Level,
		Exp:           data.Exp,
		CategoryStats: make(map[catalog.Category]CategoryStat, len(data.CategoryStats)),
		Plays:         data.Plays,
		BestScore:     data.BestScore,
	}
	for cat, cs := range data.CategoryStats {
		s.CategoryStats[catalog.Category(cat)] = CategoryStat{Correct: cs.Correct, Total: cs.Total}
	}
	s.normalize()
	return s
}

// Data exports s for persistence.
func (s Stats) Data() *store.StatsData {
	data := &store.StatsData{
		Version:       store.StatsVersion,
		Level:         s.Level,
		Exp:           s.Exp,
		CategoryStats: make(map[string]store.CategoryStatData, len(s.CategoryStats)),
		Plays:         s.Plays,
		BestScore:     s.BestScore,
	}
	for cat, cs := range s.CategoryStats {
		data.CategoryStats[string(cat)] = store.CategoryStatData{Correct: cs.Correct, Total: cs.Total}
	}
	return data
}
