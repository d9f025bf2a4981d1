package scoring

// Rank is the letter grade of a finished game. Better ranks sort first:
// S < A < B < C < D.
type Rank string

const (
	RankS Rank = "S"
	RankA Rank = "A"
	RankB Rank = "B"
	RankC Rank = "C"
	RankD Rank = "D"
)

// Rank thresholds on the final score.
const (
	ThresholdS = 320
	ThresholdA = 240
	ThresholdB = 150
	ThresholdC = 75
)

// AllRanks returns all ranks from best to worst.
func AllRanks() []Rank {
	return []Rank{RankS, RankA, RankB, RankC, RankD}
}

// RankFor returns the rank for a final score. Thresholds are checked
// highest first.
func RankFor(score int) Rank {
	switch {
	case score >= ThresholdS:
		return RankS
	case score >= ThresholdA:
		return RankA
	case score >= ThresholdB:
		return RankB
	case score >= ThresholdC:
		return RankC
	default:
		return RankD
	}
}

// AtLeast reports whether r is as good as or better than want. Unknown
// ranks on either side never satisfy the check.
func (r Rank) AtLeast(want Rank) bool {
	ri, wi := r.index(), want.index()
	if ri < 0 || wi < 0 {
		return false
	}
	return ri <= wi
}

// index is the position of r in AllRanks, or -1.
func (r Rank) index() int {
	for i, k := range AllRanks() {
		if k == r {
			return i
		}
	}
	return -1
}

// Comment returns the fixed feedback line shown with a rank.
func (r Rank) Comment() string {
	switch r {
	case RankS:
		return "完璧です！正答率・スピードともに最高レベル！"
	case RankA:
		return "素晴らしい成績です！高い正答率を維持できています。"
	case RankB:
		return "良い調子です！この調子で正答率を上げていきましょう。"
	case RankC:
		return "まずは基本をマスター！正答率を意識して再挑戦しよう。"
	default:
		return "まだ伸びしろあり！まずは正解することを目標に。"
	}
}
