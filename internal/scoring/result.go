package scoring

import (
	"math"
	"time"
)

// GameResult is the outcome of one finished game.
type GameResult struct {
	Score          int
	CorrectAnswers int
	TotalQuestions int
	Rank           Rank
	Comment        string
}

// Perfect reports whether every question was answered correctly.
func (r GameResult) Perfect() bool {
	return r.TotalQuestions > 0 && r.CorrectAnswers == r.TotalQuestions
}

// CorrectRate returns correct/total, or 0 when total is 0.
func CorrectRate(correct, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(correct) / float64(total)
}

// ComputeResult turns a raw score and the answer counts into a GameResult.
// The final score is round(raw * rate²), so accuracy weighs quadratically.
func ComputeResult(rawScore float64, correct, total int) GameResult {
	rate := CorrectRate(correct, total)
	if rawScore < 0 || math.IsNaN(rawScore) {
		rawScore = 0
	}
	score := int(math.Round(rawScore * rate * rate))
	rank := RankFor(score)
	return GameResult{
		Score:          score,
		CorrectAnswers: correct,
		TotalQuestions: total,
		Rank:           rank,
		Comment:        rank.Comment(),
	}
}

const (
	// BasePoints is earned by every correct answer.
	BasePoints = 10.0

	// MaxSpeedBonus is earned on top of BasePoints by an instant answer.
	MaxSpeedBonus = 10.0

	// SpeedWindow is the response time at which the speed bonus reaches zero.
	SpeedWindow = 10 * time.Second
)

// TimedAnswer is one answer with the time the learner took.
type TimedAnswer struct {
	Correct bool
	Elapsed time.Duration
}

// RawScore sums the speed-derived points of a game. Incorrect answers earn
// nothing; correct answers earn BasePoints plus a bonus that falls linearly
// from MaxSpeedBonus at zero to nothing at SpeedWindow.
func RawScore(answers []TimedAnswer) float64 {
	total := 0.0
	for _, a := range answers {
		if !a.Correct {
			continue
		}
		total += BasePoints + SpeedBonus(a.Elapsed)
	}
	return total
}

// SpeedBonus returns the bonus for one correct answer given in elapsed.
func SpeedBonus(elapsed time.Duration) float64 {
	switch {
	case elapsed <= 0:
		return MaxSpeedBonus
	case elapsed >= SpeedWindow:
		return 0
	default:
		ratio := float64(elapsed) / float64(SpeedWindow)
		return MaxSpeedBonus * (1 - ratio)
	}
}
