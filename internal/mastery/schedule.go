package mastery

// ReviewIntervals holds the days until the next review after reaching each
// learning stage. Stage 1 waits ReviewIntervals[0] days.
var ReviewIntervals = []int{1, 3, 7, 14}

// MasteredStage is the stage at which a question is mastered: one more
// correct answer after the last interval.
const MasteredStage = 5

// MasteredIntervalDays is the date pushed out to on mastery. Mastered
// questions are never due, so the date only matters if a later wrong answer
// demotes the record.
const MasteredIntervalDays = 30

// RelearnDelayDays caps how far away the next review may be after a wrong
// answer.
const RelearnDelayDays = 1

// intervalForStage returns the review interval for a learning stage.
func intervalForStage(stage int) int {
	if stage < 1 {
		return RelearnDelayDays
	}
	if stage > len(ReviewIntervals) {
		return ReviewIntervals[len(ReviewIntervals)-1]
	}
	return ReviewIntervals[stage-1]
}
