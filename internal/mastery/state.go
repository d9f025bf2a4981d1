package mastery

import "github.com/kotoba-lab/questcore/internal/calendar"

// Level is a question's position in the mastery lifecycle.
type Level string

const (
	LevelNew      Level = "new"
	LevelLearning Level = "learning"
	LevelMastered Level = "mastered"
)

// Valid reports whether l is a known level.
func (l Level) Valid() bool {
	switch l {
	case LevelNew, LevelLearning, LevelMastered:
		return true
	}
	return false
}

// Record is the mastery state of one question.
type Record struct {
	QuestionID     int
	Level          Level
	Stage          int
	NextReviewDate calendar.Date
	LastReviewed   calendar.Date
}

// Due reports whether the record should be reviewed on asOf.
func (r Record) Due(asOf calendar.Date) bool {
	return r.Level != LevelMastered && r.NextReviewDate.OnOrBefore(asOf)
}

// Transition records a level change for display and logging.
type Transition struct {
	QuestionID int
	From       Level
	To         Level
}
