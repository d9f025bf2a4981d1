package progression

import (
	"github.com/kotoba-lab/questcore/internal/leveling"
	"github.com/kotoba-lab/questcore/internal/mission"
)

// Update describes a committed change to a learner's progress.
type Update struct {
	Profile   string
	Stats     leveling.Stats
	Missions  mission.State
	Completed []mission.Mission
	LevelUp   *leveling.LevelUp
}

// Observer is told about every committed progress change. Calls happen
// after the commit, outside the profile lock, on the caller's goroutine.
type Observer interface {
	Progressed(u Update)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Update)

func (f ObserverFunc) Progressed(u Update) { f(u) }

type nopObserver struct{}

func (nopObserver) Progressed(Update) {}
