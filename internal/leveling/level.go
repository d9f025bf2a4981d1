package leveling

// BaseExp is the exp needed to leave level 1.
const BaseExp = 100

// ExpStep is how much each further level raises the threshold.
const ExpStep = 50

// ExpForLevel returns the exp needed to advance from level to level+1.
// Levels below 1 are treated as level 1.
func ExpForLevel(level int) int {
	if level < 1 {
		level = 1
	}
	return BaseExp + (level-1)*ExpStep
}

// ApplyExp adds gained exp to s, consuming thresholds level by level until
// the remainder fits under the current level's threshold. It reports whether
// any level was gained and how many. A non-positive gain returns s unchanged.
func ApplyExp(s Stats, gained int) (Stats, bool, int) {
	if gained <= 0 {
		return s, false, 0
	}

	out := s.clone()
	out.normalize()
	out.Exp += gained

	levels := 0
	for out.Exp >= ExpForLevel(out.Level) {
		out.Exp -= ExpForLevel(out.Level)
		out.Level++
		levels++
	}
	return out, levels > 0, levels
}

// LevelUp describes a level change produced by one exp grant.
type LevelUp struct {
	From int
	To   int
}
