package weakness

import (
	"github.com/kotoba-lab/questcore/internal/catalog"
	"github.com/kotoba-lab/questcore/internal/store"
)

// IncorrectQuestion is a snapshot of a question the learner missed.
type IncorrectQuestion struct {
	ID     int
	Prompt string
	Answer string
}

// FromQuestion snapshots a catalog question.
func FromQuestion(q catalog.Question) IncorrectQuestion {
	return IncorrectQuestion{ID: q.ID, Prompt: q.Prompt, Answer: q.Answer}
}

// List is the ordered set of missed questions, unique by id. Oldest misses
// come first.
type List struct {
	items []IncorrectQuestion
	index map[int]int
}

// NewList loads a list from the persisted payload. Duplicate ids keep their
// first occurrence.
func NewList(data *store.IncorrectData) *List {
	l := &List{index: make(map[int]int)}
	if data == nil {
		return l
	}
	for _, q := range data.Questions {
		l.Add(IncorrectQuestion{ID: q.ID, Prompt: q.Prompt, Answer: q.Answer})
	}
	return l
}

// Add appends q unless a question with the same id is already listed. It
// reports whether q was added.
func (l *List) Add(q IncorrectQuestion) bool {
	if _, ok := l.index[q.ID]; ok {
		return false
	}
	l.index[q.ID] = len(l.items)
	l.items = append(l.items, q)
	return true
}

// Remove drops the question with id. It reports whether it was listed.
func (l *List) Remove(id int) bool {
	i, ok := l.index[id]
	if !ok {
		return false
	}
	l.items = append(l.items[:i], l.items[i+1:]...)
	delete(l.index, id)
	for j := i; j < len(l.items); j++ {
		l.index[l.items[j].ID] = j
	}
	return true
}

// Contains reports whether id is listed.
func (l *List) Contains(id int) bool {
	_, ok := l.index[id]
	return ok
}

// IDs returns the listed ids in list order.
func (l *List) IDs() []int {
	ids := make([]int, len(l.items))
	for i, q := range l.items {
		ids[i] = q.ID
	}
	return ids
}

// Items returns a copy of the listed questions.
func (l *List) Items() []IncorrectQuestion {
	out := make([]IncorrectQuestion, len(l.items))
	copy(out, l.items)
	return out
}

// Len returns the number of listed questions.
func (l *List) Len() int { return len(l.items) }

// Data exports the list for persistence.
func (l *List) Data() *store.IncorrectData {
	data := &store.IncorrectData{
		Version:   store.IncorrectVersion,
		Questions: make([]store.IncorrectQuestionData, len(l.items)),
	}
	for i, q := range l.items {
		data.Questions[i] = store.IncorrectQuestionData{ID: q.ID, Prompt: q.Prompt, Answer: q.Answer}
	}
	return data
}
