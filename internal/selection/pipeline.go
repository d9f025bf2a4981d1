package selection

import (
	"fmt"

	"github.com/kotoba-lab/questcore/internal/calendar"
	"github.com/kotoba-lab/questcore/internal/catalog"
)

// DefaultSessionSize caps the number of questions in a drawn session.
const DefaultSessionSize = 20

// DueSource lists questions due for review. *mastery.Scheduler satisfies it.
type DueSource interface {
	QuestionsDueForReview(asOf calendar.Date) []int
}

// IDSource lists question ids. *weakness.List satisfies it.
type IDSource interface {
	IDs() []int
}

// Shuffler permutes n elements through swap. *rand.Rand satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// Request describes the questions a session wants.
type Request struct {
	Mode  Mode
	Scope Scope

	// ExplicitIDs, when non-nil, is replayed as given: catalog order is
	// ignored, unknown ids are dropped, and Mode, shuffling and the size cap
	// do not apply.
	ExplicitIDs []int

	// AsOf is the date the review scope compares against.
	AsOf calendar.Date
}

// Pipeline resolves requests against the catalog and the learner's state.
type Pipeline struct {
	Catalog catalog.Provider
	Due     DueSource
	Missed  IDSource
	Rand    Shuffler
	Size    int
}

// Select returns the questions for req. Empty results are reported with
// ErrNothingToReview or ErrNoQuestions; see IsEmptyResult.
func (p *Pipeline) Select(req Request) ([]catalog.Question, error) {
	if req.ExplicitIDs != nil {
		return p.replay(req.ExplicitIDs)
	}
	if !req.Mode.Valid() {
		return nil, fmt.Errorf("unknown mode %q", req.Mode)
	}

	pool, err := p.pool(req)
	if err != nil {
		return nil, err
	}

	if qt, ok := req.Mode.QuestionType(); ok {
		filtered := make([]catalog.Question, 0, len(pool))
		for _, q := range pool {
			if q.Type == qt {
				filtered = append(filtered, q)
			}
		}
		pool = filtered
	}
	if len(pool) == 0 {
		return nil, ErrNoQuestions
	}

	if p.Rand != nil {
		p.Rand.Shuffle(len(pool), func(i, j int) {
			pool[i], pool[j] = pool[j], pool[i]
		})
	}

	size := p.Size
	if size <= 0 {
		size = DefaultSessionSize
	}
	if len(pool) > size {
		pool = pool[:size]
	}
	return pool, nil
}

// replay resolves explicit ids in the order given.
func (p *Pipeline) replay(ids []int) ([]catalog.Question, error) {
	out := make([]catalog.Question, 0, len(ids))
	for _, id := range ids {
		if q, ok := p.Catalog.Question(id); ok {
			out = append(out, q)
		}
	}
	if len(out) == 0 {
		return nil, ErrNoQuestions
	}
	return out, nil
}

// pool returns the unfiltered, deduplicated candidates for req's scope in
// catalog order.
func (p *Pipeline) pool(req Request) ([]catalog.Question, error) {
	switch req.Scope {
	case ScopeAll:
		return dedupe(p.Catalog.AllQuestions()), nil

	case ScopeReview:
		var due []int
		if p.Due != nil {
			due = p.Due.QuestionsDueForReview(req.AsOf)
		}
		if len(due) == 0 {
			return nil, ErrNothingToReview
		}
		return p.filterIDs(due), nil

	case ScopeWeakness:
		var ids []int
		if p.Missed != nil {
			ids = p.Missed.IDs()
		}
		return p.filterIDs(ids), nil

	default:
		cat, ok := req.Scope.Category()
		if !ok {
			return nil, ErrNoQuestions
		}
		return dedupe(p.Catalog.QuestionsForCategory(cat)), nil
	}
}

// filterIDs returns catalog questions whose id is in ids, in catalog order.
func (p *Pipeline) filterIDs(ids []int) []catalog.Question {
	want := make(map[int]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []catalog.Question
	for _, q := range p.Catalog.AllQuestions() {
		if want[q.ID] {
			out = append(out, q)
		}
	}
	return dedupe(out)
}

func dedupe(qs []catalog.Question) []catalog.Question {
	seen := make(map[int]bool, len(qs))
	out := make([]catalog.Question, 0, len(qs))
	for _, q := range qs {
		if seen[q.ID] {
			continue
		}
		seen[q.ID] = true
		out = append(out, q)
	}
	return out
}
