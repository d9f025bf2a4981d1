package selection

import (
	"errors"
	"math/rand/v2"
	"reflect"
	"testing"

	"github.com/kotoba-lab/questcore/internal/calendar"
	"github.com/kotoba-lab/questcore/internal/catalog"
)

type fakeDue struct {
	ids  []int
	asOf calendar.Date
}

func (f *fakeDue) QuestionsDueForReview(asOf calendar.Date) []int {
	f.asOf = asOf
	return f.ids
}

type fakeIDs []int

func (f fakeIDs) IDs() []int { return f }

// reverseShuffler reverses the slice so tests can tell shuffling happened.
type reverseShuffler struct{}

func (reverseShuffler) Shuffle(n int, swap func(i, j int)) {
	for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
		swap(i, j)
	}
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	q := func(id int, cat catalog.Category, typ catalog.QuestionType) catalog.Question {
		out := catalog.Question{ID: id, Category: cat, Type: typ, Prompt: "q", Answer: "a"}
		switch typ {
		case catalog.TypeSelect:
			out.Choices = []string{"a", "b"}
		case catalog.TypeSort:
			out.Words = []string{"a", "b"}
		}
		return out
	}
	c, err := catalog.New([]catalog.Question{
		q(1, catalog.CategoryFuture, catalog.TypeSelect),
		q(2, catalog.CategoryFuture, catalog.TypeInput),
		q(3, catalog.CategoryFuture, catalog.TypeSort),
		q(4, catalog.CategoryComparison, catalog.TypeSelect),
		q(5, catalog.CategoryComparison, catalog.TypeInput),
		q(6, catalog.CategoryPassive, catalog.TypeSelect),
		q(7, catalog.CategoryPassive, catalog.TypeSort),
	})
	if err != nil {
		t.Fatalf("build catalog: %v", err)
	}
	return c
}

func ids(qs []catalog.Question) []int {
	out := make([]int, len(qs))
	for i, q := range qs {
		out[i] = q.ID
	}
	return out
}

func TestSelect_ExplicitIDs(t *testing.T) {
	p := &Pipeline{Catalog: testCatalog(t), Rand: reverseShuffler{}, Size: 1}

	got, err := p.Select(Request{Mode: ModeSelect, Scope: ScopeAll, ExplicitIDs: []int{3, 7, 99}})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	// Given order, unknown dropped, no mode filter, no shuffle, no cap.
	if !reflect.DeepEqual(ids(got), []int{3, 7}) {
		t.Errorf("ids = %v, want [3 7]", ids(got))
	}
}

func TestSelect_ExplicitIDsAllUnknown(t *testing.T) {
	p := &Pipeline{Catalog: testCatalog(t)}
	_, err := p.Select(Request{ExplicitIDs: []int{100, 101}})
	if !errors.Is(err, ErrNoQuestions) {
		t.Errorf("err = %v, want ErrNoQuestions", err)
	}
}

func TestSelect_Scopes(t *testing.T) {
	tests := []struct {
		name  string
		req   Request
		due   []int
		weak  []int
		want  []int
		isErr error
	}{
		{
			name: "all select",
			req:  Request{Mode: ModeSelect, Scope: ScopeAll},
			want: []int{1, 4, 6},
		},
		{
			name: "all test mode spans types",
			req:  Request{Mode: ModeTest, Scope: ScopeAll},
			want: []int{1, 2, 3, 4, 5, 6, 7},
		},
		{
			name: "literal category",
			req:  Request{Mode: ModeTest, Scope: CategoryScope(catalog.CategoryFuture)},
			want: []int{1, 2, 3},
		},
		{
			name: "literal category with mode",
			req:  Request{Mode: ModeSort, Scope: CategoryScope(catalog.CategoryPassive)},
			want: []int{7},
		},
		{
			name:  "category without that type",
			req:   Request{Mode: ModeSort, Scope: CategoryScope(catalog.CategoryComparison)},
			isErr: ErrNoQuestions,
		},
		{
			name:  "unknown category",
			req:   Request{Mode: ModeTest, Scope: "関係代名詞"},
			isErr: ErrNoQuestions,
		},
		{
			name: "review",
			req:  Request{Mode: ModeTest, Scope: ScopeReview},
			due:  []int{5, 2, 42},
			want: []int{2, 5},
		},
		{
			name:  "review nothing due",
			req:   Request{Mode: ModeTest, Scope: ScopeReview},
			isErr: ErrNothingToReview,
		},
		{
			name:  "review due but filtered out",
			req:   Request{Mode: ModeSort, Scope: ScopeReview},
			due:   []int{1},
			isErr: ErrNoQuestions,
		},
		{
			name: "weakness",
			req:  Request{Mode: ModeSelect, Scope: ScopeWeakness},
			weak: []int{6, 2, 4, 4},
			want: []int{4, 6},
		},
		{
			name:  "weakness empty",
			req:   Request{Mode: ModeTest, Scope: ScopeWeakness},
			isErr: ErrNoQuestions,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Pipeline{
				Catalog: testCatalog(t),
				Due:     &fakeDue{ids: tt.due},
				Missed:  fakeIDs(tt.weak),
			}
			got, err := p.Select(tt.req)
			if tt.isErr != nil {
				if !errors.Is(err, tt.isErr) {
					t.Fatalf("err = %v, want %v", err, tt.isErr)
				}
				if !IsEmptyResult(err) {
					t.Errorf("IsEmptyResult(%v) = false", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Select: %v", err)
			}
			if !reflect.DeepEqual(ids(got), tt.want) {
				t.Errorf("ids = %v, want %v", ids(got), tt.want)
			}
		})
	}
}

func TestSelect_ReviewUsesAsOf(t *testing.T) {
	due := &fakeDue{ids: []int{1}}
	p := &Pipeline{Catalog: testCatalog(t), Due: due}
	if _, err := p.Select(Request{Mode: ModeTest, Scope: ScopeReview, AsOf: "2025-04-10"}); err != nil {
		t.Fatalf("Select: %v", err)
	}
	if due.asOf != "2025-04-10" {
		t.Errorf("asOf = %q, want 2025-04-10", due.asOf)
	}
}

func TestSelect_ShufflesAndCaps(t *testing.T) {
	p := &Pipeline{Catalog: testCatalog(t), Rand: reverseShuffler{}, Size: 3}
	got, err := p.Select(Request{Mode: ModeTest, Scope: ScopeAll})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if !reflect.DeepEqual(ids(got), []int{7, 6, 5}) {
		t.Errorf("ids = %v, want [7 6 5]", ids(got))
	}
}

func TestSelect_DefaultSizeCap(t *testing.T) {
	var qs []catalog.Question
	for i := 1; i <= 30; i++ {
		qs = append(qs, catalog.Question{ID: i, Category: catalog.CategoryMisc, Type: catalog.TypeInput, Prompt: "q", Answer: "a"})
	}
	c, err := catalog.New(qs)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	p := &Pipeline{Catalog: c, Rand: rand.New(rand.NewPCG(1, 2))}
	got, err := p.Select(Request{Mode: ModeInput, Scope: ScopeAll})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(got) != DefaultSessionSize {
		t.Errorf("len = %d, want %d", len(got), DefaultSessionSize)
	}
	seen := map[int]bool{}
	for _, q := range got {
		if seen[q.ID] {
			t.Fatalf("duplicate id %d", q.ID)
		}
		seen[q.ID] = true
	}
}

func TestSelect_UnknownMode(t *testing.T) {
	p := &Pipeline{Catalog: testCatalog(t)}
	_, err := p.Select(Request{Mode: "essay", Scope: ScopeAll})
	if err == nil || IsEmptyResult(err) {
		t.Errorf("err = %v, want a non-empty-result error", err)
	}
}

func TestScope(t *testing.T) {
	if ScopeReview.Rankable() || ScopeWeakness.Rankable() {
		t.Error("review and weakness must not be rankable")
	}
	if !ScopeAll.Rankable() || !CategoryScope(catalog.CategoryFuture).Rankable() {
		t.Error("all and literal categories must be rankable")
	}
	if _, ok := ScopeAll.Category(); ok {
		t.Error("ScopeAll.Category() reported a category")
	}
	if c, ok := CategoryScope(catalog.CategoryThereIs).Category(); !ok || c != catalog.CategoryThereIs {
		t.Errorf("Category() = %q, %v", c, ok)
	}
}
