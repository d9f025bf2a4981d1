package catalog

import (
	"strings"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// Category is a grammar unit of the English curriculum.
type Category string

const (
	CategoryFuture             Category = "未来"
	CategoryGerund             Category = "動名詞"
	CategoryInfinitive         Category = "不定詞"
	CategoryModalMust          Category = "助動詞【must】"
	CategoryModalHaveTo        Category = "助動詞【have to】"
	CategoryModalOther         Category = "助動詞【その他】"
	CategoryComparison         Category = "比較"
	CategoryThereIs            Category = "there is"
	CategoryConjunction        Category = "接続詞"
	CategoryPassive            Category = "受け身"
	CategoryPresentPerfect     Category = "現在完了"
	CategoryPresentPerfectProg Category = "現在完了進行形"
	CategoryInfinitiveAdvanced Category = "不定詞2"
	CategoryMisc               Category = "その他"
)

// AllCategories returns every real category in curriculum order. This order
// is the tie-break order wherever categories are ranked.
func AllCategories() []Category {
	return []Category{
		CategoryFuture,
		CategoryGerund,
		CategoryInfinitive,
		CategoryModalMust,
		CategoryModalHaveTo,
		CategoryModalOther,
		CategoryComparison,
		CategoryThereIs,
		CategoryConjunction,
		CategoryPassive,
		CategoryPresentPerfect,
		CategoryPresentPerfectProg,
		CategoryInfinitiveAdvanced,
		CategoryMisc,
	}
}

// IsKnown reports whether c is one of AllCategories.
func (c Category) IsKnown() bool {
	for _, k := range AllCategories() {
		if k == c {
			return true
		}
	}
	return false
}

// QuestionType is the answer format of a question.
type QuestionType string

const (
	TypeSelect QuestionType = "select" // pick one of Choices
	TypeInput  QuestionType = "input"  // type the answer
	TypeSort   QuestionType = "sort"   // reorder Words into a sentence
)

// Question is an immutable catalog entry.
type Question struct {
	ID           int          `json:"id" validate:"required,gt=0"`
	Category     Category     `json:"category" validate:"required"`
	Type         QuestionType `json:"type" validate:"required,oneof=select input sort"`
	Prompt       string       `json:"question" validate:"required"`
	Answer       string       `json:"answer" validate:"required"`
	Alternatives []string     `json:"alternatives,omitempty" validate:"dive,required"`
	Choices      []string     `json:"choices,omitempty" validate:"required_if=Type select,dive,required"`
	Words        []string     `json:"words,omitempty" validate:"required_if=Type sort,dive,required"`
}

// Accepts reports whether answer matches the question's answer or one of its
// alternatives. Comparison ignores case, full-width forms, surrounding and
// repeated whitespace, and trailing sentence punctuation.
func (q Question) Accepts(answer string) bool {
	got := NormalizeAnswer(answer)
	if got == "" {
		return false
	}
	if got == NormalizeAnswer(q.Answer) {
		return true
	}
	for _, alt := range q.Alternatives {
		if got == NormalizeAnswer(alt) {
			return true
		}
	}
	return false
}

// NormalizeAnswer canonicalizes a learner answer for comparison.
func NormalizeAnswer(s string) string {
	s = width.Fold.String(s)
	s = norm.NFKC.String(s)
	s = strings.ToLower(s)
	s = strings.Join(strings.Fields(s), " ")
	s = strings.TrimRight(s, ".?! ")
	return s
}
