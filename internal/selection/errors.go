package selection

import "errors"

var (
	// ErrNothingToReview means the review scope has no due questions.
	ErrNothingToReview = errors.New("本日の復習問題はありません。素晴らしい！")

	// ErrNoQuestions means the requested scope and mode matched nothing.
	ErrNoQuestions = errors.New("このカテゴリまたはモードには問題がありません。")
)

// IsEmptyResult reports whether err is a non-fatal empty selection. Callers
// show it as a notice and change no state.
func IsEmptyResult(err error) bool {
	return errors.Is(err, ErrNothingToReview) || errors.Is(err, ErrNoQuestions)
}
