package exam

import (
	"github.com/pot-code/coursecert/internal/content"
	"github.com/pot-code/coursecert/internal/domain"
)

// ValidateAnswers check answers against questions: same length, every answer given
// and inside the option range of its question
func ValidateAnswers(questions []content.Question, answers []int) error {
	if len(answers) != len(questions) {
		return &domain.InvalidAnswersError{
			Reason:   domain.AnswersLengthMismatch,
			Index:    -1,
			Expected: len(questions),
			Got:      len(answers),
		}
	}
	for i, a := range answers {
		if a < 0 {
			return &domain.InvalidAnswersError{Reason: domain.AnswerMissing, Index: i, Value: a}
		}
		if opts := len(questions[i].Options); opts > 0 && a >= opts {
			return &domain.InvalidAnswersError{Reason: domain.AnswerOutOfRange, Index: i, Value: a, OptionsLength: opts}
		}
	}
	return nil
}

// Score count correct answers and the rounded percentage (half rounds up).
// questions must not be empty and answers must have passed ValidateAnswers.
func Score(questions []content.Question, answers []int) (correct int, percent int) {
	for i, q := range questions {
		if q.CorrectIndex != nil && answers[i] == *q.CorrectIndex {
			correct++
		}
	}
	n := len(questions)
	return correct, (200*correct + n) / (2 * n)
}
