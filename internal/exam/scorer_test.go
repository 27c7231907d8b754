package exam

import (
	"testing"

	"github.com/pot-code/coursecert/internal/content"
	"github.com/pot-code/coursecert/internal/domain"
	"github.com/stretchr/testify/assert"
)

func questions(correct ...int) []content.Question {
	qs := make([]content.Question, 0, len(correct))
	for i := range correct {
		qs = append(qs, content.Question{Text: "q", Options: []string{"a", "b", "c"}, CorrectIndex: &correct[i]})
	}
	return qs
}

func TestScore(t *testing.T) {
	tests := []struct {
		name        string
		questions   []content.Question
		answers     []int
		wantCorrect int
		wantPercent int
	}{
		{"two of three", questions(0, 1, 0), []int{0, 1, 1}, 2, 67},
		{"all", questions(0, 1, 0), []int{0, 1, 0}, 3, 100},
		{"none", questions(0, 1, 0), []int{1, 0, 2}, 0, 0},
		{"half rounds up", questions(0, 0), []int{0, 1}, 1, 50},
		{"one of eight", questions(0, 0, 0, 0, 0, 0, 0, 0), []int{0, 1, 1, 1, 1, 1, 1, 1}, 1, 13},
		{"seven of ten", questions(0, 0, 0, 0, 0, 0, 0, 0, 0, 0), []int{0, 0, 0, 0, 0, 0, 0, 1, 1, 1}, 7, 70},
		{"unset correct index never matches", []content.Question{{Options: []string{"a"}}}, []int{0}, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			correct, percent := Score(tt.questions, tt.answers)
			assert.Equal(t, tt.wantCorrect, correct)
			assert.Equal(t, tt.wantPercent, percent)
		})
	}
}

func TestValidateAnswers(t *testing.T) {
	qs := questions(0, 1, 0)
	tests := []struct {
		name       string
		answers    []int
		wantReason domain.AnswerReason
		wantIndex  int
	}{
		{"valid", []int{0, 1, 2}, "", 0},
		{"short", []int{0, 1}, domain.AnswersLengthMismatch, -1},
		{"long", []int{0, 1, 2, 0}, domain.AnswersLengthMismatch, -1},
		{"missing", []int{0, -1, 2}, domain.AnswerMissing, 1},
		{"out of range", []int{0, 1, 3}, domain.AnswerOutOfRange, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAnswers(qs, tt.answers)
			if tt.wantReason == "" {
				assert.NoError(t, err)
				return
			}
			var ie *domain.InvalidAnswersError
			if assert.ErrorAs(t, err, &ie) {
				assert.Equal(t, tt.wantReason, ie.Reason)
				assert.Equal(t, tt.wantIndex, ie.Index)
			}
		})
	}
}

func TestValidateAnswers_noOptions(t *testing.T) {
	qs := []content.Question{{Text: "open question"}}
	assert.NoError(t, ValidateAnswers(qs, []int{5}))
}
