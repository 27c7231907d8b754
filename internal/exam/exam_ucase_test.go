package exam_test

import (
	"context"
	"testing"
	"time"

	"github.com/pot-code/coursecert/internal/content"
	"github.com/pot-code/coursecert/internal/domain"
	"github.com/pot-code/coursecert/internal/exam"
	"github.com/pot-code/coursecert/internal/store/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func setup(t *testing.T) (*exam.ExamUseCaseImpl, *memory.DB) {
	db := memory.Open()
	db.SeedCourse("growth", 3, 70, 0, 1, 0)
	db.SeedCourse("empty", 1, 70)
	db.AddCourse(&content.Course{ID: "unset"}, nil, &content.ExamDefinition{CourseID: "unset", PassScore: 70})
	db.AddCourse(&content.Course{ID: "bilingual"}, nil, &content.ExamDefinition{
		CourseID:  "bilingual",
		PassScore: 50,
		Questions: map[content.Language][]content.Question{
			content.LangEN: {{Text: "Q1", Options: []string{"a", "b"}, CorrectIndex: intPtr(0)}},
			content.LangTI: {
				{Text: "ሕ1", Options: []string{"ሀ", "ለ"}, CorrectIndex: intPtr(1)},
				{Text: "ሕ2", Options: []string{"ሀ", "ለ"}, CorrectIndex: intPtr(1)},
			},
		},
	})

	uc := exam.NewExamUseCase(memory.NewAttemptRepository(db), content.NewContentUseCase(memory.NewContentRepository(db)), nil)
	uc.Clock = func() time.Time { return time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC) }
	return uc, db
}

func TestExamUseCaseImpl_Submit(t *testing.T) {
	ctx := context.Background()
	uc, _ := setup(t)

	res, err := uc.Submit(ctx, "u1", "growth", content.LangEN, []int{0, 1, 1})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Correct)
	assert.Equal(t, 67, res.Score)
	assert.False(t, res.Passed)
	assert.Equal(t, 70, res.PassScore)

	attempt, err := uc.Status(ctx, "u1", "growth")
	require.NoError(t, err)
	assert.Equal(t, 67, attempt.Score)
	assert.False(t, attempt.Passed)

	// last write wins, even when the score drops
	res, err = uc.Submit(ctx, "u1", "growth", content.LangEN, []int{0, 1, 0})
	require.NoError(t, err)
	assert.Equal(t, 100, res.Score)
	assert.True(t, res.Passed)
	_, err = uc.Submit(ctx, "u1", "growth", content.LangEN, []int{1, 0, 1})
	require.NoError(t, err)
	attempt, err = uc.Status(ctx, "u1", "growth")
	require.NoError(t, err)
	assert.Equal(t, 0, attempt.Score)
	assert.False(t, attempt.Passed)

	none, err := uc.Status(ctx, "u2", "growth")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestExamUseCaseImpl_Submit_passBoundary(t *testing.T) {
	ctx := context.Background()
	db := memory.Open()
	ten := []int{0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	db.SeedCourse("seventy", 1, 70, ten...)
	db.SeedCourse("seventyone", 1, 71, ten...)
	uc := exam.NewExamUseCase(memory.NewAttemptRepository(db), content.NewContentUseCase(memory.NewContentRepository(db)), nil)

	seven := []int{0, 0, 0, 0, 0, 0, 0, 1, 1, 1}
	six := []int{0, 0, 0, 0, 0, 0, 1, 1, 1, 1}

	res, err := uc.Submit(ctx, "u1", "seventy", content.LangEN, seven)
	require.NoError(t, err)
	assert.Equal(t, 70, res.Score)
	assert.True(t, res.Passed)

	res, err = uc.Submit(ctx, "u1", "seventy", content.LangEN, six)
	require.NoError(t, err)
	assert.Equal(t, 60, res.Score)
	assert.False(t, res.Passed)

	res, err = uc.Submit(ctx, "u1", "seventyone", content.LangEN, seven)
	require.NoError(t, err)
	assert.Equal(t, 70, res.Score)
	assert.False(t, res.Passed)
}

func TestExamUseCaseImpl_Submit_language(t *testing.T) {
	ctx := context.Background()
	uc, _ := setup(t)

	res, err := uc.Submit(ctx, "u1", "bilingual", content.LangTI, []int{1, 0})
	require.NoError(t, err)
	assert.Equal(t, content.LangTI, res.Language)
	assert.Equal(t, 50, res.Score)
	assert.Equal(t, 2, res.Total)

	// growth has no tigrinya questions
	res, err = uc.Submit(ctx, "u1", "growth", content.LangTI, []int{0, 1, 0})
	require.NoError(t, err)
	assert.Equal(t, content.LangEN, res.Language)
	assert.Equal(t, 100, res.Score)
}

func TestExamUseCaseImpl_Submit_rejected(t *testing.T) {
	ctx := context.Background()
	uc, _ := setup(t)

	_, err := uc.Submit(ctx, "u1", "nope", content.LangEN, []int{0})
	assert.ErrorIs(t, err, domain.ErrExamNotFound)

	_, err = uc.Submit(ctx, "u1", "empty", content.LangEN, []int{0})
	assert.ErrorIs(t, err, domain.ErrExamNotFound)

	_, err = uc.Submit(ctx, "u1", "unset", content.LangEN, []int{0})
	assert.ErrorIs(t, err, domain.ErrNoQuestions)

	_, err = uc.Submit(ctx, "u1", "growth", content.LangEN, []int{0, -1, 0})
	var ie *domain.InvalidAnswersError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, domain.AnswerMissing, ie.Reason)

	_, err = uc.Submit(ctx, "u1", "growth", content.LangEN, []int{0, 1})
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, domain.AnswersLengthMismatch, ie.Reason)

	attempt, err := uc.Status(ctx, "u1", "growth")
	require.NoError(t, err)
	assert.Nil(t, attempt, "rejected submissions record nothing")
}

func TestExamUseCaseImpl_Exam(t *testing.T) {
	ctx := context.Background()
	uc, _ := setup(t)

	paper, err := uc.Exam(ctx, "u1", "bilingual", content.LangTI)
	require.NoError(t, err)
	assert.Equal(t, content.LangTI, paper.Language)
	assert.Equal(t, 50, paper.PassScore)
	assert.Equal(t, []exam.QuestionView{
		{Text: "ሕ1", Options: []string{"ሀ", "ለ"}},
		{Text: "ሕ2", Options: []string{"ሀ", "ለ"}},
	}, paper.Questions)
	assert.Nil(t, paper.LatestAttempt)

	_, err = uc.Submit(ctx, "u1", "bilingual", content.LangEN, []int{0})
	require.NoError(t, err)
	paper, err = uc.Exam(ctx, "u1", "bilingual", content.Language("fr"))
	require.NoError(t, err)
	assert.Equal(t, content.LangEN, paper.Language)
	require.NotNil(t, paper.LatestAttempt)
	assert.Equal(t, 100, paper.LatestAttempt.Score)
}
