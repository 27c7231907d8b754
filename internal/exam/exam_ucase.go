package exam

import (
	"context"
	"time"

	"github.com/pot-code/coursecert/internal/content"
	"github.com/pot-code/coursecert/internal/domain"
	"github.com/pot-code/coursecert/internal/infrastructure/metrics"
	"go.elastic.co/apm"
)

// ExamUseCaseImpl ...
type ExamUseCaseImpl struct {
	AttemptRepository AttemptRepository
	Content           content.UseCase
	Metrics           *metrics.Recorder
	Clock             func() time.Time
}

var _ ExamUseCase = &ExamUseCaseImpl{}

// NewExamUseCase ...
func NewExamUseCase(
	AttemptRepository AttemptRepository,
	Content content.UseCase,
	Metrics *metrics.Recorder,
) *ExamUseCaseImpl {
	return &ExamUseCaseImpl{
		AttemptRepository: AttemptRepository,
		Content:           Content,
		Metrics:           Metrics,
		Clock:             time.Now,
	}
}

// Submit score answers against the course exam in lang and replace the learner's attempt
func (eu *ExamUseCaseImpl) Submit(ctx context.Context, userID, courseID string, lang content.Language, answers []int) (*Result, error) {
	apmSpan, _ := apm.StartSpan(ctx, "ExamUseCaseImpl.Submit", "service")
	defer apmSpan.End()

	def, err := eu.Content.ExamDefinition(ctx, courseID)
	if err != nil {
		return nil, err
	}
	lang, questions := def.QuestionSet(lang)
	if len(questions) == 0 {
		return nil, domain.ErrNoQuestions
	}
	if err := ValidateAnswers(questions, answers); err != nil {
		return nil, err
	}

	correct, score := Score(questions, answers)
	passed := score >= def.PassScore
	attempt := &Attempt{
		UserID:    userID,
		CourseID:  courseID,
		Score:     score,
		Passed:    passed,
		UpdatedAt: eu.Clock().UTC().Truncate(time.Millisecond),
	}
	if err := eu.AttemptRepository.SaveAttempt(ctx, attempt); err != nil {
		return nil, err
	}
	eu.Metrics.ExamSubmitted(courseID, passed)

	return &Result{
		Score:     score,
		Passed:    passed,
		PassScore: def.PassScore,
		Correct:   correct,
		Total:     len(questions),
		Language:  lang,
	}, nil
}

// Status latest attempt, nil when none was made
func (eu *ExamUseCaseImpl) Status(ctx context.Context, userID, courseID string) (*Attempt, error) {
	apmSpan, _ := apm.StartSpan(ctx, "ExamUseCaseImpl.Status", "service")
	defer apmSpan.End()

	return eu.AttemptRepository.FindAttempt(ctx, userID, courseID)
}

// Exam exam paper in lang without answer keys, along with the latest attempt
func (eu *ExamUseCaseImpl) Exam(ctx context.Context, userID, courseID string, lang content.Language) (*LearnerExam, error) {
	apmSpan, _ := apm.StartSpan(ctx, "ExamUseCaseImpl.Exam", "service")
	defer apmSpan.End()

	def, err := eu.Content.ExamDefinition(ctx, courseID)
	if err != nil {
		return nil, err
	}
	lang, questions := def.QuestionSet(lang)
	views := make([]QuestionView, 0, len(questions))
	for _, q := range questions {
		views = append(views, QuestionView{Text: q.Text, Options: q.Options})
	}

	attempt, err := eu.AttemptRepository.FindAttempt(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	return &LearnerExam{
		CourseID:      courseID,
		PassScore:     def.PassScore,
		Language:      lang,
		Questions:     views,
		LatestAttempt: attempt,
	}, nil
}
