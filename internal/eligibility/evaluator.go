package eligibility

import (
	"context"

	"github.com/pot-code/coursecert/internal/domain"
	"github.com/pot-code/coursecert/internal/exam"
	"go.elastic.co/apm"
)

// LessonCounter number of lessons a course has
type LessonCounter interface {
	CountLessons(ctx context.Context, courseID string) (int, error)
}

// CompletionCounter number of lessons a learner completed in a course
type CompletionCounter interface {
	CountCompleted(ctx context.Context, userID, courseID string) (int, error)
}

// AttemptReader latest exam attempt of a learner, nil if none
type AttemptReader interface {
	Status(ctx context.Context, userID, courseID string) (*exam.Attempt, error)
}

type Evaluator interface {
	Evaluate(ctx context.Context, userID, courseID string) (*domain.EligibilityReport, error)
}

// EvaluatorImpl the only place certificate eligibility is decided
type EvaluatorImpl struct {
	Lessons     LessonCounter
	Completions CompletionCounter
	Attempts    AttemptReader
}

var _ Evaluator = &EvaluatorImpl{}

// NewEvaluator ...
func NewEvaluator(Lessons LessonCounter, Completions CompletionCounter, Attempts AttemptReader) *EvaluatorImpl {
	return &EvaluatorImpl{Lessons, Completions, Attempts}
}

// Evaluate a learner is eligible once the course has lessons, all of them are completed
// and the latest exam attempt passed. The three reads are independent.
func (ev *EvaluatorImpl) Evaluate(ctx context.Context, userID, courseID string) (*domain.EligibilityReport, error) {
	apmSpan, _ := apm.StartSpan(ctx, "EvaluatorImpl.Evaluate", "service")
	defer apmSpan.End()

	total, err := ev.Lessons.CountLessons(ctx, courseID)
	if err != nil {
		return nil, err
	}
	completed, err := ev.Completions.CountCompleted(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	attempt, err := ev.Attempts.Status(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}

	report := &domain.EligibilityReport{
		TotalLessons:     total,
		CompletedLessons: completed,
	}
	if attempt != nil {
		score := attempt.Score
		report.ExamPassed = attempt.Passed
		report.ExamScore = &score
	}
	report.Eligible = total > 0 && completed >= total && report.ExamPassed
	return report, nil
}
