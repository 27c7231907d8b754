package content

import (
	"context"

	"github.com/pot-code/coursecert/internal/domain"
	"go.elastic.co/apm"
)

// ContentUseCaseImpl read side of the content store
type ContentUseCaseImpl struct {
	ContentRepository Repository
}

var _ UseCase = &ContentUseCaseImpl{}

// NewContentUseCase ...
func NewContentUseCase(ContentRepository Repository) *ContentUseCaseImpl {
	return &ContentUseCaseImpl{ContentRepository}
}

func (cu *ContentUseCaseImpl) ListCourses(ctx context.Context) ([]*Course, error) {
	apmSpan, _ := apm.StartSpan(ctx, "ContentUseCaseImpl.ListCourses", "service")
	defer apmSpan.End()

	courses, err := cu.ContentRepository.ListCourses(ctx)
	if err != nil {
		return nil, err
	}
	if courses == nil {
		courses = []*Course{}
	}
	return courses, nil
}

// Course returns domain.ErrCourseNotFound for unknown ids
func (cu *ContentUseCaseImpl) Course(ctx context.Context, courseID string) (*Course, error) {
	apmSpan, _ := apm.StartSpan(ctx, "ContentUseCaseImpl.Course", "service")
	defer apmSpan.End()

	course, err := cu.ContentRepository.FindCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, domain.ErrCourseNotFound
	}
	return course, nil
}

func (cu *ContentUseCaseImpl) ListLessons(ctx context.Context, courseID string, lang Language) ([]*LessonView, error) {
	apmSpan, _ := apm.StartSpan(ctx, "ContentUseCaseImpl.ListLessons", "service")
	defer apmSpan.End()

	lessons, err := cu.ContentRepository.ListLessons(ctx, courseID)
	if err != nil {
		return nil, err
	}
	views := make([]*LessonView, 0, len(lessons))
	for _, l := range lessons {
		views = append(views, l.View(lang))
	}
	return views, nil
}

// CountLessons unknown courses have zero lessons
func (cu *ContentUseCaseImpl) CountLessons(ctx context.Context, courseID string) (int, error) {
	apmSpan, _ := apm.StartSpan(ctx, "ContentUseCaseImpl.CountLessons", "service")
	defer apmSpan.End()

	return cu.ContentRepository.CountLessons(ctx, courseID)
}

// ExamDefinition returns domain.ErrExamNotFound when the course has no exam
func (cu *ContentUseCaseImpl) ExamDefinition(ctx context.Context, courseID string) (*ExamDefinition, error) {
	apmSpan, _ := apm.StartSpan(ctx, "ContentUseCaseImpl.ExamDefinition", "service")
	defer apmSpan.End()

	def, err := cu.ContentRepository.FindExam(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if def == nil {
		return nil, domain.ErrExamNotFound
	}
	return def, nil
}
