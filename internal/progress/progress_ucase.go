package progress

import (
	"context"
	"time"

	"github.com/pot-code/coursecert/internal/content"
	"github.com/pot-code/coursecert/internal/infrastructure/metrics"
	"go.elastic.co/apm"
)

// ProgressUseCaseImpl ...
type ProgressUseCaseImpl struct {
	ProgressRepository ProgressRepository
	Content            content.UseCase
	Certificates       CertificateChecker
	Metrics            *metrics.Recorder
	Clock              func() time.Time
}

var _ ProgressUseCase = &ProgressUseCaseImpl{}

// NewProgressUseCase ...
func NewProgressUseCase(
	ProgressRepository ProgressRepository,
	Content content.UseCase,
	Certificates CertificateChecker,
	Metrics *metrics.Recorder,
) *ProgressUseCaseImpl {
	return &ProgressUseCaseImpl{
		ProgressRepository: ProgressRepository,
		Content:            Content,
		Certificates:       Certificates,
		Metrics:            Metrics,
		Clock:              time.Now,
	}
}

// Update merge patch into the learner's lesson record, creating it on first write
func (pu *ProgressUseCaseImpl) Update(ctx context.Context, userID, courseID string, lessonIndex int, patch *Patch) (*Record, error) {
	apmSpan, _ := apm.StartSpan(ctx, "ProgressUseCaseImpl.Update", "service")
	defer apmSpan.End()

	key := Key{UserID: userID, CourseID: courseID, LessonIndex: lessonIndex}
	if err := Validate(key, patch); err != nil {
		return nil, err
	}

	// millisecond precision survives both postgres and mysql DATETIME(3)
	now := pu.Clock().UTC().Truncate(time.Millisecond)
	record, err := pu.ProgressRepository.MergeProgress(ctx, key, patch, now)
	if err != nil {
		return nil, err
	}
	pu.Metrics.ProgressUpdated(courseID)
	return record, nil
}

// Read progress of every touched lesson keyed by lesson index
func (pu *ProgressUseCaseImpl) Read(ctx context.Context, userID, courseID string) (map[int]*LessonProgress, error) {
	apmSpan, _ := apm.StartSpan(ctx, "ProgressUseCaseImpl.Read", "service")
	defer apmSpan.End()

	records, err := pu.ProgressRepository.ListProgress(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	result := make(map[int]*LessonProgress, len(records))
	for _, r := range records {
		result[r.LessonIndex] = r.View()
	}
	return result, nil
}

func (pu *ProgressUseCaseImpl) CountCompleted(ctx context.Context, userID, courseID string) (int, error) {
	apmSpan, _ := apm.StartSpan(ctx, "ProgressUseCaseImpl.CountCompleted", "service")
	defer apmSpan.End()

	return pu.ProgressRepository.CountCompleted(ctx, userID, courseID)
}

// Overview lesson counts and certificate flag for every course
func (pu *ProgressUseCaseImpl) Overview(ctx context.Context, userID string) ([]*CourseStatus, error) {
	apmSpan, _ := apm.StartSpan(ctx, "ProgressUseCaseImpl.Overview", "service")
	defer apmSpan.End()

	courses, err := pu.Content.ListCourses(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]*CourseStatus, 0, len(courses))
	for _, c := range courses {
		status := &CourseStatus{CourseID: c.ID}
		if status.TotalLessons, err = pu.Content.CountLessons(ctx, c.ID); err != nil {
			return nil, err
		}
		if status.CompletedLessons, err = pu.ProgressRepository.CountCompleted(ctx, userID, c.ID); err != nil {
			return nil, err
		}
		if status.HasCertificate, err = pu.Certificates.HasCertificate(ctx, userID, c.ID); err != nil {
			return nil, err
		}
		result = append(result, status)
	}
	return result, nil
}
