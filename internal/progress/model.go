package progress

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pot-code/coursecert/internal/domain"
)

// MaxReflectionLength reflection limit in characters
const MaxReflectionLength = 2000

// Key identifies one progress record
type Key struct {
	UserID      string
	CourseID    string
	LessonIndex int
}

// Patch partial update, nil fields keep the stored value
type Patch struct {
	Completed      *bool
	QuizScore      *int
	ReflectionText *string
}

// Record stored progress of a learner on one lesson
type Record struct {
	Key
	Completed           bool
	QuizScore           *int
	ReflectionText      *string
	ReflectionUpdatedAt *time.Time
	UpdatedAt           time.Time
}

// LessonProgress per lesson read model
type LessonProgress struct {
	Completed           bool       `json:"completed"`
	QuizScore           *int       `json:"quizScore"`
	HasReflection       bool       `json:"hasReflection"`
	ReflectionText      string     `json:"reflectionText"`
	ReflectionUpdatedAt *time.Time `json:"reflectionUpdatedAt"`
	UpdatedAt           *time.Time `json:"updatedAt"`
}

// CourseStatus progress summary of one course
type CourseStatus struct {
	CourseID         string `json:"courseId"`
	TotalLessons     int    `json:"totalLessons"`
	CompletedLessons int    `json:"completedLessons"`
	HasCertificate   bool   `json:"hasCertificate"`
}

// Validate check key and patch bounds
func Validate(key Key, patch *Patch) error {
	if key.CourseID == "" {
		return domain.NewValidationError("courseId", "courseId is required")
	}
	if key.LessonIndex < 0 {
		return domain.NewValidationError("lessonIndex", "lessonIndex must be 0 or greater")
	}
	if patch.QuizScore != nil && (*patch.QuizScore < 0 || *patch.QuizScore > 100) {
		return domain.NewValidationError("quizScore", "quizScore must be between 0 and 100")
	}
	if patch.ReflectionText != nil && utf8.RuneCountInString(*patch.ReflectionText) > MaxReflectionLength {
		return domain.NewValidationError("reflection", "reflection must be at most 2000 characters")
	}
	return nil
}

// Merge apply patch on prev (nil when the record does not exist yet) at now.
// Stores must produce the same result atomically.
func Merge(prev *Record, key Key, patch *Patch, now time.Time) *Record {
	next := &Record{Key: key}
	if prev != nil {
		*next = *prev
		next.Key = key
	}
	if patch.Completed != nil {
		next.Completed = *patch.Completed
	}
	if patch.QuizScore != nil {
		v := *patch.QuizScore
		next.QuizScore = &v
	}
	if patch.ReflectionText != nil {
		v := *patch.ReflectionText
		at := now
		next.ReflectionText = &v
		next.ReflectionUpdatedAt = &at
	}
	next.UpdatedAt = now
	return next
}

// View read model of the record
func (r *Record) View() *LessonProgress {
	updatedAt := r.UpdatedAt
	lp := &LessonProgress{
		Completed:           r.Completed,
		QuizScore:           r.QuizScore,
		ReflectionUpdatedAt: r.ReflectionUpdatedAt,
		UpdatedAt:           &updatedAt,
	}
	if r.ReflectionText != nil {
		lp.ReflectionText = *r.ReflectionText
		lp.HasReflection = strings.TrimSpace(*r.ReflectionText) != ""
	}
	return lp
}

type ProgressRepository interface {
	MergeProgress(ctx context.Context, key Key, patch *Patch, now time.Time) (*Record, error)
	ListProgress(ctx context.Context, userID, courseID string) ([]*Record, error)
	CountCompleted(ctx context.Context, userID, courseID string) (int, error)
}

// CertificateChecker tells whether a certificate was issued
type CertificateChecker interface {
	HasCertificate(ctx context.Context, userID, courseID string) (bool, error)
}

type ProgressUseCase interface {
	Update(ctx context.Context, userID, courseID string, lessonIndex int, patch *Patch) (*Record, error)
	Read(ctx context.Context, userID, courseID string) (map[int]*LessonProgress, error)
	CountCompleted(ctx context.Context, userID, courseID string) (int, error)
	Overview(ctx context.Context, userID string) ([]*CourseStatus, error)
}
