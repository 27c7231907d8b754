package exam

import (
	"context"
	"time"

	"github.com/pot-code/coursecert/internal/content"
)

// Attempt latest scored submission of a learner, one per course
type Attempt struct {
	UserID    string    `json:"-"`
	CourseID  string    `json:"-"`
	Score     int       `json:"score"`
	Passed    bool      `json:"passed"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Result outcome of a submission
type Result struct {
	Score     int              `json:"score"`
	Passed    bool             `json:"passed"`
	PassScore int              `json:"passScore"`
	Correct   int              `json:"correct"`
	Total     int              `json:"total"`
	Language  content.Language `json:"lang"`
}

// QuestionView question as shown to learners, without the answer key
type QuestionView struct {
	Text    string   `json:"text"`
	Options []string `json:"options"`
}

// LearnerExam exam paper plus the learner's latest attempt
type LearnerExam struct {
	CourseID      string           `json:"courseId"`
	PassScore     int              `json:"passScore"`
	Language      content.Language `json:"lang"`
	Questions     []QuestionView   `json:"questions"`
	LatestAttempt *Attempt         `json:"latestAttempt"`
}

type AttemptRepository interface {
	SaveAttempt(ctx context.Context, attempt *Attempt) error
	FindAttempt(ctx context.Context, userID, courseID string) (*Attempt, error)
}

type ExamUseCase interface {
	Submit(ctx context.Context, userID, courseID string, lang content.Language, answers []int) (*Result, error)
	Status(ctx context.Context, userID, courseID string) (*Attempt, error)
	Exam(ctx context.Context, userID, courseID string, lang content.Language) (*LearnerExam, error)
}
