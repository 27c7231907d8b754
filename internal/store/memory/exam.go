package memory

import (
	"context"

	"github.com/pot-code/coursecert/internal/exam"
)

type attemptRepository struct {
	db *attemptTable
}

// NewAttemptRepository exam.AttemptRepository over db
func NewAttemptRepository(db *DB) exam.AttemptRepository {
	return &attemptRepository{db: db.attempts}
}

func (r *attemptRepository) SaveAttempt(ctx context.Context, attempt *exam.Attempt) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	cp := *attempt
	r.db.t[pairKey{attempt.UserID, attempt.CourseID}] = &cp
	return nil
}

func (r *attemptRepository) FindAttempt(ctx context.Context, userID, courseID string) (*exam.Attempt, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	if a, ok := r.db.t[pairKey{userID, courseID}]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, nil
}
