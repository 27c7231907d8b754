package exam

import (
	"context"

	"github.com/pkg/errors"
	"github.com/pot-code/coursecert/internal/domain"
	"github.com/pot-code/coursecert/internal/infrastructure/driver"
)

type AttemptSQL struct {
	Conn driver.ITransactionalDB
}

var _ AttemptRepository = &AttemptSQL{}

func NewAttemptRepository(Conn driver.ITransactionalDB) *AttemptSQL {
	return &AttemptSQL{Conn}
}

const insertAttempt = `
INSERT INTO exam_attempts (user_id, course_id, score, passed, updated_at)
VALUES ($1, $2, $3, $4, $5)`

// SaveAttempt replace the stored attempt in a single statement, last writer wins
func (repo *AttemptSQL) SaveAttempt(ctx context.Context, attempt *Attempt) error {
	query := insertAttempt + `
ON CONFLICT (user_id, course_id) DO UPDATE SET
  score = EXCLUDED.score,
  passed = EXCLUDED.passed,
  updated_at = EXCLUDED.updated_at`
	if repo.Conn.Dialect() == driver.DialectMySQL {
		query = insertAttempt + `
ON DUPLICATE KEY UPDATE
  score = VALUES(score),
  passed = VALUES(passed),
  updated_at = VALUES(updated_at)`
	}

	_, err := repo.Conn.ExecContext(ctx, query,
		attempt.UserID, attempt.CourseID, attempt.Score, attempt.Passed, attempt.UpdatedAt)
	return domain.Unavailable(errors.Wrap(err, "save exam attempt"))
}

// FindAttempt returns nil when the learner never submitted
func (repo *AttemptSQL) FindAttempt(ctx context.Context, userID, courseID string) (*Attempt, error) {
	rows, err := repo.Conn.QueryContext(ctx, `
SELECT score, passed, updated_at
FROM exam_attempts
WHERE user_id = $1 AND course_id = $2`, userID, courseID)
	if err != nil {
		return nil, domain.Unavailable(errors.Wrap(err, "find exam attempt"))
	}
	defer rows.Close()

	if rows.Next() {
		attempt := &Attempt{UserID: userID, CourseID: courseID}
		if err := rows.Scan(&attempt.Score, &attempt.Passed, &attempt.UpdatedAt); err != nil {
			return nil, errors.Wrap(err, "scan exam attempt")
		}
		return attempt, nil
	}
	return nil, domain.Unavailable(rows.Err())
}
