package progress

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	"github.com/pot-code/coursecert/internal/domain"
	"github.com/pot-code/coursecert/internal/infrastructure/driver"
)

type ProgressSQL struct {
	Conn driver.ITransactionalDB
}

var _ ProgressRepository = &ProgressSQL{}

func NewProgressRepository(Conn driver.ITransactionalDB) *ProgressSQL {
	return &ProgressSQL{Conn}
}

// pgMergeProgress the whole merge happens in one statement, $6 decides whether the reflection timestamp moves
const pgMergeProgress = `
INSERT INTO progress (user_id, course_id, lesson_index, completed, quiz_score, reflection, reflection_updated_at, updated_at)
VALUES ($1, $2, $3,
  COALESCE($4::boolean, FALSE),
  $5::integer,
  $6::text,
  CASE WHEN $6::text IS NOT NULL THEN $7::timestamptz ELSE NULL END,
  $7::timestamptz)
ON CONFLICT (user_id, course_id, lesson_index) DO UPDATE SET
  completed = COALESCE($4::boolean, progress.completed),
  quiz_score = COALESCE($5::integer, progress.quiz_score),
  reflection = COALESCE($6::text, progress.reflection),
  reflection_updated_at = CASE WHEN $6::text IS NOT NULL THEN $7::timestamptz ELSE progress.reflection_updated_at END,
  updated_at = $7::timestamptz
RETURNING completed, quiz_score, reflection, reflection_updated_at, updated_at`

// mysqlMergeProgress positional twin of pgMergeProgress, see mysqlMergeArgs
const mysqlMergeProgress = `
INSERT INTO progress (user_id, course_id, lesson_index, completed, quiz_score, reflection, reflection_updated_at, updated_at)
VALUES (?, ?, ?, COALESCE(?, FALSE), ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  completed = COALESCE(?, completed),
  quiz_score = COALESCE(?, quiz_score),
  reflection = COALESCE(?, reflection),
  reflection_updated_at = COALESCE(?, reflection_updated_at),
  updated_at = ?`

const selectProgress = `
SELECT user_id, course_id, lesson_index, completed, quiz_score, reflection, reflection_updated_at, updated_at
FROM progress
WHERE user_id = $1 AND course_id = $2`

func (repo *ProgressSQL) MergeProgress(ctx context.Context, key Key, patch *Patch, now time.Time) (*Record, error) {
	if repo.Conn.Dialect() == driver.DialectMySQL {
		return repo.mergeMySQL(ctx, key, patch, now)
	}

	rows, err := repo.Conn.QueryContext(ctx, pgMergeProgress,
		key.UserID, key.CourseID, key.LessonIndex,
		nullBool(patch.Completed), nullInt(patch.QuizScore), nullString(patch.ReflectionText), now)
	if err != nil {
		return nil, domain.Unavailable(errors.Wrap(err, "merge progress"))
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, domain.Unavailable(errors.Wrap(err, "merge progress"))
		}
		return nil, domain.Unavailable(errors.New("merge progress returned no row"))
	}
	record := &Record{Key: key}
	if err := rows.Scan(&record.Completed, &record.QuizScore, &record.ReflectionText,
		&record.ReflectionUpdatedAt, &record.UpdatedAt); err != nil {
		return nil, errors.Wrap(err, "scan merged progress")
	}
	return record, nil
}

// mergeMySQL upsert and re-select share one transaction, the upsert's row lock keeps
// concurrent writers out until the merged row has been read back
func (repo *ProgressSQL) mergeMySQL(ctx context.Context, key Key, patch *Patch, now time.Time) (*Record, error) {
	var reflectionAt interface{}
	if patch.ReflectionText != nil {
		reflectionAt = now
	}
	completed, score, reflection := nullBool(patch.Completed), nullInt(patch.QuizScore), nullString(patch.ReflectionText)

	var record *Record
	err := driver.WithTx(ctx, repo.Conn, &driver.TxOptions{
		Isolation:  sql.LevelReadCommitted,
		AccessMode: driver.AccessReadWrite,
	}, func(tx driver.ITransactionalDB) error {
		if _, err := tx.ExecContext(ctx, mysqlMergeProgress,
			key.UserID, key.CourseID, key.LessonIndex, completed, score, reflection, reflectionAt, now,
			completed, score, reflection, reflectionAt, now); err != nil {
			return domain.Unavailable(errors.Wrap(err, "merge progress"))
		}

		records, err := queryProgress(ctx, tx, selectProgress+" AND lesson_index = $3", key.UserID, key.CourseID, key.LessonIndex)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			return domain.Unavailable(errors.New("merged progress row vanished"))
		}
		record = records[0]
		return nil
	})
	if err != nil {
		var ue *domain.UnavailableError
		if !errors.As(err, &ue) {
			err = domain.Unavailable(errors.Wrap(err, "merge progress"))
		}
		return nil, err
	}
	return record, nil
}

func (repo *ProgressSQL) ListProgress(ctx context.Context, userID, courseID string) ([]*Record, error) {
	return queryProgress(ctx, repo.Conn, selectProgress+" ORDER BY lesson_index", userID, courseID)
}

func queryProgress(ctx context.Context, conn driver.ITransactionalDB, query string, args ...interface{}) ([]*Record, error) {
	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.Unavailable(errors.Wrap(err, "query progress"))
	}
	defer rows.Close()

	var result []*Record
	for rows.Next() {
		item := new(Record)
		if err := rows.Scan(&item.UserID, &item.CourseID, &item.LessonIndex, &item.Completed,
			&item.QuizScore, &item.ReflectionText, &item.ReflectionUpdatedAt, &item.UpdatedAt); err != nil {
			return nil, errors.Wrap(err, "scan progress")
		}
		result = append(result, item)
	}
	return result, domain.Unavailable(rows.Err())
}

func (repo *ProgressSQL) CountCompleted(ctx context.Context, userID, courseID string) (int, error) {
	rows, err := repo.Conn.QueryContext(ctx, `
SELECT COUNT(*) FROM progress
WHERE user_id = $1 AND course_id = $2 AND completed = TRUE`, userID, courseID)
	if err != nil {
		return 0, domain.Unavailable(errors.Wrap(err, "count completed lessons"))
	}
	defer rows.Close()

	var count int
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			return 0, errors.Wrap(err, "scan completed lessons")
		}
	}
	return count, domain.Unavailable(rows.Err())
}

func nullBool(v *bool) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func nullInt(v *int) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func nullString(v *string) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
