package memory

import (
	"context"
	"sort"
	"time"

	"github.com/pot-code/coursecert/internal/progress"
)

type progressRepository struct {
	db *progressTable
}

// NewProgressRepository progress.ProgressRepository over db
func NewProgressRepository(db *DB) progress.ProgressRepository {
	return &progressRepository{db: db.progress}
}

// MergeProgress read-merge-write under the table lock
func (r *progressRepository) MergeProgress(ctx context.Context, key progress.Key, patch *progress.Patch, now time.Time) (*progress.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	next := progress.Merge(r.db.t[key], key, patch, now)
	r.db.t[key] = next
	return cloneRecord(next), nil
}

func (r *progressRepository) ListProgress(ctx context.Context, userID, courseID string) ([]*progress.Record, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	var res []*progress.Record
	for k, rec := range r.db.t {
		if k.UserID == userID && k.CourseID == courseID {
			res = append(res, cloneRecord(rec))
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].LessonIndex < res[j].LessonIndex })
	return res, nil
}

func (r *progressRepository) CountCompleted(ctx context.Context, userID, courseID string) (int, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	n := 0
	for k, rec := range r.db.t {
		if k.UserID == userID && k.CourseID == courseID && rec.Completed {
			n++
		}
	}
	return n, nil
}
