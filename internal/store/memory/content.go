package memory

import (
	"context"

	"github.com/pot-code/coursecert/internal/content"
)

type contentRepository struct {
	db *contentTable
}

// NewContentRepository content.Repository over db
func NewContentRepository(db *DB) content.Repository {
	return &contentRepository{db: db.content}
}

func (r *contentRepository) ListCourses(ctx context.Context) ([]*content.Course, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	res := make([]*content.Course, 0, len(r.db.courses))
	for _, c := range r.db.courses {
		cp := *c
		res = append(res, &cp)
	}
	return res, nil
}

func (r *contentRepository) FindCourse(ctx context.Context, courseID string) (*content.Course, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	for _, c := range r.db.courses {
		if c.ID == courseID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *contentRepository) ListLessons(ctx context.Context, courseID string) ([]*content.Lesson, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	lessons := r.db.lessons[courseID]
	res := make([]*content.Lesson, 0, len(lessons))
	for _, l := range lessons {
		res = append(res, cloneLesson(l))
	}
	return res, nil
}

func (r *contentRepository) CountLessons(ctx context.Context, courseID string) (int, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()
	return len(r.db.lessons[courseID]), nil
}

func (r *contentRepository) FindExam(ctx context.Context, courseID string) (*content.ExamDefinition, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	if def, ok := r.db.exams[courseID]; ok {
		return cloneExam(def), nil
	}
	return nil, nil
}
