// Package memory keeps every table in process memory. It backs the use case and handler tests,
// honouring the same atomicity the SQL statements give.
package memory

import (
	"sync"

	"github.com/pot-code/coursecert/internal/certificate"
	"github.com/pot-code/coursecert/internal/content"
	"github.com/pot-code/coursecert/internal/exam"
	"github.com/pot-code/coursecert/internal/progress"
	"github.com/pot-code/coursecert/internal/user"
)

type (
	// DB in memory tables
	DB struct {
		content      *contentTable
		users        *userTable
		progress     *progressTable
		attempts     *attemptTable
		certificates *certificateTable
	}

	contentTable struct {
		courses []*content.Course
		lessons map[string][]*content.Lesson
		exams   map[string]*content.ExamDefinition
		mutex   sync.RWMutex
	}

	userTable struct {
		t     map[string]*user.User
		mutex sync.RWMutex
	}

	progressTable struct {
		t     map[progress.Key]*progress.Record
		mutex sync.RWMutex
	}

	pairKey struct {
		userID   string
		courseID string
	}

	attemptTable struct {
		t     map[pairKey]*exam.Attempt
		mutex sync.RWMutex
	}

	certificateTable struct {
		t     map[pairKey]*certificate.Certificate
		mutex sync.RWMutex
	}
)

// Open create an empty DB
func Open() *DB {
	return &DB{
		content: &contentTable{
			lessons: make(map[string][]*content.Lesson),
			exams:   make(map[string]*content.ExamDefinition),
		},
		users:        &userTable{t: make(map[string]*user.User)},
		progress:     &progressTable{t: make(map[progress.Key]*progress.Record)},
		attempts:     &attemptTable{t: make(map[pairKey]*exam.Attempt)},
		certificates: &certificateTable{t: make(map[pairKey]*certificate.Certificate)},
	}
}

// AddCourse seed a course with its lessons and optional exam
func (db *DB) AddCourse(course *content.Course, lessons []*content.Lesson, def *content.ExamDefinition) {
	t := db.content
	t.mutex.Lock()
	defer t.mutex.Unlock()

	stored := *course
	replaced := false
	for i, c := range t.courses {
		if c.ID == course.ID {
			t.courses[i] = &stored
			replaced = true
		}
	}
	if !replaced {
		t.courses = append(t.courses, &stored)
	}
	copies := make([]*content.Lesson, 0, len(lessons))
	for _, l := range lessons {
		copies = append(copies, cloneLesson(l))
	}
	t.lessons[course.ID] = copies
	if def != nil {
		t.exams[course.ID] = cloneExam(def)
	} else {
		delete(t.exams, course.ID)
	}
}

// AddUser seed a learner profile
func (db *DB) AddUser(u *user.User) {
	db.users.mutex.Lock()
	defer db.users.mutex.Unlock()
	stored := *u
	db.users.t[u.ID] = &stored
}
