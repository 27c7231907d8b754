package memory

import (
	"fmt"

	"github.com/pot-code/coursecert/internal/content"
)

// SeedCourse add an english course with n lessons and, when answers is not empty, an exam whose
// i-th question has three options and answers[i] as the correct one
func (db *DB) SeedCourse(courseID string, n int, passScore int, answers ...int) {
	lessons := make([]*content.Lesson, 0, n)
	for i := 0; i < n; i++ {
		lessons = append(lessons, &content.Lesson{
			CourseID:    courseID,
			LessonIndex: i,
			TitleEN:     fmt.Sprintf("Lesson %d", i+1),
			TitleTI:     fmt.Sprintf("ትምህርቲ %d", i+1),
		})
	}

	var def *content.ExamDefinition
	if len(answers) > 0 {
		answers = append([]int(nil), answers...)
		questions := make([]content.Question, 0, len(answers))
		for i := range answers {
			questions = append(questions, content.Question{
				Text:         fmt.Sprintf("Question %d", i+1),
				Options:      []string{"A", "B", "C"},
				CorrectIndex: &answers[i],
			})
		}
		def = &content.ExamDefinition{
			CourseID:  courseID,
			PassScore: passScore,
			Questions: map[content.Language][]content.Question{content.LangEN: questions},
		}
	}
	db.AddCourse(&content.Course{ID: courseID, TitleEN: "Course " + courseID}, lessons, def)
}
