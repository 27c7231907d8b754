package content

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/pot-code/coursecert/internal/domain"
	"github.com/pot-code/coursecert/internal/infrastructure/driver"
)

type ContentSQL struct {
	Conn driver.ITransactionalDB
}

var _ Repository = &ContentSQL{}

func NewContentRepository(Conn driver.ITransactionalDB) *ContentSQL {
	return &ContentSQL{Conn}
}

func (repo *ContentSQL) ListCourses(ctx context.Context) ([]*Course, error) {
	rows, err := repo.Conn.QueryContext(ctx, `
SELECT id, title_en, title_ti, description_en, description_ti
FROM courses
ORDER BY sort_order, id`)
	if err != nil {
		return nil, domain.Unavailable(errors.Wrap(err, "list courses"))
	}
	defer rows.Close()

	var result []*Course
	for rows.Next() {
		item := new(Course)
		if err := rows.Scan(&item.ID, &item.TitleEN, &item.TitleTI, &item.DescriptionEN, &item.DescriptionTI); err != nil {
			return nil, errors.Wrap(err, "scan course")
		}
		result = append(result, item)
	}
	return result, domain.Unavailable(rows.Err())
}

func (repo *ContentSQL) FindCourse(ctx context.Context, courseID string) (*Course, error) {
	rows, err := repo.Conn.QueryContext(ctx, `
SELECT id, title_en, title_ti, description_en, description_ti
FROM courses
WHERE id = $1`, courseID)
	if err != nil {
		return nil, domain.Unavailable(errors.Wrap(err, "find course"))
	}
	defer rows.Close()

	if rows.Next() {
		item := new(Course)
		if err := rows.Scan(&item.ID, &item.TitleEN, &item.TitleTI, &item.DescriptionEN, &item.DescriptionTI); err != nil {
			return nil, errors.Wrap(err, "scan course")
		}
		return item, nil
	}
	return nil, domain.Unavailable(rows.Err())
}

func (repo *ContentSQL) ListLessons(ctx context.Context, courseID string) ([]*Lesson, error) {
	rows, err := repo.Conn.QueryContext(ctx, `
SELECT course_id, lesson_index, title_en, title_ti, learn_en, learn_ti, task_en, task_ti, quiz_json
FROM lessons
WHERE course_id = $1
ORDER BY lesson_index`, courseID)
	if err != nil {
		return nil, domain.Unavailable(errors.Wrap(err, "list lessons"))
	}
	defer rows.Close()

	var result []*Lesson
	for rows.Next() {
		var quiz string
		item := new(Lesson)
		if err := rows.Scan(&item.CourseID, &item.LessonIndex, &item.TitleEN, &item.TitleTI,
			&item.LearnEN, &item.LearnTI, &item.TaskEN, &item.TaskTI, &quiz); err != nil {
			return nil, errors.Wrap(err, "scan lesson")
		}
		if json.Valid([]byte(quiz)) {
			item.Quiz = json.RawMessage(quiz)
		}
		result = append(result, item)
	}
	return result, domain.Unavailable(rows.Err())
}

func (repo *ContentSQL) CountLessons(ctx context.Context, courseID string) (int, error) {
	rows, err := repo.Conn.QueryContext(ctx, `SELECT COUNT(*) FROM lessons WHERE course_id = $1`, courseID)
	if err != nil {
		return 0, domain.Unavailable(errors.Wrap(err, "count lessons"))
	}
	defer rows.Close()

	var count int
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			return 0, errors.Wrap(err, "scan lesson count")
		}
	}
	return count, domain.Unavailable(rows.Err())
}

// examDocument stored exam_json_* layout
type examDocument struct {
	Questions []Question `json:"questions"`
}

func (repo *ContentSQL) FindExam(ctx context.Context, courseID string) (*ExamDefinition, error) {
	rows, err := repo.Conn.QueryContext(ctx, `
SELECT pass_score, exam_json_en, exam_json_ti
FROM exam_defs
WHERE course_id = $1`, courseID)
	if err != nil {
		return nil, domain.Unavailable(errors.Wrap(err, "find exam"))
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, domain.Unavailable(rows.Err())
	}
	var (
		passScore      int
		jsonEN, jsonTI string
	)
	if err := rows.Scan(&passScore, &jsonEN, &jsonTI); err != nil {
		return nil, errors.Wrap(err, "scan exam")
	}

	def := &ExamDefinition{
		CourseID:  courseID,
		PassScore: passScore,
		Questions: make(map[Language][]Question),
	}
	for lang, raw := range map[Language]string{LangEN: jsonEN, LangTI: jsonTI} {
		qs, err := decodeQuestions(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "decode %s exam of course %s", lang, courseID)
		}
		def.Questions[lang] = qs
	}
	return def, nil
}

// decodeQuestions blank documents decode to no questions
func decodeQuestions(raw string) ([]Question, error) {
	if raw == "" {
		return nil, nil
	}
	doc := new(examDocument)
	if err := json.Unmarshal([]byte(raw), doc); err != nil {
		return nil, err
	}
	return doc.Questions, nil
}
