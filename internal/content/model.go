package content

import (
	"context"
	"encoding/json"
)

// Language content language tag
type Language string

// supported languages, en is the primary one
const (
	LangEN Language = "en"
	LangTI Language = "ti"

	PrimaryLanguage = LangEN
)

// ParseLanguage map a request value to a supported language, anything unknown is the primary language
func ParseLanguage(s string) Language {
	if Language(s) == LangTI {
		return LangTI
	}
	return PrimaryLanguage
}

type Course struct {
	ID            string `json:"id"`
	TitleEN       string `json:"title_en"`
	TitleTI       string `json:"title_ti"`
	DescriptionEN string `json:"description_en"`
	DescriptionTI string `json:"description_ti"`
}

// Title course title in lang, falls back to english then to the id
func (c *Course) Title(lang Language) string {
	if lang == LangTI && c.TitleTI != "" {
		return c.TitleTI
	}
	if c.TitleEN != "" {
		return c.TitleEN
	}
	return c.ID
}

type Lesson struct {
	CourseID    string
	LessonIndex int
	TitleEN     string
	TitleTI     string
	LearnEN     string
	LearnTI     string
	TaskEN      string
	TaskTI      string
	Quiz        json.RawMessage
}

// LessonView lesson text in one language
type LessonView struct {
	LessonIndex int             `json:"lessonIndex"`
	Title       string          `json:"title"`
	LearnText   string          `json:"learnText"`
	Task        string          `json:"task"`
	Quiz        json.RawMessage `json:"quiz"`
}

// View select the lesson text for lang
func (l *Lesson) View(lang Language) *LessonView {
	v := &LessonView{LessonIndex: l.LessonIndex, Quiz: l.Quiz}
	if lang == LangTI {
		v.Title, v.LearnText, v.Task = l.TitleTI, l.LearnTI, l.TaskTI
	} else {
		v.Title, v.LearnText, v.Task = l.TitleEN, l.LearnEN, l.TaskEN
	}
	if len(v.Quiz) == 0 {
		v.Quiz = json.RawMessage("null")
	}
	return v
}

// Question multiple choice exam question. CorrectIndex is nil when the author left it unset,
// such a question can never be answered correctly.
type Question struct {
	Text         string   `json:"text"`
	Options      []string `json:"options"`
	CorrectIndex *int     `json:"correctIndex"`
}

// ExamDefinition final exam of a course, one question list per language
type ExamDefinition struct {
	CourseID  string
	PassScore int
	Questions map[Language][]Question
}

// QuestionSet questions for lang, falling back to the primary language when lang is unknown or has none
func (ed *ExamDefinition) QuestionSet(lang Language) (Language, []Question) {
	if qs := ed.Questions[lang]; len(qs) > 0 {
		return lang, qs
	}
	return PrimaryLanguage, ed.Questions[PrimaryLanguage]
}

type Repository interface {
	ListCourses(ctx context.Context) ([]*Course, error)
	FindCourse(ctx context.Context, courseID string) (*Course, error)
	ListLessons(ctx context.Context, courseID string) ([]*Lesson, error)
	CountLessons(ctx context.Context, courseID string) (int, error)
	FindExam(ctx context.Context, courseID string) (*ExamDefinition, error)
}

type UseCase interface {
	ListCourses(ctx context.Context) ([]*Course, error)
	Course(ctx context.Context, courseID string) (*Course, error)
	ListLessons(ctx context.Context, courseID string, lang Language) ([]*LessonView, error)
	CountLessons(ctx context.Context, courseID string) (int, error)
	ExamDefinition(ctx context.Context, courseID string) (*ExamDefinition, error)
}
