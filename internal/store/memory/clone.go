package memory

import (
	"github.com/pot-code/coursecert/internal/content"
	"github.com/pot-code/coursecert/internal/progress"
)

// rows leave and enter the store as deep copies, callers never share memory with it

func cloneRecord(r *progress.Record) *progress.Record {
	cp := *r
	if r.QuizScore != nil {
		v := *r.QuizScore
		cp.QuizScore = &v
	}
	if r.ReflectionText != nil {
		v := *r.ReflectionText
		cp.ReflectionText = &v
	}
	if r.ReflectionUpdatedAt != nil {
		v := *r.ReflectionUpdatedAt
		cp.ReflectionUpdatedAt = &v
	}
	return &cp
}

func cloneLesson(l *content.Lesson) *content.Lesson {
	cp := *l
	if l.Quiz != nil {
		cp.Quiz = append([]byte(nil), l.Quiz...)
	}
	return &cp
}

func cloneExam(def *content.ExamDefinition) *content.ExamDefinition {
	cp := *def
	if def.Questions != nil {
		cp.Questions = make(map[content.Language][]content.Question, len(def.Questions))
		for lang, qs := range def.Questions {
			set := make([]content.Question, len(qs))
			for i, q := range qs {
				set[i] = q
				set[i].Options = append([]string(nil), q.Options...)
				if q.CorrectIndex != nil {
					v := *q.CorrectIndex
					set[i].CorrectIndex = &v
				}
			}
			cp.Questions[lang] = set
		}
	}
	return &cp
}
