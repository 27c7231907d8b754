package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLanguage(t *testing.T) {
	assert.Equal(t, LangTI, ParseLanguage("ti"))
	assert.Equal(t, LangEN, ParseLanguage("en"))
	assert.Equal(t, LangEN, ParseLanguage(""))
	assert.Equal(t, LangEN, ParseLanguage("TI-ER"))
}

func TestCourse_Title(t *testing.T) {
	c := &Course{ID: "growth", TitleEN: "Growth"}
	assert.Equal(t, "Growth", c.Title(LangTI), "missing translation falls back to english")
	c.TitleTI = "ዕቤት"
	assert.Equal(t, "ዕቤት", c.Title(LangTI))
	assert.Equal(t, "growth", (&Course{ID: "growth"}).Title(LangEN))
}

func TestExamDefinition_QuestionSet(t *testing.T) {
	en := []Question{{Text: "Q"}}
	ti := []Question{{Text: "ሕ"}}
	def := &ExamDefinition{Questions: map[Language][]Question{LangEN: en}}

	lang, qs := def.QuestionSet(LangTI)
	assert.Equal(t, LangEN, lang)
	assert.Equal(t, en, qs)

	def.Questions[LangTI] = ti
	lang, qs = def.QuestionSet(LangTI)
	assert.Equal(t, LangTI, lang)
	assert.Equal(t, ti, qs)
}
