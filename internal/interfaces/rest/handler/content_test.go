package handler

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestContentHandler(t *testing.T) {
	s := setup(t)
	h := NewContentHandler(s.content)
	e := echo.New()

	c, rec := s.newRequest(e, "", http.MethodGet, "/api/v1/courses", nil)
	serve(t, h.HandleListCourses, c, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"courses":[{"id":"growth","title_en":"Course growth","title_ti":"","description_en":"","description_ti":""}]}`,
		rec.Body.String())

	c, rec = s.newRequest(e, "u1", http.MethodGet, "/api/v1/lessons/growth?lang=ti", nil)
	serve(t, h.HandleListLessons, c, map[string]string{"courseId": "growth"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"courseId":"growth","lang":"ti","lessons":[
		{"lessonIndex":0,"title":"ትምህርቲ 1","learnText":"","task":"","quiz":null},
		{"lessonIndex":1,"title":"ትምህርቲ 2","learnText":"","task":"","quiz":null}]}`, rec.Body.String())
}
