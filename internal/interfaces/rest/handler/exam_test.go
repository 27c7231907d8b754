package handler

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestExamHandler_HandleSubmit(t *testing.T) {
	s := setup(t)
	h := NewExamHandler(s.exams, s.jwtUtil, s.validator)
	e := echo.New()

	tests := []httpTest{
		{
			name:     "scored",
			path:     "growth",
			body:     []byte(`{"answers":[0,1,1]}`),
			wantCode: http.StatusOK,
			wantData: `{"ok":true,"courseId":"growth","score":67,"passed":false,"passScore":70,"correct":2,"total":3,"lang":"en"}`,
		},
		{
			name:     "not an array",
			path:     "growth",
			body:     []byte(`{"answers":"0,1,1"}`),
			wantCode: http.StatusBadRequest,
			wantData: `{"code":400,"title":"Bad Request","detail":"Invalid answers: answers must be an array","reason":"not_array"}`,
		},
		{
			name:     "missing answer",
			path:     "growth",
			body:     []byte(`{"answers":[0,-1,0]}`),
			wantCode: http.StatusBadRequest,
			wantData: `{"code":400,"title":"Bad Request","detail":"Invalid answers: answer #2 is missing (-1)","reason":"missing","index":1,"value":-1}`,
		},
		{
			name:     "length mismatch",
			path:     "growth",
			body:     []byte(`{"answers":[0,1]}`),
			wantCode: http.StatusBadRequest,
			wantData: `{"code":400,"title":"Bad Request","detail":"Invalid answers: answers length must match questions length (expected 3, got 2)","reason":"length_mismatch","expected":3,"got":2}`,
		},
		{
			name:     "out of range",
			path:     "growth",
			body:     []byte(`{"answers":[0,1,5]}`),
			wantCode: http.StatusBadRequest,
			wantData: `{"code":400,"title":"Bad Request","detail":"Invalid answers: answer #3 out of range","reason":"out_of_range","index":2,"value":5,"optionsLength":3}`,
		},
		{
			name:     "unknown exam",
			path:     "nope",
			body:     []byte(`{"answers":[0]}`),
			wantCode: http.StatusNotFound,
			wantData: `{"code":404,"title":"Not Found","detail":"Exam not found"}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := s.newRequest(e, "u1", http.MethodPost, "/api/v1/exams/"+tt.path+"/submit", tt.body)
			serve(t, h.HandleSubmit, c, map[string]string{"courseId": tt.path})
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.JSONEq(t, tt.wantData, rec.Body.String())
		})
	}
}

func TestExamHandler_HandleGetStatus(t *testing.T) {
	s := setup(t)
	h := NewExamHandler(s.exams, s.jwtUtil, s.validator)
	e := echo.New()

	c, rec := s.newRequest(e, "u1", http.MethodGet, "/api/v1/exams/status/growth", nil)
	serve(t, h.HandleGetStatus, c, map[string]string{"courseId": "growth"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"courseId":"growth","passed":false,"score":null,"updatedAt":null}`, rec.Body.String())

	s.qualify(t, "u1")
	c, rec = s.newRequest(e, "u1", http.MethodGet, "/api/v1/exams/status/growth", nil)
	serve(t, h.HandleGetStatus, c, map[string]string{"courseId": "growth"})
	assert.JSONEq(t, `{"courseId":"growth","passed":true,"score":100,"updatedAt":"2024-05-01T12:00:00Z"}`, rec.Body.String())
}

func TestExamHandler_HandleGetExam(t *testing.T) {
	s := setup(t)
	h := NewExamHandler(s.exams, s.jwtUtil, s.validator)
	e := echo.New()

	c, rec := s.newRequest(e, "u1", http.MethodGet, "/api/v1/exams/growth?lang=ti", nil)
	serve(t, h.HandleGetExam, c, map[string]string{"courseId": "growth"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "correctIndex")

	body := decode(t, rec)
	assert.Equal(t, "en", body["lang"], "no tigrinya questions seeded")
	assert.Len(t, body["questions"], 3)
	assert.Nil(t, body["latestAttempt"])
}
