package handler

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pot-code/coursecert/internal/content"
	"github.com/pot-code/coursecert/internal/exam"
	"github.com/pot-code/coursecert/internal/infrastructure/auth"
	"github.com/pot-code/coursecert/internal/infrastructure/validate"
)

type ExamHandler struct {
	examUseCase exam.ExamUseCase
	validator   validate.Validator
	jwtUtil     *auth.JWTUtil
}

func NewExamHandler(
	ExamUseCase exam.ExamUseCase,
	JWTUtil *auth.JWTUtil,
	Validator validate.Validator,
) *ExamHandler {
	return &ExamHandler{ExamUseCase, Validator, JWTUtil}
}

type submitExamRequest struct {
	Answers json.RawMessage `json:"answers"`
	Lang    string          `json:"lang"`
}

// HandleGetStatus latest attempt of the principal, zero values when never attempted
func (eh *ExamHandler) HandleGetStatus(c echo.Context) error {
	claims := eh.jwtUtil.GetContextToken(c)
	courseID := c.Param("courseId")

	attempt, err := eh.examUseCase.Status(c.Request().Context(), claims.UID, courseID)
	if err != nil {
		return err
	}
	res := map[string]interface{}{
		"courseId":  courseID,
		"passed":    false,
		"score":     nil,
		"updatedAt": nil,
	}
	if attempt != nil {
		res["passed"] = attempt.Passed
		res["score"] = attempt.Score
		res["updatedAt"] = attempt.UpdatedAt
	}
	return c.JSON(http.StatusOK, res)
}

// HandleGetExam exam paper in the requested language without the answer key
func (eh *ExamHandler) HandleGetExam(c echo.Context) error {
	claims := eh.jwtUtil.GetContextToken(c)
	lang := content.ParseLanguage(c.QueryParam("lang"))

	paper, err := eh.examUseCase.Exam(c.Request().Context(), claims.UID, c.Param("courseId"), lang)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, paper)
}

// HandleSubmit score a submission and record it as the latest attempt
func (eh *ExamHandler) HandleSubmit(c echo.Context) error {
	claims := eh.jwtUtil.GetContextToken(c)
	courseID := c.Param("courseId")
	if err := eh.validator.Empty("courseId", courseID); err != nil {
		return validationError(c, err)
	}

	post := new(submitExamRequest)
	if err := c.Bind(post); err != nil {
		return bindError(c, err)
	}
	lang := post.Lang
	if lang == "" {
		lang = c.QueryParam("lang")
	}
	answers, err := exam.ParseAnswers(post.Answers)
	if err != nil {
		return err
	}

	result, err := eh.examUseCase.Submit(c.Request().Context(), claims.UID, courseID, content.ParseLanguage(lang), answers)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"ok":        true,
		"courseId":  courseID,
		"score":     result.Score,
		"passed":    result.Passed,
		"passScore": result.PassScore,
		"correct":   result.Correct,
		"total":     result.Total,
		"lang":      result.Language,
	})
}
