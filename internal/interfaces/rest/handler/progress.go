package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pot-code/coursecert/internal/infrastructure/auth"
	"github.com/pot-code/coursecert/internal/infrastructure/validate"
	"github.com/pot-code/coursecert/internal/progress"
)

type ProgressHandler struct {
	progressUseCase progress.ProgressUseCase
	validator       validate.Validator
	jwtUtil         *auth.JWTUtil
}

func NewProgressHandler(
	ProgressUseCase progress.ProgressUseCase,
	JWTUtil *auth.JWTUtil,
	Validator validate.Validator,
) *ProgressHandler {
	return &ProgressHandler{ProgressUseCase, Validator, JWTUtil}
}

type updateProgressRequest struct {
	CourseID    string  `json:"courseId" validate:"required"`
	LessonIndex *int    `json:"lessonIndex" validate:"required,min=0"`
	Completed   *bool   `json:"completed"`
	QuizScore   *int    `json:"quizScore" validate:"omitempty,min=0,max=100"`
	Reflection  *string `json:"reflection" validate:"omitempty,max=2000"`
}

// HandleUpdate merge one lesson's progress
func (ph *ProgressHandler) HandleUpdate(c echo.Context) error {
	claims := ph.jwtUtil.GetContextToken(c)
	post := new(updateProgressRequest)
	if err := c.Bind(post); err != nil {
		return bindError(c, err)
	}
	if err := ph.validator.Struct(post); err != nil {
		return validationError(c, err)
	}

	record, err := ph.progressUseCase.Update(c.Request().Context(), claims.UID, post.CourseID, *post.LessonIndex, &progress.Patch{
		Completed:      post.Completed,
		QuizScore:      post.QuizScore,
		ReflectionText: post.Reflection,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"ok":          true,
		"lessonIndex": record.LessonIndex,
		"record":      record.View(),
	})
}

// HandleGetCourseProgress progress of every touched lesson in a course
func (ph *ProgressHandler) HandleGetCourseProgress(c echo.Context) error {
	claims := ph.jwtUtil.GetContextToken(c)
	courseID := c.Param("courseId")

	byLesson, err := ph.progressUseCase.Read(c.Request().Context(), claims.UID, courseID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"courseId":      courseID,
		"byLessonIndex": byLesson,
	})
}

// HandleGetStatus per course completion overview
func (ph *ProgressHandler) HandleGetStatus(c echo.Context) error {
	claims := ph.jwtUtil.GetContextToken(c)
	status, err := ph.progressUseCase.Overview(c.Request().Context(), claims.UID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"status": status})
}
