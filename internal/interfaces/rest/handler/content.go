package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pot-code/coursecert/internal/content"
)

type ContentHandler struct {
	contentUseCase content.UseCase
}

func NewContentHandler(ContentUseCase content.UseCase) *ContentHandler {
	return &ContentHandler{ContentUseCase}
}

// HandleListCourses public course catalogue
func (ch *ContentHandler) HandleListCourses(c echo.Context) error {
	courses, err := ch.contentUseCase.ListCourses(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"courses": courses})
}

// HandleListLessons lessons of a course in the requested language
func (ch *ContentHandler) HandleListLessons(c echo.Context) error {
	courseID := c.Param("courseId")
	lang := content.ParseLanguage(c.QueryParam("lang"))

	lessons, err := ch.contentUseCase.ListLessons(c.Request().Context(), courseID, lang)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"courseId": courseID,
		"lang":     lang,
		"lessons":  lessons,
	})
}
