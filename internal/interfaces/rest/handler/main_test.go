package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pot-code/coursecert/internal/certificate"
	"github.com/pot-code/coursecert/internal/content"
	"github.com/pot-code/coursecert/internal/eligibility"
	"github.com/pot-code/coursecert/internal/exam"
	"github.com/pot-code/coursecert/internal/infrastructure/auth"
	"github.com/pot-code/coursecert/internal/infrastructure/uuid"
	"github.com/pot-code/coursecert/internal/infrastructure/validate"
	"github.com/pot-code/coursecert/internal/progress"
	"github.com/pot-code/coursecert/internal/store/memory"
	"github.com/pot-code/coursecert/internal/user"
	"github.com/stretchr/testify/require"
)

type stubRenderer struct{}

func (stubRenderer) Render(ctx context.Context, doc *certificate.Document) (*certificate.Artifact, error) {
	return &certificate.Artifact{PDF: []byte("%PDF-1.3 " + doc.CertificateID)}, nil
}

type services struct {
	db           *memory.DB
	jwtUtil      *auth.JWTUtil
	validator    validate.Validator
	content      content.UseCase
	progress     *progress.ProgressUseCaseImpl
	exams        *exam.ExamUseCaseImpl
	certificates *certificate.CertificateUseCaseImpl
}

func setup(t *testing.T) *services {
	db := memory.Open()
	db.SeedCourse("growth", 2, 70, 0, 1, 0)
	db.AddUser(&user.User{ID: "u1", Name: "Selam Tesfay"})

	contentUseCase := content.NewContentUseCase(memory.NewContentRepository(db))
	progressRepo := memory.NewProgressRepository(db)
	exams := exam.NewExamUseCase(memory.NewAttemptRepository(db), contentUseCase, nil)
	certificates := certificate.NewCertificateUseCase(
		memory.NewCertificateRepository(db),
		eligibility.NewEvaluator(contentUseCase, progressRepo, exams),
		contentUseCase,
		user.NewUserUseCase(memory.NewUserRepository(db)),
		stubRenderer{},
		uuid.NewNanoIDGenerator(10, uuid.CertificateAlphabet),
		nil,
		"https://learn.example.org",
	)
	certificates.Clock = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	exams.Clock = certificates.Clock

	return &services{
		db:           db,
		jwtUtil:      auth.NewJWTUtil("HS256", "secret", "token"),
		validator:    validate.NewValidator(),
		content:      contentUseCase,
		progress:     progress.NewProgressUseCase(progressRepo, contentUseCase, certificates, nil),
		exams:        exams,
		certificates: certificates,
	}
}

// qualify complete every lesson and pass the exam of growth
func (s *services) qualify(t *testing.T, userID string) {
	ctx := context.Background()
	done := true
	for i := 0; i < 2; i++ {
		_, err := s.progress.Update(ctx, userID, "growth", i, &progress.Patch{Completed: &done})
		require.NoError(t, err)
	}
	_, err := s.exams.Submit(ctx, userID, "growth", content.LangEN, []int{0, 1, 0})
	require.NoError(t, err)
}

// newRequest build a context for the given principal, an empty uid means anonymous
func (s *services) newRequest(e *echo.Echo, uid, method, path string, body []byte) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if uid != "" {
		s.jwtUtil.SetContextToken(c, &auth.AppTokenClaims{UID: uid})
	}
	return c, rec
}

type httpTest struct {
	name     string
	method   string
	path     string
	params   map[string]string
	body     []byte
	wantCode int
	wantData string
}

// serve run h and render its error the way the error handling middleware does
func serve(t *testing.T, h echo.HandlerFunc, c echo.Context, params map[string]string) {
	var names, values []string
	for k, v := range params {
		names = append(names, k)
		values = append(values, v)
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)

	if err := h(c); err != nil {
		code, body, _ := ErrorResponse(err, "")
		require.NoError(t, c.JSON(code, body))
	}
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}
