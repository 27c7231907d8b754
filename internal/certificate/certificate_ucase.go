package certificate

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/pot-code/coursecert/internal/content"
	"github.com/pot-code/coursecert/internal/domain"
	"github.com/pot-code/coursecert/internal/eligibility"
	"github.com/pot-code/coursecert/internal/infrastructure/metrics"
	"github.com/pot-code/coursecert/internal/infrastructure/uuid"
	"github.com/pot-code/coursecert/internal/user"
	"go.elastic.co/apm"
)

// CertificateUseCaseImpl ...
type CertificateUseCaseImpl struct {
	CertificateRepository CertificateRepository
	Evaluator             eligibility.Evaluator
	Content               content.UseCase
	Users                 user.UserUseCase
	Renderer              Renderer
	IDGenerator           uuid.Generator
	Metrics               *metrics.Recorder
	PublicBaseURL         string
	Clock                 func() time.Time
}

var _ CertificateUseCase = &CertificateUseCaseImpl{}

// NewCertificateUseCase ...
func NewCertificateUseCase(
	CertificateRepository CertificateRepository,
	Evaluator eligibility.Evaluator,
	Content content.UseCase,
	Users user.UserUseCase,
	Renderer Renderer,
	IDGenerator uuid.Generator,
	Metrics *metrics.Recorder,
	PublicBaseURL string,
) *CertificateUseCaseImpl {
	return &CertificateUseCaseImpl{
		CertificateRepository: CertificateRepository,
		Evaluator:             Evaluator,
		Content:               Content,
		Users:                 Users,
		Renderer:              Renderer,
		IDGenerator:           IDGenerator,
		Metrics:               Metrics,
		PublicBaseURL:         strings.TrimRight(PublicBaseURL, "/"),
		Clock:                 time.Now,
	}
}

// ClaimOrGet return the learner's certificate, issuing it when the learner is eligible.
// An existing certificate is returned without re-checking eligibility.
func (cu *CertificateUseCaseImpl) ClaimOrGet(ctx context.Context, userID, courseID string) (*Certificate, error) {
	apmSpan, _ := apm.StartSpan(ctx, "CertificateUseCaseImpl.ClaimOrGet", "service")
	defer apmSpan.End()

	repo := cu.CertificateRepository
	if cert, err := repo.FindCertificate(ctx, userID, courseID); err != nil {
		return nil, err
	} else if cert != nil {
		cu.Metrics.CertificateClaimed(courseID, metrics.ClaimExisting)
		return cert, nil
	}

	report, err := cu.Evaluator.Evaluate(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	if !report.Eligible {
		cu.Metrics.CertificateClaimed(courseID, metrics.ClaimNotEligible)
		return nil, &domain.NotEligibleError{Report: report}
	}

	id, err := cu.IDGenerator.Generate()
	if err != nil {
		return nil, err
	}
	if err := repo.InsertCertificate(ctx, &Certificate{
		ID:       id,
		UserID:   userID,
		CourseID: courseID,
		IssuedAt: cu.Clock().UTC().Truncate(time.Millisecond),
	}); err != nil {
		return nil, err
	}

	// concurrent claims converge on whichever row was stored first
	cert, err := repo.FindCertificate(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	if cert == nil {
		return nil, errors.New("Failed to create certificate")
	}
	if cert.ID == id {
		cu.Metrics.CertificateClaimed(courseID, metrics.ClaimIssued)
	} else {
		cu.Metrics.CertificateClaimed(courseID, metrics.ClaimExisting)
	}
	return cert, nil
}

func (cu *CertificateUseCaseImpl) HasCertificate(ctx context.Context, userID, courseID string) (bool, error) {
	cert, err := cu.CertificateRepository.FindCertificate(ctx, userID, courseID)
	return cert != nil, err
}

// Status eligibility report plus issued certificate links
func (cu *CertificateUseCaseImpl) Status(ctx context.Context, userID, courseID string) (*Status, error) {
	apmSpan, _ := apm.StartSpan(ctx, "CertificateUseCaseImpl.Status", "service")
	defer apmSpan.End()

	report, err := cu.Evaluator.Evaluate(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	cert, err := cu.CertificateRepository.FindCertificate(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}

	status := &Status{CourseID: courseID, EligibilityReport: report}
	if cert != nil {
		pdfURL, verifyURL := PDFPath(courseID), VerifyPath(cert.ID)
		status.Issued = true
		status.CertificateID = &cert.ID
		status.PDFURL = &pdfURL
		status.VerifyURL = &verifyURL
	}
	return status, nil
}

// List learner certificates newest first
func (cu *CertificateUseCaseImpl) List(ctx context.Context, userID string) ([]*Listed, error) {
	apmSpan, _ := apm.StartSpan(ctx, "CertificateUseCaseImpl.List", "service")
	defer apmSpan.End()

	certs, err := cu.CertificateRepository.ListCertificates(ctx, userID)
	if err != nil {
		return nil, err
	}
	courses, err := cu.Content.ListCourses(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*content.Course, len(courses))
	for _, c := range courses {
		byID[c.ID] = c
	}

	result := make([]*Listed, 0, len(certs))
	for _, cert := range certs {
		item := &Listed{ID: cert.ID, CourseID: cert.CourseID, IssuedAt: cert.IssuedAt}
		if c, ok := byID[cert.CourseID]; ok {
			item.TitleEN, item.TitleTI = c.TitleEN, c.TitleTI
		}
		result = append(result, item)
	}
	return result, nil
}

// Verify public lookup by certificate id
func (cu *CertificateUseCaseImpl) Verify(ctx context.Context, certificateID string) (*Verification, error) {
	apmSpan, _ := apm.StartSpan(ctx, "CertificateUseCaseImpl.Verify", "service")
	defer apmSpan.End()

	cert, err := cu.CertificateRepository.FindCertificateByID(ctx, certificateID)
	if err != nil {
		return nil, err
	}
	if cert == nil {
		return nil, domain.ErrCertificateNotFound
	}

	studentName, err := cu.studentName(ctx, cert.UserID)
	if err != nil {
		return nil, err
	}
	courseTitle, err := cu.courseTitle(ctx, cert.CourseID)
	if err != nil {
		return nil, err
	}
	return &Verification{
		CertificateID: cert.ID,
		StudentName:   studentName,
		CourseID:      cert.CourseID,
		CourseTitle:   courseTitle,
		IssuedAt:      cert.IssuedAt,
		Valid:         true,
	}, nil
}

// studentName display name of the learner, learners unknown to the user store get the default
func (cu *CertificateUseCaseImpl) studentName(ctx context.Context, userID string) (string, error) {
	u, err := cu.Users.Profile(ctx, userID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return user.DefaultDisplayName, nil
	}
	if err != nil {
		return "", err
	}
	return u.DisplayName(), nil
}

// courseTitle english title, the id stands in for courses removed from the catalog
func (cu *CertificateUseCaseImpl) courseTitle(ctx context.Context, courseID string) (string, error) {
	course, err := cu.Content.Course(ctx, courseID)
	if errors.Is(err, domain.ErrCourseNotFound) {
		return courseID, nil
	}
	if err != nil {
		return "", err
	}
	return course.Title(content.LangEN), nil
}

// Render ensure the certificate exists, then hand its document to the renderer
func (cu *CertificateUseCaseImpl) Render(ctx context.Context, userID, courseID string) (*Certificate, *Artifact, error) {
	apmSpan, _ := apm.StartSpan(ctx, "CertificateUseCaseImpl.Render", "service")
	defer apmSpan.End()

	cert, err := cu.ClaimOrGet(ctx, userID, courseID)
	if err != nil {
		return nil, nil, err
	}
	studentName, err := cu.studentName(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	courseTitle, err := cu.courseTitle(ctx, courseID)
	if err != nil {
		return nil, nil, err
	}

	artifact, err := cu.Renderer.Render(ctx, &Document{
		StudentName:     studentName,
		CourseTitle:     courseTitle,
		IssuedAt:        cert.IssuedAt,
		CertificateID:   cert.ID,
		VerificationURL: cu.PublicBaseURL + VerifyPath(cert.ID),
	})
	if err != nil {
		return nil, nil, err
	}
	return cert, artifact, nil
}
