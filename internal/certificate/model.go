package certificate

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/pot-code/coursecert/internal/domain"
)

// Certificate immutable proof that a learner completed a course
type Certificate struct {
	ID       string    `json:"id"`
	UserID   string    `json:"-"`
	CourseID string    `json:"courseId"`
	IssuedAt time.Time `json:"issuedAt"`
}

// Status eligibility and issuance state of one course
type Status struct {
	CourseID string `json:"courseId"`
	*domain.EligibilityReport
	Issued        bool    `json:"issued"`
	CertificateID *string `json:"certificateId"`
	PDFURL        *string `json:"pdfUrl"`
	VerifyURL     *string `json:"verifyUrl"`
}

// Listed certificate with course titles
type Listed struct {
	ID       string    `json:"id"`
	CourseID string    `json:"courseId"`
	IssuedAt time.Time `json:"issuedAt"`
	TitleEN  string    `json:"title_en"`
	TitleTI  string    `json:"title_ti"`
}

// Verification public view of a certificate
type Verification struct {
	CertificateID string    `json:"certificateId"`
	StudentName   string    `json:"studentName"`
	CourseID      string    `json:"courseId"`
	CourseTitle   string    `json:"courseTitle"`
	IssuedAt      time.Time `json:"issuedAt"`
	Valid         bool      `json:"valid"`
}

// Document everything a renderer needs, assembled at render time
type Document struct {
	StudentName     string
	CourseTitle     string
	IssuedAt        time.Time
	CertificateID   string
	VerificationURL string
}

// Artifact rendered certificate and the scannable code pointing at its verification URL
type Artifact struct {
	PDF  []byte
	Code []byte
}

type Renderer interface {
	Render(ctx context.Context, doc *Document) (*Artifact, error)
}

// PDFPath download path of a learner's certificate
func PDFPath(courseID string) string {
	return fmt.Sprintf("/api/v1/certificates/%s/pdf", url.PathEscape(courseID))
}

// VerifyPath public verification path
func VerifyPath(certificateID string) string {
	return fmt.Sprintf("/api/v1/certificates/verify/%s", url.PathEscape(certificateID))
}

type CertificateRepository interface {
	FindCertificate(ctx context.Context, userID, courseID string) (*Certificate, error)
	FindCertificateByID(ctx context.Context, id string) (*Certificate, error)
	// InsertCertificate must succeed silently when a certificate already exists for the user and course
	InsertCertificate(ctx context.Context, cert *Certificate) error
	ListCertificates(ctx context.Context, userID string) ([]*Certificate, error)
}

type CertificateUseCase interface {
	ClaimOrGet(ctx context.Context, userID, courseID string) (*Certificate, error)
	HasCertificate(ctx context.Context, userID, courseID string) (bool, error)
	Status(ctx context.Context, userID, courseID string) (*Status, error)
	List(ctx context.Context, userID string) ([]*Listed, error)
	Verify(ctx context.Context, certificateID string) (*Verification, error)
	Render(ctx context.Context, userID, courseID string) (*Certificate, *Artifact, error)
}
