package render

import (
	"bytes"
	"context"
	"image/png"
	"testing"
	"time"

	"github.com/pot-code/coursecert/internal/certificate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDocument() *certificate.Document {
	return &certificate.Document{
		StudentName:     "Selam Tesfay",
		CourseTitle:     "Level 2: Growth",
		IssuedAt:        time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC),
		CertificateID:   "K7Q2M9XZ",
		VerificationURL: "https://lms.example.org/api/v1/certificates/verify/K7Q2M9XZ",
	}
}

func TestPDFRendererRender(t *testing.T) {
	artifact, err := NewPDFRenderer("", "").Render(context.Background(), testDocument())
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(artifact.PDF, []byte("%PDF-")), "output is not a PDF")
	assert.True(t, bytes.Contains(artifact.PDF, []byte("/verify/K7Q2M9XZ")), "verification link missing")

	img, err := png.Decode(bytes.NewReader(artifact.Code))
	require.NoError(t, err)
	assert.Equal(t, qrPixels, img.Bounds().Dx())
}

func TestPDFRendererCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewPDFRenderer("", "").Render(ctx, testDocument())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewPDFRendererDefaults(t *testing.T) {
	r := NewPDFRenderer("", "")
	assert.Equal(t, DefaultOrganization, r.Organization)
	assert.Equal(t, DefaultTitle, r.Title)

	r = NewPDFRenderer("Acme Academy", "Diploma")
	assert.Equal(t, "Acme Academy", r.Organization)
}
