package render

import (
	"bytes"
	"context"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/pot-code/coursecert/internal/certificate"
	"github.com/skip2/go-qrcode"
)

// default branding
const (
	DefaultOrganization = "Eritrean Success Journey"
	DefaultTitle        = "Certificate of Completion"
)

type rgb struct{ r, g, b int }

var (
	colorBackground = rgb{247, 249, 255}
	colorAccent     = rgb{37, 99, 235}
	colorAccentSoft = rgb{199, 210, 254}
	colorAccent2    = rgb{20, 184, 166}
	colorInk        = rgb{17, 24, 39}
	colorMuted      = rgb{51, 65, 85}
	colorFaint      = rgb{100, 116, 139}
)

// qrPixels edge length of the generated QR image
const qrPixels = 260

// PDFRenderer A4 portrait certificate with a QR code linking to the verification page
type PDFRenderer struct {
	Organization string
	Title        string
}

var _ certificate.Renderer = &PDFRenderer{}

// NewPDFRenderer ...
func NewPDFRenderer(organization, title string) *PDFRenderer {
	if organization == "" {
		organization = DefaultOrganization
	}
	if title == "" {
		title = DefaultTitle
	}
	return &PDFRenderer{organization, title}
}

// Render build the PDF in memory. Core fonts are cp1252, runes outside of it print as '?'.
func (pr *PDFRenderer) Render(ctx context.Context, doc *certificate.Document) (*certificate.Artifact, error) {
	code, err := qrcode.Encode(doc.VerificationURL, qrcode.Medium, qrPixels)
	if err != nil {
		return nil, fmt.Errorf("failed to encode verification code: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(50, 50, 50)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	w, h := pdf.GetPageSize()

	// background and double border
	setFill(pdf, colorBackground)
	pdf.Rect(0, 0, w, h, "F")
	setDraw(pdf, colorAccent)
	pdf.SetLineWidth(3)
	pdf.Rect(25, 25, w-50, h-50, "D")
	setDraw(pdf, colorAccentSoft)
	pdf.SetLineWidth(1)
	pdf.Rect(33, 33, w-66, h-66, "D")

	centered := func(y float64, style string, size float64, color rgb, text string) {
		pdf.SetFont("Helvetica", style, size)
		setText(pdf, color)
		pdf.SetXY(0, y)
		pdf.CellFormat(w, size+4, tr(text), "", 0, "C", false, 0, "")
	}

	centered(95, "B", 28, colorInk, pr.Title)
	centered(132, "", 12, colorMuted, pr.Organization)

	setDraw(pdf, colorAccent2)
	pdf.SetLineWidth(2)
	pdf.Line(110, 165, w-110, 165)

	centered(205, "", 14, colorInk, "This certificate is proudly presented to")
	centered(240, "B", 34, colorInk, doc.StudentName)
	centered(295, "", 14, colorInk, "for successfully completing the course:")
	centered(325, "B", 22, colorInk, doc.CourseTitle)
	centered(380, "", 11, colorMuted, "Issued on: "+doc.IssuedAt.Format("Mon Jan 02 2006"))
	centered(400, "", 10, colorFaint, "Certificate ID: "+doc.CertificateID)

	// signature and stamp lines
	setDraw(pdf, colorFaint)
	pdf.SetLineWidth(1)
	pdf.Line(90, 680, 270, 680)
	pdf.Line(w-270, 680, w-90, 680)
	pdf.SetFont("Helvetica", "", 10)
	setText(pdf, colorMuted)
	pdf.SetXY(90, 688)
	pdf.CellFormat(180, 12, "Signature", "", 0, "C", false, 0, "")
	pdf.SetXY(w-270, 688)
	pdf.CellFormat(180, 12, "Stamp", "", 0, "C", false, 0, "")

	// QR block in the lower right corner
	const qrSize = 115.0
	qrX, qrY := w-50-qrSize, h-50-qrSize
	setFill(pdf, rgb{255, 255, 255})
	setDraw(pdf, colorAccentSoft)
	pdf.Rect(qrX-8, qrY-28, qrSize+16, qrSize+40, "FD")
	pdf.RegisterImageOptionsReader("qr", gofpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(code))
	pdf.ImageOptions("qr", qrX, qrY, qrSize, qrSize, false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, doc.VerificationURL)
	pdf.SetFont("Helvetica", "", 9)
	setText(pdf, colorMuted)
	pdf.SetXY(qrX-8, qrY-22)
	pdf.CellFormat(qrSize+16, 10, "Scan to verify", "", 0, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	setText(pdf, colorFaint)
	pdf.SetXY(50, h-45)
	pdf.CellFormat(w-100, 10, doc.VerificationURL, "", 0, "C", false, 0, doc.VerificationURL)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render certificate: %w", err)
	}
	return &certificate.Artifact{PDF: buf.Bytes(), Code: code}, nil
}

func setFill(pdf *gofpdf.Fpdf, c rgb) { pdf.SetFillColor(c.r, c.g, c.b) }
func setDraw(pdf *gofpdf.Fpdf, c rgb) { pdf.SetDrawColor(c.r, c.g, c.b) }
func setText(pdf *gofpdf.Fpdf, c rgb) { pdf.SetTextColor(c.r, c.g, c.b) }
