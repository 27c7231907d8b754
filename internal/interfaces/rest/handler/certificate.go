package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pot-code/coursecert/internal/certificate"
	"github.com/pot-code/coursecert/internal/infrastructure/auth"
	"github.com/pot-code/coursecert/internal/infrastructure/validate"
)

type CertificateHandler struct {
	certificateUseCase certificate.CertificateUseCase
	validator          validate.Validator
	jwtUtil            *auth.JWTUtil
}

func NewCertificateHandler(
	CertificateUseCase certificate.CertificateUseCase,
	JWTUtil *auth.JWTUtil,
	Validator validate.Validator,
) *CertificateHandler {
	return &CertificateHandler{CertificateUseCase, Validator, JWTUtil}
}

type claimRequest struct {
	CourseID string `json:"courseId" validate:"required"`
}

// HandleList certificates of the principal, newest first
func (ch *CertificateHandler) HandleList(c echo.Context) error {
	claims := ch.jwtUtil.GetContextToken(c)
	certs, err := ch.certificateUseCase.List(c.Request().Context(), claims.UID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"certificates": certs})
}

// HandleGetStatus eligibility report plus issuance state
func (ch *CertificateHandler) HandleGetStatus(c echo.Context) error {
	claims := ch.jwtUtil.GetContextToken(c)
	status, err := ch.certificateUseCase.Status(c.Request().Context(), claims.UID, c.Param("courseId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, status)
}

// HandleClaim issue the certificate, or return the existing one
func (ch *CertificateHandler) HandleClaim(c echo.Context) error {
	claims := ch.jwtUtil.GetContextToken(c)
	post := new(claimRequest)
	if err := c.Bind(post); err != nil {
		return bindError(c, err)
	}
	if err := ch.validator.Struct(post); err != nil {
		return validationError(c, err)
	}

	cert, err := ch.certificateUseCase.ClaimOrGet(c.Request().Context(), claims.UID, post.CourseID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"ok": true,
		"certificate": map[string]interface{}{
			"id":        cert.ID,
			"courseId":  cert.CourseID,
			"issuedAt":  cert.IssuedAt,
			"pdfUrl":    certificate.PDFPath(cert.CourseID),
			"verifyUrl": certificate.VerifyPath(cert.ID),
		},
	})
}

// HandleDownloadPDF render the certificate document, claiming it first when needed
func (ch *CertificateHandler) HandleDownloadPDF(c echo.Context) error {
	claims := ch.jwtUtil.GetContextToken(c)
	courseID := c.Param("courseId")

	_, artifact, err := ch.certificateUseCase.Render(c.Request().Context(), claims.UID, courseID)
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", "certificate-"+courseID+".pdf"))
	return c.Blob(http.StatusOK, "application/pdf", artifact.PDF)
}

// HandleVerify public lookup by certificate id
func (ch *CertificateHandler) HandleVerify(c echo.Context) error {
	v, err := ch.certificateUseCase.Verify(c.Request().Context(), c.Param("certId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, v)
}
