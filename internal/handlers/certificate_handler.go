package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/rafaelpatinogoji-demo-org/learning-platform-monolith-sub005/internal/models"
)

// CertificateService is the interface that wraps methods for certificate business logic.
type CertificateService interface {
	// Method IssueCertificate issues a certificate on behalf of a student;
	// instructors only for their own courses.
	IssueCertificate(ctx context.Context, req *models.IssueCertificateRequest, issuerID int, issuerRole models.Role) (*models.Certificate, error)
	// Method ClaimCertificate lets a student claim their own certificate.
	ClaimCertificate(ctx context.Context, userID, courseID int) (*models.Certificate, error)
	// Method VerifyCertificate checks a code; never errors, unknown codes come
	// back as not valid.
	VerifyCertificate(ctx context.Context, code string) *models.CertificateVerification
	// Method GetUserCertificates retrieves the caller's certificates.
	GetUserCertificates(ctx context.Context, userID int) ([]models.CertificateWithCourse, error)
	// Method GetCourseCertificates retrieves a course's certificates; owner or admin only.
	GetCourseCertificates(ctx context.Context, courseID, requesterID int, role models.Role) ([]models.Certificate, error)
}

// CertificateHandler handles certificate-related HTTP requests
type CertificateHandler struct {
	BaseHandler
	certificateService CertificateService
}

// NewCertificateHandler creates a new certificate handler
func NewCertificateHandler(certificateService CertificateService, logger *zap.Logger) *CertificateHandler {
	return &CertificateHandler{
		BaseHandler:        BaseHandler{Logger: logger},
		certificateService: certificateService,
	}
}

// RegisterRoutes registers all certificate handler routes
// Note: This assumes the router is already scoped to /api/v1
func (h *CertificateHandler) RegisterRoutes(r chi.Router, authMW, staffMW func(http.Handler) http.Handler) {
	r.Route("/certificates", func(r chi.Router) {
		r.With(staffMW).Post("/issue", h.Issue)
		r.With(authMW).Post("/claim", h.Claim)
		r.With(authMW).Get("/me", h.ListMine)
		// Public verification; the code itself is the credential
		r.Get("/{code}", h.Verify)
	})
	r.With(staffMW).Get("/courses/{courseId}/certificates", h.ListForCourse)
}

// Issue handles POST /certificates/issue
// @Summary Issue a certificate
// @Description Issue a certificate for a student who completed every lesson; owning instructor or admin only
// @Tags certificates
// @Accept json
// @Produce json
// @Param request body models.IssueCertificateRequest true "Student and course"
// @Success 201 {object} models.Certificate
// @Failure 400 {object} map[string]any "Not all lessons completed"
// @Failure 403 {object} map[string]any "Not the course owner"
// @Failure 404 {object} map[string]any "Course or enrollment not found"
// @Failure 409 {object} map[string]any "Already issued"
// @Security BearerAuth
// @Router /certificates/issue [post]
func (h *CertificateHandler) Issue(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := h.Identity(w, r)
	if !ok {
		return
	}

	var req models.IssueCertificateRequest
	if err := DecodeJSON(r, &req); err != nil {
		h.RespondError(w, err)
		return
	}

	cert, err := h.certificateService.IssueCertificate(r.Context(), &req, userID, role)
	if err != nil {
		h.RespondError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusCreated, cert)
}

// Claim handles POST /certificates/claim
// @Summary Claim a certificate
// @Description Claim the caller's certificate for a course they completed
// @Tags certificates
// @Accept json
// @Produce json
// @Param request body models.ClaimCertificateRequest true "Course"
// @Success 201 {object} models.Certificate
// @Failure 400 {object} map[string]any "Not all lessons completed"
// @Failure 404 {object} map[string]any "Course or enrollment not found"
// @Failure 409 {object} map[string]any "Already issued"
// @Security BearerAuth
// @Router /certificates/claim [post]
func (h *CertificateHandler) Claim(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := h.Identity(w, r)
	if !ok {
		return
	}

	var req models.ClaimCertificateRequest
	if err := DecodeJSON(r, &req); err != nil {
		h.RespondError(w, err)
		return
	}

	cert, err := h.certificateService.ClaimCertificate(r.Context(), userID, req.CourseID)
	if err != nil {
		h.RespondError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusCreated, cert)
}

// Verify handles GET /certificates/{code}
// @Summary Verify a certificate
// @Description Public verification of a certificate code; unknown codes come back as not valid
// @Tags certificates
// @Produce json
// @Param code path string true "Certificate code"
// @Success 200 {object} models.CertificateVerification
// @Router /certificates/{code} [get]
func (h *CertificateHandler) Verify(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	h.RespondJSON(w, http.StatusOK, h.certificateService.VerifyCertificate(r.Context(), code))
}

// ListMine handles GET /certificates/me
// @Summary List own certificates
// @Description List the caller's certificates with course summaries
// @Tags certificates
// @Produce json
// @Success 200 {array} models.CertificateWithCourse
// @Security BearerAuth
// @Router /certificates/me [get]
func (h *CertificateHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := h.Identity(w, r)
	if !ok {
		return
	}

	certs, err := h.certificateService.GetUserCertificates(r.Context(), userID)
	if err != nil {
		h.RespondError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, certs)
}

// ListForCourse handles GET /courses/{courseId}/certificates
// @Summary List a course's certificates
// @Description List all certificates issued for a course; owning instructor or admin only
// @Tags certificates
// @Produce json
// @Param courseId path int true "Course ID"
// @Success 200 {array} models.Certificate
// @Failure 403 {object} map[string]any "Not the course owner"
// @Failure 404 {object} map[string]any "Course not found"
// @Security BearerAuth
// @Router /courses/{courseId}/certificates [get]
func (h *CertificateHandler) ListForCourse(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := h.Identity(w, r)
	if !ok {
		return
	}

	courseID, err := URLParamInt(r, "courseId")
	if err != nil {
		h.RespondError(w, err)
		return
	}

	certs, err := h.certificateService.GetCourseCertificates(r.Context(), courseID, userID, role)
	if err != nil {
		h.RespondError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, certs)
}
