package controllers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/JuliusDeane-data/careplan/internal/dtos"
	"github.com/JuliusDeane-data/careplan/internal/services"
	"github.com/JuliusDeane-data/careplan/internal/utils"
)

type CertificationsController struct {
	certService *services.CertificationService
	qualService *services.QualificationCatalogService
}

func NewCertificationsController(
	cs *services.CertificationService,
	qs *services.QualificationCatalogService,
) *CertificationsController {
	return &CertificationsController{certService: cs, qualService: qs}
}

// ----------------------------------------------------------------
// POST /api/v1/certifications
// ----------------------------------------------------------------
func (c *CertificationsController) AddHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}

	var req dtos.AddCertificationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	cert, violations, err := c.certService.Add(r.Context(), req)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if len(violations) > 0 {
		respondValidation(w, violations)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dtos.ToCertificationDTO(cert, time.Now().UTC()))
}

// ----------------------------------------------------------------
// POST /api/v1/certifications/verify
// ----------------------------------------------------------------
func (c *CertificationsController) VerifyHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req dtos.VerifyCertificationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	cert, err := c.certService.Verify(r.Context(), req.CertificationID, userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.ToCertificationDTO(cert, time.Now().UTC()))
}

// ----------------------------------------------------------------
// GET /api/v1/certifications/my
// ----------------------------------------------------------------
func (c *CertificationsController) ListMyHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	certs, err := c.certService.ListForEmployee(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.ToCertificationDTOs(certs, time.Now().UTC()))
}

// ----------------------------------------------------------------
// GET /api/v1/certifications/employee/{id}
// ----------------------------------------------------------------
func (c *CertificationsController) ListByEmployeeHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}

	employeeID, err := pathUUID(mux.Vars(r), "id")
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid employee ID", nil)
		return
	}

	certs, err := c.certService.ListForEmployee(r.Context(), employeeID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.ToCertificationDTOs(certs, time.Now().UTC()))
}

// ----------------------------------------------------------------
// GET /api/v1/certifications/reports/expiring
// ----------------------------------------------------------------
func (c *CertificationsController) ExpiringReportHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}

	certs, err := c.certService.ExpiringReport(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.ToCertificationDTOs(certs, time.Now().UTC()))
}

// ----------------------------------------------------------------
// GET /api/v1/certifications/reports/expired
// ----------------------------------------------------------------
func (c *CertificationsController) ExpiredReportHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}

	certs, err := c.certService.ExpiredReport(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.ToCertificationDTOs(certs, time.Now().UTC()))
}

// ----------------------------------------------------------------
// GET /api/v1/certifications/reports/pending-verification
// ----------------------------------------------------------------
func (c *CertificationsController) PendingReportHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}

	certs, err := c.certService.PendingVerificationReport(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.ToCertificationDTOs(certs, time.Now().UTC()))
}

// ----------------------------------------------------------------
// GET /api/v1/qualifications
// ----------------------------------------------------------------
func (c *CertificationsController) ListQualificationsHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}

	quals, err := c.qualService.ListActive(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	out := make([]dtos.QualificationDTO, 0, len(quals))
	for _, q := range quals {
		out = append(out, dtos.ToQualificationDTO(q))
	}
	utils.RespondWithJSON(w, http.StatusOK, out)
}
