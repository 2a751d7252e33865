package handler

import (
	"net/http"
	"strings"

	"ekyc/internal/domain"
	"ekyc/internal/ekyc"
	"ekyc/pkg/logger"
	"ekyc/pkg/validator"
)

// AdminHandler serves the review endpoints. Routes are mounted behind
// middleware.RequireRole(domain.RoleAdmin); the service checks the role again.
type AdminHandler struct {
	service   EKYCService
	validator *validator.Validator
	logger    logger.Logger
}

func NewAdminHandler(service EKYCService, val *validator.Validator, log logger.Logger) *AdminHandler {
	return &AdminHandler{service: service, validator: val, logger: log}
}

// List returns applications in ?status= (default PENDING, newest submission first).
// GET /api/v1/admin/ekyc
func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := paging(r)

	raw := r.URL.Query().Get("status")
	if raw == "" {
		apps, err := h.service.ListPending(r.Context(), limit, offset)
		if err != nil {
			respondServiceError(w, h.logger, r, err)
			return
		}
		respondOK(w, http.StatusOK, "", apps)
		return
	}

	status, ok := domain.ParseApplicationStatus(raw)
	if !ok {
		respondError(w, http.StatusBadRequest, "Unknown status "+raw)
		return
	}
	apps, err := h.service.ListByStatus(r.Context(), status, limit, offset)
	if err != nil {
		respondServiceError(w, h.logger, r, err)
		return
	}
	respondOK(w, http.StatusOK, "", apps)
}

// GET /api/v1/admin/ekyc/stats
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Statistics(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, r, err)
		return
	}
	respondOK(w, http.StatusOK, "", stats)
}

// GET /api/v1/admin/ekyc/{id}
func (h *AdminHandler) Get(w http.ResponseWriter, r *http.Request) {
	appID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	app, err := h.service.GetApplication(r.Context(), appID)
	if err != nil {
		respondServiceError(w, h.logger, r, err)
		return
	}
	respondOK(w, http.StatusOK, "", app)
}

// GET /api/v1/admin/ekyc/{id}/score
func (h *AdminHandler) Score(w http.ResponseWriter, r *http.Request) {
	appID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	b, err := h.service.ScoreBreakdown(r.Context(), appID)
	if err != nil {
		respondServiceError(w, h.logger, r, err)
		return
	}
	respondOK(w, http.StatusOK, "", b)
}

// POST /api/v1/admin/ekyc/{id}/start-review
func (h *AdminHandler) StartReview(w http.ResponseWriter, r *http.Request) {
	adminID, ok := currentUser(w, r)
	if !ok {
		return
	}
	appID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	app, err := h.service.StartReview(r.Context(), adminID, appID)
	if err != nil {
		respondServiceError(w, h.logger, r, err)
		return
	}
	respondOK(w, http.StatusOK, "review started", app)
}

type reviewRequest struct {
	Decision   string `json:"decision" validate:"required,application_decision"`
	Comments   string `json:"comments" validate:"max=2000"`
	FinalScore *int   `json:"final_score"`
}

// Review approves or rejects an application.
// POST /api/v1/admin/ekyc/{id}/review
func (h *AdminHandler) Review(w http.ResponseWriter, r *http.Request) {
	adminID, ok := currentUser(w, r)
	if !ok {
		return
	}
	appID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req reviewRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	app, err := h.service.Review(r.Context(), ekyc.ReviewInput{
		ReviewerID:    adminID,
		ApplicationID: appID,
		Decision:      domain.ApplicationStatus(strings.ToUpper(strings.TrimSpace(req.Decision))),
		Comments:      strings.TrimSpace(req.Comments),
		FinalScore:    req.FinalScore,
	})
	if err != nil {
		respondServiceError(w, h.logger, r, err)
		return
	}

	h.logger.Info("eKYC application reviewed", map[string]interface{}{
		"event":          "ekyc_reviewed",
		"application_id": appID,
		"reviewer_id":    adminID,
		"decision":       app.Status,
		"score":          app.Score,
	})
	respondOK(w, http.StatusOK, "review recorded", app)
}

type verifyDocumentRequest struct {
	Verified bool   `json:"verified"`
	Notes    string `json:"notes" validate:"max=2000"`
}

// POST /api/v1/admin/documents/{id}/verify
func (h *AdminHandler) VerifyDocument(w http.ResponseWriter, r *http.Request) {
	adminID, ok := currentUser(w, r)
	if !ok {
		return
	}
	docID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req verifyDocumentRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	doc, err := h.service.VerifyDocument(r.Context(), adminID, docID, req.Verified, strings.TrimSpace(req.Notes))
	if err != nil {
		respondServiceError(w, h.logger, r, err)
		return
	}
	respondOK(w, http.StatusOK, "document updated", doc)
}
