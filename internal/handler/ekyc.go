// ==============================================================================
// EKYC HTTP HANDLER - internal/handler/ekyc.go
// ==============================================================================
// Applicant and admin endpoints for the eKYC application lifecycle
// ==============================================================================

package handler

import (
	"context"
	"net/http"
	"strings"

	"ekyc/internal/domain"
	"ekyc/internal/ekyc"
	"ekyc/pkg/logger"
	"ekyc/pkg/validator"

	"github.com/google/uuid"
)

// EKYCService is the slice of ekyc.Service the handlers use.
type EKYCService interface {
	SaveProfile(ctx context.Context, userID uuid.UUID, in ekyc.ProfileInput) (*domain.Application, error)
	GetMyApplication(ctx context.Context, userID uuid.UUID) (*domain.Application, error)
	GetApplication(ctx context.Context, id uuid.UUID) (*domain.Application, error)
	UploadDocument(ctx context.Context, userID, appID uuid.UUID, up ekyc.DocumentUpload) (*domain.Document, error)
	CreateDocument(ctx context.Context, userID, appID uuid.UUID, t domain.DocumentType, name, description string) (*domain.Document, error)
	RemoveMedia(ctx context.Context, userID, documentID, mediaID uuid.UUID) error
	ListDocuments(ctx context.Context, userID, appID uuid.UUID) ([]*domain.Document, error)
	DocumentRequirements(ctx context.Context, userID, appID uuid.UUID) ([]ekyc.DocumentRequirement, error)
	Submit(ctx context.Context, userID, appID uuid.UUID) (*domain.Application, error)
	Cancel(ctx context.Context, userID, appID uuid.UUID) (*domain.Application, error)
	StartReview(ctx context.Context, adminID, appID uuid.UUID) (*domain.Application, error)
	Review(ctx context.Context, in ekyc.ReviewInput) (*domain.Application, error)
	VerifyDocument(ctx context.Context, adminID, documentID uuid.UUID, verified bool, notes string) (*domain.Document, error)
	ListByStatus(ctx context.Context, status domain.ApplicationStatus, limit, offset int) ([]*domain.Application, error)
	ListPending(ctx context.Context, limit, offset int) ([]*domain.Application, error)
	Statistics(ctx context.Context) (*ekyc.Statistics, error)
	MyScoreBreakdown(ctx context.Context, userID uuid.UUID) (*ekyc.ScoreBreakdown, error)
	ScoreBreakdown(ctx context.Context, appID uuid.UUID) (*ekyc.ScoreBreakdown, error)
	ProfileCompletion(ctx context.Context, userID uuid.UUID) (*ekyc.Completion, error)
}

var _ EKYCService = (*ekyc.Service)(nil)

// EKYCHandler serves the applicant endpoints.
type EKYCHandler struct {
	service   EKYCService
	validator *validator.Validator
	logger    logger.Logger
}

func NewEKYCHandler(service EKYCService, val *validator.Validator, log logger.Logger) *EKYCHandler {
	return &EKYCHandler{service: service, validator: val, logger: log}
}

// SaveProfile creates the caller's draft application or updates it.
// POST /api/v1/ekyc
func (h *EKYCHandler) SaveProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req ekyc.ProfileInput
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	app, err := h.service.SaveProfile(r.Context(), userID, req)
	if err != nil {
		respondServiceError(w, h.logger, r, err)
		return
	}
	respondOK(w, http.StatusOK, "eKYC profile saved", app)
}

// GetMine returns the caller's application with documents.
// GET /api/v1/ekyc/me
func (h *EKYCHandler) GetMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	app, err := h.service.GetMyApplication(r.Context(), userID)
	if err != nil {
		respondServiceError(w, h.logger, r, err)
		return
	}
	respondOK(w, http.StatusOK, "", app)
}

// GET /api/v1/ekyc/me/score
func (h *EKYCHandler) MyScore(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	b, err := h.service.MyScoreBreakdown(r.Context(), userID)
	if err != nil {
		respondServiceError(w, h.logger, r, err)
		return
	}
	respondOK(w, http.StatusOK, "", b)
}

// GET /api/v1/ekyc/me/completion
func (h *EKYCHandler) Completion(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	c, err := h.service.ProfileCompletion(r.Context(), userID)
	if err != nil {
		respondServiceError(w, h.logger, r, err)
		return
	}
	respondOK(w, http.StatusOK, "", c)
}

// POST /api/v1/ekyc/{id}/submit
func (h *EKYCHandler) Submit(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	appID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	app, err := h.service.Submit(r.Context(), userID, appID)
	if err != nil {
		respondServiceError(w, h.logger, r, err)
		return
	}
	respondOK(w, http.StatusOK, "eKYC application submitted", app)
}

// POST /api/v1/ekyc/{id}/cancel
func (h *EKYCHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	appID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	app, err := h.service.Cancel(r.Context(), userID, appID)
	if err != nil {
		respondServiceError(w, h.logger, r, err)
		return
	}
	respondOK(w, http.StatusOK, "eKYC application cancelled", app)
}

// GET /api/v1/ekyc/{id}/documents
func (h *EKYCHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	appID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	docs, err := h.service.ListDocuments(r.Context(), userID, appID)
	if err != nil {
		respondServiceError(w, h.logger, r, err)
		return
	}
	respondOK(w, http.StatusOK, "", docs)
}

// GET /api/v1/ekyc/{id}/requirements
func (h *EKYCHandler) Requirements(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	appID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	reqs, err := h.service.DocumentRequirements(r.Context(), userID, appID)
	if err != nil {
		respondServiceError(w, h.logger, r, err)
		return
	}
	respondOK(w, http.StatusOK, "", reqs)
}

// UploadDocument records an already stored file against a document type.
// POST /api/v1/ekyc/{id}/documents
func (h *EKYCHandler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	appID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req ekyc.DocumentUpload
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}
	req.Type = domain.DocumentType(strings.ToUpper(strings.TrimSpace(string(req.Type))))
	req.Name = validator.Sanitize(req.Name)
	req.Description = validator.Sanitize(req.Description)

	doc, err := h.service.UploadDocument(r.Context(), userID, appID, req)
	if err != nil {
		respondServiceError(w, h.logger, r, err)
		return
	}
	respondOK(w, http.StatusCreated, "document uploaded", doc)
}

type createDocumentRequest struct {
	Type        domain.DocumentType `json:"type" validate:"required,document_type"`
	Name        string              `json:"name" validate:"max=200"`
	Description string              `json:"description" validate:"max=1000"`
}

// CreateDocument opens an empty document slot.
// POST /api/v1/ekyc/{id}/documents/slots
func (h *EKYCHandler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	appID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req createDocumentRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}
	t := domain.DocumentType(strings.ToUpper(strings.TrimSpace(string(req.Type))))

	doc, err := h.service.CreateDocument(r.Context(), userID, appID, t,
		validator.Sanitize(req.Name), validator.Sanitize(req.Description))
	if err != nil {
		respondServiceError(w, h.logger, r, err)
		return
	}
	respondOK(w, http.StatusCreated, "document created", doc)
}

// DELETE /api/v1/documents/{docID}/media/{mediaID}
func (h *EKYCHandler) RemoveMedia(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	docID, ok := pathUUID(w, r, "docID")
	if !ok {
		return
	}
	mediaID, ok := pathUUID(w, r, "mediaID")
	if !ok {
		return
	}
	if err := h.service.RemoveMedia(r.Context(), userID, docID, mediaID); err != nil {
		respondServiceError(w, h.logger, r, err)
		return
	}
	respondOK(w, http.StatusOK, "media removed", nil)
}
