package handler

import (
	"net/http"

	"ekyc/internal/domain"
	"ekyc/internal/middleware"

	"github.com/gorilla/mux"
)

// Routes groups the handlers mounted by Register.
type Routes struct {
	EKYC          *EKYCHandler
	Admin         *AdminHandler
	Notifications *NotificationHandler
	System        *SystemHandler

	// Idempotent wraps state-changing applicant routes; nil leaves them bare.
	Idempotent func(http.Handler) http.Handler
}

// Register mounts /health on root and the API on api, which must already
// authenticate callers.
func (rt Routes) Register(root, api *mux.Router) {
	if rt.System != nil {
		root.HandleFunc("/health", rt.System.Health).Methods(http.MethodGet)
	}

	idem := rt.Idempotent
	if idem == nil {
		idem = func(h http.Handler) http.Handler { return h }
	}

	if h := rt.EKYC; h != nil {
		api.HandleFunc("/ekyc", h.SaveProfile).Methods(http.MethodPost)
		api.HandleFunc("/ekyc/me", h.GetMine).Methods(http.MethodGet)
		api.HandleFunc("/ekyc/me/score", h.MyScore).Methods(http.MethodGet)
		api.HandleFunc("/ekyc/me/completion", h.Completion).Methods(http.MethodGet)
		api.Handle("/ekyc/{id}/submit", idem(http.HandlerFunc(h.Submit))).Methods(http.MethodPost)
		api.Handle("/ekyc/{id}/cancel", idem(http.HandlerFunc(h.Cancel))).Methods(http.MethodPost)
		api.HandleFunc("/ekyc/{id}/documents", h.ListDocuments).Methods(http.MethodGet)
		api.Handle("/ekyc/{id}/documents", idem(http.HandlerFunc(h.UploadDocument))).Methods(http.MethodPost)
		api.HandleFunc("/ekyc/{id}/documents/slots", h.CreateDocument).Methods(http.MethodPost)
		api.HandleFunc("/ekyc/{id}/requirements", h.Requirements).Methods(http.MethodGet)
		api.HandleFunc("/documents/{docID}/media/{mediaID}", h.RemoveMedia).Methods(http.MethodDelete)
	}

	if h := rt.Admin; h != nil {
		admin := api.PathPrefix("/admin").Subrouter()
		admin.Use(middleware.RequireRole(domain.RoleAdmin))
		admin.HandleFunc("/ekyc", h.List).Methods(http.MethodGet)
		admin.HandleFunc("/ekyc/stats", h.Stats).Methods(http.MethodGet)
		admin.HandleFunc("/ekyc/{id}", h.Get).Methods(http.MethodGet)
		admin.HandleFunc("/ekyc/{id}/score", h.Score).Methods(http.MethodGet)
		admin.HandleFunc("/ekyc/{id}/start-review", h.StartReview).Methods(http.MethodPost)
		admin.Handle("/ekyc/{id}/review", idem(http.HandlerFunc(h.Review))).Methods(http.MethodPost)
		admin.HandleFunc("/documents/{id}/verify", h.VerifyDocument).Methods(http.MethodPost)
	}

	if h := rt.Notifications; h != nil {
		api.HandleFunc("/notifications", h.List).Methods(http.MethodGet)
		api.HandleFunc("/notifications/unread-count", h.UnreadCount).Methods(http.MethodGet)
		api.HandleFunc("/notifications/read-all", h.MarkAllRead).Methods(http.MethodPost)
		api.HandleFunc("/notifications/stream", h.Stream).Methods(http.MethodGet)
		api.HandleFunc("/notifications/{id}/read", h.MarkRead).Methods(http.MethodPost)
	}
}
