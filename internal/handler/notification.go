package handler

import (
	"context"
	"net/http"
	"time"

	"ekyc/internal/domain"
	"ekyc/internal/notification"
	"ekyc/pkg/logger"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// NotificationService is the slice of notification.Service the handlers use.
type NotificationService interface {
	List(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]*domain.Notification, error)
	MarkRead(ctx context.Context, userID, id uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int, error)
}

var _ NotificationService = (*notification.Service)(nil)

type NotificationHandler struct {
	service  NotificationService
	hub      *notification.Hub
	upgrader websocket.Upgrader
	logger   logger.Logger
}

// NewNotificationHandler builds the handler. An empty allowedOrigins accepts
// any websocket origin.
func NewNotificationHandler(service NotificationService, hub *notification.Hub, allowedOrigins []string, log logger.Logger) *NotificationHandler {
	return &NotificationHandler{
		service: service,
		hub:     hub,
		logger:  log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		if len(allowed) == 0 {
			return true
		}
		origin := r.Header.Get("Origin")
		for _, o := range allowed {
			if o == origin {
				return true
			}
		}
		return false
	}
}

// GET /api/v1/notifications?unread=true
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	list, err := h.service.List(r.Context(), userID, r.URL.Query().Get("unread") == "true")
	if err != nil {
		respondServiceError(w, h.logger, r, err)
		return
	}
	respondOK(w, http.StatusOK, "", list)
}

// GET /api/v1/notifications/unread-count
func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	n, err := h.service.UnreadCount(r.Context(), userID)
	if err != nil {
		respondServiceError(w, h.logger, r, err)
		return
	}
	respondOK(w, http.StatusOK, "", map[string]int{"unread": n})
}

// POST /api/v1/notifications/{id}/read
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := h.service.MarkRead(r.Context(), userID, id); err != nil {
		respondServiceError(w, h.logger, r, err)
		return
	}
	respondOK(w, http.StatusOK, "notification marked read", nil)
}

// POST /api/v1/notifications/read-all
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	n, err := h.service.MarkAllRead(r.Context(), userID)
	if err != nil {
		respondServiceError(w, h.logger, r, err)
		return
	}
	respondOK(w, http.StatusOK, "notifications marked read", map[string]int64{"updated": n})
}

// Stream upgrades to a websocket and pushes the caller's notifications as
// they are created.
// GET /api/v1/notifications/stream
func (h *NotificationHandler) Stream(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", map[string]interface{}{"error": err, "user_id": userID})
		return
	}
	client := h.hub.Register(userID)
	defer func() {
		h.hub.Unregister(client)
		conn.Close()
	}()

	// The read loop only services control frames and detects disconnects.
	done := make(chan struct{})
	go func() {
		defer close(done)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-client.Send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		case <-r.Context().Done():
			return
		}
	}
}
