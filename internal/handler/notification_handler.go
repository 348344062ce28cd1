package handler

import (
	"net/http"

	"storefront/internal/model"
	"storefront/internal/notify"

	"github.com/rs/zerolog"
)

// NotificationQueue lists and dismisses notifications.
type NotificationQueue interface {
	List() []notify.Notification
	Remove(id string) bool
}

// NotificationHandler handles notification HTTP requests.
type NotificationHandler struct {
	queue  NotificationQueue
	logger zerolog.Logger
}

// NewNotificationHandler creates a new notification handler.
func NewNotificationHandler(queue NotificationQueue, logger zerolog.Logger) *NotificationHandler {
	return &NotificationHandler{
		queue:  queue,
		logger: logger.With().Str("handler", "notification").Logger(),
	}
}

// List handles GET /api/notifications.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.queue.List())
}

// Remove handles DELETE /api/notifications/{id}.
func (h *NotificationHandler) Remove(w http.ResponseWriter, r *http.Request) {
	if !h.queue.Remove(r.PathValue("id")) {
		writeError(w, r, http.StatusNotFound, model.ErrCodeNotificationNotFound, "notification not found", h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
