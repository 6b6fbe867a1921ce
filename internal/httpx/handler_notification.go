package httpx

import (
	"net/http"

	"aqsit-be/internal/notification"
	"aqsit-be/internal/utils"

	"github.com/go-chi/chi/v5"
)

const defaultNotificationLimit = 50

type NotificationHandler struct {
	notifications notification.Service
}

func NewNotificationHandler(notifications notification.Service) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		Fail(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	items, err := h.notifications.ListForUser(r.Context(), userID, defaultNotificationLimit)
	if err != nil {
		Error(r.Context(), w, err)
		return
	}
	OK(w, http.StatusOK, items)
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		Fail(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := utils.ToUint(chi.URLParam(r, "id"))
	if err != nil {
		Fail(w, http.StatusBadRequest, "invalid notification id")
		return
	}

	if err := h.notifications.MarkRead(r.Context(), id, userID); err != nil {
		Error(r.Context(), w, err)
		return
	}
	OK(w, http.StatusOK, map[string]any{"notification_id": id, "is_read": true})
}
