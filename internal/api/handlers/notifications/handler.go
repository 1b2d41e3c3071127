// Package notifications HTTP-обработчики ленты уведомлений
package notifications

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-MarketplaceBooking/internal/api/handlers"
	"github.com/m04kA/SMC-MarketplaceBooking/internal/api/middleware"
	notificationService "github.com/m04kA/SMC-MarketplaceBooking/internal/service/notifications"
)

const (
	msgMissingUserID         = "отсутствует ID пользователя"
	msgInvalidParams         = "некорректные параметры запроса"
	msgInvalidNotificationID = "некорректный ID уведомления"
	msgNotFound              = "уведомление не найдено"
)

type Handler struct {
	service NotificationService
	logger  Logger
}

func NewHandler(service NotificationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// List GET /api/v1/notifications?unread=true&limit=20
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	query := r.URL.Query()
	unreadOnly := false
	if raw := query.Get("unread"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidParams)
			return
		}
		unreadOnly = parsed
	}

	limit := 0
	if raw := query.Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidParams)
			return
		}
		limit = parsed
	}

	list, err := h.service.List(r.Context(), actor, unreadOnly, limit)
	if err != nil {
		h.respondError(w, "GET /notifications", err)
		return
	}

	unread, err := h.service.UnreadCount(r.Context(), actor)
	if err != nil {
		h.respondError(w, "GET /notifications", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, ListResponse{
		Notifications: FromDomainList(list),
		UnreadCount:   unread,
	})
}

// UnreadCount GET /api/v1/notifications/unread-count
func (h *Handler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	count, err := h.service.UnreadCount(r.Context(), actor)
	if err != nil {
		h.respondError(w, "GET /notifications/unread-count", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, UnreadCountResponse{UnreadCount: count})
}

// MarkRead PATCH /api/v1/notifications/{notificationId}/read
func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	id, err := strconv.ParseInt(mux.Vars(r)["notificationId"], 10, 64)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidNotificationID)
		return
	}

	if err := h.service.MarkRead(r.Context(), actor, id); err != nil {
		h.respondError(w, "PATCH /notifications/{id}/read", err)
		return
	}

	handlers.RespondJSON(w, http.StatusNoContent, nil)
}

// MarkAllRead PATCH /api/v1/notifications/read-all
func (h *Handler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	updated, err := h.service.MarkAllRead(r.Context(), actor)
	if err != nil {
		h.respondError(w, "PATCH /notifications/read-all", err)
		return
	}

	h.logger.Info("PATCH /notifications/read-all - user_id=%d marked %d notifications", actor.ID, updated)
	handlers.RespondJSON(w, http.StatusOK, MarkAllReadResponse{Updated: updated})
}

func (h *Handler) respondError(w http.ResponseWriter, route string, err error) {
	switch {
	case errors.Is(err, notificationService.ErrInvalidInput):
		h.logger.Warn("%s - Invalid input: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidParams)
	case errors.Is(err, notificationService.ErrNotificationNotFound):
		handlers.RespondNotFound(w, msgNotFound)
	default:
		h.logger.Error("%s - Failed: %v", route, err)
		handlers.RespondInternalError(w)
	}
}
