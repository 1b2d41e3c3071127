// Package cart HTTP-обработчики корзины текущего пользователя
package cart

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-MarketplaceBooking/internal/api/handlers"
	"github.com/m04kA/SMC-MarketplaceBooking/internal/api/middleware"
	cartService "github.com/m04kA/SMC-MarketplaceBooking/internal/service/cart"
)

const (
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidServiceID   = "некорректный ID услуги"
	msgInvalidQuantity    = "количество должно быть от 1 до 10"
	msgServiceNotFound    = "услуга не найдена"
	msgServiceUnavailable = "услуга недоступна для бронирования"
	msgLineNotFound       = "услуги нет в корзине"
	msgCatalogUnavailable = "каталог услуг временно недоступен"
)

type Handler struct {
	service CartService
	logger  Logger
}

func NewHandler(service CartService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Get GET /api/v1/cart
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	resolved, err := h.service.Get(r.Context(), session)
	if err != nil {
		h.respondError(w, "GET /cart", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromResolved(resolved))
}

// Add POST /api/v1/cart/items
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var req AddItemRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /cart/items - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	resolved, err := h.service.Add(r.Context(), session, req.ServiceID, req.Quantity)
	if err != nil {
		h.respondError(w, "POST /cart/items", err)
		return
	}

	h.logger.Info("POST /cart/items - Added service_id=%d x%d to cart of user=%s", req.ServiceID, req.Quantity, session)
	handlers.RespondJSON(w, http.StatusOK, FromResolved(resolved))
}

// Update PUT /api/v1/cart/items/{serviceId}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	serviceID, ok := h.serviceID(w, r)
	if !ok {
		return
	}

	var req UpdateItemRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /cart/items/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	resolved, err := h.service.Update(r.Context(), session, serviceID, req.Quantity)
	if err != nil {
		h.respondError(w, "PUT /cart/items/{id}", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromResolved(resolved))
}

// Remove DELETE /api/v1/cart/items/{serviceId}
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	serviceID, ok := h.serviceID(w, r)
	if !ok {
		return
	}

	resolved, err := h.service.Remove(r.Context(), session, serviceID)
	if err != nil {
		h.respondError(w, "DELETE /cart/items/{id}", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromResolved(resolved))
}

// Clear DELETE /api/v1/cart
func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	if err := h.service.Clear(r.Context(), session); err != nil {
		h.respondError(w, "DELETE /cart", err)
		return
	}

	handlers.RespondJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (string, bool) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return "", false
	}
	return actor.CartSessionID(), true
}

func (h *Handler) serviceID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["serviceId"], 10, 64)
	if err != nil || id <= 0 {
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return 0, false
	}
	return id, true
}

func (h *Handler) respondError(w http.ResponseWriter, route string, err error) {
	switch {
	case errors.Is(err, cartService.ErrInvalidInput):
		h.logger.Warn("%s - Invalid input: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidQuantity)
	case errors.Is(err, cartService.ErrServiceNotFound):
		handlers.RespondNotFound(w, msgServiceNotFound)
	case errors.Is(err, cartService.ErrLineNotFound):
		handlers.RespondNotFound(w, msgLineNotFound)
	case errors.Is(err, cartService.ErrServiceUnavailable):
		handlers.RespondUnprocessable(w, msgServiceUnavailable)
	case errors.Is(err, cartService.ErrCatalog):
		h.logger.Error("%s - Catalog error: %v", route, err)
		handlers.RespondError(w, http.StatusBadGateway, msgCatalogUnavailable)
	default:
		h.logger.Error("%s - Failed: %v", route, err)
		handlers.RespondInternalError(w)
	}
}
