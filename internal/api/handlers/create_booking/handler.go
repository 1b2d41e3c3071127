package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-MarketplaceBooking/internal/api/handlers"
	"github.com/m04kA/SMC-MarketplaceBooking/internal/api/middleware"
	placeBooking "github.com/m04kA/SMC-MarketplaceBooking/internal/usecase/place_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты бронирования, ожидается YYYY-MM-DD"
	msgInvalidTime        = "некорректный формат времени, ожидается HH:MM"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidInput       = "некорректные данные бронирования"
	msgDateInPast         = "дата или время бронирования уже прошли"
	msgForbidden          = "оформлять бронирования могут только клиенты"
	msgEmptyCart          = "корзина пуста"
	msgServiceNotFound    = "услуга не найдена"
	msgServiceUnavailable = "услуга недоступна для бронирования"
	msgCreationFailed     = "не удалось оформить бронирование, попробуйте еще раз"
)

type Handler struct {
	useCase PlaceBookingUseCase
	logger  Logger
}

func NewHandler(useCase PlaceBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(actor)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		if errors.Is(err, errInvalidTime) {
			handlers.RespondBadRequest(w, msgInvalidTime)
		} else {
			handlers.RespondBadRequest(w, msgInvalidDate)
		}
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, placeBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: user_id=%d, error=%v", actor.ID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, placeBooking.ErrInvalidDate):
			h.logger.Warn("POST /bookings - Date in the past: user_id=%d", actor.ID)
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, placeBooking.ErrPermissionDenied):
			h.logger.Warn("POST /bookings - Not a customer: user_id=%d, role=%s", actor.ID, actor.Role)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, placeBooking.ErrServiceNotFound):
			h.logger.Warn("POST /bookings - Service not found: user_id=%d, service_id=%d", actor.ID, req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, placeBooking.ErrEmptyCart):
			h.logger.Warn("POST /bookings - Empty cart: user_id=%d", actor.ID)
			handlers.RespondUnprocessable(w, msgEmptyCart)

		// сюда же попадает услуга, снятая с продажи внутри транзакции
		case errors.Is(err, placeBooking.ErrServiceUnavailable):
			h.logger.Warn("POST /bookings - Service unavailable: user_id=%d, error=%v", actor.ID, err)
			handlers.RespondUnprocessable(w, msgServiceUnavailable)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: user_id=%d, error=%v", actor.ID, err)
			handlers.RespondError(w, http.StatusInternalServerError, msgCreationFailed)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, user_id=%d, total=%s",
		result.BookingID, actor.ID, result.Total)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
