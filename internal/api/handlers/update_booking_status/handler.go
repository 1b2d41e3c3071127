package update_booking_status

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-MarketplaceBooking/internal/api/handlers"
	"github.com/m04kA/SMC-MarketplaceBooking/internal/api/middleware"
	transitionBooking "github.com/m04kA/SMC-MarketplaceBooking/internal/usecase/transition_booking"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidInput       = "некорректный статус или комментарий"
	msgForbidden          = "доступ запрещен"
	msgInvalidTransition  = "переход в этот статус невозможен"
	msgConflict           = "статус бронирования уже изменился, обновите данные"
	msgUpdateFailed       = "не удалось изменить статус, попробуйте еще раз"
)

type Handler struct {
	useCase TransitionUseCase
	logger  Logger
}

func NewHandler(useCase TransitionUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := strconv.ParseInt(mux.Vars(r)["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/status - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req UpdateStatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/{id}/status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(actor, bookingID))
	if err != nil {
		RespondTransitionError(w, h.logger, "PATCH /bookings/{id}/status", bookingID, actor.ID, err)
		return
	}

	h.logger.Info("PATCH /bookings/{id}/status - Status changed: booking_id=%d, %s -> %s, user_id=%d",
		bookingID, result.From, result.Status, actor.ID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}

// RespondTransitionError единое отображение ошибок смены статуса в HTTP
func RespondTransitionError(w http.ResponseWriter, logger Logger, route string, bookingID, userID int64, err error) {
	switch {
	case errors.Is(err, transitionBooking.ErrInvalidInput):
		logger.Warn("%s - Invalid input: booking_id=%d, error=%v", route, bookingID, err)
		handlers.RespondBadRequest(w, msgInvalidInput)

	case errors.Is(err, transitionBooking.ErrPermissionDenied):
		logger.Warn("%s - Access denied: booking_id=%d, user_id=%d", route, bookingID, userID)
		handlers.RespondForbidden(w, msgForbidden)

	case errors.Is(err, transitionBooking.ErrInvalidTransition):
		logger.Warn("%s - Invalid transition: booking_id=%d, error=%v", route, bookingID, err)
		handlers.RespondConflict(w, msgInvalidTransition)

	case errors.Is(err, transitionBooking.ErrConcurrencyConflict):
		logger.Warn("%s - Concurrent update: booking_id=%d, error=%v", route, bookingID, err)
		handlers.RespondConflict(w, msgConflict)

	default:
		logger.Error("%s - Failed to change status: booking_id=%d, error=%v", route, bookingID, err)
		handlers.RespondError(w, http.StatusInternalServerError, msgUpdateFailed)
	}
}
