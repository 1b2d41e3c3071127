package transition_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-MarketplaceBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-MarketplaceBooking/internal/infra/storage/booking"
)

// UseCase use case для смены статуса бронирования
type UseCase struct {
	bookingRepo BookingRepository
	notifier    Notifier
	metrics     Metrics
	txManager   TransactionManager
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	notifier Notifier,
	metrics Metrics,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		notifier:    notifier,
		metrics:     metrics,
		txManager:   txManager,
		logger:      logger,
	}
}

// Execute меняет статус бронирования.
// Порядок проверок внутри транзакции: права, ожидаемый статус, допустимость перехода.
// Строка бронирования заблокирована до конца транзакции, обновление идет по сравнению статуса.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("TransitionBooking: booking id=%d -> %s by user=%d", req.BookingID, req.Target, req.Actor.ID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("TransitionBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Ожидаемый статус: из запроса или прочитанный сейчас
	expected, err := uc.expectedStatus(ctx, req)
	if err != nil {
		return nil, err
	}

	var resp *Response

	// 3. Транзакция
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 3.1. Блокируем строку
		booking, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrPermissionDenied
			}
			return fmt.Errorf("%w: Execute - get booking: %v", ErrPersistence, err)
		}

		items, err := uc.bookingRepo.GetItems(txCtx, req.BookingID)
		if err != nil {
			return fmt.Errorf("%w: Execute - get items: %v", ErrPersistence, err)
		}
		booking.Items = items

		// 3.2. Права проверяются раньше допустимости, чтобы не раскрывать статус
		if !canRequest(req.Actor, booking, req.Target) {
			return ErrPermissionDenied
		}

		// 3.3. Статус изменился с момента чтения
		if booking.Status != expected {
			return fmt.Errorf("%w: expected %s, found %s", ErrConcurrencyConflict, expected, booking.Status)
		}

		// 3.4. Допустимость перехода
		if !booking.Status.CanTransitionTo(req.Target) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, req.Target)
		}

		from := booking.Status

		// 3.5. Обновление со сравнением статуса
		updatedAt, err := uc.bookingRepo.UpdateStatus(txCtx, booking.ID, from, req.Target)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrStatusConflict) {
				return fmt.Errorf("%w: status changed during update", ErrConcurrencyConflict)
			}
			return fmt.Errorf("%w: Execute - update status: %v", ErrPersistence, err)
		}

		// 3.6. История
		actorID := req.Actor.ID
		if err := uc.bookingRepo.AppendHistory(txCtx, &domain.StatusHistoryEntry{
			BookingID: booking.ID,
			Status:    req.Target,
			Notes:     req.Notes,
			ChangedBy: &actorID,
		}); err != nil {
			return fmt.Errorf("%w: Execute - append history: %v", ErrPersistence, err)
		}

		// 3.7. Уведомление клиента
		booking.Status = req.Target
		booking.UpdatedAt = updatedAt
		if err := uc.notifier.NotifyTransition(txCtx, booking, req.Notes); err != nil {
			return fmt.Errorf("%w: Execute - notify: %v", ErrPersistence, err)
		}

		resp = &Response{
			BookingID: booking.ID,
			From:      from,
			Status:    req.Target,
			UpdatedAt: booking.UpdatedAt,
		}
		return nil
	})
	if err != nil {
		if !isRejection(err) && !errors.Is(err, ErrPersistence) {
			err = fmt.Errorf("%w: Execute - transaction: %v", ErrPersistence, err)
		}
		uc.logResult(req, err)
		return nil, err
	}

	uc.metrics.RecordTransition(string(resp.From), string(resp.Status))
	uc.metrics.RecordNotifications(string(domain.RecipientCustomer), 1)

	uc.logger.Info("TransitionBooking: booking id=%d %s -> %s by user=%d", resp.BookingID, resp.From, resp.Status, req.Actor.ID)
	return resp, nil
}

// expectedStatus статус, относительно которого принимается решение
func (uc *UseCase) expectedStatus(ctx context.Context, req *Request) (domain.BookingStatus, error) {
	if req.ExpectedStatus != nil {
		return *req.ExpectedStatus, nil
	}

	booking, err := uc.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("TransitionBooking: booking id=%d not found, user=%d", req.BookingID, req.Actor.ID)
			return "", ErrPermissionDenied
		}
		uc.logger.Error("TransitionBooking: failed to read booking id=%d: %v", req.BookingID, err)
		return "", fmt.Errorf("%w: expectedStatus - get booking: %v", ErrPersistence, err)
	}

	return booking.Status, nil
}

// isRejection отказ по бизнес-правилу, а не сбой хранилища
func isRejection(err error) bool {
	return errors.Is(err, ErrPermissionDenied) ||
		errors.Is(err, ErrInvalidTransition) ||
		errors.Is(err, ErrConcurrencyConflict)
}

func (uc *UseCase) logResult(req *Request, err error) {
	switch {
	case errors.Is(err, ErrPermissionDenied):
		uc.logger.Warn("TransitionBooking: user=%d denied for booking id=%d", req.Actor.ID, req.BookingID)
	case isRejection(err):
		uc.logger.Warn("TransitionBooking: booking id=%d rejected: %v", req.BookingID, err)
	default:
		uc.logger.Error("TransitionBooking: booking id=%d failed: %v", req.BookingID, err)
	}
}
