package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-MarketplaceBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-MarketplaceBooking/internal/infra/storage/booking"
	"github.com/m04kA/SMC-MarketplaceBooking/internal/service/bookings/models"
)

// Service чтение бронирований: карточка, история, списки клиента и владельца
type Service struct {
	bookingRepo BookingRepository
	guard       AccessGuard
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	guard AccessGuard,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		guard:       guard,
		logger:      logger,
	}
}

// GetByID получает бронирование с позициями и историей.
// Доступ: клиент бронирования, владелец хотя бы одной услуги, администратор.
func (s *Service) GetByID(ctx context.Context, actor domain.Actor, id int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, actor.ID)

	if err := s.authorize(ctx, actor, id); err != nil {
		return nil, err
	}

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.repoError("GetByID", id, err)
	}

	items, err := s.bookingRepo.GetItems(ctx, id)
	if err != nil {
		return nil, s.repoError("GetByID", id, err)
	}
	booking.Items = items

	history, err := s.bookingRepo.GetHistory(ctx, id)
	if err != nil {
		return nil, s.repoError("GetByID", id, err)
	}

	resp := models.FromDomainBooking(booking)
	resp.History = models.FromDomainHistory(history)

	s.logger.Info("GetByID: successfully fetched booking id=%d", id)
	return resp, nil
}

// GetHistory журнал статусов бронирования
func (s *Service) GetHistory(ctx context.Context, actor domain.Actor, id int64) (*models.HistoryResponse, error) {
	if err := s.authorize(ctx, actor, id); err != nil {
		return nil, err
	}

	history, err := s.bookingRepo.GetHistory(ctx, id)
	if err != nil {
		return nil, s.repoError("GetHistory", id, err)
	}

	return &models.HistoryResponse{
		BookingID: id,
		History:   models.FromDomainHistory(history),
	}, nil
}

// GetUserBookings бронирования клиента; доступно самому клиенту и администратору
func (s *Service) GetUserBookings(ctx context.Context, actor domain.Actor, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%d, status=%v", req.UserID, req.Status)

	if actor.ID != req.UserID && !actor.IsAdmin() {
		s.logger.Warn("GetUserBookings: user=%d denied access to bookings of user=%d", actor.ID, req.UserID)
		return nil, ErrAccessDenied
	}

	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserBookings: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByUserID(ctx, req.UserID, domainStatus)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	if err := s.attachItems(ctx, bookings); err != nil {
		return nil, err
	}

	s.logger.Info("GetUserBookings: successfully fetched %d bookings for user=%d", len(bookings), req.UserID)
	return models.FromDomainBookingList(bookings), nil
}

// GetOwnerBookings бронирования, содержащие услуги владельца; доступно самому владельцу и администратору
func (s *Service) GetOwnerBookings(ctx context.Context, actor domain.Actor, req *models.GetOwnerBookingsRequest) (*models.BookingListResponse, error) {
	logMsg := fmt.Sprintf("GetOwnerBookings: fetching bookings for owner=%d, user=%d", req.OwnerID, actor.ID)
	if req.StartDate != nil {
		logMsg += fmt.Sprintf(", from=%s", req.StartDate.Format(domain.DateFormat))
	}
	if req.EndDate != nil {
		logMsg += fmt.Sprintf(", to=%s", req.EndDate.Format(domain.DateFormat))
	}
	if req.Status != nil {
		logMsg += fmt.Sprintf(", status=%s", *req.Status)
	}
	s.logger.Info(logMsg)

	isSelf := actor.ID == req.OwnerID && actor.Role == domain.RoleOwner
	if !isSelf && !actor.IsAdmin() {
		s.logger.Warn("GetOwnerBookings: user=%d denied access to bookings of owner=%d", actor.ID, req.OwnerID)
		return nil, ErrAccessDenied
	}

	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		return nil, fmt.Errorf("%w: endDate before startDate", ErrInvalidInput)
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetOwnerBookings: invalid filter for owner=%d: %v", req.OwnerID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetByOwnerWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetOwnerBookings: repository error for owner=%d: %v", req.OwnerID, err)
		return nil, fmt.Errorf("%w: GetOwnerBookings - repository error: %v", ErrInternal, err)
	}

	if err := s.attachItems(ctx, bookings); err != nil {
		return nil, err
	}

	s.logger.Info("GetOwnerBookings: successfully fetched %d bookings for owner=%d", len(bookings), req.OwnerID)
	return models.FromDomainBookingList(bookings), nil
}

// Вспомогательные методы

// authorize право просмотра; для неизвестного бронирования ответ тот же, что для чужого.
// Исключение: администратор получает ErrBookingNotFound.
func (s *Service) authorize(ctx context.Context, actor domain.Actor, id int64) error {
	if s.guard.CanAccess(ctx, actor, id, domain.CapabilityView) {
		return nil
	}

	if actor.IsAdmin() {
		_, err := s.bookingRepo.GetByID(ctx, id)
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return ErrBookingNotFound
		}
		if err != nil {
			return s.repoError("authorize", id, err)
		}
	}

	s.logger.Warn("access denied for user=%d to booking id=%d", actor.ID, id)
	return ErrAccessDenied
}

func (s *Service) attachItems(ctx context.Context, bookings []*domain.Booking) error {
	ids := make([]int64, 0, len(bookings))
	for _, b := range bookings {
		ids = append(ids, b.ID)
	}

	grouped, err := s.bookingRepo.GetItemsByBookingIDs(ctx, ids)
	if err != nil {
		s.logger.Error("attachItems: repository error: %v", err)
		return fmt.Errorf("%w: attachItems - repository error: %v", ErrInternal, err)
	}

	for _, b := range bookings {
		b.Items = grouped[b.ID]
	}
	return nil
}

func (s *Service) repoError(op string, id int64, err error) error {
	if errors.Is(err, bookingRepo.ErrBookingNotFound) {
		s.logger.Warn("%s: booking id=%d not found", op, id)
		return ErrBookingNotFound
	}
	s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
	return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
}
