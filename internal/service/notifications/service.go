package notifications

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-MarketplaceBooking/internal/domain"
	notificationRepo "github.com/m04kA/SMC-MarketplaceBooking/internal/infra/storage/notification"
)

// Service лента уведомлений актора
type Service struct {
	repo   Repository
	logger Logger
}

func NewService(repo Repository, logger Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// List уведомления актора, новые первыми; limit 0 = значение по умолчанию
func (s *Service) List(ctx context.Context, actor domain.Actor, unreadOnly bool, limit int) ([]domain.Notification, error) {
	if limit < 0 || limit > domain.MaxNotificationsLimit {
		return nil, fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalidInput, domain.MaxNotificationsLimit)
	}
	if limit == 0 {
		limit = domain.DefaultNotificationLimit
	}

	filter := filterFor(actor)
	filter.UnreadOnly = unreadOnly
	filter.Limit = limit

	list, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("list notifications for actor_id=%d: %v", actor.ID, err)
		return nil, fmt.Errorf("%w: List - %v", ErrPersistence, err)
	}

	return list, nil
}

func (s *Service) UnreadCount(ctx context.Context, actor domain.Actor) (int, error) {
	count, err := s.repo.CountUnread(ctx, filterFor(actor))
	if err != nil {
		s.logger.Error("count unread for actor_id=%d: %v", actor.ID, err)
		return 0, fmt.Errorf("%w: UnreadCount - %v", ErrPersistence, err)
	}
	return count, nil
}

// MarkRead отмечает уведомление прочитанным; чужое уведомление неотличимо от несуществующего
func (s *Service) MarkRead(ctx context.Context, actor domain.Actor, notificationID int64) error {
	if notificationID <= 0 {
		return fmt.Errorf("%w: notification id must be positive", ErrInvalidInput)
	}

	err := s.repo.MarkRead(ctx, notificationID, filterFor(actor))
	if errors.Is(err, notificationRepo.ErrNotificationNotFound) {
		return ErrNotificationNotFound
	}
	if err != nil {
		s.logger.Error("mark notification_id=%d read: %v", notificationID, err)
		return fmt.Errorf("%w: MarkRead - %v", ErrPersistence, err)
	}

	return nil
}

func (s *Service) MarkAllRead(ctx context.Context, actor domain.Actor) (int64, error) {
	n, err := s.repo.MarkAllRead(ctx, filterFor(actor))
	if err != nil {
		s.logger.Error("mark all read for actor_id=%d: %v", actor.ID, err)
		return 0, fmt.Errorf("%w: MarkAllRead - %v", ErrPersistence, err)
	}
	return n, nil
}

func filterFor(actor domain.Actor) domain.NotificationFilter {
	return domain.NotificationFilter{
		UserID:       actor.ID,
		IncludeOwner: actor.Role == domain.RoleOwner,
	}
}
