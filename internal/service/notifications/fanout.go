package notifications

import (
	"context"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-MarketplaceBooking/internal/domain"
)

var statusLabels = map[domain.BookingStatus]string{
	domain.StatusPending:   "ожидает подтверждения",
	domain.StatusConfirmed: "подтверждено",
	domain.StatusCompleted: "завершено",
	domain.StatusCancelled: "отменено",
}

// FanoutResult сколько уведомлений создано по классам получателей
type FanoutResult struct {
	Customer int
	Owners   int
	Admins   int
}

func (r FanoutResult) Total() int {
	return r.Customer + r.Owners + r.Admins
}

// Fanout единственная точка создания уведомлений о бронированиях.
// Пишет через контекст, поэтому внутри транзакции бронирования откатывается вместе с ней.
type Fanout struct {
	repo   Writer
	admins AdminDirectory
	logger Logger
}

func NewFanout(repo Writer, admins AdminDirectory, logger Logger) *Fanout {
	return &Fanout{repo: repo, admins: admins, logger: logger}
}

// NotifyCreated: one notification for the customer, one per distinct owner
// of the items (owner_id column) and one per admin (user_id column).
// booking.Items must be populated.
func (f *Fanout) NotifyCreated(ctx context.Context, booking *domain.Booking, customerName string) (FanoutResult, error) {
	var result FanoutResult
	relatedID := booking.ID

	type recipientKey struct {
		ownerColumn bool
		id          int64
	}
	sent := make(map[recipientKey]struct{})

	send := func(key recipientKey, n *domain.Notification) (bool, error) {
		if _, ok := sent[key]; ok {
			return false, nil
		}
		n.Type = domain.NotificationTypeBooking
		n.RelatedID = &relatedID
		if err := f.repo.Create(ctx, n); err != nil {
			return false, fmt.Errorf("%w: NotifyCreated - booking_id=%d: %v", ErrPersistence, booking.ID, err)
		}
		sent[key] = struct{}{}
		return true, nil
	}

	customerID := booking.UserID
	if _, err := send(recipientKey{id: customerID}, &domain.Notification{
		UserID:  &customerID,
		Title:   "Бронирование создано",
		Message: fmt.Sprintf("Ваше бронирование #%d на %s %s создано и ожидает подтверждения. Сумма: %s.", booking.ID, booking.BookingDate.Format(domain.DateFormat), booking.BookingTime, booking.TotalAmount.StringFixed(2)),
	}); err != nil {
		return result, err
	}
	result.Customer = 1

	for _, ownerID := range booking.OwnerIDs() {
		ownerID := ownerID
		ok, err := send(recipientKey{ownerColumn: true, id: ownerID}, &domain.Notification{
			OwnerID: &ownerID,
			Title:   "Новое бронирование",
			Message: fmt.Sprintf("Клиент %s забронировал: %s (бронирование #%d на %s %s).", customerName, serviceNames(booking.Items, &ownerID), booking.ID, booking.BookingDate.Format(domain.DateFormat), booking.BookingTime),
		})
		if err != nil {
			return result, err
		}
		if ok {
			result.Owners++
		}
	}

	adminIDs, err := f.admins.ListIDsByRole(ctx, domain.RoleAdmin)
	if err != nil {
		return result, fmt.Errorf("%w: NotifyCreated - list admins: %v", ErrPersistence, err)
	}

	summary := fmt.Sprintf("Бронирование #%d: клиент %s, владельцы %s, услуги: %s. Сумма: %s.",
		booking.ID, customerName, joinIDs(booking.OwnerIDs()), serviceNames(booking.Items, nil), booking.TotalAmount.StringFixed(2))

	for _, adminID := range adminIDs {
		adminID := adminID
		ok, err := send(recipientKey{id: adminID}, &domain.Notification{
			UserID:  &adminID,
			Title:   "Новое бронирование в системе",
			Message: summary,
		})
		if err != nil {
			return result, err
		}
		if ok {
			result.Admins++
		}
	}

	f.logger.Info("booking_id=%d: created notifications customer=%d owners=%d admins=%d", booking.ID, result.Customer, result.Owners, result.Admins)
	return result, nil
}

// NotifyTransition уведомляет только клиента о новом статусе
func (f *Fanout) NotifyTransition(ctx context.Context, booking *domain.Booking, notes *string) error {
	customerID := booking.UserID
	relatedID := booking.ID

	label, ok := statusLabels[booking.Status]
	if !ok {
		label = string(booking.Status)
	}

	message := fmt.Sprintf("Статус бронирования #%d изменён: %s.", booking.ID, label)
	if notes != nil && strings.TrimSpace(*notes) != "" {
		message += " Комментарий: " + strings.TrimSpace(*notes)
	}

	n := &domain.Notification{
		UserID:    &customerID,
		Type:      domain.NotificationTypeBooking,
		Title:     "Статус бронирования изменён",
		Message:   message,
		RelatedID: &relatedID,
	}
	if err := f.repo.Create(ctx, n); err != nil {
		return fmt.Errorf("%w: NotifyTransition - booking_id=%d: %v", ErrPersistence, booking.ID, err)
	}

	return nil
}

// serviceNames названия услуг, при ownerID != nil только этого владельца
func serviceNames(items []domain.BookingItem, ownerID *int64) string {
	names := make([]string, 0, len(items))
	for _, item := range items {
		if ownerID != nil && item.OwnerID != *ownerID {
			continue
		}
		names = append(names, fmt.Sprintf("%s x%d", item.ServiceName, item.Quantity))
	}
	return strings.Join(names, ", ")
}

func joinIDs(ids []int64) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprintf("#%d", id))
	}
	return strings.Join(parts, ", ")
}
