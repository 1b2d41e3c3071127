package place_booking

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/m04kA/SMC-MarketplaceBooking/internal/domain"
	userRepo "github.com/m04kA/SMC-MarketplaceBooking/internal/infra/storage/user"
	"github.com/m04kA/SMC-MarketplaceBooking/internal/integrations/catalogservice"
	cartService "github.com/m04kA/SMC-MarketplaceBooking/internal/service/cart"
	cartModels "github.com/m04kA/SMC-MarketplaceBooking/internal/service/cart/models"
	"github.com/m04kA/SMC-MarketplaceBooking/internal/service/notifications"
	"github.com/m04kA/SMC-MarketplaceBooking/internal/service/pricing"
	"github.com/m04kA/SMC-MarketplaceBooking/pkg/ptr"
)

// UseCase use case для оформления бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	userRepo     UserRepository
	cart         CartService
	catalog      CatalogClient
	notifier     Notifier
	metrics      Metrics
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	userRepo UserRepository,
	cart CartService,
	catalog CatalogClient,
	notifier Notifier,
	metrics Metrics,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		userRepo:     userRepo,
		cart:         cart,
		catalog:      catalog,
		notifier:     notifier,
		metrics:      metrics,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute оформляет бронирование одной транзакцией: бронирование, позиции,
// первая запись истории, уведомления и синхронизация профиля.
// При любой ошибке внутри транзакции ничего не сохраняется.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("PlaceBooking: user=%d, mode=%s, date=%s, time=%s",
		req.Actor.ID, req.Mode, req.Date.Format(domain.DateFormat), req.Time)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("PlaceBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Дата и время относительно текущего момента
	now := uc.timeProvider.Now()
	if err := validateSchedule(req.Date, req.Time, now); err != nil {
		uc.logger.Warn("PlaceBooking: schedule validation failed: %v", err)
		return nil, err
	}

	// 3. Собираем позиции
	sessionID := req.Actor.CartSessionID()
	resolved, err := uc.resolveLines(ctx, req, sessionID)
	if err != nil {
		return nil, err
	}

	var (
		booking *domain.Booking
		fanout  notifications.FanoutResult
	)

	// 4. Все записи в одной транзакции
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 4.1. Цены фиксируются по каталогу, прочитанному внутри транзакции
		items, err := uc.freezeItems(txCtx, resolved.Lines)
		if err != nil {
			return err
		}

		totals := pricing.Compute(pricing.FromItems(items))

		// 4.2. Бронирование
		created, err := uc.bookingRepo.Create(txCtx, &domain.Booking{
			UserID:          req.Actor.ID,
			TotalAmount:     totals.Total,
			Status:          domain.StatusPending,
			BookingDate:     req.Date,
			BookingTime:     req.Time,
			BillingName:     strings.TrimSpace(req.Customer.Name),
			BillingEmail:    strings.TrimSpace(req.Customer.Email),
			BillingPhone:    strings.TrimSpace(req.Customer.Phone),
			BillingAddress:  strings.TrimSpace(req.Customer.Address),
			PaymentMethod:   strings.TrimSpace(req.PaymentMethod),
			SpecialRequests: req.SpecialRequests,
		})
		if err != nil {
			return fmt.Errorf("create booking: %w", err)
		}

		// 4.3. Позиции
		if err := uc.bookingRepo.CreateItems(txCtx, created.ID, items); err != nil {
			return fmt.Errorf("create items: %w", err)
		}
		created.Items = items

		// 4.4. Первая запись истории
		if err := uc.bookingRepo.AppendHistory(txCtx, &domain.StatusHistoryEntry{
			BookingID: created.ID,
			Status:    domain.StatusPending,
			Notes:     ptr.Ptr(domain.InitialHistoryNotes),
			ChangedBy: ptr.Ptr(req.Actor.ID),
		}); err != nil {
			return fmt.Errorf("append history: %w", err)
		}

		// 4.5. Профиль клиента: имя для уведомлений, затем синхронизация контактов
		customerName, err := uc.customerName(txCtx, req)
		if err != nil {
			return err
		}

		// 4.6. Уведомления
		fanout, err = uc.notifier.NotifyCreated(txCtx, created, customerName)
		if err != nil {
			return fmt.Errorf("notify: %w", err)
		}

		booking = created
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrServiceUnavailable) {
			uc.logger.Warn("PlaceBooking: service became unavailable for user=%d: %v", req.Actor.ID, err)
		} else {
			uc.logger.Error("PlaceBooking: transaction failed for user=%d: %v", req.Actor.ID, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrBookingCreationFailed, err)
	}

	uc.logger.Info("PlaceBooking: booking id=%d created for user=%d, total=%s", booking.ID, req.Actor.ID, booking.TotalAmount.StringFixed(2))

	// 5. После фиксации: метрики и очистка корзины
	uc.metrics.RecordBookingCreated(string(req.Mode))
	uc.metrics.RecordNotifications(string(domain.RecipientCustomer), fanout.Customer)
	uc.metrics.RecordNotifications(string(domain.RecipientOwner), fanout.Owners)
	uc.metrics.RecordNotifications(string(domain.RecipientAdmin), fanout.Admins)

	if req.Mode == ModeCart {
		if err := uc.cart.Clear(ctx, sessionID); err != nil {
			uc.logger.Warn("PlaceBooking: failed to clear cart for user=%d: %v", req.Actor.ID, err)
		}
	}

	return buildResponse(booking, resolved.Dropped, fanout.Total()), nil
}

// resolveLines позиции из корзины или одна позиция прямого бронирования
func (uc *UseCase) resolveLines(ctx context.Context, req *Request, sessionID string) (*cartModels.Resolved, error) {
	var (
		resolved *cartModels.Resolved
		err      error
	)

	if req.Mode == ModeCart {
		resolved, err = uc.cart.ResolveCart(ctx, sessionID)
	} else {
		resolved, err = uc.cart.ResolveDirect(ctx, req.ServiceID, req.Quantity)
	}

	switch {
	case err == nil:
		if len(resolved.Dropped) > 0 {
			uc.logger.Warn("PlaceBooking: dropped unavailable services %v from cart of user=%d", resolved.Dropped, req.Actor.ID)
		}
		return resolved, nil
	case errors.Is(err, cartService.ErrEmptyCart):
		uc.logger.Warn("PlaceBooking: empty cart for user=%d", req.Actor.ID)
		return nil, ErrEmptyCart
	case errors.Is(err, cartService.ErrServiceNotFound):
		uc.logger.Warn("PlaceBooking: service id=%d not found", req.ServiceID)
		return nil, ErrServiceNotFound
	case errors.Is(err, cartService.ErrServiceUnavailable):
		uc.logger.Warn("PlaceBooking: service id=%d unavailable", req.ServiceID)
		return nil, ErrServiceUnavailable
	case errors.Is(err, cartService.ErrInvalidInput):
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	default:
		uc.logger.Error("PlaceBooking: failed to resolve lines for user=%d: %v", req.Actor.ID, err)
		return nil, fmt.Errorf("%w: resolve lines: %w", ErrBookingCreationFailed, err)
	}
}

// freezeItems перечитывает каждую услугу и фиксирует ее название, владельца и цену
func (uc *UseCase) freezeItems(ctx context.Context, lines []cartModels.ResolvedLine) ([]domain.BookingItem, error) {
	items := make([]domain.BookingItem, 0, len(lines))

	for _, line := range lines {
		svc, err := uc.catalog.GetService(ctx, line.ServiceID)
		if err != nil {
			if errors.Is(err, catalogservice.ErrServiceNotFound) {
				return nil, fmt.Errorf("%w: service_id=%d no longer exists", ErrServiceUnavailable, line.ServiceID)
			}
			return nil, fmt.Errorf("catalog lookup service_id=%d: %w", line.ServiceID, err)
		}
		if !svc.Available {
			return nil, fmt.Errorf("%w: service_id=%d", ErrServiceUnavailable, line.ServiceID)
		}

		items = append(items, domain.BookingItem{
			ServiceID:   svc.ID,
			ServiceName: svc.Name,
			OwnerID:     svc.OwnerID,
			Quantity:    line.Quantity,
			Price:       svc.Price,
		})
	}

	return items, nil
}

// customerName имя клиента из профиля (или из платежных данных) и синхронизация контактов
func (uc *UseCase) customerName(ctx context.Context, req *Request) (string, error) {
	fallback := strings.TrimSpace(req.Customer.Name)
	if fallback == "" {
		fallback = "#" + strconv.FormatInt(req.Actor.ID, 10)
	}

	user, err := uc.userRepo.GetByID(ctx, req.Actor.ID)
	if errors.Is(err, userRepo.ErrUserNotFound) {
		return fallback, nil
	}
	if err != nil {
		return "", fmt.Errorf("get user: %w", err)
	}

	if req.Customer.SyncProfile {
		name, email, phone, address := contactChanges(user, req.Customer)
		update := userRepo.ContactUpdate{Name: name, Email: email, Phone: phone, Address: address}
		if !update.IsEmpty() {
			if err := uc.userRepo.UpdateContact(ctx, user.ID, update); err != nil {
				return "", fmt.Errorf("sync contacts: %w", err)
			}
			uc.logger.Info("PlaceBooking: synced contact fields for user=%d", user.ID)
			if name != nil {
				return *name, nil
			}
		}
	}

	if user.Name == "" {
		return fallback, nil
	}
	return user.Name, nil
}

func buildResponse(booking *domain.Booking, dropped []int64, notified int) *Response {
	totals := pricing.Compute(pricing.FromItems(booking.Items))

	resp := &Response{
		BookingID:     booking.ID,
		Status:        booking.Status,
		Subtotal:      totals.Subtotal.StringFixed(2),
		Tax:           totals.Tax.StringFixed(2),
		Total:         booking.TotalAmount.StringFixed(2),
		Items:         make([]Item, 0, len(booking.Items)),
		Notifications: notified,
		Dropped:       dropped,
	}

	for _, item := range booking.Items {
		resp.Items = append(resp.Items, Item{
			ServiceID:   item.ServiceID,
			ServiceName: item.ServiceName,
			OwnerID:     item.OwnerID,
			Quantity:    item.Quantity,
			Price:       item.Price.StringFixed(2),
			Subtotal:    item.Subtotal().StringFixed(2),
		})
	}

	return resp
}
