package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-MarketplaceBooking/internal/domain"
	"github.com/m04kA/SMC-MarketplaceBooking/internal/integrations/catalogservice"
	"github.com/m04kA/SMC-MarketplaceBooking/internal/service/cart/models"
	"github.com/m04kA/SMC-MarketplaceBooking/internal/service/pricing"
)

// Service сборка позиций из корзины или прямого запроса и изменение корзины
type Service struct {
	repo    Repository
	catalog CatalogClient
	logger  Logger
}

func NewService(repo Repository, catalog CatalogClient, logger Logger) *Service {
	return &Service{
		repo:    repo,
		catalog: catalog,
		logger:  logger,
	}
}

// ResolveCart разрешает сохранённую корзину по текущему каталогу.
// Неизвестные и недоступные услуги пропускаются; если не осталось ничего, ErrEmptyCart.
func (s *Service) ResolveCart(ctx context.Context, sessionID string) (*models.Resolved, error) {
	resolved, err := s.resolve(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(resolved.Lines) == 0 {
		return nil, ErrEmptyCart
	}
	return resolved, nil
}

// ResolveDirect одна позиция прямого бронирования; недоступная услуга отклоняет весь запрос
func (s *Service) ResolveDirect(ctx context.Context, serviceID int64, quantity int) (*models.Resolved, error) {
	if serviceID <= 0 {
		return nil, fmt.Errorf("%w: service_id must be positive", ErrInvalidInput)
	}
	if !domain.ValidQuantity(quantity) {
		return nil, fmt.Errorf("%w: quantity must be between %d and %d", ErrInvalidInput, domain.MinQuantity, domain.MaxQuantity)
	}

	svc, err := s.lookup(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if !svc.Available {
		return nil, fmt.Errorf("%w: service_id=%d", ErrServiceUnavailable, serviceID)
	}

	line := newLine(svc, quantity)
	resolved := &models.Resolved{Lines: []models.ResolvedLine{line}}
	resolved.Totals = pricing.Compute(resolved.PricingLines())

	return resolved, nil
}

// Get корзина для отображения; пустая корзина не ошибка
func (s *Service) Get(ctx context.Context, sessionID string) (*models.Resolved, error) {
	return s.resolve(ctx, sessionID)
}

// Add добавляет услугу или увеличивает количество существующей строки
func (s *Service) Add(ctx context.Context, sessionID string, serviceID int64, quantity int) (*models.Resolved, error) {
	if serviceID <= 0 {
		return nil, fmt.Errorf("%w: service_id must be positive", ErrInvalidInput)
	}
	if !domain.ValidQuantity(quantity) {
		return nil, fmt.Errorf("%w: quantity must be between %d and %d", ErrInvalidInput, domain.MinQuantity, domain.MaxQuantity)
	}

	svc, err := s.lookup(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if !svc.Available {
		return nil, fmt.Errorf("%w: service_id=%d", ErrServiceUnavailable, serviceID)
	}

	return s.mutate(ctx, sessionID, func(c *domain.Cart) error {
		return c.Add(serviceID, quantity)
	})
}

// Update задаёт количество существующей строки
func (s *Service) Update(ctx context.Context, sessionID string, serviceID int64, quantity int) (*models.Resolved, error) {
	return s.mutate(ctx, sessionID, func(c *domain.Cart) error {
		return c.Update(serviceID, quantity)
	})
}

// Remove удаляет строку
func (s *Service) Remove(ctx context.Context, sessionID string, serviceID int64) (*models.Resolved, error) {
	return s.mutate(ctx, sessionID, func(c *domain.Cart) error {
		return c.Remove(serviceID)
	})
}

// Clear очищает корзину
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	if err := s.repo.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("%w: Clear - %v", ErrStorage, err)
	}
	return nil
}

func (s *Service) mutate(ctx context.Context, sessionID string, fn func(c *domain.Cart) error) (*models.Resolved, error) {
	cart, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: load cart: %v", ErrStorage, err)
	}

	if err := fn(cart); err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidQuantity):
			return nil, fmt.Errorf("%w: quantity must be between %d and %d", ErrInvalidInput, domain.MinQuantity, domain.MaxQuantity)
		case errors.Is(err, domain.ErrCartLineNotFound):
			return nil, ErrLineNotFound
		default:
			return nil, err
		}
	}

	if err := s.repo.Save(ctx, sessionID, cart); err != nil {
		return nil, fmt.Errorf("%w: save cart: %v", ErrStorage, err)
	}

	return s.resolveLines(ctx, cart.Lines)
}

func (s *Service) resolve(ctx context.Context, sessionID string) (*models.Resolved, error) {
	cart, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: load cart: %v", ErrStorage, err)
	}
	return s.resolveLines(ctx, cart.Lines)
}

func (s *Service) resolveLines(ctx context.Context, lines []domain.CartLine) (*models.Resolved, error) {
	resolved := &models.Resolved{Lines: make([]models.ResolvedLine, 0, len(lines))}

	for _, line := range lines {
		if !domain.ValidQuantity(line.Quantity) {
			s.logger.Warn("cart line service_id=%d has invalid quantity %d, dropped", line.ServiceID, line.Quantity)
			resolved.Dropped = append(resolved.Dropped, line.ServiceID)
			continue
		}

		svc, err := s.lookup(ctx, line.ServiceID)
		if errors.Is(err, ErrServiceNotFound) {
			s.logger.Info("cart line service_id=%d not in catalog, dropped", line.ServiceID)
			resolved.Dropped = append(resolved.Dropped, line.ServiceID)
			continue
		}
		if err != nil {
			return nil, err
		}
		if !svc.Available {
			s.logger.Info("cart line service_id=%d unavailable, dropped", line.ServiceID)
			resolved.Dropped = append(resolved.Dropped, line.ServiceID)
			continue
		}

		resolved.Lines = append(resolved.Lines, newLine(svc, line.Quantity))
	}

	resolved.Totals = pricing.Compute(resolved.PricingLines())
	return resolved, nil
}

func (s *Service) lookup(ctx context.Context, serviceID int64) (*catalogservice.Service, error) {
	svc, err := s.catalog.GetService(ctx, serviceID)
	if errors.Is(err, catalogservice.ErrServiceNotFound) {
		return nil, fmt.Errorf("%w: service_id=%d", ErrServiceNotFound, serviceID)
	}
	if err != nil {
		s.logger.Error("catalog lookup failed for service_id=%d: %v", serviceID, err)
		return nil, fmt.Errorf("%w: service_id=%d: %v", ErrCatalog, serviceID, err)
	}
	return svc, nil
}

func newLine(svc *catalogservice.Service, quantity int) models.ResolvedLine {
	return models.ResolvedLine{
		ServiceID:   svc.ID,
		ServiceName: svc.Name,
		OwnerID:     svc.OwnerID,
		Quantity:    quantity,
		Price:       svc.Price,
		Subtotal:    svc.Price.Mul(decimal.NewFromInt(int64(quantity))),
	}
}
