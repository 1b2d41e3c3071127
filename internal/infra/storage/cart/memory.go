package cart

import (
	"context"
	"sync"
	"time"

	"github.com/m04kA/SMC-MarketplaceBooking/internal/domain"
)

type memoryEntry struct {
	lines     []domain.CartLine
	expiresAt time.Time
}

// MemoryRepository корзины в памяти процесса; для одного инстанса и тестов
type MemoryRepository struct {
	mu    sync.Mutex
	carts map[string]memoryEntry
	ttl   time.Duration
	now   func() time.Time
}

func NewMemoryRepository(ttl time.Duration) *MemoryRepository {
	return &MemoryRepository{
		carts: make(map[string]memoryEntry),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (r *MemoryRepository) Get(_ context.Context, sessionID string) (*domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.carts[sessionID]
	if !ok {
		return &domain.Cart{}, nil
	}
	if r.now().After(entry.expiresAt) {
		delete(r.carts, sessionID)
		return &domain.Cart{}, nil
	}

	// копия, чтобы вызывающий не менял хранимое состояние без Save
	lines := make([]domain.CartLine, len(entry.lines))
	copy(lines, entry.lines)
	return &domain.Cart{Lines: lines}, nil
}

func (r *MemoryRepository) Save(_ context.Context, sessionID string, cart *domain.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cart.IsEmpty() {
		delete(r.carts, sessionID)
		return nil
	}

	lines := make([]domain.CartLine, len(cart.Lines))
	copy(lines, cart.Lines)
	r.carts[sessionID] = memoryEntry{lines: lines, expiresAt: r.now().Add(r.ttl)}
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.carts, sessionID)
	return nil
}
