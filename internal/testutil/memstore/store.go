// Package memstore is an in-memory stand-in for the PostgreSQL repositories,
// used by use-case and handler tests. Transactions are serialized and a failed
// transaction restores the snapshot taken when it began.
package memstore

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/m04kA/SMC-MarketplaceBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-MarketplaceBooking/internal/infra/storage/booking"
	notificationRepo "github.com/m04kA/SMC-MarketplaceBooking/internal/infra/storage/notification"
	userRepo "github.com/m04kA/SMC-MarketplaceBooking/internal/infra/storage/user"
)

// ErrInjected ошибка, подставляемая через Fail* поля
var ErrInjected = errors.New("memstore: injected failure")

type data struct {
	bookings      map[int64]domain.Booking
	items         map[int64][]domain.BookingItem
	history       map[int64][]domain.StatusHistoryEntry
	notifications []domain.Notification
	users         map[int64]domain.User
	nextID        int64
}

func (d *data) clone() *data {
	c := &data{
		bookings:      make(map[int64]domain.Booking, len(d.bookings)),
		items:         make(map[int64][]domain.BookingItem, len(d.items)),
		history:       make(map[int64][]domain.StatusHistoryEntry, len(d.history)),
		notifications: append([]domain.Notification(nil), d.notifications...),
		users:         make(map[int64]domain.User, len(d.users)),
		nextID:        d.nextID,
	}
	for k, v := range d.bookings {
		c.bookings[k] = v
	}
	for k, v := range d.items {
		c.items[k] = append([]domain.BookingItem(nil), v...)
	}
	for k, v := range d.history {
		c.history[k] = append([]domain.StatusHistoryEntry(nil), v...)
	}
	for k, v := range d.users {
		c.users[k] = v
	}
	return c
}

// Store общее состояние всех репозиториев
type Store struct {
	mu   sync.Mutex
	txMu sync.Mutex
	d    *data

	// FailNotificationAt n-й (с 1) вызов создания уведомления завершится ошибкой
	FailNotificationAt int
	// FailHistory каждая запись в историю завершится ошибкой
	FailHistory bool

	notificationCalls int
}

func New() *Store {
	return &Store{d: &data{
		bookings: map[int64]domain.Booking{},
		items:    map[int64][]domain.BookingItem{},
		history:  map[int64][]domain.StatusHistoryEntry{},
		users:    map[int64]domain.User{},
		nextID:   1,
	}}
}

func (s *Store) AddUser(u domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.d.users[u.ID] = u
}

// Counts количество строк: бронирования, позиции, история, уведомления
func (s *Store) Counts() (bookings, items, history, notifications int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.d.items {
		items += len(v)
	}
	for _, v := range s.d.history {
		history += len(v)
	}
	return len(s.d.bookings), items, history, len(s.d.notifications)
}

func (s *Store) Notifications() []domain.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Notification(nil), s.d.notifications...)
}

func (s *Store) History(bookingID int64) []domain.StatusHistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.StatusHistoryEntry(nil), s.d.history[bookingID]...)
}

func (s *Store) User(id int64) (domain.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.d.users[id]
	return u, ok
}

func (s *Store) next() int64 {
	id := s.d.nextID
	s.d.nextID++
	return id
}

// TxManager сериализует транзакции и откатывает состояние при ошибке или панике
type TxManager struct{ s *Store }

func (s *Store) TxManager() *TxManager { return &TxManager{s: s} }

func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) run(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	m.s.txMu.Lock()
	defer m.s.txMu.Unlock()

	m.s.mu.Lock()
	snapshot := m.s.d.clone()
	m.s.mu.Unlock()

	defer func() {
		if p := recover(); p != nil {
			m.restore(snapshot)
			panic(p)
		}
	}()

	if err = fn(ctx); err != nil {
		m.restore(snapshot)
	}
	return err
}

func (m *TxManager) restore(snapshot *data) {
	m.s.mu.Lock()
	m.s.d = snapshot
	m.s.mu.Unlock()
}

// Bookings репозиторий бронирований

type Bookings struct{ s *Store }

func (s *Store) Bookings() *Bookings { return &Bookings{s: s} }

func (r *Bookings) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b.ID = r.s.next()
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	stored := *b
	stored.Items = nil
	r.s.d.bookings[b.ID] = stored
	return b, nil
}

func (r *Bookings) CreateItems(_ context.Context, bookingID int64, items []domain.BookingItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i := range items {
		items[i].ID = r.s.next()
		items[i].BookingID = bookingID
		r.s.d.items[bookingID] = append(r.s.d.items[bookingID], items[i])
	}
	return nil
}

func (r *Bookings) AppendHistory(_ context.Context, entry *domain.StatusHistoryEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.FailHistory {
		return ErrInjected
	}
	entry.ID = r.s.next()
	entry.CreatedAt = time.Now()
	r.s.d.history[entry.BookingID] = append(r.s.d.history[entry.BookingID], *entry)
	return nil
}

func (r *Bookings) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b, ok := r.s.d.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return &b, nil
}

func (r *Bookings) GetItems(_ context.Context, bookingID int64) ([]domain.BookingItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]domain.BookingItem{}, r.s.d.items[bookingID]...), nil
}

func (r *Bookings) GetItemsByBookingIDs(_ context.Context, ids []int64) (map[int64][]domain.BookingItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make(map[int64][]domain.BookingItem, len(ids))
	for _, id := range ids {
		out[id] = append([]domain.BookingItem{}, r.s.d.items[id]...)
	}
	return out, nil
}

func (r *Bookings) GetHistory(_ context.Context, bookingID int64) ([]domain.StatusHistoryEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]domain.StatusHistoryEntry{}, r.s.d.history[bookingID]...), nil
}

func (r *Bookings) UpdateStatus(_ context.Context, id int64, from, to domain.BookingStatus) (time.Time, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b, ok := r.s.d.bookings[id]
	if !ok || b.Status != from {
		return time.Time{}, bookingRepo.ErrStatusConflict
	}
	b.Status = to
	b.UpdatedAt = time.Now()
	r.s.d.bookings[id] = b
	return b.UpdatedAt, nil
}

func (r *Bookings) GetByUserID(_ context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make([]*domain.Booking, 0)
	for _, b := range r.s.d.bookings {
		if b.UserID != userID || (status != nil && b.Status != *status) {
			continue
		}
		b := b
		out = append(out, &b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *Bookings) GetByOwnerWithFilter(_ context.Context, filter domain.OwnerBookingsFilter) ([]*domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make([]*domain.Booking, 0)
	for id, b := range r.s.d.bookings {
		owned := false
		for _, item := range r.s.d.items[id] {
			if item.OwnerID == filter.OwnerID {
				owned = true
				break
			}
		}
		if !owned || (filter.Status != nil && b.Status != *filter.Status) {
			continue
		}
		if filter.StartDate != nil && b.BookingDate.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && b.BookingDate.After(*filter.EndDate) {
			continue
		}
		b := b
		out = append(out, &b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

// NotificationRepo репозиторий уведомлений

type NotificationRepo struct{ s *Store }

func (s *Store) NotificationRepo() *NotificationRepo { return &NotificationRepo{s: s} }

func (r *NotificationRepo) Create(_ context.Context, n *domain.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.notificationCalls++
	if r.s.FailNotificationAt > 0 && r.s.notificationCalls == r.s.FailNotificationAt {
		return ErrInjected
	}
	n.ID = r.s.next()
	n.CreatedAt = time.Now()
	r.s.d.notifications = append(r.s.d.notifications, *n)
	return nil
}

func visible(n domain.Notification, filter domain.NotificationFilter) bool {
	if n.UserID != nil && *n.UserID == filter.UserID {
		return true
	}
	return filter.IncludeOwner && n.OwnerID != nil && *n.OwnerID == filter.UserID
}

func (r *NotificationRepo) List(_ context.Context, filter domain.NotificationFilter) ([]domain.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make([]domain.Notification, 0)
	for i := len(r.s.d.notifications) - 1; i >= 0; i-- {
		n := r.s.d.notifications[i]
		if !visible(n, filter) || (filter.UnreadOnly && n.IsRead) {
			continue
		}
		out = append(out, n)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

func (r *NotificationRepo) CountUnread(_ context.Context, filter domain.NotificationFilter) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	count := 0
	for _, n := range r.s.d.notifications {
		if visible(n, filter) && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *NotificationRepo) MarkRead(_ context.Context, id int64, filter domain.NotificationFilter) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i := range r.s.d.notifications {
		n := &r.s.d.notifications[i]
		if n.ID == id && visible(*n, filter) {
			n.IsRead = true
			return nil
		}
	}
	return notificationRepo.ErrNotificationNotFound
}

func (r *NotificationRepo) MarkAllRead(_ context.Context, filter domain.NotificationFilter) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var changed int64
	for i := range r.s.d.notifications {
		n := &r.s.d.notifications[i]
		if visible(*n, filter) && !n.IsRead {
			n.IsRead = true
			changed++
		}
	}
	return changed, nil
}

// Users репозиторий профилей

type Users struct{ s *Store }

func (s *Store) Users() *Users { return &Users{s: s} }

func (r *Users) GetByID(_ context.Context, id int64) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.d.users[id]
	if !ok {
		return nil, userRepo.ErrUserNotFound
	}
	return &u, nil
}

func (r *Users) ListIDsByRole(_ context.Context, role domain.Role) ([]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	ids := make([]int64, 0)
	for id, u := range r.s.d.users {
		if u.Role == role {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (r *Users) UpdateContact(_ context.Context, id int64, update userRepo.ContactUpdate) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.d.users[id]
	if !ok {
		return userRepo.ErrUserNotFound
	}
	if update.Name != nil {
		u.Name = *update.Name
	}
	if update.Email != nil {
		u.Email = update.Email
	}
	if update.Phone != nil {
		u.Phone = update.Phone
	}
	if update.Address != nil {
		u.Address = update.Address
	}
	r.s.d.users[id] = u
	return nil
}
