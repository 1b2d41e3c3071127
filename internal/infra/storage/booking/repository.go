package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-MarketplaceBooking/internal/domain"
	"github.com/m04kA/SMC-MarketplaceBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-MarketplaceBooking/pkg/psqlbuilder"
)

var bookingColumns = []string{
	"id",
	"user_id",
	"total_amount",
	"status",
	"booking_date",
	"booking_time",
	"billing_name",
	"billing_email",
	"billing_phone",
	"billing_address",
	"payment_method",
	"special_requests",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями, позициями и историей статусов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает заголовок бронирования.
// Вызывается внутри транзакции оформления вместе с CreateItems и AppendHistory.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"user_id",
			"total_amount",
			"status",
			"booking_date",
			"booking_time",
			"billing_name",
			"billing_email",
			"billing_phone",
			"billing_address",
			"payment_method",
			"special_requests",
		).
		Values(
			booking.UserID,
			booking.TotalAmount,
			booking.Status,
			booking.BookingDate,
			booking.BookingTime,
			booking.BillingName,
			booking.BillingEmail,
			booking.BillingPhone,
			booking.BillingAddress,
			booking.PaymentMethod,
			booking.SpecialRequests,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", execError(err), err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// CreateItems вставляет позиции бронирования одним запросом, проставляя ID и BookingID
func (r *Repository) CreateItems(ctx context.Context, bookingID int64, items []domain.BookingItem) error {
	if len(items) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	insert := psqlbuilder.Insert("booking_items").
		Columns("booking_id", "service_id", "service_name", "owner_id", "quantity", "price")
	for _, item := range items {
		insert = insert.Values(bookingID, item.ServiceID, item.ServiceName, item.OwnerID, item.Quantity, item.Price)
	}

	query, args, err := insert.Suffix("RETURNING id").ToSql()
	if err != nil {
		return fmt.Errorf("%w: CreateItems - build insert query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: CreateItems - execute insert: %v", execError(err), err)
	}
	defer rows.Close()

	// PostgreSQL возвращает RETURNING в порядке VALUES
	i := 0
	for rows.Next() {
		if i >= len(items) {
			return fmt.Errorf("%w: CreateItems - more ids than items", ErrScanRow)
		}
		if err := rows.Scan(&items[i].ID); err != nil {
			return fmt.Errorf("%w: CreateItems - scan id: %v", ErrScanRow, err)
		}
		items[i].BookingID = bookingID
		i++
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: CreateItems - rows error: %v", execError(err), err)
	}
	if i != len(items) {
		return fmt.Errorf("%w: CreateItems - inserted %d of %d items", ErrExecQuery, i, len(items))
	}

	return nil
}

// AppendHistory добавляет запись в журнал статусов (только вставка, записи не изменяются)
func (r *Repository) AppendHistory(ctx context.Context, entry *domain.StatusHistoryEntry) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("booking_status_history").
		Columns("booking_id", "status", "notes", "changed_by").
		Values(entry.BookingID, entry.Status, entry.Notes, entry.ChangedBy).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: AppendHistory - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&entry.ID, &entry.CreatedAt); err != nil {
		return fmt.Errorf("%w: AppendHistory - execute insert: %v", execError(err), err)
	}

	return nil
}

// GetByID получает заголовок бронирования по ID.
// В транзакции строка блокируется (FOR UPDATE): так движок переходов
// перепроверяет статус непосредственно перед обновлением.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// GetItems позиции бронирования в порядке вставки
func (r *Repository) GetItems(ctx context.Context, bookingID int64) ([]domain.BookingItem, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "booking_id", "service_id", "service_name", "owner_id", "quantity", "price").
		From("booking_items").
		Where(squirrel.Eq{"booking_id": bookingID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetItems - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetItems - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	items := make([]domain.BookingItem, 0)
	for rows.Next() {
		var item domain.BookingItem
		if err := rows.Scan(
			&item.ID,
			&item.BookingID,
			&item.ServiceID,
			&item.ServiceName,
			&item.OwnerID,
			&item.Quantity,
			&item.Price,
		); err != nil {
			return nil, fmt.Errorf("%w: GetItems - scan item: %v", ErrScanRow, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetItems - rows error: %v", ErrScanRow, err)
	}

	return items, nil
}

// GetItemsByBookingIDs позиции нескольких бронирований одним запросом, сгруппированные по booking_id
func (r *Repository) GetItemsByBookingIDs(ctx context.Context, bookingIDs []int64) (map[int64][]domain.BookingItem, error) {
	result := make(map[int64][]domain.BookingItem, len(bookingIDs))
	if len(bookingIDs) == 0 {
		return result, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "booking_id", "service_id", "service_name", "owner_id", "quantity", "price").
		From("booking_items").
		Where(squirrel.Eq{"booking_id": bookingIDs}).
		OrderBy("booking_id ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetItemsByBookingIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetItemsByBookingIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.BookingItem
		if err := rows.Scan(
			&item.ID,
			&item.BookingID,
			&item.ServiceID,
			&item.ServiceName,
			&item.OwnerID,
			&item.Quantity,
			&item.Price,
		); err != nil {
			return nil, fmt.Errorf("%w: GetItemsByBookingIDs - scan item: %v", ErrScanRow, err)
		}
		result[item.BookingID] = append(result[item.BookingID], item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetItemsByBookingIDs - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

// GetHistory журнал статусов в хронологическом порядке
func (r *Repository) GetHistory(ctx context.Context, bookingID int64) ([]domain.StatusHistoryEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "booking_id", "status", "notes", "changed_by", "created_at").
		From("booking_status_history").
		Where(squirrel.Eq{"booking_id": bookingID}).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetHistory - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetHistory - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	history := make([]domain.StatusHistoryEntry, 0)
	for rows.Next() {
		var entry domain.StatusHistoryEntry
		var notes sql.NullString
		var changedBy sql.NullInt64
		if err := rows.Scan(&entry.ID, &entry.BookingID, &entry.Status, &notes, &changedBy, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: GetHistory - scan entry: %v", ErrScanRow, err)
		}
		if notes.Valid {
			entry.Notes = &notes.String
		}
		if changedBy.Valid {
			entry.ChangedBy = &changedBy.Int64
		}
		history = append(history, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetHistory - rows error: %v", ErrScanRow, err)
	}

	return history, nil
}

// UpdateStatus переводит бронирование из from в to (compare-and-set по статусу)
// и возвращает новое значение updated_at.
// Если статус уже не from, возвращает ErrStatusConflict.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus) (time.Time, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", to).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": from}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	var updatedAt time.Time
	err = executor.QueryRowContext(ctx, query, args...).Scan(&updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, ErrStatusConflict
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: UpdateStatus - execute update: %v", execError(err), err)
	}

	return updatedAt, nil
}

// GetByUserID получает список бронирований клиента
// Опционально фильтрует по статусу
func (r *Repository) GetByUserID(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("booking_date DESC", "booking_time DESC", "id DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// GetByOwnerWithFilter бронирования, в которых есть хотя бы одна услуга владельца
//
// Примеры:
//
//	filter := domain.OwnerBookingsFilter{OwnerID: 7}
//	status := domain.StatusPending
//	filter := domain.OwnerBookingsFilter{OwnerID: 7, Status: &status, StartDate: &from}
func (r *Repository) GetByOwnerWithFilter(ctx context.Context, filter domain.OwnerBookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Expr("id IN (SELECT booking_id FROM booking_items WHERE owner_id = ?)", filter.OwnerID))

	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"booking_date": *filter.StartDate})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"booking_date": *filter.EndDate})
	}
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	}

	selectBuilder = selectBuilder.OrderBy("booking_date DESC", "booking_time DESC", "id DESC")

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByOwnerWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByOwnerWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var specialRequests sql.NullString
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.UserID,
		&booking.TotalAmount,
		&booking.Status,
		&booking.BookingDate,
		&booking.BookingTime,
		&booking.BillingName,
		&booking.BillingEmail,
		&booking.BillingPhone,
		&booking.BillingAddress,
		&booking.PaymentMethod,
		&specialRequests,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if specialRequests.Valid {
		booking.SpecialRequests = &specialRequests.String
	}
	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}
