package orders

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/db/models"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/enums"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/pagination"
)

// ErrOrderNotFound is returned when no order matches the id.
var ErrOrderNotFound = errors.New("order not found")

// Repository persists orders and their line items.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts the order together with its line items.
func (r *Repository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("LineItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("id = ?", id).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// List returns orders newest first. The returned cursor points at the last
// row of the page and is nil on the final page.
func (r *Repository) List(ctx context.Context, filters ListFilters, limit int, cursor *pagination.Cursor) ([]models.Order, *pagination.Cursor, error) {
	normalized := pagination.NormalizeLimit(limit)
	query := r.db.WithContext(ctx).Model(&models.Order{}).
		Preload("LineItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		})
	if filters.SessionID != "" {
		query = query.Where("session_id = ?", filters.SessionID)
	}
	if filters.Phone != "" {
		query = query.Where("customer_phone = ?", filters.Phone)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Order
	if err := query.Order("created_at DESC, id DESC").Limit(pagination.LimitWithBuffer(limit)).Find(&rows).Error; err != nil {
		return nil, nil, err
	}
	if len(rows) > normalized {
		rows = rows[:normalized]
		last := rows[normalized-1]
		return rows, &pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}, nil
	}
	return rows, nil, nil
}

// UpdateStatus moves an order from one status to another. It reports false
// when the order was no longer in the expected status.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to enums.OrderStatus, now time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]any{"status": to, "updated_at": now})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// CancelStalePending cancels every order still pending that was created
// before cutoff and returns how many were cancelled.
func (r *Repository) CancelStalePending(ctx context.Context, cutoff, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("status = ? AND created_at < ?", enums.OrderStatusPending, cutoff).
		Updates(map[string]any{"status": enums.OrderStatusCancelled, "updated_at": now})
	return res.RowsAffected, res.Error
}
