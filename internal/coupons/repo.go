package coupons

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/db/models"
)

// ErrUsageExhausted matches a RedeemError for a coupon that hit its usage limit.
var ErrUsageExhausted = errors.New("coupon usage limit reached")

// RedeemError names the coupon Redeem refused and why, using the Reason* values.
type RedeemError struct {
	Code   string
	Reason string
}

func (e *RedeemError) Error() string {
	return fmt.Sprintf("coupon %s not redeemable: %s", e.Code, e.Reason)
}

func (e *RedeemError) Is(target error) bool {
	return target == ErrUsageExhausted && e.Reason == ReasonUsageLimit
}

// Repository persists coupons through gorm.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByCode returns nil without error when no coupon has the code.
func (r *Repository) FindByCode(ctx context.Context, code string) (*Coupon, error) {
	var row models.Coupon
	err := r.db.WithContext(ctx).Where("code = ?", NormalizeCode(code)).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	coupon := fromModel(row)
	return &coupon, nil
}

// Upsert inserts a coupon or updates the rules of the coupon with the same code.
// The usage count of an existing row is preserved.
func (r *Repository) Upsert(ctx context.Context, coupon Coupon) error {
	row := ToModel(coupon)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"description", "discount_type", "discount_value", "min_order_value",
			"max_discount", "is_active", "valid_from", "valid_until", "usage_limit", "updated_at",
		}),
	}).Create(&row).Error
}

// Redeem re-checks each coupon against its current row at now and increments
// its usage count. A coupon that is gone, inactive, outside its validity window
// or out of uses yields a *RedeemError and the caller should roll back.
func (r *Repository) Redeem(ctx context.Context, ids []uuid.UUID, now time.Time) error {
	for _, id := range ids {
		var row models.Coupon
		err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &RedeemError{Code: id.String(), Reason: ReasonNotFound}
		}
		if err != nil {
			return err
		}
		if reason := fromModel(row).ineligibility(now); reason != "" {
			return &RedeemError{Code: row.Code, Reason: reason}
		}

		res := r.db.WithContext(ctx).
			Model(&models.Coupon{}).
			Where("id = ? AND (usage_limit IS NULL OR usage_count < usage_limit)", id).
			Update("usage_count", gorm.Expr("usage_count + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &RedeemError{Code: row.Code, Reason: ReasonUsageLimit}
		}
	}
	return nil
}

// RedeemTx is Redeem bound to tx.
func (r *Repository) RedeemTx(ctx context.Context, tx *gorm.DB, ids []uuid.UUID, now time.Time) error {
	return r.WithTx(tx).Redeem(ctx, ids, now)
}

// DeactivateExpired switches off active coupons whose validity window ended
// before now and returns how many changed.
func (r *Repository) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Coupon{}).
		Where("is_active = ? AND valid_until IS NOT NULL AND valid_until < ?", true, now).
		Updates(map[string]any{"is_active": false, "updated_at": now})
	return res.RowsAffected, res.Error
}
