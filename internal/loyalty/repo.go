package loyalty

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/db/models"
)

// Repository stores loyalty accounts keyed by phone.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Find returns nil without error for unknown phones.
func (r *Repository) Find(ctx context.Context, phone string) (*models.LoyaltyAccount, error) {
	var row models.LoyaltyAccount
	err := r.db.WithContext(ctx).Where("phone = ?", phone).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// Save inserts or overwrites the account.
func (r *Repository) Save(ctx context.Context, account *models.LoyaltyAccount) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "phone"}},
		UpdateAll: true,
	}).Create(account).Error
}
