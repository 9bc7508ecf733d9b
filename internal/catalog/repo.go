package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/db/models"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/pagination"
)

// ErrProductNotFound is returned when no product matches the requested id.
var ErrProductNotFound = errors.New("product not found")

// ListFilters narrows the product listing. Query is a case-insensitive substring match on the name.
type ListFilters struct {
	CategorySlug  string `json:"category,omitempty"`
	Query         string `json:"q,omitempty"`
	AvailableOnly bool   `json:"available_only,omitempty"`
}

// Repository loads catalog data through gorm.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) ListCategories(ctx context.Context) ([]Category, error) {
	var rows []models.Category
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("position ASC, name ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]Category, 0, len(rows))
	for _, row := range rows {
		out = append(out, categoryFromModel(row))
	}
	return out, nil
}

func (r *Repository) ListProducts(ctx context.Context, filters ListFilters, page pagination.Page) ([]Product, int64, error) {
	filtered := func() *gorm.DB {
		query := r.db.WithContext(ctx).Model(&models.Product{})
		if slug := strings.TrimSpace(filters.CategorySlug); slug != "" {
			query = query.Where("category_id IN (?)",
				r.db.Model(&models.Category{}).Select("id").Where("slug = ?", slug))
		}
		if q := strings.TrimSpace(filters.Query); q != "" {
			query = query.Where(`LOWER(name) LIKE ? ESCAPE '\'`, "%"+escapeLike(strings.ToLower(q))+"%")
		}
		if filters.AvailableOnly {
			query = query.Where("is_available = ?", true)
		}
		return query
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit, offset := page.Offset()
	var rows []models.Product
	if err := preloadCustomizations(filtered()).
		Order("position ASC, name ASC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	out := make([]Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, productFromModel(row))
	}
	return out, total, nil
}

func (r *Repository) GetProduct(ctx context.Context, id uuid.UUID) (*Product, error) {
	var row models.Product
	err := preloadCustomizations(r.db.WithContext(ctx)).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	product := productFromModel(row)
	return &product, nil
}

// ReplaceCatalog swaps the whole catalog for the provided rows. Used by the seeder.
func (r *Repository) ReplaceCatalog(ctx context.Context, categories []models.Category, products []models.Product) error {
	tx := r.db.WithContext(ctx)
	for _, model := range []any{
		&models.CustomizationOption{},
		&models.CustomizationGroup{},
		&models.ProductSize{},
		&models.Product{},
		&models.Category{},
	} {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return err
		}
	}
	if len(categories) > 0 {
		if err := tx.Create(&categories).Error; err != nil {
			return err
		}
	}
	for i := range products {
		if err := tx.Create(&products[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func preloadCustomizations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Sizes", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Groups", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Groups.Options", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") })
}

func escapeLike(value string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(value)
}
