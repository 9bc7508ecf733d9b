package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	pkgerrors "github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/errors"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/logger"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/metrics"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/pagination"
)

// Service exposes catalog reads to the API and to the cart.
type Service interface {
	ListCategories(ctx context.Context) ([]Category, error)
	ListProducts(ctx context.Context, filters ListFilters, page pagination.Page) (*ProductPage, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*Product, error)
}

// ProductPage is one page of the product listing.
type ProductPage struct {
	Products []Product `json:"products"`
	Total    int64     `json:"total"`
	Page     int       `json:"page"`
	Limit    int       `json:"limit"`
}

type store interface {
	ListCategories(ctx context.Context) ([]Category, error)
	ListProducts(ctx context.Context, filters ListFilters, page pagination.Page) ([]Product, int64, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*Product, error)
}

type productCache interface {
	GetProduct(ctx context.Context, id string) (*Product, error)
	SetProduct(ctx context.Context, product *Product) error
	GetCategories(ctx context.Context) ([]Category, error)
	SetCategories(ctx context.Context, categories []Category) error
}

type service struct {
	repo    store
	cache   productCache
	metrics *metrics.StorefrontMetrics
	logg    *logger.Logger
	flight  singleflight.Group
}

// NewService builds a catalog service. cache may be nil, reads then always hit the repository.
func NewService(repo store, cache productCache, m *metrics.StorefrontMetrics, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:    repo,
		cache:   cache,
		metrics: m,
		logg:    logg,
	}, nil
}

func (s *service) ListCategories(ctx context.Context) ([]Category, error) {
	v, err, _ := s.flight.Do("categories", func() (any, error) {
		if s.cache != nil {
			categories, err := s.cache.GetCategories(ctx)
			if err == nil {
				s.metrics.IncCatalogCache(metrics.CacheHit)
				return categories, nil
			}
			s.noteCacheError(ctx, "categories", err)
		}

		categories, err := s.repo.ListCategories(ctx)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
		}
		if s.cache != nil {
			if err := s.cache.SetCategories(ctx, categories); err != nil {
				s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "catalog cache write failed")
			}
		}
		return categories, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]Category), nil
}

func (s *service) ListProducts(ctx context.Context, filters ListFilters, page pagination.Page) (*ProductPage, error) {
	products, total, err := s.repo.ListProducts(ctx, filters, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	limit, _ := page.Offset()
	number := page.Number
	if number < 1 {
		number = 1
	}
	return &ProductPage{
		Products: products,
		Total:    total,
		Page:     number,
		Limit:    limit,
	}, nil
}

// GetProduct reads through the cache. Concurrent misses for one id share a
// single repository call.
func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*Product, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	key := id.String()
	v, err, _ := s.flight.Do("product:"+key, func() (any, error) {
		if s.cache != nil {
			product, err := s.cache.GetProduct(ctx, key)
			if err == nil {
				s.metrics.IncCatalogCache(metrics.CacheHit)
				return product, nil
			}
			s.noteCacheError(ctx, key, err)
		}

		product, err := s.repo.GetProduct(ctx, id)
		if errors.Is(err, ErrProductNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}
		if s.cache != nil {
			if err := s.cache.SetProduct(ctx, product); err != nil {
				s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "catalog cache write failed")
			}
		}
		return product, nil
	})
	if err != nil {
		return nil, err
	}
	product := *v.(*Product)
	return &product, nil
}

func (s *service) noteCacheError(ctx context.Context, key string, err error) {
	if errors.Is(err, ErrCacheMiss) {
		s.metrics.IncCatalogCache(metrics.CacheMiss)
		return
	}
	s.metrics.IncCatalogCache(metrics.ResultError)
	ctx = s.logg.WithFields(ctx, map[string]any{"key": key, "error": err.Error()})
	s.logg.Warn(ctx, "catalog cache read failed, falling back to database")
}
