package catalog_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/internal/catalog"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/internal/catalog/catalogtest"
	pkgerrors "github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/errors"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/logger"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/pagination"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/redis"
)

type stubStore struct {
	mu         sync.Mutex
	product    *catalog.Product
	categories []catalog.Category
	err        error
	getCalls   atomic.Int32
	gate       chan struct{}
}

func (s *stubStore) ListCategories(context.Context) ([]catalog.Category, error) {
	return s.categories, s.err
}

func (s *stubStore) ListProducts(context.Context, catalog.ListFilters, pagination.Page) ([]catalog.Product, int64, error) {
	if s.err != nil {
		return nil, 0, s.err
	}
	return []catalog.Product{*s.product}, 1, nil
}

func (s *stubStore) GetProduct(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	s.getCalls.Add(1)
	if s.gate != nil {
		<-s.gate
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	if s.product == nil || s.product.ID != id {
		return nil, catalog.ErrProductNotFound
	}
	p := *s.product
	return &p, nil
}

func newCache(t *testing.T) (*catalog.RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewFromRaw(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = client.Close() })
	return catalog.NewRedisCache(client, time.Minute), mr
}

func TestServiceGetProductReadsThroughCache(t *testing.T) {
	pastel := catalogtest.Pastel()
	store := &stubStore{product: &pastel}
	cache, mr := newCache(t)

	svc, err := catalog.NewService(store, cache, nil, logger.Nop())
	require.NoError(t, err)

	ctx := context.Background()
	first, err := svc.GetProduct(ctx, catalogtest.ProductID)
	require.NoError(t, err)
	assert.Equal(t, "Pastel Gourmet", first.Name)
	assert.True(t, mr.Exists("jc:catalog:product:"+catalogtest.ProductID.String()))

	second, err := svc.GetProduct(ctx, catalogtest.ProductID)
	require.NoError(t, err)
	assert.Equal(t, first.Name, second.Name)
	assert.True(t, second.Price.Equal(catalogtest.D("12.90")))
	require.Len(t, second.Groups, 3)
	assert.EqualValues(t, 1, store.getCalls.Load(), "second read should be served from cache")
}

func TestServiceGetProductDeduplicatesConcurrentMisses(t *testing.T) {
	pastel := catalogtest.Pastel()
	store := &stubStore{product: &pastel, gate: make(chan struct{})}
	svc, err := catalog.NewService(store, nil, nil, logger.Nop())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.GetProduct(context.Background(), catalogtest.ProductID)
			assert.NoError(t, err)
		}()
	}
	require.Eventually(t, func() bool { return store.getCalls.Load() >= 1 }, time.Second, time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	close(store.gate)
	wg.Wait()

	assert.EqualValues(t, 1, store.getCalls.Load())
}

func TestServiceGetProductErrors(t *testing.T) {
	pastel := catalogtest.Pastel()
	store := &stubStore{product: &pastel}
	svc, err := catalog.NewService(store, nil, nil, logger.Nop())
	require.NoError(t, err)

	_, err = svc.GetProduct(context.Background(), uuid.New())
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))

	_, err = svc.GetProduct(context.Background(), uuid.Nil)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	store.err = errors.New("connection reset")
	_, err = svc.GetProduct(context.Background(), catalogtest.ProductID)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeDependency))
}

func TestServiceFallsBackWhenCacheIsDown(t *testing.T) {
	pastel := catalogtest.Pastel()
	store := &stubStore{product: &pastel, categories: []catalog.Category{{Name: "Salgados", Slug: "salgados"}}}
	cache, mr := newCache(t)
	svc, err := catalog.NewService(store, cache, nil, logger.Nop())
	require.NoError(t, err)

	mr.Close()

	product, err := svc.GetProduct(context.Background(), catalogtest.ProductID)
	require.NoError(t, err)
	assert.Equal(t, catalogtest.ProductID, product.ID)

	categories, err := svc.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Len(t, categories, 1)
}

func TestServiceListProductsPageMetadata(t *testing.T) {
	pastel := catalogtest.Pastel()
	svc, err := catalog.NewService(&stubStore{product: &pastel}, nil, nil, logger.Nop())
	require.NoError(t, err)

	page, err := svc.ListProducts(context.Background(), catalog.ListFilters{}, pagination.Page{Limit: 500})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, pagination.MaxLimit, page.Limit)
	assert.EqualValues(t, 1, page.Total)
}

func TestNewServiceRequiresRepository(t *testing.T) {
	_, err := catalog.NewService(nil, nil, nil, logger.Nop())
	assert.Error(t, err)
}
