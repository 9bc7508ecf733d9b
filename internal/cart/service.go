package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"

	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/internal/catalog"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/internal/selection"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/config"
	pkgerrors "github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/errors"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/logger"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/metrics"
)

// PersistenceWarning is set on a View when the mutation succeeded but the
// snapshot could not be saved.
const PersistenceWarning = "cart changes could not be saved and may be lost on reload"

const maxSessionIDLength = 128

// Service exposes per-session cart operations to the API.
type Service interface {
	Get(ctx context.Context, sessionID string) (*View, error)
	AddItem(ctx context.Context, sessionID string, input AddItemInput) (*View, error)
	UpdateQuantity(ctx context.Context, sessionID string, itemID uuid.UUID, quantity int) (*View, error)
	RemoveItem(ctx context.Context, sessionID string, itemID uuid.UUID) (*View, error)
	Clear(ctx context.Context, sessionID string) (*View, error)
	ApplyCoupon(ctx context.Context, sessionID, code string) (*View, error)
	RemoveCoupon(ctx context.Context, sessionID string, couponID uuid.UUID) (*View, error)
	// Checkout runs place with the session's cart while holding the session
	// lock and clears the cart when place succeeds.
	Checkout(ctx context.Context, sessionID string, place func(ctx context.Context, c *Cart, totals Totals) error) (*View, error)
}

// AddItemInput is the API-level add request.
type AddItemInput struct {
	ProductID  uuid.UUID
	SizeID     *uuid.UUID
	Selections []selection.Selection
	Quantity   int
	Notes      string
}

// View is the cart as rendered to clients.
type View struct {
	SessionID          string          `json:"session_id"`
	Items              []LineItem      `json:"items"`
	AppliedCoupons     []AppliedCoupon `json:"applied_coupons"`
	Totals             Totals          `json:"totals"`
	PersistenceWarning string          `json:"persistence_warning,omitempty"`
}

type snapshotStore interface {
	Load(ctx context.Context, sessionID string) (*Snapshot, error)
	Save(ctx context.Context, snap Snapshot) error
}

type productGetter interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*catalog.Product, error)
}

type service struct {
	store     snapshotStore
	products  productGetter
	validator CouponValidator
	policy    DeliveryPolicy
	attempts  uint64
	baseDelay time.Duration
	locks     *sessionLocks
	metrics   *metrics.StorefrontMetrics
	logg      *logger.Logger
	opts      []Option
}

// NewService builds the cart service.
func NewService(store snapshotStore, products productGetter, validator CouponValidator, cfg config.CartConfig, m *metrics.StorefrontMetrics, logg *logger.Logger) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("cart snapshot store required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if validator == nil {
		return nil, fmt.Errorf("coupon validator required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	attempts := cfg.PersistAttempts
	if attempts == 0 {
		attempts = 1
	}
	baseDelay := cfg.PersistBaseDelay
	if baseDelay <= 0 {
		baseDelay = 10 * time.Millisecond
	}
	return &service{
		store:     store,
		products:  products,
		validator: validator,
		policy:    PolicyFromConfig(cfg),
		attempts:  attempts,
		baseDelay: baseDelay,
		locks:     newSessionLocks(),
		metrics:   m,
		logg:      logg,
	}, nil
}

func (s *service) Get(ctx context.Context, sessionID string) (*View, error) {
	sessionID, err := normalizeSession(sessionID)
	if err != nil {
		return nil, err
	}
	unlock := s.locks.Lock(sessionID)
	defer unlock()

	ctx = s.logg.WithSessionID(ctx, sessionID)
	c, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.view(sessionID, c, ""), nil
}

func (s *service) AddItem(ctx context.Context, sessionID string, input AddItemInput) (*View, error) {
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	return s.mutate(ctx, sessionID, "add_item", func(ctx context.Context, c *Cart) error {
		product, err := s.products.GetProduct(ctx, input.ProductID)
		if err != nil {
			return err
		}
		_, err = c.AddItem(*product, AddOptions{
			SizeID:     input.SizeID,
			Selections: input.Selections,
			Quantity:   input.Quantity,
			Notes:      input.Notes,
		})
		return err
	})
}

func (s *service) UpdateQuantity(ctx context.Context, sessionID string, itemID uuid.UUID, quantity int) (*View, error) {
	return s.mutate(ctx, sessionID, "update_quantity", func(_ context.Context, c *Cart) error {
		c.UpdateQuantity(itemID, quantity)
		return nil
	})
}

func (s *service) RemoveItem(ctx context.Context, sessionID string, itemID uuid.UUID) (*View, error) {
	return s.mutate(ctx, sessionID, "remove_item", func(_ context.Context, c *Cart) error {
		c.RemoveItem(itemID)
		return nil
	})
}

func (s *service) Clear(ctx context.Context, sessionID string) (*View, error) {
	return s.mutate(ctx, sessionID, "clear", func(_ context.Context, c *Cart) error {
		c.Clear()
		return nil
	})
}

func (s *service) ApplyCoupon(ctx context.Context, sessionID, code string) (*View, error) {
	return s.mutate(ctx, sessionID, "apply_coupon", func(ctx context.Context, c *Cart) error {
		_, err := c.ApplyCoupon(ctx, code, s.validator)
		return err
	})
}

func (s *service) RemoveCoupon(ctx context.Context, sessionID string, couponID uuid.UUID) (*View, error) {
	return s.mutate(ctx, sessionID, "remove_coupon", func(_ context.Context, c *Cart) error {
		c.RemoveCoupon(couponID)
		return nil
	})
}

func (s *service) Checkout(ctx context.Context, sessionID string, place func(ctx context.Context, c *Cart, totals Totals) error) (*View, error) {
	return s.mutate(ctx, sessionID, "checkout", func(ctx context.Context, c *Cart) error {
		if c.IsEmpty() {
			return pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty")
		}
		if err := place(ctx, c, c.Totals(s.policy)); err != nil {
			return err
		}
		c.Clear()
		return nil
	})
}

// mutate runs fn against the session's cart under the session lock and
// persists the result. A failed fn leaves the stored snapshot untouched.
func (s *service) mutate(ctx context.Context, sessionID, op string, fn func(ctx context.Context, c *Cart) error) (*View, error) {
	sessionID, err := normalizeSession(sessionID)
	if err != nil {
		return nil, err
	}
	unlock := s.locks.Lock(sessionID)
	defer unlock()

	ctx = s.logg.WithFields(s.logg.WithSessionID(ctx, sessionID), map[string]any{"cart_op": op})
	c, err := s.load(ctx, sessionID)
	if err != nil {
		s.metrics.IncCartMutation(op, metrics.ResultError)
		return nil, err
	}

	if err := fn(ctx, c); err != nil {
		result := metrics.ResultRejected
		if pkgerrors.IsRetryable(err) {
			result = metrics.ResultError
		}
		s.metrics.IncCartMutation(op, result)
		return nil, err
	}

	warning := s.persist(ctx, sessionID, c)
	s.metrics.IncCartMutation(op, metrics.ResultOK)
	return s.view(sessionID, c, warning), nil
}

// load rehydrates the session cart. A missing or unreadable snapshot starts an
// empty cart; a store failure is a dependency error.
func (s *service) load(ctx context.Context, sessionID string) (*Cart, error) {
	snap, err := s.store.Load(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrUnsupportedSnapshot) {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "discarding unreadable cart snapshot")
			return New(s.opts...), nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if snap == nil {
		return New(s.opts...), nil
	}
	c, err := FromSnapshot(*snap, s.opts...)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "snapshot_version", snap.Version), "discarding cart snapshot with unknown version")
		return New(s.opts...), nil
	}
	return c, nil
}

// persist saves the snapshot with exponential backoff and returns a warning
// when every attempt failed.
func (s *service) persist(ctx context.Context, sessionID string, c *Cart) string {
	snap := c.Snapshot(sessionID)
	backoff := retry.WithMaxRetries(s.attempts-1, retry.NewExponential(s.baseDelay))

	start := time.Now()
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := s.store.Save(ctx, snap); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	s.metrics.ObservePersist(time.Since(start), err == nil)
	if err != nil {
		s.logg.Error(ctx, "cart snapshot not persisted", err)
		return PersistenceWarning
	}
	return ""
}

func (s *service) view(sessionID string, c *Cart, warning string) *View {
	return &View{
		SessionID:          sessionID,
		Items:              c.Items(),
		AppliedCoupons:     c.AppliedCoupons(),
		Totals:             c.Totals(s.policy),
		PersistenceWarning: warning,
	}
}

func normalizeSession(sessionID string) (string, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "cart session is required")
	}
	if len(sessionID) > maxSessionIDLength || strings.ContainsAny(sessionID, ": \t\n") {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "cart session is invalid")
	}
	return sessionID, nil
}
