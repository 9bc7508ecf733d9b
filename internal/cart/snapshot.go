package cart

import (
	"errors"
	"fmt"
	"time"
)

// SnapshotVersion is the only snapshot layout FromSnapshot accepts.
const SnapshotVersion = 1

// ErrUnsupportedSnapshot is returned for snapshots written with another layout.
var ErrUnsupportedSnapshot = errors.New("unsupported cart snapshot version")

// Snapshot is the persisted form of a cart.
type Snapshot struct {
	Version        int             `json:"version"`
	SessionID      string          `json:"session_id"`
	Items          []LineItem      `json:"items"`
	AppliedCoupons []AppliedCoupon `json:"applied_coupons"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// Snapshot captures the cart for sessionID.
func (c *Cart) Snapshot(sessionID string) Snapshot {
	return Snapshot{
		Version:        SnapshotVersion,
		SessionID:      sessionID,
		Items:          c.Items(),
		AppliedCoupons: c.AppliedCoupons(),
		UpdatedAt:      c.now().UTC(),
	}
}

// FromSnapshot rehydrates a cart. Line prices are taken as stored; coupon
// discounts are recomputed against the restored subtotal.
func FromSnapshot(s Snapshot, opts ...Option) (*Cart, error) {
	if s.Version != SnapshotVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedSnapshot, s.Version)
	}
	c := New(opts...)
	c.items = append([]LineItem(nil), s.Items...)
	c.coupons = append([]AppliedCoupon(nil), s.AppliedCoupons...)
	c.recompute()
	return c, nil
}
