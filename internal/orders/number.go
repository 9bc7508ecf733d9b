package orders

import (
	"context"
	"fmt"
	"time"
)

// storeZone is the shop's local time (UTC-3) used to roll order numbers daily.
var storeZone = time.FixedZone("BRT", -3*60*60)

const numberCounterTTL = 48 * time.Hour

type counter interface {
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
	CounterKey(name string) string
}

// NumberGenerator hands out human readable order numbers such as JC-20260402-0007.
// The sequence restarts every local day.
type NumberGenerator struct {
	counter counter
	now     func() time.Time
}

func NewNumberGenerator(c counter) *NumberGenerator {
	return &NumberGenerator{counter: c, now: time.Now}
}

func (g *NumberGenerator) Next(ctx context.Context) (string, error) {
	day := g.now().In(storeZone).Format("20060102")
	seq, err := g.counter.IncrWithTTL(ctx, g.counter.CounterKey("order_number:"+day), numberCounterTTL)
	if err != nil {
		return "", fmt.Errorf("next order number: %w", err)
	}
	return fmt.Sprintf("JC-%s-%04d", day, seq), nil
}
