package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels shared by the storefront counters.
const (
	ResultOK       = "ok"
	ResultRejected = "rejected"
	ResultError    = "error"

	CacheHit  = "hit"
	CacheMiss = "miss"
)

// StorefrontMetrics records cart, coupon, catalog cache and checkout activity.
// A nil *StorefrontMetrics is valid and records nothing.
type StorefrontMetrics struct {
	cartMutations   *prometheus.CounterVec
	persistDuration *prometheus.HistogramVec
	persistFailures prometheus.Counter
	coupons         *prometheus.CounterVec
	catalogCache    *prometheus.CounterVec
	checkouts       *prometheus.CounterVec
	jobRuns         *prometheus.CounterVec
	jobDuration     *prometheus.HistogramVec
}

// NewStorefrontMetrics registers the storefront metrics on the provided registerer.
func NewStorefrontMetrics(reg prometheus.Registerer) *StorefrontMetrics {
	if reg == nil {
		return &StorefrontMetrics{}
	}
	cartMutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutations_total",
		Help: "Cart mutations by operation and result.",
	}, []string{"op", "result"})
	persistDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cart_persist_duration_seconds",
		Help:    "Time spent persisting cart snapshots, retries included.",
		Buckets: prometheus.DefBuckets,
	}, []string{"result"})
	persistFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cart_persist_failures_total",
		Help: "Cart snapshots that could not be persisted after all retries.",
	})
	coupons := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "coupon_validations_total",
		Help: "Coupon validations by result.",
	}, []string{"result"})
	catalogCache := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_cache_requests_total",
		Help: "Catalog cache lookups by result.",
	}, []string{"result"})
	checkouts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkouts_total",
		Help: "Checkout attempts by result.",
	}, []string{"result"})
	jobRuns := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "maintenance_job_runs_total",
		Help: "Maintenance job executions by job and result.",
	}, []string{"job", "result"})
	jobDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "maintenance_job_duration_seconds",
		Help:    "Duration of maintenance jobs in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"job"})
	reg.MustRegister(cartMutations, persistDuration, persistFailures, coupons, catalogCache, checkouts, jobRuns, jobDuration)
	return &StorefrontMetrics{
		cartMutations:   cartMutations,
		persistDuration: persistDuration,
		persistFailures: persistFailures,
		coupons:         coupons,
		catalogCache:    catalogCache,
		checkouts:       checkouts,
		jobRuns:         jobRuns,
		jobDuration:     jobDuration,
	}
}

// IncCartMutation counts a cart mutation for op with the given result.
func (m *StorefrontMetrics) IncCartMutation(op, result string) {
	if m == nil || m.cartMutations == nil {
		return
	}
	m.cartMutations.WithLabelValues(normalizeLabel(op), normalizeLabel(result)).Inc()
}

// ObservePersist records a snapshot write and counts it as failed when ok is false.
func (m *StorefrontMetrics) ObservePersist(duration time.Duration, ok bool) {
	if m == nil || m.persistDuration == nil {
		return
	}
	result := ResultOK
	if !ok {
		result = ResultError
		m.persistFailures.Inc()
	}
	m.persistDuration.WithLabelValues(result).Observe(duration.Seconds())
}

func (m *StorefrontMetrics) IncCoupon(result string) {
	if m == nil || m.coupons == nil {
		return
	}
	m.coupons.WithLabelValues(normalizeLabel(result)).Inc()
}

func (m *StorefrontMetrics) IncCatalogCache(result string) {
	if m == nil || m.catalogCache == nil {
		return
	}
	m.catalogCache.WithLabelValues(normalizeLabel(result)).Inc()
}

func (m *StorefrontMetrics) IncCheckout(result string) {
	if m == nil || m.checkouts == nil {
		return
	}
	m.checkouts.WithLabelValues(normalizeLabel(result)).Inc()
}

// ObserveJob records one maintenance job run. A non-nil err counts as a failure.
func (m *StorefrontMetrics) ObserveJob(job string, duration time.Duration, err error) {
	if m == nil || m.jobRuns == nil {
		return
	}
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	m.jobRuns.WithLabelValues(normalizeLabel(job), result).Inc()
	m.jobDuration.WithLabelValues(normalizeLabel(job)).Observe(duration.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
