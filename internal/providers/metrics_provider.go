package providers

import (
	"time"
	"welcomer/internal/structures"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	ObservePersistenceDuration(duration time.Duration)
	IncMessages(event, tier string)
	IncMilestones(category string)
	IncAnimations(effect string)
	IncAnimationsCancelled()
	IncFrames()
	IncDisplayFallbacks()
	SetProfilesTotal(count int)
	SetActiveSessions(count int)
	SetActiveAnimations(count int)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	persistenceDuration prometheus.Histogram
	messagesTotal       *prometheus.CounterVec
	milestonesTotal     *prometheus.CounterVec
	animationsTotal     *prometheus.CounterVec
	animationsCancelled prometheus.Counter
	framesTotal         prometheus.Counter
	displayFallbacks    prometheus.Counter
	profilesTotal       prometheus.Gauge
	activeSessions      prometheus.Gauge
	activeAnimations    prometheus.Gauge
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) IncMessages(event, tier string) {
	m.messagesTotal.WithLabelValues(event, tier).Inc()
}

func (m *MetricsProvider) IncMilestones(category string) {
	m.milestonesTotal.WithLabelValues(category).Inc()
}

func (m *MetricsProvider) IncAnimations(effect string) {
	m.animationsTotal.WithLabelValues(effect).Inc()
}

func (m *MetricsProvider) IncAnimationsCancelled() {
	m.animationsCancelled.Inc()
}

func (m *MetricsProvider) IncFrames() {
	m.framesTotal.Inc()
}

func (m *MetricsProvider) IncDisplayFallbacks() {
	m.displayFallbacks.Inc()
}

func (m *MetricsProvider) SetProfilesTotal(count int) {
	m.profilesTotal.Set(float64(count))
}

func (m *MetricsProvider) SetActiveSessions(count int) {
	m.activeSessions.Set(float64(count))
}

func (m *MetricsProvider) SetActiveAnimations(count int) {
	m.activeAnimations.Set(float64(count))
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	return &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "welcomer_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "welcomer_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "welcomer_cache_hits_total",
			Help: "Total number of cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "welcomer_cache_misses_total",
			Help: "Total number of cache misses",
		}),

		persistenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "welcomer_persistence_duration_seconds",
			Help:    "Duration of persistence operations in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		messagesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "welcomer_messages_total",
			Help: "Composed messages by event and source tier",
		}, []string{"event", "tier"}),

		milestonesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "welcomer_milestones_total",
			Help: "Milestones recorded by category",
		}, []string{"category"}),

		animationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "welcomer_animations_total",
			Help: "Animations started by effect",
		}, []string{"effect"}),

		animationsCancelled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "welcomer_animations_cancelled_total",
			Help: "Animation jobs cancelled before completion",
		}),

		framesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "welcomer_frames_total",
			Help: "Animation frames delivered",
		}),

		displayFallbacks: promauto.NewCounter(prometheus.CounterOpts{
			Name: "welcomer_display_fallbacks_total",
			Help: "Final frames rerouted to chat after an action bar failure",
		}),

		profilesTotal: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "welcomer_profiles_total",
			Help: "Number of known user profiles",
		}),

		activeSessions: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "welcomer_active_sessions",
			Help: "Number of open sessions",
		}),

		activeAnimations: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "welcomer_active_animations",
			Help: "Number of users with a running animation job",
		}),
	}
}

// noopMetrics is used when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)       {}
func (n *noopMetrics) IncMessages(_, _ string)                          {}
func (n *noopMetrics) IncMilestones(_ string)                           {}
func (n *noopMetrics) IncAnimations(_ string)                           {}
func (n *noopMetrics) IncAnimationsCancelled()                          {}
func (n *noopMetrics) IncFrames()                                       {}
func (n *noopMetrics) IncDisplayFallbacks()                             {}
func (n *noopMetrics) SetProfilesTotal(_ int)                           {}
func (n *noopMetrics) SetActiveSessions(_ int)                          {}
func (n *noopMetrics) SetActiveAnimations(_ int)                        {}
