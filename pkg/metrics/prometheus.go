// Package metrics provides Prometheus metrics for the OKR scoring service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the scoring service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Scoring engine
	computations       *prometheus.CounterVec
	computationLatency *prometheus.HistogramVec
	fallbacks          *prometheus.CounterVec
	combinationPolicy  *prometheus.CounterVec
	levelCacheLoads    prometheus.Counter

	// Level configuration
	levelConfigUpdates  *prometheus.CounterVec
	levelsConfigured    prometheus.Gauge
	defaultLevelsActive prometheus.Gauge

	// Evaluations
	evaluationsSubmitted *prometheus.CounterVec
	evaluationsRejected  *prometheus.CounterVec

	// Repository
	repositoryRecords       *prometheus.GaugeVec
	repositoryQueryLatency  *prometheus.HistogramVec
	repositoryUpdateLatency *prometheus.HistogramVec
	snapshotLoadDuration    prometheus.Histogram
	snapshotLastUnix        prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorRateByComponent *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// Init replaces the global manager with one built from opts on a fresh
// registry and returns it. Call it at startup, before GetRegistry is read.
func Init(opts ...Option) *Manager {
	reg := prometheus.NewRegistry()
	m := NewManager(append(opts, WithPrometheusRegistry(reg))...)
	customRegistry, globalManager = reg, m
	return m
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "okrscore",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) name(n string) string {
	if m.metricPrefix == "" {
		return n
	}
	return m.metricPrefix + "_" + n
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	}, labels)
}

func (m *Manager) histogramVec(name, help string, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
		Buckets:     m.histogramBuckets,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	})
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	m.computations = m.counterVec("computations_total", "Scores computed by tier", "tier")
	m.computationLatency = m.histogramVec("computation_latency_milliseconds", "Top-level score computation latency in milliseconds", "operation")
	m.fallbacks = m.counterVec("fallbacks_total", "Inputs replaced by a documented default, by kind", "kind")
	m.combinationPolicy = m.counterVec("combination_policy_total", "Evaluation blends by selected policy", "policy")
	m.levelCacheLoads = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("level_cache_loads_total"),
		Help:        "Level configuration loads performed by call-scoped caches",
		ConstLabels: m.customLabels,
	})

	m.levelConfigUpdates = m.counterVec("level_config_updates_total", "Level configuration changes by action", "action")
	m.levelsConfigured = m.gauge("levels_configured", "Number of configured score levels")
	m.defaultLevelsActive = m.gauge("default_levels_active", "1 when the built-in default levels are in use")

	m.evaluationsSubmitted = m.counterVec("evaluations_submitted_total", "Accepted evaluations by evaluator type", "evaluator_type")
	m.evaluationsRejected = m.counterVec("evaluations_rejected_total", "Rejected evaluations by reason", "reason")

	m.repositoryRecords = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("repository_records"),
		Help:        "Records held per store",
		ConstLabels: m.customLabels,
	}, []string{"store"})
	m.repositoryQueryLatency = m.histogramVec("repository_query_latency_milliseconds", "Repository query latency in milliseconds", "store")
	m.repositoryUpdateLatency = m.histogramVec("repository_update_latency_milliseconds", "Repository update latency in milliseconds", "store")
	m.snapshotLoadDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("snapshot_load_duration_milliseconds"),
		Help:        "Snapshot load duration in milliseconds",
		ConstLabels: m.customLabels,
		Buckets:     m.histogramBuckets,
	})
	m.snapshotLastUnix = m.gauge("snapshot_last_unix", "Unix timestamp of the last snapshot load")

	m.httpRequests = m.counterVec("http_requests_total", "Total number of HTTP requests by endpoint and method", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds", "HTTP request duration in milliseconds", "endpoint", "method", "status_code")

	m.errorRateByComponent = m.counterVec("errors_by_component_total", "Errors by component and type", "component", "error_type")
	m.errorRateByEndpoint = m.counterVec("errors_by_endpoint_total", "Errors by endpoint, method and type", "endpoint", "method", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_bytes", "Heap memory in use")
	m.systemGoroutineCount = m.gauge("system_goroutines", "Number of goroutines")
	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("system_gc_pause_milliseconds"),
		Help:        "Most recent GC pause in milliseconds",
		ConstLabels: m.customLabels,
		Buckets:     m.histogramBuckets,
	})
}

// Enabled reports whether the manager records observations.
func (m *Manager) Enabled() bool { return m.enabled }

// RefreshInterval is the period for gauge refresh loops.
func (m *Manager) RefreshInterval() time.Duration { return m.refreshInterval }

// Default returns the global manager.
func Default() *Manager { return globalManager }

// Scoring Engine Functions.

// RecordComputation counts one score computed at tier.
func RecordComputation(tier string) {
	if !globalManager.enabled {
		return
	}
	globalManager.computations.WithLabelValues(tier).Inc()
}

// RecordComputationLatency records the latency of a top-level computation.
func RecordComputationLatency(operation string, latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.computationLatency.WithLabelValues(operation).Observe(latencyMs)
}

// RecordFallback counts an input replaced by a default.
func RecordFallback(kind string) {
	if !globalManager.enabled {
		return
	}
	globalManager.fallbacks.WithLabelValues(kind).Inc()
}

// RecordCombinationPolicy counts a blend by policy.
func RecordCombinationPolicy(policy string) {
	if !globalManager.enabled {
		return
	}
	globalManager.combinationPolicy.WithLabelValues(policy).Inc()
}

// RecordLevelCacheLoads adds n cache loads.
func RecordLevelCacheLoads(n int) {
	if !globalManager.enabled || n <= 0 {
		return
	}
	globalManager.levelCacheLoads.Add(float64(n))
}

// Level Configuration Functions.

// RecordLevelConfigUpdate counts a replace or reset of the level configuration.
func RecordLevelConfigUpdate(action string) {
	if !globalManager.enabled {
		return
	}
	globalManager.levelConfigUpdates.WithLabelValues(action).Inc()
}

// UpdateLevelsConfigured sets the configured level count and whether defaults are active.
func UpdateLevelsConfigured(count int, defaults bool) {
	if !globalManager.enabled {
		return
	}
	globalManager.levelsConfigured.Set(float64(count))
	if defaults {
		globalManager.defaultLevelsActive.Set(1)
	} else {
		globalManager.defaultLevelsActive.Set(0)
	}
}

// Evaluation Functions.

// RecordEvaluationSubmitted counts an accepted evaluation.
func RecordEvaluationSubmitted(evaluatorType string) {
	if !globalManager.enabled {
		return
	}
	globalManager.evaluationsSubmitted.WithLabelValues(evaluatorType).Inc()
}

// RecordEvaluationRejected counts a rejected evaluation.
func RecordEvaluationRejected(reason string) {
	if !globalManager.enabled {
		return
	}
	globalManager.evaluationsRejected.WithLabelValues(reason).Inc()
}

// Repository Functions.

// UpdateRepositoryRecords sets the record count of store.
func UpdateRepositoryRecords(store string, count int) {
	if !globalManager.enabled {
		return
	}
	globalManager.repositoryRecords.WithLabelValues(store).Set(float64(count))
}

// RecordRepositoryQueryLatency records a read on store.
func RecordRepositoryQueryLatency(store string, latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.repositoryQueryLatency.WithLabelValues(store).Observe(latencyMs)
}

// RecordRepositoryUpdateLatency records a write on store.
func RecordRepositoryUpdateLatency(store string, latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.repositoryUpdateLatency.WithLabelValues(store).Observe(latencyMs)
}

// RecordSnapshotLoad records a snapshot load.
func RecordSnapshotLoad(latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.snapshotLoadDuration.Observe(latencyMs)
	globalManager.snapshotLastUnix.Set(float64(time.Now().Unix()))
}

// HTTP Functions.

// RecordHTTPRequest increments the HTTP request counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Error Functions.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// System Functions.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
