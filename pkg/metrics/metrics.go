package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "sarpras"

// Metrics is the dashboard's collector set. Build one per registry.
type Metrics struct {
	registry *prometheus.Registry

	backendCalls    *prometheus.CounterVec
	backendDuration *prometheus.HistogramVec
	flowRuns        *prometheus.CounterVec
	httpRequests    *prometheus.CounterVec
	kafkaPublished  *prometheus.CounterVec
	kafkaConsumed   *prometheus.CounterVec
	kafkaDuration   *prometheus.HistogramVec
	sessions        prometheus.Counter
	unauthorized    prometheus.Counter
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		backendCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backend_requests_total",
			Help:      "Requests sent to the campus backend by method, route and status.",
		}, []string{"method", "route", "status"}),
		backendDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "backend_request_duration_seconds",
			Help:      "Latency of campus backend requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		flowRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flow_runs_total",
			Help:      "Flow executions by flow name and outcome.",
		}, []string{"flow", "outcome"}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Requests served by the dashboard API by method and status.",
		}, []string{"method", "status"}),
		kafkaPublished: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_published_total",
			Help:      "Audit events published by topic and outcome.",
		}, []string{"topic", "outcome"}),
		kafkaConsumed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_consumed_total",
			Help:      "Audit events consumed by topic and outcome.",
		}, []string{"topic", "outcome"}),
		kafkaDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "kafka_operation_duration_seconds",
			Help:      "Duration of kafka publish and consume operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		sessions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_created_total",
			Help:      "Successful logins.",
		}),
		unauthorized: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_revoked_total",
			Help:      "Sessions dropped after the backend answered 401.",
		}),
	}
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveBackendCall satisfies client.Observer. Status 0 means no response.
func (m *Metrics) ObserveBackendCall(method, route string, status int, elapsed time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.backendCalls.WithLabelValues(method, route, label).Inc()
	m.backendDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *Metrics) FlowRun(flow string, err error) {
	m.flowRuns.WithLabelValues(flow, outcome(err)).Inc()
}

func (m *Metrics) HTTPRequest(method string, status int) {
	m.httpRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
}

func (m *Metrics) KafkaPublished(topic string, elapsed time.Duration, err error) {
	m.kafkaPublished.WithLabelValues(topic, outcome(err)).Inc()
	m.kafkaDuration.WithLabelValues("publish").Observe(elapsed.Seconds())
}

func (m *Metrics) KafkaConsumed(topic string, elapsed time.Duration, err error) {
	m.kafkaConsumed.WithLabelValues(topic, outcome(err)).Inc()
	m.kafkaDuration.WithLabelValues("consume").Observe(elapsed.Seconds())
}

func (m *Metrics) SessionCreated() { m.sessions.Inc() }

func (m *Metrics) SessionRevoked() { m.unauthorized.Inc() }

func outcome(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
