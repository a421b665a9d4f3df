package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/tailorflow/internal/application/recordstore"
)

var _ recordstore.Observer = (*Metrics)(nil)

// Metrics métricas Prometheus del record store. Cada instancia usa su propio
// registro, así varios servidores (o tests) pueden convivir en el proceso.
type Metrics struct {
	registry     *prometheus.Registry
	requests     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	lockBypassed prometheus.Counter
}

// NewMetrics registra los colectores.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tailorflow",
			Subsystem: "store",
			Name:      "requests_total",
			Help:      "Peticiones al record store por acción y resultado.",
		}, []string{"action", "success"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "tailorflow",
			Subsystem: "store",
			Name:      "request_duration_seconds",
			Help:      "Duración de las peticiones al record store.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"action"}),
		lockBypassed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tailorflow",
			Subsystem: "store",
			Name:      "lock_bypassed_total",
			Help:      "Peticiones que continuaron sin lock al vencer la espera.",
		}),
	}
	m.registry.MustRegister(
		m.requests, m.duration, m.lockBypassed,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveRequest implementa recordstore.Observer.
func (m *Metrics) ObserveRequest(action string, ok bool, elapsed time.Duration) {
	if action == "" {
		action = "unknown"
	}
	m.requests.WithLabelValues(action, strconv.FormatBool(ok)).Inc()
	m.duration.WithLabelValues(action).Observe(elapsed.Seconds())
}

// LockBypassed implementa recordstore.Observer.
func (m *Metrics) LockBypassed() { m.lockBypassed.Inc() }

// Handler GET /metrics en formato de exposición Prometheus.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
