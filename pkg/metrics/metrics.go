package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service collectors on its own registry so tests can
// build as many as they like.
type Metrics struct {
	Registry *prometheus.Registry

	requests          *prometheus.CounterVec
	latency           *prometheus.HistogramVec
	stepTransitions   *prometheus.CounterVec
	rejectedLocations *prometheus.CounterVec
	predictions       prometheus.Counter
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "eaa", Name: "http_requests_total", Help: "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "eaa", Name: "http_request_duration_seconds", Help: "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		stepTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "eaa", Name: "assessment_step_transitions_total", Help: "Assessments entering a workflow step.",
		}, []string{"step"}),
		rejectedLocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "eaa", Name: "rejected_locations_total", Help: "Location selections rejected by reason.",
		}, []string{"reason"}),
		predictions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "eaa", Name: "soil_predictions_total", Help: "Soil estimates served by the spatial model.",
		}),
	}
	reg.MustRegister(m.requests, m.latency, m.stepTransitions, m.rejectedLocations, m.predictions,
		prometheus.NewGoCollector(), prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	return m
}

func (m *Metrics) StepEntered(step int) {
	if m == nil {
		return
	}
	m.stepTransitions.WithLabelValues(strconv.Itoa(step)).Inc()
}

func (m *Metrics) LocationRejected(reason string) {
	if m == nil {
		return
	}
	m.rejectedLocations.WithLabelValues(reason).Inc()
}

func (m *Metrics) Predicted() {
	if m == nil {
		return
	}
	m.predictions.Inc()
}

// Middleware records request counts and latency keyed by the matched route.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			method := c.Request().Method
			m.requests.WithLabelValues(method, route, strconv.Itoa(c.Response().Status)).Inc()
			m.latency.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
			return nil
		}
	}
}

func (m *Metrics) Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))
}
