// Package metrics instruments ceremony and HTTP activity. The Recorder
// interface is injected at construction so the core packages never read a
// global registry; tests use the no-op implementation.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "passkey"

// Ceremony kind labels.
const (
	CeremonyRegistration   = "registration"
	CeremonyAuthentication = "authentication"
)

// Ceremony outcome labels.
const (
	OutcomeSuccess  = "success"
	OutcomeExpired  = "challenge_expired"
	OutcomeRejected = "rejected"
	OutcomeReplay   = "replay"
	OutcomeError    = "error"
)

// Recorder receives instrumentation events from the service and HTTP
// layers.
type Recorder interface {
	CeremonyStarted(kind string)
	CeremonyFinished(kind, outcome string)
	HTTPRequest(method, route string, statusCode int, duration time.Duration)
}

// Prometheus implements Recorder on a caller-provided registry.
type Prometheus struct {
	ceremoniesStarted  *prometheus.CounterVec
	ceremoniesFinished *prometheus.CounterVec
	httpRequests       *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
}

func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	factory := promauto.With(reg)
	return &Prometheus{
		ceremoniesStarted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ceremonies_started_total",
				Help:      "Total number of started WebAuthn ceremonies by kind",
			},
			[]string{"kind"},
		),
		ceremoniesFinished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ceremonies_finished_total",
				Help:      "Total number of finished WebAuthn ceremonies by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests by method, route and status code",
			},
			[]string{"method", "route", "code"},
		),
		httpDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
}

func (p *Prometheus) CeremonyStarted(kind string) {
	p.ceremoniesStarted.WithLabelValues(kind).Inc()
}

func (p *Prometheus) CeremonyFinished(kind, outcome string) {
	p.ceremoniesFinished.WithLabelValues(kind, outcome).Inc()
}

func (p *Prometheus) HTTPRequest(method, route string, statusCode int, duration time.Duration) {
	code := codeLabel(statusCode)
	p.httpRequests.WithLabelValues(method, route, code).Inc()
	p.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func codeLabel(statusCode int) string {
	switch {
	case statusCode >= 500:
		return "5xx"
	case statusCode >= 400:
		return "4xx"
	case statusCode >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}

// Noop discards all events.
type Noop struct{}

func NewNoop() Noop { return Noop{} }

func (Noop) CeremonyStarted(string)                         {}
func (Noop) CeremonyFinished(string, string)                {}
func (Noop) HTTPRequest(string, string, int, time.Duration) {}
