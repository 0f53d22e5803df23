package prometheus

import (
	"errors"
	"fmt"

	"github.com/abczzz13/realip"
	prom "github.com/prometheus/client_golang/prometheus"
)

const (
	resolutionTotalName = "realip_resolution_total"
	notFoundTotalName   = "realip_not_found_total"
)

// PrometheusMetrics is a Prometheus-backed implementation of realip.Metrics.
type PrometheusMetrics struct {
	resolutionTotal *prom.CounterVec
	notFoundTotal   prom.Counter
}

var _ realip.Metrics = (*PrometheusMetrics)(nil)

// WithMetrics returns a realip option that installs Prometheus-backed
// metrics using prom.DefaultRegisterer.
func WithMetrics() realip.Option {
	return withMetricsFactory(New)
}

// WithRegisterer returns a realip option that installs Prometheus-backed
// metrics using the provided registerer.
//
// If registerer is nil, prom.DefaultRegisterer is used.
func WithRegisterer(registerer prom.Registerer) realip.Option {
	return withMetricsFactory(func() (*PrometheusMetrics, error) {
		return NewWithRegisterer(registerer)
	})
}

// withMetricsFactory adapts a PrometheusMetrics constructor into a
// realip.Option. Collectors are registered only once option validation has
// succeeded.
func withMetricsFactory(factory func() (*PrometheusMetrics, error)) realip.Option {
	return realip.WithMetricsFactory(func() (realip.Metrics, error) {
		metrics, err := factory()
		if err != nil {
			return nil, err
		}
		return metrics, nil
	})
}

// New creates PrometheusMetrics and registers its collectors on
// prom.DefaultRegisterer.
func New() (*PrometheusMetrics, error) {
	return NewWithRegisterer(prom.DefaultRegisterer)
}

// NewWithRegisterer creates PrometheusMetrics and registers its collectors on
// the given registerer.
//
// If registerer is nil, prom.DefaultRegisterer is used. If the metrics are
// already registered, existing compatible collectors are reused.
func NewWithRegisterer(registerer prom.Registerer) (*PrometheusMetrics, error) {
	if registerer == nil {
		registerer = prom.DefaultRegisterer
	}

	resolutionTotalCollector := prom.NewCounterVec(
		prom.CounterOpts{
			Name: resolutionTotalName,
			Help: "Client address resolution attempts by source (candidate header or remote_addr) and result (success, invalid).",
		},
		[]string{"source", "result"},
	)
	notFoundTotalCollector := prom.NewCounter(
		prom.CounterOpts{
			Name: notFoundTotalName,
			Help: "Requests for which no source yielded a client address.",
		},
	)

	resolutionTotal, err := register(registerer, resolutionTotalCollector, resolutionTotalName)
	if err != nil {
		return nil, err
	}

	notFoundTotal, err := register(registerer, notFoundTotalCollector, notFoundTotalName)
	if err != nil {
		return nil, err
	}

	return &PrometheusMetrics{
		resolutionTotal: resolutionTotal,
		notFoundTotal:   notFoundTotal,
	}, nil
}

func register[C prom.Collector](registerer prom.Registerer, collector C, metricName string) (C, error) {
	if err := registerer.Register(collector); err != nil {
		var alreadyRegistered prom.AlreadyRegisteredError
		if errors.As(err, &alreadyRegistered) {
			existing, ok := alreadyRegistered.ExistingCollector.(C)
			if ok {
				return existing, nil
			}
			var zero C
			return zero, fmt.Errorf("metric %q already registered with incompatible collector type %T", metricName, alreadyRegistered.ExistingCollector)
		}

		var zero C
		return zero, fmt.Errorf("register metric %q: %w", metricName, err)
	}

	return collector, nil
}

// RecordResolution increments realip_resolution_total with result="success"
// for the provided source.
func (m *PrometheusMetrics) RecordResolution(source string) {
	m.resolutionTotal.WithLabelValues(source, "success").Inc()
}

// RecordInvalid increments realip_resolution_total with result="invalid" for
// the provided source.
func (m *PrometheusMetrics) RecordInvalid(source string) {
	m.resolutionTotal.WithLabelValues(source, "invalid").Inc()
}

// RecordNotFound increments realip_not_found_total.
func (m *PrometheusMetrics) RecordNotFound() {
	m.notFoundTotal.Inc()
}
