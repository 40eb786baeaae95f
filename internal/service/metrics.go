package service

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the upload counters. A nil *Metrics records nothing.
type Metrics struct {
	uploads            *prometheus.CounterVec
	uploadBytes        prometheus.Counter
	sideEffectFailures *prometheus.CounterVec
}

// NewMetrics creates the upload counters and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		uploads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "painter_uploads_total",
				Help: "Upload attempts by result.",
			},
			[]string{"result"},
		),
		uploadBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "painter_upload_bytes_total",
			Help: "Bytes written to the upload root.",
		}),
		sideEffectFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "painter_upload_side_effect_failures_total",
				Help: "Catalog or mirror failures after a file was stored.",
			},
			[]string{"target"},
		),
	}

	for _, c := range []prometheus.Collector{m.uploads, m.uploadBytes, m.sideEffectFailures} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observe(size int64, err error) {
	if m == nil {
		return
	}
	m.uploads.WithLabelValues(resultLabel(err)).Inc()
	if err == nil {
		m.uploadBytes.Add(float64(size))
	}
}

func (m *Metrics) sideEffectFailed(target string) {
	if m == nil {
		return
	}
	m.sideEffectFailures.WithLabelValues(target).Inc()
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrEmptyContent):
		return "empty"
	case errors.Is(err, ErrDirectoryUnavailable):
		return "directory_unavailable"
	default:
		return "write_failed"
	}
}
