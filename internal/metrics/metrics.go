package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the composer and publish counters.
type Metrics struct {
	SubmitTotal            *prometheus.CounterVec
	ValidationFailureTotal *prometheus.CounterVec
	UploadTotal            *prometheus.CounterVec
	StatusCheckTotal       *prometheus.CounterVec
	OpenComposers          prometheus.Gauge
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SubmitTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "postflow_submit_total",
			Help: "Scheduled post submits by platform and outcome",
		}, []string{"platform", "outcome"}),
		ValidationFailureTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "postflow_validation_failures_total",
			Help: "Composer validation failures by kind",
		}, []string{"kind"}),
		UploadTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "postflow_upload_total",
			Help: "Media uploads by outcome",
		}, []string{"outcome"}),
		StatusCheckTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "postflow_status_checks_total",
			Help: "Publish status checks by display state",
		}, []string{"state"}),
		OpenComposers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "postflow_open_composers",
			Help: "Composer sessions currently held in memory",
		}),
	}

	if reg != nil {
		m.SubmitTotal = registerOrGet(reg, m.SubmitTotal).(*prometheus.CounterVec)
		m.ValidationFailureTotal = registerOrGet(reg, m.ValidationFailureTotal).(*prometheus.CounterVec)
		m.UploadTotal = registerOrGet(reg, m.UploadTotal).(*prometheus.CounterVec)
		m.StatusCheckTotal = registerOrGet(reg, m.StatusCheckTotal).(*prometheus.CounterVec)
		m.OpenComposers = registerOrGet(reg, m.OpenComposers).(prometheus.Gauge)
	}
	return m
}

// registerOrGet returns the already registered collector when one exists.
func registerOrGet(reg prometheus.Registerer, c prometheus.Collector) prometheus.Collector {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return are.ExistingCollector
		}
	}
	return c
}

func (m *Metrics) ObserveSubmit(platform string, err error) {
	outcome := "succeeded"
	if err != nil {
		outcome = "failed"
	}
	m.SubmitTotal.WithLabelValues(platform, outcome).Inc()
}

func (m *Metrics) ObserveValidationFailure(kind string) {
	m.ValidationFailureTotal.WithLabelValues(kind).Inc()
}

func (m *Metrics) ObserveUpload(err error) {
	outcome := "succeeded"
	if err != nil {
		outcome = "failed"
	}
	m.UploadTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveStatusCheck(state string) {
	m.StatusCheckTotal.WithLabelValues(state).Inc()
}
