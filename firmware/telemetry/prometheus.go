//go:build !tinygo

package telemetry

import (
	"dhtpanel/internal/buildinfo"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus exports firmware events as metrics.
type Prometheus struct {
	requests       prometheus.Counter
	requestsParam  prometheus.Counter
	lastCount      prometheus.Gauge
	transportFails prometheus.Counter
	sensorReads    *prometheus.CounterVec
	sensorAttempts prometheus.Histogram
	renders        *prometheus.CounterVec
	view           *prometheus.GaugeVec
}

// NewPrometheus registers the firmware metrics on reg.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	f := promauto.With(reg)
	p := &Prometheus{
		requests: f.NewCounter(prometheus.CounterOpts{
			Name: "dhtpanel_requests_total",
			Help: "Requests handled on GET /.",
		}),
		requestsParam: f.NewCounter(prometheus.CounterOpts{
			Name: "dhtpanel_requests_with_parameter_total",
			Help: "Requests that carried a non-empty query value.",
		}),
		lastCount: f.NewGauge(prometheus.GaugeOpts{
			Name: "dhtpanel_request_count",
			Help: "Request counter as shown on the panel.",
		}),
		transportFails: f.NewCounter(prometheus.CounterOpts{
			Name: "dhtpanel_response_write_errors_total",
			Help: "Responses that could not be written.",
		}),
		sensorReads: f.NewCounterVec(prometheus.CounterOpts{
			Name: "dhtpanel_sensor_reads_total",
			Help: "Sensor retry sequences by result.",
		}, []string{"result"}),
		sensorAttempts: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "dhtpanel_sensor_attempts",
			Help:    "Attempts used per sensor retry sequence.",
			Buckets: prometheus.LinearBuckets(1, 1, 5),
		}),
		renders: f.NewCounterVec(prometheus.CounterOpts{
			Name: "dhtpanel_renders_total",
			Help: "Frames drawn by view and result.",
		}, []string{"view", "result"}),
		view: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "dhtpanel_display_view",
			Help: "1 for the layout currently on the panel.",
		}, []string{"view"}),
	}
	f.NewGaugeFunc(prometheus.GaugeOpts{
		Name:        "dhtpanel_build_info",
		Help:        "Build identifiers.",
		ConstLabels: prometheus.Labels{"version": buildinfo.Version, "commit": buildinfo.Commit},
	}, func() float64 { return 1 })
	return p
}

func (p *Prometheus) RequestServed(count uint32, hasParameter bool) {
	p.requests.Inc()
	if hasParameter {
		p.requestsParam.Inc()
	}
	p.lastCount.Set(float64(count))
}

func (p *Prometheus) TransportFailed() { p.transportFails.Inc() }

func (p *Prometheus) SensorRead(attempts uint, err error) {
	p.sensorReads.WithLabelValues(result(err)).Inc()
	p.sensorAttempts.Observe(float64(attempts))
}

func (p *Prometheus) Rendered(view string, err error) {
	p.renders.WithLabelValues(view, result(err)).Inc()
}

func (p *Prometheus) ModeChanged(view string) {
	p.view.Reset()
	p.view.WithLabelValues(view).Set(1)
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
