package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds the service metrics on a private prometheus registry.
type Registry struct {
	reg             *prometheus.Registry
	Ingests         *prometheus.CounterVec
	IngestedOrders  prometheus.Counter
	MissingHeaders  *prometheus.CounterVec
	RangeFallbacks  prometheus.Counter
	RowWrites       *prometheus.CounterVec
	RejectedUpdates *prometheus.CounterVec
	WriteLatencySec prometheus.Histogram
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	ingests := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "orderdash_ingests_total"}, []string{"method", "result"})
	ingested := prometheus.NewCounter(prometheus.CounterOpts{Name: "orderdash_ingested_orders_total"})
	missing := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "orderdash_missing_headers_total"}, []string{"field"})
	fallbacks := prometheus.NewCounter(prometheus.CounterOpts{Name: "orderdash_range_fallbacks_total"})
	writes := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "orderdash_row_writes_total"}, []string{"result"})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "orderdash_rejected_updates_total"}, []string{"reason"})
	latency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "orderdash_row_write_seconds",
		Buckets: prometheus.DefBuckets,
	})

	r.MustRegister(ingests, ingested, missing, fallbacks, writes, rejected, latency)
	return &Registry{
		reg:             r,
		Ingests:         ingests,
		IngestedOrders:  ingested,
		MissingHeaders:  missing,
		RangeFallbacks:  fallbacks,
		RowWrites:       writes,
		RejectedUpdates: rejected,
		WriteLatencySec: latency,
	}
}

// RangeFallback counts a requested tab that was replaced by the first tab.
func (r *Registry) RangeFallback() { r.RangeFallbacks.Inc() }

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }

// ObserveWrite records one sheet row write.
func (r *Registry) ObserveWrite(ok bool, took time.Duration) {
	result := "ok"
	if !ok {
		result = "error"
	}
	r.RowWrites.WithLabelValues(result).Inc()
	r.WriteLatencySec.Observe(took.Seconds())
}

// ObserveRejected records an update refused before any write.
func (r *Registry) ObserveRejected(reason string) {
	r.RejectedUpdates.WithLabelValues(reason).Inc()
}

// ObserveIngest records one sheet fetch and the headers it could not map.
func (r *Registry) ObserveIngest(method string, ok bool, orders int, missing []string) {
	result := "ok"
	if !ok {
		result = "error"
	}
	r.Ingests.WithLabelValues(method, result).Inc()
	r.IngestedOrders.Add(float64(orders))
	for _, f := range missing {
		r.MissingHeaders.WithLabelValues(f).Inc()
	}
}
