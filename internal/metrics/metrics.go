// Copyright (c) 2025 @AmarnathCJD

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "mtproto"

// Metrics are the collectors of one client. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	Invokes         *prometheus.CounterVec
	RPCErrors       *prometheus.CounterVec
	FloodWaits      prometheus.Counter
	PendingRequests prometheus.Gauge

	Updates         *prometheus.CounterVec
	HandlerErrors   prometheus.Counter
	ActiveListeners prometheus.Gauge

	DownloadedBytes   prometheus.Counter
	UploadedBytes     prometheus.Counter
	CDNHashMismatches prometheus.Counter
	CDNReuploads      prometheus.Counter
}

// New creates the collectors and registers them on reg when it is not nil.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Invokes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invokes_total",
			Help:      "Requests sent, by datacenter.",
		}, []string{"dc"}),
		RPCErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rpc_errors_total",
			Help:      "RPC errors returned by the server, by error name.",
		}, []string{"name"}),
		FloodWaits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flood_waits_total",
			Help:      "Flood waits slept through and retried.",
		}),
		PendingRequests: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pending_requests",
			Help:      "Requests waiting for a response.",
		}),
		Updates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "updates_total",
			Help:      "Updates dispatched, by kind.",
		}, []string{"kind"}),
		HandlerErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "handler_errors_total",
			Help:      "Errors returned by update handlers.",
		}),
		ActiveListeners: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_listeners",
			Help:      "Listeners waiting for an update.",
		}),
		DownloadedBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "downloaded_bytes_total",
			Help:      "File bytes downloaded.",
		}),
		UploadedBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploaded_bytes_total",
			Help:      "File bytes uploaded.",
		}),
		CDNHashMismatches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cdn_hash_mismatches_total",
			Help:      "CDN chunks refetched after failing hash verification.",
		}),
		CDNReuploads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cdn_reuploads_total",
			Help:      "Files pushed to a CDN on request.",
		}),
	}

	if reg != nil {
		reg.MustRegister(
			m.Invokes, m.RPCErrors, m.FloodWaits, m.PendingRequests,
			m.Updates, m.HandlerErrors, m.ActiveListeners,
			m.DownloadedBytes, m.UploadedBytes, m.CDNHashMismatches, m.CDNReuploads,
		)
	}
	return m
}

func (m *Metrics) Invoke(dc string) {
	if m != nil {
		m.Invokes.WithLabelValues(dc).Inc()
	}
}

func (m *Metrics) RPCError(name string) {
	if m != nil {
		m.RPCErrors.WithLabelValues(name).Inc()
	}
}

func (m *Metrics) FloodWait() {
	if m != nil {
		m.FloodWaits.Inc()
	}
}

func (m *Metrics) Pending(delta float64) {
	if m != nil {
		m.PendingRequests.Add(delta)
	}
}

func (m *Metrics) Update(kind string) {
	if m != nil {
		m.Updates.WithLabelValues(kind).Inc()
	}
}

func (m *Metrics) HandlerError() {
	if m != nil {
		m.HandlerErrors.Inc()
	}
}

func (m *Metrics) Listeners(delta float64) {
	if m != nil {
		m.ActiveListeners.Add(delta)
	}
}

func (m *Metrics) Downloaded(n int) {
	if m != nil {
		m.DownloadedBytes.Add(float64(n))
	}
}

func (m *Metrics) Uploaded(n int) {
	if m != nil {
		m.UploadedBytes.Add(float64(n))
	}
}

func (m *Metrics) CDNHashMismatch() {
	if m != nil {
		m.CDNHashMismatches.Inc()
	}
}

func (m *Metrics) CDNReupload() {
	if m != nil {
		m.CDNReuploads.Inc()
	}
}
