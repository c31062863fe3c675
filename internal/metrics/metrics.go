// Package metrics exposes Prometheus counters and gauges for canvas gestures.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all metrics for the application. The Record and Update
// methods do nothing on a nil Registry.
type Registry struct {
	Nodes       prometheus.Gauge
	Connections prometheus.Gauge

	PlacementsTotal   *prometheus.CounterVec
	LinkGesturesTotal *prometheus.CounterVec

	DragSessionsTotal prometheus.Counter
	DragMovesTotal    prometheus.Counter

	ConstraintsEngagedTotal  *prometheus.CounterVec
	ConstraintsReleasedTotal *prometheus.CounterVec

	registry *prometheus.Registry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}
	r.initSceneMetrics()
	r.initDragMetrics()
	return r
}

func (r *Registry) initSceneMetrics() {
	r.Nodes = promauto.With(r.registry).NewGauge(prometheus.GaugeOpts{
		Name: "rectlink_nodes",
		Help: "Number of nodes on the canvas",
	})
	r.Connections = promauto.With(r.registry).NewGauge(prometheus.GaugeOpts{
		Name: "rectlink_connections",
		Help: "Number of connections between nodes",
	})
	r.PlacementsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "rectlink_placements_total",
			Help: "Node placement attempts by result",
		},
		[]string{"result"},
	)
	r.LinkGesturesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "rectlink_link_gestures_total",
			Help: "Secondary-button gestures by outcome",
		},
		[]string{"outcome"},
	)
}

func (r *Registry) initDragMetrics() {
	r.DragSessionsTotal = promauto.With(r.registry).NewCounter(prometheus.CounterOpts{
		Name: "rectlink_drag_sessions_total",
		Help: "Number of drag sessions started",
	})
	r.DragMovesTotal = promauto.With(r.registry).NewCounter(prometheus.CounterOpts{
		Name: "rectlink_drag_moves_total",
		Help: "Number of pointer moves resolved while dragging",
	})
	r.ConstraintsEngagedTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "rectlink_constraints_engaged_total",
			Help: "Axis constraints installed, by blocking direction",
		},
		[]string{"direction"},
	)
	r.ConstraintsReleasedTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "rectlink_constraints_released_total",
			Help: "Axis constraints released, by blocking direction",
		},
		[]string{"direction"},
	)
}

// RecordDragSession counts a started drag session.
func (r *Registry) RecordDragSession() {
	if r == nil {
		return
	}
	r.DragSessionsTotal.Inc()
}

// RecordDragMove counts a resolved drag move.
func (r *Registry) RecordDragMove() {
	if r == nil {
		return
	}
	r.DragMovesTotal.Inc()
}

// RecordPlacement counts a placement attempt. result is "created" or the rejection reason.
func (r *Registry) RecordPlacement(result string) {
	if r == nil {
		return
	}
	r.PlacementsTotal.WithLabelValues(result).Inc()
}

// RecordLinkGesture counts a secondary-button gesture by outcome.
func (r *Registry) RecordLinkGesture(outcome string) {
	if r == nil {
		return
	}
	r.LinkGesturesTotal.WithLabelValues(outcome).Inc()
}

// RecordConstraints counts engaged and released constraint directions.
func (r *Registry) RecordConstraints(engaged, released []string) {
	if r == nil {
		return
	}
	for _, d := range engaged {
		r.ConstraintsEngagedTotal.WithLabelValues(d).Inc()
	}
	for _, d := range released {
		r.ConstraintsReleasedTotal.WithLabelValues(d).Inc()
	}
}

// UpdateScene sets the node and connection gauges.
func (r *Registry) UpdateScene(nodes, connections int) {
	if r == nil {
		return
	}
	r.Nodes.Set(float64(nodes))
	r.Connections.Set(float64(connections))
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
