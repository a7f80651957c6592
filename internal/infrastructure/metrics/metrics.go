// Package metrics expone contadores Prometheus de los movimientos de animales.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	appkennel "github.com/jhoicas/Refugio-api/internal/application/kennel"
)

var _ appkennel.MoveRecorder = (*MoveCollector)(nil)

// MoveCollector es un prometheus.Collector que además implementa kennel.MoveRecorder.
type MoveCollector struct {
	moves    *prometheus.CounterVec
	duration prometheus.Histogram
}

// NewMoveCollector construye el collector sin registrarlo.
func NewMoveCollector() *MoveCollector {
	return &MoveCollector{
		moves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:      "kennel_moves_total",
				Help:      "Movimientos de animales entre caniles por resultado.",
			}, []string{"outcome"},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:      "kennel_move_duration_seconds",
				Help:      "Duración de la transacción de movimiento, incluida la espera de bloqueos.",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
		),
	}
}

// ObserveMove implementa kennel.MoveRecorder.
func (c *MoveCollector) ObserveMove(outcome string, elapsed time.Duration) {
	c.moves.WithLabelValues(outcome).Inc()
	c.duration.Observe(elapsed.Seconds())
}

// Describe is part of the prometheus.Collector interface.
func (c *MoveCollector) Describe(ch chan<- *prometheus.Desc) {
	c.moves.Describe(ch)
	c.duration.Describe(ch)
}

// Collect is part of the prometheus.Collector interface.
func (c *MoveCollector) Collect(ch chan<- prometheus.Metric) {
	c.moves.Collect(ch)
	c.duration.Collect(ch)
}
