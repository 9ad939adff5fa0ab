package autoplay

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics records finished games. Labels stay bounded: the only one is the
// outcome.
type Metrics struct {
	games    *prometheus.CounterVec
	moves    prometheus.Counter
	score    prometheus.Histogram
	maxTile  prometheus.Histogram
	duration prometheus.Histogram
	inFlight prometheus.Gauge
}

// NewMetrics registers the autoplay collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		games: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "game2048_autoplay_games_total",
			Help: "Finished auto-played games by outcome",
		}, []string{"outcome"}),

		moves: factory.NewCounter(prometheus.CounterOpts{
			Name: "game2048_autoplay_moves_total",
			Help: "Moves that changed the grid",
		}),

		score: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "game2048_autoplay_score",
			Help:    "Final score per game",
			Buckets: prometheus.ExponentialBuckets(64, 2, 12),
		}),

		maxTile: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "game2048_autoplay_max_tile",
			Help:    "Largest tile reached per game",
			Buckets: prometheus.ExponentialBuckets(4, 2, 16),
		}),

		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "game2048_autoplay_game_duration_seconds",
			Help:    "Wall time per game",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30, 120},
		}),

		inFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "game2048_autoplay_games_in_flight",
			Help: "Games currently being played",
		}),
	}
}

// Observe records one finished game. A nil receiver does nothing.
func (m *Metrics) Observe(r *GameReport) {
	if m == nil || r == nil {
		return
	}
	m.games.WithLabelValues(string(r.Outcome)).Inc()
	m.moves.Add(float64(r.Moves))
	m.score.Observe(float64(r.Score))
	m.maxTile.Observe(float64(r.MaxTile))
	m.duration.Observe(r.Duration.Seconds())
}

func (m *Metrics) started() {
	if m != nil {
		m.inFlight.Inc()
	}
}

func (m *Metrics) stopped() {
	if m != nil {
		m.inFlight.Dec()
	}
}
