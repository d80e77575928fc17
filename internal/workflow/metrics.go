package workflow

import (
	"github.com/diwan-maarifa/diwan-backend/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var transitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "workflow_transitions_total",
		Help: "Applied submission status transitions",
	},
	[]string{"from", "to", "action"},
)

// ObserveTransition counts a committed transition
func ObserveTransition(rec *domain.ReviewRecord) {
	transitionsTotal.WithLabelValues(string(rec.FromStatus), string(rec.ToStatus), string(rec.Decision)).Inc()
}
