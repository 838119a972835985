package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pointsApplied = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "courtside_points_applied_total",
		Help: "Point applications, by sport and outcome.",
	}, []string{"sport", "result"})

	undoTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "courtside_undo_total",
		Help: "Undo operations, by outcome.",
	}, []string{"result"})

	conflictsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "courtside_conflicts_total",
		Help: "Writes lost to the optimistic concurrency gate.",
	})
)

const (
	resultOK       = "ok"
	resultRejected = "rejected"
)
