package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	intentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tripplanner",
			Subsystem: "store",
			Name:      "intents_total",
			Help:      "Intents applied to the trip store.",
		},
		[]string{"intent"},
	)

	snapshotSavesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tripplanner",
			Subsystem: "store",
			Name:      "snapshot_saves_total",
			Help:      "Trip snapshot writes by result.",
		},
		[]string{"result"},
	)
)
