package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ImportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "talentgrid",
		Subsystem: "recruitment",
		Name:      "imports_total",
		Help:      "Placement sheet imports by kind and outcome.",
	}, []string{"kind", "status"})

	ImportRowsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "talentgrid",
		Subsystem: "recruitment",
		Name:      "import_rows_total",
		Help:      "Placement rows persisted by operation.",
	}, []string{"kind", "op"})
)
