package settings

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var operationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "settingsd_settings_operations_total",
		Help: "Number of settings service operations by operation and result.",
	},
	[]string{"operation", "result"},
)

func observeOperation(operation string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}

	operationsTotal.WithLabelValues(operation, result).Inc()
}
