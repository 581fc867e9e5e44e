package metrics

import (
	"multisig_wallet/internal/engine"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Operations counts authorization-engine operations by name and outcome.
// Rejections are labeled with their engine code so threshold bypass attempts
// and double approvals show up directly in the metrics.
var Operations = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "multisig",
	Name:      "operations_total",
	Help:      "Authorization operations by operation and result code.",
}, []string{"operation", "result"})

// Observe records the outcome of one operation
func Observe(operation string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
		if code := engine.CodeOf(err); code != "" {
			result = string(code)
		}
	}
	Operations.WithLabelValues(operation, result).Inc()
}
