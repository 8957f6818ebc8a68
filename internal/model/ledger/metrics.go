package ledger

import (
	"context"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var histogramOperationTime = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: "expense_ledger",
		Subsystem: "ledger",
		Name:      "operation_duration_seconds",
		Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2},
	},
	[]string{"operation", "status"},
)

func observeOperation(operation string, elapsed time.Duration, failed bool) {
	status := "ok"
	if failed {
		status = "error"
	}
	histogramOperationTime.
		WithLabelValues(operation, status).
		Observe(elapsed.Seconds())
}

// startOperation opens a span for operation. The returned func records its duration
// and outcome and must be called exactly once.
func startOperation(ctx context.Context, operation string) (context.Context, func(err error)) {
	span, ctx := opentracing.StartSpanFromContext(ctx, operation)
	start := time.Now()

	return ctx, func(err error) {
		observeOperation(operation, time.Since(start), err != nil)
		if err != nil {
			ext.Error.Set(span, true)
		}
		span.Finish()
	}
}
