package metrics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// collect gathers current values of all int64 sums, keyed by the instrument name.
// Data points of the same instrument are summed up.
func collect(t *testing.T, reader sdkmetric.Reader) map[string]int64 {
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	values := make(map[string]int64)
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}

			for _, point := range sum.DataPoints {
				values[m.Name] += point.Value
			}
		}
	}

	return values
}

func TestInstruments(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	i, err := New(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)))
	require.NoError(t, err)

	i.TaskSubmitted()
	i.TaskSubmitted()
	i.TaskStarted()
	i.TaskCompleted(false)
	i.TaskStarted()
	i.TaskCompleted(true)
	i.ConnAccepted()
	i.Request(200)
	i.Request(404)

	values := collect(t, reader)
	require.Equal(t, int64(2), values["minihttp.pool.tasks.submitted"])
	require.Equal(t, int64(2), values["minihttp.pool.tasks.completed"])
	require.Equal(t, int64(1), values["minihttp.pool.tasks.panicked"])
	require.Equal(t, int64(0), values["minihttp.pool.tasks.queued"])
	require.Equal(t, int64(1), values["minihttp.connections.accepted"])
	require.Equal(t, int64(2), values["minihttp.requests"])
}

func TestNop(t *testing.T) {
	i := Nop()
	require.NotPanics(t, func() {
		i.TaskSubmitted()
		i.TaskStarted()
		i.TaskCompleted(true)
		i.ConnAccepted()
		i.Request(500)
	})
}
