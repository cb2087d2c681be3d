package metrics

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const meterName = "github.com/indigo-web/minihttp"

// Instruments is the set of counters the server reports. The zero value isn't usable,
// instances must be obtained via New or Nop.
type Instruments struct {
	submitted metric.Int64Counter
	completed metric.Int64Counter
	panicked  metric.Int64Counter
	queued    metric.Int64UpDownCounter
	accepted  metric.Int64Counter
	requests  metric.Int64Counter
}

// New creates all the instruments from the provider. Nil provider means the global one.
func New(provider metric.MeterProvider) (*Instruments, error) {
	if provider == nil {
		provider = otel.GetMeterProvider()
	}

	meter := provider.Meter(meterName)
	var (
		i   Instruments
		err error
	)

	if i.submitted, err = meter.Int64Counter(
		"minihttp.pool.tasks.submitted",
		metric.WithDescription("Tasks passed to the worker pool"),
		metric.WithUnit("{task}"),
	); err != nil {
		return nil, err
	}

	if i.completed, err = meter.Int64Counter(
		"minihttp.pool.tasks.completed",
		metric.WithDescription("Tasks finished by workers, including panicked ones"),
		metric.WithUnit("{task}"),
	); err != nil {
		return nil, err
	}

	if i.panicked, err = meter.Int64Counter(
		"minihttp.pool.tasks.panicked",
		metric.WithDescription("Tasks recovered from a panic"),
		metric.WithUnit("{task}"),
	); err != nil {
		return nil, err
	}

	if i.queued, err = meter.Int64UpDownCounter(
		"minihttp.pool.tasks.queued",
		metric.WithDescription("Tasks waiting for a free worker"),
		metric.WithUnit("{task}"),
	); err != nil {
		return nil, err
	}

	if i.accepted, err = meter.Int64Counter(
		"minihttp.connections.accepted",
		metric.WithDescription("Accepted TCP connections"),
		metric.WithUnit("{connection}"),
	); err != nil {
		return nil, err
	}

	if i.requests, err = meter.Int64Counter(
		"minihttp.requests",
		metric.WithDescription("Responses sent, by status code"),
		metric.WithUnit("{request}"),
	); err != nil {
		return nil, err
	}

	return &i, nil
}

// Nop returns instruments that record nothing.
func Nop() *Instruments {
	i, err := New(noop.NewMeterProvider())
	if err != nil {
		// noop instruments can't fail
		panic(err)
	}

	return i
}

func (i *Instruments) TaskSubmitted() {
	ctx := context.Background()
	i.submitted.Add(ctx, 1)
	i.queued.Add(ctx, 1)
}

func (i *Instruments) TaskStarted() {
	i.queued.Add(context.Background(), -1)
}

func (i *Instruments) TaskCompleted(panicked bool) {
	ctx := context.Background()
	i.completed.Add(ctx, 1)
	if panicked {
		i.panicked.Add(ctx, 1)
	}
}

func (i *Instruments) ConnAccepted() {
	i.accepted.Add(context.Background(), 1)
}

// Request records a sent response with the code attribute.
func (i *Instruments) Request(code int) {
	i.requests.Add(context.Background(), 1, metric.WithAttributes(attribute.Int("code", code)))
}
