package completion

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/dhamidi/marksense/completion"

// instruments publish cache behaviour through a meter provider, the
// global one unless the engine is given another.
type instruments struct {
	continuations metric.Int64Counter
	recomputes    metric.Int64Counter
	cancellations metric.Int64Counter
	duration      metric.Int64Histogram
}

func newInstruments(provider metric.MeterProvider) *instruments {
	if provider == nil {
		provider = otel.GetMeterProvider()
	}
	meter := provider.Meter(meterName)
	inst := &instruments{}

	var err error
	inst.continuations, err = meter.Int64Counter(
		"marksense.completion.continuations",
		metric.WithDescription("Requests answered by re-ranking cached candidates"),
	)
	logInstrumentError("continuations", err)
	inst.recomputes, err = meter.Int64Counter(
		"marksense.completion.recomputes",
		metric.WithDescription("Requests that ran the full pipeline"),
	)
	logInstrumentError("recomputes", err)
	inst.cancellations, err = meter.Int64Counter(
		"marksense.completion.cancellations",
		metric.WithDescription("Requests abandoned because their context ended"),
	)
	logInstrumentError("cancellations", err)
	inst.duration, err = meter.Int64Histogram(
		"marksense.completion.duration",
		metric.WithDescription("Duration of completion requests in microseconds"),
		metric.WithUnit("us"),
	)
	logInstrumentError("duration", err)
	return inst
}

func logInstrumentError(name string, err error) {
	if err != nil {
		log.Debugf("metrics: %s instrument: %s", name, err)
	}
}

func (i *instruments) record(ctx context.Context, counter metric.Int64Counter, kind string, start time.Time) {
	if i == nil {
		return
	}
	// the request context may already be cancelled
	ctx = context.WithoutCancel(ctx)
	attrs := metric.WithAttributes(attribute.String("kind", kind))
	if counter != nil {
		counter.Add(ctx, 1, attrs)
	}
	if i.duration != nil {
		i.duration.Record(ctx, time.Since(start).Microseconds(), attrs)
	}
}
