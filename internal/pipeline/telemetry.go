package pipeline

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "ddqcheck/internal/pipeline"

// instruments holds the counters recorded by a run.
type instruments struct {
	rows    metric.Int64Counter
	flagged metric.Int64Counter
	refined metric.Int64Counter
	runs    metric.Int64Counter
}

func newInstruments(meter metric.Meter) instruments {
	if meter == nil {
		meter = otel.Meter(instrumentationName)
	}
	fallback := noop.NewMeterProvider().Meter(instrumentationName)
	counter := func(name, description string) metric.Int64Counter {
		c, err := meter.Int64Counter(name, metric.WithDescription(description))
		if err != nil {
			c, _ = fallback.Int64Counter(name)
		}
		return c
	}
	return instruments{
		rows:    counter("ddqcheck.rows.evaluated", "Rows decided by the rule engine, by status."),
		flagged: counter("ddqcheck.rows.flagged", "Rows flagged for follow-up, by rule."),
		refined: counter("ddqcheck.llm.refined", "Findings sent to the language model, by outcome."),
		runs:    counter("ddqcheck.runs", "Completed validation runs."),
	}
}

func tracerOrDefault(tracer trace.Tracer) trace.Tracer {
	if tracer == nil {
		return otel.Tracer(instrumentationName)
	}
	return tracer
}
