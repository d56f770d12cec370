package otel

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "agentcore"

// Metrics holds all agent core metric instruments.
type Metrics struct {
	RequestsProcessed metric.Int64Counter
	RequestsFailed    metric.Int64Counter
	ActionsExecuted   metric.Int64Counter
	ActionsFailed     metric.Int64Counter
	ActionsRejected   metric.Int64Counter
	PipelineDuration  metric.Float64Histogram
}

// NewMetrics creates all metric instruments.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.RequestsProcessed, err = meter.Int64Counter("agentcore.requests.processed",
		metric.WithDescription("Number of pipeline runs completed"))
	if err != nil {
		return nil, err
	}

	m.RequestsFailed, err = meter.Int64Counter("agentcore.requests.failed",
		metric.WithDescription("Number of pipeline runs aborted by upstream faults"))
	if err != nil {
		return nil, err
	}

	m.ActionsExecuted, err = meter.Int64Counter("agentcore.actions.executed",
		metric.WithDescription("Number of approved actions executed"))
	if err != nil {
		return nil, err
	}

	m.ActionsFailed, err = meter.Int64Counter("agentcore.actions.failed",
		metric.WithDescription("Number of actions that produced a failed result"))
	if err != nil {
		return nil, err
	}

	m.ActionsRejected, err = meter.Int64Counter("agentcore.actions.rejected",
		metric.WithDescription("Number of planned actions rejected at the decide stage"))
	if err != nil {
		return nil, err
	}

	m.PipelineDuration, err = meter.Float64Histogram("agentcore.pipeline.duration_seconds",
		metric.WithDescription("End-to-end pipeline duration in seconds"))
	if err != nil {
		return nil, err
	}

	return m, nil
}
