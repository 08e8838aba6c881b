// Package telemetry sets up OpenTelemetry tracing for device-intake runs.
package telemetry

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const (
	serviceName   = "device-intake"
	instrumentKey = "github.com/minipcdb/device-intake"
)

// TelemetryConfig holds the configuration for telemetry
type TelemetryConfig struct {
	Enabled      bool
	OTLPEndpoint string // host:port of an OTLP/HTTP collector
	Insecure     bool
	Version      string
}

// Provider manages the tracer provider for a single run
type Provider struct {
	tp     *sdktrace.TracerProvider
	tracer trace.Tracer
	runID  string
}

// NewProvider creates a new telemetry provider. When telemetry is disabled, the provider hands out no-op spans
func NewProvider(ctx context.Context, config TelemetryConfig) (*Provider, error) {
	runID := NewRunID()

	if !config.Enabled {
		return &Provider{tracer: noop.NewTracerProvider().Tracer(instrumentKey), runID: runID}, nil
	}

	opts := []otlptracehttp.Option{}
	if config.OTLPEndpoint != "" {
		opts = append(opts, otlptracehttp.WithEndpoint(config.OTLPEndpoint))
	}
	if config.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	res := resource.NewSchemaless(
		attribute.String("service.name", serviceName),
		attribute.String("service.version", config.Version),
		attribute.String("run.id", runID),
	)
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	log.Printf("Telemetry enabled, exporting traces to %s", config.OTLPEndpoint)

	return &Provider{tp: tp, tracer: tp.Tracer(instrumentKey), runID: runID}, nil
}

// Tracer returns the tracer used for all spans of this run
func (p *Provider) Tracer() trace.Tracer {
	return p.tracer
}

// RunID identifies this run in logs and traces
func (p *Provider) RunID() string {
	return p.runID
}

// Shutdown flushes pending spans
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.tp == nil {
		return nil
	}
	return p.tp.Shutdown(ctx)
}

// EndSpan records err on the span, if any, and ends it
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// NewRunID generates a new run UUID
func NewRunID() string {
	return uuid.New().String()
}
