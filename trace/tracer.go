// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package trace exports transaction execution spans to a zipkin collector.
package trace

import (
	"context"
	"errors"
	"time"

	"github.com/ava-labs/avalanchego/trace"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/zipkin"
	"go.opentelemetry.io/otel/sdk/resource"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	oteltrace "go.opentelemetry.io/otel/trace"
)

const (
	exportTimeout   = 10 * time.Second
	shutdownTimeout = 15 * time.Second

	DefaultEndpoint = "http://localhost:9411/api/v2/spans"
)

var ErrInvalidSampleRate = errors.New("trace sample rate must be in [0, 1]")

type Config struct {
	Enabled bool `json:"enabled"`
	// Fraction of transactions whose spans are exported.
	SampleRate float64 `json:"sampleRate"`
	// Zipkin collector URL.
	Endpoint string `json:"endpoint"`
	Service  string `json:"service"`
	Version  string `json:"version"`
}

func NewDefaultConfig() Config {
	return Config{
		SampleRate: 1,
		Endpoint:   DefaultEndpoint,
		Service:    "marketplace",
	}
}

func (c Config) Verify() error {
	if c.SampleRate < 0 || c.SampleRate > 1 {
		return ErrInvalidSampleRate
	}
	return nil
}

type tracer struct {
	oteltrace.Tracer

	tp *sdktrace.TracerProvider
}

func (t *tracer) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return t.tp.Shutdown(ctx)
}

// New returns [trace.Noop] unless tracing is enabled.
func New(config Config) (trace.Tracer, error) {
	if !config.Enabled {
		return trace.Noop, nil
	}
	if err := config.Verify(); err != nil {
		return nil, err
	}
	exporter, err := zipkin.New(config.Endpoint)
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter, sdktrace.WithExportTimeout(exportTimeout)),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			attribute.String("version", config.Version),
			semconv.ServiceNameKey.String(config.Service),
		)),
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(config.SampleRate)),
	)
	return &tracer{Tracer: tp.Tracer(config.Service), tp: tp}, nil
}
