// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package tracing

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Exporter names accepted by Config.Exporter.
const (
	ExporterNone   = "none"
	ExporterStdout = "stdout"
)

// Config holds tracing configuration.
type Config struct {
	// Exporter selects where spans go (none, stdout).
	Exporter string

	// ServiceName and ServiceVersion identify the process in exported spans.
	ServiceName    string
	ServiceVersion string

	// Writer receives stdout-exported spans. Default: os.Stderr
	Writer io.Writer

	// SampleRate is the fraction of root spans recorded, from 0 to 1.
	// Default: 1
	SampleRate float64
}

// DefaultConfig returns a Config with tracing disabled.
func DefaultConfig() Config {
	return Config{
		Exporter:    ExporterNone,
		ServiceName: "filetools",
		Writer:      os.Stderr,
		SampleRate:  1,
	}
}

// OTelProvider owns the SDK tracer provider, when one was installed.
type OTelProvider struct {
	tp *sdktrace.TracerProvider
}

// NewOTelProvider installs a global tracer provider according to cfg. With the
// none exporter the global no-op provider is left in place.
func NewOTelProvider(cfg Config, opts ...sdktrace.TracerProviderOption) (*OTelProvider, error) {
	switch cfg.Exporter {
	case "", ExporterNone:
		return &OTelProvider{}, nil
	case ExporterStdout:
	default:
		return nil, fmt.Errorf("unknown trace exporter %q", cfg.Exporter)
	}

	exporter, err := NewConsoleExporter(cfg.Writer)
	if err != nil {
		return nil, err
	}

	// Note: We don't set SchemaURL to avoid conflicts when merging with default resource
	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			"",
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	rate := cfg.SampleRate
	if rate <= 0 || rate > 1 {
		rate = 1
	}

	allOpts := append([]sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(rate))),
		sdktrace.WithBatcher(exporter),
	}, opts...)

	tp := sdktrace.NewTracerProvider(allOpts...)
	otel.SetTracerProvider(tp)

	return &OTelProvider{tp: tp}, nil
}

// NewConsoleExporter creates a span exporter that writes JSON lines to w.
func NewConsoleExporter(w io.Writer) (sdktrace.SpanExporter, error) {
	if w == nil {
		w = os.Stderr
	}
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		return nil, fmt.Errorf("failed to create console exporter: %w", err)
	}
	return exporter, nil
}

// Enabled reports whether spans are being exported.
func (p *OTelProvider) Enabled() bool {
	return p.tp != nil
}

// Shutdown flushes any pending spans and releases resources.
func (p *OTelProvider) Shutdown(ctx context.Context) error {
	if p.tp == nil {
		return nil
	}
	return p.tp.Shutdown(ctx)
}

// ForceFlush exports all pending spans synchronously.
func (p *OTelProvider) ForceFlush(ctx context.Context) error {
	if p.tp == nil {
		return nil
	}
	return p.tp.ForceFlush(ctx)
}

// MetricsHandler returns an HTTP handler for the Prometheus metrics endpoint.
// Operation metrics register with the default Prometheus registry.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
