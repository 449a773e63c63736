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
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestNewOTelProvider_None(t *testing.T) {
	p, err := NewOTelProvider(DefaultConfig())
	require.NoError(t, err)
	assert.False(t, p.Enabled())
	assert.NoError(t, p.ForceFlush(context.Background()))
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestNewOTelProvider_UnknownExporter(t *testing.T) {
	_, err := NewOTelProvider(Config{Exporter: "jaeger"})
	assert.ErrorContains(t, err, "unknown trace exporter")
}

func TestNewOTelProvider_Stdout(t *testing.T) {
	previous := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(previous) })

	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Exporter = ExporterStdout
	cfg.Writer = &buf
	cfg.ServiceVersion = "test"

	p, err := NewOTelProvider(cfg)
	require.NoError(t, err)
	require.True(t, p.Enabled())

	_, span := otel.Tracer("test").Start(context.Background(), "fileops.list_files")
	span.End()

	require.NoError(t, p.ForceFlush(context.Background()))
	require.NoError(t, p.Shutdown(context.Background()))
	assert.Contains(t, buf.String(), "fileops.list_files")
}

func TestNewOTelProvider_ExtraOptions(t *testing.T) {
	previous := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(previous) })

	recorder := tracetest.NewSpanRecorder()
	cfg := DefaultConfig()
	cfg.Exporter = ExporterStdout
	cfg.Writer = io.Discard

	p, err := NewOTelProvider(cfg, sdktrace.WithSpanProcessor(recorder))
	require.NoError(t, err)
	defer p.Shutdown(context.Background())

	_, span := otel.Tracer("test").Start(context.Background(), "fileops.search_file")
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "fileops.search_file", spans[0].Name())
}

func TestMetricsHandler(t *testing.T) {
	promauto.NewCounter(prometheus.CounterOpts{
		Name: "filetools_tracing_test_total",
		Help: "Counter registered by the metrics handler test",
	}).Inc()

	rec := httptest.NewRecorder()
	MetricsHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "filetools_tracing_test_total 1"))
}
