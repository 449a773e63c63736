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

package fileops

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	operationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "filetools_operation_duration_seconds",
			Help:    "Duration of file tool operations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "status"},
	)

	bytesRead = promauto.NewCounter(prometheus.CounterOpts{
		Name: "filetools_bytes_read_total",
		Help: "Total bytes read from files",
	})

	bytesWritten = promauto.NewCounter(prometheus.CounterOpts{
		Name: "filetools_bytes_written_total",
		Help: "Total bytes written to files",
	})

	errorsByKind = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filetools_operation_errors_total",
			Help: "Total failed operations by error kind",
		},
		[]string{"operation", "code"},
	)
)

// recordMetrics records metrics for a finished operation
func recordMetrics(operation string, duration float64, env *Envelope) {
	status := "success"
	if !env.Success {
		status = "error"
		errorsByKind.WithLabelValues(operation, string(env.Code)).Inc()
	}
	operationDuration.WithLabelValues(operation, status).Observe(duration)
}
