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

package search

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	filesScanned = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filetools_search_files_evaluated_total",
			Help: "Candidate files evaluated by searches",
		},
		[]string{"search_by"},
	)

	filesSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filetools_search_files_skipped_total",
			Help: "Candidate files skipped during content searches",
		},
		[]string{"reason"},
	)
)
