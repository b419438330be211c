// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
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

package metadata

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Parse and re-parse outcomes, labeled ok or by lower-cased error code
	parseTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipekit_metadata_parse_total",
			Help: "Total number of recipe parses by result",
		},
		[]string{"result"},
	)

	parseDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recipekit_metadata_parse_duration_seconds",
			Help:    "Duration of recipe parsing in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		},
	)
)
