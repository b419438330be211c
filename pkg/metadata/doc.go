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

// Package metadata turns recipe text into a validated package description.
//
// Parsing runs in three steps: selector evaluation against the namespace of
// a config.Config, YAML decoding, and a validation pipeline that normalizes
// field types, checks names, versions and feature names, and reconciles
// python and numpy requirements with the configured versions.
//
// Usage:
//
//	cfg := config.New()
//	m, err := metadata.LoadFile("recipes/zlib/meta.yaml", cfg)
//	if err != nil {
//	    return err
//	}
//	dist, err := m.Dist() // zlib-1.3-0
//
// Callers may edit Meta directly and call ParseAgain, or use Set, which
// does both:
//
//	if err := m.Set("build/features", []string{"ab-c"}); err != nil {
//	    // errors.ErrCodeValidation
//	}
//
// Validation failures carry errors.ErrCodeValidation. Wildcard requirements
// without a configured version fail with errors.ErrCodeConfiguration, and
// malformed requirement strings fail with errors.ErrCodeInvalidSpec.
package metadata
