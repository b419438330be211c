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

package matchspec

import (
	"strings"

	"github.com/mchmarny/recipekit/pkg/version"
)

// Operator is a comparison operator in a version constraint clause.
type Operator string

const (
	OperatorGTE   Operator = ">="
	OperatorLTE   Operator = "<="
	OperatorEQ    Operator = "=="
	OperatorNE    Operator = "!="
	OperatorGT    Operator = ">"
	OperatorLT    Operator = "<"
	OperatorFuzzy Operator = "="
	OperatorExact Operator = ""
)

// longest first so ">=" is not read as ">"
var operators = []Operator{OperatorGTE, OperatorLTE, OperatorEQ, OperatorNE, OperatorGT, OperatorLT, OperatorFuzzy}

// Match reports whether candidate satisfies the version constraint. The
// constraint is a '|' separated list of alternatives, each a ',' separated
// list of clauses that must all hold. A spec without a version matches
// every candidate.
func (m *MatchSpec) Match(candidate string) bool {
	if m.Version == "" {
		return true
	}
	for _, alt := range strings.Split(m.Version, "|") {
		if matchAll(alt, candidate) {
			return true
		}
	}
	return false
}

func matchAll(alt, candidate string) bool {
	for _, clause := range strings.Split(alt, ",") {
		if !matchClause(strings.TrimSpace(clause), candidate) {
			return false
		}
	}
	return true
}

func matchClause(clause, candidate string) bool {
	op := OperatorExact
	for _, o := range operators {
		if strings.HasPrefix(clause, string(o)) {
			op = o
			clause = strings.TrimSpace(strings.TrimPrefix(clause, string(o)))
			break
		}
	}

	switch op {
	case OperatorExact, OperatorEQ:
		if strings.HasSuffix(clause, "*") {
			return matchPrefix(clause, candidate)
		}
		return candidate == clause
	case OperatorFuzzy:
		return matchPrefix(clause, candidate)
	case OperatorNE:
		return candidate != clause
	case OperatorGTE:
		return compare(candidate, clause) >= 0
	case OperatorGT:
		return compare(candidate, clause) > 0
	case OperatorLTE:
		return compare(candidate, clause) <= 0
	case OperatorLT:
		return compare(candidate, clause) < 0
	default:
		return false
	}
}

// matchPrefix matches on whole components: "1.8*" accepts 1.8 and 1.8.2 but not 1.80.
func matchPrefix(pattern, candidate string) bool {
	prefix := strings.TrimSuffix(strings.TrimSuffix(pattern, "*"), ".")
	if prefix == "" {
		return true
	}
	return candidate == prefix || strings.HasPrefix(candidate, prefix+".")
}

// compare orders numerically when both sides parse and lexically otherwise.
func compare(a, b string) int {
	va, errA := version.ParseVersion(a)
	vb, errB := version.ParseVersion(b)
	if errA == nil && errB == nil {
		return va.Compare(vb)
	}
	return strings.Compare(a, b)
}
