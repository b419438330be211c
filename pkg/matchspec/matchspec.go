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

	"gopkg.in/yaml.v3"

	"github.com/mchmarny/recipekit/pkg/errors"
)

// badChars may not appear in a package name.
const badChars = `=!@#$%^&*:;"'\|<>?/`

// MatchSpec is a parsed dependency specification: a package name with an
// optional version constraint and an optional build string.
type MatchSpec struct {
	Name    string
	Version string
	Build   string
}

// Parse parses a whitespace separated "name [version [build]]" string.
func Parse(s string) (*MatchSpec, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidSpec, "empty package specification")
	}
	if len(fields) > 3 {
		return nil, errors.NewWithContext(errors.ErrCodeInvalidSpec,
			"too many fields in package specification", map[string]any{"spec": s})
	}
	if strings.ContainsAny(fields[0], badChars) {
		return nil, errors.NewWithContext(errors.ErrCodeInvalidSpec,
			"bad character in package name", map[string]any{"spec": s})
	}

	ms := &MatchSpec{Name: fields[0]}
	if len(fields) > 1 {
		ms.Version = fields[1]
	}
	if len(fields) > 2 {
		ms.Build = fields[2]
	}
	return ms, nil
}

// MustParse parses s and panics on error. Only use this for hardcoded strings or in tests.
func MustParse(s string) *MatchSpec {
	ms, err := Parse(s)
	if err != nil {
		panic("matchspec.MustParse: " + err.Error())
	}
	return ms
}

// New composes a MatchSpec from its parts.
func New(name, version, build string) *MatchSpec {
	return &MatchSpec{Name: name, Version: version, Build: build}
}

// Strictness is the number of parts given: 1 (name), 2 (name and version)
// or 3 (name, version and build).
func (m *MatchSpec) Strictness() int {
	switch {
	case m.Build != "":
		return 3
	case m.Version != "":
		return 2
	default:
		return 1
	}
}

// Equal reports whether both specs have the same name, version and build.
func (m *MatchSpec) Equal(other *MatchSpec) bool {
	if m == nil || other == nil {
		return m == other
	}
	return m.Name == other.Name && m.Version == other.Version && m.Build == other.Build
}

// String renders the spec in its "name version build" form.
func (m *MatchSpec) String() string {
	parts := []string{m.Name}
	if m.Version != "" {
		parts = append(parts, m.Version)
	}
	if m.Build != "" {
		parts = append(parts, m.Build)
	}
	return strings.Join(parts, " ")
}

// MarshalYAML implements yaml.Marshaler.
func (m *MatchSpec) MarshalYAML() (any, error) {
	return m.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (m *MatchSpec) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*m = *parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler so specs render as strings in JSON.
func (m *MatchSpec) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}
