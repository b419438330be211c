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

package version

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Error types for version parsing failures
var (
	ErrEmptyVersion      = errors.New("version string is empty")
	ErrTooManyComponents = errors.New("version has more than 3 components")
	ErrNonNumeric        = errors.New("version component is not numeric")
	ErrNegativeComponent = errors.New("version component cannot be negative")
)

// Version represents a numeric version with Major, Minor, and Patch components.
// It supports flexible precision (1, 2, or 3 components) and preserves trailing
// metadata such as local build suffixes (e.g., "-1", "+cuda").
// The Precision field indicates how many components are significant for comparisons.
type Version struct {
	Major int `json:"major,omitempty" yaml:"major,omitempty"`
	Minor int `json:"minor,omitempty" yaml:"minor,omitempty"`
	Patch int `json:"patch,omitempty" yaml:"patch,omitempty"`

	// Precision indicates how many components are significant (1, 2, or 3)
	Precision int `json:"precision,omitempty" yaml:"precision,omitempty"`

	// Extras stores additional version metadata like "-1" or "+cuda"
	Extras string `json:"extras,omitempty" yaml:"extras,omitempty"`
}

// String returns the string representation of the Version respecting its precision.
// Returns "Major" for precision 1, "Major.Minor" for precision 2,
// and "Major.Minor.Patch" for precision 3. Extras are not included.
func (v Version) String() string {
	switch v.Precision {
	case 1:
		return strconv.Itoa(v.Major)
	case 2:
		return fmt.Sprintf("%d.%d", v.Major, v.Minor)
	default:
		return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	}
}

// ParseVersion parses a version string into a Version struct.
// Supported formats: "1", "1.2", "1.2.3", "v1.2.3", "1.2.3-suffix", "1.2.3+metadata".
// The "v" prefix is optional and stripped if present.
// Additional metadata after '-' or '+' is preserved in the Extras field.
func ParseVersion(s string) (Version, error) {
	if s == "" {
		return Version{}, ErrEmptyVersion
	}

	s = strings.TrimPrefix(s, "v")
	var v Version

	// Extras start at a '-' or '+' that follows a digit, so "-1" alone stays
	// a (negative) component rather than an extra.
	mainPart := s
	for i, ch := range s {
		if (ch == '-' || ch == '+') && i > 0 {
			prevCh := s[i-1]
			if prevCh >= '0' && prevCh <= '9' {
				mainPart = s[:i]
				v.Extras = s[i:]
				break
			}
		}
	}

	parts := strings.Split(mainPart, ".")
	if len(parts) > 3 {
		return Version{}, ErrTooManyComponents
	}

	for i, part := range parts {
		if part == "" {
			return Version{}, fmt.Errorf("%w: empty component", ErrNonNumeric)
		}
		num, err := strconv.Atoi(part)
		if err != nil {
			return Version{}, fmt.Errorf("%w: %q", ErrNonNumeric, part)
		}
		if num < 0 {
			return Version{}, fmt.Errorf("%w: %d", ErrNegativeComponent, num)
		}

		switch i {
		case 0:
			v.Major = num
		case 1:
			v.Minor = num
		case 2:
			v.Patch = num
		}
	}

	v.Precision = len(parts)
	return v, nil
}

// MustParseVersion parses a version string and panics if parsing fails.
// Only use this for hardcoded strings or in tests.
func MustParseVersion(s string) Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(fmt.Sprintf("MustParseVersion: %v", err))
	}
	return v
}

// ParseCompact parses the compact digit form used by build configurations
// (CONDA_PY=27, CONDA_NPY=110). The first digit is the major component and
// the remaining digits the minor: "27" is 2.7, "110" is 1.10, "3" is 3.
func ParseCompact(s string) (Version, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Version{}, ErrEmptyVersion
	}
	for _, ch := range s {
		if ch < '0' || ch > '9' {
			return Version{}, fmt.Errorf("%w: %q", ErrNonNumeric, s)
		}
	}

	major, _ := strconv.Atoi(s[:1])
	if len(s) == 1 {
		return Version{Major: major, Precision: 1}, nil
	}
	minor, err := strconv.Atoi(s[1:])
	if err != nil {
		return Version{}, fmt.Errorf("%w: %q", ErrNonNumeric, s)
	}
	return Version{Major: major, Minor: minor, Precision: 2}, nil
}

// Normalize renders a configured version in dotted form. Values that already
// contain a '.' are returned unchanged; compact digit forms go through
// ParseCompact.
func Normalize(s string) (string, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ".") {
		return s, nil
	}
	v, err := ParseCompact(s)
	if err != nil {
		return "", err
	}
	return v.String(), nil
}

// Compact renders v in the compact digit form, the inverse of ParseCompact
// for precision 1 and 2 versions: 2.7 is "27", 1.10 is "110".
func (v Version) Compact() string {
	if v.Precision == 1 {
		return strconv.Itoa(v.Major)
	}
	return fmt.Sprintf("%d%d", v.Major, v.Minor)
}

// Compare returns an integer comparing two versions:
// -1 if v < other, 0 if v == other, 1 if v > other.
// Only the components significant in both versions are compared, so 1.2
// compares equal to 1.2.7.
func (v Version) Compare(other Version) int {
	precision := min(v.Precision, other.Precision)

	if c := compareInt(v.Major, other.Major); c != 0 || precision == 1 {
		return c
	}
	if c := compareInt(v.Minor, other.Minor); c != 0 || precision == 2 {
		return c
	}
	return compareInt(v.Patch, other.Patch)
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
