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
	"testing"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Version
		wantErr  error
	}{
		{name: "major only", input: "1", expected: Version{Major: 1, Precision: 1}},
		{name: "major.minor", input: "1.8", expected: Version{Major: 1, Minor: 8, Precision: 2}},
		{name: "full", input: "1.9.1", expected: Version{Major: 1, Minor: 9, Patch: 1, Precision: 3}},
		{name: "v prefix", input: "v2.7.8", expected: Version{Major: 2, Minor: 7, Patch: 8, Precision: 3}},
		{name: "extras", input: "1.10.4-1", expected: Version{Major: 1, Minor: 10, Patch: 4, Precision: 3, Extras: "-1"}},
		{name: "empty", input: "", wantErr: ErrEmptyVersion},
		{name: "too many", input: "1.2.3.4", wantErr: ErrTooManyComponents},
		{name: "non numeric", input: "1.x", wantErr: ErrNonNumeric},
		{name: "leading period", input: ".ste.ve", wantErr: ErrNonNumeric},
		{name: "negative", input: "-1", wantErr: ErrNegativeComponent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseVersion(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseVersion(%q) error = %v, want %v", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseVersion(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("ParseVersion(%q) = %+v, want %+v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseCompact(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "27", want: "2.7"},
		{input: "35", want: "3.5"},
		{input: "18", want: "1.8"},
		{input: "110", want: "1.10"},
		{input: "312", want: "3.12"},
		{input: "3", want: "3"},
		{input: " 17 ", want: "1.7"},
		{input: "", wantErr: true},
		{input: "2.7", wantErr: true},
		{input: "py27", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCompact(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCompact(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got.String() != tt.want {
				t.Errorf("ParseCompact(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "3.4", want: "3.4"},
		{input: "2.7", want: "2.7"},
		{input: "27", want: "2.7"},
		{input: "110", want: "1.10"},
		{input: "1.10.x", want: "1.10.x"},
		{input: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Normalize(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Normalize(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCompact(t *testing.T) {
	tests := []struct {
		v    Version
		want string
	}{
		{v: MustParseVersion("2.7"), want: "27"},
		{v: MustParseVersion("1.10"), want: "110"},
		{v: MustParseVersion("3"), want: "3"},
		{v: MustParseVersion("3.11.4"), want: "311"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.v.Compact(); got != tt.want {
				t.Errorf("Compact() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{a: "1.8", b: "1.8.2", want: 0},
		{a: "1.8.2", b: "1.8.3", want: -1},
		{a: "1.10", b: "1.9", want: 1},
		{a: "2", b: "1.99.99", want: 1},
		{a: "1", b: "1.5.0", want: 0},
		{a: "3.4.0", b: "3.4.0", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_vs_"+tt.b, func(t *testing.T) {
			got := MustParseVersion(tt.a).Compare(MustParseVersion(tt.b))
			if got != tt.want {
				t.Errorf("Compare(%s, %s) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestMustParseVersionPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	MustParseVersion("not-a-version")
}
