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
	"testing"
)

// FuzzParseVersion checks that configured and pinned versions never panic
// and that successfully parsed values round-trip through String.
func FuzzParseVersion(f *testing.F) {
	for _, seed := range []string{
		"2.7", "3.11", "1.10", "1.26.4", "v3", "0", "",
		".", "1.", ".1", "1..2", "1.2.3.4", "-1", "a.b", " 2.7 ", "2.7*",
	} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, input string) {
		v, err := ParseVersion(input)
		if err != nil {
			return
		}
		if v.Major < 0 || v.Minor < 0 || v.Patch < 0 {
			t.Errorf("ParseVersion(%q) returned negative component: %+v", input, v)
		}
		if v.Precision < 1 || v.Precision > 3 {
			t.Errorf("ParseVersion(%q) returned precision %d", input, v.Precision)
		}

		v2, err := ParseVersion(v.String())
		if err != nil {
			t.Errorf("re-parsing %q (from %q) failed: %v", v.String(), input, err)
			return
		}
		if v.Major != v2.Major || v.Minor != v2.Minor || v.Patch != v2.Patch || v.Precision != v2.Precision {
			t.Errorf("round-trip mismatch for %q: %+v != %+v", input, v, v2)
		}
		if v.Compare(v2) != 0 {
			t.Errorf("%q does not compare equal to its round-trip", input)
		}
	})
}

// FuzzParseCompact checks that compact forms never panic and that
// successfully parsed values round-trip through Compact.
func FuzzParseCompact(f *testing.F) {
	f.Add("27")
	f.Add("3")
	f.Add("110")
	f.Add("")
	f.Add("2.7")
	f.Add("x")
	f.Add("007")

	f.Fuzz(func(t *testing.T, input string) {
		v, err := ParseCompact(input)
		if err != nil {
			return
		}
		if v.Major < 0 || v.Minor < 0 || v.Precision < 1 || v.Precision > 2 {
			t.Errorf("ParseCompact(%q) returned invalid version: %+v", input, v)
		}
		v2, err := ParseCompact(v.Compact())
		if err != nil {
			t.Errorf("re-parsing %q (from %q) failed: %v", v.Compact(), input, err)
			return
		}
		if v.Major != v2.Major || v.Minor != v2.Minor || v.Precision != v2.Precision {
			t.Errorf("round-trip mismatch for %q: %+v != %+v", input, v, v2)
		}
	})
}
