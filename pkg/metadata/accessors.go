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
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/mchmarny/recipekit/pkg/config"
	"github.com/mchmarny/recipekit/pkg/errors"
	"github.com/mchmarny/recipekit/pkg/matchspec"
	"github.com/mchmarny/recipekit/pkg/pin"
)

// PackageExt is the extension of built package archives.
const PackageExt = ".tar.bz2"

const badChars = `=@#$%^&*:;"'\|<>?/ `

// About is the about section of a recipe.
type About struct {
	Home          string `json:"home,omitempty" yaml:"home,omitempty"`
	DevURL        string `json:"devUrl,omitempty" yaml:"dev_url,omitempty"`
	DocURL        string `json:"docUrl,omitempty" yaml:"doc_url,omitempty"`
	License       string `json:"license,omitempty" yaml:"license,omitempty"`
	LicenseFamily string `json:"licenseFamily,omitempty" yaml:"license_family,omitempty"`
	LicenseFile   string `json:"licenseFile,omitempty" yaml:"license_file,omitempty"`
	Summary       string `json:"summary,omitempty" yaml:"summary,omitempty"`
	Description   string `json:"description,omitempty" yaml:"description,omitempty"`
}

// buildIDPrefixes contribute a short version tag to the build id when the
// package has a run requirement on them, e.g. py27 or np110.
var buildIDPrefixes = []struct {
	name   string
	prefix string
	// raw keeps the version as written instead of <major><minor>.
	raw bool
	// bare adds the prefix even when the requirement has no version.
	bare bool
}{
	{name: "numpy", prefix: "np"},
	{name: "python", prefix: "py", bare: true},
	{name: "perl", prefix: "pl", raw: true, bare: true},
	{name: "lua", prefix: "lua", raw: true, bare: true},
	{name: "r", prefix: "r", raw: true, bare: true},
}

var buildIDVersionRe = regexp.MustCompile(`^(?:==)?(\d+)\.(\d+)`)

// Config returns the configuration the recipe was rendered against.
func (m *MetaData) Config() *config.Config {
	return m.cfg
}

// Path returns the file the recipe was read from, if any.
func (m *MetaData) Path() string {
	return m.path
}

// Value returns the value at a "section/key" path, or nil.
func (m *MetaData) Value(path string) any {
	_, _, v, _ := m.lookup(path)
	return v
}

// Section returns a copy of the named section, or nil when absent.
func (m *MetaData) Section(name string) map[string]any {
	sec, ok := m.Meta[name]
	if !ok {
		return nil
	}
	return maps.Clone(sec)
}

// Name returns the package name. It fails when the name is missing, not
// lower case or contains characters not allowed in a package name.
func (m *MetaData) Name() (string, error) {
	name := m.stringValue("package/name")
	if name == "" {
		return "", errors.NewWithContext(errors.ErrCodeValidation,
			"missing required field", map[string]any{"field": "package/name"})
	}
	if name != strings.ToLower(name) {
		return "", errors.NewWithContext(errors.ErrCodeValidation,
			"package name must be lower case", map[string]any{"name": name})
	}
	if err := checkBadChars(name, "package/name"); err != nil {
		return "", err
	}
	return name, nil
}

// Version returns the package version. It fails when the version is
// missing, starts with a period or contains characters not allowed in a
// version.
func (m *MetaData) Version() (string, error) {
	v := m.stringValue("package/version")
	if v == "" {
		return "", errors.NewWithContext(errors.ErrCodeValidation,
			"missing required field", map[string]any{"field": "package/version"})
	}
	if strings.HasPrefix(v, ".") {
		return "", errors.NewWithContext(errors.ErrCodeValidation,
			"version must not start with a period", map[string]any{"version": v})
	}
	if err := checkBadChars(v, "package/version"); err != nil {
		return "", err
	}
	return v, nil
}

// BuildNumber returns build/number, 0 when absent.
func (m *MetaData) BuildNumber() int {
	switch v := m.Value("build/number").(type) {
	case int:
		return v
	case string:
		n, _ := strconv.Atoi(strings.TrimSpace(v))
		return n
	default:
		return 0
	}
}

// Features returns build/features.
func (m *MetaData) Features() []string {
	return m.stringList("build/features")
}

// EntryPoints returns build/entry_points.
func (m *MetaData) EntryPoints() []string {
	return m.stringList("build/entry_points")
}

// TestCommands returns test/commands.
func (m *MetaData) TestCommands() []string {
	return m.stringList("test/commands")
}

// Skip reports whether build/skip is set.
func (m *MetaData) Skip() bool {
	return m.boolValue("build/skip")
}

// NoarchPython reports whether build/noarch_python is set.
func (m *MetaData) NoarchPython() bool {
	return m.boolValue("build/noarch_python")
}

// About returns the about section.
func (m *MetaData) About() About {
	return About{
		Home:          m.stringValue("about/home"),
		DevURL:        m.stringValue("about/dev_url"),
		DocURL:        m.stringValue("about/doc_url"),
		License:       m.stringValue("about/license"),
		LicenseFamily: m.stringValue("about/license_family"),
		LicenseFile:   m.stringValue("about/license_file"),
		Summary:       m.stringValue("about/summary"),
		Description:   m.stringValue("about/description"),
	}
}

// Requirements returns the reconciled requirements for role as of the last
// successful parse.
func (m *MetaData) Requirements(role pin.Role) []*matchspec.MatchSpec {
	return slices.Clone(m.requirements[role])
}

// BuildID returns build/string when set. Otherwise it is derived from the
// run requirements and features, e.g. np110py27_1 or py34_0.
func (m *MetaData) BuildID() string {
	if s := m.stringValue("build/string"); s != "" {
		return s
	}

	var b strings.Builder
	run := m.requirements[pin.RoleRun]
	for _, p := range buildIDPrefixes {
		idx := slices.IndexFunc(run, func(ms *matchspec.MatchSpec) bool { return ms.Name == p.name })
		if idx < 0 {
			continue
		}
		v := run[idx].Version
		if v == "" {
			if p.bare {
				b.WriteString(p.prefix)
			}
			continue
		}
		if strings.ContainsAny(v, ",|>!<") {
			continue
		}
		if p.raw {
			b.WriteString(p.prefix + strings.Trim(v, "*"))
			continue
		}
		if match := buildIDVersionRe.FindStringSubmatch(v); match != nil {
			b.WriteString(p.prefix + match[1] + match[2])
		}
	}

	if b.Len() > 0 {
		b.WriteString("_")
	}
	if features := m.Features(); len(features) > 0 {
		b.WriteString(strings.Join(features, "_"))
		b.WriteString("_")
	}
	b.WriteString(strconv.Itoa(m.BuildNumber()))
	return b.String()
}

// Dist returns the distribution name: <name>-<version>-<build id>.
func (m *MetaData) Dist() (string, error) {
	name, err := m.Name()
	if err != nil {
		return "", err
	}
	v, err := m.Version()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%s-%s", name, v, m.BuildID()), nil
}

// PkgFilename returns the package archive file name for Dist.
func (m *MetaData) PkgFilename() (string, error) {
	dist, err := m.Dist()
	if err != nil {
		return "", err
	}
	return dist + PackageExt, nil
}

func (m *MetaData) stringValue(path string) string {
	switch v := m.Value(path).(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func (m *MetaData) stringList(path string) []string {
	list, err := toStringList(m.Value(path))
	if err != nil {
		return []string{}
	}
	return list
}

func (m *MetaData) boolValue(path string) bool {
	b, err := toBool(m.Value(path), boolFields[path])
	if err != nil {
		return boolFields[path]
	}
	return b
}

// checkBadChars rejects characters that would break file names or match
// specs. Versions and build strings also reject '-', the dist separator.
func checkBadChars(s, field string) error {
	bad := badChars
	if field == "package/version" || field == "build/string" {
		bad += "-"
	}
	if i := strings.IndexAny(s, bad); i >= 0 {
		return errors.NewWithContext(errors.ErrCodeValidation,
			"bad character in field", map[string]any{"field": field, "value": s, "char": string(s[i])})
	}
	return nil
}
