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

package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"runtime"
	"strings"

	"github.com/mchmarny/recipekit/pkg/errors"
	"github.com/mchmarny/recipekit/pkg/selector"
	"github.com/mchmarny/recipekit/pkg/serializer"
	"github.com/mchmarny/recipekit/pkg/version"
)

// Environment variables read by New.
const (
	EnvSubdir   = "RECIPEKIT_SUBDIR"
	EnvPython   = "CONDA_PY"
	EnvNumPy    = "CONDA_NPY"
	EnvFeatures = "RECIPEKIT_FEATURES"
)

// Defaults used when neither a file nor the environment sets a value.
const (
	DefaultPython = "3.11"
	DefaultNumPy  = "1.26"
)

// Platforms known to selector namespaces.
const (
	PlatformLinux = "linux"
	PlatformOSX   = "osx"
	PlatformWin   = "win"
)

var featureNameRe = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Config is the build configuration a recipe is rendered against.
type Config struct {
	// Platform is the target platform (linux, osx, win).
	Platform string `json:"platform" yaml:"platform"`

	// Arch is the target architecture as it appears in the subdir
	// (64, 32, aarch64, arm64, ppc64le, armv7l, s390x).
	Arch string `json:"arch" yaml:"arch"`

	// Python is the configured python version, dotted (3.11) or compact (311).
	Python string `json:"python,omitempty" yaml:"python,omitempty"`

	// NumPy is the configured numpy version, dotted (1.26) or compact (126).
	NumPy string `json:"numpy,omitempty" yaml:"numpy,omitempty"`

	// Features are additional selector names and their values.
	Features map[string]bool `json:"features,omitempty" yaml:"features,omitempty"`

	// envErr records an environment value New could not apply.
	envErr error
}

// New returns a Config for the host platform with default versions,
// overridden by environment variables when set.
func New() *Config {
	cfg := &Config{
		Platform: hostPlatform(),
		Arch:     hostArch(),
		Python:   DefaultPython,
		NumPy:    DefaultNumPy,
		Features: map[string]bool{},
	}
	cfg.applyEnv()
	return cfg
}

// Load reads a YAML or JSON config file over the defaults returned by New.
// The format is taken from the file extension; YAML is the default.
func Load(path string) (*Config, error) {
	cfg := New()

	reader, err := serializer.NewFileReaderAuto(path)
	if err != nil {
		code := errors.ErrCodeConfiguration
		if stderrors.Is(err, fs.ErrNotExist) {
			code = errors.ErrCodeNotFound
		}
		return nil, errors.WrapWithContext(code, "failed to read config file", err, map[string]any{"path": path})
	}
	defer reader.Close()

	if err := reader.Deserialize(cfg); err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeConfiguration,
			"failed to parse config file", err, map[string]any{"path": path})
	}
	if cfg.Features == nil {
		cfg.Features = map[string]bool{}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvSubdir); v != "" {
		// An unparsable subdir leaves the host values in place; Validate reports it.
		if err := c.SetSubdir(v); err != nil {
			c.envErr = errors.WrapWithContext(errors.ErrCodeConfiguration,
				"invalid "+EnvSubdir, err, map[string]any{"value": v})
		}
	}
	if v := os.Getenv(EnvPython); v != "" {
		c.Python = v
	}
	if v := os.Getenv(EnvNumPy); v != "" {
		c.NumPy = v
	}
	if v := os.Getenv(EnvFeatures); v != "" {
		for name, val := range ParseFeatures(strings.Split(v, ",")) {
			c.Features[name] = val
		}
	}
}

// ParseFeatures parses "name" and "name=bool" items into a feature map.
// Blank items are skipped; values other than false/0/no/off are true.
func ParseFeatures(items []string) map[string]bool {
	res := make(map[string]bool, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		name, val, found := strings.Cut(item, "=")
		name = strings.TrimSpace(name)
		if !found {
			res[name] = true
			continue
		}
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "false", "0", "no", "off":
			res[name] = false
		default:
			res[name] = true
		}
	}
	return res
}

// Subdir renders the platform and architecture as a package subdir, e.g. linux-64.
func (c *Config) Subdir() string {
	return c.Platform + "-" + c.Arch
}

// SetSubdir sets platform and architecture from a subdir string such as osx-arm64.
func (c *Config) SetSubdir(subdir string) error {
	platform, arch, ok := strings.Cut(strings.TrimSpace(subdir), "-")
	if !ok || platform == "" || arch == "" {
		return errors.NewWithContext(errors.ErrCodeConfiguration,
			"invalid subdir, expected <platform>-<arch>", map[string]any{"subdir": subdir})
	}
	c.Platform = platform
	c.Arch = arch
	return nil
}

// Validate checks the configuration for values a build cannot use.
func (c *Config) Validate() error {
	if c.envErr != nil {
		return c.envErr
	}
	switch c.Platform {
	case PlatformLinux, PlatformOSX, PlatformWin:
	default:
		return errors.NewWithContext(errors.ErrCodeConfiguration,
			"unsupported platform", map[string]any{"platform": c.Platform})
	}
	if c.Arch == "" {
		return errors.New(errors.ErrCodeConfiguration, "architecture is required")
	}
	for _, v := range []struct{ name, value string }{{"python", c.Python}, {"numpy", c.NumPy}} {
		if v.value == "" {
			continue
		}
		if _, err := parseConfigured(v.value); err != nil {
			return errors.WrapWithContext(errors.ErrCodeConfiguration,
				fmt.Sprintf("invalid %s version", v.name), err, map[string]any{"value": v.value})
		}
	}
	for name := range c.Features {
		if !featureNameRe.MatchString(name) {
			return errors.NewWithContext(errors.ErrCodeConfiguration,
				"invalid feature name", map[string]any{"feature": name})
		}
	}
	return nil
}

// Namespace derives the selector namespace for this configuration. Feature
// flags are applied last and may override derived names.
func (c *Config) Namespace() selector.Namespace {
	subdir := c.Subdir()
	linux := c.Platform == PlatformLinux
	osx := c.Platform == PlatformOSX

	ns := selector.Namespace{
		"linux":   linux,
		"linux32": subdir == "linux-32",
		"linux64": subdir == "linux-64",
		"osx":     osx,
		"unix":    linux || osx,
		"win":     c.Platform == PlatformWin,
		"win32":   subdir == "win-32",
		"win64":   subdir == "win-64",
		"x86":     c.Arch == "32" || c.Arch == "64",
		"x86_64":  c.Arch == "64",
		"arm64":   c.Arch == "arm64",
		"aarch64": c.Arch == "aarch64",
		"ppc64le": c.Arch == "ppc64le",
		"armv7l":  c.Arch == "armv7l",
		"s390x":   c.Arch == "s390x",
	}

	if v, err := parseConfigured(c.Python); err == nil {
		ns["py2k"] = v.Major == 2
		ns["py3k"] = v.Major == 3
		ns["py"+v.Compact()] = true
	}
	if v, err := parseConfigured(c.NumPy); err == nil {
		ns["np"+v.Compact()] = true
	}

	for name, val := range c.Features {
		ns[name] = val
	}
	return ns
}

// PythonVersion returns the configured python version as given, empty when unset.
func (c *Config) PythonVersion() string {
	return c.Python
}

// NumPyVersion returns the configured numpy version as given, empty when unset.
func (c *Config) NumPyVersion() string {
	return c.NumPy
}

// ConfiguredVersion returns the configured version for a package name, or
// nil when the configuration does not carry one.
func (c *Config) ConfiguredVersion(name string) any {
	var v string
	switch name {
	case "python":
		v = c.Python
	case "numpy":
		v = c.NumPy
	}
	if v == "" {
		return nil
	}
	return v
}

// parseConfigured reads a dotted or compact configured version.
func parseConfigured(s string) (version.Version, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ".") {
		return version.ParseVersion(s)
	}
	return version.ParseCompact(s)
}

func hostPlatform() string {
	switch runtime.GOOS {
	case "darwin":
		return PlatformOSX
	case "windows":
		return PlatformWin
	default:
		return PlatformLinux
	}
}

func hostArch() string {
	switch runtime.GOARCH {
	case "386":
		return "32"
	case "arm64":
		if runtime.GOOS == "darwin" || runtime.GOOS == "windows" {
			return "arm64"
		}
		return "aarch64"
	case "arm":
		return "armv7l"
	case "ppc64le", "s390x":
		return runtime.GOARCH
	default:
		return "64"
	}
}
