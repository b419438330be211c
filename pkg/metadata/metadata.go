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
	"log/slog"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mchmarny/recipekit/pkg/config"
	"github.com/mchmarny/recipekit/pkg/errors"
	"github.com/mchmarny/recipekit/pkg/matchspec"
	"github.com/mchmarny/recipekit/pkg/pin"
	"github.com/mchmarny/recipekit/pkg/selector"
)

var featureRe = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Option configures a MetaData.
type Option func(*MetaData)

// WithRawText sets the unprocessed recipe text scanned for VCS usage.
// Parse sets it from its input; FromMap callers pass it explicitly.
func WithRawText(text []byte) Option {
	return func(m *MetaData) {
		m.rawText = text
	}
}

// WithBuildScript sets the build script content scanned by UsesVCSInBuild.
func WithBuildScript(script []byte) Option {
	return func(m *MetaData) {
		m.buildScript = script
	}
}

// WithLogger sets the logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(m *MetaData) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithPath records the file the recipe was read from.
func WithPath(path string) Option {
	return func(m *MetaData) {
		m.path = path
	}
}

// MetaData is a parsed and validated recipe.
//
// A MetaData is not safe for concurrent mutation. Distinct instances may be
// used from different goroutines.
type MetaData struct {
	// Meta holds the recipe keyed by section, then field. Callers may
	// mutate it and then call ParseAgain to re-validate.
	Meta map[string]map[string]any

	cfg         *config.Config
	path        string
	rawText     []byte
	buildScript []byte
	logger      *slog.Logger

	requirements map[pin.Role][]*matchspec.MatchSpec
}

func newMetaData(cfg *config.Config, opts ...Option) *MetaData {
	if cfg == nil {
		cfg = config.New()
	}
	m := &MetaData{
		cfg:    cfg,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Parse evaluates selectors in the recipe text under the namespace of cfg,
// decodes the result as YAML and validates it. A nil cfg uses config.New().
func Parse(text []byte, cfg *config.Config, opts ...Option) (*MetaData, error) {
	start := time.Now()
	defer func() { parseDuration.Observe(time.Since(start).Seconds()) }()

	m := newMetaData(cfg, append([]Option{WithRawText(text)}, opts...)...)

	evaluated := selector.Evaluate(string(text), m.cfg.Namespace())

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(evaluated), &doc); err != nil {
		err = errors.WrapWithContext(errors.ErrCodeValidation, "failed to decode recipe", err,
			map[string]any{"path": m.path})
		parseTotal.WithLabelValues(resultLabel(err)).Inc()
		return nil, err
	}

	var raw map[string]any
	switch v := nodeValue(&doc).(type) {
	case nil:
	case map[string]any:
		raw = v
	default:
		err := errors.NewWithContext(errors.ErrCodeValidation, "recipe must be a mapping",
			map[string]any{"path": m.path})
		parseTotal.WithLabelValues(resultLabel(err)).Inc()
		return nil, err
	}

	sections, err := toSections(raw)
	if err != nil {
		parseTotal.WithLabelValues(resultLabel(err)).Inc()
		return nil, err
	}
	m.Meta = sections

	if err := m.ParseAgain(); err != nil {
		return nil, err
	}
	return m, nil
}

// FromMap builds a MetaData from an already decoded recipe. Every string
// value is passed through selector evaluation under the namespace of cfg:
// multi-line strings line by line, single-line values and list items are
// kept without their annotation or dropped.
// A nil cfg uses config.New().
func FromMap(raw map[string]any, cfg *config.Config, opts ...Option) (*MetaData, error) {
	start := time.Now()
	defer func() { parseDuration.Observe(time.Since(start).Seconds()) }()

	m := newMetaData(cfg, opts...)
	ns := m.cfg.Namespace()

	selected := make(map[string]any, len(raw))
	for k, v := range raw {
		if nv, keep := applySelectors(v, ns); keep {
			selected[k] = nv
		}
	}

	sections, err := toSections(selected)
	if err != nil {
		parseTotal.WithLabelValues(resultLabel(err)).Inc()
		return nil, err
	}
	m.Meta = sections

	if err := m.ParseAgain(); err != nil {
		return nil, err
	}
	return m, nil
}

// ParseAgain re-runs normalization and validation over Meta. It surfaces
// the same errors as Parse and FromMap. On failure the contents of Meta
// are unspecified.
func (m *MetaData) ParseAgain() error {
	err := m.parse()
	parseTotal.WithLabelValues(resultLabel(err)).Inc()
	if err != nil {
		m.logger.Debug("recipe validation failed", "path", m.path, "error", err)
		return err
	}
	m.logger.Debug("recipe parsed",
		"path", m.path,
		"name", m.stringValue("package/name"),
		"version", m.stringValue("package/version"),
		"subdir", m.cfg.Subdir())
	return nil
}

// Set assigns value to the "section/key" path and re-parses.
func (m *MetaData) Set(path string, value any) error {
	section, key, ok := strings.Cut(path, "/")
	if !ok || section == "" || key == "" {
		return errors.NewWithContext(errors.ErrCodeValidation,
			"invalid field path, expected <section>/<key>", map[string]any{"path": path})
	}
	if m.Meta == nil {
		m.Meta = map[string]map[string]any{}
	}
	if m.Meta[section] == nil {
		m.Meta[section] = map[string]any{}
	}
	m.Meta[section][key] = value
	return m.ParseAgain()
}

func (m *MetaData) parse() error {
	if m.Meta == nil {
		m.Meta = map[string]map[string]any{}
	}

	for _, name := range requiredSections {
		if _, ok := m.Meta[name]; !ok {
			return errors.NewWithContext(errors.ErrCodeValidation,
				"missing required section", map[string]any{"section": name})
		}
	}
	for _, name := range slices.Sorted(maps.Keys(m.Meta)) {
		if m.Meta[name] == nil {
			m.Meta[name] = map[string]any{}
		}
		if err := checkSection(name, m.Meta[name]); err != nil {
			return err
		}
	}

	if err := m.normalize(); err != nil {
		return err
	}

	name, err := m.Name()
	if err != nil {
		return err
	}
	if _, err := m.Version(); err != nil {
		return err
	}
	if s := m.stringValue("build/string"); s != "" {
		if err := checkBadChars(s, "build/string"); err != nil {
			return err
		}
	}
	for _, path := range []string{"build/features", "build/track_features"} {
		for _, f := range m.stringList(path) {
			if !featureRe.MatchString(f) {
				return errors.NewWithContext(errors.ErrCodeValidation,
					"invalid feature name, only letters, digits and underscores are allowed",
					map[string]any{"field": path, "feature": f})
			}
		}
	}

	return m.reconcileRequirements(name)
}

func checkSection(name string, section map[string]any) error {
	if name == SectionExtra {
		return nil
	}
	if _, ok := fields[name]; !ok {
		return errors.NewWithContext(errors.ErrCodeValidation,
			"unknown section", map[string]any{"section": name})
	}
	for _, key := range slices.Sorted(maps.Keys(section)) {
		if !knownField(name, key) {
			return errors.NewWithContext(errors.ErrCodeValidation,
				"unknown field", map[string]any{"section": name, "field": key})
		}
	}
	return nil
}

// normalize coerces list, bool and scalar fields to their canonical types.
func (m *MetaData) normalize() error {
	for _, path := range slices.Sorted(maps.Keys(listFields)) {
		sec, key, v, ok := m.lookup(path)
		if !ok {
			continue
		}
		list, err := toStringList(v)
		if err != nil {
			return errors.WrapWithContext(errors.ErrCodeValidation,
				"invalid list field", err, map[string]any{"field": path})
		}
		sec[key] = list
	}

	for _, path := range slices.Sorted(maps.Keys(boolFields)) {
		sec, key, v, ok := m.lookup(path)
		if !ok {
			continue
		}
		b, err := toBool(v, boolFields[path])
		if err != nil {
			return errors.WrapWithContext(errors.ErrCodeValidation,
				"invalid boolean field", err, map[string]any{"field": path})
		}
		sec[key] = b
	}

	for _, name := range slices.Sorted(maps.Keys(fields)) {
		sec := m.Meta[name]
		for key, v := range sec {
			path := name + "/" + key
			if listFields[path] {
				continue
			}
			if _, ok := boolFields[path]; ok {
				continue
			}
			s, err := toScalarString(v)
			if err != nil {
				return errors.WrapWithContext(errors.ErrCodeValidation,
					"invalid scalar field", err, map[string]any{"field": path})
			}
			sec[key] = s
		}
	}

	if _, key, v, ok := m.lookup("build/number"); ok {
		n, err := toBuildNumber(v)
		if err != nil {
			return errors.WrapWithContext(errors.ErrCodeValidation,
				"invalid build number", err, map[string]any{"field": "build/" + key})
		}
		m.Meta[SectionBuild][key] = n
	}
	return nil
}

func (m *MetaData) reconcileRequirements(name string) error {
	reqs := make(map[pin.Role][]*matchspec.MatchSpec, 2)
	noarch := m.boolValue("build/noarch_python")

	for _, role := range []pin.Role{pin.RoleBuild, pin.RoleRun} {
		for _, s := range m.stringList("requirements/" + string(role)) {
			if strings.TrimSpace(s) == "" {
				continue
			}
			ms, err := matchspec.Parse(s)
			if err != nil {
				return err
			}
			if ms.Name == name {
				return errors.NewWithContext(errors.ErrCodeValidation,
					"package cannot depend on itself",
					map[string]any{"package": name, "section": "requirements/" + string(role)})
			}
			if !noarch {
				if ms, err = pin.Reconcile(ms, m.cfg.ConfiguredVersion(ms.Name), role); err != nil {
					return err
				}
			}
			reqs[role] = append(reqs[role], ms)
		}
	}

	m.requirements = reqs
	return nil
}

// lookup returns the section map, key and value for a "section/key" path.
func (m *MetaData) lookup(path string) (map[string]any, string, any, bool) {
	section, key, _ := strings.Cut(path, "/")
	sec, ok := m.Meta[section]
	if !ok || sec == nil {
		return nil, key, nil, false
	}
	v, ok := sec[key]
	return sec, key, v, ok
}

// nodeValue converts a decoded YAML node into plain Go values. Scalars keep
// their literal text so versions such as 1.10 are not read as numbers.
func nodeValue(n *yaml.Node) any {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil
		}
		return nodeValue(n.Content[0])
	case yaml.MappingNode:
		res := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			res[n.Content[i].Value] = nodeValue(n.Content[i+1])
		}
		return res
	case yaml.SequenceNode:
		res := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			res = append(res, nodeValue(c))
		}
		return res
	case yaml.AliasNode:
		if n.Alias == nil {
			return nil
		}
		return nodeValue(n.Alias)
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			return nil
		}
		return n.Value
	default:
		return nil
	}
}

func toSections(raw map[string]any) (map[string]map[string]any, error) {
	res := make(map[string]map[string]any, len(raw))
	for name, v := range raw {
		switch t := v.(type) {
		case nil:
			res[name] = map[string]any{}
		case map[string]any:
			res[name] = maps.Clone(t)
		case map[string]string:
			sec := make(map[string]any, len(t))
			for k, s := range t {
				sec[k] = s
			}
			res[name] = sec
		default:
			return nil, errors.NewWithContext(errors.ErrCodeValidation,
				"section must be a mapping", map[string]any{"section": name, "type": fmt.Sprintf("%T", v)})
		}
	}
	return res, nil
}

// applySelectors evaluates selectors in every string value. It returns false
// when v is a single-line string removed by its selector; the enclosing map
// or list then drops it.
func applySelectors(v any, ns selector.Namespace) (any, bool) {
	switch t := v.(type) {
	case string:
		return selectItem(t, ns)
	case []string:
		res := make([]string, 0, len(t))
		for _, item := range t {
			if s, keep := selectItem(item, ns); keep {
				res = append(res, s)
			}
		}
		return res, true
	case []any:
		res := make([]any, 0, len(t))
		for _, item := range t {
			if nv, keep := applySelectors(item, ns); keep {
				res = append(res, nv)
			}
		}
		return res, true
	case map[string]any:
		res := make(map[string]any, len(t))
		for k, item := range t {
			if nv, keep := applySelectors(item, ns); keep {
				res[k] = nv
			}
		}
		return res, true
	default:
		return v, true
	}
}

func selectItem(s string, ns selector.Namespace) (string, bool) {
	if strings.Contains(s, "\n") {
		return selector.Evaluate(s, ns), true
	}
	return selector.Selected(s, ns)
}

func toStringList(v any) ([]string, error) {
	switch t := v.(type) {
	case nil:
		return []string{}, nil
	case string:
		return []string{t}, nil
	case []string:
		return slices.Clone(t), nil
	case []any:
		res := make([]string, 0, len(t))
		for _, item := range t {
			if item == nil {
				continue
			}
			s, err := toScalarString(item)
			if err != nil {
				return nil, err
			}
			res = append(res, s)
		}
		return res, nil
	default:
		return nil, fmt.Errorf("expected a list of strings, got %T", v)
	}
}

func toScalarString(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, bool:
		return fmt.Sprint(t), nil
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32), nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("expected a scalar value, got %T", v)
	}
}

func toBool(v any, def bool) (bool, error) {
	switch t := v.(type) {
	case nil:
		return def, nil
	case bool:
		return t, nil
	case string:
		s := strings.ToLower(strings.TrimSpace(t))
		switch {
		case s == "":
			return def, nil
		case trues[s]:
			return true, nil
		case falses[s]:
			return false, nil
		}
		return false, fmt.Errorf("expected one of y/yes/on/true or n/no/off/false, got %q", t)
	default:
		return false, fmt.Errorf("expected a boolean value, got %T", v)
	}
}

func toBuildNumber(v any) (int, error) {
	switch t := v.(type) {
	case int:
		if t < 0 {
			return 0, fmt.Errorf("negative build number %d", t)
		}
		return t, nil
	case string:
		if strings.TrimSpace(t) == "" {
			return 0, nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0, fmt.Errorf("build number %q is not an integer", t)
		}
		if n < 0 {
			return 0, fmt.Errorf("negative build number %d", n)
		}
		return n, nil
	case nil:
		return 0, nil
	default:
		return 0, fmt.Errorf("expected an integer, got %T", v)
	}
}

func resultLabel(err error) string {
	if err == nil {
		return "ok"
	}
	if code := errors.CodeOf(err); code != "" {
		return strings.ToLower(string(code))
	}
	return "error"
}
