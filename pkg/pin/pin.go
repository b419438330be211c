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

package pin

import (
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/mchmarny/recipekit/pkg/errors"
	"github.com/mchmarny/recipekit/pkg/matchspec"
	"github.com/mchmarny/recipekit/pkg/version"
)

// Role is the requirements section a dependency is declared in.
type Role string

const (
	RoleBuild Role = "build"
	RoleRun   Role = "run"
)

// ParseRole parses a role name. Empty resolves to RoleRun.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(RoleRun):
		return RoleRun, nil
	case string(RoleBuild):
		return RoleBuild, nil
	default:
		return RoleRun, fmt.Errorf("invalid dependency role: %s", s)
	}
}

// WildcardVersion asks for the configured version instead of an explicit pin.
const WildcardVersion = "x.x"

// Policy describes how one package's requirements are reconciled with its
// configured version.
type Policy struct {
	// Wildcard is the version token that asks for the configured version.
	Wildcard string
	// Normalize turns a configured version into the dotted form used in pins.
	Normalize func(string) (string, error)
	// PinBare reports whether a name-only requirement is pinned in role.
	PinBare func(Role) bool
}

func always(Role) bool { return true }

// numpy run requirements stay unconstrained so a package built against one
// numpy installs next to any later one.
func buildOnly(r Role) bool { return r == RoleBuild }

var policies = map[string]Policy{
	"python": {Wildcard: WildcardVersion, Normalize: version.Normalize, PinBare: always},
	"numpy":  {Wildcard: WildcardVersion, Normalize: version.Normalize, PinBare: buildOnly},
}

// Lookup returns the policy for a package name.
func Lookup(name string) (Policy, bool) {
	p, ok := policies[name]
	return p, ok
}

// Names returns the package names that have a reconciliation policy, sorted.
func Names() []string {
	names := make([]string, 0, len(policies))
	for n := range policies {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Reconcile rewrites ms against the configured version of its package.
// configured may be nil, a string, or an integer; an empty string counts as
// absent. It is only read when the spec does not pin its own version.
// Specs for packages without a policy are returned unchanged.
func Reconcile(ms *matchspec.MatchSpec, configured any, role Role) (*matchspec.MatchSpec, error) {
	if ms == nil {
		return nil, errors.New(errors.ErrCodeInvalidSpec, "missing package specification")
	}

	p, ok := policies[ms.Name]
	if !ok {
		return ms, nil
	}

	res, err := p.reconcile(ms, configured, role)
	if err != nil {
		pinTotal.WithLabelValues(ms.Name, string(role), "error").Inc()
		return nil, err
	}

	outcome := "unchanged"
	if !res.Equal(ms) {
		outcome = "rewritten"
	}
	pinTotal.WithLabelValues(ms.Name, string(role), outcome).Inc()
	slog.Debug("reconciled dependency",
		"spec", ms.String(),
		"configured", configured,
		"role", role,
		"result", res.String())

	return res, nil
}

func (p Policy) reconcile(ms *matchspec.MatchSpec, configured any, role Role) (*matchspec.MatchSpec, error) {
	strictness := ms.Strictness()
	switch {
	case strictness == 3:
		return ms, nil
	case strictness == 2 && ms.Version != p.Wildcard:
		return ms, nil
	case strictness == 1 && !p.PinBare(role):
		return matchspec.New(ms.Name, "", ""), nil
	}

	cfg, err := configuredString(configured)
	if err != nil {
		return nil, err
	}
	if cfg == "" {
		if strictness == 2 {
			return nil, errors.NewWithContext(errors.ErrCodeConfiguration,
				fmt.Sprintf("unable to determine %s version, no version given and no configured version available", ms.Name),
				map[string]any{"spec": ms.String()})
		}
		return matchspec.New(ms.Name, "", ""), nil
	}

	ver, err := p.Normalize(cfg)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeConfiguration,
			fmt.Sprintf("invalid configured %s version", ms.Name), err,
			map[string]any{"configured": cfg})
	}
	return matchspec.New(ms.Name, ver+"*", ""), nil
}

func configuredString(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return strings.TrimSpace(t), nil
	case int:
		return strconv.Itoa(t), nil
	case int8:
		return strconv.FormatInt(int64(t), 10), nil
	case int16:
		return strconv.FormatInt(int64(t), 10), nil
	case int32:
		return strconv.FormatInt(int64(t), 10), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case uint:
		return strconv.FormatUint(uint64(t), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(t), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(t), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(t), 10), nil
	case uint64:
		return strconv.FormatUint(t, 10), nil
	default:
		return "", errors.NewWithContext(errors.ErrCodeConfiguration,
			"unsupported configured version type", map[string]any{"type": fmt.Sprintf("%T", v)})
	}
}
