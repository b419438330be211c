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
	"regexp"
	"strings"
)

// VCS tool names reported by UsesVCSInMeta and UsesVCSInBuild.
const (
	VCSGit       = "git"
	VCSSvn       = "svn"
	VCSMercurial = "mercurial"
)

type vcsTool struct {
	name string
	// urlField is the source field that fetches from this tool.
	urlField string
	// env matches environment references such as GIT_DESCRIBE_TAG.
	env *regexp.Regexp
	// command matches an invocation with a subcommand and a target.
	command *regexp.Regexp
}

var vcsTools = []vcsTool{
	newVCSTool(VCSGit, "git"),
	newVCSTool(VCSSvn, "svn"),
	newVCSTool(VCSMercurial, "hg"),
}

func newVCSTool(name, cmd string) vcsTool {
	return vcsTool{
		name:     name,
		urlField: cmd + "_url",
		env:      regexp.MustCompile(regexp.QuoteMeta(strings.ToUpper(cmd)) + `_[^.\s'"]+`),
		command:  regexp.MustCompile(`(?i)` + regexp.QuoteMeta(cmd) + `(?:\.exe)?\s+\w+\s+[\w/.:@]+`),
	}
}

// UsesVCSInMeta returns the VCS tool the recipe relies on through its source
// section or through environment references such as HG_BRANCH in the raw
// text, or "" when there is none.
func (m *MetaData) UsesVCSInMeta() string {
	for _, t := range vcsTools {
		if _, _, _, ok := m.lookup(SectionSource + "/" + t.urlField); ok {
			return t.name
		}
	}
	for _, t := range vcsTools {
		if t.env.Match(m.rawText) {
			return t.name
		}
	}
	return ""
}

// UsesVCSInBuild returns the VCS tool invoked directly by the build script
// or the raw recipe text, e.g. "hg clone https://...", or "" when there is
// none. It is always "" when UsesVCSInMeta reports a tool.
func (m *MetaData) UsesVCSInBuild() string {
	if m.UsesVCSInMeta() != "" {
		return ""
	}
	for _, text := range [][]byte{m.buildScript, m.rawText} {
		if len(text) == 0 {
			continue
		}
		for _, t := range vcsTools {
			if t.command.Match(text) {
				return t.name
			}
		}
	}
	return ""
}
