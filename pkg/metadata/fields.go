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

import "slices"

// Section names.
const (
	SectionPackage      = "package"
	SectionSource       = "source"
	SectionBuild        = "build"
	SectionRequirements = "requirements"
	SectionApp          = "app"
	SectionTest         = "test"
	SectionAbout        = "about"
	SectionExtra        = "extra"
)

// requiredSections must be present in every recipe.
var requiredSections = []string{
	SectionPackage,
	SectionBuild,
	SectionRequirements,
	SectionTest,
	SectionAbout,
}

// fields lists the keys allowed in each section. The extra section is
// free-form and has no entry.
var fields = map[string][]string{
	SectionPackage: {"name", "version"},
	SectionSource: {
		"fn", "url", "md5", "sha1", "sha256", "path",
		"git_url", "git_tag", "git_branch", "git_rev", "git_depth",
		"hg_url", "hg_tag",
		"svn_url", "svn_rev", "svn_ignore_externals",
		"patches",
	},
	SectionBuild: {
		"number", "string", "entry_points", "osx_is_app", "features",
		"track_features", "preserve_egg_dir", "no_link", "binary_relocation",
		"script", "noarch", "noarch_python", "has_prefix_files",
		"binary_has_prefix_files", "ignore_prefix_files",
		"detect_binary_files_with_prefix", "rpaths", "script_env",
		"always_include_files", "skip", "msvc_compiler", "pin_depends",
		"include_recipe",
	},
	SectionRequirements: {"build", "run", "conflicts"},
	SectionApp:          {"entry", "icon", "summary", "type", "cli_opts", "own_environment"},
	SectionTest:         {"requires", "commands", "files", "imports", "source_files"},
	SectionAbout: {
		"home", "dev_url", "doc_url", "license_url", "license", "summary",
		"description", "license_family", "license_file", "readme",
	},
}

// listFields hold ordered sequences of strings. A single string is
// promoted to a one-element list.
var listFields = map[string]bool{
	"source/patches":                true,
	"build/entry_points":            true,
	"build/features":                true,
	"build/track_features":          true,
	"build/no_link":                 true,
	"build/script":                  true,
	"build/has_prefix_files":        true,
	"build/binary_has_prefix_files": true,
	"build/ignore_prefix_files":     true,
	"build/rpaths":                  true,
	"build/script_env":              true,
	"build/always_include_files":    true,
	"requirements/build":            true,
	"requirements/run":              true,
	"requirements/conflicts":        true,
	"test/requires":                 true,
	"test/commands":                 true,
	"test/files":                    true,
	"test/imports":                  true,
	"test/source_files":             true,
}

// boolFields and their value when absent.
var boolFields = map[string]bool{
	"build/osx_is_app":                      false,
	"build/preserve_egg_dir":                false,
	"build/binary_relocation":               true,
	"build/noarch_python":                   false,
	"build/detect_binary_files_with_prefix": false,
	"build/skip":                            false,
	"build/include_recipe":                  true,
	"app/own_environment":                   false,
}

var (
	trues  = map[string]bool{"y": true, "yes": true, "on": true, "true": true}
	falses = map[string]bool{"n": true, "no": true, "off": true, "false": true}
)

// knownField reports whether key is allowed in section.
func knownField(section, key string) bool {
	return slices.Contains(fields[section], key)
}
