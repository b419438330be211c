// Package cli implements the command-line interface for recipekit.
//
// # Overview
//
// recipekit renders conditional package recipes. A recipe is a YAML
// document whose lines may carry a trailing selector annotation such as
// "# [win and py3k]". Rendering keeps only the lines whose selector holds for
// the target build configuration, validates the resulting metadata and pins
// python and numpy requirements to the configured versions.
//
// # Commands
//
// select - Evaluate selectors in a single recipe:
//
//	recipekit select --file meta.yaml [--selector name[=false]] [--output FILE]
//
// pin - Reconcile one dependency spec with the configured versions:
//
//	recipekit pin --python 27 [--role build|run] "python x.x"
//
// render - Render recipes into package descriptions:
//
//	recipekit render --file meta.yaml [--glob PATTERN] [--format yaml|json|table]
//
// lint - Report validation failures and suspicious selectors:
//
//	recipekit lint --glob 'recipes/**/meta.yaml' [--jobs N]
//
// # Global Flags
//
//	--config, -c   YAML or JSON build configuration file
//	--platform     Target platform: linux, osx, win
//	--arch         Target architecture: 64, 32, aarch64, arm64, ppc64le
//	--python       Configured python version (27 or 2.7)
//	--numpy        Configured numpy version (110 or 1.10)
//	--feature      Selector feature flag, may be repeated
//	--log-level    Log level: debug, info, warn, error
//
// # Environment Variables
//
//	LOG_LEVEL           Set logging verbosity
//	RECIPEKIT_SUBDIR    Target platform and architecture (e.g. linux-64)
//	CONDA_PY            Configured python version
//	CONDA_NPY           Configured numpy version
//	RECIPEKIT_FEATURES  Comma separated feature flags
//
// # Exit Codes
//
//	0  Success
//	1  Invalid arguments, a recipe that failed to render, or a failed lint
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/mchmarny/recipekit/pkg/cli.version=1.0.0'"
package cli
