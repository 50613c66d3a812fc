// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for the room state
// tools.
//
// Configuration is loaded from a single file specified by either the
// ROOMSTATE_CONFIG environment variable (via [Load]) or a --config flag
// (via [LoadFile]). There is no ~/.config discovery and no automatic
// file search. Without either, callers run on [Default].
//
// The file may contain environment-specific sections (development,
// staging, production) that override base values when
// [Config].Environment matches. Production without a section of its own
// logs at warn and disables color.
//
// ${HOME} and ${VAR:-default} patterns are expanded in
// checkpoint.directory after loading. No other environment variables
// override config values.
package config
