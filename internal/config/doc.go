// Copyright (c) 2026 The power-control authors.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package config provides the resolved runtime settings for a power-control
// run plus loading and typed accessors for the optional user configuration
// file. The configuration file is expected to be a YAML document located in
// the user's configuration directory, typically:
//   - Linux/macOS: $XDG_CONFIG_HOME/power-control.yaml or
//     $HOME/.config/power-control.yaml
//   - Windows: %APPDATA%/power-control/power-control.yaml
//
// Actual resolution relies on os.UserConfigDir which follows platform
// conventions. The POWER_CONTROL_CFG_FILE environment variable overrides the
// search entirely.
//
// Runtime settings (Settings) are resolved from command flags, which source
// values from the environment variables documented in the container image
// (DRY_RUN, PROTECTED_OWNERS, TRACKING_FILE, ...) and fall back to the YAML
// file.
package config
