// Copyright (c) 2026 The power-control authors.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package command defines the CLI command set for power-control. It wires
// flags, validators, actions, and shell completion for subcommands.
package command
