// Copyright (c) 2026 The power-control authors.
// SPDX-License-Identifier: Apache-2.0

package meta

import (
	"context"

	"github.com/power-control/power-control/internal/config"
)

// Meta contains runtime metadata shared by commands. It carries CLI arguments,
// the loaded configuration file, context, and the starting working directory.
type Meta struct {
	Args        []string
	Config      config.Type
	Context     context.Context
	StartingDir string
}
