// Copyright (c) 2026 The power-control authors.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/power-control/power-control/internal/config"
	"github.com/power-control/power-control/internal/log"
	"github.com/power-control/power-control/internal/meta"
	"github.com/power-control/power-control/internal/sweep"
)

// runCommandAction performs a single sweep. When IMMEDIATE is switched off
// (the container deployment knob) it falls through to the scheduled loop so
// one entrypoint serves both modes.
func runCommandAction(ctx context.Context, cmd *cli.Command) error {
	settings := config.FromCommand(cmd)

	if !settings.Immediate {
		log.Infof("immediate mode off, entering scheduled mode (cron %q)", settings.CronSpec)
		return daemonLoop(ctx, settings)
	}

	engine, err := sweep.NewEngine(ctx, settings)
	if err != nil {
		return err
	}
	return engine.Sweep(ctx)
}

// runCommandBuilder constructs the cli.Command for "run".
func runCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "sweep all regions once and act on out-of-schedule instances",
		UsageText: "power-control run [options]",
		Flags:     NewSweepFlags("run", meta.Config.Source),
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: runCommandAction,
	}
}
