// Copyright (c) 2026 The power-control authors.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/urfave/cli/v3"

	"github.com/power-control/power-control/internal/config"
	"github.com/power-control/power-control/internal/log"
	"github.com/power-control/power-control/internal/meta"
	"github.com/power-control/power-control/internal/sweep"
)

// daemonCommandAction runs sweeps on the configured cron schedule until
// interrupted.
func daemonCommandAction(ctx context.Context, cmd *cli.Command) error {
	return daemonLoop(ctx, config.FromCommand(cmd))
}

// daemonLoop schedules sweeps with the configured cron spec in the default
// schedule zone and blocks until SIGINT/SIGTERM. A failing sweep is logged
// and the schedule keeps going.
func daemonLoop(ctx context.Context, settings *config.Settings) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine, err := sweep.NewEngine(ctx, settings)
	if err != nil {
		return err
	}

	loc, err := time.LoadLocation(settings.Timezone)
	if err != nil {
		return fmt.Errorf("failed to load time zone %q: %w", settings.Timezone, err)
	}

	scheduler := cron.New(cron.WithLocation(loc))
	if _, err := scheduler.AddFunc(settings.CronSpec, func() {
		if err := engine.Sweep(ctx); err != nil {
			log.WithError(err).Errorf("sweep failed")
		}
	}); err != nil {
		return fmt.Errorf("invalid cron spec %q: %w", settings.CronSpec, err)
	}

	log.Infof("daemon started: cron %q in %s", settings.CronSpec, settings.Timezone)
	scheduler.Start()

	<-ctx.Done()
	log.Infof("shutting down")

	// Let an in-flight sweep finish before exiting.
	<-scheduler.Stop().Done()
	return nil
}

// daemonCommandBuilder constructs the cli.Command for "daemon".
func daemonCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "daemon",
		Usage:     "run sweeps on a cron schedule until interrupted",
		UsageText: "power-control daemon [options]",
		Flags:     NewSweepFlags("daemon", meta.Config.Source),
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: daemonCommandAction,
	}
}
