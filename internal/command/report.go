// Copyright (c) 2026 The power-control authors.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/power-control/power-control/internal/aws"
	"github.com/power-control/power-control/internal/config"
	"github.com/power-control/power-control/internal/instance"
	"github.com/power-control/power-control/internal/meta"
	"github.com/power-control/power-control/internal/output"
	"github.com/power-control/power-control/internal/sweep"
)

// reportDefaultAttrs specifies the default attributes displayed for instance
// decisions in the "report" command output.
var reportDefaultAttrs = []string{".id", "name", "owner", "region", "state", "running_schedule:schedule", "reason"}

// reportRow is one instance decision as emitted through the output pipeline.
type reportRow struct {
	instance.Instance
	Reason string `json:"reason"`
}

// reportCommandAction evaluates every instance the way a sweep would, but
// writes nothing, emails nobody and stops nothing. The decisions go through
// the slice/dice/spit output pipeline.
func reportCommandAction(ctx context.Context, cmd *cli.Command) error {
	settings := config.FromCommand(cmd)

	cfg, err := aws.LoadAWSConfig(ctx, aws.WithRegion(settings.Region))
	if err != nil {
		return fmt.Errorf("failed to load AWS config: %w", err)
	}

	engine := &sweep.Engine{
		Settings:      settings,
		RegionsClient: aws.NewEC2(cfg),
		ClientFor: func(region string) sweep.InstancesAPI {
			return aws.NewEC2(cfg, aws.WithEC2Region(region))
		},
		Now: time.Now,
	}

	regions, err := sweep.Regions(ctx, engine.RegionsClient)
	if err != nil {
		return err
	}

	instances, err := engine.Scan(ctx, regions)
	if err != nil {
		return err
	}

	results := sweep.Evaluate(instances, engine.Now(), settings)

	rows := make([]reportRow, 0, len(results.Decisions))
	for _, d := range results.Decisions {
		rows = append(rows, reportRow{Instance: d.Instance, Reason: d.Reason.String()})
	}

	jsonBytes, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("failed to marshal report rows: %w", err)
	}

	al := BuildAttrs(cmd, reportDefaultAttrs...)
	output.SliceDiceSpit(*bytes.NewBuffer(jsonBytes), al, cmd, "", os.Stdout, nil)

	return nil
}

// reportCommandBuilder constructs the cli.Command for "report".
func reportCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "report",
		Usage:     "show what a sweep would decide, without acting",
		UsageText: "power-control report [options]",
		Flags:     append(NewSweepFlags("report", meta.Config.Source), NewOutputFlags()...),
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: reportCommandAction,
	}
}
