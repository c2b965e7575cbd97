// Copyright (c) 2026 The power-control authors.
// SPDX-License-Identifier: Apache-2.0

package sweep

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/ec2"

	"github.com/power-control/power-control/internal/instance"
	"github.com/power-control/power-control/internal/log"
)

// Power actions selectable through POWER_ACTION.
const (
	ActionStop      = "stop"
	ActionTerminate = "terminate"
)

// Execute applies the configured power action to the stop candidates, one
// batched call per region. In dry-run mode it only logs what it would do.
func (e *Engine) Execute(ctx context.Context, candidates []instance.Instance) error {
	if len(candidates) == 0 {
		log.Debugf("nothing to %s", e.Settings.Action)
		return nil
	}

	byRegion := instance.ByRegion(candidates)
	regions := make([]string, 0, len(byRegion))
	for region := range byRegion {
		regions = append(regions, region)
	}
	sort.Strings(regions)

	for _, region := range regions {
		ids := instance.IDs(byRegion[region])
		if e.Settings.DryRun {
			log.Infof("dry run: would %s %d instance(s) in %s: %s",
				e.Settings.Action, len(ids), region, strings.Join(ids, ", "))
			continue
		}

		log.Infof("applying %s to %d instance(s) in %s: %s",
			e.Settings.Action, len(ids), region, strings.Join(ids, ", "))
		if err := e.apply(ctx, region, ids); err != nil {
			return err
		}
	}

	return nil
}

// apply issues the StopInstances or TerminateInstances call for one region.
func (e *Engine) apply(ctx context.Context, region string, ids []string) error {
	client := e.ClientFor(region)

	switch e.Settings.Action {
	case ActionTerminate:
		if _, err := client.TerminateInstances(ctx, &ec2.TerminateInstancesInput{
			InstanceIds: ids,
		}); err != nil {
			return fmt.Errorf("failed to terminate instances in %s: %w", region, err)
		}
	case "", ActionStop:
		if _, err := client.StopInstances(ctx, &ec2.StopInstancesInput{
			InstanceIds: ids,
		}); err != nil {
			return fmt.Errorf("failed to stop instances in %s: %w", region, err)
		}
	default:
		return fmt.Errorf("unknown power action %q", e.Settings.Action)
	}

	return nil
}
