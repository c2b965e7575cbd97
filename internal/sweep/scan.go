// Copyright (c) 2026 The power-control authors.
// SPDX-License-Identifier: Apache-2.0

package sweep

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/smithy-go"

	"github.com/power-control/power-control/internal/cacheutil"
	"github.com/power-control/power-control/internal/instance"
	"github.com/power-control/power-control/internal/log"
)

// The discovered region list rarely changes, so it is cached on disk and
// refreshed daily.
const regionCacheHours = 24

// RegionsAPI is the slice of the EC2 client used for region discovery.
type RegionsAPI interface {
	DescribeRegions(ctx context.Context, params *ec2.DescribeRegionsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeRegionsOutput, error)
}

// InstancesAPI is the per-region EC2 surface the sweep needs: paginated
// listing plus the power actions.
type InstancesAPI interface {
	ec2.DescribeInstancesAPIClient
	StopInstances(ctx context.Context, params *ec2.StopInstancesInput, optFns ...func(*ec2.Options)) (*ec2.StopInstancesOutput, error)
	TerminateInstances(ctx context.Context, params *ec2.TerminateInstancesInput, optFns ...func(*ec2.Options)) (*ec2.TerminateInstancesOutput, error)
}

// Regions returns the account's enabled region names, sorted. The list is
// served from the on-disk cache when present and fetched via DescribeRegions
// otherwise.
func Regions(ctx context.Context, client RegionsAPI) ([]string, error) {
	if err := cacheutil.Purge(regionCacheHours); err != nil {
		log.WithError(err).Warnf("failed to purge cache")
	}

	if entry, ok := cacheutil.Read([]string{"regions"}, "enabled"); ok {
		regions := strings.Split(string(entry.Data), ",")
		log.Debugf("regions from cache: count=%d", len(regions))
		return regions, nil
	}

	output, err := client.DescribeRegions(ctx, &ec2.DescribeRegionsInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to describe regions: %w", err)
	}

	regions := make([]string, 0, len(output.Regions))
	for _, region := range output.Regions {
		if region.RegionName != nil {
			regions = append(regions, *region.RegionName)
		}
	}
	sort.Strings(regions)
	log.Debugf("regions discovered: count=%d", len(regions))

	if err := cacheutil.Write([]string{"regions"}, "enabled", []byte(strings.Join(regions, ","))); err != nil {
		log.WithError(err).Warnf("failed to cache region list")
	}

	return regions, nil
}

// ScanRegion lists every instance in one region through the DescribeInstances
// paginator and flattens the results.
func ScanRegion(ctx context.Context, client ec2.DescribeInstancesAPIClient, region string, defaultTZ string) ([]instance.Instance, error) {
	var instances []instance.Instance

	paginator := ec2.NewDescribeInstancesPaginator(client, &ec2.DescribeInstancesInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to describe instances in %s: %w", region, err)
		}
		for _, reservation := range page.Reservations {
			for _, in := range reservation.Instances {
				instances = append(instances, instance.FromEC2(in, region, defaultTZ))
			}
		}
	}

	log.Debugf("region scanned: region=%s, instances=%d", region, len(instances))
	return instances, nil
}

// Scan walks the given regions and collects every instance. A region that
// fails with an API error (typically auth trouble in an opt-in region) is
// logged and skipped so one bad region cannot sink the whole sweep.
func (e *Engine) Scan(ctx context.Context, regions []string) ([]instance.Instance, error) {
	var all []instance.Instance

	for _, region := range regions {
		client := e.ClientFor(region)
		instances, err := ScanRegion(ctx, client, region, e.Settings.Timezone)
		if err != nil {
			var apiErr smithy.APIError
			if errors.As(err, &apiErr) {
				log.WithError(err).Warnf("skipping region %s (%s)", region, apiErr.ErrorCode())
				continue
			}
			return nil, err
		}
		all = append(all, instances...)
	}

	return all, nil
}
