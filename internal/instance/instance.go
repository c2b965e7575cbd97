// Copyright (c) 2026 The power-control authors.
// SPDX-License-Identifier: Apache-2.0

package instance

import (
	"strings"
	"time"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

// Placeholder values used when an instance lacks the corresponding tag.
// These flow through to notification templates and reports as-is.
const (
	NoOwner    = "(no owner)"
	NoSchedule = "(no schedule)"
	NoName     = "(no name)"
)

// Tag keys recognized on EC2 instances.
const (
	TagName       = "Name"
	TagOwner      = "OWNEREMAIL"
	TagSchedule   = "RUNNINGSCHEDULE"
	TagScheduleTZ = "RUNNINGSCHEDULE_TZ"
)

// Instance is the flattened record of an EC2 instance that power-control
// evaluates, notifies about, and reports on.
type Instance struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Owner      string    `json:"owner"`
	Region     string    `json:"region"`
	State      string    `json:"state"`
	Schedule   string    `json:"running_schedule"`
	ScheduleTZ string    `json:"running_schedule_tz"`
	LaunchTime time.Time `json:"launch_time,omitzero"`
}

// FromEC2 flattens an SDK instance into an Instance record. defaultTZ is
// used when the instance carries no RUNNINGSCHEDULE_TZ tag.
func FromEC2(in ec2types.Instance, region string, defaultTZ string) Instance {
	var state string
	if in.State != nil {
		state = string(in.State.Name)
	}
	inst := Instance{
		ID:         awsv2.ToString(in.InstanceId),
		Name:       tagOr(in, TagName, NoName),
		Owner:      Owner(in),
		Region:     region,
		State:      state,
		Schedule:   tagOr(in, TagSchedule, NoSchedule),
		ScheduleTZ: tagOr(in, TagScheduleTZ, defaultTZ),
	}
	if in.LaunchTime != nil {
		inst.LaunchTime = *in.LaunchTime
	}
	return inst
}

// Owner returns the normalized OWNEREMAIL tag value of an SDK instance, or
// the NoOwner placeholder.
func Owner(in ec2types.Instance) string {
	owner := strings.ToLower(strings.TrimSpace(Tag(in, TagOwner)))
	if owner == "" {
		return NoOwner
	}
	return owner
}

// Tag returns the value of the named tag, or "" if the tag is absent.
func Tag(in ec2types.Instance, key string) string {
	for _, tag := range in.Tags {
		if awsv2.ToString(tag.Key) == key {
			return awsv2.ToString(tag.Value)
		}
	}
	return ""
}

// IsRunning reports whether the record is in the running state.
func (i Instance) IsRunning() bool {
	return i.State == string(ec2types.InstanceStateNameRunning)
}

// HasOwner reports whether the record carries a real owner address.
func (i Instance) HasOwner() bool {
	return i.Owner != NoOwner
}

// FullSchedule is the schedule plus its zone, the form used in log lines and
// notifications.
func (i Instance) FullSchedule() string {
	return i.Schedule + " " + i.ScheduleTZ
}

// ByOwner groups instances by owner, preserving slice order within each
// group.
func ByOwner(instances []Instance) map[string][]Instance {
	result := make(map[string][]Instance)
	for _, inst := range instances {
		result[inst.Owner] = append(result[inst.Owner], inst)
	}
	return result
}

// ByRegion groups instances by region, preserving slice order within each
// group.
func ByRegion(instances []Instance) map[string][]Instance {
	result := make(map[string][]Instance)
	for _, inst := range instances {
		result[inst.Region] = append(result[inst.Region], inst)
	}
	return result
}

// IDs returns the instance IDs in slice order.
func IDs(instances []Instance) []string {
	ids := make([]string, 0, len(instances))
	for _, inst := range instances {
		ids = append(ids, inst.ID)
	}
	return ids
}

func tagOr(in ec2types.Instance, key string, fallback string) string {
	if v := Tag(in, key); v != "" {
		return v
	}
	return fallback
}
