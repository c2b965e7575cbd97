// Copyright (c) 2026 The power-control authors.
// SPDX-License-Identifier: Apache-2.0

package sweep

import (
	"time"

	"github.com/power-control/power-control/internal/config"
	"github.com/power-control/power-control/internal/instance"
	"github.com/power-control/power-control/internal/log"
	"github.com/power-control/power-control/internal/schedule"
)

// Decision pairs an evaluated instance with its outcome.
type Decision struct {
	Instance instance.Instance
	Reason   instance.Reason
}

// Decide evaluates one instance against its running schedule at the given
// moment. The checks are ordered so that the cheapest disqualifiers run
// first and a stop is only ever decided for a running, owned, unprotected
// instance with a well-formed schedule.
func Decide(inst instance.Instance, now time.Time, settings *config.Settings) instance.Reason {
	if !inst.IsRunning() {
		log.Debugf("%s: skip: not in running state (%s)", inst.ID, inst.State)
		return instance.ReasonNotRunning
	}

	if !inst.HasOwner() {
		log.Infof("%s: skip: no owner email tag", inst.ID)
		return instance.ReasonNoOwner
	}

	if settings.IsProtected(inst.Owner) {
		log.Infof("%s: skip: owner %s is protected", inst.ID, inst.Owner)
		return instance.ReasonProtectedOwner
	}

	window, err := schedule.Parse(inst.Schedule)
	if err != nil {
		log.Infof("%s: skip: bad schedule %q: %v", inst.ID, inst.Schedule, err)
		return instance.ReasonMalformed
	}

	loc, err := time.LoadLocation(inst.ScheduleTZ)
	if err != nil {
		log.Infof("%s: skip: bad schedule zone %q: %v", inst.ID, inst.ScheduleTZ, err)
		return instance.ReasonInvalidZone
	}

	local := now.In(loc)
	if !window.CoversDay(local) {
		log.Infof("%s: stop: weekday %d outside schedule %s", inst.ID, schedule.ISOWeekday(local), inst.FullSchedule())
		return instance.ReasonDayMismatch
	}

	if !window.CoversTime(local) {
		log.Infof("%s: stop: time %s outside schedule %s", inst.ID, local.Format("15:04"), inst.FullSchedule())
		return instance.ReasonTimeMismatch
	}

	log.Debugf("%s: allowed by schedule %s", inst.ID, inst.FullSchedule())
	return instance.ReasonAllowed
}

// Results collects the decisions of one sweep, bucketed by reason.
type Results struct {
	Decisions []Decision
	buckets   map[instance.Reason][]instance.Instance
}

// Evaluate runs Decide over every scanned instance.
func Evaluate(instances []instance.Instance, now time.Time, settings *config.Settings) *Results {
	results := &Results{
		buckets: make(map[instance.Reason][]instance.Instance),
	}
	for _, inst := range instances {
		reason := Decide(inst, now, settings)
		results.Decisions = append(results.Decisions, Decision{Instance: inst, Reason: reason})
		results.buckets[reason] = append(results.buckets[reason], inst)
	}
	return results
}

// Bucket returns the instances that landed on the given reason.
func (r *Results) Bucket(reason instance.Reason) []instance.Instance {
	return r.buckets[reason]
}

// StopCandidates returns the instances whose schedule says they should not be
// running right now, in scan order.
func (r *Results) StopCandidates() []instance.Instance {
	var candidates []instance.Instance
	for _, d := range r.Decisions {
		if d.Reason.Stops() {
			candidates = append(candidates, d.Instance)
		}
	}
	return candidates
}
