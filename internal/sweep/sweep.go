// Copyright (c) 2026 The power-control authors.
// SPDX-License-Identifier: Apache-2.0

package sweep

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/power-control/power-control/internal/aws"
	"github.com/power-control/power-control/internal/config"
	"github.com/power-control/power-control/internal/instance"
	"github.com/power-control/power-control/internal/log"
	"github.com/power-control/power-control/internal/notify"
	"github.com/power-control/power-control/internal/report"
	"github.com/power-control/power-control/internal/tracking"
)

// Email subjects, matching what owners and admins already expect.
const (
	ownerSubject = "Automatically stopping your environments"
	adminSubject = "Power Control Run Report"
)

// Engine runs sweeps. Its collaborators are interfaces or injectable
// functions so tests can drive it with fakes.
type Engine struct {
	Settings *config.Settings

	// RegionsClient discovers regions; ClientFor returns the EC2 surface for
	// one region.
	RegionsClient RegionsAPI
	ClientFor     func(region string) InstancesAPI

	Mailer   notify.Mailer
	Renderer *report.Renderer
	Store    *tracking.Store

	// Now supplies the sweep time; overridable in tests.
	Now func() time.Time
}

// NewEngine wires an Engine against real AWS clients per the settings.
func NewEngine(ctx context.Context, settings *config.Settings) (*Engine, error) {
	cfg, err := aws.LoadAWSConfig(ctx, aws.WithRegion(settings.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	mailer, err := notify.NewMailer(settings, aws.NewSES(cfg))
	if err != nil {
		return nil, err
	}

	return &Engine{
		Settings:      settings,
		RegionsClient: aws.NewEC2(cfg),
		ClientFor: func(region string) InstancesAPI {
			return aws.NewEC2(cfg, aws.WithEC2Region(region))
		},
		Mailer:   mailer,
		Renderer: report.NewRenderer(settings.TemplatePath),
		Store:    tracking.NewStore(settings.TrackingFile),
		Now:      time.Now,
	}, nil
}

// Sweep performs one full pass: discover regions, scan instances, evaluate
// schedules, reconcile the notification record, notify owners and the admin,
// and apply the power action.
func (e *Engine) Sweep(ctx context.Context) error {
	now := e.Now()
	log.Infof("sweep starting: %s", report.FormatRunTime(e.localRunTime(now)))

	regions, err := Regions(ctx, e.RegionsClient)
	if err != nil {
		return err
	}

	instances, err := e.Scan(ctx, regions)
	if err != nil {
		return err
	}
	log.Infof("scanned %d instance(s) across %d region(s)", len(instances), len(regions))

	results := Evaluate(instances, now, e.Settings)
	candidates := results.StopCandidates()
	log.Infof("%d stop candidate(s)", len(candidates))

	fresh, suppressed, err := e.Store.Reconcile(now, e.Settings.NotificationWait, instance.IDs(candidates))
	if err != nil {
		return fmt.Errorf("failed to reconcile tracking file: %w", err)
	}
	for _, id := range suppressed {
		log.Infof("%s will be stopped but not notified (already notified recently)", id)
	}

	notified, problems := e.notifyOwners(ctx, candidates, fresh)

	// The admin report goes out whenever this run had owners to notify,
	// whether or not any delivery succeeded; failed deliveries surface there
	// as problem owners.
	if len(fresh) > 0 {
		if err := e.sendAdminReport(ctx, now, results, notified, problems); err != nil {
			log.WithError(err).Errorf("failed to send admin report")
		}
	}

	if e.Settings.DryRun {
		log.Infof("dry run: the %s action will be skipped", e.Settings.Action)
	}
	if err := e.Execute(ctx, candidates); err != nil {
		return err
	}

	log.Infof("sweep complete")
	return nil
}

// notifyOwners emails each owner whose instances were freshly recorded in the
// tracking file. Returns the owners notified and the owners whose delivery
// failed.
func (e *Engine) notifyOwners(ctx context.Context, candidates []instance.Instance, fresh []string) (notified, problems []string) {
	freshSet := make(map[string]bool, len(fresh))
	for _, id := range fresh {
		freshSet[id] = true
	}

	var toNotify []instance.Instance
	for _, inst := range candidates {
		if freshSet[inst.ID] {
			toNotify = append(toNotify, inst)
		}
	}

	byOwner := instance.ByOwner(toNotify)
	owners := make([]string, 0, len(byOwner))
	for owner := range byOwner {
		owners = append(owners, owner)
	}
	sort.Strings(owners)

	for _, owner := range owners {
		body, err := e.Renderer.Render(report.OwnerTemplate, report.OwnerContext{
			AdminEmail: e.Settings.AdminEmail,
			DryRun:     e.Settings.DryRun,
			Instances:  byOwner[owner],
			WaitHours:  int(e.Settings.NotificationWait.Hours()),
		})
		if err != nil {
			log.WithError(err).Errorf("failed to render notification for %s", owner)
			problems = append(problems, owner)
			continue
		}

		if err := e.Mailer.Send(ctx, notify.Message{
			From:    e.Settings.SMTPFrom,
			To:      owner,
			Subject: ownerSubject,
			Body:    body,
		}); err != nil {
			log.WithError(err).Errorf("failed to notify %s", owner)
			problems = append(problems, owner)
			continue
		}
		notified = append(notified, owner)
	}

	return notified, problems
}

// sendAdminReport renders and mails the run report covering every evaluation
// bucket of this sweep.
func (e *Engine) sendAdminReport(ctx context.Context, now time.Time, results *Results, notified, problems []string) error {
	body, err := e.Renderer.Render(report.AdminTemplate, report.AdminContext{
		Allowed:        results.Bucket(instance.ReasonAllowed),
		DryRun:         e.Settings.DryRun,
		InvalidZone:    results.Bucket(instance.ReasonInvalidZone),
		Malformed:      results.Bucket(instance.ReasonMalformed),
		NoOwner:        results.Bucket(instance.ReasonNoOwner),
		NotifiedOwners: notified,
		NotRunning:     results.Bucket(instance.ReasonNotRunning),
		ProblemOwners:  problems,
		Protected:      results.Bucket(instance.ReasonProtectedOwner),
		RunTime:        report.FormatRunTime(e.localRunTime(now)),
		ToStop:         results.StopCandidates(),
	})
	if err != nil {
		return fmt.Errorf("failed to render admin report: %w", err)
	}

	return e.Mailer.Send(ctx, notify.Message{
		From:    e.Settings.SMTPFrom,
		To:      e.Settings.AdminEmail,
		Subject: adminSubject,
		Body:    body,
	})
}

// localRunTime shifts the sweep time into the configured default zone for
// display purposes.
func (e *Engine) localRunTime(now time.Time) time.Time {
	loc, err := time.LoadLocation(e.Settings.Timezone)
	if err != nil {
		return now.UTC()
	}
	return now.In(loc)
}
