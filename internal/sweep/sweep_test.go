// Copyright (c) 2026 The power-control authors.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package sweep

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/power-control/power-control/internal/config"
	"github.com/power-control/power-control/internal/instance"
	"github.com/power-control/power-control/internal/notify"
	"github.com/power-control/power-control/internal/report"
	"github.com/power-control/power-control/internal/tracking"
)

// recordingMailer captures sent messages and can refuse recipients.
type recordingMailer struct {
	sent   []notify.Message
	refuse map[string]bool
}

func (m *recordingMailer) Send(_ context.Context, msg notify.Message) error {
	if m.refuse[msg.To] {
		return errors.New("recipient refused")
	}
	m.sent = append(m.sent, msg)
	return nil
}

func testEngine(t *testing.T, client *fakeEC2, settings *config.Settings, mailer *recordingMailer) *Engine {
	t.Helper()
	t.Setenv("POWER_CONTROL_CACHE_DIR", t.TempDir())

	if settings.TrackingFile == "" {
		settings.TrackingFile = filepath.Join(t.TempDir(), "power-control.json")
	}
	if settings.Timezone == "" {
		settings.Timezone = "Etc/UTC"
	}
	if settings.Action == "" {
		settings.Action = ActionStop
	}
	settings.AdminEmail = "admin@example.com"
	settings.SMTPFrom = "power-control@example.com"
	if settings.NotificationWait == 0 {
		settings.NotificationWait = 12 * time.Hour
	}

	return &Engine{
		Settings:      settings,
		RegionsClient: client,
		ClientFor:     func(string) InstancesAPI { return client },
		Mailer:        mailer,
		Renderer:      report.NewRenderer(""),
		Store:         tracking.NewStore(settings.TrackingFile),
		Now:           func() time.Time { return testNow },
	}
}

// One region, two out-of-schedule instances owned by the same owner, one
// in-schedule instance.
func sweepFixture() *fakeEC2 {
	offSchedule := map[string]string{
		"OWNEREMAIL":      "kermit@example.com",
		"RUNNINGSCHEDULE": "08:00:12:00:1-5",
	}
	onSchedule := map[string]string{
		"OWNEREMAIL":      "gonzo@example.com",
		"RUNNINGSCHEDULE": "08:00:18:00:1-5",
	}
	return &fakeEC2{
		regions: []string{"us-west-2"},
		pages: [][]ec2types.Reservation{
			{{Instances: []ec2types.Instance{
				ec2Instance("i-01", "running", offSchedule),
				ec2Instance("i-02", "running", offSchedule),
				ec2Instance("i-03", "running", onSchedule),
			}}},
		},
	}
}

func TestSweepNotifiesAndStops(t *testing.T) {
	client := sweepFixture()
	mailer := &recordingMailer{}
	engine := testEngine(t, client, &config.Settings{DryRun: false}, mailer)

	require.NoError(t, engine.Sweep(context.Background()))

	// One owner email plus the admin report.
	require.Len(t, mailer.sent, 2)
	assert.Equal(t, "kermit@example.com", mailer.sent[0].To)
	assert.Equal(t, "Automatically stopping your environments", mailer.sent[0].Subject)
	assert.Contains(t, mailer.sent[0].Body, "i-01")
	assert.Contains(t, mailer.sent[0].Body, "i-02")

	assert.Equal(t, "admin@example.com", mailer.sent[1].To)
	assert.Equal(t, "Power Control Run Report", mailer.sent[1].Subject)
	assert.Contains(t, mailer.sent[1].Body, "kermit@example.com")

	// Both out-of-schedule instances stopped in one batched call.
	require.Len(t, client.stopped, 1)
	assert.ElementsMatch(t, []string{"i-01", "i-02"}, client.stopped[0])

	// The tracking file recorded both notifications.
	times, err := engine.Store.Load()
	require.NoError(t, err)
	assert.Contains(t, times, "i-01")
	assert.Contains(t, times, "i-02")
}

func TestSweepDryRunSkipsAction(t *testing.T) {
	client := sweepFixture()
	mailer := &recordingMailer{}
	engine := testEngine(t, client, &config.Settings{DryRun: true}, mailer)

	require.NoError(t, engine.Sweep(context.Background()))

	assert.Empty(t, client.stopped)
	assert.Empty(t, client.terminated)
	// Notifications still go out in dry-run mode.
	assert.NotEmpty(t, mailer.sent)
}

func TestSweepTerminateAction(t *testing.T) {
	client := sweepFixture()
	mailer := &recordingMailer{}
	engine := testEngine(t, client, &config.Settings{Action: ActionTerminate}, mailer)

	require.NoError(t, engine.Sweep(context.Background()))

	assert.Empty(t, client.stopped)
	require.Len(t, client.terminated, 1)
	assert.ElementsMatch(t, []string{"i-01", "i-02"}, client.terminated[0])
}

func TestSweepSuppressesRecentNotifications(t *testing.T) {
	client := sweepFixture()
	mailer := &recordingMailer{}
	engine := testEngine(t, client, &config.Settings{DryRun: false}, mailer)

	// i-01 was notified an hour ago; only i-02 gets a fresh notification.
	require.NoError(t, engine.Store.Save(map[string]time.Time{
		"i-01": testNow.Add(-1 * time.Hour),
	}))

	require.NoError(t, engine.Sweep(context.Background()))

	require.Len(t, mailer.sent, 2)
	assert.Contains(t, mailer.sent[0].Body, "i-02")
	assert.NotContains(t, mailer.sent[0].Body, "i-01")

	// The suppressed instance is still stopped.
	require.Len(t, client.stopped, 1)
	assert.ElementsMatch(t, []string{"i-01", "i-02"}, client.stopped[0])
}

func TestSweepNoAdminReportWithoutFreshNotifications(t *testing.T) {
	client := sweepFixture()
	mailer := &recordingMailer{}
	engine := testEngine(t, client, &config.Settings{DryRun: false}, mailer)

	// Everyone was notified recently.
	require.NoError(t, engine.Store.Save(map[string]time.Time{
		"i-01": testNow.Add(-1 * time.Hour),
		"i-02": testNow.Add(-1 * time.Hour),
	}))

	require.NoError(t, engine.Sweep(context.Background()))

	assert.Empty(t, mailer.sent)
	require.Len(t, client.stopped, 1)
}

func TestSweepRefusedRecipientLandsInProblemList(t *testing.T) {
	client := sweepFixture()
	mailer := &recordingMailer{refuse: map[string]bool{"kermit@example.com": true}}
	engine := testEngine(t, client, &config.Settings{DryRun: false}, mailer)

	require.NoError(t, engine.Sweep(context.Background()))

	// No owner delivery succeeded, but the admin report still goes out and
	// carries the failed owner in the problem list.
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "admin@example.com", mailer.sent[0].To)
	assert.Equal(t, "Power Control Run Report", mailer.sent[0].Subject)
	assert.Contains(t, mailer.sent[0].Body, "kermit@example.com")

	// The sweep still completes and stops the instances.
	require.Len(t, client.stopped, 1)
}

func TestSweepAdminReportFailureDoesNotAbort(t *testing.T) {
	client := sweepFixture()
	mailer := &recordingMailer{refuse: map[string]bool{"admin@example.com": true}}
	engine := testEngine(t, client, &config.Settings{DryRun: false}, mailer)

	require.NoError(t, engine.Sweep(context.Background()))

	// The owner notification went out and the action still ran.
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "kermit@example.com", mailer.sent[0].To)
	require.Len(t, client.stopped, 1)
}

func TestSweepProblemOwnerInAdminReport(t *testing.T) {
	offKermit := map[string]string{
		"OWNEREMAIL":      "kermit@example.com",
		"RUNNINGSCHEDULE": "08:00:12:00:1-5",
	}
	offGonzo := map[string]string{
		"OWNEREMAIL":      "gonzo@example.com",
		"RUNNINGSCHEDULE": "08:00:12:00:1-5",
	}
	client := &fakeEC2{
		regions: []string{"us-west-2"},
		pages: [][]ec2types.Reservation{
			{{Instances: []ec2types.Instance{
				ec2Instance("i-01", "running", offKermit),
				ec2Instance("i-02", "running", offGonzo),
			}}},
		},
	}
	mailer := &recordingMailer{refuse: map[string]bool{"kermit@example.com": true}}
	engine := testEngine(t, client, &config.Settings{DryRun: false}, mailer)

	require.NoError(t, engine.Sweep(context.Background()))

	// gonzo notified, admin report mentions kermit as a problem owner.
	require.Len(t, mailer.sent, 2)
	assert.Equal(t, "gonzo@example.com", mailer.sent[0].To)
	assert.Equal(t, "admin@example.com", mailer.sent[1].To)
	assert.Contains(t, mailer.sent[1].Body, "kermit@example.com")
}

func TestSweepProtectedOwnerLeftAlone(t *testing.T) {
	client := sweepFixture()
	mailer := &recordingMailer{}
	settings := &config.Settings{
		DryRun:          false,
		ProtectedOwners: []string{"kermit@example.com"},
	}
	engine := testEngine(t, client, settings, mailer)

	require.NoError(t, engine.Sweep(context.Background()))

	assert.Empty(t, mailer.sent)
	assert.Empty(t, client.stopped)
}

func TestExecuteGroupsByRegion(t *testing.T) {
	client := sweepFixture()
	mailer := &recordingMailer{}
	engine := testEngine(t, client, &config.Settings{DryRun: false}, mailer)

	candidates := []instance.Instance{
		{ID: "i-01", Region: "us-west-2"},
		{ID: "i-02", Region: "eu-west-1"},
		{ID: "i-03", Region: "us-west-2"},
	}

	require.NoError(t, engine.Execute(context.Background(), candidates))

	require.Len(t, client.stopped, 2)
	assert.Equal(t, []string{"i-02"}, client.stopped[0])
	assert.Equal(t, []string{"i-01", "i-03"}, client.stopped[1])
}

func TestExecuteUnknownAction(t *testing.T) {
	client := sweepFixture()
	engine := testEngine(t, client, &config.Settings{DryRun: false}, &recordingMailer{})
	engine.Settings.Action = "reboot"

	err := engine.Execute(context.Background(), []instance.Instance{{ID: "i-01", Region: "us-west-2"}})
	assert.Error(t, err)
}
