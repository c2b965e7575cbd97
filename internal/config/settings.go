// Copyright (c) 2026 The power-control authors.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"strings"
	"time"

	"github.com/urfave/cli/v3"
)

// Settings is the fully-resolved runtime configuration for a sweep. It is
// built from command flags, which in turn source values from the environment
// and the optional YAML config file.
type Settings struct {
	Action              string
	AdminEmail          string
	CronSpec            string
	DryRun              bool
	EmailTransport      string
	Immediate           bool
	NotificationWait    time.Duration
	ProtectedOwners     []string
	Region              string
	SendEmail           bool
	SESConfigurationSet string
	SMTPFrom            string
	SMTPHost            string
	SMTPPassword        string
	SMTPUsername        string
	TemplatePath        string
	Timezone            string
	TrackingFile        string
}

// FromCommand resolves a Settings from the flags of the given command. Flags
// that a command does not declare resolve to their zero values, which is fine
// for commands that never touch the corresponding subsystem.
func FromCommand(cmd *cli.Command) *Settings {
	return &Settings{
		Action:              cmd.String("action"),
		AdminEmail:          cmd.String("admin-email"),
		CronSpec:            cmd.String("cron"),
		DryRun:              cmd.Bool("dry-run"),
		EmailTransport:      cmd.String("transport"),
		Immediate:           cmd.Bool("immediate"),
		NotificationWait:    time.Duration(cmd.Int("wait-hours")) * time.Hour,
		ProtectedOwners:     SplitOwners(cmd.String("protected-owners")),
		Region:              cmd.String("region"),
		SendEmail:           cmd.Bool("send-email"),
		SESConfigurationSet: cmd.String("ses-configuration-set"),
		SMTPFrom:            cmd.String("smtp-from"),
		SMTPHost:            cmd.String("smtp-host"),
		SMTPPassword:        cmd.String("smtp-password"),
		SMTPUsername:        cmd.String("smtp-username"),
		TemplatePath:        cmd.String("template-path"),
		Timezone:            cmd.String("tz"),
		TrackingFile:        cmd.String("tracking-file"),
	}
}

// IsProtected reports whether the given owner is on the protected list.
// Owners are compared case-insensitively after trimming.
func (s *Settings) IsProtected(owner string) bool {
	owner = strings.ToLower(strings.TrimSpace(owner))
	for _, p := range s.ProtectedOwners {
		if p == owner {
			return true
		}
	}
	return false
}

// SplitOwners normalizes a comma-separated owner list: each entry is trimmed
// and lowercased, empty entries are dropped.
func SplitOwners(raw string) []string {
	var owners []string
	for _, o := range strings.Split(raw, ",") {
		o = strings.ToLower(strings.TrimSpace(o))
		if o != "" {
			owners = append(owners, o)
		}
	}
	return owners
}

// Truthy reports whether the given string spells a true value the same way
// the container env vars do: true/yes/on/1, case-insensitive.
func Truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "on", "1":
		return true
	}
	return false
}
