// Copyright (c) 2026 The power-control authors.
// SPDX-License-Identifier: Apache-2.0

// Package report renders the HTML notification bodies. Templates are looked
// up in the configured template directory first so deployments can override
// the wording; the embedded defaults are used otherwise.
package report

import (
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/power-control/power-control/internal/instance"
	"github.com/power-control/power-control/internal/log"
)

// Template file names.
const (
	OwnerTemplate = "owner-notification.html"
	AdminTemplate = "admin-report.html"
)

//go:embed templates/*.html
var builtin embed.FS

// Renderer renders named templates from a directory, falling back to the
// embedded defaults.
type Renderer struct {
	dir string
}

// NewRenderer returns a Renderer for the given template directory. An empty
// dir means embedded templates only.
func NewRenderer(dir string) *Renderer {
	return &Renderer{dir: dir}
}

// Render executes the named template with data and returns the HTML body.
func (r *Renderer) Render(name string, data any) (string, error) {
	tmpl, err := r.lookup(name)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("failed to render template %s: %w", name, err)
	}
	return sb.String(), nil
}

// lookup loads the template by name, preferring the on-disk override.
func (r *Renderer) lookup(name string) (*template.Template, error) {
	if r.dir != "" {
		path := filepath.Join(r.dir, name)
		if _, err := os.Stat(path); err == nil {
			tmpl, err := template.ParseFiles(path)
			if err != nil {
				return nil, fmt.Errorf("failed to parse template %s: %w", path, err)
			}
			log.Debugf("template loaded: path=%s", path)
			return tmpl, nil
		}
	}

	tmpl, err := template.ParseFS(builtin, "templates/"+name)
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded template %s: %w", name, err)
	}
	log.Debugf("embedded template used: name=%s", name)
	return tmpl, nil
}

// OwnerContext is the data for the owner notification body.
type OwnerContext struct {
	AdminEmail string
	DryRun     bool
	Instances  []instance.Instance
	WaitHours  int
}

// AdminContext is the data for the admin run report body.
type AdminContext struct {
	Allowed        []instance.Instance
	DryRun         bool
	InvalidZone    []instance.Instance
	Malformed      []instance.Instance
	NoOwner        []instance.Instance
	NotifiedOwners []string
	NotRunning     []instance.Instance
	ProblemOwners  []string
	Protected      []instance.Instance
	RunTime        string
	ToStop         []instance.Instance
}

// FormatRunTime renders a sweep time the way the admin report heads it, e.g.
// "Monday (1) 14:05".
func FormatRunTime(t time.Time) string {
	return fmt.Sprintf("%s (%d) %s", t.Weekday(), isoWeekday(t), t.Format("15:04"))
}

func isoWeekday(t time.Time) int {
	day := int(t.Weekday())
	if day == 0 {
		return 7
	}
	return day
}
