// Copyright (c) 2026 The power-control authors.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

// setupTestConfig points POWER_CONTROL_CFG_FILE at a testdata file and resets
// the global Config so the next getter call reloads.
func setupTestConfig(t *testing.T, testdataFile string) {
	t.Helper()

	absPath, err := filepath.Abs(filepath.Join("testdata", testdataFile))
	assert.NoError(t, err, "failed to get absolute path for test config")

	t.Setenv("POWER_CONTROL_CFG_FILE", absPath)
	Config = Type{}
	t.Cleanup(func() { Config = Type{} })
}

func TestLoad_Simple(t *testing.T) {
	setupTestConfig(t, "simple.yaml")

	cfg, err := Load()
	assert.NoError(t, err)
	assert.NotEmpty(t, cfg.Source)
	assert.Equal(t, "us-west-2", cfg.Data["region"])
	assert.Equal(t, "/data/power-control.json", cfg.Data["tracking_file"])
}

func TestLoad_Namespace(t *testing.T) {
	setupTestConfig(t, "nested.yaml")

	cfg, err := Load("report")
	assert.NoError(t, err)
	assert.Equal(t, "report", cfg.Namespace)

	// The namespaced key is preferred.
	val, err := GetString("output")
	assert.NoError(t, err)
	assert.Equal(t, "json", val)
}

func TestLoad_NoConfigFile(t *testing.T) {
	t.Setenv("POWER_CONTROL_CFG_FILE", "/nonexistent/path/power-control.yaml")
	Config = Type{}
	t.Cleanup(func() { Config = Type{} })

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestLoad_CfgFileIsDirectory(t *testing.T) {
	t.Setenv("POWER_CONTROL_CFG_FILE", "testdata")
	Config = Type{}
	t.Cleanup(func() { Config = Type{} })

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "points to a directory")
}

func TestGetString(t *testing.T) {
	setupTestConfig(t, "nested.yaml")
	_, _ = Load()

	val, err := GetString("smtp.host")
	assert.NoError(t, err)
	assert.Equal(t, "mail.example.com", val)

	val, err = GetString("missing", "fallback")
	assert.NoError(t, err)
	assert.Equal(t, "fallback", val)

	_, err = GetString("missing")
	assert.Error(t, err)

	// Value exists but is not a string.
	_, err = GetString("report.padding")
	assert.Error(t, err)
}

func TestGetInt(t *testing.T) {
	setupTestConfig(t, "mixed-types.yaml")
	_, _ = Load()

	val, err := GetInt("wait_hours")
	assert.NoError(t, err)
	assert.Equal(t, 12, val)

	// Floats are truncated.
	val, err = GetInt("timeout")
	assert.NoError(t, err)
	assert.Equal(t, 30, val)

	val, err = GetInt("missing", 60)
	assert.NoError(t, err)
	assert.Equal(t, 60, val)

	_, err = GetInt("name")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not an int")
}

func TestGetStringSlice(t *testing.T) {
	setupTestConfig(t, "mixed-types.yaml")
	_, _ = Load()

	vals, err := GetStringSlice("protected")
	assert.NoError(t, err)
	assert.Equal(t, []string{"admin@example.com", "ops@example.com"}, vals)

	// Non-string element in list.
	_, err = GetStringSlice("bad_list")
	assert.Error(t, err)

	// Not a list.
	_, err = GetStringSlice("name")
	assert.Error(t, err)

	def := []string{"x"}
	vals, err = GetStringSlice("does.not.exist", def)
	assert.NoError(t, err)
	assert.Equal(t, def, vals)
}

func TestSplitOwners(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"empty", "", nil},
		{"single", "Alice@Example.com", []string{"alice@example.com"}},
		{"trims and lowers", " Bob@example.com , carol@EXAMPLE.com ", []string{"bob@example.com", "carol@example.com"}},
		{"drops empties", "a@b.c,,", []string{"a@b.c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitOwners(tt.raw))
		})
	}
}

func TestIsProtected(t *testing.T) {
	s := &Settings{ProtectedOwners: SplitOwners("alice@example.com,bob@example.com")}

	assert.True(t, s.IsProtected("alice@example.com"))
	assert.True(t, s.IsProtected(" ALICE@example.com "))
	assert.False(t, s.IsProtected("mallory@example.com"))
	assert.False(t, s.IsProtected(""))
}

func TestTruthy(t *testing.T) {
	for _, v := range []string{"true", "TRUE", "yes", "on", "1", " Yes "} {
		assert.True(t, Truthy(v), v)
	}
	for _, v := range []string{"", "false", "0", "no", "off", "2", "truthy"} {
		assert.False(t, Truthy(v), v)
	}
}
