// Copyright (c) 2026 The power-control authors.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package command

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutputValidator(t *testing.T) {
	for _, valid := range []string{"text", "json", "raw", "yaml"} {
		assert.NoError(t, OutputValidator(valid))
	}
	assert.Error(t, OutputValidator("xml"))
	assert.Error(t, OutputValidator(""))
}

func TestActionValidator(t *testing.T) {
	assert.NoError(t, ActionValidator("stop"))
	assert.NoError(t, ActionValidator("terminate"))
	assert.Error(t, ActionValidator("reboot"))
}

func TestTransportValidator(t *testing.T) {
	assert.NoError(t, TransportValidator("smtp"))
	assert.NoError(t, TransportValidator("ses"))
	assert.Error(t, TransportValidator("sendmail"))
}

func TestFlagValidatorsChain(t *testing.T) {
	boom := errors.New("boom")
	fail := func(any) error { return boom }
	pass := func(any) error { return nil }

	assert.NoError(t, FlagValidators("x"))
	assert.NoError(t, FlagValidators("x", pass, pass))
	assert.ErrorIs(t, FlagValidators("x", pass, fail), boom)
}
