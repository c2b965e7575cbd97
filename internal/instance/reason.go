// Copyright (c) 2026 The power-control authors.
// SPDX-License-Identifier: Apache-2.0

package instance

// Reason classifies the outcome of evaluating one instance against its
// running schedule.
type Reason int

const (
	ReasonNotRunning Reason = iota
	ReasonNoOwner
	ReasonProtectedOwner
	ReasonMalformed
	ReasonInvalidZone
	ReasonDayMismatch
	ReasonTimeMismatch
	ReasonAllowed
)

// reasonNames are the stable identifiers used in report output.
var reasonNames = map[Reason]string{
	ReasonNotRunning:     "not-running",
	ReasonNoOwner:        "no-owner",
	ReasonProtectedOwner: "protected-owner",
	ReasonMalformed:      "malformed",
	ReasonInvalidZone:    "invalid-zone",
	ReasonDayMismatch:    "day-mismatch",
	ReasonTimeMismatch:   "time-mismatch",
	ReasonAllowed:        "allowed",
}

func (r Reason) String() string {
	if name, ok := reasonNames[r]; ok {
		return name
	}
	return "unknown"
}

// Stops reports whether the reason marks the instance as a stop candidate.
func (r Reason) Stops() bool {
	return r == ReasonDayMismatch || r == ReasonTimeMismatch
}
