// Copyright (c) 2026 The power-control authors.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package sweep is the engine behind the run and daemon commands. One sweep
// discovers the account's enabled regions, lists every EC2 instance, decides
// each instance's fate against its RUNNINGSCHEDULE tag, reconciles the
// notification record, emails owners and the admin, and finally applies the
// configured power action to the out-of-schedule instances.
package sweep
