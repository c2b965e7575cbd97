// Copyright (c) 2026 The power-control authors.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package aws contains AWS SDK helpers: config loading with functional
// options and client constructors for the EC2 and SES services the sweep
// talks to.
package aws
