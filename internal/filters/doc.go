// Copyright (c) 2026 The power-control authors.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package filters provides filtering capabilities for report rows.
//
// The package parses filter expressions to select subsets of instance rows
// based on attribute values. Filters are specified as key-operator-target
// expressions and can be combined using a configurable delimiter
// (default: comma).
//
// Operators include:
//
//   - = : exact match (supports negation with !=)
//   - ^ : prefix match (supports negation with !^)
//   - ~ : case-insensitive match (supports negation with !~)
//   - < : less than (numeric comparison)
//   - > : greater than (numeric comparison)
//   - @ : contains substring (supports negation with !@)
//   - / : regex match (supports negation with !/)
//
// Examples:
//
//   - "owner=kermit@example.com" : matches rows where owner equals the address
//   - "id^i-0abc" : matches rows where the instance id starts with "i-0abc"
//   - "region/us-.*-2" : matches rows where region matches "us-.*-2"
//   - "owner!@test" : matches rows where owner does not contain "test"
//
// Filter Keys and Attributes:
//
// Filter keys are matched against the OutputKey of attributes (see attrs
// package).
//
// Filter Parsing:
//
// The BuildFilters function parses a comma-delimited (or custom-delimited)
// filter specification string. Invalid specifications (unsupported operands
// or malformed expressions) are logged as warnings and skipped, allowing
// partial filter sets to be processed.
//
// Filter Application:
//
// FilterDataset filters candidate rows, keeping only those that match all
// provided filter expressions. Attributes specified in the attrs parameter
// determine which fields from the row are included in the filtered result.
package filters
