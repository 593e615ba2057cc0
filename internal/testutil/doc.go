// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that fail the test
// immediately on filesystem errors, so fixtures stay one line each.
//
// Helpers take an afero.Fs, letting the same fixture code populate an
// in-memory filesystem in unit tests and the OS filesystem in CLI tests.
package testutil
