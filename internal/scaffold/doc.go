// SPDX-License-Identifier: MPL-2.0

// Package scaffold creates new Rust crates that are ready to be packaged,
// either with uniffi proc macros or with a UDL interface description.
package scaffold
