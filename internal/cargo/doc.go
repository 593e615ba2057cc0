// SPDX-License-Identifier: MPL-2.0

// Package cargo reads crate metadata from Cargo.toml and knows where cargo
// places the libraries it builds.
package cargo
