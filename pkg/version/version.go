// SPDX-FileCopyrightText: 2025 Bible Translation Tools and docweave contributors
//
// SPDX-License-Identifier: Apache-2.0

package version

// Version is set at compile time via -ldflags in the `go build` process.
// It holds the docweave release version, either <X> or <X.Y>.
var Version = "binary was not built properly"
