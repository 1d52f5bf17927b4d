// SPDX-FileCopyrightText: 2025 Bible Translation Tools and docweave contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package writers persists finished documents under their content key.
package writers

// Writer writes one output file under its document key name and reports the
// final path.
type Writer interface {
	Write(name string, blob []byte) (string, error)
}
