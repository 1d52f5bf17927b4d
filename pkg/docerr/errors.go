// SPDX-FileCopyrightText: 2025 Bible Translation Tools and docweave contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package docerr defines the error taxonomy of the document pipeline.
// Recoverable errors are accumulated per resource and surfaced on the
// cover page; only assembly-configuration errors and output I/O errors
// fail a whole task.
package docerr

import (
	"errors"
	"fmt"
)

// NotFoundInCatalog indicates the catalog resolver returned no asset
// locations for a resource request. The request is moved to the
// unfulfilled list.
type NotFoundInCatalog struct {
	LangCode     string
	ResourceType string
	BookCode     string
}

func (e *NotFoundInCatalog) Error() string {
	if e.BookCode == "" {
		return fmt.Sprintf("no catalog entry for %s/%s", e.LangCode, e.ResourceType)
	}
	return fmt.Sprintf("no catalog entry for %s/%s/%s", e.LangCode, e.ResourceType, e.BookCode)
}

// AcquisitionError indicates a network, clone or unzip failure while
// materializing an asset on disk. Recoverable per resource.
type AcquisitionError struct {
	URL string
	Op  string // "download", "clone", "unzip"
	Err error
}

func (e *AcquisitionError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.URL, e.Err)
}

func (e *AcquisitionError) Unwrap() error { return e.Err }

// LayoutError indicates an unpacked resource directory could not be
// interpreted: no manifest where one is mandatory, or no content files
// matched the request. Recoverable per resource.
type LayoutError struct {
	Dir    string
	Reason string
}

func (e *LayoutError) Error() string {
	return fmt.Sprintf("resource layout at %s unusable: %s", e.Dir, e.Reason)
}

// ParseError indicates scripture or helps content could not be parsed.
// Recoverable per resource.
type ParseError struct {
	Path   string
	Format string // "usfm", "markdown", "manifest"
	Err    error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("failed to parse %s content: %v", e.Format, e.Err)
	}
	return fmt.Sprintf("failed to parse %s content at %s: %v", e.Format, e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// BrokenLink records a cross-reference token that could not be resolved
// to a file on disk, including after category fallback. Broken links are
// collected in the owning resource's bad-links bag and never abort the
// pipeline.
type BrokenLink struct {
	Token string
	Path  string
}

func (e *BrokenLink) Error() string {
	return fmt.Sprintf("unresolvable reference %s (looked at %s)", e.Token, e.Path)
}

// AssemblerError indicates an inconsistent assembly configuration, e.g.
// verse granularity with no scripture resources. Fatal to the request.
type AssemblerError struct {
	Reason string
}

func (e *AssemblerError) Error() string {
	return fmt.Sprintf("cannot assemble document: %s", e.Reason)
}

// ConverterError indicates an external format converter failed. The
// document is still delivered in HTML; the extra format is omitted.
type ConverterError struct {
	Format string
	Err    error
}

func (e *ConverterError) Error() string {
	return fmt.Sprintf("conversion to %s failed: %v", e.Format, e.Err)
}

func (e *ConverterError) Unwrap() error { return e.Err }

// IsRecoverable reports whether err may be absorbed as a per-resource
// failure. Assembler errors and unknown errors are not recoverable.
func IsRecoverable(err error) bool {
	var (
		nf *NotFoundInCatalog
		aq *AcquisitionError
		le *LayoutError
		pe *ParseError
		bl *BrokenLink
		ce *ConverterError
	)
	switch {
	case errors.As(err, &nf), errors.As(err, &aq), errors.As(err, &le),
		errors.As(err, &pe), errors.As(err, &bl), errors.As(err, &ce):
		return true
	}
	return false
}
