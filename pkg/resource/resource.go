// SPDX-FileCopyrightText: 2025 Bible Translation Tools and docweave contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package resource defines the request and materialized-resource records the
// pipeline phases pass between each other.
package resource

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/bibletranslationtools/docweave/pkg/helps"
	"github.com/bibletranslationtools/docweave/pkg/usfm"
)

// Request names one translation resource: a language, a resource type and an
// optional book. Requests are immutable inputs.
type Request struct {
	LangCode     string `json:"lang_code" mapstructure:"lang-code"`
	ResourceType string `json:"resource_type" mapstructure:"resource-type"`
	BookCode     string `json:"book_code,omitempty" mapstructure:"book-code"`
}

// Normalize lowercases and trims the request fields.
func (r Request) Normalize() Request {
	return Request{
		LangCode:     strings.ToLower(strings.TrimSpace(r.LangCode)),
		ResourceType: strings.ToLower(strings.TrimSpace(r.ResourceType)),
		BookCode:     strings.ToLower(strings.TrimSpace(r.BookCode)),
	}
}

func (r Request) String() string {
	if r.BookCode == "" {
		return fmt.Sprintf("%s/%s", r.LangCode, r.ResourceType)
	}
	return fmt.Sprintf("%s/%s/%s", r.LangCode, r.ResourceType, r.BookCode)
}

// ParseRequest reads the lang/type[/book] form used by the CLI.
func ParseRequest(s string) (Request, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	switch len(parts) {
	case 2:
		return Request{LangCode: parts[0], ResourceType: parts[1]}.Normalize(), nil
	case 3:
		return Request{LangCode: parts[0], ResourceType: parts[1], BookCode: parts[2]}.Normalize(), nil
	}
	return Request{}, fmt.Errorf("invalid resource request %q, want lang/type or lang/type/book", s)
}

// Kind selects the parser for a resource type.
type Kind int

const (
	Scripture Kind = iota
	Notes
	Questions
	Words
	Academy
	Commentary
)

func (k Kind) String() string {
	switch k {
	case Scripture:
		return "scripture"
	case Notes:
		return "notes"
	case Questions:
		return "questions"
	case Words:
		return "words"
	case Academy:
		return "academy"
	case Commentary:
		return "commentary"
	}
	return "unknown"
}

// KindOf classifies a resource type code. Helps types are recognized by a
// well-known segment (tn, tq, tw, ta, bc); everything else carries scripture.
func KindOf(resourceType string) Kind {
	for _, seg := range strings.Split(strings.ToLower(resourceType), "-") {
		switch seg {
		case "tn":
			return Notes
		case "tq":
			return Questions
		case "tw":
			return Words
		case "ta":
			return Academy
		case "bc":
			return Commentary
		}
	}
	return Scripture
}

// FileFormat tags how a locator URL has to be acquired.
type FileFormat string

const (
	FormatZip   FileFormat = "zip"
	FormatGit   FileFormat = "git"
	FormatUSFM  FileFormat = "usfm"
	FormatTxt   FileFormat = "txt"
	FormatTSV   FileFormat = "tsv"
	FormatMd    FileFormat = "md"
	FormatOther FileFormat = "other"
)

// Locator points at one downloadable asset.
type Locator struct {
	URL    string
	Format FileFormat
}

// LocatorFor derives the file format from the URL suffix. A URL without a
// recognizable suffix is treated as a git repository.
func LocatorFor(rawURL string) Locator {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		p = u.Path
	}
	switch strings.ToLower(path.Ext(strings.TrimSuffix(p, "/"))) {
	case ".zip":
		return Locator{URL: rawURL, Format: FormatZip}
	case ".git":
		return Locator{URL: rawURL, Format: FormatGit}
	case ".usfm":
		return Locator{URL: rawURL, Format: FormatUSFM}
	case ".txt":
		return Locator{URL: rawURL, Format: FormatTxt}
	case ".tsv":
		return Locator{URL: rawURL, Format: FormatTSV}
	case ".md":
		return Locator{URL: rawURL, Format: FormatMd}
	case "":
		return Locator{URL: rawURL, Format: FormatGit}
	}
	return Locator{URL: rawURL, Format: FormatOther}
}

// Resource is the in-memory materialization of a fulfilled request. It is
// created by the orchestrator, filled in by layout discovery, the parsers and
// the link rewriter, and read-only from assembly on.
type Resource struct {
	Request
	Kind   Kind
	Dir    string
	Format FileFormat

	// ManifestType is yaml, txt or json; empty for manifest-free resources.
	ManifestType string
	Manifest     map[string]interface{}
	Version      string
	Issued       string

	BookID    string
	BookTitle string
	BookNum   int

	ContentFiles []string

	Scripture *usfm.Tree
	Helps     *helps.Tree

	// LinkTokens are the rc tokens this resource's content produced;
	// BadLinks the ones that stayed unresolved after fallback.
	LinkTokens []string
	BadLinks   []string
}

// Populated reports whether parsing yielded content for the resource's kind.
// Words and academy resources count as populated once acquired: they serve
// as link-resolution sources and render from the arena, not from a tree of
// their own.
func (r *Resource) Populated() bool {
	switch r.Kind {
	case Scripture:
		return r.Scripture != nil && len(r.Scripture.Chapters) > 0
	case Words, Academy:
		return r.Dir != ""
	default:
		return r.Helps != nil && !r.Helps.Empty()
	}
}
