// SPDX-FileCopyrightText: 2025 Bible Translation Tools and docweave contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package catalog parses the published translations index and answers
// resource lookups against it.
package catalog

import (
	"encoding/json"
	"os"
	"sort"
	"strings"

	"github.com/bibletranslationtools/docweave/pkg/docerr"
	"github.com/bibletranslationtools/docweave/pkg/resource"
)

// Link is one downloadable artifact attached to a catalog entry.
type Link struct {
	URL    string `json:"url"`
	Format string `json:"format"`
}

// Entry is one catalog tree node. The catalog top level is a list of language
// entries; their contents carry resources, which may nest subcontents (books
// or sub-resources). Every level shares this shape.
type Entry struct {
	Code        string  `json:"code"`
	Name        string  `json:"name,omitempty"`
	Direction   string  `json:"direction,omitempty"`
	Links       []Link  `json:"links,omitempty"`
	Contents    []Entry `json:"contents,omitempty"`
	Subcontents []Entry `json:"subcontents,omitempty"`
}

// Catalog is one parsed snapshot of the translations index. A snapshot is
// immutable; freshness is the fetcher's concern.
type Catalog struct {
	Languages []Entry
}

// Load reads and parses a catalog JSON file.
func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(raw, path)
}

// Parse unmarshals raw catalog JSON. path is used for error context only.
func Parse(raw []byte, path string) (*Catalog, error) {
	var languages []Entry
	if err := json.Unmarshal(raw, &languages); err != nil {
		return nil, &docerr.ParseError{Path: path, Format: "json", Err: err}
	}
	return &Catalog{Languages: languages}, nil
}

// The query layer is a small combinator set over the parsed tree: filter by
// code, descend into contents or subcontents, terminate on links of a format.

func byCode(entries []Entry, code string) []Entry {
	var out []Entry
	for _, e := range entries {
		if strings.EqualFold(e.Code, code) {
			out = append(out, e)
		}
	}
	return out
}

func contents(entries []Entry) []Entry {
	var out []Entry
	for _, e := range entries {
		out = append(out, e.Contents...)
	}
	return out
}

func subcontents(entries []Entry) []Entry {
	var out []Entry
	for _, e := range entries {
		out = append(out, e.Subcontents...)
	}
	return out
}

// urls collects the link URLs matching a wanted format, in document order.
func urls(entries []Entry, want string) []string {
	var out []string
	for _, e := range entries {
		for _, l := range e.Links {
			if l.URL != "" && formatMatches(l.Format, want) {
				out = append(out, l.URL)
			}
		}
	}
	return out
}

// formatMatches accepts case-insensitive equality and media-type suffixes,
// so a link declared text/usfm satisfies usfm.
func formatMatches(format, want string) bool {
	if strings.EqualFold(format, want) {
		return true
	}
	return strings.HasSuffix(strings.ToLower(format), "/"+strings.ToLower(want))
}

// Lookup translates a request into locators by trying the catalog path
// templates in order until one yields URLs:
//
//  1. scripture with a book: contents[code=rt].subcontents[code=bc].links[format=usfm]
//  2. language level: contents[code=rt].links[format=zip]
//  3. sub-language level: contents[*].subcontents[code=rt].links[format=zip]
//  4. download fallback: contents[code=rt].subcontents[code=bc].links[format=Download]
//
// An empty result means the request cannot be fulfilled from this snapshot.
func (c *Catalog) Lookup(req resource.Request) []resource.Locator {
	req = req.Normalize()
	lang := byCode(c.Languages, req.LangCode)

	var found []string
	if resource.KindOf(req.ResourceType) == resource.Scripture && req.BookCode != "" {
		found = urls(byCode(subcontents(byCode(contents(lang), req.ResourceType)), req.BookCode), "usfm")
	}
	if len(found) == 0 {
		found = urls(byCode(contents(lang), req.ResourceType), "zip")
	}
	if len(found) == 0 {
		found = urls(byCode(subcontents(contents(lang)), req.ResourceType), "zip")
	}
	if len(found) == 0 && req.BookCode != "" {
		found = urls(byCode(subcontents(byCode(contents(lang), req.ResourceType)), req.BookCode), "Download")
	}

	locators := make([]resource.Locator, 0, len(found))
	for _, u := range found {
		locators = append(locators, resource.LocatorFor(u))
	}
	return locators
}

// LanguageCodes returns the deduplicated, sorted language codes.
func (c *Catalog) LanguageCodes() []string {
	return dedupSorted(codes(c.Languages))
}

// ResourceTypes returns the deduplicated, sorted resource type codes across
// all languages.
func (c *Catalog) ResourceTypes() []string {
	return dedupSorted(codes(contents(c.Languages)))
}

// BookCodes returns the deduplicated, sorted subcontent codes across all
// resources.
func (c *Catalog) BookCodes() []string {
	return dedupSorted(codes(subcontents(contents(c.Languages))))
}

// LanguageName resolves the display name of a language code, falling back to
// the code itself.
func (c *Catalog) LanguageName(code string) string {
	for _, e := range byCode(c.Languages, code) {
		if e.Name != "" {
			return e.Name
		}
	}
	return code
}

// ResourceName resolves the display name of a resource type within one
// language, looking at both content and sub-content level.
func (c *Catalog) ResourceName(lang, resourceType string) string {
	l := byCode(c.Languages, lang)
	entries := byCode(contents(l), resourceType)
	entries = append(entries, byCode(subcontents(contents(l)), resourceType)...)
	for _, e := range entries {
		if e.Name != "" {
			return e.Name
		}
	}
	return resourceType
}

// BookName resolves the display name of a book within one language resource.
func (c *Catalog) BookName(lang, resourceType, bookCode string) string {
	l := byCode(c.Languages, lang)
	for _, e := range byCode(subcontents(byCode(contents(l), resourceType)), bookCode) {
		if e.Name != "" {
			return e.Name
		}
	}
	return bookCode
}

func codes(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Code != "" {
			out = append(out, strings.ToLower(e.Code))
		}
	}
	return out
}

func dedupSorted(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
