// SPDX-FileCopyrightText: 2025 Bible Translation Tools and docweave contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package assemble interleaves parsed resources into a single HTML document
// under a strategy (outer grouping), a chunk size (inner granularity) and a
// layout (column arrangement).
package assemble

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"time"

	"k8s.io/klog/v2"

	"github.com/bibletranslationtools/docweave/pkg/docerr"
	"github.com/bibletranslationtools/docweave/pkg/links"
	"github.com/bibletranslationtools/docweave/pkg/resource"
)

//go:embed style_screen.css
var screenCSS string

//go:embed style_print.css
var printCSS string

// Strategy selects the outer document order.
type Strategy int

const (
	// LanguageBookOrder groups by language in request order, books in
	// canonical number order within each language.
	LanguageBookOrder Strategy = iota
	// BookLanguageOrder groups by book number, languages in request order
	// within each book.
	BookLanguageOrder
)

func (s Strategy) String() string {
	if s == BookLanguageOrder {
		return "BOOK_LANGUAGE_ORDER"
	}
	return "LANGUAGE_BOOK_ORDER"
}

// ParseStrategy reads a strategy name as the API and CLI spell it.
func ParseStrategy(s string) (Strategy, error) {
	switch canonical(s) {
	case "LANGUAGE_BOOK_ORDER", "":
		return LanguageBookOrder, nil
	case "BOOK_LANGUAGE_ORDER":
		return BookLanguageOrder, nil
	}
	return LanguageBookOrder, fmt.Errorf("unknown assembly strategy %q", s)
}

// Layout selects the column arrangement.
type Layout int

const (
	OneColumn Layout = iota
	OneColumnCompact
	TwoColumnSideBySide
	TwoColumnSideBySideCompact
)

func (l Layout) String() string {
	switch l {
	case OneColumnCompact:
		return "ONE_COLUMN_COMPACT"
	case TwoColumnSideBySide:
		return "TWO_COLUMN_SL_SR"
	case TwoColumnSideBySideCompact:
		return "TWO_COLUMN_SL_SR_COMPACT"
	}
	return "ONE_COLUMN"
}

// TwoColumn reports whether scripture pairs render side by side.
func (l Layout) TwoColumn() bool {
	return l == TwoColumnSideBySide || l == TwoColumnSideBySideCompact
}

// Compact reports whether intra-group spacing is dropped.
func (l Layout) Compact() bool {
	return l == OneColumnCompact || l == TwoColumnSideBySideCompact
}

// ParseLayout reads a layout name.
func ParseLayout(s string) (Layout, error) {
	switch canonical(s) {
	case "ONE_COLUMN", "":
		return OneColumn, nil
	case "ONE_COLUMN_COMPACT":
		return OneColumnCompact, nil
	case "TWO_COLUMN_SL_SR":
		return TwoColumnSideBySide, nil
	case "TWO_COLUMN_SL_SR_COMPACT":
		return TwoColumnSideBySideCompact, nil
	}
	return OneColumn, fmt.Errorf("unknown layout %q", s)
}

// ChunkSize selects the inner granularity.
type ChunkSize int

const (
	Book ChunkSize = iota
	Chapter
	Verse
)

func (c ChunkSize) String() string {
	switch c {
	case Chapter:
		return "CHAPTER"
	case Verse:
		return "VERSE"
	}
	return "BOOK"
}

// ParseChunkSize reads a chunk size name.
func ParseChunkSize(s string) (ChunkSize, error) {
	switch canonical(s) {
	case "BOOK", "":
		return Book, nil
	case "CHAPTER":
		return Chapter, nil
	case "VERSE":
		return Verse, nil
	}
	return Book, fmt.Errorf("unknown chunk size %q", s)
}

func canonical(s string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_"))
}

// Config is the full assembly configuration of one document request.
type Config struct {
	Strategy       Strategy  `json:"assembly_strategy" mapstructure:"assembly-strategy"`
	Layout         Layout    `json:"assembly_layout" mapstructure:"assembly-layout"`
	ChunkSize      ChunkSize `json:"chunk_size" mapstructure:"chunk-size"`
	LayoutForPrint bool      `json:"layout_for_print" mapstructure:"layout-for-print"`
	// Outputs lists extra formats (pdf, epub, docx) converted from the
	// assembled HTML.
	Outputs []string `json:"outputs" mapstructure:"outputs"`
}

// Assembler renders documents. Now is injectable so tests can pin the
// cover-page timestamp.
type Assembler struct {
	cfg   Config
	arena *links.Arena
	Now   func() time.Time
}

// New returns an Assembler for one document request.
func New(cfg Config, arena *links.Arena) *Assembler {
	return &Assembler{cfg: cfg, arena: arena, Now: time.Now}
}

// group is one render unit: the resources of a single book that interleave
// with each other.
type group struct {
	lang string // set for language-ordered groups
	book string
	rs   []*resource.Resource
}

// anchorID returns the heading anchor of the group.
func (g *group) anchorID() string {
	if g.lang != "" {
		return g.lang + "-" + g.book
	}
	return g.book
}

func (g *group) title() string {
	for _, r := range g.rs {
		if r.BookTitle != "" {
			return r.BookTitle
		}
	}
	return g.book
}

func (g *group) scriptureCount() int {
	n := 0
	for _, r := range g.rs {
		if r.Kind == resource.Scripture {
			n++
		}
	}
	return n
}

// Assemble renders the full document for the surviving resources. The
// resource order is the request order; it alone decides presentation order
// inside each group.
func (a *Assembler) Assemble(resources []*resource.Resource, unfulfilled []resource.Request) (string, error) {
	groups, err := a.groupResources(resources)
	if err != nil {
		return "", err
	}

	var body strings.Builder
	for _, g := range groups {
		a.renderGroup(&body, g)
	}
	a.renderReferenceSections(&body)

	bodyHTML := body.String()
	toc := buildTOC(bodyHTML)
	cover := a.coverHTML(resources, unfulfilled)
	klog.V(2).Infof("assembled document: %d groups, %d unfulfilled requests", len(groups), len(unfulfilled))
	return a.document(a.documentTitle(resources), cover, toc, bodyHTML), nil
}

// groupResources splits the renderable resources into book groups per the
// strategy. Words and academy resources render from the arena instead, so
// they never form groups.
func (a *Assembler) groupResources(resources []*resource.Resource) ([]*group, error) {
	var renderable []*resource.Resource
	for _, r := range resources {
		if r.Kind == resource.Words || r.Kind == resource.Academy {
			continue
		}
		renderable = append(renderable, r)
	}

	var groups []*group
	if a.cfg.Strategy == BookLanguageOrder {
		groups = groupByBook(renderable)
	} else {
		groups = groupByLanguage(renderable)
	}

	if a.cfg.ChunkSize == Verse {
		for _, g := range groups {
			if g.scriptureCount() == 0 {
				return nil, &docerr.AssemblerError{
					Reason: fmt.Sprintf("verse granularity needs a scripture resource for book %s", g.book),
				}
			}
		}
	}
	return groups, nil
}

// groupByLanguage keeps languages in request order and sorts each
// language's books by canonical number.
func groupByLanguage(resources []*resource.Resource) []*group {
	var langs []string
	seen := map[string]bool{}
	for _, r := range resources {
		if !seen[r.LangCode] {
			seen[r.LangCode] = true
			langs = append(langs, r.LangCode)
		}
	}

	var groups []*group
	for _, lang := range langs {
		var sub []*resource.Resource
		for _, r := range resources {
			if r.LangCode == lang {
				sub = append(sub, r)
			}
		}
		for _, g := range groupBooks(sub) {
			g.lang = lang
			groups = append(groups, g)
		}
	}
	return groups
}

// groupByBook orders books by canonical number; inside a book, languages
// are pulled back into request order.
func groupByBook(resources []*resource.Resource) []*group {
	groups := groupBooks(resources)
	for _, g := range groups {
		g.rs = sortByLanguage(g.rs)
	}
	return groups
}

// sortByLanguage regroups resources by language first appearance while
// keeping request order within each language.
func sortByLanguage(rs []*resource.Resource) []*resource.Resource {
	var langs []string
	seen := map[string]bool{}
	for _, r := range rs {
		if !seen[r.LangCode] {
			seen[r.LangCode] = true
			langs = append(langs, r.LangCode)
		}
	}
	out := make([]*resource.Resource, 0, len(rs))
	for _, lang := range langs {
		for _, r := range rs {
			if r.LangCode == lang {
				out = append(out, r)
			}
		}
	}
	return out
}

// groupBooks partitions resources into per-book groups ordered by book
// number, first appearance breaking ties. Request order survives within
// each group.
func groupBooks(resources []*resource.Resource) []*group {
	type slot struct {
		num   int
		first int
		g     *group
	}
	byBook := map[string]*slot{}
	var slots []*slot
	for i, r := range resources {
		book := r.BookID
		if book == "" {
			book = r.BookCode
		}
		s, ok := byBook[book]
		if !ok {
			s = &slot{num: r.BookNum, first: i, g: &group{book: book}}
			byBook[book] = s
			slots = append(slots, s)
		}
		s.g.rs = append(s.g.rs, r)
	}
	sort.SliceStable(slots, func(i, j int) bool {
		if slots[i].num != slots[j].num {
			return slots[i].num < slots[j].num
		}
		return slots[i].first < slots[j].first
	})
	groups := make([]*group, len(slots))
	for i, s := range slots {
		groups[i] = s.g
	}
	return groups
}
