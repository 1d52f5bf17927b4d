// SPDX-FileCopyrightText: 2025 Bible Translation Tools and docweave contributors
//
// SPDX-License-Identifier: Apache-2.0

package assemble

import (
	"fmt"
	"html"
	"sort"
	"strings"

	"k8s.io/klog/v2"

	"github.com/bibletranslationtools/docweave/pkg/helps"
	"github.com/bibletranslationtools/docweave/pkg/markdownconv"
	"github.com/bibletranslationtools/docweave/pkg/resource"
	"github.com/bibletranslationtools/docweave/pkg/usfm"
)

// part is one rendered granule cell: a resource's contribution at one
// boundary.
type part struct {
	anchor    string
	html      string
	scripture bool
}

// renderGroup emits one book group: heading, front matter, then granules
// at the configured granularity.
func (a *Assembler) renderGroup(b *strings.Builder, g *group) {
	fmt.Fprintf(b, "<h1 class=\"book\" id=%q>%s</h1>\n", g.anchorID(), html.EscapeString(g.title()))

	// Book intros and commentary articles are per-book front matter at
	// every granularity.
	for _, r := range g.rs {
		if r.Helps == nil || r.Helps.BookIntro == nil {
			continue
		}
		switch r.Kind {
		case resource.Notes, resource.Questions, resource.Commentary:
			b.WriteString(a.docDiv(r.Helps.BookIntro))
		}
	}

	switch a.cfg.ChunkSize {
	case Chapter:
		a.renderChapterGranules(b, g)
	case Verse:
		a.renderVerseGranules(b, g)
	default:
		a.renderBookGranules(b, g)
	}
}

func (a *Assembler) renderBookGranules(b *strings.Builder, g *group) {
	var parts []part
	for _, r := range g.rs {
		h := a.resourceBookHTML(r)
		if h == "" {
			continue
		}
		parts = append(parts, part{
			anchor:    fmt.Sprintf("%s-%s", r.ResourceType, g.book),
			html:      h,
			scripture: r.Kind == resource.Scripture,
		})
	}
	a.layoutParts(b, parts)
}

func (a *Assembler) renderChapterGranules(b *strings.Builder, g *group) {
	for _, c := range unionChapters(g) {
		var parts []part
		for _, r := range g.rs {
			h := a.resourceChapterHTML(r, c)
			if h == "" {
				continue
			}
			parts = append(parts, part{
				anchor:    fmt.Sprintf("%s-%s-%d", r.ResourceType, g.book, c),
				html:      h,
				scripture: r.Kind == resource.Scripture,
			})
		}
		a.layoutParts(b, parts)
	}
}

func (a *Assembler) renderVerseGranules(b *strings.Builder, g *group) {
	for _, c := range unionChapters(g) {
		// chapter intros precede the first verse boundary
		for _, r := range g.rs {
			if ch := helpsChapter(r, c); ch != nil && ch.Intro != nil {
				b.WriteString(a.docDiv(ch.Intro))
			}
		}
		for _, v := range scriptureVerseUnion(g, c) {
			var parts []part
			for _, r := range g.rs {
				h := a.resourceVerseHTML(r, c, v)
				if h == "" {
					continue
				}
				parts = append(parts, part{
					anchor:    fmt.Sprintf("%s-%s-%d-%d", r.ResourceType, g.book, c, v),
					html:      h,
					scripture: r.Kind == resource.Scripture,
				})
			}
			a.layoutParts(b, parts)
		}
	}
}

// layoutParts arranges one granule's parts. Two-column layouts put exactly
// two scripture parts side by side and let everything else flow full-width
// below; any other count degrades to a single column.
func (a *Assembler) layoutParts(b *strings.Builder, parts []part) {
	if !a.cfg.Layout.TwoColumn() {
		for _, p := range parts {
			writeGranule(b, p, "granule")
		}
		return
	}

	var scripture, rest []part
	for _, p := range parts {
		if p.scripture {
			scripture = append(scripture, p)
		} else {
			rest = append(rest, p)
		}
	}
	if len(scripture) == 2 {
		b.WriteString("<div class=\"row\">\n")
		for _, p := range scripture {
			writeGranule(b, p, "column granule")
		}
		b.WriteString("</div>\n")
	} else {
		for _, p := range scripture {
			writeGranule(b, p, "granule")
		}
	}
	for _, p := range rest {
		writeGranule(b, p, "granule")
	}
}

func writeGranule(b *strings.Builder, p part, class string) {
	fmt.Fprintf(b, "<div class=%q id=%q>\n%s</div>\n", class, p.anchor, p.html)
}

// resourceBookHTML renders a resource's whole book. Commentary renders as
// front matter and intros are emitted by the group, so both are skipped
// here.
func (a *Assembler) resourceBookHTML(r *resource.Resource) string {
	switch r.Kind {
	case resource.Scripture:
		if r.Scripture == nil {
			return ""
		}
		var sb strings.Builder
		for _, c := range r.Scripture.ChapterNumbers() {
			for _, chunk := range r.Scripture.Chapters[c].Chunks {
				sb.WriteString(usfm.RenderHTML(chunk.Raw))
				sb.WriteString("\n")
			}
		}
		return sb.String()
	case resource.Notes, resource.Questions:
		if r.Helps == nil {
			return ""
		}
		var sb strings.Builder
		for _, c := range r.Helps.ChapterNumbers() {
			sb.WriteString(a.helpsChapterHTML(r.Helps.Chapters[c]))
		}
		return sb.String()
	}
	return ""
}

func (a *Assembler) resourceChapterHTML(r *resource.Resource, c int) string {
	switch r.Kind {
	case resource.Scripture:
		if r.Scripture == nil || r.Scripture.Chapters[c] == nil {
			return ""
		}
		var sb strings.Builder
		for _, chunk := range r.Scripture.Chapters[c].Chunks {
			sb.WriteString(usfm.RenderHTML(chunk.Raw))
			sb.WriteString("\n")
		}
		return sb.String()
	case resource.Notes, resource.Questions:
		if ch := helpsChapter(r, c); ch != nil {
			return a.helpsChapterHTML(ch)
		}
	}
	return ""
}

func (a *Assembler) resourceVerseHTML(r *resource.Resource, c, v int) string {
	switch r.Kind {
	case resource.Scripture:
		if r.Scripture == nil || r.Scripture.Chapters[c] == nil {
			return ""
		}
		if chunk, ok := r.Scripture.Chapters[c].ByFirstVerse[v]; ok {
			return usfm.RenderHTML(chunk.Raw) + "\n"
		}
	case resource.Notes, resource.Questions:
		if ch := helpsChapter(r, c); ch != nil {
			if doc, ok := ch.ByVerse[v]; ok {
				return a.docDiv(doc)
			}
		}
	}
	return ""
}

func (a *Assembler) helpsChapterHTML(ch *helps.ChapterHelps) string {
	var sb strings.Builder
	if ch.Intro != nil {
		sb.WriteString(a.docDiv(ch.Intro))
	}
	for _, v := range ch.VerseNumbers() {
		sb.WriteString(a.docDiv(ch.ByVerse[v]))
	}
	return sb.String()
}

// docDiv renders one helps doc to a div carrying the doc's own anchor, the
// target of rewritten in-document links.
func (a *Assembler) docDiv(doc *helps.Doc) string {
	out, _, err := markdownconv.ToHTML([]byte(doc.Body))
	if err != nil {
		klog.Warningf("markdown rendering failed for %s: %v", doc.Anchor, err)
		return fmt.Sprintf("<div class=\"help\" id=%q><pre>%s</pre></div>\n", doc.Anchor, html.EscapeString(doc.Body))
	}
	return fmt.Sprintf("<div class=\"help\" id=%q>\n%s</div>\n", doc.Anchor, out)
}

// renderReferenceSections appends the words and academy appendices built
// from the arena.
func (a *Assembler) renderReferenceSections(b *strings.Builder) {
	if a.arena == nil {
		return
	}
	a.renderReferenceSection(b, resource.Words, "translation-words", "Translation Words")
	a.renderReferenceSection(b, resource.Academy, "translation-academy", "Translation Academy")
}

func (a *Assembler) renderReferenceSection(b *strings.Builder, kind resource.Kind, id, heading string) {
	entries := a.arena.ByKind(kind)
	if len(entries) == 0 {
		return
	}
	sort.SliceStable(entries, func(i, j int) bool {
		ti, tj := strings.ToLower(entries[i].Title), strings.ToLower(entries[j].Title)
		if ti != tj {
			return ti < tj
		}
		return entries[i].ID < entries[j].ID
	})

	fmt.Fprintf(b, "<h1 class=\"reference\" id=%q>%s</h1>\n", id, heading)
	for _, e := range entries {
		out, _, err := markdownconv.ToHTML([]byte(e.Body))
		if err != nil {
			klog.Warningf("markdown rendering failed for %s: %v", e.Anchor, err)
			continue
		}
		fmt.Fprintf(b, "<div class=\"help\" id=%q>\n%s</div>\n", e.Anchor, out)
	}
}

func helpsChapter(r *resource.Resource, c int) *helps.ChapterHelps {
	if r.Kind != resource.Notes && r.Kind != resource.Questions {
		return nil
	}
	if r.Helps == nil {
		return nil
	}
	return r.Helps.Chapters[c]
}

// unionChapters merges the chapter numbers contributed by every resource in
// the group, ascending.
func unionChapters(g *group) []int {
	set := map[int]bool{}
	for _, r := range g.rs {
		if r.Scripture != nil {
			for _, c := range r.Scripture.ChapterNumbers() {
				set[c] = true
			}
		}
		if (r.Kind == resource.Notes || r.Kind == resource.Questions) && r.Helps != nil {
			for _, c := range r.Helps.ChapterNumbers() {
				set[c] = true
			}
		}
	}
	out := make([]int, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Ints(out)
	return out
}

// scriptureVerseUnion merges the verse boundaries of the group's scripture
// trees for one chapter, ascending. Helps attach to these boundaries; they
// never create their own.
func scriptureVerseUnion(g *group, c int) []int {
	set := map[int]bool{}
	for _, r := range g.rs {
		if r.Kind != resource.Scripture || r.Scripture == nil {
			continue
		}
		if ch := r.Scripture.Chapters[c]; ch != nil {
			for _, v := range ch.VerseStarts() {
				set[v] = true
			}
		}
	}
	out := make([]int, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}
