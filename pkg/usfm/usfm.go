// SPDX-FileCopyrightText: 2025 Bible Translation Tools and docweave contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package usfm parses scripture markup into the chunked tree the assembler
// consumes and renders chunk markup to HTML.
package usfm

import (
	"regexp"
	"sort"
	"strings"
)

// Tree is the parsed form of one scripture book. Chapters are keyed by
// number; rendering iterates them in numeric order.
type Tree struct {
	Header   string
	Chapters map[int]*Chapter
}

// Chapter keeps its chunks twice: a flat ordered slice and an index by first
// verse. The slice is the hot path during assembly, the index serves verse
// boundary lookups.
type Chapter struct {
	Chunks       []*Chunk
	ByFirstVerse map[int]*Chunk
}

// Chunk is one per-verse slice of markup. A verse bridge keeps only its
// leading number in Verses; the bridge form stays in Raw.
type Chunk struct {
	Raw        string
	Chapter    int
	FirstVerse int
	LastVerse  int
	Verses     []int
}

var idRe = regexp.MustCompile(`\\id[ \x{00A0}]+([A-Za-z0-9]+)`)

// IDCode returns the lower-cased \id code from the header, or "".
func (t *Tree) IDCode() string {
	m := idRe.FindStringSubmatch(t.Header)
	if m == nil {
		return ""
	}
	return strings.ToLower(m[1])
}

// ChapterNumbers returns the chapter numbers in ascending numeric order.
func (t *Tree) ChapterNumbers() []int {
	out := make([]int, 0, len(t.Chapters))
	for n := range t.Chapters {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// VerseStarts returns the chunk boundaries of a chapter in ascending numeric
// order.
func (c *Chapter) VerseStarts() []int {
	out := make([]int, 0, len(c.ByFirstVerse))
	for n := range c.ByFirstVerse {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}
