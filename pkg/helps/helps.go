// SPDX-FileCopyrightText: 2025 Bible Translation Tools and docweave contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package helps parses translation helps: notes and questions laid out per
// book/chapter/verse, words and academy articles addressed by category path,
// and per-book commentary.
package helps

import (
	"fmt"
	"sort"

	"github.com/bibletranslationtools/docweave/pkg/bible"
)

// Doc is one markdown fragment: a display title, a stable anchor and the
// header-shifted markdown body.
type Doc struct {
	Title  string
	Anchor string
	Body   string
}

// ChapterHelps carries the docs of one chapter.
type ChapterHelps struct {
	Intro   *Doc
	ByVerse map[int]*Doc
}

// Tree is the parsed helps content for one book.
type Tree struct {
	BookIntro *Doc
	Chapters  map[int]*ChapterHelps
}

// Empty reports whether parsing found no content at all.
func (t *Tree) Empty() bool {
	return t == nil || (t.BookIntro == nil && len(t.Chapters) == 0)
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

// VerseNumbers returns the verse numbers in ascending numeric order.
func (c *ChapterHelps) VerseNumbers() []int {
	out := make([]int, 0, len(c.ByVerse))
	for n := range c.ByVerse {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// Pad zero-pads a chapter or verse number the way helps repositories name
// their files: three digits for Psalms, two for every other book.
func Pad(bookID string, n int) string {
	return fmt.Sprintf("%0*d", bible.ChapterPadding(bookID), n)
}
