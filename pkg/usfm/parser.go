// SPDX-FileCopyrightText: 2025 Bible Translation Tools and docweave contributors
//
// SPDX-License-Identifier: Apache-2.0

package usfm

import (
	"errors"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/bibletranslationtools/docweave/pkg/docerr"
)

// Scripture files are chunked by the \s5 section marker. Verse markers accept
// a space or a non-break space after \v.
var (
	sectionBreakRe = regexp.MustCompile(`\\s5\s*`)
	chapterRe      = regexp.MustCompile(`\\c[ \x{00A0}](\d+)`)
	verseRe        = regexp.MustCompile(`\\v[ \x{00A0}](\d+)(?:-(\d+))?`)
	verseLineRe    = regexp.MustCompile(`^\\v[ \x{00A0}]\d`)
)

// ParseFile reads and parses one scripture file.
func ParseFile(path string) (*Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &docerr.ParseError{Path: path, Format: "usfm", Err: err}
	}
	return Parse(data, path)
}

// Parse builds the chunked tree from raw scripture markup. path is used for
// error context only.
//
// The text splits on \s5 section breaks; the first segment is the header.
// Each remaining segment re-splits into per-verse chunks at every line-level
// verse marker. The latest \c marker, including one in the header, defines
// the chapter a chunk files under; chunks without any verse marker in reach
// are skipped.
func Parse(data []byte, path string) (*Tree, error) {
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	if strings.TrimSpace(text) == "" {
		return nil, &docerr.ParseError{Path: path, Format: "usfm", Err: errors.New("empty file")}
	}
	segments := sectionBreakRe.Split(text, -1)
	if len(segments) == 1 {
		return nil, &docerr.ParseError{Path: path, Format: "usfm", Err: errors.New(`no \s5 section markers`)}
	}

	tree := &Tree{
		Header:   strings.TrimSpace(segments[0]),
		Chapters: map[int]*Chapter{},
	}
	chapter := lastChapterIn(segments[0], 0)
	for _, segment := range segments[1:] {
		chapter = tree.addSegment(segment, chapter)
	}
	return tree, nil
}

// addSegment walks one section line by line, starting a new chunk at every
// verse marker once the pending chunk already holds a verse. Leading matter
// (a \c marker, paragraph starts) stays attached to the first verse chunk.
// Returns the chapter in effect after the segment.
func (t *Tree) addSegment(segment string, chapter int) int {
	var pending []string
	pendingHasVerse := false
	for _, line := range strings.Split(segment, "\n") {
		trimmed := strings.TrimSpace(line)
		if verseLineRe.MatchString(trimmed) && pendingHasVerse {
			chapter = t.addChunk(strings.Join(pending, "\n"), chapter)
			pending = nil
			pendingHasVerse = false
		}
		pending = append(pending, line)
		if verseLineRe.MatchString(trimmed) {
			pendingHasVerse = true
		}
	}
	if len(pending) > 0 {
		chapter = t.addChunk(strings.Join(pending, "\n"), chapter)
	}
	return chapter
}

// addChunk files one chunk under the chapter its markup resolves to. Chunks
// without verse markers, and verses seen before any chapter marker, are
// dropped.
func (t *Tree) addChunk(raw string, chapter int) int {
	chapter = lastChapterIn(raw, chapter)
	raw = strings.TrimSpace(raw)
	matches := verseRe.FindAllStringSubmatch(raw, -1)
	if raw == "" || len(matches) == 0 || chapter == 0 {
		return chapter
	}

	verses := make([]int, 0, len(matches))
	for _, m := range matches {
		n, _ := strconv.Atoi(m[1])
		verses = append(verses, n)
	}
	last := verses[len(verses)-1]
	if bridge := matches[len(matches)-1][2]; bridge != "" {
		last, _ = strconv.Atoi(bridge)
	}

	ch := t.Chapters[chapter]
	if ch == nil {
		ch = &Chapter{ByFirstVerse: map[int]*Chunk{}}
		t.Chapters[chapter] = ch
	}
	chunk := &Chunk{
		Raw:        raw,
		Chapter:    chapter,
		FirstVerse: verses[0],
		LastVerse:  last,
		Verses:     verses,
	}
	ch.Chunks = append(ch.Chunks, chunk)
	if _, taken := ch.ByFirstVerse[chunk.FirstVerse]; !taken {
		ch.ByFirstVerse[chunk.FirstVerse] = chunk
	}
	return chapter
}

func lastChapterIn(s string, current int) int {
	matches := chapterRe.FindAllStringSubmatch(s, -1)
	if len(matches) == 0 {
		return current
	}
	n, _ := strconv.Atoi(matches[len(matches)-1][1])
	return n
}
