// SPDX-FileCopyrightText: 2025 Bible Translation Tools and docweave contributors
//
// SPDX-License-Identifier: Apache-2.0

package helps

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bibletranslationtools/docweave/pkg/bible"
	"github.com/bibletranslationtools/docweave/pkg/docerr"
)

// ParseBookDir reads the notes/questions layout for one book:
//
//	<dir>/front/intro.md   book intro
//	<dir>/<cc>/intro.md    chapter intro
//	<dir>/<cc>/<vv>.md     per-chunk doc
//
// Chapter and verse numbers parse from the zero-padded directory and file
// names. Non-numeric stems besides intro are ignored, which keeps README
// and LICENSE files out of the content.
func ParseBookDir(dir, bookID, resourceType string) (*Tree, error) {
	tree := &Tree{Chapters: map[int]*ChapterHelps{}}

	intro, err := readOptional(filepath.Join(dir, "front", "intro.md"))
	if err != nil {
		return nil, err
	}
	if intro != "" {
		tree.BookIntro = &Doc{
			Title:  firstHeader(intro),
			Anchor: fmt.Sprintf("%s-%s-front-intro", resourceType, bookID),
			Body:   shiftHeaders(intro, 1, 1),
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &docerr.ParseError{Path: dir, Format: "md", Err: err}
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		chapter, err := strconv.Atoi(e.Name())
		if err != nil {
			continue
		}
		ch, err := parseChapterDir(filepath.Join(dir, e.Name()), bookID, resourceType, chapter)
		if err != nil {
			return nil, err
		}
		if ch.Intro != nil || len(ch.ByVerse) > 0 {
			tree.Chapters[chapter] = ch
		}
	}
	return tree, nil
}

func parseChapterDir(dir, bookID, resourceType string, chapter int) (*ChapterHelps, error) {
	ch := &ChapterHelps{ByVerse: map[int]*Doc{}}
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, &docerr.ParseError{Path: dir, Format: "md", Err: err}
	}
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".md") {
			continue
		}
		stem := strings.TrimSuffix(f.Name(), ".md")
		path := filepath.Join(dir, f.Name())
		if stem == "intro" {
			body, err := readRequired(path)
			if err != nil {
				return nil, err
			}
			ch.Intro = &Doc{
				Title:  firstHeader(body),
				Anchor: fmt.Sprintf("%s-%s-%d-intro", resourceType, bookID, chapter),
				Body:   shiftHeaders(body, 1, 2),
			}
			continue
		}
		verse, err := strconv.Atoi(stem)
		if err != nil {
			continue
		}
		body, err := readRequired(path)
		if err != nil {
			return nil, err
		}
		ch.ByVerse[verse] = &Doc{
			Title:  firstHeader(body),
			Anchor: fmt.Sprintf("%s-%s-%d-%d", resourceType, bookID, chapter, verse),
			Body:   shiftHeaders(body, 3, 1),
		}
	}
	return ch, nil
}

// ParseCommentary wraps one per-book commentary article as the book intro of
// a tree.
func ParseCommentary(path, bookID, resourceType string) (*Tree, error) {
	body, err := readRequired(path)
	if err != nil {
		return nil, err
	}
	title := firstHeader(body)
	if title == "" {
		if b, ok := bible.Lookup(bookID); ok {
			title = b.Title
		} else {
			title = bookID
		}
	}
	return &Tree{
		BookIntro: &Doc{
			Title:  title,
			Anchor: fmt.Sprintf("%s-%s", resourceType, bookID),
			Body:   shiftHeaders(body, 1, 1),
		},
	}, nil
}

// readOptional returns "" for a missing file and a parse error for any other
// read failure.
func readOptional(path string) (string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", &docerr.ParseError{Path: path, Format: "md", Err: err}
	}
	return string(data), nil
}

func readRequired(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &docerr.ParseError{Path: path, Format: "md", Err: err}
	}
	return string(data), nil
}
