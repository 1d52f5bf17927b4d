// SPDX-FileCopyrightText: 2025 Bible Translation Tools and docweave contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package bible carries the static book table shared by layout discovery,
// link rewriting and assembly ordering.
package bible

import "strings"

// Book describes one scripture book. Number is the USFM file number
// (Matthew is 41; the apocrypha slot 40 is unused), which also defines
// the canonical assembly order.
type Book struct {
	ID           string
	Title        string
	Number       int
	NewTestament bool
}

var books = []Book{
	{"gen", "Genesis", 1, false},
	{"exo", "Exodus", 2, false},
	{"lev", "Leviticus", 3, false},
	{"num", "Numbers", 4, false},
	{"deu", "Deuteronomy", 5, false},
	{"jos", "Joshua", 6, false},
	{"jdg", "Judges", 7, false},
	{"rut", "Ruth", 8, false},
	{"1sa", "1 Samuel", 9, false},
	{"2sa", "2 Samuel", 10, false},
	{"1ki", "1 Kings", 11, false},
	{"2ki", "2 Kings", 12, false},
	{"1ch", "1 Chronicles", 13, false},
	{"2ch", "2 Chronicles", 14, false},
	{"ezr", "Ezra", 15, false},
	{"neh", "Nehemiah", 16, false},
	{"est", "Esther", 17, false},
	{"job", "Job", 18, false},
	{"psa", "Psalms", 19, false},
	{"pro", "Proverbs", 20, false},
	{"ecc", "Ecclesiastes", 21, false},
	{"sng", "Song of Solomon", 22, false},
	{"isa", "Isaiah", 23, false},
	{"jer", "Jeremiah", 24, false},
	{"lam", "Lamentations", 25, false},
	{"ezk", "Ezekiel", 26, false},
	{"dan", "Daniel", 27, false},
	{"hos", "Hosea", 28, false},
	{"jol", "Joel", 29, false},
	{"amo", "Amos", 30, false},
	{"oba", "Obadiah", 31, false},
	{"jon", "Jonah", 32, false},
	{"mic", "Micah", 33, false},
	{"nam", "Nahum", 34, false},
	{"hab", "Habakkuk", 35, false},
	{"zep", "Zephaniah", 36, false},
	{"hag", "Haggai", 37, false},
	{"zec", "Zechariah", 38, false},
	{"mal", "Malachi", 39, false},
	{"mat", "Matthew", 41, true},
	{"mrk", "Mark", 42, true},
	{"luk", "Luke", 43, true},
	{"jhn", "John", 44, true},
	{"act", "Acts", 45, true},
	{"rom", "Romans", 46, true},
	{"1co", "1 Corinthians", 47, true},
	{"2co", "2 Corinthians", 48, true},
	{"gal", "Galatians", 49, true},
	{"eph", "Ephesians", 50, true},
	{"php", "Philippians", 51, true},
	{"col", "Colossians", 52, true},
	{"1th", "1 Thessalonians", 53, true},
	{"2th", "2 Thessalonians", 54, true},
	{"1ti", "1 Timothy", 55, true},
	{"2ti", "2 Timothy", 56, true},
	{"tit", "Titus", 57, true},
	{"phm", "Philemon", 58, true},
	{"heb", "Hebrews", 59, true},
	{"jas", "James", 60, true},
	{"1pe", "1 Peter", 61, true},
	{"2pe", "2 Peter", 62, true},
	{"1jn", "1 John", 63, true},
	{"2jn", "2 John", 64, true},
	{"3jn", "3 John", 65, true},
	{"jud", "Jude", 66, true},
	{"rev", "Revelation", 67, true},
}

var byID = func() map[string]Book {
	m := make(map[string]Book, len(books))
	for _, b := range books {
		m[b.ID] = b
	}
	return m
}()

// Lookup finds a book by its lowercase code. Lookup is case-insensitive.
func Lookup(id string) (Book, bool) {
	b, ok := byID[strings.ToLower(id)]
	return b, ok
}

// AnchorNumber is the number used in reader-app anchor fragments.
// New Testament anchors are one below the USFM file number.
func (b Book) AnchorNumber() int {
	if b.NewTestament {
		return b.Number - 1
	}
	return b.Number
}

// ChapterPadding is the zero-pad width of chapter directories and verse
// file names in helps repositories. Psalms uses three digits.
func ChapterPadding(bookID string) int {
	if strings.EqualFold(bookID, "psa") {
		return 3
	}
	return 2
}

// All returns the books in canonical order.
func All() []Book {
	out := make([]Book, len(books))
	copy(out, books)
	return out
}
