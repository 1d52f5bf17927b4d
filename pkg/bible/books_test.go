// SPDX-FileCopyrightText: 2025 Bible Translation Tools and docweave contributors
//
// SPDX-License-Identifier: Apache-2.0

package bible

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookup(t *testing.T) {
	cases := []struct {
		id     string
		found  bool
		title  string
		number int
	}{
		{"gen", true, "Genesis", 1},
		{"mal", true, "Malachi", 39},
		{"mat", true, "Matthew", 41},
		{"rev", true, "Revelation", 67},
		{"PSA", true, "Psalms", 19},
		{"xyz", false, "", 0},
	}
	for _, c := range cases {
		b, ok := Lookup(c.id)
		assert.Equal(t, c.found, ok, c.id)
		if !ok {
			continue
		}
		assert.Equal(t, c.title, b.Title)
		assert.Equal(t, c.number, b.Number)
	}
}

func TestAnchorNumber(t *testing.T) {
	gen, _ := Lookup("gen")
	assert.Equal(t, 1, gen.AnchorNumber())
	mal, _ := Lookup("mal")
	assert.Equal(t, 39, mal.AnchorNumber())
	// NT anchors sit one below the USFM file number.
	mat, _ := Lookup("mat")
	assert.Equal(t, 40, mat.AnchorNumber())
	rev, _ := Lookup("rev")
	assert.Equal(t, 66, rev.AnchorNumber())
}

func TestChapterPadding(t *testing.T) {
	assert.Equal(t, 3, ChapterPadding("psa"))
	assert.Equal(t, 3, ChapterPadding("PSA"))
	assert.Equal(t, 2, ChapterPadding("gen"))
	assert.Equal(t, 2, ChapterPadding("rev"))
}

func TestAllOrdering(t *testing.T) {
	all := All()
	assert.Len(t, all, 66)
	last := 0
	for _, b := range all {
		assert.Greater(t, b.Number, last, b.ID)
		last = b.Number
	}
	// 40 is the unused apocrypha slot.
	for _, b := range all {
		assert.NotEqual(t, 40, b.Number)
	}
}
