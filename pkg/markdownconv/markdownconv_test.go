// SPDX-FileCopyrightText: 2025 Bible Translation Tools and docweave contributors
//
// SPDX-License-Identifier: Apache-2.0

package markdownconv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToHTML(t *testing.T) {
	out, fm, err := ToHTML([]byte("# Title\n\nSome *emphasis* and a [link](#anchor)."))
	require.NoError(t, err)
	assert.Nil(t, fm)
	assert.Contains(t, string(out), "<h1>Title</h1>")
	assert.Contains(t, string(out), "<em>emphasis</em>")
	assert.Contains(t, string(out), `<a href="#anchor">link</a>`)
}

func TestToHTMLFrontmatter(t *testing.T) {
	src := "---\ntitle: Notes\nversion: 3\n---\n\nBody text.\n"
	out, fm, err := ToHTML([]byte(src))
	require.NoError(t, err)
	require.NotNil(t, fm)
	assert.Equal(t, "Notes", fm["title"])
	assert.NotContains(t, string(out), "title: Notes")
	assert.Contains(t, string(out), "<p>Body text.</p>")
}

func TestToHTMLTables(t *testing.T) {
	src := "| a | b |\n|---|---|\n| 1 | 2 |\n"
	out, _, err := ToHTML([]byte(src))
	require.NoError(t, err)
	assert.Contains(t, string(out), "<table>")
	assert.Contains(t, string(out), "<td>1</td>")
}

func TestToHTMLKeepsRawHTML(t *testing.T) {
	out, _, err := ToHTML([]byte("before <sup><b>1</b></sup> after"))
	require.NoError(t, err)
	assert.Contains(t, string(out), "<sup><b>1</b></sup>")
}
