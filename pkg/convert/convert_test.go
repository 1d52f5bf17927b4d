// SPDX-FileCopyrightText: 2025 Bible Translation Tools and docweave contributors
//
// SPDX-License-Identifier: Apache-2.0

package convert

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibletranslationtools/docweave/pkg/docerr"
)

func TestParseFormats(t *testing.T) {
	got, err := ParseFormats([]string{"pdf", "html", "EPUB", "pdf", ""})
	require.NoError(t, err)
	assert.Equal(t, []Format{PDF, EPUB}, got)

	_, err = ParseFormats([]string{"mobi"})
	assert.Error(t, err)

	got, err = ParseFormats(nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestForKnownFormats(t *testing.T) {
	for _, f := range []Format{PDF, EPUB, DOCX} {
		c, ok := For(f)
		require.True(t, ok, f)
		assert.Equal(t, f, c.Format())
	}
	_, ok := For(HTML)
	assert.False(t, ok, "html needs no converter")
}

func TestConvertMissingCommand(t *testing.T) {
	dir := t.TempDir()
	htmlPath := filepath.Join(dir, "doc.html")
	require.NoError(t, os.WriteFile(htmlPath, []byte("<html/>"), 0644))

	c := &execConverter{
		format:  PDF,
		command: "docweave-test-no-such-converter",
		args:    func(in, out string) []string { return []string{in, out} },
	}
	outPath := filepath.Join(dir, "doc.pdf")
	err := c.Convert(context.Background(), htmlPath, outPath)

	var ce *docerr.ConverterError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "pdf", ce.Format)

	_, statErr := os.Stat(outPath)
	assert.True(t, os.IsNotExist(statErr), "no partial output")
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp file cleaned up")
}

func TestConvertRenamesTempIntoPlace(t *testing.T) {
	dir := t.TempDir()
	htmlPath := filepath.Join(dir, "doc.html")
	require.NoError(t, os.WriteFile(htmlPath, []byte("<html/>"), 0644))

	// cp stands in for a real converter: it copies input to output.
	c := &execConverter{
		format:  EPUB,
		command: "cp",
		args:    func(in, out string) []string { return []string{in, out} },
	}
	outPath := filepath.Join(dir, "doc.epub")
	require.NoError(t, c.Convert(context.Background(), htmlPath, outPath))

	got, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, "<html/>", string(got))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2, "only input and output remain")
}
