// SPDX-FileCopyrightText: 2025 Bible Translation Tools and docweave contributors
//
// SPDX-License-Identifier: Apache-2.0

package layout

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibletranslationtools/docweave/pkg/docerr"
	"github.com/bibletranslationtools/docweave/pkg/resource"
)

func scriptureResource(dir, book string) *resource.Resource {
	return &resource.Resource{
		Request: resource.Request{LangCode: "en", ResourceType: "ulb-wa", BookCode: book},
		Kind:    resource.Scripture,
		Dir:     dir,
	}
}

func TestDiscoverScriptureArchive(t *testing.T) {
	r := scriptureResource("testdata/en_ulb", "tit")
	require.NoError(t, Discover(r))

	assert.Equal(t, filepath.Join("testdata", "en_ulb", "en_ulb"), r.Dir)
	assert.Equal(t, "yaml", r.ManifestType)
	assert.Equal(t, "12", r.Version)
	assert.Equal(t, "2020-03-12", r.Issued)

	require.Len(t, r.ContentFiles, 1)
	assert.Equal(t, "57-TIT.usfm", filepath.Base(r.ContentFiles[0]))

	assert.Equal(t, "tit", r.BookID)
	assert.Equal(t, "Titus", r.BookTitle)
	assert.Equal(t, 57, r.BookNum)
}

func TestDiscoverSingleFileNoManifest(t *testing.T) {
	r := scriptureResource("testdata/single", "tit")
	require.NoError(t, Discover(r))

	assert.Equal(t, "testdata/single", r.Dir)
	assert.Empty(t, r.ManifestType)
	assert.Empty(t, r.Version)
	require.Len(t, r.ContentFiles, 1)
	assert.Equal(t, "tit", r.BookID)
	assert.Equal(t, "Titus", r.BookTitle)
}

func TestDiscoverBookFromFilename(t *testing.T) {
	r := scriptureResource("testdata/single", "")
	require.NoError(t, Discover(r))

	assert.Equal(t, "tit", r.BookID)
	assert.Equal(t, 57, r.BookNum)
}

func TestDiscoverNotesRepository(t *testing.T) {
	r := &resource.Resource{
		Request: resource.Request{LangCode: "en", ResourceType: "tn-wa", BookCode: "tit"},
		Kind:    resource.Notes,
		Dir:     "testdata/en_tn",
	}
	require.NoError(t, Discover(r))

	assert.Equal(t, "21", r.Version)
	require.Len(t, r.ContentFiles, 2)
	for _, f := range r.ContentFiles {
		assert.Contains(t, f, "tit")
		assert.NotContains(t, f, "README")
	}

	dir, err := BookDir(r)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("testdata", "en_tn", "tit"), dir)
}

func TestDiscoverTranslationStudioManifest(t *testing.T) {
	r := scriptureResource("testdata/ts_tit", "tit")
	require.NoError(t, Discover(r))

	assert.Equal(t, "json", r.ManifestType)
	assert.Equal(t, "4", r.Version)
	assert.Equal(t, "2017-06-02", r.Issued)
	require.Len(t, r.ContentFiles, 1)
	assert.Equal(t, "57-TIT.txt", filepath.Base(r.ContentFiles[0]))
}

func TestDiscoverManifestPriority(t *testing.T) {
	r := &resource.Resource{
		Request: resource.Request{LangCode: "en", ResourceType: "bc-wa", BookCode: "tit"},
		Kind:    resource.Commentary,
		Dir:     "testdata/dual",
	}
	require.NoError(t, Discover(r))

	assert.Equal(t, "yaml", r.ManifestType)
	assert.Equal(t, "3", r.Version)
	assert.Equal(t, "2019-01-01", r.Issued)
}

func TestDiscoverNoContentFiles(t *testing.T) {
	r := scriptureResource(t.TempDir(), "tit")
	err := Discover(r)
	var le *docerr.LayoutError
	require.True(t, errors.As(err, &le))

	r = &resource.Resource{
		Request: resource.Request{LangCode: "en", ResourceType: "tn-wa", BookCode: "rut"},
		Kind:    resource.Notes,
		Dir:     "testdata/en_tn",
	}
	require.True(t, errors.As(Discover(r), &le))
}

func TestBookDirMissing(t *testing.T) {
	r := &resource.Resource{
		Request: resource.Request{LangCode: "en", ResourceType: "tn-wa", BookCode: "rut"},
		Kind:    resource.Notes,
		Dir:     "testdata/en_tn",
	}
	_, err := BookDir(r)
	var le *docerr.LayoutError
	require.True(t, errors.As(err, &le))
}

func TestContentRoot(t *testing.T) {
	assert.Equal(t, filepath.Join("testdata", "en_ulb", "en_ulb"), ContentRoot("testdata/en_ulb"))
	assert.Equal(t, "testdata/en_tn", ContentRoot("testdata/en_tn"))
	assert.Equal(t, "testdata/absent", ContentRoot("testdata/absent"))
}

func TestBookIDFromFilename(t *testing.T) {
	assert.Equal(t, "gen", bookIDFromFilename("/tmp/x/01-GEN.usfm"))
	assert.Equal(t, "tit", bookIDFromFilename("57-TIT.txt"))
	assert.Equal(t, "titus", bookIDFromFilename("titus.usfm"))
}
