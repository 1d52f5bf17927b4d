// SPDX-FileCopyrightText: 2025 Bible Translation Tools and docweave contributors
//
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibletranslationtools/docweave/cmd/configuration"
	"github.com/bibletranslationtools/docweave/pkg/assemble"
	"github.com/bibletranslationtools/docweave/pkg/pipeline"
	"github.com/bibletranslationtools/docweave/pkg/resource"
)

const catalogJSON = `[
  {"code": "en", "contents": [
    {"code": "ulb-wa", "subcontents": [
      {"code": "tit", "links": [{"format": "usfm", "url": "http://example.invalid/57-TIT.usfm"}]}
    ]}
  ]}
]`

func TestGenerateDryRun(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, catalogJSON)
	}))
	t.Cleanup(srv.Close)

	tmp := t.TempDir()
	// keep the user's real configuration file out of the test
	t.Setenv(configuration.DocweaveConfigEnv, filepath.Join(tmp, "missing-config.yaml"))

	cmd := NewCommand(context.Background())
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs([]string{
		"generate", "en/ulb-wa/tit", "llx/ulb/col",
		"--dry-run",
		"--output", "pdf",
		"--catalog-url", srv.URL + "/catalog.json",
		"--working-dir", tmp,
		"--cache-dir", filepath.Join(tmp, "cache"),
	})
	require.NoError(t, cmd.Execute())

	out := buf.String()
	assert.Contains(t, out, "en/ulb-wa/tit -> http://example.invalid/57-TIT.usfm")
	assert.Contains(t, out, "llx/ulb/col -> not in catalog")
	assert.Contains(t, out, "would write under "+tmp)

	key := pipeline.DocumentKey([]resource.Request{
		{LangCode: "en", ResourceType: "ulb-wa", BookCode: "tit"},
		{LangCode: "llx", ResourceType: "ulb", BookCode: "col"},
	}, assemble.Config{})
	assert.Contains(t, out, key+".html")
	assert.Contains(t, out, key+".pdf")

	entries, err := os.ReadDir(tmp)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".html", "dry run must not write documents")
	}
}
