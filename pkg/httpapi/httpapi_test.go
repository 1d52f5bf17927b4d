// SPDX-FileCopyrightText: 2025 Bible Translation Tools and docweave contributors
//
// SPDX-License-Identifier: Apache-2.0

package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibletranslationtools/docweave/pkg/pipeline"
	"github.com/bibletranslationtools/docweave/pkg/resource"
)

// The links point nowhere reachable: these tests never fetch assets, only
// the catalog itself.
const catalogJSON = `[
  {"code": "en", "name": "English", "contents": [
    {"code": "ulb-wa", "subcontents": [
      {"code": "tit", "links": [{"format": "usfm", "url": "http://example.invalid/57-TIT.usfm"}]}
    ]},
    {"code": "tn-wa", "links": [{"format": "zip", "url": "http://example.invalid/tn.zip"}]}
  ]},
  {"code": "fr", "contents": [
    {"code": "f10", "subcontents": [
      {"code": "tit", "links": [{"format": "usfm", "url": "http://example.invalid/tit.usfm"}]}
    ]}
  ]}
]`

func newAPIServer(t *testing.T) *httptest.Server {
	t.Helper()
	catSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, catalogJSON)
	}))
	t.Cleanup(catSrv.Close)

	o := pipeline.New(pipeline.Options{
		WorkDir:    t.TempDir(),
		CatalogURL: catSrv.URL + "/catalog.json",
		Client:     catSrv.Client(),
	})
	api := httptest.NewServer(New(o, pipeline.NewRegistry(context.Background(), o)).Handler())
	t.Cleanup(api.Close)
	return api
}

func postJSON(t *testing.T, url, body string) (*http.Response, map[string]string) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	var decoded map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func TestSubmitAndPollDocument(t *testing.T) {
	api := newAPIServer(t)

	// Requests outside the catalog still produce a cover-only document.
	resp, body := postJSON(t, api.URL+"/documents", `{
		"resource_requests": [{"lang_code": "llx", "resource_type": "ulb", "book_code": "col"}],
		"assembly_strategy": "language_book_order",
		"chunk_size": "chapter"
	}`)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	id := body["task_id"]
	require.NotEmpty(t, id)

	var last struct {
		State  string `json:"state"`
		Result string `json:"result"`
	}
	require.Eventually(t, func() bool {
		r, err := http.Get(api.URL + "/task_status/" + id)
		if err != nil {
			return false
		}
		defer r.Body.Close()
		if err := json.NewDecoder(r.Body).Decode(&last); err != nil {
			return false
		}
		return last.State == "SUCCESS" || last.State == "FAILURE"
	}, 5*time.Second, 20*time.Millisecond)

	assert.Equal(t, "SUCCESS", last.State)
	assert.Len(t, last.Result, resource.KeyLen)
}

func TestDocumentValidation(t *testing.T) {
	api := newAPIServer(t)

	cases := []struct {
		name string
		body string
		want int
	}{
		{"malformed json", `{`, http.StatusBadRequest},
		{"no requests", `{"resource_requests": []}`, http.StatusBadRequest},
		{"missing lang code", `{"resource_requests": [{"resource_type": "ulb"}]}`, http.StatusBadRequest},
		{"unknown strategy", `{
			"resource_requests": [{"lang_code": "en", "resource_type": "ulb-wa", "book_code": "tit"}],
			"assembly_strategy": "shuffled"
		}`, http.StatusBadRequest},
		{"unknown output", `{
			"resource_requests": [{"lang_code": "en", "resource_type": "ulb-wa", "book_code": "tit"}],
			"outputs": ["mobi"]
		}`, http.StatusBadRequest},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			resp, decoded := postJSON(t, api.URL+"/documents", c.body)
			assert.Equal(t, c.want, resp.StatusCode)
			assert.NotEmpty(t, decoded["error"])
		})
	}

	resp, err := http.Get(api.URL + "/documents")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestTaskStatusRoutes(t *testing.T) {
	api := newAPIServer(t)

	resp, err := http.Get(api.URL + "/task_status/does-not-exist")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = http.Get(api.URL + "/task_status/")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Post(api.URL+"/task_status/x", "application/json", strings.NewReader("{}"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestCatalogEnumerations(t *testing.T) {
	api := newAPIServer(t)

	fetch := func(path string) []string {
		resp, err := http.Get(api.URL + path)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var codes []string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&codes))
		return codes
	}

	assert.Equal(t, []string{"en", "fr"}, fetch("/language_codes"))
	assert.Equal(t, []string{"f10", "tn-wa", "ulb-wa"}, fetch("/resource_types"))
	assert.Equal(t, []string{"tit"}, fetch("/resource_codes"))
}

func TestEnumerationsCatalogUnavailable(t *testing.T) {
	catSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream broken", http.StatusInternalServerError)
	}))
	t.Cleanup(catSrv.Close)

	o := pipeline.New(pipeline.Options{
		WorkDir:    t.TempDir(),
		CatalogURL: catSrv.URL + "/catalog.json",
		Client:     catSrv.Client(),
	})
	api := httptest.NewServer(New(o, pipeline.NewRegistry(context.Background(), o)).Handler())
	t.Cleanup(api.Close)

	resp, err := http.Get(api.URL + "/language_codes")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}
