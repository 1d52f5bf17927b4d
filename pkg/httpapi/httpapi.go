// SPDX-FileCopyrightText: 2025 Bible Translation Tools and docweave contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package httpapi exposes the document pipeline over HTTP. The surface is
// deliberately small: submit a document request, poll its task, and list
// what the catalog offers.
package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"k8s.io/klog/v2"

	"github.com/bibletranslationtools/docweave/pkg/assemble"
	"github.com/bibletranslationtools/docweave/pkg/convert"
	"github.com/bibletranslationtools/docweave/pkg/pipeline"
	"github.com/bibletranslationtools/docweave/pkg/resource"
)

const maxBodySize = 1 << 20

// Server routes document generation requests to a task registry and answers
// catalog enumeration queries.
type Server struct {
	orchestrator *pipeline.Orchestrator
	registry     *pipeline.Registry
}

func New(o *pipeline.Orchestrator, reg *pipeline.Registry) *Server {
	return &Server{orchestrator: o, registry: reg}
}

// Handler mounts all routes on a fresh mux.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/documents", s.handleDocuments)
	mux.HandleFunc("/task_status/", s.handleTaskStatus)
	mux.HandleFunc("/language_codes", s.listHandler(func(c catalogLister) []string { return c.LanguageCodes() }))
	mux.HandleFunc("/resource_types", s.listHandler(func(c catalogLister) []string { return c.ResourceTypes() }))
	mux.HandleFunc("/resource_codes", s.listHandler(func(c catalogLister) []string { return c.BookCodes() }))
	return mux
}

// DocumentRequest is the POST /documents body.
type DocumentRequest struct {
	ResourceRequests []ResourceRequest `json:"resource_requests"`
	AssemblyStrategy string            `json:"assembly_strategy"`
	AssemblyLayout   string            `json:"assembly_layout"`
	ChunkSize        string            `json:"chunk_size"`
	LayoutForPrint   bool              `json:"layout_for_print"`
	Outputs          []string          `json:"outputs"`
}

// ResourceRequest names one resource. BookCode may be empty for resources
// that are not book-scoped, such as translation words.
type ResourceRequest struct {
	LangCode     string `json:"lang_code"`
	ResourceType string `json:"resource_type"`
	BookCode     string `json:"book_code"`
}

func (s *Server) handleDocuments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "only POST is allowed")
		return
	}
	var body DocumentRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(body.ResourceRequests) == 0 {
		writeError(w, http.StatusBadRequest, "resource_requests must not be empty")
		return
	}

	reqs := make([]resource.Request, 0, len(body.ResourceRequests))
	for _, rr := range body.ResourceRequests {
		if rr.LangCode == "" || rr.ResourceType == "" {
			writeError(w, http.StatusBadRequest, "lang_code and resource_type are required")
			return
		}
		reqs = append(reqs, resource.Request{
			LangCode:     rr.LangCode,
			ResourceType: rr.ResourceType,
			BookCode:     rr.BookCode,
		})
	}

	cfg, err := body.config()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id := s.registry.Submit(reqs, cfg)
	klog.V(2).Infof("accepted document request %s with %d resources", id, len(reqs))
	writeJSON(w, http.StatusAccepted, map[string]string{"task_id": id})
}

// config validates the enum spellings up front so a bad request fails with
// 400 instead of a task that flips to FAILURE.
func (b DocumentRequest) config() (assemble.Config, error) {
	var cfg assemble.Config
	var err error
	if cfg.Strategy, err = assemble.ParseStrategy(b.AssemblyStrategy); err != nil {
		return cfg, err
	}
	if cfg.Layout, err = assemble.ParseLayout(b.AssemblyLayout); err != nil {
		return cfg, err
	}
	if cfg.ChunkSize, err = assemble.ParseChunkSize(b.ChunkSize); err != nil {
		return cfg, err
	}
	if _, err = convert.ParseFormats(b.Outputs); err != nil {
		return cfg, err
	}
	cfg.LayoutForPrint = b.LayoutForPrint
	cfg.Outputs = b.Outputs
	return cfg, nil
}

func (s *Server) handleTaskStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "only GET is allowed")
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/task_status/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "task id is required")
		return
	}
	status, ok := s.registry.Status(id)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown task")
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// catalogLister is the slice of the catalog the enumeration routes need.
type catalogLister interface {
	LanguageCodes() []string
	ResourceTypes() []string
	BookCodes() []string
}

func (s *Server) listHandler(pick func(catalogLister) []string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "only GET is allowed")
			return
		}
		cat, err := s.orchestrator.Catalog(r.Context())
		if err != nil {
			klog.Errorf("catalog unavailable: %v", err)
			writeError(w, http.StatusBadGateway, "catalog unavailable")
			return
		}
		codes := pick(cat)
		if codes == nil {
			codes = []string{}
		}
		writeJSON(w, http.StatusOK, codes)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		klog.Errorf("encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
