// SPDX-FileCopyrightText: 2025 Bible Translation Tools and docweave contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package pipeline drives one document request end to end: catalog
// resolution, parallel acquisition, layout discovery, parsing, link
// rewriting, assembly, conversion and output writing.
package pipeline

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"k8s.io/klog/v2"

	"github.com/bibletranslationtools/docweave/pkg/assemble"
	"github.com/bibletranslationtools/docweave/pkg/bible"
	"github.com/bibletranslationtools/docweave/pkg/catalog"
	"github.com/bibletranslationtools/docweave/pkg/convert"
	"github.com/bibletranslationtools/docweave/pkg/docerr"
	"github.com/bibletranslationtools/docweave/pkg/fetch"
	"github.com/bibletranslationtools/docweave/pkg/helps"
	"github.com/bibletranslationtools/docweave/pkg/jobs"
	"github.com/bibletranslationtools/docweave/pkg/layout"
	"github.com/bibletranslationtools/docweave/pkg/links"
	"github.com/bibletranslationtools/docweave/pkg/resource"
	"github.com/bibletranslationtools/docweave/pkg/usfm"
	"github.com/bibletranslationtools/docweave/pkg/writers"
)

// Defaults for Options zero values.
const (
	DefaultWorkDir         = "/working/tn-temp"
	DefaultCatalogURL      = "https://api.bibletranslationtools.org/v3/catalog.json"
	DefaultCatalogStale    = 24 * time.Hour
	DefaultFetchWorkers    = 8
	DefaultFetchTimeout    = 120 * time.Second
	DefaultParseTimeout    = 30 * time.Second
	DefaultAssembleTimeout = 120 * time.Second
)

// catalogFile is the cached catalog name inside the working directory.
const catalogFile = "catalog.json"

// Options configures an Orchestrator. Zero values take the defaults above;
// OutDir defaults to WorkDir.
type Options struct {
	WorkDir         string
	OutDir          string
	CatalogURL      string
	CatalogStale    time.Duration
	FetchWorkers    int
	FetchTimeout    time.Duration
	ParseTimeout    time.Duration
	AssembleTimeout time.Duration

	// Client serves catalog and asset downloads. cmd/app builds a caching
	// one; tests inject plain clients.
	Client *http.Client
	// Writer persists the assembled HTML. Defaults to an FSWriter on
	// OutDir.
	Writer writers.Writer
}

// Orchestrator runs document requests. It is safe for concurrent use; all
// cross-request synchronization lives in the fetcher.
type Orchestrator struct {
	opts    Options
	fetcher *fetch.Fetcher
}

func New(opts Options) *Orchestrator {
	if opts.WorkDir == "" {
		opts.WorkDir = DefaultWorkDir
	}
	if opts.OutDir == "" {
		opts.OutDir = opts.WorkDir
	}
	if opts.CatalogURL == "" {
		opts.CatalogURL = DefaultCatalogURL
	}
	if opts.CatalogStale <= 0 {
		opts.CatalogStale = DefaultCatalogStale
	}
	if opts.FetchWorkers <= 0 {
		opts.FetchWorkers = DefaultFetchWorkers
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = DefaultFetchTimeout
	}
	if opts.ParseTimeout <= 0 {
		opts.ParseTimeout = DefaultParseTimeout
	}
	if opts.AssembleTimeout <= 0 {
		opts.AssembleTimeout = DefaultAssembleTimeout
	}
	if opts.Client == nil {
		opts.Client = http.DefaultClient
	}
	if opts.Writer == nil {
		opts.Writer = &writers.FSWriter{Root: opts.OutDir}
	}
	return &Orchestrator{opts: opts, fetcher: fetch.New(opts.Client)}
}

// Catalog ensures a fresh cached catalog and parses it.
func (o *Orchestrator) Catalog(ctx context.Context) (*catalog.Catalog, error) {
	dest := filepath.Join(o.opts.WorkDir, catalogFile)
	if err := o.fetcher.EnsureCatalog(ctx, o.opts.CatalogURL, dest, o.opts.CatalogStale); err != nil {
		return nil, err
	}
	return catalog.Load(dest)
}

// DocumentKey derives the content-addressed output name of a request. The
// key covers the normalized resource requests and the assembly parameters
// that shape the HTML; converted formats derive from that HTML and share
// the key.
func DocumentKey(reqs []resource.Request, cfg assemble.Config) string {
	parts := make([]string, 0, len(reqs)+4)
	for _, r := range reqs {
		parts = append(parts, r.Normalize().String())
	}
	parts = append(parts,
		cfg.Strategy.String(),
		cfg.Layout.String(),
		cfg.ChunkSize.String(),
		strconv.FormatBool(cfg.LayoutForPrint),
	)
	return resource.Key(parts...)
}

// Result is the outcome of one generated document.
type Result struct {
	Key         string
	Files       []string
	Unfulfilled []resource.Request
	// Notes records requested formats that were omitted after a converter
	// failure. The HTML is always delivered.
	Notes []string
}

// fetchTask pairs a resource stub with its locator through the fetch queue.
type fetchTask struct {
	res *resource.Resource
	loc resource.Locator
	err error
}

// Generate runs the full pipeline for one document request and returns the
// document key with the written files. Per-resource failures accumulate on
// the cover page; only configuration errors, cancellation and output I/O
// fail the request.
func (o *Orchestrator) Generate(ctx context.Context, reqs []resource.Request, cfg assemble.Config) (*Result, error) {
	if len(reqs) == 0 {
		return nil, &docerr.AssemblerError{Reason: "no resource requests"}
	}
	formats, err := convert.ParseFormats(cfg.Outputs)
	if err != nil {
		return nil, &docerr.AssemblerError{Reason: err.Error()}
	}

	key := DocumentKey(reqs, cfg)
	htmlPath := filepath.Join(o.opts.OutDir, key+".html")
	if _, statErr := os.Stat(htmlPath); statErr == nil {
		// first finisher won earlier; only fill in missing formats
		klog.V(2).Infof("document %s already generated", key)
		res := &Result{Key: key, Files: []string{htmlPath}}
		o.convertOutputs(ctx, res, htmlPath, formats)
		return res, nil
	}

	klog.V(2).Infof("generating document %s from %d requests", key, len(reqs))
	cat, err := o.Catalog(ctx)
	if err != nil {
		return nil, err
	}

	tasks, unfulfilled := o.resolve(cat, reqs)
	if err := o.fetchAll(ctx, tasks); err != nil {
		return nil, err
	}

	populated, arena, demoted, err := o.prepare(ctx, tasks)
	if err != nil {
		return nil, err
	}
	unfulfilled = append(unfulfilled, demoted...)

	doc, err := o.assemble(ctx, cfg, arena, populated, unfulfilled)
	if err != nil {
		return nil, err
	}

	path, err := o.opts.Writer.Write(key+".html", []byte(doc))
	if err != nil {
		return nil, err
	}
	res := &Result{Key: key, Files: []string{path}, Unfulfilled: unfulfilled}
	o.convertOutputs(ctx, res, path, formats)
	return res, nil
}

// resolve partitions the requests into fetchable tasks and unfulfilled
// requests. Several catalog URLs for one request take the first in document
// order.
func (o *Orchestrator) resolve(cat *catalog.Catalog, reqs []resource.Request) ([]*fetchTask, []resource.Request) {
	var tasks []*fetchTask
	var unfulfilled []resource.Request
	for _, req := range reqs {
		req = req.Normalize()
		locs := cat.Lookup(req)
		if len(locs) == 0 {
			klog.Warningf("%v", &docerr.NotFoundInCatalog{
				LangCode:     req.LangCode,
				ResourceType: req.ResourceType,
				BookCode:     req.BookCode,
			})
			unfulfilled = append(unfulfilled, req)
			continue
		}
		loc := locs[0]
		klog.V(6).Infof("resolved %s to %s (%s)", req, loc.URL, loc.Format)
		tasks = append(tasks, &fetchTask{
			res: &resource.Resource{
				Request: req,
				Kind:    resource.KindOf(req.ResourceType),
				Dir:     fetch.TargetDir(o.opts.WorkDir, req, loc.Format),
				Format:  loc.Format,
			},
			loc: loc,
		})
	}
	return tasks, unfulfilled
}

// fetchAll acquires every resolved asset through a bounded worker queue.
// Acquisition failures land on their task; only cancellation aborts.
func (o *Orchestrator) fetchAll(ctx context.Context, tasks []*fetchTask) error {
	if len(tasks) == 0 {
		return ctx.Err()
	}
	work := func(ctx context.Context, task interface{}) error {
		t := task.(*fetchTask)
		tctx, cancel := context.WithTimeout(ctx, o.opts.FetchTimeout)
		defer cancel()
		if err := o.fetcher.Acquire(tctx, t.loc, t.res.Dir); err != nil {
			t.err = err
			return err
		}
		return nil
	}
	q, err := jobs.NewQueue("fetch", o.opts.FetchWorkers, work, false)
	if err != nil {
		return err
	}
	q.Start(ctx)
	for _, t := range tasks {
		q.Add(t)
	}
	q.Wait()
	q.Stop()
	if errs := q.Errors(); errs != nil {
		klog.V(2).Infof("fetch phase finished with %d failures", len(errs.Errors))
	}
	return ctx.Err()
}

// prepare runs layout discovery, parsing and link rewriting sequentially
// over the acquired resources. Failed resources demote to the unfulfilled
// list; when the phase deadline passes, the resources not reached yet
// demote too. Only cancellation of the request context aborts.
func (o *Orchestrator) prepare(ctx context.Context, tasks []*fetchTask) ([]*resource.Resource, *links.Arena, []resource.Request, error) {
	arena := links.NewArena()
	rw := links.NewRewriter(arena)
	pctx, cancel := context.WithTimeout(ctx, o.opts.ParseTimeout)
	defer cancel()

	var demoted []resource.Request
	demote := func(t *fetchTask, err error) {
		klog.Warningf("dropping %s: %v", t.res.Request, err)
		demoted = append(demoted, t.res.Request)
		t.err = err
	}

	var discovered []*fetchTask
	for _, t := range tasks {
		if t.err != nil {
			demote(t, t.err)
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, nil, nil, err
		}
		if pctx.Err() != nil {
			demote(t, &docerr.ParseError{Path: t.res.Dir, Format: "dir", Err: pctx.Err()})
			continue
		}
		if err := layout.Discover(t.res); err != nil {
			demote(t, err)
			continue
		}
		discovered = append(discovered, t)
	}

	// words and academy directories register before any text is rewritten
	// so references resolve regardless of request order
	for _, t := range discovered {
		switch t.res.Kind {
		case resource.Words, resource.Academy:
			rw.RegisterSource(t.res.LangCode, t.res.Kind, t.res.Dir)
		}
	}

	var populated []*resource.Resource
	for _, t := range discovered {
		if err := ctx.Err(); err != nil {
			return nil, nil, nil, err
		}
		if pctx.Err() != nil {
			demote(t, &docerr.ParseError{Path: t.res.Dir, Format: "dir", Err: pctx.Err()})
			continue
		}
		if err := o.parseResource(t.res); err != nil {
			demote(t, err)
			continue
		}
		rw.RewriteResource(t.res)
		populated = append(populated, t.res)
	}
	return populated, arena, demoted, nil
}

// parseResource fills the resource's tree according to its kind. Words and
// academy resources stay tree-less: they resolve lazily through the link
// rewriter and render from the arena.
func (o *Orchestrator) parseResource(r *resource.Resource) error {
	switch r.Kind {
	case resource.Scripture:
		if len(r.ContentFiles) == 0 {
			return &docerr.LayoutError{Dir: r.Dir, Reason: "no scripture files"}
		}
		tree, err := usfm.ParseFile(r.ContentFiles[0])
		if err != nil {
			return err
		}
		r.Scripture = tree
		if r.BookID == "" {
			r.BookID = tree.IDCode()
			if b, ok := bible.Lookup(r.BookID); ok {
				r.BookTitle, r.BookNum = b.Title, b.Number
			}
		}
	case resource.Notes, resource.Questions:
		dir, err := layout.BookDir(r)
		if err != nil {
			return err
		}
		tree, err := helps.ParseBookDir(dir, r.BookID, r.ResourceType)
		if err != nil {
			return err
		}
		r.Helps = tree
	case resource.Commentary:
		if len(r.ContentFiles) == 0 {
			return &docerr.LayoutError{Dir: r.Dir, Reason: "no commentary files"}
		}
		tree, err := helps.ParseCommentary(r.ContentFiles[0], r.BookID, r.ResourceType)
		if err != nil {
			return err
		}
		r.Helps = tree
	}
	if !r.Populated() {
		return &docerr.ParseError{
			Path:   r.Dir,
			Format: string(r.Format),
			Err:    fmt.Errorf("no %s content for %s", r.Kind, r.Request),
		}
	}
	return nil
}

// assemble renders the document under the assembly deadline.
func (o *Orchestrator) assemble(ctx context.Context, cfg assemble.Config, arena *links.Arena, populated []*resource.Resource, unfulfilled []resource.Request) (string, error) {
	actx, cancel := context.WithTimeout(ctx, o.opts.AssembleTimeout)
	defer cancel()

	type out struct {
		doc string
		err error
	}
	ch := make(chan out, 1)
	go func() {
		doc, err := assemble.New(cfg, arena).Assemble(populated, unfulfilled)
		ch <- out{doc, err}
	}()
	select {
	case <-actx.Done():
		return "", actx.Err()
	case r := <-ch:
		return r.doc, r.err
	}
}

// convertOutputs produces the extra formats from the written HTML. Existing
// files are kept; converter failures leave a note and never fail the
// request.
func (o *Orchestrator) convertOutputs(ctx context.Context, res *Result, htmlPath string, formats []convert.Format) {
	for _, f := range formats {
		outPath := filepath.Join(o.opts.OutDir, res.Key+"."+string(f))
		if _, err := os.Stat(outPath); err == nil {
			res.Files = append(res.Files, outPath)
			continue
		}
		c, ok := convert.For(f)
		if !ok {
			continue
		}
		if err := c.Convert(ctx, htmlPath, outPath); err != nil {
			klog.Warningf("%v", err)
			res.Notes = append(res.Notes, fmt.Sprintf("%s omitted: %v", f, err))
			continue
		}
		res.Files = append(res.Files, outPath)
	}
}

// Planned is the dry-run view of one resource request.
type Planned struct {
	Request resource.Request
	Locator resource.Locator
	Found   bool
}

// Plan resolves the requests without fetching anything beyond the catalog
// and reports the locators plus the files a real run would write.
func (o *Orchestrator) Plan(ctx context.Context, reqs []resource.Request, cfg assemble.Config) ([]Planned, []string, error) {
	formats, err := convert.ParseFormats(cfg.Outputs)
	if err != nil {
		return nil, nil, &docerr.AssemblerError{Reason: err.Error()}
	}
	cat, err := o.Catalog(ctx)
	if err != nil {
		return nil, nil, err
	}

	planned := make([]Planned, 0, len(reqs))
	for _, req := range reqs {
		req = req.Normalize()
		p := Planned{Request: req}
		if locs := cat.Lookup(req); len(locs) > 0 {
			p.Locator, p.Found = locs[0], true
		}
		planned = append(planned, p)
	}

	key := DocumentKey(reqs, cfg)
	files := []string{key + ".html"}
	for _, f := range formats {
		files = append(files, key+"."+string(f))
	}
	return planned, files, nil
}
