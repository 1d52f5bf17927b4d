// SPDX-FileCopyrightText: 2025 Bible Translation Tools and docweave contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package fetch materializes catalog-resolved assets on disk: the catalog
// file itself, zip archives, shallow git clones and single-file downloads.
package fetch

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"k8s.io/klog/v2"

	"github.com/bibletranslationtools/docweave/pkg/docerr"
	"github.com/bibletranslationtools/docweave/pkg/resource"
)

// Fetcher downloads and unpacks assets. Safe for concurrent use; two
// acquisitions of the same target directory serialize on a per-directory
// mutex.
type Fetcher struct {
	client *http.Client

	mu       sync.Mutex
	dirLocks map[string]*sync.Mutex

	catalogMu sync.Mutex
}

// New returns a Fetcher downloading through client.
func New(client *http.Client) *Fetcher {
	return &Fetcher{
		client:   client,
		dirLocks: map[string]*sync.Mutex{},
	}
}

// TargetDir derives the acquisition directory for a request. Single-file
// and git assets are book-scoped when the request names a book; zip
// archives hold a whole language resource and are shared across books.
func TargetDir(workDir string, req resource.Request, format resource.FileFormat) string {
	name := req.LangCode + "_" + req.ResourceType
	if req.BookCode != "" && format != resource.FormatZip {
		name += "_" + req.BookCode
	}
	return filepath.Join(workDir, name)
}

// EnsureCatalog guarantees a catalog copy at dest no older than staleAfter,
// downloading from rawURL when the copy is missing or stale. The write goes
// through a temp file and rename so concurrent readers never observe
// partial JSON.
func (f *Fetcher) EnsureCatalog(ctx context.Context, rawURL, dest string, staleAfter time.Duration) error {
	f.catalogMu.Lock()
	defer f.catalogMu.Unlock()

	if fi, err := os.Stat(dest); err == nil && time.Since(fi.ModTime()) < staleAfter {
		klog.V(6).Infof("catalog at %s is fresh, reusing", dest)
		return nil
	}
	klog.V(2).Infof("refreshing catalog from %s", rawURL)
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return &docerr.AcquisitionError{URL: rawURL, Op: "download", Err: err}
	}
	return f.download(ctx, rawURL, dest)
}

// Acquire materializes loc into dir. A populated directory is a cache hit
// and is left untouched.
func (f *Fetcher) Acquire(ctx context.Context, loc resource.Locator, dir string) error {
	lock := f.dirLock(dir)
	lock.Lock()
	defer lock.Unlock()

	if dirPopulated(dir) {
		klog.V(6).Infof("reusing %s for %s", dir, loc.URL)
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &docerr.AcquisitionError{URL: loc.URL, Op: "download", Err: err}
	}

	var err error
	switch loc.Format {
	case resource.FormatZip:
		err = f.acquireZip(ctx, loc.URL, dir)
	case resource.FormatGit:
		err = f.acquireGit(ctx, loc.URL, dir)
	default:
		err = f.download(ctx, loc.URL, filepath.Join(dir, urlBasename(loc.URL)))
	}
	if err != nil {
		os.RemoveAll(dir)
		return err
	}
	return nil
}

func (f *Fetcher) acquireZip(ctx context.Context, rawURL, dir string) error {
	archive := filepath.Join(dir, urlBasename(rawURL))
	if err := f.download(ctx, rawURL, archive); err != nil {
		return err
	}
	defer os.Remove(archive)
	if err := unzip(archive, dir); err != nil {
		return &docerr.AcquisitionError{URL: rawURL, Op: "unzip", Err: err}
	}
	return nil
}

func (f *Fetcher) acquireGit(ctx context.Context, rawURL, dir string) error {
	local := filepath.Join(dir, strings.TrimSuffix(urlBasename(rawURL), ".git"))
	klog.V(6).Infof("cloning %s into %s", rawURL, local)
	if _, err := gogit.PlainCloneContext(ctx, local, false, &gogit.CloneOptions{
		URL:          rawURL,
		RemoteName:   gogit.DefaultRemoteName,
		Depth:        1,
		SingleBranch: true,
	}); err != nil {
		return &docerr.AcquisitionError{URL: rawURL, Op: "clone", Err: err}
	}
	return nil
}

// download streams rawURL to dest through a temp file in the destination
// directory, renaming on success and removing the temp on failure.
func (f *Fetcher) download(ctx context.Context, rawURL, dest string) error {
	fail := func(err error) error {
		return &docerr.AcquisitionError{URL: rawURL, Op: "download", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fail(err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return fail(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fail(fmt.Errorf("http status %s", resp.Status))
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".tmp-*")
	if err != nil {
		return fail(err)
	}
	if _, err = io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fail(err)
	}
	if err = tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fail(err)
	}
	if err = os.Rename(tmp.Name(), dest); err != nil {
		os.Remove(tmp.Name())
		return fail(err)
	}
	klog.V(6).Infof("downloaded %s to %s", rawURL, dest)
	return nil
}

// unzip extracts src into destDir, refusing entries that would escape it.
func unzip(src, destDir string) error {
	r, err := zip.OpenReader(src)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, zf := range r.File {
		target := filepath.Join(destDir, filepath.FromSlash(zf.Name))
		rel, err := filepath.Rel(destDir, target)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return fmt.Errorf("archive entry %q escapes extraction directory", zf.Name)
		}
		if zf.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return err
		}
		if err := extractFile(zf, target); err != nil {
			return err
		}
	}
	return nil
}

func extractFile(zf *zip.File, target string) error {
	rc, err := zf.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	if _, err = io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func (f *Fetcher) dirLock(dir string) *sync.Mutex {
	f.mu.Lock()
	defer f.mu.Unlock()
	if l, ok := f.dirLocks[dir]; ok {
		return l
	}
	l := &sync.Mutex{}
	f.dirLocks[dir] = l
	return l
}

func dirPopulated(dir string) bool {
	entries, err := os.ReadDir(dir)
	return err == nil && len(entries) > 0
}

func urlBasename(rawURL string) string {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		p = u.Path
	}
	return path.Base(strings.TrimSuffix(p, "/"))
}
