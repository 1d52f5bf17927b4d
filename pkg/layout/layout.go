// SPDX-FileCopyrightText: 2025 Bible Translation Tools and docweave contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package layout turns an acquired resource directory into the typed view
// the parsers consume: manifest metadata, content file list and book
// identity.
package layout

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
	"k8s.io/klog/v2"

	"github.com/bibletranslationtools/docweave/pkg/bible"
	"github.com/bibletranslationtools/docweave/pkg/docerr"
	"github.com/bibletranslationtools/docweave/pkg/resource"
)

// reservedStems are documentation files that never count as content.
var reservedStems = map[string]bool{
	"readme":       true,
	"license":      true,
	"licence":      true,
	"contributing": true,
	"changelog":    true,
	"manifest":     true,
}

// Discover fills the layout-derived fields of an acquired resource: the
// manifest (when one exists), version and issued date, the matching content
// files and the book identity. The resource directory is normalized to the
// content root first, so archives that unpack into a single top-level
// directory behave like plain checkouts.
func Discover(r *resource.Resource) error {
	root := ContentRoot(r.Dir)
	r.Dir = root

	if path, mtype := findManifest(root); path != "" {
		m, err := parseManifest(path, mtype)
		if err != nil {
			klog.Warningf("unusable %s manifest in %s: %v", mtype, root, err)
		} else {
			r.ManifestType = mtype
			r.Manifest = m
			r.Version, r.Issued = versionIssued(m)
		}
	}

	files, err := contentFiles(root, r.Kind, r.BookCode)
	if err != nil {
		return &docerr.LayoutError{Dir: root, Reason: err.Error()}
	}
	if len(files) == 0 {
		return &docerr.LayoutError{Dir: root, Reason: "no content files matched"}
	}
	r.ContentFiles = files

	deriveBook(r)
	return nil
}

// ContentRoot returns the directory holding the resource's content: the
// single visible subdirectory when an archive unpacked into one, else the
// directory itself.
func ContentRoot(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return dir
	}
	var dirs []string
	files := 0
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if e.IsDir() {
			dirs = append(dirs, e.Name())
		} else {
			files++
		}
	}
	if files == 0 && len(dirs) == 1 {
		return filepath.Join(dir, dirs[0])
	}
	return dir
}

// BookDir locates the per-book subdirectory of a helps resource.
func BookDir(r *resource.Resource) (string, error) {
	entries, err := os.ReadDir(r.Dir)
	if err != nil {
		return "", &docerr.LayoutError{Dir: r.Dir, Reason: err.Error()}
	}
	for _, e := range entries {
		if e.IsDir() && strings.EqualFold(e.Name(), r.BookCode) {
			return filepath.Join(r.Dir, e.Name()), nil
		}
	}
	return "", &docerr.LayoutError{Dir: r.Dir, Reason: "no directory for book " + r.BookCode}
}

// findManifest walks the tree for manifest.yaml, manifest.txt or
// manifest.json. The shallowest hit wins; at equal depth yaml beats txt
// beats json.
func findManifest(root string) (string, string) {
	rank := map[string]int{"manifest.yaml": 0, "manifest.txt": 1, "manifest.json": 2}
	best, bestDepth, bestRank := "", 0, 0
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		rk, ok := rank[strings.ToLower(d.Name())]
		if !ok {
			return nil
		}
		depth := strings.Count(strings.TrimPrefix(path, root), string(filepath.Separator))
		if best == "" || depth < bestDepth || (depth == bestDepth && rk < bestRank) {
			best, bestDepth, bestRank = path, depth, rk
		}
		return nil
	})
	if best == "" {
		return "", ""
	}
	return best, strings.TrimPrefix(strings.ToLower(filepath.Ext(best)), ".")
}

// parseManifest reads a manifest into a generic map. txt manifests parse as
// YAML, which is what they hold in practice.
func parseManifest(path, mtype string) (map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m := map[string]interface{}{}
	if mtype == "json" {
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, err
		}
		return m, nil
	}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// versionIssued pulls version and issued date out of dublin-core style
// manifests, with fallbacks for top-level and translation-studio layouts.
func versionIssued(m map[string]interface{}) (string, string) {
	version, issued := "", ""
	if dc, ok := m["dublin_core"].(map[string]interface{}); ok {
		version = stringify(dc["version"])
		issued = stringify(dc["issued"])
	}
	if version == "" {
		version = stringify(m["version"])
	}
	if issued == "" {
		issued = stringify(m["issued"])
	}
	if version == "" {
		if res, ok := m["resource"].(map[string]interface{}); ok {
			if st, ok := res["status"].(map[string]interface{}); ok {
				version = stringify(st["version"])
				if issued == "" {
					issued = stringify(st["pub_date"])
				}
			}
		}
	}
	return version, issued
}

func stringify(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	}
	return ""
}

// contentFiles enumerates candidate content under root. Scripture prefers
// scripture-markup files and falls back to txt; helps prefer markdown. A
// book code narrows by case-insensitive substring match on the path inside
// the resource.
func contentFiles(root string, kind resource.Kind, bookCode string) ([]string, error) {
	primary, secondary := ".md", ".txt"
	if kind == resource.Scripture {
		primary = ".usfm"
	}
	book := strings.ToLower(bookCode)

	var prim, sec []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		ext := strings.ToLower(filepath.Ext(d.Name()))
		if ext != primary && ext != secondary {
			return nil
		}
		if reservedStems[strings.ToLower(strings.TrimSuffix(d.Name(), filepath.Ext(d.Name())))] {
			return nil
		}
		if book != "" {
			rel, rerr := filepath.Rel(root, path)
			if rerr != nil || !strings.Contains(strings.ToLower(rel), book) {
				return nil
			}
		}
		if ext == primary {
			prim = append(prim, path)
		} else {
			sec = append(sec, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(prim) > 0 {
		sort.Strings(prim)
		return prim, nil
	}
	sort.Strings(sec)
	return sec, nil
}

// deriveBook settles book id, title and number. The id comes from the
// request when given, else from the first content file name. A manifest
// projects entry supplies a localized title when it has one.
func deriveBook(r *resource.Resource) {
	bookID := strings.ToLower(r.BookCode)
	if bookID == "" && len(r.ContentFiles) > 0 {
		bookID = bookIDFromFilename(r.ContentFiles[0])
	}
	r.BookID = bookID

	title := ""
	if projects, ok := r.Manifest["projects"].([]interface{}); ok {
		for _, p := range projects {
			pm, ok := p.(map[string]interface{})
			if !ok {
				continue
			}
			if strings.EqualFold(stringify(pm["identifier"]), bookID) {
				title = stringify(pm["title"])
				break
			}
		}
	}
	if b, ok := bible.Lookup(bookID); ok {
		r.BookNum = b.Number
		if title == "" {
			title = b.Title
		}
	}
	if title == "" {
		title = bookID
	}
	r.BookTitle = title
}

// bookIDFromFilename derives a book id from names like 57-TIT.usfm: the part
// after the first hyphen, else the whole stem, lower-cased.
func bookIDFromFilename(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if i := strings.Index(stem, "-"); i >= 0 && i+1 < len(stem) {
		stem = stem[i+1:]
	}
	return strings.ToLower(stem)
}
