// SPDX-FileCopyrightText: 2025 Bible Translation Tools and docweave contributors
//
// SPDX-License-Identifier: Apache-2.0

package helps

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/bibletranslationtools/docweave/pkg/docerr"
)

// LoadWordsEntry reads one translation-words article by its category path
// (bible/kt/word), trying the kt ↔ other swap when the exact path is
// missing. It returns the article and the path that actually resolved.
func LoadWordsEntry(baseDir, categoryPath string) (*Doc, string, error) {
	for _, p := range wordsCandidates(categoryPath) {
		body, err := readOptional(filepath.Join(baseDir, filepath.FromSlash(p)+".md"))
		if err != nil {
			return nil, "", err
		}
		if body == "" {
			continue
		}
		title := firstHeader(body)
		if title == "" {
			title = path.Base(p)
		}
		return &Doc{Title: title, Body: shiftHeaders(body, 1, 1)}, p, nil
	}
	return nil, "", &docerr.BrokenLink{Token: categoryPath, Path: baseDir}
}

func wordsCandidates(categoryPath string) []string {
	switch {
	case strings.HasPrefix(categoryPath, "bible/kt/"):
		return []string{categoryPath, "bible/other/" + strings.TrimPrefix(categoryPath, "bible/kt/")}
	case strings.HasPrefix(categoryPath, "bible/other/"):
		return []string{categoryPath, "bible/kt/" + strings.TrimPrefix(categoryPath, "bible/other/")}
	}
	return []string{categoryPath}
}

// LoadAcademyEntry reads one translation-academy module (translate/figs-x).
// The body is 01.md; a sibling title.md supplies the title, else the first
// header line; a sibling sub-title.md supplies the question the module
// answers. Title and question are prepended before the body.
func LoadAcademyEntry(baseDir, categoryPath string) (*Doc, error) {
	dir := filepath.Join(baseDir, filepath.FromSlash(categoryPath))
	body, err := readOptional(filepath.Join(dir, "01.md"))
	if err != nil {
		return nil, err
	}
	if body == "" {
		return nil, &docerr.BrokenLink{Token: categoryPath, Path: dir}
	}

	title, err := readOptional(filepath.Join(dir, "title.md"))
	if err != nil {
		return nil, err
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = firstHeader(body)
	}
	question, err := readOptional(filepath.Join(dir, "sub-title.md"))
	if err != nil {
		return nil, err
	}
	question = strings.TrimSpace(question)

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	if question != "" {
		fmt.Fprintf(&b, "This page answers the question: *%s*\n\n", question)
	}
	b.WriteString(shiftHeaders(body, 1, 1))
	return &Doc{Title: title, Body: b.String()}, nil
}
