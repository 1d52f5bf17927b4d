// SPDX-FileCopyrightText: 2025 Bible Translation Tools and docweave contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package markdownconv renders helps markdown to HTML.
package markdownconv

import (
	"bytes"

	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	// GitHub Flavored Markdown plus frontmatter support
	extensions = []goldmark.Extender{
		extension.GFM,
		meta.Meta,
	}
	converter = goldmark.New(
		goldmark.WithExtensions(extensions...),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
)

// ToHTML renders markdown to HTML. YAML frontmatter is consumed and returned
// separately, never rendered.
func ToHTML(source []byte) ([]byte, map[string]interface{}, error) {
	var buf bytes.Buffer
	ctx := parser.NewContext()
	if err := converter.Convert(source, &buf, parser.WithContext(ctx)); err != nil {
		return nil, nil, err
	}
	fm, err := meta.TryGet(ctx)
	if err != nil {
		return nil, nil, err
	}
	return buf.Bytes(), fm, nil
}
