// SPDX-FileCopyrightText: 2025 Bible Translation Tools and docweave contributors
//
// SPDX-License-Identifier: Apache-2.0

package assemble

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/bibletranslationtools/docweave/pkg/resource"
)

func (a *Assembler) documentTitle(resources []*resource.Resource) string {
	var titles []string
	seen := map[string]bool{}
	for _, r := range resources {
		if r.BookTitle != "" && !seen[r.BookTitle] {
			seen[r.BookTitle] = true
			titles = append(titles, r.BookTitle)
		}
	}
	if len(titles) == 0 {
		return "Interleaved Document"
	}
	return strings.Join(titles, ", ")
}

// coverHTML lists every request of the document: the fulfilled ones with
// their manifest version, the unfulfilled ones marked as unavailable.
func (a *Assembler) coverHTML(resources []*resource.Resource, unfulfilled []resource.Request) string {
	var b strings.Builder
	b.WriteString("<div class=\"cover\" id=\"cover\">\n")
	fmt.Fprintf(&b, "<h1>%s</h1>\n", html.EscapeString(a.documentTitle(resources)))
	fmt.Fprintf(&b, "<p class=\"timestamp\">Generated %s</p>\n", a.Now().UTC().Format(time.RFC3339))
	b.WriteString("<ul class=\"requests\">\n")
	for _, r := range resources {
		label := r.Request.String()
		if r.Version != "" {
			label += " v" + r.Version
		}
		fmt.Fprintf(&b, "<li>%s</li>\n", html.EscapeString(label))
	}
	for _, req := range unfulfilled {
		fmt.Fprintf(&b, "<li class=\"unfulfilled\">%s (not available)</li>\n", html.EscapeString(req.String()))
	}
	b.WriteString("</ul>\n</div>\n")
	return b.String()
}

// document wraps cover, TOC and body into the final HTML page with the
// print or screen stylesheet inlined.
func (a *Assembler) document(title, cover, toc, body string) string {
	css := screenCSS
	if a.cfg.LayoutForPrint {
		css = printCSS
	}
	bodyTag := "<body>"
	if a.cfg.Layout.Compact() {
		bodyTag = "<body class=\"compact\">"
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\"/>\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(title))
	fmt.Fprintf(&b, "<style>\n%s</style>\n</head>\n", css)
	b.WriteString(bodyTag)
	b.WriteString("\n")
	b.WriteString(cover)
	b.WriteString(toc)
	b.WriteString(body)
	b.WriteString("</body>\n</html>\n")
	return b.String()
}
