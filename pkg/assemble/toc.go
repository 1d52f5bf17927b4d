// SPDX-FileCopyrightText: 2025 Bible Translation Tools and docweave contributors
//
// SPDX-License-Identifier: Apache-2.0

package assemble

import (
	"fmt"
	"html"
	"strings"

	xhtml "golang.org/x/net/html"
)

// void elements never close, so they must not join the enclosing-id stack.
var voidElements = map[string]bool{
	"br": true, "hr": true, "img": true, "meta": true, "input": true, "link": true,
}

type tocEntry struct {
	level int
	id    string
	text  string
}

// buildTOC tokenizes the assembled body and collects h1/h2 headings. Each
// entry links to the heading's own id when it has one, else to the nearest
// enclosing element id, which for granule content is the granule anchor.
func buildTOC(body string) string {
	z := xhtml.NewTokenizer(strings.NewReader(body))

	type open struct {
		tag string
		id  string
	}
	var stack []open
	var entries []tocEntry

	nearestID := func() string {
		for i := len(stack) - 1; i >= 0; i-- {
			if stack[i].id != "" {
				return stack[i].id
			}
		}
		return ""
	}

	for {
		tt := z.Next()
		if tt == xhtml.ErrorToken {
			break
		}
		t := z.Token()
		switch tt {
		case xhtml.StartTagToken:
			if voidElements[t.Data] {
				continue
			}
			id := attrValue(t, "id")
			if t.Data == "h1" || t.Data == "h2" {
				target := id
				if target == "" {
					target = nearestID()
				}
				level := 1
				if t.Data == "h2" {
					level = 2
				}
				entries = append(entries, tocEntry{
					level: level,
					id:    target,
					text:  headingText(z, t.Data),
				})
				continue
			}
			stack = append(stack, open{tag: t.Data, id: id})
		case xhtml.EndTagToken:
			for i := len(stack) - 1; i >= 0; i-- {
				if stack[i].tag == t.Data {
					stack = stack[:i]
					break
				}
			}
		}
	}

	return renderTOC(entries)
}

// headingText drains tokens until the heading closes, keeping text only.
func headingText(z *xhtml.Tokenizer, tag string) string {
	var b strings.Builder
	for {
		tt := z.Next()
		if tt == xhtml.ErrorToken {
			break
		}
		t := z.Token()
		if tt == xhtml.EndTagToken && t.Data == tag {
			break
		}
		if tt == xhtml.TextToken {
			b.WriteString(t.Data)
		}
	}
	return strings.TrimSpace(b.String())
}

func attrValue(t xhtml.Token, key string) string {
	for _, a := range t.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func renderTOC(entries []tocEntry) string {
	var linked []tocEntry
	for _, e := range entries {
		if e.id != "" && e.text != "" {
			linked = append(linked, e)
		}
	}
	if len(linked) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("<nav class=\"toc\" id=\"toc\">\n<h2>Contents</h2>\n<ul>\n")
	for _, e := range linked {
		fmt.Fprintf(&b, "<li class=\"toc-%d\"><a href=\"#%s\">%s</a></li>\n",
			e.level, e.id, html.EscapeString(e.text))
	}
	b.WriteString("</ul>\n</nav>\n")
	return b.String()
}
