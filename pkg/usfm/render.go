// SPDX-FileCopyrightText: 2025 Bible Translation Tools and docweave contributors
//
// SPDX-License-Identifier: Apache-2.0

package usfm

import (
	"fmt"
	"html"
	"regexp"
	"strings"
)

var (
	footnoteRe      = regexp.MustCompile(`(?s)\\f[ \x{00A0}].*?\\f\*`)
	verseTokRe      = regexp.MustCompile(`\\v[ \x{00A0}](\d+(?:-\d+)?)[ \x{00A0}]?`)
	chapterTokRe    = regexp.MustCompile(`^\\c[ \x{00A0}](\d+)\s*`)
	chapterInlineRe = regexp.MustCompile(`\\c[ \x{00A0}]\d+[ \x{00A0}]?`)
	sectionTokRe    = regexp.MustCompile(`^\\s[1-4]?[ \x{00A0}]`)
	poetryTokRe     = regexp.MustCompile(`^\\q([1-3])?([ \x{00A0}]|$)`)
	paraTokRe       = regexp.MustCompile(`^\\(?:p|m|nb|b|pi[1-3]?|li[1-4]?)([ \x{00A0}]|$)`)
	charCloseRe     = regexp.MustCompile(`\\\+?[a-z]+[1-9]?\*`)
	charOpenRe      = regexp.MustCompile(`\\\+?[a-z]+[1-9]?[ \x{00A0}]?`)
)

// RenderHTML converts one chunk's markup to minimal HTML: a chapter heading,
// verse superscripts, paragraph, poetry and section structure. Footnotes are
// dropped and unrecognized markers stripped. Output is deterministic for
// equal input.
func RenderHTML(raw string) string {
	text := html.EscapeString(raw)
	text = footnoteRe.ReplaceAllString(text, "")

	var blocks []string
	var para []string
	flush := func() {
		if len(para) == 0 {
			return
		}
		content := inline(strings.Join(para, " "))
		if content != "" {
			blocks = append(blocks, "<p>"+content+"</p>")
		}
		para = para[:0]
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			flush()
		case chapterTokRe.MatchString(trimmed):
			flush()
			m := chapterTokRe.FindStringSubmatch(trimmed)
			blocks = append(blocks, fmt.Sprintf(`<h2 class="c-num">Chapter %s</h2>`, m[1]))
			if rest := strings.TrimSpace(trimmed[len(m[0]):]); rest != "" {
				para = append(para, rest)
			}
		case sectionTokRe.MatchString(trimmed):
			flush()
			m := sectionTokRe.FindStringSubmatch(trimmed)
			if rest := inline(trimmed[len(m[0]):]); rest != "" {
				blocks = append(blocks, "<h3>"+rest+"</h3>")
			}
		case poetryTokRe.MatchString(trimmed):
			flush()
			m := poetryTokRe.FindStringSubmatch(trimmed)
			level := m[1]
			if level == "" {
				level = "1"
			}
			if rest := inline(trimmed[len(m[0]):]); rest != "" {
				blocks = append(blocks, fmt.Sprintf(`<div class="q%s">%s</div>`, level, rest))
			}
		case paraTokRe.MatchString(trimmed):
			flush()
			m := paraTokRe.FindStringSubmatch(trimmed)
			if rest := strings.TrimSpace(trimmed[len(m[0]):]); rest != "" {
				para = append(para, rest)
			}
		default:
			para = append(para, trimmed)
		}
	}
	flush()
	return strings.Join(blocks, "\n")
}

// inline rewrites verse markers to superscripts and strips leftover
// character markers. Chapter tokens that did not start a line are dropped
// whole so their digits never leak into the text.
func inline(s string) string {
	s = verseTokRe.ReplaceAllString(s, "<sup><b>$1</b></sup> ")
	s = chapterInlineRe.ReplaceAllString(s, "")
	s = charCloseRe.ReplaceAllString(s, "")
	s = charOpenRe.ReplaceAllString(s, "")
	return strings.TrimSpace(strings.Join(strings.Fields(s), " "))
}
