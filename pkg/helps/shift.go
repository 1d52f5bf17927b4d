// SPDX-FileCopyrightText: 2025 Bible Translation Tools and docweave contributors
//
// SPDX-License-Identifier: Apache-2.0

package helps

import (
	"regexp"
	"strings"
)

var headerRe = regexp.MustCompile(`(?m)^(#{1,6})[ \t]+(.*?)[ \t]*#*[ \t]*$`)

// shiftHeaders raises every ATX header by delta levels so helps content
// nests under the surrounding document outline. A header that would land
// beyond level 5 falls back by fallback levels instead.
func shiftHeaders(md string, delta, fallback int) string {
	return headerRe.ReplaceAllStringFunc(md, func(line string) string {
		m := headerRe.FindStringSubmatch(line)
		level := len(m[1]) + delta
		if level > 5 {
			level -= fallback
		}
		if level > 6 {
			level = 6
		}
		if level < 1 {
			level = 1
		}
		return strings.Repeat("#", level) + " " + m[2]
	})
}

// firstHeader returns the text of the first ATX header, or "".
func firstHeader(md string) string {
	m := headerRe.FindStringSubmatch(md)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[2])
}
