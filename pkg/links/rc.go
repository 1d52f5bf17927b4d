// SPDX-FileCopyrightText: 2025 Bible Translation Tools and docweave contributors
//
// SPDX-License-Identifier: Apache-2.0

package links

import (
	"fmt"
	"regexp"
	"strings"
)

// rcToken is one parsed rc://<lang>/<resource>/<kind>/<path> reference. The
// kind segment (help, dict, man) carries no meaning for resolution. A "*"
// language resolves to the language of the content being rewritten.
type rcToken struct {
	Raw      string
	Lang     string
	Resource string
	Kind     string
	Path     string
}

var rcRe = regexp.MustCompile(`^rc://([\w*-]+)/([\w-]+)/([\w-]+)(?:/(.+))?$`)

func parseRC(raw, contextLang string) (rcToken, error) {
	trimmed := strings.TrimRight(raw, "./,")
	m := rcRe.FindStringSubmatch(trimmed)
	if m == nil {
		return rcToken{}, fmt.Errorf("malformed rc token %q", raw)
	}
	tok := rcToken{
		Raw:      trimmed,
		Lang:     strings.ToLower(m[1]),
		Resource: strings.ToLower(m[2]),
		Kind:     strings.ToLower(m[3]),
		Path:     strings.Trim(m[4], "/"),
	}
	if tok.Lang == "*" {
		tok.Lang = contextLang
	}
	return tok, nil
}
