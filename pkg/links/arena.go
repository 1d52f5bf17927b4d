// SPDX-FileCopyrightText: 2025 Bible Translation Tools and docweave contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package links rewrites rc cross-reference tokens into document anchors and
// external URLs, resolving referenced words and academy entries transitively.
package links

import (
	"github.com/bibletranslationtools/docweave/pkg/resource"
)

// Entry is one resolved words or academy article included in the document.
type Entry struct {
	ID     int
	Token  string
	Kind   resource.Kind
	Anchor string
	Title  string
	Body   string
}

// Arena accumulates resolved entries for one document request. Every entry
// registers once under its canonical token; references carry ids, not
// pointers, which keeps cyclic article graphs harmless.
type Arena struct {
	byToken map[string]int
	entries []*Entry
}

func NewArena() *Arena {
	return &Arena{byToken: map[string]int{}}
}

// Get returns the entry registered under a canonical token.
func (a *Arena) Get(token string) (*Entry, bool) {
	id, ok := a.byToken[token]
	if !ok {
		return nil, false
	}
	return a.entries[id], true
}

// Register files a new entry under its canonical token and returns it. The
// caller fills the body afterwards; registering before the body is rewritten
// is what breaks reference cycles.
func (a *Arena) Register(token string, kind resource.Kind, anchor, title string) *Entry {
	e := &Entry{
		ID:     len(a.entries),
		Token:  token,
		Kind:   kind,
		Anchor: anchor,
		Title:  title,
	}
	a.byToken[token] = e.ID
	a.entries = append(a.entries, e)
	return e
}

// Entries returns all registered entries in registration order.
func (a *Arena) Entries() []*Entry {
	out := make([]*Entry, len(a.entries))
	copy(out, a.entries)
	return out
}

// ByKind returns the entries of one kind in registration order.
func (a *Arena) ByKind(kind resource.Kind) []*Entry {
	var out []*Entry
	for _, e := range a.entries {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// Len reports the number of registered entries.
func (a *Arena) Len() int {
	return len(a.entries)
}
