// SPDX-FileCopyrightText: 2025 Bible Translation Tools and docweave contributors
//
// SPDX-License-Identifier: Apache-2.0

package links

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"k8s.io/klog/v2"

	"github.com/bibletranslationtools/docweave/pkg/bible"
	"github.com/bibletranslationtools/docweave/pkg/helps"
	"github.com/bibletranslationtools/docweave/pkg/resource"
)

const (
	defaultReaderBase = "https://live.door43.org/u/WA-Catalog"
	defaultStoryBase  = "https://live.door43.org/u/Door43"
	defaultSourceBase = "https://content.bibletranslationtools.org/WycliffeAssociates"
)

var (
	doubleBracketRe = regexp.MustCompile(`\[\[(rc://[^\]\s]+)\]\]`)
	mdLinkRcRe      = regexp.MustCompile(`\]\((rc://[^)\s]+)\)`)
	bareRcRe        = regexp.MustCompile(`(^|[^(\[])(rc://[\w*/._-]+)`)
	bareURLRe       = regexp.MustCompile(`(^|[^(\[<="'\w])((?:https?|ftp)://[^\s)\]<>"']+)`)
	obsPathRe       = regexp.MustCompile(`^obs/(\d+)/(\d+)$`)
	refPathRe       = regexp.MustCompile(`^([0-9a-z]{3})/(\d+)/(\d+)$`)
)

// Rewriter converts rc tokens inside helps content into intra-document
// anchors or external URLs. Referenced words/academy entries load from the
// registered source directories and register in the arena; their bodies are
// rewritten in turn.
type Rewriter struct {
	arena      *Arena
	sources    map[string]string
	readerBase string
	storyBase  string
	sourceBase string
}

func NewRewriter(arena *Arena) *Rewriter {
	return &Rewriter{
		arena:      arena,
		sources:    map[string]string{},
		readerBase: defaultReaderBase,
		storyBase:  defaultStoryBase,
		sourceBase: defaultSourceBase,
	}
}

// RegisterSource maps a language's words or academy directory so tokens of
// that language can resolve transitively.
func (rw *Rewriter) RegisterSource(lang string, kind resource.Kind, dir string) {
	rw.sources[sourceKey(lang, kind)] = dir
}

func sourceKey(lang string, kind resource.Kind) string {
	return lang + "/" + kind.String()
}

// RewriteResource rewrites every doc of a parsed resource in place. Tokens
// it saw land in LinkTokens; tokens that stayed unresolved land in BadLinks.
func (rw *Rewriter) RewriteResource(r *resource.Resource) {
	if r.Helps == nil {
		return
	}
	if d := r.Helps.BookIntro; d != nil {
		d.Body = rw.Rewrite(d.Body, r.LangCode, r)
	}
	for _, c := range r.Helps.ChapterNumbers() {
		ch := r.Helps.Chapters[c]
		if ch.Intro != nil {
			ch.Intro.Body = rw.Rewrite(ch.Intro.Body, r.LangCode, r)
		}
		for _, v := range ch.VerseNumbers() {
			doc := ch.ByVerse[v]
			doc.Body = rw.Rewrite(doc.Body, r.LangCode, r)
		}
	}
}

// Rewrite converts all reference forms in one markdown text. Rewriting is
// idempotent: running it again over its own output changes nothing.
func (rw *Rewriter) Rewrite(text, lang string, rec *resource.Resource) string {
	// [[rc://...]] becomes a full link with the resolved title as text
	text = doubleBracketRe.ReplaceAllStringFunc(text, func(m string) string {
		raw := doubleBracketRe.FindStringSubmatch(m)[1]
		title, target, ok := rw.resolve(raw, lang, rec)
		if !ok {
			return m
		}
		return fmt.Sprintf("[%s](%s)", title, target)
	})

	// [text](rc://...) keeps its text, only the target changes
	text = mdLinkRcRe.ReplaceAllStringFunc(text, func(m string) string {
		raw := mdLinkRcRe.FindStringSubmatch(m)[1]
		_, target, ok := rw.resolve(raw, lang, rec)
		if !ok {
			return m
		}
		return fmt.Sprintf("](%s)", target)
	})

	// bare rc tokens outside any link syntax; trailing punctuation the
	// token regex swallowed stays outside the link
	text = bareRcRe.ReplaceAllStringFunc(text, func(m string) string {
		sub := bareRcRe.FindStringSubmatch(m)
		token := strings.TrimRight(sub[2], "./,")
		suffix := sub[2][len(token):]
		title, target, ok := rw.resolve(token, lang, rec)
		if !ok {
			return m
		}
		return fmt.Sprintf("%s[%s](%s)%s", sub[1], title, target, suffix)
	})

	// bare web URLs become markdown links when not already inside one
	text = bareURLRe.ReplaceAllString(text, "$1[$2]($2)")
	return text
}

// resolve turns one raw token into link text and target. Unresolvable tokens
// are recorded on the resource and reported not-ok so the original text
// survives unchanged.
func (rw *Rewriter) resolve(raw, lang string, rec *resource.Resource) (string, string, bool) {
	tok, err := parseRC(raw, lang)
	if err != nil {
		klog.V(6).Infof("skipping malformed reference %q: %v", raw, err)
		recordBad(rec, raw)
		return "", "", false
	}
	recordToken(rec, tok.Raw)

	switch tok.Resource {
	case "tw":
		if e, ok := rw.wordsEntry(tok, rec); ok {
			return e.Title, "#" + e.Anchor, true
		}
		recordBad(rec, tok.Raw)
		return "", "", false
	case "ta":
		if e, ok := rw.academyEntry(tok, rec); ok {
			return e.Title, "#" + e.Anchor, true
		}
		recordBad(rec, tok.Raw)
		return "", "", false
	case "tn":
		if m := obsPathRe.FindStringSubmatch(tok.Path); m != nil {
			story, _ := strconv.Atoi(m[1])
			frame, _ := strconv.Atoi(m[2])
			text := fmt.Sprintf("OBS %d:%d", story, frame)
			target := fmt.Sprintf("%s/%s_obs/%02d.html", rw.storyBase, tok.Lang, story)
			return text, target, true
		}
		if m := refPathRe.FindStringSubmatch(tok.Path); m != nil {
			if b, ok := bible.Lookup(m[1]); ok {
				c, _ := strconv.Atoi(m[2])
				v, _ := strconv.Atoi(m[3])
				text := fmt.Sprintf("%s %d:%d", b.Title, c, v)
				target := fmt.Sprintf("%s/%s_ulb/%02d-%s.html#%02d-%s-%s",
					rw.readerBase, tok.Lang, b.Number, strings.ToUpper(b.ID),
					b.AnchorNumber(), helps.Pad(b.ID, c), helps.Pad(b.ID, v))
				return text, target, true
			}
		}
	}

	// leftover references point at their conventional source repository
	repo := fmt.Sprintf("%s_%s", tok.Lang, tok.Resource)
	return repo, fmt.Sprintf("%s/%s", rw.sourceBase, repo), true
}

func (rw *Rewriter) wordsEntry(tok rcToken, rec *resource.Resource) (*Entry, bool) {
	dir, ok := rw.sources[sourceKey(tok.Lang, resource.Words)]
	if !ok || tok.Path == "" {
		return nil, false
	}
	doc, resolved, err := helps.LoadWordsEntry(dir, tok.Path)
	if err != nil {
		klog.V(6).Infof("words entry %s not found under %s", tok.Path, dir)
		return nil, false
	}
	canonical := fmt.Sprintf("rc://%s/tw/help/%s", tok.Lang, resolved)
	if e, ok := rw.arena.Get(canonical); ok {
		return e, true
	}
	anchor := tok.Lang + "-tw-" + dashed(strings.TrimPrefix(resolved, "bible/"))
	e := rw.arena.Register(canonical, resource.Words, anchor, doc.Title)
	e.Body = rw.Rewrite(doc.Body, tok.Lang, rec)
	return e, true
}

func (rw *Rewriter) academyEntry(tok rcToken, rec *resource.Resource) (*Entry, bool) {
	dir, ok := rw.sources[sourceKey(tok.Lang, resource.Academy)]
	if !ok || tok.Path == "" {
		return nil, false
	}
	canonical := fmt.Sprintf("rc://%s/ta/man/%s", tok.Lang, tok.Path)
	if e, ok := rw.arena.Get(canonical); ok {
		return e, true
	}
	doc, err := helps.LoadAcademyEntry(dir, tok.Path)
	if err != nil {
		klog.V(6).Infof("academy entry %s not found under %s", tok.Path, dir)
		return nil, false
	}
	anchor := tok.Lang + "-ta-" + dashed(tok.Path)
	e := rw.arena.Register(canonical, resource.Academy, anchor, doc.Title)
	e.Body = rw.Rewrite(doc.Body, tok.Lang, rec)
	return e, true
}

func dashed(p string) string {
	return strings.ReplaceAll(strings.Trim(p, "/"), "/", "-")
}

func recordToken(r *resource.Resource, token string) {
	if r == nil {
		return
	}
	for _, t := range r.LinkTokens {
		if t == token {
			return
		}
	}
	r.LinkTokens = append(r.LinkTokens, token)
}

func recordBad(r *resource.Resource, token string) {
	if r == nil {
		return
	}
	for _, t := range r.BadLinks {
		if t == token {
			return
		}
	}
	r.BadLinks = append(r.BadLinks, token)
}
