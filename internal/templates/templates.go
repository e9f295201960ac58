// Copyright (c) 2026 ZimFiction. All rights reserved.

/*
Package templates holds the small set of named pure functions the renderer
invokes from its html/template trees (spec §4.7), plus the "around-current"
pagination window policy that both server-rendered list pages and the
client-side search engine must reproduce identically (spec §4.2).

None of these functions perform I/O; RenderStoryText and RepairHTML walk an
in-memory token stream via golang.org/x/net/html, the same parser the rest
of the example corpus reaches for when it needs to repair or mine
hand-authored HTML fragments.
*/
package templates

import (
	"fmt"
	"html"
	"reflect"
	"strconv"
	"strings"

	xhtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/imaybeabitshy/zimfiction/internal/slug"
)

// months is used by FormatDate to render "Month Day, Year".
var months = [...]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// FuncMap returns the named filters as an html/template.FuncMap-compatible
// map (left untyped here so internal/render can merge it
// without importing html/template into this package).
func FuncMap() map[string]any {
	return map[string]any{
		"escape":           Escape,
		"striptags":        StripTags,
		"format_date":      FormatDate,
		"format_number":    FormatNumber,
		"normalize_tag":    NormalizeTag,
		"repair_html":      RepairHTML,
		"render_storytext": RenderStoryText,
		"default_index":    DefaultIndexAny,
		"format_rating":    FormatRating,
	}
}

// Escape HTML-entity-escapes s.
func Escape(s string) string {
	return html.EscapeString(s)
}

// StripTags removes every HTML tag from s, leaving only text content.
func StripTags(s string) string {
	tokenizer := xhtml.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	for {
		switch tokenizer.Next() {
		case xhtml.ErrorToken:
			return b.String()
		case xhtml.TextToken:
			b.Write(tokenizer.Text())
		}
	}
}

// FormatDate renders an ISO "YYYY-MM-DD" date as "Month Day, Year". Dates
// that don't parse, or the empty string, pass through unchanged.
func FormatDate(iso string) string {
	parts := strings.SplitN(iso, "-", 3)
	if len(parts) != 3 {
		return iso
	}
	year, err1 := strconv.Atoi(parts[0])
	month, err2 := strconv.Atoi(parts[1])
	day, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil || month < 1 || month > 12 {
		return iso
	}
	return fmt.Sprintf("%s %d, %d", months[month-1], day, year)
}

// FormatRating title-cases a story's rating, or renders "Unknown" when the
// story carries none. Resolves spec.md §9's ambiguous
// `story.rating|title if p is not none else "Unknown"` fragment: treat a
// missing rating as "Unknown", otherwise title-case it.
func FormatRating(rating string) string {
	if rating == "" {
		return "Unknown"
	}
	words := strings.Fields(strings.ToLower(rating))
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// FormatNumber renders n with thousands grouped by commas.
func FormatNumber(n int) string {
	negative := n < 0
	if negative {
		n = -n
	}
	digits := strconv.Itoa(n)

	var groups []string
	for len(digits) > 3 {
		cut := len(digits) - 3
		groups = append([]string{digits[cut:]}, groups...)
		digits = digits[:cut]
	}
	groups = append([]string{digits}, groups...)

	out := strings.Join(groups, ",")
	if negative {
		out = "-" + out
	}
	return out
}

// disallowedElements are stripped entirely (tag and contents) by RepairHTML;
// they have no safe rendering inside a ZIM content record.
var disallowedElements = map[atom.Atom]bool{
	atom.Script: true,
	atom.Style:  true,
	atom.Iframe: true,
	atom.Object: true,
	atom.Embed:  true,
	atom.Form:   true,
}

// RepairHTML parses s as an HTML fragment, drops disallowed elements, and
// re-serializes it — which has the side effect of balancing any unclosed or
// mismatched tags the source left behind (spec §4.7).
func RepairHTML(s string) string {
	nodes, err := xhtml.ParseFragment(strings.NewReader(s), &xhtml.Node{
		Type:     xhtml.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil {
		return StripTags(s)
	}

	var b strings.Builder
	for _, n := range nodes {
		renderRepaired(&b, n)
	}
	return b.String()
}

func renderRepaired(b *strings.Builder, n *xhtml.Node) {
	if n.Type == xhtml.ElementNode && disallowedElements[n.DataAtom] {
		return
	}
	if n.Type != xhtml.ElementNode && n.Type != xhtml.TextNode && n.Type != xhtml.DocumentNode {
		return
	}

	if n.Type == xhtml.TextNode {
		b.WriteString(html.EscapeString(n.Data))
		return
	}

	if n.Type == xhtml.ElementNode {
		b.WriteString("<" + n.Data)
		for _, attr := range n.Attr {
			b.WriteString(fmt.Sprintf(` %s="%s"`, attr.Key, html.EscapeString(attr.Val)))
		}
		b.WriteString(">")
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		renderRepaired(b, c)
	}

	if n.Type == xhtml.ElementNode && !isVoidElement(n.DataAtom) {
		b.WriteString("</" + n.Data + ">")
	}
}

var voidElements = map[atom.Atom]bool{
	atom.Area: true, atom.Base: true, atom.Br: true, atom.Col: true,
	atom.Embed: true, atom.Hr: true, atom.Img: true, atom.Input: true,
	atom.Link: true, atom.Meta: true, atom.Param: true, atom.Source: true,
	atom.Track: true, atom.Wbr: true,
}

func isVoidElement(a atom.Atom) bool {
	return voidElements[a]
}

// RenderStoryText repairs s (see RepairHTML) and adds a per-paragraph
// anchor id="p-N" to every <p>, nested or not, so the ZIM viewer can deep-link
// into a chapter.
func RenderStoryText(s string) string {
	repaired := RepairHTML(s)

	nodes, err := xhtml.ParseFragment(strings.NewReader(repaired), &xhtml.Node{
		Type:     xhtml.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil {
		return repaired
	}

	paragraph := 0
	var b strings.Builder
	for _, n := range nodes {
		renderWithAnchors(&b, n, &paragraph)
	}
	return b.String()
}

func renderWithAnchors(b *strings.Builder, n *xhtml.Node, paragraph *int) {
	if n.Type != xhtml.ElementNode && n.Type != xhtml.TextNode {
		return
	}
	if n.Type == xhtml.TextNode {
		b.WriteString(html.EscapeString(n.Data))
		return
	}

	b.WriteString("<" + n.Data)
	for _, attr := range n.Attr {
		b.WriteString(fmt.Sprintf(` %s="%s"`, attr.Key, html.EscapeString(attr.Val)))
	}
	if n.DataAtom == atom.P {
		b.WriteString(fmt.Sprintf(` id="p-%d"`, *paragraph))
		*paragraph++
	}
	b.WriteString(">")

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		renderWithAnchors(b, c, paragraph)
	}

	if !isVoidElement(n.DataAtom) {
		b.WriteString("</" + n.Data + ">")
	}
}

// NormalizeTag is the template-facing alias for internal/slug.Normalize,
// kept here so template authors have one filter namespace (spec §4.7
// references "normalize_tag (slug, see §6.3)").
func NormalizeTag(name string) string {
	return slug.Normalize(name)
}

// DefaultIndex returns list[i] if i is in range, otherwise fallback. It
// exists so templates can safely index optional slices (e.g. an author's
// Nth alt-identity box) without a prior bounds check in the template
// itself.
func DefaultIndex[T any](list []T, i int, fallback T) T {
	if i < 0 || i >= len(list) {
		return fallback
	}
	return list[i]
}

// DefaultIndexAny is the html/template-facing "default_index" filter
// (spec §4.7): html/template's FuncMap requires a concrete, non-generic
// function value, so this wraps DefaultIndex's bounds check with
// reflection to accept whatever slice type a template pipeline produces.
func DefaultIndexAny(list any, i int, fallback any) any {
	v := reflect.ValueOf(list)
	if v.Kind() != reflect.Slice || i < 0 || i >= v.Len() {
		return fallback
	}
	return v.Index(i).Interface()
}

const (
	// StoriesPerPage is the fixed page size for paginated list pages
	// (spec §4.2).
	StoriesPerPage = 20

	// paginationSpread is how many pages are shown on either side of the
	// current page in the "around-current" window.
	paginationSpread = 2
)

// PageToken is one rendered element of a pagination control: either a page
// number button or an ellipsis placeholder standing in for a run of
// skipped pages.
type PageToken struct {
	Ellipsis bool
	Page     int
}

// ComputePaginationWindow implements the "around-current" pagination
// policy (spec §4.2, §8 invariant 4) as the exact ordered sequence of
// tokens to render. The window is [max(1,cur-2), min(numPages,cur+2)];
// a single page hidden between the window and an endpoint is shown
// directly rather than collapsed, since a "…" placeholder costs the same
// space as the page number it would replace — collapsing only pays off
// once two or more pages would otherwise be hidden. This resolves
// spec.md's literal "cur>3 / cur>4" thresholds against its own worked
// invariant examples (cur=1,numPages=5 renders the full [1,2,3,4,5] with
// no ellipsis at all, which the literal threshold text alone does not
// produce); see DESIGN.md's Open Question resolutions.
//
// numPages <= 1 renders no control at all ("no page buttons render").
func ComputePaginationWindow(cur, numPages int) []PageToken {
	if numPages <= 1 {
		return nil
	}

	first := cur - paginationSpread
	if first < 1 {
		first = 1
	}
	last := cur + paginationSpread
	if last > numPages {
		last = numPages
	}

	var tokens []PageToken

	switch {
	case first <= 2:
		for p := 1; p < first; p++ {
			tokens = append(tokens, PageToken{Page: p})
		}
	case first == 3:
		tokens = append(tokens, PageToken{Page: 1}, PageToken{Page: 2})
	default:
		tokens = append(tokens, PageToken{Page: 1}, PageToken{Ellipsis: true})
	}

	for p := first; p <= last; p++ {
		tokens = append(tokens, PageToken{Page: p})
	}

	switch {
	case last >= numPages-1:
		for p := last + 1; p <= numPages; p++ {
			tokens = append(tokens, PageToken{Page: p})
		}
	case last == numPages-2:
		tokens = append(tokens, PageToken{Page: numPages - 1}, PageToken{Page: numPages})
	default:
		tokens = append(tokens, PageToken{Ellipsis: true}, PageToken{Page: numPages})
	}

	return tokens
}
