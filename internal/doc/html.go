package doc

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"golang.org/x/net/html"
)

// Named markers are stored on the element itself so they survive a
// save/open cycle.
const (
	rangeNameAttr = "data-range-name"
	rangeIDAttr   = "data-range-id"
)

var spaceRe = regexp.MustCompile(`\s+`)

// HTMLFormat implements Format for HTML documents.
//
// Body children map to elements by tag: p and h1-h6 are paragraphs, table is
// a table, nav (or any element with class "toc") is the table of contents,
// and hr (or class "page-break") is a page break. Layout wrappers (main,
// article, section, header, footer and div) are transparent: their children
// are read as if they sat directly in the body. Entries of a table of
// contents may be direct children or the items of a ul or ol list.
type HTMLFormat struct{}

func init() {
	Register(&HTMLFormat{})
}

func (f *HTMLFormat) Name() string         { return "HTML" }
func (f *HTMLFormat) Extensions() []string { return []string{".html", ".htm"} }

// Open locks filename for writing and parses it. The lock is held until
// Close.
func (f *HTMLFormat) Open(filename string) (Host, error) {
	lock := flock.New(filename + ".lock")
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", filename, err)
	}
	if !ok {
		return nil, fmt.Errorf("%s: %w", filename, ErrLocked)
	}

	h, err := openHTML(filename)
	if err != nil {
		_ = lock.Unlock()
		return nil, err
	}
	h.lock = lock
	return h, nil
}

func openHTML(filename string) (*HTMLHost, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	d, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}
	return &HTMLHost{path: filename, doc: d}, nil
}

// HTMLHost is an HTML file opened for editing.
type HTMLHost struct {
	path string
	doc  *goquery.Document
	lock *flock.Flock
}

func (h *HTMLHost) Body() Container {
	body := h.doc.Find("body").First()
	return htmlContainer{items: body.FindNodes(bodyNodes(body)...)}
}

var wrapperTags = map[string]bool{
	"main": true, "article": true, "section": true,
	"header": true, "footer": true, "div": true,
}

// bodyNodes lists the children of sel, replacing every wrapper element by
// its own children, recursively.
func bodyNodes(sel *goquery.Selection) []*html.Node {
	var out []*html.Node
	sel.Children().Each(func(_ int, c *goquery.Selection) {
		if isWrapper(c) {
			out = append(out, bodyNodes(c)...)
			return
		}
		out = append(out, c.Nodes...)
	})
	return out
}

func isWrapper(s *goquery.Selection) bool {
	if s.HasClass("toc") || s.HasClass("page-break") || s.Children().Length() == 0 {
		return false
	}
	return wrapperTags[goquery.NodeName(s)]
}

// tocEntries returns the children of a table of contents, with ul and ol
// lists replaced by their items.
func tocEntries(s *goquery.Selection) *goquery.Selection {
	var nodes []*html.Node
	s.Children().Each(func(_ int, c *goquery.Selection) {
		switch goquery.NodeName(c) {
		case "ul", "ol":
			nodes = append(nodes, c.ChildrenFiltered("li").Nodes...)
		default:
			nodes = append(nodes, c.Nodes...)
		}
	})
	return s.FindNodes(nodes...)
}

func (h *HTMLHost) NamedRanges(name string) []NamedRange {
	var out []NamedRange
	seen := make(map[string]bool)
	h.doc.Find("[" + rangeNameAttr + "]").Each(func(_ int, s *goquery.Selection) {
		if s.AttrOr(rangeNameAttr, "") != name {
			return
		}
		id := s.AttrOr(rangeIDAttr, "")
		if id == "" || seen[id] {
			return
		}
		seen[id] = true
		out = append(out, &htmlRange{host: h, id: id, name: name})
	})
	return out
}

func (h *HTMLHost) AddNamedRange(name string, el Element) (NamedRange, error) {
	he, ok := el.(htmlElement)
	if !ok {
		return nil, fmt.Errorf("add named range %q: element does not belong to this document", name)
	}
	id := uuid.NewString()
	sel := he.selection()
	sel.SetAttr(rangeNameAttr, name)
	sel.SetAttr(rangeIDAttr, id)
	return &htmlRange{host: h, id: id, name: name}, nil
}

func (h *HTMLHost) NamedRangeByID(id string) (NamedRange, bool) {
	sel := h.byID(id)
	if sel.Length() == 0 {
		return nil, false
	}
	return &htmlRange{host: h, id: id, name: sel.First().AttrOr(rangeNameAttr, "")}, true
}

func (h *HTMLHost) byID(id string) *goquery.Selection {
	return h.doc.Find("["+rangeIDAttr+"]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.AttrOr(rangeIDAttr, "") == id
	})
}

// Save renders the document to a temporary file and renames it over the
// original.
func (h *HTMLHost) Save() error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(h.path); err == nil {
		mode = info.Mode().Perm()
	}

	var buf bytes.Buffer
	for _, n := range h.doc.Nodes {
		if err := html.Render(&buf, n); err != nil {
			return fmt.Errorf("render %s: %w", h.path, err)
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(h.path), "."+filepath.Base(h.path)+".*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Chmod(tmp.Name(), mode); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), h.path)
}

// Close releases the document lock.
func (h *HTMLHost) Close() error {
	if h.lock == nil {
		return nil
	}
	err := h.lock.Unlock()
	h.lock = nil
	return err
}

type htmlRange struct {
	host *HTMLHost
	id   string
	name string
}

func (r *htmlRange) ID() string   { return r.id }
func (r *htmlRange) Name() string { return r.name }

func (r *htmlRange) Elements() []Element {
	var out []Element
	r.host.byID(r.id).Each(func(_ int, s *goquery.Selection) {
		out = append(out, wrapHTML(s))
	})
	return out
}

func (r *htmlRange) Remove() {
	sel := r.host.byID(r.id)
	sel.RemoveAttr(rangeIDAttr)
	sel.RemoveAttr(rangeNameAttr)
}

type htmlElement interface {
	Element
	selection() *goquery.Selection
}

func wrapHTML(s *goquery.Selection) Element {
	switch {
	case s.HasClass("toc"):
		return newHTMLTOC(s)
	case s.HasClass("page-break"):
		return htmlPageBreak{sel: s}
	}
	switch tag := goquery.NodeName(s); tag {
	case "p", "li":
		return htmlParagraph{sel: s}
	case "h1", "h2", "h3", "h4", "h5", "h6":
		return htmlParagraph{sel: s, heading: Heading(tag[1] - '0')}
	case "table":
		return htmlTable{sel: s}
	case "nav":
		return newHTMLTOC(s)
	case "hr":
		return htmlPageBreak{sel: s}
	default:
		return htmlOther{sel: s}
	}
}

// htmlContainer exposes items, in order, as child elements.
type htmlContainer struct{ items *goquery.Selection }

func (c htmlContainer) NumChildren() int { return c.items.Length() }
func (c htmlContainer) Child(i int) Element {
	return wrapHTML(c.items.Eq(i))
}

type htmlTOC struct {
	htmlContainer
	sel *goquery.Selection
}

func newHTMLTOC(s *goquery.Selection) htmlTOC {
	return htmlTOC{htmlContainer: htmlContainer{items: tocEntries(s)}, sel: s}
}

func (htmlTOC) Kind() Kind                      { return KindTableOfContents }
func (t htmlTOC) selection() *goquery.Selection { return t.sel }

type htmlPageBreak struct{ sel *goquery.Selection }

func (htmlPageBreak) Kind() Kind                      { return KindPageBreak }
func (p htmlPageBreak) selection() *goquery.Selection { return p.sel }

type htmlOther struct{ sel *goquery.Selection }

func (htmlOther) Kind() Kind                      { return KindOther }
func (o htmlOther) selection() *goquery.Selection { return o.sel }

type htmlParagraph struct {
	sel     *goquery.Selection
	heading Heading
}

func (htmlParagraph) Kind() Kind                      { return KindParagraph }
func (p htmlParagraph) selection() *goquery.Selection { return p.sel }
func (p htmlParagraph) Text() string                  { return condense(p.sel.Text()) }
func (p htmlParagraph) LinkURL() string               { return firstHref(p.sel) }
func (p htmlParagraph) Heading() Heading              { return p.heading }

type htmlTable struct{ sel *goquery.Selection }

func (htmlTable) Kind() Kind                      { return KindTable }
func (t htmlTable) selection() *goquery.Selection { return t.sel }

// rows is recomputed on every call since edits change the tree.
func (t htmlTable) rows() *goquery.Selection {
	if t.sel.Length() == 0 {
		return t.sel
	}
	var nodes []*html.Node
	for c := t.sel.Nodes[0].FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.Data {
		case "tr":
			nodes = append(nodes, c)
		case "thead", "tbody", "tfoot":
			for r := c.FirstChild; r != nil; r = r.NextSibling {
				if r.Type == html.ElementNode && r.Data == "tr" {
					nodes = append(nodes, r)
				}
			}
		}
	}
	return t.sel.FindNodes(nodes...)
}

func (t htmlTable) NumRows() int  { return t.rows().Length() }
func (t htmlTable) Row(i int) Row { return htmlRow{sel: t.rows().Eq(i)} }

func (t htmlTable) DuplicateRow(src, at int) (Row, error) {
	rows := t.rows()
	n := rows.Length()
	if src < 0 || src >= n {
		return nil, fmt.Errorf("duplicate row %d: table has %d rows", src, n)
	}
	if at < 0 || at > n {
		return nil, fmt.Errorf("insert row at %d: table has %d rows", at, n)
	}
	cp := rows.Eq(src).Clone()
	if at == n {
		rows.Eq(n - 1).AfterSelection(cp)
	} else {
		rows.Eq(at).BeforeSelection(cp)
	}
	return htmlRow{sel: cp}, nil
}

func (t htmlTable) RemoveRow(i int) error {
	rows := t.rows()
	if i < 0 || i >= rows.Length() {
		return fmt.Errorf("remove row %d: table has %d rows", i, rows.Length())
	}
	rows.Eq(i).Remove()
	return nil
}

type htmlRow struct{ sel *goquery.Selection }

func (r htmlRow) cells() *goquery.Selection { return r.sel.ChildrenFiltered("td, th") }
func (r htmlRow) NumCells() int             { return r.cells().Length() }
func (r htmlRow) Cell(i int) Cell           { return htmlCell{sel: r.cells().Eq(i)} }

type htmlCell struct{ sel *goquery.Selection }

func (c htmlCell) Text() string          { return condense(c.sel.Text()) }
func (c htmlCell) LinkURL() string       { return firstHref(c.sel) }
func (c htmlCell) SetText(s string)      { c.render(s, c.LinkURL()) }
func (c htmlCell) SetLinkURL(url string) { c.render(c.Text(), url) }

// render replaces the cell content with text, wrapped in an anchor when
// link is set.
func (c htmlCell) render(text, link string) {
	if link == "" {
		c.sel.SetText(text)
		return
	}
	c.sel.SetHtml("<a></a>")
	a := c.sel.ChildrenFiltered("a")
	a.SetAttr("href", link)
	a.SetText(text)
}

func firstHref(s *goquery.Selection) string {
	if goquery.NodeName(s) == "a" {
		if href, ok := s.Attr("href"); ok {
			return href
		}
	}
	return s.Find("a[href]").First().AttrOr("href", "")
}

func condense(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}
