package doc

import (
	"fmt"

	"github.com/google/uuid"
)

// MemoryHost is a document held entirely in memory. It backs the Markdown
// format and doubles as a fake host in tests.
type MemoryHost struct {
	children []Element
	ranges   []*memoryRange
}

// NewMemoryHost returns a host whose body holds elements.
func NewMemoryHost(elements ...Element) *MemoryHost {
	return &MemoryHost{children: elements}
}

func (h *MemoryHost) Body() Container { return memoryBody{h} }

// Append adds el to the end of the body.
func (h *MemoryHost) Append(el Element) {
	h.children = append(h.children, el)
}

// RemoveChild deletes the body element at index i.
func (h *MemoryHost) RemoveChild(i int) {
	if i < 0 || i >= len(h.children) {
		return
	}
	h.children = append(h.children[:i], h.children[i+1:]...)
}

func (h *MemoryHost) NamedRanges(name string) []NamedRange {
	var out []NamedRange
	for _, r := range h.ranges {
		if r.name == name {
			out = append(out, r)
		}
	}
	return out
}

func (h *MemoryHost) AddNamedRange(name string, el Element) (NamedRange, error) {
	if el == nil {
		return nil, fmt.Errorf("add named range %q: nil element", name)
	}
	r := &memoryRange{host: h, id: uuid.NewString(), name: name, el: el}
	h.ranges = append(h.ranges, r)
	return r, nil
}

func (h *MemoryHost) NamedRangeByID(id string) (NamedRange, bool) {
	for _, r := range h.ranges {
		if r.id == id {
			return r, true
		}
	}
	return nil, false
}

func (h *MemoryHost) Save() error  { return nil }
func (h *MemoryHost) Close() error { return nil }

func (h *MemoryHost) contains(el Element) bool {
	for _, c := range h.children {
		if c == el {
			return true
		}
	}
	return false
}

func (h *MemoryHost) removeRange(r *memoryRange) {
	for i, cur := range h.ranges {
		if cur == r {
			h.ranges = append(h.ranges[:i], h.ranges[i+1:]...)
			return
		}
	}
}

type memoryBody struct{ h *MemoryHost }

func (b memoryBody) NumChildren() int { return len(b.h.children) }
func (b memoryBody) Child(i int) Element {
	return b.h.children[i]
}

type memoryRange struct {
	host *MemoryHost
	id   string
	name string
	el   Element
}

func (r *memoryRange) ID() string   { return r.id }
func (r *memoryRange) Name() string { return r.name }

// Elements resolves to nothing once the element has left the body.
func (r *memoryRange) Elements() []Element {
	if !r.host.contains(r.el) {
		return nil
	}
	return []Element{r.el}
}

func (r *memoryRange) Remove() { r.host.removeRange(r) }

// MemoryParagraph is an in-memory Paragraph.
type MemoryParagraph struct {
	text    string
	link    string
	heading Heading
}

// NewParagraph returns a body-text paragraph.
func NewParagraph(text string) *MemoryParagraph {
	return &MemoryParagraph{text: text}
}

// NewHeading returns a heading paragraph.
func NewHeading(level Heading, text string) *MemoryParagraph {
	return &MemoryParagraph{text: text, heading: level}
}

// WithLink sets the paragraph link and returns p.
func (p *MemoryParagraph) WithLink(url string) *MemoryParagraph {
	p.link = url
	return p
}

func (p *MemoryParagraph) Kind() Kind       { return KindParagraph }
func (p *MemoryParagraph) Text() string     { return p.text }
func (p *MemoryParagraph) LinkURL() string  { return p.link }
func (p *MemoryParagraph) Heading() Heading { return p.heading }

// MemoryTOC is an in-memory TableOfContents.
type MemoryTOC struct {
	children []Element
}

// NewTableOfContents returns a table of contents holding children.
func NewTableOfContents(children ...Element) *MemoryTOC {
	return &MemoryTOC{children: children}
}

func (t *MemoryTOC) Kind() Kind          { return KindTableOfContents }
func (t *MemoryTOC) NumChildren() int    { return len(t.children) }
func (t *MemoryTOC) Child(i int) Element { return t.children[i] }

// MemoryPageBreak is an in-memory page break.
type MemoryPageBreak struct{}

func NewPageBreak() *MemoryPageBreak { return &MemoryPageBreak{} }

func (*MemoryPageBreak) Kind() Kind { return KindPageBreak }

// MemoryOther stands in for elements the recipe code ignores.
type MemoryOther struct{}

func (*MemoryOther) Kind() Kind { return KindOther }

// MemoryTable is an in-memory Table.
type MemoryTable struct {
	rows []*MemoryRow
}

// NewTable returns a table made of rows.
func NewTable(rows ...*MemoryRow) *MemoryTable {
	return &MemoryTable{rows: rows}
}

func (t *MemoryTable) Kind() Kind    { return KindTable }
func (t *MemoryTable) NumRows() int  { return len(t.rows) }
func (t *MemoryTable) Row(i int) Row { return t.rows[i] }

func (t *MemoryTable) DuplicateRow(src, at int) (Row, error) {
	if src < 0 || src >= len(t.rows) {
		return nil, fmt.Errorf("duplicate row %d: table has %d rows", src, len(t.rows))
	}
	if at < 0 || at > len(t.rows) {
		return nil, fmt.Errorf("insert row at %d: table has %d rows", at, len(t.rows))
	}
	orig := t.rows[src]
	cp := &MemoryRow{cells: make([]*MemoryCell, len(orig.cells))}
	for i, c := range orig.cells {
		cc := *c
		cp.cells[i] = &cc
	}
	t.rows = append(t.rows, nil)
	copy(t.rows[at+1:], t.rows[at:])
	t.rows[at] = cp
	return cp, nil
}

func (t *MemoryTable) RemoveRow(i int) error {
	if i < 0 || i >= len(t.rows) {
		return fmt.Errorf("remove row %d: table has %d rows", i, len(t.rows))
	}
	t.rows = append(t.rows[:i], t.rows[i+1:]...)
	return nil
}

// MemoryRow is an in-memory Row.
type MemoryRow struct {
	cells []*MemoryCell
}

// NewRow returns a row made of cells.
func NewRow(cells ...*MemoryCell) *MemoryRow {
	return &MemoryRow{cells: cells}
}

// TextRow returns a row of unlinked cells.
func TextRow(texts ...string) *MemoryRow {
	r := &MemoryRow{cells: make([]*MemoryCell, len(texts))}
	for i, s := range texts {
		r.cells[i] = &MemoryCell{text: s}
	}
	return r
}

func (r *MemoryRow) NumCells() int   { return len(r.cells) }
func (r *MemoryRow) Cell(i int) Cell { return r.cells[i] }

// MemoryCell is an in-memory Cell.
type MemoryCell struct {
	text string
	link string
}

// NewCell returns a cell; link may be "".
func NewCell(text, link string) *MemoryCell {
	return &MemoryCell{text: text, link: link}
}

func (c *MemoryCell) Text() string          { return c.text }
func (c *MemoryCell) SetText(s string)      { c.text = s }
func (c *MemoryCell) LinkURL() string       { return c.link }
func (c *MemoryCell) SetLinkURL(url string) { c.link = url }
