// Package doc models the document a recipe sidebar is attached to.
//
// The recipe code never touches a concrete file format. It sees a document
// through the small set of capabilities below: walk the body, read and write
// table cells, and register named markers that can be resolved back to an
// element after the document has been edited.
package doc

import "errors"

var (
	// ErrReadOnly is returned by Save on hosts that cannot write back.
	ErrReadOnly = errors.New("document is read-only")
	// ErrUnsupportedFormat is returned by Open for unknown extensions.
	ErrUnsupportedFormat = errors.New("unsupported document format")
	// ErrLocked is returned when another process holds the document.
	ErrLocked = errors.New("document is locked by another process")
)

// Kind identifies the type of a body element.
type Kind int

const (
	KindOther Kind = iota
	KindParagraph
	KindTable
	KindTableOfContents
	KindPageBreak
)

func (k Kind) String() string {
	switch k {
	case KindParagraph:
		return "paragraph"
	case KindTable:
		return "table"
	case KindTableOfContents:
		return "table of contents"
	case KindPageBreak:
		return "page break"
	default:
		return "other"
	}
}

// Heading is a paragraph heading level. HeadingNormal is body text.
type Heading int

const (
	HeadingNormal Heading = iota
	Heading1
	Heading2
	Heading3
	Heading4
	Heading5
	Heading6
)

// Host is an open document.
type Host interface {
	Body() Container

	// NamedRanges returns every marker registered under name.
	NamedRanges(name string) []NamedRange
	// AddNamedRange registers a new marker for el under name.
	AddNamedRange(name string, el Element) (NamedRange, error)
	// NamedRangeByID resolves a marker id.
	NamedRangeByID(id string) (NamedRange, bool)

	Save() error
	Close() error
}

// Container is an ordered list of elements.
type Container interface {
	NumChildren() int
	Child(i int) Element
}

// Element is a node of the document body.
type Element interface {
	Kind() Kind
}

// Paragraph is a run of text, optionally a heading, optionally linked.
type Paragraph interface {
	Element
	Text() string
	// LinkURL returns the paragraph's link target or "".
	LinkURL() string
	Heading() Heading
}

// TableOfContents lists headings and the locations they link to.
type TableOfContents interface {
	Element
	Container
}

// Table is a grid of rows.
type Table interface {
	Element
	NumRows() int
	Row(i int) Row
	// DuplicateRow inserts a copy of row src so that it ends up at index at,
	// shifting the row previously at that index down. It returns the copy.
	DuplicateRow(src, at int) (Row, error)
	RemoveRow(i int) error
}

// Row is one table row.
type Row interface {
	NumCells() int
	Cell(i int) Cell
}

// Cell is one table cell.
type Cell interface {
	Text() string
	SetText(s string)
	LinkURL() string
	// SetLinkURL links the whole cell to url; "" removes the link.
	SetLinkURL(url string)
}

// NamedRange is a marker attached to document elements.
type NamedRange interface {
	ID() string
	Name() string
	// Elements returns the elements the marker currently resolves to.
	Elements() []Element
	Remove()
}

// ClearRow empties every cell of r, dropping links.
func ClearRow(r Row) {
	for i := 0; i < r.NumCells(); i++ {
		c := r.Cell(i)
		c.SetLinkURL("")
		c.SetText("")
	}
}
