package doc

import (
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownFormat implements Format for Markdown files.
//
// Headings, paragraphs, GFM tables and thematic breaks (page breaks) map to
// their document counterparts. A list whose every item is a link is a table
// of contents. Markdown documents are read-only: edits apply in memory but
// Save returns ErrReadOnly.
type MarkdownFormat struct{}

func init() {
	Register(&MarkdownFormat{})
}

func (f *MarkdownFormat) Name() string         { return "Markdown" }
func (f *MarkdownFormat) Extensions() []string { return []string{".md", ".markdown"} }

func (f *MarkdownFormat) Open(filename string) (Host, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return ParseMarkdown(data), nil
}

type markdownHost struct {
	*MemoryHost
}

func (h *markdownHost) Save() error { return ErrReadOnly }

// ParseMarkdown builds a read-only host from Markdown source.
func ParseMarkdown(source []byte) Host {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	root := md.Parser().Parse(text.NewReader(source))

	h := &markdownHost{MemoryHost: NewMemoryHost()}
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		h.Append(convertMarkdown(n, source))
	}
	return h
}

func convertMarkdown(n ast.Node, source []byte) Element {
	switch n := n.(type) {
	case *ast.Heading:
		s, link := inlineText(n, source)
		return NewHeading(Heading(n.Level), s).WithLink(link)
	case *ast.Paragraph:
		s, link := inlineText(n, source)
		return NewParagraph(s).WithLink(link)
	case *ast.ThematicBreak:
		return NewPageBreak()
	case *east.Table:
		return convertMarkdownTable(n, source)
	case *ast.List:
		if toc, ok := convertMarkdownTOC(n, source); ok {
			return toc
		}
	}
	return &MemoryOther{}
}

// convertMarkdownTable reads the header and body rows. GFM pads short rows
// to the header width.
func convertMarkdownTable(t *east.Table, source []byte) *MemoryTable {
	out := NewTable()
	for r := t.FirstChild(); r != nil; r = r.NextSibling() {
		row := NewRow()
		for c := r.FirstChild(); c != nil; c = c.NextSibling() {
			s, link := inlineText(c, source)
			row.cells = append(row.cells, NewCell(s, link))
		}
		out.rows = append(out.rows, row)
	}
	return out
}

func convertMarkdownTOC(l *ast.List, source []byte) (*MemoryTOC, bool) {
	toc := NewTableOfContents()
	for item := l.FirstChild(); item != nil; item = item.NextSibling() {
		s, link := inlineText(item, source)
		if link == "" {
			return nil, false
		}
		toc.children = append(toc.children, NewParagraph(s).WithLink(link))
	}
	return toc, len(toc.children) > 0
}

// inlineText flattens n to plain text and returns the first link target
// found inside it.
func inlineText(n ast.Node, source []byte) (string, string) {
	var b strings.Builder
	var link string
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch c := c.(type) {
		case *ast.Text:
			b.Write(c.Segment.Value(source))
			if c.SoftLineBreak() || c.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(c.Value)
		case *ast.Link:
			if link == "" {
				link = string(c.Destination)
			}
		case *ast.AutoLink:
			if link == "" {
				link = string(c.URL(source))
			}
			b.Write(c.Label(source))
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return condense(b.String()), link
}
