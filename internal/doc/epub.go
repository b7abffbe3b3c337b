package doc

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/taylorskalyo/goreader/epub"
)

// EPUBFormat implements Format for EPUB books.
//
// The NCX navigation map becomes the table of contents. Each spine document
// is read like an HTML body and consecutive documents are separated by a
// page break. EPUB books are read-only.
type EPUBFormat struct{}

func init() {
	Register(&EPUBFormat{})
}

func (f *EPUBFormat) Name() string         { return "EPUB" }
func (f *EPUBFormat) Extensions() []string { return []string{".epub"} }

func (f *EPUBFormat) Open(filename string) (Host, error) {
	rc, err := epub.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("open epub %s: %w", filename, err)
	}
	defer rc.Close()

	if len(rc.Rootfiles) == 0 {
		return nil, fmt.Errorf("open epub %s: no rootfiles", filename)
	}
	book := rc.Rootfiles[0]

	h := &epubHost{MemoryHost: NewMemoryHost()}
	toc, err := readNCX(book)
	if err != nil {
		return nil, fmt.Errorf("open epub %s: %w", filename, err)
	}
	if toc != nil {
		h.Append(toc)
	}

	chapters := 0
	for _, ref := range book.Spine.Itemrefs {
		if ref.Item == nil {
			continue
		}
		r, err := ref.Item.Open()
		if err != nil {
			continue
		}
		d, err := goquery.NewDocumentFromReader(r)
		r.Close()
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", ref.Item.HREF, err)
		}

		if chapters > 0 {
			h.Append(NewPageBreak())
		}
		chapters++
		body := d.Find("body").First()
		for _, n := range bodyNodes(body) {
			h.Append(snapshot(wrapHTML(body.FindNodes(n))))
		}
	}
	return h, nil
}

type epubHost struct {
	*MemoryHost
}

func (h *epubHost) Save() error { return ErrReadOnly }

type ncx struct {
	NavMap struct {
		NavPoints []navPoint `xml:"navPoint"`
	} `xml:"navMap"`
}

type navPoint struct {
	Label struct {
		Text string `xml:"text"`
	} `xml:"navLabel"`
	Content struct {
		Src string `xml:"src,attr"`
	} `xml:"content"`
	Children []navPoint `xml:"navPoint"`
}

// readNCX returns the book's navigation map flattened into one table of
// contents, or nil when the manifest lists no NCX document.
func readNCX(book *epub.Rootfile) (*MemoryTOC, error) {
	for i := range book.Manifest.Items {
		item := &book.Manifest.Items[i]
		if item.MediaType != "application/x-dtbncx+xml" {
			continue
		}
		r, err := item.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", item.HREF, err)
		}
		data, err := io.ReadAll(r)
		r.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", item.HREF, err)
		}

		var nav ncx
		if err := xml.Unmarshal(data, &nav); err != nil {
			return nil, fmt.Errorf("parse %s: %w", item.HREF, err)
		}
		toc := NewTableOfContents()
		flattenNavPoints(toc, nav.NavMap.NavPoints)
		return toc, nil
	}
	return nil, nil
}

func flattenNavPoints(toc *MemoryTOC, points []navPoint) {
	for _, np := range points {
		label := condense(np.Label.Text)
		toc.children = append(toc.children, NewParagraph(label).WithLink(strings.TrimSpace(np.Content.Src)))
		flattenNavPoints(toc, np.Children)
	}
}

// snapshot copies el into memory elements so the host no longer depends on
// the parsed chapter.
func snapshot(el Element) Element {
	switch el.Kind() {
	case KindParagraph:
		if p, ok := el.(Paragraph); ok {
			return NewHeading(p.Heading(), p.Text()).WithLink(p.LinkURL())
		}
	case KindTable:
		if t, ok := el.(Table); ok {
			out := NewTable()
			for i := 0; i < t.NumRows(); i++ {
				row := t.Row(i)
				mr := NewRow()
				for j := 0; j < row.NumCells(); j++ {
					c := row.Cell(j)
					mr.cells = append(mr.cells, NewCell(c.Text(), c.LinkURL()))
				}
				out.rows = append(out.rows, mr)
			}
			return out
		}
	case KindTableOfContents:
		if t, ok := el.(TableOfContents); ok {
			out := NewTableOfContents()
			for i := 0; i < t.NumChildren(); i++ {
				out.children = append(out.children, snapshot(t.Child(i)))
			}
			return out
		}
	case KindPageBreak:
		return NewPageBreak()
	}
	return &MemoryOther{}
}
