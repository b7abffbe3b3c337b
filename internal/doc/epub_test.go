package doc

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const epubContainer = `<?xml version="1.0"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`

const epubPackage = `<?xml version="1.0" encoding="UTF-8"?>
<package xmlns="http://www.idpf.org/2007/opf" version="2.0" unique-identifier="id">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
    <dc:title>Cookbook</dc:title>
    <dc:identifier id="id">cookbook</dc:identifier>
  </metadata>
  <manifest>
    <item id="ncx" href="toc.ncx" media-type="application/x-dtbncx+xml"/>
    <item id="bread" href="bread.xhtml" media-type="application/xhtml+xml"/>
    <item id="soup" href="soup.xhtml" media-type="application/xhtml+xml"/>
  </manifest>
  <spine toc="ncx">
    <itemref idref="bread"/>
    <itemref idref="soup"/>
  </spine>
</package>`

const epubNCX = `<?xml version="1.0" encoding="UTF-8"?>
<ncx xmlns="http://www.daisy.org/z3986/2005/ncx/" version="2005-1">
  <navMap>
    <navPoint id="p1" playOrder="1">
      <navLabel><text>Breads</text></navLabel>
      <content src="bread.xhtml"/>
      <navPoint id="p2" playOrder="2">
        <navLabel><text>Bread</text></navLabel>
        <content src="bread.xhtml#bread"/>
      </navPoint>
    </navPoint>
    <navPoint id="p3" playOrder="3">
      <navLabel><text>Soup</text></navLabel>
      <content src="soup.xhtml#soup"/>
    </navPoint>
  </navMap>
</ncx>`

const epubBread = `<?xml version="1.0" encoding="UTF-8"?>
<html xmlns="http://www.w3.org/1999/xhtml"><head><title>Bread</title></head>
<body><section>
<h1 id="bread">Bread</h1>
<table>
  <tr><th>amount</th><th>unit</th><th>ingredient</th><th>Protein</th></tr>
  <tr><td>1</td><td>cup</td><td><a href="https://foods.example/flour">flour</a></td><td>10</td></tr>
  <tr><td></td><td></td><td></td><td>10</td></tr>
</table>
</section></body></html>`

const epubSoup = `<?xml version="1.0" encoding="UTF-8"?>
<html xmlns="http://www.w3.org/1999/xhtml"><head><title>Soup</title></head>
<body><h1 id="soup">Soup</h1><p>Simmer.</p></body></html>`

func writeEPUB(t *testing.T, files map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cookbook.epub")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	w, err := zw.CreateHeader(&zip.FileHeader{Name: "mimetype", Method: zip.Store})
	if err != nil {
		t.Fatalf("CreateHeader: %v", err)
	}
	if _, err := w.Write([]byte("application/epub+zip")); err != nil {
		t.Fatalf("write mimetype: %v", err)
	}
	for _, name := range []string{"META-INF/container.xml", "content.opf", "toc.ncx", "bread.xhtml", "soup.xhtml"} {
		content, ok := files[name]
		if !ok {
			continue
		}
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("Create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return path
}

func cookbookEPUB() map[string]string {
	return map[string]string{
		"META-INF/container.xml": epubContainer,
		"content.opf":            epubPackage,
		"toc.ncx":                epubNCX,
		"bread.xhtml":            epubBread,
		"soup.xhtml":             epubSoup,
	}
}

func TestEPUBBody(t *testing.T) {
	h, err := Open(writeEPUB(t, cookbookEPUB()))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer h.Close()

	body := h.Body()
	want := []Kind{KindTableOfContents, KindParagraph, KindTable, KindPageBreak, KindParagraph, KindParagraph}
	if body.NumChildren() != len(want) {
		t.Fatalf("NumChildren() = %d, want %d", body.NumChildren(), len(want))
	}
	for i, k := range want {
		if got := body.Child(i).Kind(); got != k {
			t.Errorf("child %d: kind %v, want %v", i, got, k)
		}
	}

	toc := body.Child(0).(TableOfContents)
	if toc.NumChildren() != 3 {
		t.Fatalf("toc entries = %d, want 3", toc.NumChildren())
	}
	entry := toc.Child(1).(Paragraph)
	if entry.Text() != "Bread" || entry.LinkURL() != "bread.xhtml#bread" {
		t.Errorf("toc entry = (%q, %q)", entry.Text(), entry.LinkURL())
	}

	title := body.Child(1).(Paragraph)
	if title.Heading() != Heading1 || title.Text() != "Bread" {
		t.Errorf("title = (%v, %q)", title.Heading(), title.Text())
	}

	tbl := body.Child(2).(Table)
	if tbl.NumRows() != 3 {
		t.Fatalf("NumRows() = %d, want 3", tbl.NumRows())
	}
	cell := tbl.Row(1).Cell(2)
	if cell.Text() != "flour" || cell.LinkURL() != "https://foods.example/flour" {
		t.Errorf("cell = (%q, %q)", cell.Text(), cell.LinkURL())
	}
}

func TestEPUBIsReadOnly(t *testing.T) {
	h, err := Open(writeEPUB(t, cookbookEPUB()))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer h.Close()

	tbl := h.Body().Child(2).(Table)
	if _, err := tbl.DuplicateRow(1, 2); err != nil {
		t.Fatalf("DuplicateRow: %v", err)
	}
	if tbl.NumRows() != 4 {
		t.Errorf("NumRows() = %d, want 4", tbl.NumRows())
	}
	if err := h.Save(); !errors.Is(err, ErrReadOnly) {
		t.Errorf("Save() = %v, want ErrReadOnly", err)
	}
}

func TestEPUBWithoutNCX(t *testing.T) {
	files := cookbookEPUB()
	delete(files, "toc.ncx")
	files["content.opf"] = `<?xml version="1.0" encoding="UTF-8"?>
<package xmlns="http://www.idpf.org/2007/opf" version="2.0">
  <manifest>
    <item id="bread" href="bread.xhtml" media-type="application/xhtml+xml"/>
  </manifest>
  <spine><itemref idref="bread"/></spine>
</package>`

	h, err := Open(writeEPUB(t, files))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer h.Close()

	body := h.Body()
	for i := 0; i < body.NumChildren(); i++ {
		if body.Child(i).Kind() == KindTableOfContents {
			t.Fatalf("child %d is a table of contents", i)
		}
	}
	if body.NumChildren() != 2 {
		t.Errorf("NumChildren() = %d, want 2", body.NumChildren())
	}
}

func TestEPUBOpenInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.epub")
	if err := os.WriteFile(path, []byte("not a zip"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Open(path); err == nil {
		t.Fatal("expected error for a file that is not an EPUB")
	}
}
