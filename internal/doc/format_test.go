package doc

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestOpenUnsupported(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "cookbook.docx"))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Open() error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestOpenMissingFile(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "missing.md")); err == nil {
		t.Error("expected error")
	}
}

func TestSupportedFormats(t *testing.T) {
	formats := SupportedFormats()
	want := map[string]bool{
		"HTML (.html, .htm)":        false,
		"Markdown (.md, .markdown)": false,
		"EPUB (.epub)":              false,
	}
	for _, f := range formats {
		if _, ok := want[f]; ok {
			want[f] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("%s not registered: %v", name, formats)
		}
	}
}

func TestKindString(t *testing.T) {
	tests := map[Kind]string{
		KindOther:           "other",
		KindParagraph:       "paragraph",
		KindTable:           "table",
		KindTableOfContents: "table of contents",
		KindPageBreak:       "page break",
	}
	for k, want := range tests {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", int(k), got, want)
		}
	}
}
