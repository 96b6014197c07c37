package ingest

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestParseDOCX(t *testing.T) {
	raw := buildDOCX(t, `<w:document><w:body>`+
		`<w:p><w:r><w:t>الفصل الأول</w:t></w:r></w:p>`+
		`<w:p><w:r><w:t>ذهب الولد</w:t></w:r><w:r><w:t xml:space="preserve"> إلى المدرسة.</w:t></w:r></w:p>`+
		`</w:body></w:document>`)

	doc, err := Parse("chapter.docx", raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := "الفصل الأول\n\nذهب الولد إلى المدرسة."
	if doc.Text != want {
		t.Errorf("Text = %q, want %q", doc.Text, want)
	}
	if doc.Title != "chapter" {
		t.Errorf("Title = %q, want chapter", doc.Title)
	}
}

func TestParseDOCX_MissingDocument(t *testing.T) {
	var b bytes.Buffer
	zw := zip.NewWriter(&b)
	if _, err := zw.Create("word/styles.xml"); err != nil {
		t.Fatal(err)
	}
	zw.Close()

	if _, err := Parse("x.docx", b.Bytes()); err == nil {
		t.Fatal("expected error for docx without document.xml")
	}
}

func TestParseText(t *testing.T) {
	raw := []byte("\xef\xbb\xbfالسطر   الأول\r\n\r\n\r\n  السطر الثاني  \n")
	doc, err := Parse("notes.md", raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if want := "السطر الأول\n\nالسطر الثاني"; doc.Text != want {
		t.Errorf("Text = %q, want %q", doc.Text, want)
	}
}

func TestParseText_InvalidUTF8(t *testing.T) {
	if _, err := Parse("bad.txt", []byte{0xff, 0xfe, 0x00}); err == nil {
		t.Fatal("expected error for invalid UTF-8")
	}
}

func TestParsePDF_Invalid(t *testing.T) {
	if _, err := Parse("broken.pdf", []byte("not a pdf")); err == nil {
		t.Fatal("expected error for invalid pdf")
	}
}

func TestParseUnsupported(t *testing.T) {
	_, err := Parse("image.png", []byte{1, 2, 3})
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "draft.txt")
	if err := os.WriteFile(path, []byte("مرحبا بالعالم.\n"), 0o644); err != nil {
		t.Fatalf("write sample: %v", err)
	}
	doc, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if doc.Text != "مرحبا بالعالم." || doc.Path != path || doc.Title != "draft" {
		t.Errorf("unexpected document %+v", doc)
	}

	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestNormalizeWhitespace(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"\n\n a  b \n", "a b"},
		{"a\n\n\n\nb", "a\n\nb"},
		{"a\nb", "a\nb"},
		{"a\n \t \nb\n\n", "a\n\nb"},
	}
	for _, tt := range tests {
		if got := normalizeWhitespace(tt.in); got != tt.want {
			t.Errorf("normalizeWhitespace(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func buildDOCX(t *testing.T, bodyXML string) []byte {
	t.Helper()
	var b bytes.Buffer
	zw := zip.NewWriter(&b)
	f, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	xml := `<?xml version="1.0" encoding="UTF-8"?>` + bodyXML
	if _, err := f.Write([]byte(xml)); err != nil {
		t.Fatalf("write xml: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return b.Bytes()
}
