package gist

import (
	"bytes"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"
)

func TestClassify_TextIsVerbatim(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	body := "héllo\r\nwörld\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	p, err := Classify(path)
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if p.Encoded {
		t.Fatalf("expected text payload")
	}
	if p.Name != "notes.txt" {
		t.Fatalf("name=%q", p.Name)
	}
	if p.Content != body {
		t.Fatalf("content=%q", p.Content)
	}
	if got := AnnotateDescription("d", p); got != "d" {
		t.Fatalf("description=%q", got)
	}
}

func TestClassify_BinaryIsBase64(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blob.bin")
	body := []byte{0x00, 0xff, 0xfe, 'a', 0x80}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		t.Fatal(err)
	}
	p, err := Classify(path)
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if !p.Encoded {
		t.Fatalf("expected encoded payload")
	}
	if p.Name != "blob.bin.base64" {
		t.Fatalf("name=%q", p.Name)
	}
	if p.Content != base64.StdEncoding.EncodeToString(body) {
		t.Fatalf("content=%q", p.Content)
	}
	if p.Size != int64(len(body)) {
		t.Fatalf("size=%d", p.Size)
	}
	if got := AnnotateDescription("d", p); got != "d (base64 encoded binary file)" {
		t.Fatalf("description=%q", got)
	}
}

func TestClassify_MissingFile(t *testing.T) {
	if _, err := Classify(filepath.Join(t.TempDir(), "nope")); !os.IsNotExist(err) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestDecodedName(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		encoded bool
	}{
		{"a.zip.base64", "a.zip", true},
		{"a.zip", "a.zip", false},
		{"base64", "base64", false},
	}
	for _, tc := range cases {
		got, enc := DecodedName(tc.in)
		if got != tc.want || enc != tc.encoded {
			t.Fatalf("DecodedName(%q)=%q,%v want %q,%v", tc.in, got, enc, tc.want, tc.encoded)
		}
	}
}

func TestDecodeContent_IgnoresWhitespace(t *testing.T) {
	want := []byte{1, 2, 3, 4, 5, 250}
	enc := base64.StdEncoding.EncodeToString(want)
	got, err := DecodeContent([]byte(enc[:4] + "\n" + enc[4:] + "\n"))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("got=%v", got)
	}
}

func TestDecodeContent_Invalid(t *testing.T) {
	if _, err := DecodeContent([]byte("not base64!")); err == nil {
		t.Fatalf("expected error")
	}
}
