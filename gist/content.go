package gist

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

const (
	EncodedSuffix     = ".base64"
	encodedAnnotation = " (base64 encoded binary file)"

	// PayloadLimit is the informal ceiling GitHub documents for a single gist.
	PayloadLimit = 25 << 20
)

// Classify reads path and returns it as gist content. Files that are not
// valid UTF-8 are base64 encoded and their name gets EncodedSuffix.
func Classify(path string) (Payload, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Payload{}, err
	}
	name := filepath.Base(path)
	if utf8.Valid(b) {
		return Payload{Name: name, Content: string(b), Size: int64(len(b))}, nil
	}
	return Payload{
		Name:    name + EncodedSuffix,
		Content: base64.StdEncoding.EncodeToString(b),
		Encoded: true,
		Size:    int64(len(b)),
	}, nil
}

// AnnotateDescription marks the description of an encoded payload.
func AnnotateDescription(desc string, p Payload) string {
	if !p.Encoded {
		return desc
	}
	return desc + encodedAnnotation
}

// DecodedName strips EncodedSuffix. ok reports whether the suffix was present.
func DecodedName(name string) (string, bool) {
	if !strings.HasSuffix(name, EncodedSuffix) {
		return name, false
	}
	return strings.TrimSuffix(name, EncodedSuffix), true
}

// DecodeContent reverses the base64 transcoding done by Classify. Line breaks
// and other whitespace inserted by the remote are ignored.
func DecodeContent(b []byte) ([]byte, error) {
	s := strings.Join(strings.Fields(string(b)), "")
	out, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decode base64: %w", err)
	}
	return out, nil
}
