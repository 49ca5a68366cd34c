package gist

import (
	"errors"
	"regexp"
)

var ErrInvalidReference = errors.New("invalid gist URL or ID")

var gistIDPattern = regexp.MustCompile(`[a-f0-9]{32}`)

// ExtractID returns the first 32 character lowercase hex run in ref, which
// may be a bare id or a full gist URL.
func ExtractID(ref string) (string, error) {
	id := gistIDPattern.FindString(ref)
	if id == "" {
		return "", ErrInvalidReference
	}
	return id, nil
}
