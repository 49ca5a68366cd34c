package gist

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	DefaultDescription = "uploaded via gist-transfer"
	noDescription      = "No description"
)

type UploadOptions struct {
	Description string
	Public      bool
}

// Upload creates a single-file gist from p.
func Upload(ctx context.Context, c *Client, p Payload, opts UploadOptions) (*Gist, error) {
	desc := strings.TrimSpace(opts.Description)
	if desc == "" {
		desc = DefaultDescription
	}
	return c.Create(ctx, CreateRequest{
		Description: AnnotateDescription(desc, p),
		Public:      opts.Public,
		Files: map[string]FileContent{
			p.Name: {Content: p.Content},
		},
	})
}

// List writes one "<url> - <description>" line per gist to w.
func List(ctx context.Context, c *Client, w io.Writer) error {
	gists, err := c.List(ctx)
	if err != nil {
		return err
	}
	for _, g := range gists {
		fmt.Fprintf(w, "%s - %s\n", g.HTMLURL, g.DescriptionOr(noDescription))
	}
	return nil
}

// Download fetches every file of the gist named by ref into dir and returns
// the paths written. A file whose base64 content cannot be decoded is
// reported on errW and skipped; any other failure aborts the download and
// leaves already written files in place.
func Download(ctx context.Context, c *Client, ref, dir string, w, errW io.Writer) ([]string, error) {
	id, err := ExtractID(ref)
	if err != nil {
		return nil, err
	}
	g, err := c.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(g.Files))
	for name := range g.Files {
		names = append(names, name)
	}
	sort.Strings(names)

	var written []string
	for _, name := range names {
		f := g.Files[name]
		content, err := c.FetchRaw(ctx, f.RawURL)
		if err != nil {
			return written, err
		}

		outName, encoded := DecodedName(name)
		if encoded {
			decoded, err := DecodeContent(content)
			if err != nil {
				fmt.Fprintf(errW, "failed to decode base64 for %s: %v\n", name, err)
				continue
			}
			content = decoded
		}

		outName = filepath.Base(outName)
		if outName == "." || outName == ".." || outName == string(filepath.Separator) {
			fmt.Fprintf(errW, "skipping %s: unusable file name\n", name)
			continue
		}
		path := filepath.Join(dir, outName)
		if err := os.WriteFile(path, content, 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
		fmt.Fprintf(w, "Downloaded %s\n", outName)
	}
	return written, nil
}
