package gist

// Gist is the subset of the GitHub gist resource this tool reads.
type Gist struct {
	ID          string          `json:"id"`
	HTMLURL     string          `json:"html_url"`
	Description *string         `json:"description"`
	Public      bool            `json:"public"`
	Files       map[string]File `json:"files"`
}

// DescriptionOr returns the description, or fallback when it is null or blank.
func (g Gist) DescriptionOr(fallback string) string {
	if g.Description == nil || *g.Description == "" {
		return fallback
	}
	return *g.Description
}

type File struct {
	Filename  string `json:"filename"`
	Type      string `json:"type,omitempty"`
	RawURL    string `json:"raw_url"`
	Size      int64  `json:"size"`
	Truncated bool   `json:"truncated,omitempty"`
	Content   string `json:"content,omitempty"`
}

type CreateRequest struct {
	Description string                 `json:"description"`
	Public      bool                   `json:"public"`
	Files       map[string]FileContent `json:"files"`
}

type FileContent struct {
	Content string `json:"content"`
}

// Payload is a local file prepared for upload.
type Payload struct {
	Name    string
	Content string
	Encoded bool
	// Size is the on-disk size before any encoding.
	Size int64
}
