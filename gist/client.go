package gist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

const (
	DefaultBaseURL   = "https://api.github.com"
	DefaultUserAgent = "gist-transfer"
)

var (
	maxAPIResponseBytes = int64(8 << 20)
	maxRawResponseBytes = int64(256 << 20)
)

var ErrResponseTooLarge = errors.New("response too large")

type Client struct {
	BaseURL   string
	Token     string
	UserAgent string
	// Retries is the number of extra attempts after a failed request.
	Retries int
	// Timeout bounds each request. Zero means no timeout.
	Timeout time.Duration
	HTTP    *retryablehttp.Client
}

// APIError is a non-2xx reply from the gist API or a raw file host.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("github http %d: %s", e.StatusCode, strings.TrimSpace(e.Body))
}

func (c *Client) httpClient() *retryablehttp.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	rc := retryablehttp.NewClient()
	rc.RetryMax = max(c.Retries, 0)
	rc.Logger = nil
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	rc.HTTPClient.Timeout = c.Timeout
	c.HTTP = rc
	return rc
}

func (c *Client) endpoint(elem ...string) string {
	base := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	u := base + "/gists"
	for _, e := range elem {
		u += "/" + url.PathEscape(e)
	}
	return u
}

// Create posts a new gist and returns the created resource.
func (c *Client) Create(ctx context.Context, in CreateRequest) (*Gist, error) {
	var out Gist
	if err := c.doJSON(ctx, http.MethodPost, c.endpoint(), in, &out); err != nil {
		return nil, fmt.Errorf("create gist: %w", err)
	}
	if out.HTMLURL == "" {
		return nil, errors.New("create gist: response has no html_url")
	}
	return &out, nil
}

// List returns the first page of the authenticated user's gists.
func (c *Client) List(ctx context.Context) ([]Gist, error) {
	var out []Gist
	if err := c.doJSON(ctx, http.MethodGet, c.endpoint(), nil, &out); err != nil {
		return nil, fmt.Errorf("list gists: %w", err)
	}
	return out, nil
}

func (c *Client) Get(ctx context.Context, id string) (*Gist, error) {
	var out Gist
	if err := c.doJSON(ctx, http.MethodGet, c.endpoint(id), nil, &out); err != nil {
		return nil, fmt.Errorf("get gist %s: %w", id, err)
	}
	return &out, nil
}

// FetchRaw downloads a file body from its raw_url. The request carries no
// credentials.
func (c *Client) FetchRaw(ctx context.Context, rawURL string) ([]byte, error) {
	pu, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, fmt.Errorf("raw_url: %w", err)
	}
	if pu.Scheme != "http" && pu.Scheme != "https" {
		return nil, fmt.Errorf("raw_url: only http/https allowed: %q", rawURL)
	}
	if pu.Host == "" {
		return nil, fmt.Errorf("raw_url: missing host: %q", rawURL)
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, pu.String(), nil)
	if err != nil {
		return nil, err
	}
	c.setUserAgent(req)
	b, err := c.send(req, maxRawResponseBytes)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	return b, nil
}

func (c *Client) doJSON(ctx context.Context, method, u string, in, out any) error {
	var body any
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = b
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := strings.TrimSpace(c.Token); tok != "" {
		req.Header.Set("Authorization", "token "+tok)
	}
	c.setUserAgent(req)

	b, err := c.send(req, maxAPIResponseBytes)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

func (c *Client) setUserAgent(req *retryablehttp.Request) {
	ua := strings.TrimSpace(c.UserAgent)
	if ua == "" {
		ua = DefaultUserAgent
	}
	req.Header.Set("User-Agent", ua)
}

func (c *Client) send(req *retryablehttp.Request, limit int64) ([]byte, error) {
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, err
	}
	tooLarge := int64(len(b)) > limit
	if tooLarge {
		b = b[:limit]
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(b)}
	}
	if tooLarge {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrResponseTooLarge, limit)
	}
	return b, nil
}
