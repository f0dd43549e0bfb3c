// Package jokeapi is a client for the public random-jokes API.
package jokeapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"

	"github.com/briangreenhill/jokeshelf/internal/models"
)

const DefaultBaseURL = "https://official-joke-api.appspot.com"

type Client struct {
	http    *http.Client
	baseURL *url.URL
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http = &http.Client{Transport: c.http.Transport, Timeout: d}
		}
	}
}

func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errors.New("base url must be absolute")
	}
	c := &Client{
		http:    http.DefaultClient,
		baseURL: u,
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

func (c *Client) newReq(ctx context.Context, p string) (*http.Request, error) {
	u := *c.baseURL
	u.Path = path.Join(u.Path, p)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (c *Client) doJSON(ctx context.Context, p string, out any) error {
	req, err := c.newReq(ctx, p)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("GET %s: %s: %s", p, resp.Status, string(b))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("GET %s: decode: %w", p, err)
	}
	return nil
}

// Random fetches n random jokes. The upstream may return fewer.
func (c *Client) Random(ctx context.Context, n int) ([]models.Draft, error) {
	if n <= 0 {
		return []models.Draft{}, nil
	}
	var drafts []models.Draft
	if err := c.doJSON(ctx, "/jokes/random/"+strconv.Itoa(n), &drafts); err != nil {
		return nil, err
	}
	if drafts == nil {
		drafts = []models.Draft{}
	}
	return drafts, nil
}
