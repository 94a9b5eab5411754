// Package artifact queries a container image registry for the most recent
// usable tag of an artifact. The lookup only feeds a prompt default, so it
// is best-effort by contract: network failures, unexpected statuses, and
// malformed payloads all degrade to an empty result instead of an error,
// and the operator supplies the value manually.
package artifact

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Tag is one entry of a registry tag listing. Created carries the
// registry's ISO-8601 timestamp; lexicographic order matches creation
// order, so it is kept as a string.
type Tag struct {
	Name    string `json:"name"`
	Created string `json:"created"`
}

// Client reads tag listings from an artifact registry.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option customises the Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client, e.g. to set a timeout or to
// point tests at a local server.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient constructs a Client for the registry rooted at baseURL.
func NewClient(baseURL string, options ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c
}

// LatestTag fetches the tag listing at path (e.g.
// "/teams/acid/artifacts/spilo-9.4/tags") and returns the preferred tag
// name, or "" when the listing cannot be obtained.
func (c *Client) LatestTag(ctx context.Context, path string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return ""
	}

	var tags []Tag
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return ""
	}
	return PickLatest(tags)
}

// PickLatest returns the name of the most recently created tag that is not
// a snapshot. When every tag is a snapshot the most recent one wins; an
// empty listing yields "".
func PickLatest(tags []Tag) string {
	if len(tags) == 0 {
		return ""
	}
	sorted := make([]Tag, len(tags))
	copy(sorted, tags)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Created > sorted[j].Created
	})
	for _, tag := range sorted {
		if !strings.Contains(tag.Name, "SNAPSHOT") {
			return tag.Name
		}
	}
	return sorted[0].Name
}

// Image joins an image address with a tag, e.g.
// Image("registry.example.org/acid/spilo-9.4", "1.0") →
// "registry.example.org/acid/spilo-9.4:1.0". An empty tag yields "".
func Image(address, tag string) string {
	if tag == "" {
		return ""
	}
	return fmt.Sprintf("%s:%s", address, tag)
}
