package zarr

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// HTTPStore fetches keys with one GET request each against a base URL.
// A 404 response maps to ErrKeyNotFound so that missing chunks resolve to
// fill values like they do on other backends.
type HTTPStore struct {
	base   *url.URL
	client *http.Client
	header http.Header
}

var _ Store = (*HTTPStore)(nil)

func NewHTTPStore(base *url.URL, client *http.Client) *HTTPStore {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPStore{base: base, client: client}
}

// WithHeader returns a copy of the store that attaches the given headers
// (authorization tokens and the like) to every request.
func (s *HTTPStore) WithHeader(header http.Header) *HTTPStore {
	return &HTTPStore{base: s.base, client: s.client, header: header}
}

func (s *HTTPStore) Get(ctx context.Context, key string) ([]byte, error) {
	target := *s.base
	target.Path = strings.TrimSuffix(target.Path, "/") + "/" + key

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, err
	}
	for name, values := range s.header {
		for _, value := range values {
			req.Header.Add(name, value)
		}
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("zarr: unsuccessful http request for %s: response code %d", key, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
