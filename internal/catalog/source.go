package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// LoadError reports an unreachable or malformed product source.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load catalog from %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

var errMalformed = errors.New("malformed product document")

type Source interface {
	Name() string
	Load(ctx context.Context) ([]Product, error)
}

type document struct {
	Products []Product `json:"products"`
}

func decodeDocument(r io.Reader) ([]Product, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", errMalformed, err)
	}
	if doc.Products == nil {
		return nil, fmt.Errorf("%w: missing products", errMalformed)
	}
	if err := validate(doc.Products); err != nil {
		return nil, err
	}
	return doc.Products, nil
}

func validate(products []Product) error {
	seen := make(map[int]struct{}, len(products))
	for _, p := range products {
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("%w: duplicate id %d", errMalformed, p.ID)
		}
		seen[p.ID] = struct{}{}

		if p.Price.IsNegative() {
			return fmt.Errorf("%w: negative price for id %d", errMalformed, p.ID)
		}
	}
	return nil
}

type FileSource struct {
	Path string
}

func (s FileSource) Name() string { return "file:" + s.Path }

func (s FileSource) Load(ctx context.Context) ([]Product, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return decodeDocument(f)
}

// HTTPSource fetches the product document as a static file.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

func NewHTTPSource(url string) HTTPSource {
	return HTTPSource{
		URL:    url,
		Client: &http.Client{Timeout: 30 * time.Second},
	}
}

func (s HTTPSource) Name() string { return s.URL }

func (s HTTPSource) Load(ctx context.Context) ([]Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, err
	}

	c := s.Client
	if c == nil {
		c = http.DefaultClient
	}

	resp, err := c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("status=%d", resp.StatusCode)
	}
	return decodeDocument(resp.Body)
}
