package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const DefaultBaseURL = "https://fakestoreapi.com"

var (
	ErrFetchFailed = errors.New("failed to fetch from catalog API")
	ErrNotFound    = errors.New("product not found")
)

// RemoteClient is the read side of the remote product catalog. Every call is
// a single request; failures are returned as-is and never retried here.
type RemoteClient interface {
	FetchProducts(ctx context.Context) ([]Product, error)
	FetchProduct(ctx context.Context, id int) (*Product, error)
	FetchCategories(ctx context.Context) ([]string, error)
	// CreateProduct echoes a product back from the API. Local products never go through it.
	CreateProduct(ctx context.Context, in CreateProductRequest) (*Product, error)
}

// CreateProductRequest is the body the catalog API accepts on POST /products.
type CreateProductRequest struct {
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Category    string  `json:"category"`
}

type remoteClient struct {
	httpClient *http.Client
	baseURL    string
}

func NewRemoteClient(baseURL string, timeout time.Duration) RemoteClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &remoteClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

func (c *remoteClient) FetchProducts(ctx context.Context) ([]Product, error) {
	var products []Product
	if _, err := c.do(ctx, http.MethodGet, "/products", nil, &products); err != nil {
		return nil, err
	}
	for i := range products {
		products[i].Source = SourceRemote
	}
	return products, nil
}

func (c *remoteClient) FetchProduct(ctx context.Context, id int) (*Product, error) {
	var p *Product
	status, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/products/%d", id), nil, &p)
	if status == http.StatusNotFound {
		return nil, fmt.Errorf("%w: remote:%d", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	// the API answers unknown ids with 200 and an empty body
	if p == nil || p.ID == 0 {
		return nil, fmt.Errorf("%w: remote:%d", ErrNotFound, id)
	}
	p.Source = SourceRemote
	return p, nil
}

func (c *remoteClient) FetchCategories(ctx context.Context) ([]string, error) {
	var categories []string
	if _, err := c.do(ctx, http.MethodGet, "/products/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *remoteClient) CreateProduct(ctx context.Context, in CreateProductRequest) (*Product, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return nil, errors.Wrap(err, "encode product")
	}
	var p Product
	if _, err := c.do(ctx, http.MethodPost, "/products", body, &p); err != nil {
		return nil, err
	}
	p.Source = SourceRemote
	return &p, nil
}

// do performs one request and decodes a 2xx JSON body into out. An empty body
// leaves out untouched. The status code is returned whenever a response arrived.
func (c *remoteClient) do(ctx context.Context, method, path string, body []byte, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, errors.Wrapf(ErrFetchFailed, "build request %s %s: %v", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, errors.Wrapf(ErrFetchFailed, "%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, errors.Wrapf(ErrFetchFailed, "%s %s: status %d", method, path, resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, errors.Wrapf(ErrFetchFailed, "read %s: %v", path, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return resp.StatusCode, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return resp.StatusCode, errors.Wrapf(ErrFetchFailed, "decode %s: %v", path, err)
	}
	return resp.StatusCode, nil
}
