package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/tair/inventory-reservation/internal/inventory/domain"
	"github.com/tair/inventory-reservation/pkg/logger"
)

// CatalogClient talks to the product catalog service over HTTP. The
// catalog supplies provisioning seeds and displays the sellable quantity
// the ledger pushes back to it.
type CatalogClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewCatalogClient creates a new catalog client
func NewCatalogClient(baseURL string) *CatalogClient {
	logger.Logger.Info().
		Str("base_url", baseURL).
		Msg("Catalog client initialized")

	return &CatalogClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout:   10 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

type catalogProductResponse struct {
	Success bool                   `json:"success"`
	Error   string                 `json:"error,omitempty"`
	Data    *domain.CatalogProduct `json:"data,omitempty"`
}

type catalogListResponse struct {
	Success bool                    `json:"success"`
	Error   string                  `json:"error,omitempty"`
	Data    []domain.CatalogProduct `json:"data,omitempty"`
}

// GetProduct fetches one product's provisioning seed
func (c *CatalogClient) GetProduct(ctx context.Context, productID string) (*domain.CatalogProduct, error) {
	url := fmt.Sprintf("%s/api/products/%s", c.baseURL, productID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: catalog has no product %s", domain.ErrProductNotFound, productID)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog returned status %d", resp.StatusCode)
	}

	var body catalogProductResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode catalog response: %w", err)
	}
	if !body.Success || body.Data == nil {
		return nil, fmt.Errorf("catalog error: %s", body.Error)
	}
	return body.Data, nil
}

// ListActiveProducts fetches every active product's provisioning seed
func (c *CatalogClient) ListActiveProducts(ctx context.Context) ([]domain.CatalogProduct, error) {
	url := fmt.Sprintf("%s/api/products?active=true", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog returned status %d", resp.StatusCode)
	}

	var body catalogListResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode catalog response: %w", err)
	}
	if !body.Success {
		return nil, fmt.Errorf("catalog error: %s", body.Error)
	}
	return body.Data, nil
}

// UpdateDisplayedStock pushes the authoritative sellable quantity back to
// the catalog
func (c *CatalogClient) UpdateDisplayedStock(ctx context.Context, productID string, stock int) error {
	url := fmt.Sprintf("%s/api/products/%s/stock", c.baseURL, productID)

	payload, err := json.Marshal(map[string]int{"stock": stock})
	if err != nil {
		return fmt.Errorf("failed to marshal stock update: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build catalog request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("catalog request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("catalog returned status %d", resp.StatusCode)
	}
	return nil
}
