// Package fx implementa la obtención y caché de tasas de cambio: un cliente
// HTTP contra el proveedor externo y un snapshot en memoria con TTL y
// refresh single-flight. El proveedor expresa todas las tasas relativas a una
// moneda pivote fija (USD), así que cualquier par se compone a través de ella.
package fx

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// defaultProviderURL endpoint del proveedor de tasas (base USD).
const defaultProviderURL = "https://api.exchangerate.host/latest?base=USD"

// RateFetcher obtiene la tabla de tasas vigente del proveedor. Inyectable en
// RateCache para poder fakearlo en tests.
type RateFetcher interface {
	Fetch(ctx context.Context) (map[string]decimal.Decimal, error)
}

// HTTPFetcher implementación de RateFetcher contra el proveedor HTTP.
type HTTPFetcher struct {
	url        string
	httpClient *http.Client
}

// NewHTTPFetcher construye el cliente. url vacío usa el proveedor por defecto.
func NewHTTPFetcher(url string) *HTTPFetcher {
	if url == "" {
		url = defaultProviderURL
	}
	return &HTTPFetcher{
		url: url,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type providerResponse struct {
	Base  string                     `json:"base"`
	Rates map[string]decimal.Decimal `json:"rates"`
}

// Fetch descarga la tabla de tasas. Error si el proveedor responde distinto
// de 200 o con una tabla vacía.
func (f *HTTPFetcher) Fetch(ctx context.Context) (map[string]decimal.Decimal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("fx: crear request: %w", err)
	}
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fx: llamar proveedor: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fx: proveedor respondió %d: %s", resp.StatusCode, string(body))
	}

	var out providerResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("fx: decodificar respuesta: %w", err)
	}
	if len(out.Rates) == 0 {
		return nil, fmt.Errorf("fx: el proveedor devolvió una tabla vacía")
	}
	return out.Rates, nil
}
