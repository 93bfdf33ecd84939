// Package countries resuelve la moneda base de un país contra el servicio
// restcountries. Se usa una sola vez por empresa (en el registro), así que no
// lleva caché: un fallo del servicio degrada a USD en lugar de bloquear el alta.
package countries

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/expensia/expensia-api/internal/application/ports"
	"github.com/expensia/expensia-api/pkg/logger"
)

// defaultBaseURL servicio público de datos de países.
const defaultBaseURL = "https://restcountries.com/v3.1"

// fallbackCurrency moneda usada cuando el país no resuelve.
const fallbackCurrency = "USD"

var _ ports.CurrencyResolver = (*Client)(nil)

// Client implementación de CurrencyResolver sobre restcountries.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger
}

// NewClient construye el cliente. baseURL vacío usa el servicio por defecto.
func NewClient(baseURL string, log *logger.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

type countryResponse struct {
	Currencies map[string]struct {
		Name   string `json:"name"`
		Symbol string `json:"symbol"`
	} `json:"currencies"`
}

// ResolveCurrency devuelve el código ISO 4217 de la moneda principal del país.
// Nunca falla hacia arriba: si el servicio no responde o el país no tiene
// moneda registrada, devuelve USD y deja constancia en el log.
func (c *Client) ResolveCurrency(ctx context.Context, countryCode string) (string, error) {
	code, err := c.lookup(ctx, countryCode)
	if err != nil {
		c.log.Warn().
			Str("country", countryCode).
			Err(err).
			Msg("No se pudo resolver la moneda del país, usando USD")
		return fallbackCurrency, nil
	}
	return code, nil
}

func (c *Client) lookup(ctx context.Context, countryCode string) (string, error) {
	url := fmt.Sprintf("%s/alpha/%s?fields=currencies", c.baseURL, strings.ToUpper(countryCode))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("countries: crear request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("countries: llamar servicio: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("countries: servicio respondió %d", resp.StatusCode)
	}

	var out countryResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("countries: decodificar respuesta: %w", err)
	}
	for code := range out.Currencies {
		return strings.ToUpper(code), nil
	}
	return "", fmt.Errorf("countries: el país %s no tiene moneda registrada", countryCode)
}
