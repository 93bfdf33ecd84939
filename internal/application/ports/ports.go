// Package ports define los contratos de servicios externos que consumen los
// use cases. Las implementaciones viven en internal/infrastructure; el uso de
// interfaces permite fakes en tests y evita acoplar la capa de aplicación a
// proveedores concretos.
package ports

import (
	"context"

	"github.com/shopspring/decimal"
)

// CurrencyConverter convierte montos entre monedas ISO 4217.
// Lo implementa fx.RateCache (snapshot con TTL y refresh single-flight).
type CurrencyConverter interface {
	// GetRate devuelve la tasa from→to del snapshot vigente. from==to es 1.
	GetRate(ctx context.Context, from, to string) (decimal.Decimal, error)
	// Convert aplica GetRate y redondea a 2 decimales. Devuelve también la
	// tasa usada para persistirla junto al gasto.
	Convert(ctx context.Context, amount decimal.Decimal, from, to string) (converted, rate decimal.Decimal, err error)
}

// CurrencyResolver resuelve la moneda base de un país (código ISO 3166).
// Lo implementa countries.Client (restcountries) con fallback a USD.
type CurrencyResolver interface {
	ResolveCurrency(ctx context.Context, countryCode string) (string, error)
}

// Mailer envía correos transaccionales (contraseñas temporales).
type Mailer interface {
	Send(to, subject, htmlBody string) error
}
