package fx

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"github.com/expensia/expensia-api/internal/application/ports"
	"github.com/expensia/expensia-api/internal/domain"
)

// DefaultTTL vigencia del snapshot de tasas.
const DefaultTTL = 10 * time.Minute

var _ ports.CurrencyConverter = (*RateCache)(nil)

// snapshot una tabla de tasas con su instante de captura. Inmutable una vez
// publicada: las lecturas concurrentes no necesitan copiar.
type snapshot struct {
	fetchedAt time.Time
	rates     map[string]decimal.Decimal
}

// RateCache memoiza la tabla de tasas del proveedor durante un TTL fijo.
//
//   - Lecturas concurrentes comparten el mismo snapshot sin bloqueo entre sí.
//   - Al expirar, un único refresh va al proveedor (singleflight); el resto
//     de las goroutines espera ese resultado en lugar de duplicar llamadas.
//   - Si el proveedor falla y existe un snapshot previo, se sirve el snapshot
//     vencido antes que fallar duro. Sin snapshot previo: ErrRateUnavailable.
//
// El reloj y el fetcher son inyectables para tests.
type RateCache struct {
	fetcher RateFetcher
	ttl     time.Duration
	now     func() time.Time

	group singleflight.Group

	mu   sync.RWMutex
	snap *snapshot
}

// Option configura el RateCache.
type Option func(*RateCache)

// WithTTL cambia la vigencia del snapshot.
func WithTTL(ttl time.Duration) Option {
	return func(c *RateCache) { c.ttl = ttl }
}

// WithClock inyecta el reloj (tests).
func WithClock(now func() time.Time) Option {
	return func(c *RateCache) { c.now = now }
}

// NewRateCache construye la caché sobre un fetcher.
func NewRateCache(fetcher RateFetcher, opts ...Option) *RateCache {
	c := &RateCache{
		fetcher: fetcher,
		ttl:     DefaultTTL,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetRate devuelve la tasa from→to del snapshot vigente. from==to es 1 sin
// tocar la caché. La composición pasa por la moneda pivote del proveedor:
// rate = rates[to] / rates[from].
func (c *RateCache) GetRate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	from = strings.ToUpper(from)
	to = strings.ToUpper(to)
	if from == to {
		return decimal.NewFromInt(1), nil
	}

	snap, err := c.current(ctx)
	if err != nil {
		return decimal.Decimal{}, err
	}

	fromRate, ok := snap.rates[from]
	if !ok || fromRate.IsZero() {
		return decimal.Decimal{}, fmt.Errorf("fx: sin tasa para %s: %w", from, domain.ErrRateUnavailable)
	}
	toRate, ok := snap.rates[to]
	if !ok || toRate.IsZero() {
		return decimal.Decimal{}, fmt.Errorf("fx: sin tasa para %s: %w", to, domain.ErrRateUnavailable)
	}
	return toRate.Div(fromRate), nil
}

// Convert aplica GetRate y redondea a 2 decimales. Devuelve la tasa para
// persistirla junto al monto convertido.
func (c *RateCache) Convert(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, decimal.Decimal, error) {
	rate, err := c.GetRate(ctx, from, to)
	if err != nil {
		return decimal.Decimal{}, decimal.Decimal{}, err
	}
	return amount.Mul(rate).Round(2), rate, nil
}

// current devuelve el snapshot vigente, refrescándolo si expiró.
func (c *RateCache) current(ctx context.Context) (*snapshot, error) {
	c.mu.RLock()
	snap := c.snap
	c.mu.RUnlock()

	if snap != nil && c.now().Sub(snap.fetchedAt) < c.ttl {
		return snap, nil
	}

	// Snapshot vencido o inexistente: un único refresh en vuelo. Todas las
	// goroutines que llegan durante el fetch comparten el resultado.
	v, err, _ := c.group.Do("refresh", func() (any, error) {
		// Otra goroutine pudo haber refrescado mientras esperábamos el turno.
		c.mu.RLock()
		cur := c.snap
		c.mu.RUnlock()
		if cur != nil && c.now().Sub(cur.fetchedAt) < c.ttl {
			return cur, nil
		}

		rates, err := c.fetcher.Fetch(ctx)
		if err != nil {
			// Proveedor caído: servir el snapshot previo aunque esté vencido.
			if cur != nil {
				return cur, nil
			}
			return nil, fmt.Errorf("%w: %v", domain.ErrRateUnavailable, err)
		}
		fresh := &snapshot{fetchedAt: c.now(), rates: rates}
		c.mu.Lock()
		c.snap = fresh
		c.mu.Unlock()
		return fresh, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*snapshot), nil
}
