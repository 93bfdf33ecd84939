package fx_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/expensia/expensia-api/internal/domain"
	"github.com/expensia/expensia-api/internal/infrastructure/fx"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// fakeFetcher cuenta llamadas y puede fallar bajo demanda.
type fakeFetcher struct {
	calls int32
	fail  atomic.Bool
	rates map[string]decimal.Decimal
}

func (f *fakeFetcher) Fetch(context.Context) (map[string]decimal.Decimal, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.fail.Load() {
		return nil, errors.New("proveedor caído")
	}
	return f.rates, nil
}

func (f *fakeFetcher) callCount() int { return int(atomic.LoadInt32(&f.calls)) }

// fakeClock reloj controlable.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func usdRates() map[string]decimal.Decimal {
	return map[string]decimal.Decimal{
		"USD": decimal.NewFromInt(1),
		"EUR": decimal.RequireFromString("0.92"),
		"INR": decimal.NewFromInt(83),
	}
}

func newCache(t *testing.T) (*fx.RateCache, *fakeFetcher, *fakeClock) {
	t.Helper()
	fetcher := &fakeFetcher{rates: usdRates()}
	clock := &fakeClock{now: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)}
	cache := fx.NewRateCache(fetcher, fx.WithTTL(10*time.Minute), fx.WithClock(clock.Now))
	return cache, fetcher, clock
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests GetRate
// ──────────────────────────────────────────────────────────────────────────────

func TestGetRate_MismaMonedaEsUnoSinFetch(t *testing.T) {
	cache, fetcher, _ := newCache(t)

	rate, err := cache.GetRate(context.Background(), "USD", "USD")
	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.NewFromInt(1)))
	assert.Equal(t, 0, fetcher.callCount(), "from==to no debe tocar al proveedor")
}

// Composición vía pivote: USD->INR = 83, EUR->USD = 1/0.92.
func TestGetRate_ComposicionViaPivote(t *testing.T) {
	cache, _, _ := newCache(t)
	ctx := context.Background()

	usdInr, err := cache.GetRate(ctx, "USD", "INR")
	require.NoError(t, err)
	assert.True(t, usdInr.Equal(decimal.NewFromInt(83)))

	// Ida y vuelta compone a ~1 (error sólo de redondeo decimal).
	eurUsd, err := cache.GetRate(ctx, "EUR", "USD")
	require.NoError(t, err)
	usdEur, err := cache.GetRate(ctx, "USD", "EUR")
	require.NoError(t, err)
	roundTrip := eurUsd.Mul(usdEur)
	diff := roundTrip.Sub(decimal.NewFromInt(1)).Abs()
	assert.True(t, diff.LessThan(decimal.RequireFromString("0.000001")),
		"ida y vuelta debe componer a 1, fue %s", roundTrip)
}

func TestGetRate_MonedaDesconocida(t *testing.T) {
	cache, _, _ := newCache(t)

	_, err := cache.GetRate(context.Background(), "USD", "ZZZ")
	assert.ErrorIs(t, err, domain.ErrRateUnavailable)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests TTL y single-flight
// ──────────────────────────────────────────────────────────────────────────────

func TestGetRate_SnapshotVigenteNoRefetcha(t *testing.T) {
	cache, fetcher, clock := newCache(t)
	ctx := context.Background()

	_, err := cache.GetRate(ctx, "USD", "EUR")
	require.NoError(t, err)
	require.Equal(t, 1, fetcher.callCount())

	// Dentro del TTL: mismas tasas, sin fetch adicional.
	clock.Advance(9 * time.Minute)
	_, err = cache.GetRate(ctx, "USD", "INR")
	require.NoError(t, err)
	assert.Equal(t, 1, fetcher.callCount())

	// Expirado: un nuevo fetch.
	clock.Advance(2 * time.Minute)
	_, err = cache.GetRate(ctx, "USD", "INR")
	require.NoError(t, err)
	assert.Equal(t, 2, fetcher.callCount())
}

// Lecturas concurrentes sobre caché fría comparten un único fetch.
func TestGetRate_ConcurrenciaUnSoloFetch(t *testing.T) {
	cache, fetcher, _ := newCache(t)
	ctx := context.Background()

	const goroutines = 50
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			rate, err := cache.GetRate(ctx, "USD", "INR")
			assert.NoError(t, err)
			assert.True(t, rate.Equal(decimal.NewFromInt(83)))
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, fetcher.callCount(), "la caché fría debe resolverse con un único fetch")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests fallback a snapshot vencido
// ──────────────────────────────────────────────────────────────────────────────

func TestGetRate_ProveedorCaidoSirveSnapshotVencido(t *testing.T) {
	cache, fetcher, clock := newCache(t)
	ctx := context.Background()

	_, err := cache.GetRate(ctx, "USD", "INR")
	require.NoError(t, err)

	// Expira el snapshot y cae el proveedor: se sirve el snapshot previo.
	clock.Advance(11 * time.Minute)
	fetcher.fail.Store(true)

	rate, err := cache.GetRate(ctx, "USD", "INR")
	require.NoError(t, err, "con snapshot previo el fallo del proveedor no es fatal")
	assert.True(t, rate.Equal(decimal.NewFromInt(83)))
}

func TestGetRate_ProveedorCaidoSinSnapshotFalla(t *testing.T) {
	cache, fetcher, _ := newCache(t)
	fetcher.fail.Store(true)

	_, err := cache.GetRate(context.Background(), "USD", "INR")
	assert.ErrorIs(t, err, domain.ErrRateUnavailable)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Convert
// ──────────────────────────────────────────────────────────────────────────────

func TestConvert_RedondeaADosDecimales(t *testing.T) {
	cache, _, _ := newCache(t)

	converted, rate, err := cache.Convert(context.Background(), decimal.NewFromInt(100), "USD", "INR")
	require.NoError(t, err)
	assert.True(t, converted.Equal(decimal.RequireFromString("8300.00")))
	assert.True(t, rate.Equal(decimal.NewFromInt(83)))
	assert.Equal(t, int32(-2), converted.Exponent(), "el monto convertido se redondea a 2 decimales")
}
