package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itaymdigi/Family-Navigator/internal/models"
)

type memoryCurrencyRepo struct {
	rates []*models.CurrencyRate
}

func (r *memoryCurrencyRepo) List(context.Context) ([]*models.CurrencyRate, error) {
	return r.rates, nil
}

func (r *memoryCurrencyRepo) Upsert(_ context.Context, c *models.CurrencyRate) error {
	for _, existing := range r.rates {
		if existing.FromCurrency == c.FromCurrency && existing.ToCurrency == c.ToCurrency {
			existing.Rate, existing.Flag = c.Rate, c.Flag
			c.ID = existing.ID
			return nil
		}
	}
	c.ID = uuid.New()
	copied := *c
	r.rates = append(r.rates, &copied)
	return nil
}

func (r *memoryCurrencyRepo) Count(context.Context) (int, error) {
	return len(r.rates), nil
}

func seededCurrency(t *testing.T) (*CurrencyService, *memoryCurrencyRepo) {
	t.Helper()
	repo := &memoryCurrencyRepo{}
	svc := NewCurrencyService(repo)
	require.NoError(t, svc.SeedDefaults(context.Background()))
	return svc, repo
}

func TestSeedDefaults_OnlyWhenEmpty(t *testing.T) {
	svc, repo := seededCurrency(t)
	assert.Len(t, repo.rates, len(DefaultRates))

	require.NoError(t, svc.SeedDefaults(context.Background()))
	assert.Len(t, repo.rates, len(DefaultRates))
}

func TestConvert(t *testing.T) {
	svc, _ := seededCurrency(t)
	ctx := context.Background()

	direct, err := svc.Convert(ctx, "ils", "CZK", 100)
	require.NoError(t, err)
	assert.Equal(t, 6.37, direct.Rate)
	assert.Equal(t, 637.0, direct.Result)
	assert.Empty(t, direct.Via)

	// CZK→EUR only exists as the inverse of EUR→CZK.
	inverse, err := svc.Convert(ctx, "CZK", "EUR", 252)
	require.NoError(t, err)
	assert.InDelta(t, 1/25.2, inverse.Rate, 1e-12)
	assert.Equal(t, 10.0, inverse.Result)

	pivot, err := svc.Convert(ctx, "EUR", "USD", 10)
	require.NoError(t, err)
	assert.Equal(t, "CZK", pivot.Via)
	assert.InDelta(t, 25.2/23.1, pivot.Rate, 1e-12)
	assert.Equal(t, 10.91, pivot.Result)

	same, err := svc.Convert(ctx, "CZK", "CZK", 5)
	require.NoError(t, err)
	assert.Equal(t, 5.0, same.Result)

	_, err = svc.Convert(ctx, "GBP", "JPY", 5)
	_, notFound := err.(*NotFoundError)
	assert.True(t, notFound)
}

func TestConvert_StoredPairBeatsInverse(t *testing.T) {
	svc, _ := seededCurrency(t)

	// CZK→ILS is stored as 0.157, not 1/6.37.
	got, err := svc.Convert(context.Background(), "CZK", "ILS", 1000)
	require.NoError(t, err)
	assert.Equal(t, 0.157, got.Rate)
	assert.Equal(t, 157.0, got.Result)
}

func TestUpsert_Validation(t *testing.T) {
	svc, repo := seededCurrency(t)
	ctx := context.Background()

	err := svc.Upsert(ctx, &models.CurrencyRate{FromCurrency: "EU", ToCurrency: "CZK", Rate: -1})
	vErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Contains(t, vErr.Fields, "from_currency")
	assert.Contains(t, vErr.Fields, "rate")

	require.NoError(t, svc.Upsert(ctx, &models.CurrencyRate{FromCurrency: "eur", ToCurrency: "czk", Rate: 24.9, Flag: "🇪🇺"}))
	assert.Len(t, repo.rates, len(DefaultRates))

	got, err := svc.Convert(ctx, "EUR", "CZK", 1)
	require.NoError(t, err)
	assert.Equal(t, 24.9, got.Rate)
}
