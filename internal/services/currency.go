package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/itaymdigi/Family-Navigator/internal/models"
)

type currencyRepository interface {
	List(ctx context.Context) ([]*models.CurrencyRate, error)
	Upsert(ctx context.Context, c *models.CurrencyRate) error
	Count(ctx context.Context) (int, error)
}

// DefaultRates are seeded into an empty rates table.
var DefaultRates = []models.CurrencyRate{
	{FromCurrency: "ILS", ToCurrency: "CZK", Rate: 6.37, Flag: "🇮🇱"},
	{FromCurrency: "EUR", ToCurrency: "CZK", Rate: 25.2, Flag: "🇪🇺"},
	{FromCurrency: "USD", ToCurrency: "CZK", Rate: 23.1, Flag: "🇺🇸"},
	{FromCurrency: "CZK", ToCurrency: "ILS", Rate: 0.157, Flag: "🇨🇿"},
}

type CurrencyService struct {
	repo currencyRepository
}

func NewCurrencyService(repo currencyRepository) *CurrencyService {
	return &CurrencyService{repo: repo}
}

func (s *CurrencyService) List(ctx context.Context) ([]*models.CurrencyRate, error) {
	return s.repo.List(ctx)
}

// SeedDefaults inserts DefaultRates when no rates exist yet.
func (s *CurrencyService) SeedDefaults(ctx context.Context) error {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count currency rates: %w", err)
	}
	if n > 0 {
		return nil
	}
	for _, r := range DefaultRates {
		rate := r
		if err := s.repo.Upsert(ctx, &rate); err != nil {
			return fmt.Errorf("failed to seed %s→%s: %w", r.FromCurrency, r.ToCurrency, err)
		}
	}
	log.Info("seeded default currency rates", "count", len(DefaultRates))
	return nil
}

func (s *CurrencyService) Upsert(ctx context.Context, c *models.CurrencyRate) error {
	c.FromCurrency = normalizeCurrency(c.FromCurrency)
	c.ToCurrency = normalizeCurrency(c.ToCurrency)

	fields := map[string]string{}
	if len(c.FromCurrency) != 3 {
		fields["from_currency"] = "Use a 3-letter currency code"
	}
	if len(c.ToCurrency) != 3 {
		fields["to_currency"] = "Use a 3-letter currency code"
	}
	if c.FromCurrency != "" && c.FromCurrency == c.ToCurrency {
		fields["to_currency"] = "Currencies must differ"
	}
	if !(c.Rate > 0) || math.IsInf(c.Rate, 0) {
		fields["rate"] = "Rate must be a positive number"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return s.repo.Upsert(ctx, c)
}

// Convert uses a direct rate, else the inverse of the opposite pair, else a
// two-step path through one intermediate currency.
func (s *CurrencyService) Convert(ctx context.Context, from, to string, amount float64) (*models.Conversion, error) {
	from, to = normalizeCurrency(from), normalizeCurrency(to)
	if from == "" || to == "" {
		return nil, &ValidationError{Fields: map[string]string{"currency": "from and to are required"}}
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return nil, &ValidationError{Fields: map[string]string{"amount": "Amount must be a number"}}
	}

	out := &models.Conversion{From: from, To: to, Amount: amount}
	if from == to {
		out.Rate, out.Result = 1, amount
		return out, nil
	}

	rates, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	graph := rateGraph(rates)

	if r, ok := graph[from][to]; ok {
		out.Rate = r
	} else {
		vias := make([]string, 0, len(graph[from]))
		for via := range graph[from] {
			vias = append(vias, via)
		}
		sort.Strings(vias)
		for _, via := range vias {
			first := graph[from][via]
			if second, ok := graph[via][to]; ok {
				out.Rate = first * second
				out.Via = via
				break
			}
		}
	}
	if out.Rate == 0 {
		return nil, &NotFoundError{Message: fmt.Sprintf("No rate available for %s→%s", from, to)}
	}

	out.Result = math.Round(amount*out.Rate*100) / 100
	return out, nil
}

// rateGraph holds every usable edge. Stored pairs win over inverses.
func rateGraph(rates []*models.CurrencyRate) map[string]map[string]float64 {
	g := map[string]map[string]float64{}
	set := func(a, b string, r float64, override bool) {
		if g[a] == nil {
			g[a] = map[string]float64{}
		}
		if _, exists := g[a][b]; exists && !override {
			return
		}
		g[a][b] = r
	}
	for _, r := range rates {
		if r.Rate <= 0 {
			continue
		}
		set(r.FromCurrency, r.ToCurrency, r.Rate, true)
	}
	for _, r := range rates {
		if r.Rate <= 0 {
			continue
		}
		set(r.ToCurrency, r.FromCurrency, 1/r.Rate, false)
	}
	return g
}

func normalizeCurrency(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
