package catalog

import (
	"errors"
	"time"
)

var (
	ErrInvalidPackage = errors.New("invalid package type")
	ErrOutOfRange     = errors.New("amount is outside the package range")
)

// Definition describes one investment tier. Definitions are immutable and
// loaded once at process start.
type Definition struct {
	ID           string
	MinAmount    float64
	MaxAmount    float64
	DailyRate    float64 // percent per day
	DurationDays int
}

func (d Definition) Duration() time.Duration {
	return time.Duration(d.DurationDays) * 24 * time.Hour
}

// DailyProfit is the profit accrued per day for a principal of amount.
func (d Definition) DailyProfit(amount float64) float64 {
	return amount * d.DailyRate / 100
}

type Catalog struct {
	packages map[string]Definition
}

func New(defs []Definition) *Catalog {
	packages := make(map[string]Definition, len(defs))
	for _, def := range defs {
		packages[def.ID] = def
	}
	return &Catalog{packages: packages}
}

// Default returns the production tier table.
func Default() *Catalog {
	return New([]Definition{
		{ID: "Basic", MinAmount: 500, MaxAmount: 5000, DailyRate: 15.0, DurationDays: 5},
		{ID: "Pro", MinAmount: 15000, MaxAmount: 90000, DailyRate: 8.0, DurationDays: 10},
		{ID: "Premium", MinAmount: 30000, MaxAmount: 2500000, DailyRate: 8.0, DurationDays: 30},
		{ID: "Retirement", MinAmount: 60000, MaxAmount: 100000000, DailyRate: 8.0, DurationDays: 120},
		{ID: "Dynasty", MinAmount: 269000, MaxAmount: 2684000, DailyRate: 8.0, DurationDays: 190},
		{ID: "Annual", MinAmount: 2687883, MaxAmount: 26878960, DailyRate: 8.0, DurationDays: 365},
	})
}

func (c *Catalog) Resolve(packageID string) (Definition, error) {
	def, ok := c.packages[packageID]
	if !ok {
		return Definition{}, ErrInvalidPackage
	}
	return def, nil
}

func (c *Catalog) ValidateAmount(def Definition, amount float64) error {
	if amount < def.MinAmount || amount > def.MaxAmount {
		return ErrOutOfRange
	}
	return nil
}
