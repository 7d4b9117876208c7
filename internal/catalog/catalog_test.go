package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCatalog_Resolve(t *testing.T) {
	cat := Default()

	tests := []struct {
		name      string
		packageID string
		expectErr error
	}{
		{name: "Known package", packageID: "Basic"},
		{name: "Another known package", packageID: "Annual"},
		{name: "Unknown package", packageID: "Platinum", expectErr: ErrInvalidPackage},
		{name: "Empty package", packageID: "", expectErr: ErrInvalidPackage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, err := cat.Resolve(tt.packageID)
			if tt.expectErr != nil {
				assert.ErrorIs(t, err, tt.expectErr)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.packageID, def.ID)
			}
		})
	}
}

func TestCatalog_ValidateAmount(t *testing.T) {
	cat := Default()
	basic, err := cat.Resolve("Basic")
	assert.NoError(t, err)

	tests := []struct {
		name      string
		amount    float64
		expectErr error
	}{
		{name: "Lower bound", amount: 500},
		{name: "Upper bound", amount: 5000},
		{name: "Inside range", amount: 1000},
		{name: "Below minimum", amount: 499.99, expectErr: ErrOutOfRange},
		{name: "Above maximum", amount: 5000.01, expectErr: ErrOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := cat.ValidateAmount(basic, tt.amount)
			if tt.expectErr != nil {
				assert.ErrorIs(t, err, tt.expectErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDefinition_DailyProfit(t *testing.T) {
	tests := []struct {
		name      string
		packageID string
		amount    float64
		expected  float64
	}{
		{name: "Basic at 15 percent", packageID: "Basic", amount: 1000, expected: 150},
		{name: "Pro at 8 percent", packageID: "Pro", amount: 20000, expected: 1600},
		{name: "Annual at 8 percent", packageID: "Annual", amount: 3000000, expected: 240000},
	}

	cat := Default()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, err := cat.Resolve(tt.packageID)
			assert.NoError(t, err)
			assert.InDelta(t, tt.expected, def.DailyProfit(tt.amount), 1e-9)
		})
	}
}

func TestDefinition_Duration(t *testing.T) {
	cat := Default()

	basic, _ := cat.Resolve("Basic")
	assert.Equal(t, 5*24*time.Hour, basic.Duration())

	annual, _ := cat.Resolve("Annual")
	assert.Equal(t, 365*24*time.Hour, annual.Duration())
}

func TestDefault_Tiers(t *testing.T) {
	cat := Default()

	for _, id := range []string{"Basic", "Pro", "Premium", "Retirement", "Dynasty", "Annual"} {
		def, err := cat.Resolve(id)
		assert.NoError(t, err)
		assert.Greater(t, def.MaxAmount, def.MinAmount)
		assert.Greater(t, def.DailyRate, 0.0)
		assert.Greater(t, def.DurationDays, 0)
	}
}
