package tax

import (
	"testing"

	"go-pos-ws/internal/model"

	"github.com/stretchr/testify/assert"
)

func taxType(id, code string, rate float64, enabled bool) model.TaxType {
	t := model.TaxType{Code: code, Name: code, Rate: rate, Enabled: enabled}
	t.ID = id
	return t
}

func TestCalculate_StandardRate(t *testing.T) {
	breakdown := Calculate(100000, []model.TaxType{taxType("t1", "PPN", 11, true)})

	assert.Len(t, breakdown.Taxes, 1)
	assert.Equal(t, int64(11000), breakdown.Taxes[0].Amount)
	assert.Equal(t, int64(11000), breakdown.TotalTax)
	assert.Equal(t, int64(111000), breakdown.Total)
}

func TestCalculate_RoundsHalfToNearest(t *testing.T) {
	// 333 * 10.5% = 34.965 -> 35
	breakdown := Calculate(333, []model.TaxType{taxType("t1", "SVC", 10.5, true)})

	assert.Equal(t, int64(35), breakdown.Taxes[0].Amount)
	assert.Equal(t, int64(368), breakdown.Total)
}

func TestCalculate_SkipsDisabledTypes(t *testing.T) {
	breakdown := Calculate(1000, []model.TaxType{
		taxType("t1", "PPN", 11, true),
		taxType("t2", "LUX", 20, false),
	})

	assert.Len(t, breakdown.Taxes, 1)
	assert.Equal(t, "PPN", breakdown.Taxes[0].Code)
	assert.Equal(t, int64(110), breakdown.TotalTax)
}

func TestCalculate_KeepsInputOrder(t *testing.T) {
	breakdown := Calculate(5000, []model.TaxType{
		taxType("t1", "SVC", 5, true),
		taxType("t2", "PPN", 11, true),
		taxType("t3", "LOCAL", 1, true),
	})

	codes := []string{breakdown.Taxes[0].Code, breakdown.Taxes[1].Code, breakdown.Taxes[2].Code}
	assert.Equal(t, []string{"SVC", "PPN", "LOCAL"}, codes)
	assert.Equal(t, int64(250+550+50), breakdown.TotalTax)
}

func TestCalculate_EmptyTypes(t *testing.T) {
	breakdown := Calculate(9999, nil)

	assert.Empty(t, breakdown.Taxes)
	assert.Equal(t, int64(0), breakdown.TotalTax)
	assert.Equal(t, int64(9999), breakdown.Total)
}
