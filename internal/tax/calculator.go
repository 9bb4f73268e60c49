// Package tax computes per-type tax amounts for a sale subtotal.
// Amounts are whole currency units (no fractional sub-units), so each raw
// percentage product is rounded half away from zero to the nearest integer.
package tax

import (
	"math"

	"go-pos-ws/internal/model"
)

// Line is one computed tax amount for an enabled tax type
type Line struct {
	TaxTypeID string  `json:"tax_type_id"`
	Code      string  `json:"code"`
	Name      string  `json:"name"`
	Rate      float64 `json:"rate"`
	Amount    int64   `json:"amount"`
}

// Breakdown is the full tax computation for a subtotal
type Breakdown struct {
	Taxes    []Line `json:"taxes"`
	TotalTax int64  `json:"total_tax"`
	Total    int64  `json:"total"`
}

// Calculate applies every enabled tax type to the subtotal. The output lines
// keep the input order (stable, never re-sorted) so previews and persisted
// sale taxes always line up. Disabled types are skipped. Pure function, safe
// to call on every cart edit.
func Calculate(subtotal int64, types []model.TaxType) Breakdown {
	breakdown := Breakdown{Taxes: make([]Line, 0, len(types))}

	for _, t := range types {
		if !t.Enabled {
			continue
		}
		amount := int64(math.Round(float64(subtotal) * t.Rate / 100))
		breakdown.Taxes = append(breakdown.Taxes, Line{
			TaxTypeID: t.ID,
			Code:      t.Code,
			Name:      t.Name,
			Rate:      t.Rate,
			Amount:    amount,
		})
		breakdown.TotalTax += amount
	}

	breakdown.Total = subtotal + breakdown.TotalTax
	return breakdown
}
