package wizard

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Totals is the derived checkout pricing in integer pence
type Totals struct {
	SubtotalPence int64
	TaxPence      int64
	TotalPence    int64
}

// ComputeTotals derives checkout pricing from the plan. Subtotal is the
// discounted unit price times the duration; tax is subtotal x VAT rounded
// half-up to the nearest penny.
func ComputeTotals(discountedPricePence int64, durationMonths int, vatRate int) Totals {
	subtotal := discountedPricePence * int64(durationMonths)
	tax := decimal.NewFromInt(subtotal).
		Mul(decimal.NewFromInt(int64(vatRate))).
		Div(decimal.NewFromInt(100)).
		Round(0).
		IntPart()
	return Totals{
		SubtotalPence: subtotal,
		TaxPence:      tax,
		TotalPence:    subtotal + tax,
	}
}

// FormatPrice renders integer pence as a display price, e.g. "£83.88"
func FormatPrice(symbol string, pence int64) string {
	return fmt.Sprintf("%s%d.%02d", symbol, pence/100, pence%100)
}
