package cart

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Subtotal returns the sum of price * quantity across all lines, using the
// locally cached snapshot prices.
func (s *Store) Subtotal() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sum := decimal.Zero
	for _, line := range s.lines {
		sum = sum.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return sum
}

// Total applies a percentage discount to the subtotal:
// subtotal * (1 - pct/100), rounded to 2 decimal places and clamped at zero.
// A zero percentage leaves the total equal to the rounded subtotal.
func (s *Store) Total(pct decimal.Decimal) decimal.Decimal {
	subtotal := s.Subtotal()
	total := subtotal.Sub(subtotal.Mul(pct).Div(hundred))
	if total.IsNegative() {
		total = decimal.Zero
	}
	return total.Round(2)
}
