package checkout

import (
	"strings"

	"github.com/xenking/shopfront/internal/domain/order"
)

// ValidationError aggregates every missing required field of an address
// submission into a single message listing all field labels.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Missing, ", ")
}

var addressFields = []struct {
	label string
	value func(order.Address) string
}{
	{"street", func(a order.Address) string { return a.Street }},
	{"city", func(a order.Address) string { return a.City }},
	{"state", func(a order.Address) string { return a.State }},
	{"postal code", func(a order.Address) string { return a.PostalCode }},
	{"country", func(a order.Address) string { return a.Country }},
}

// validateAddresses checks that every shipping field is non-empty after
// trimming, and every billing field too unless billing is flagged to mirror
// shipping. All missing labels are reported at once.
func validateAddresses(shipping, billing order.Address, sameAsShipping bool) error {
	var missing []string
	for _, f := range addressFields {
		if strings.TrimSpace(f.value(shipping)) == "" {
			missing = append(missing, "shipping "+f.label)
		}
	}
	if !sameAsShipping {
		for _, f := range addressFields {
			if strings.TrimSpace(f.value(billing)) == "" {
				missing = append(missing, "billing "+f.label)
			}
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}
