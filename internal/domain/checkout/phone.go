package checkout

import (
	"fmt"
	"regexp"

	"github.com/xenking/shopfront/internal/domain/order"
)

var (
	telebirrPattern = regexp.MustCompile(`^09\d{8}$`)
	mpesaPattern    = regexp.MustCompile(`^07\d{8}$`)
)

// PhoneError reports a phone number that does not match the provider's
// required national prefix and length. The message names the expected
// prefix so the UI can surface it directly.
type PhoneError struct {
	Provider order.Provider
	Prefix   string
}

func (e *PhoneError) Error() string {
	return fmt.Sprintf("%s numbers must be 10 digits starting with %s", e.Provider, e.Prefix)
}

// ValidatePhone checks phone against the provider's format: 10 digits with
// a leading "09" for telebirr and "07" for mpesa.
func ValidatePhone(provider order.Provider, phone string) error {
	switch provider {
	case order.ProviderTelebirr:
		if !telebirrPattern.MatchString(phone) {
			return &PhoneError{Provider: provider, Prefix: "09"}
		}
	case order.ProviderMpesa:
		if !mpesaPattern.MatchString(phone) {
			return &PhoneError{Provider: provider, Prefix: "07"}
		}
	default:
		return fmt.Errorf("unsupported mobile-money provider: %q", provider)
	}
	return nil
}
