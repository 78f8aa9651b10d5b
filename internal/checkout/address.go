package checkout

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/khagesh-wolf/Himalaya-Vitality-sub000/internal/order/domain"
)

const (
	minStreetLen = 4
	minCityLen   = 2
	minPostalLen = 3
)

// FieldError is one buyer-facing validation failure, surfaced against the
// form field that caused it.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	fields := make([]string, len(v))
	for i, fe := range v {
		fields[i] = fe.Field
	}
	return fmt.Sprintf("invalid address fields: %s", strings.Join(fields, ", "))
}

// Address is the shipping address submitted in the first checkout step.
type Address struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// Validate runs field-level checks. The country only needs to be a country
// code; unknown codes resolve to the fallback region rather than failing.
func (a Address) Validate() error {
	var errs ValidationErrors

	if strings.TrimSpace(a.FirstName) == "" {
		errs = append(errs, FieldError{Field: "first_name", Message: "first name is required"})
	}
	if strings.TrimSpace(a.LastName) == "" {
		errs = append(errs, FieldError{Field: "last_name", Message: "last name is required"})
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(a.Email)); err != nil {
		errs = append(errs, FieldError{Field: "email", Message: "email address is invalid"})
	}
	if len(strings.TrimSpace(a.Street)) < minStreetLen {
		errs = append(errs, FieldError{Field: "street", Message: fmt.Sprintf("street must be at least %d characters", minStreetLen)})
	}
	if len(strings.TrimSpace(a.City)) < minCityLen {
		errs = append(errs, FieldError{Field: "city", Message: fmt.Sprintf("city must be at least %d characters", minCityLen)})
	}
	if len(strings.TrimSpace(a.PostalCode)) < minPostalLen {
		errs = append(errs, FieldError{Field: "postal_code", Message: fmt.Sprintf("postal code must be at least %d characters", minPostalLen)})
	}
	if len(strings.TrimSpace(a.Country)) != 2 {
		errs = append(errs, FieldError{Field: "country", Message: "country must be a two-letter code"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Snapshot freezes the address into the order's customer record.
func (a Address) Snapshot() domain.CustomerSnapshot {
	return domain.CustomerSnapshot{
		FirstName:  strings.TrimSpace(a.FirstName),
		LastName:   strings.TrimSpace(a.LastName),
		Email:      strings.TrimSpace(a.Email),
		Street:     strings.TrimSpace(a.Street),
		City:       strings.TrimSpace(a.City),
		PostalCode: strings.TrimSpace(a.PostalCode),
		Country:    strings.ToUpper(strings.TrimSpace(a.Country)),
	}
}
