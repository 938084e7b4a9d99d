package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateEvent checks the structural invariants of an event record: known category and status,
// start before end, booked within capacity, and pricing consistent with its type.
func ValidateEvent(e Event) error {
	var msgs []string
	if err := validate.Struct(e); err != nil {
		msgs = append(msgs, fieldErrors(err)...)
	}
	switch {
	case e.Pricing.Type == PricingFree && e.Pricing.Amount != 0:
		msgs = append(msgs, "free events must have amount 0")
	case e.Pricing.Type == PricingPaid && e.Pricing.Amount <= 0:
		msgs = append(msgs, "paid events must have a positive amount")
	}
	if len(msgs) > 0 {
		return fmt.Errorf("%w: %s", ErrValidation, strings.Join(msgs, "; "))
	}
	return nil
}

// ValidateStruct runs tag validation on any input DTO and wraps failures in ErrValidation.
func ValidateStruct(v any) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %s", ErrValidation, strings.Join(fieldErrors(err), "; "))
	}
	return nil
}

func fieldErrors(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s failed %s=%s", fe.Namespace(), fe.Tag(), fe.Param()))
			continue
		}
		msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
	}
	return msgs
}

// IsEmail reports whether s passes the address rule used by ValidateStruct's email tag.
func IsEmail(s string) bool {
	return validate.Var(strings.TrimSpace(s), "required,email") == nil
}
