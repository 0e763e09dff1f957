// =============================================================================
// Sales Ledger - Sale Input Validation
// =============================================================================
//
// This module checks a sale as typed into the form (or the CLI) before it is
// turned into a record. The ledger core accepts whatever it is given; these
// rules belong to the input boundary only.
//
// RULES:
//   - Date:          required
//   - Quantity:      greater than zero
//   - ItemName:      required, not blank
//   - PaymentMethod: "E" (efectivo) or "T" (tarjeta)
//   - UnitPrice:     greater than zero
//   - TotalSale:     zero or positive when given
//
// ERROR HANDLING:
//   - All violations are collected, not just the first
//   - Each error names the form field, the offending value and the rule
//
// =============================================================================

package validation

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ginjaninja78/sales-ledger/internal/types"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// Payment method codes accepted by the form.
const (
	PaymentCash = "E"
	PaymentCard = "T"
)

// =============================================================================
// SALE INPUT
// =============================================================================

// SaleInput is one sale as entered by the user.
type SaleInput struct {
	Date          time.Time `validate:"required"`
	Quantity      float64   `validate:"gt=0"`
	ItemName      string    `validate:"required,notblank"`
	PaymentMethod string    `validate:"required,oneof=E T"`
	UnitPrice     float64   `validate:"gt=0"`

	// TotalSale is optional; zero means derive it from quantity and price.
	TotalSale float64 `validate:"gte=0"`

	Comment string
}

// ToRecord converts the input into a ledger record. An empty comment and a
// zero total are left out so the ledger leaves those cells alone (and derives
// the total).
func (in SaleInput) ToRecord() types.SaleRecord {
	record := types.SaleRecord{
		types.FieldDate:          in.Date,
		types.FieldQuantity:      in.Quantity,
		types.FieldItemName:      strings.TrimSpace(in.ItemName),
		types.FieldPaymentMethod: strings.ToUpper(strings.TrimSpace(in.PaymentMethod)),
		types.FieldUnitPrice:     in.UnitPrice,
	}
	if in.TotalSale > 0 {
		record[types.FieldTotalSale] = in.TotalSale
	}
	if c := strings.TrimSpace(in.Comment); c != "" {
		record[types.FieldComment] = c
	}
	return record
}

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

// ValidationError represents a single failed rule.
type ValidationError struct {
	// Field is the form field that failed validation.
	Field string

	// Value is the value that failed, as text.
	Value string

	// Rule is the tag of the rule that was violated.
	Rule string

	// Message is a human-readable error message.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (value: %q)", e.Field, e.Message, e.Value)
}

// =============================================================================
// VALIDATOR
// =============================================================================

// Validator checks sale inputs.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a Validator. It panics if a custom rule cannot be
// registered, which only happens on a programming error.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(fmt.Sprintf("validation: register notblank: %v", err))
	}
	return &Validator{validate: v}
}

// Validate checks in against the sale rules.
//
// RETURNS:
//   - nil when the input is valid, otherwise every violation found.
func (v *Validator) Validate(in SaleInput) []*ValidationError {
	err := v.validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []*ValidationError{{Field: "sale", Rule: "struct", Message: err.Error()}}
	}

	out := make([]*ValidationError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, &ValidationError{
			Field:   fe.StructField(),
			Value:   fmt.Sprint(fe.Value()),
			Rule:    fe.Tag(),
			Message: ruleMessage(fe),
		})
	}
	return out
}

// ruleMessage maps a validator tag to a short message for the user.
func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "is required"
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	default:
		return "failed rule " + fe.Tag()
	}
}

// =============================================================================
// ERROR FORMATTING
// =============================================================================

// FormatErrors joins validation errors into one multi-line message.
func FormatErrors(errs []*ValidationError) string {
	if len(errs) == 0 {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation error(s):", len(errs))
	for _, e := range errs {
		sb.WriteString("\n  - ")
		sb.WriteString(e.Error())
	}
	return sb.String()
}
