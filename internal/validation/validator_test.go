package validation

import (
	"testing"
	"time"

	"github.com/ginjaninja78/sales-ledger/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() SaleInput {
	return SaleInput{
		Date:          time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		Quantity:      2,
		ItemName:      "Bolsa",
		PaymentMethod: PaymentCash,
		UnitPrice:     120,
	}
}

func TestNewValidatorRegistersCustomRules(t *testing.T) {
	assert.NotPanics(t, func() { NewValidator() })
}

func TestValidateAcceptsValidInput(t *testing.T) {
	assert.Empty(t, NewValidator().Validate(validInput()))
}

func TestValidateRules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*SaleInput)
		field  string
		rule   string
	}{
		{"missing date", func(in *SaleInput) { in.Date = time.Time{} }, "Date", "required"},
		{"zero quantity", func(in *SaleInput) { in.Quantity = 0 }, "Quantity", "gt"},
		{"negative quantity", func(in *SaleInput) { in.Quantity = -1 }, "Quantity", "gt"},
		{"empty item", func(in *SaleInput) { in.ItemName = "" }, "ItemName", "required"},
		{"blank item", func(in *SaleInput) { in.ItemName = "   " }, "ItemName", "notblank"},
		{"unknown payment", func(in *SaleInput) { in.PaymentMethod = "X" }, "PaymentMethod", "oneof"},
		{"zero price", func(in *SaleInput) { in.UnitPrice = 0 }, "UnitPrice", "gt"},
		{"negative total", func(in *SaleInput) { in.TotalSale = -10 }, "TotalSale", "gte"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)

			errs := NewValidator().Validate(in)
			require.Len(t, errs, 1)
			assert.Equal(t, tt.field, errs[0].Field)
			assert.Equal(t, tt.rule, errs[0].Rule)
			assert.NotEmpty(t, errs[0].Message)
		})
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	errs := NewValidator().Validate(SaleInput{PaymentMethod: "Z"})
	assert.Len(t, errs, 5)

	msg := FormatErrors(errs)
	assert.Contains(t, msg, "5 validation error(s)")
	assert.Contains(t, msg, "PaymentMethod: must be one of E, T")
}

func TestToRecord(t *testing.T) {
	in := validInput()
	in.ItemName = "  Bolsa "
	in.PaymentMethod = "t"

	r := in.ToRecord()
	assert.Equal(t, "Bolsa", r[types.FieldItemName])
	assert.Equal(t, "T", r[types.FieldPaymentMethod])
	assert.False(t, r.Has(types.FieldTotalSale))
	assert.False(t, r.Has(types.FieldComment))

	in.TotalSale = 200
	in.Comment = "descuento"
	r = in.ToRecord()
	assert.Equal(t, 200.0, r[types.FieldTotalSale])
	assert.Equal(t, "descuento", r[types.FieldComment])
}

func TestFormatErrorsEmpty(t *testing.T) {
	assert.Empty(t, FormatErrors(nil))
}
