package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "grouping and decimals", in: "1234.5", want: "R$ 1.234,50"},
		{name: "zero", in: "0", want: "R$ 0,00"},
		{name: "cents", in: "0.99", want: "R$ 0,99"},
		{name: "millions", in: "1000000", want: "R$ 1.000.000,00"},
		{name: "rounds to cents", in: "10.005", want: "R$ 10,01"},
		{name: "negative", in: "-10", want: "-R$ 10,00"},
		{name: "negative rounds to zero", in: "-0.001", want: "R$ 0,00"},
		{name: "exact beyond float precision", in: "12345678901234567.89", want: "R$ 12.345.678.901.234.567,89"},
		{name: "three digits", in: "999.999", want: "R$ 1.000,00"},
		{name: "six digits", in: "123456", want: "R$ 123.456,00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatValue(decimal.RequireFromString(tt.in)))
		})
	}
}
