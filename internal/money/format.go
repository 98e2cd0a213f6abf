// Package money はストアフロント表示用の金額整形。
package money

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	groupSep   = "."
	decimalSep = ","
)

var symbol = message.NewPrinter(language.BrazilianPortuguese).Sprint(currency.Symbol(currency.BRL))

// FormatValue は pt-BR の区切りで "R$ 1.234,50" の形にする。
// 記号と数字の間は半角スペース1つ。float を経由しないので桁落ちしない。
func FormatValue(v decimal.Decimal) string {
	v = v.Round(2)
	sign := ""
	if v.IsNegative() {
		sign = "-"
		v = v.Neg()
	}

	intPart, frac, _ := strings.Cut(v.StringFixed(2), ".")
	return sign + symbol + " " + group(intPart) + decimalSep + frac
}

// group は整数部を3桁ごとに区切る。
func group(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(groupSep)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
