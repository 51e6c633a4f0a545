// Package render formats Insights for the console, the indicator panel and chat.
package render

import (
	"strings"
	"sync"

	"github.com/shopspring/decimal"
)

var (
	signMu        sync.RWMutex
	currencySigns = map[string]string{
		"USD": "$",
		"INR": "₹",
		"EUR": "€",
		"GBP": "£",
		"JPY": "¥",
		"CNY": "¥",
	}
)

// SetCurrencySign overrides the display sign for code.
func SetCurrencySign(code, sign string) {
	signMu.Lock()
	defer signMu.Unlock()
	currencySigns[strings.ToUpper(code)] = sign
}

// CurrencySign maps an ISO currency code to its display sign.
// Unknown codes are printed as a prefix, e.g. "CHF 12.00".
func CurrencySign(code string) string {
	code = strings.ToUpper(code)
	signMu.RLock()
	s, ok := currencySigns[code]
	signMu.RUnlock()
	if ok {
		return s
	}
	if code == "" {
		return ""
	}
	return code + " "
}

// Money formats v with two fixed decimals behind the currency sign.
func Money(code string, v float64) string {
	d := decimal.NewFromFloat(v).Round(2)
	if d.IsNegative() {
		return "-" + CurrencySign(code) + d.Neg().StringFixed(2)
	}
	return CurrencySign(code) + d.StringFixed(2)
}
