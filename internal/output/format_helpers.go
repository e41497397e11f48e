package output

import (
	"strconv"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/rgehrsitz/dcaplan/internal/domain"
	"github.com/shopspring/decimal"
)

// DefaultCurrencySymbol is the Thai baht sign.
const DefaultCurrencySymbol = "฿"

var (
	symbolMu       sync.RWMutex
	currencySymbol = DefaultCurrencySymbol
)

// SetCurrencySymbol changes the symbol used by FormatCurrency. Empty restores the default.
func SetCurrencySymbol(symbol string) {
	if symbol == "" {
		symbol = DefaultCurrencySymbol
	}
	symbolMu.Lock()
	currencySymbol = symbol
	symbolMu.Unlock()
}

// CurrencySymbol returns the active currency symbol.
func CurrencySymbol() string {
	symbolMu.RLock()
	defer symbolMu.RUnlock()
	return currencySymbol
}

// FormatCurrency formats a decimal as currency with thousands separators and 2 decimals.
func FormatCurrency(amount decimal.Decimal) string {
	amount = amount.Round(2)
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Abs()
	}
	return sign + CurrencySymbol() + humanize.FormatFloat("#,###.##", amount.InexactFloat64())
}

// FormatAmount formats an engine float as currency.
func FormatAmount(v float64) string { return FormatCurrency(domain.Money(v)) }

// FormatPercentage formats a decimal as a percentage with 2 decimals.
func FormatPercentage(amount decimal.Decimal) string { return amount.StringFixed(2) + "%" }

// FormatRate formats a percent float with 2 decimals.
func FormatRate(percent float64) string { return strconv.FormatFloat(percent, 'f', 2, 64) + "%" }

func intToString(i int) string { return strconv.Itoa(i) }

func int64ToString(i int64) string { return strconv.FormatInt(i, 10) }

func floatToString(v float64) string { return domain.Money(v).StringFixed(2) }

func rateToString(percent float64) string { return strconv.FormatFloat(percent, 'f', 4, 64) }
