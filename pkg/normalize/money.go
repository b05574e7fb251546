package normalize

import (
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultCurrency is appended to formatted amounts when none is configured.
const DefaultCurrency = "FCFA"

// FormatMoney renders a whole amount with French digit grouping, e.g. "2 469 FCFA".
func FormatMoney(amount float64, currency string) string {
	if currency == "" {
		currency = DefaultCurrency
	}
	p := message.NewPrinter(language.French)
	s := p.Sprintf("%d", int64(math.Round(amount)))
	return strings.TrimSpace(s) + " " + currency
}
