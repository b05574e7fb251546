package orders

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"orderdash/pkg/normalize"
)

var (
	frenchWeekdays = [...]string{"dimanche", "lundi", "mardi", "mercredi", "jeudi", "vendredi", "samedi"}
	frenchMonths   = [...]string{"janvier", "février", "mars", "avril", "mai", "juin", "juillet", "août", "septembre", "octobre", "novembre", "décembre"}
)

// groupPhone prints the digits of a phone number in pairs: "699000000" -> "69 90 00 00 0".
func groupPhone(raw string) string {
	var digits []rune
	for _, r := range raw {
		if unicode.IsDigit(r) {
			digits = append(digits, r)
		}
	}
	if len(digits) == 0 {
		return raw
	}
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && i%2 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(d)
	}
	return b.String()
}

func parseInstant(s string) (time.Time, bool) {
	t, err := time.Parse(normalize.ISOLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func deliveryDay(createdDate string) string {
	t, ok := parseInstant(createdDate)
	if !ok {
		return "À planifier"
	}
	return fmt.Sprintf("%s %02d %s %d", frenchWeekdays[t.Weekday()], t.Day(), frenchMonths[t.Month()-1], t.Year())
}

func deliveryTime(createdDate string) string {
	t, ok := parseInstant(createdDate)
	if !ok {
		return "À définir"
	}
	return t.Format("15:04")
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}

// FormatDeliveryMessage renders the text sent to the courier for one order.
func FormatDeliveryMessage(o Order, currency string) string {
	lines := []string{
		"Zendo",
		"",
		"Nom du client : " + orDash(o.FirstName),
		"Ville : " + orDash(o.City),
		"Lieu de la livraison : " + orDash(o.Address1),
		"Jour de livraison : " + deliveryDay(o.CreatedDate),
		"Numéro : " + groupPhone(o.Phone),
		"Heure de livraison : " + deliveryTime(o.CreatedDate),
		"Article : " + o.ProductName,
		"Quantité : " + fmt.Sprint(o.ProductQuantity),
		"Montant : " + normalize.FormatMoney(o.Subtotal, currency),
	}
	return strings.Join(lines, "\n")
}
