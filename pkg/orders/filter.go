package orders

import (
	"strings"

	"orderdash/pkg/normalize"
)

// Filters narrow a list of orders. Empty fields match everything.
type Filters struct {
	// Date is a prefix of createdDate, usually YYYY-MM-DD.
	Date    string
	City    string
	Address string
	// Product matches a substring of the name or its exact slug.
	Product string
	Phone   string
	Search  string
}

func contains(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// Match reports whether o passes every filter.
func (f Filters) Match(o Order) bool {
	if f.Date != "" && (o.CreatedDate == "" || !strings.HasPrefix(o.CreatedDate, f.Date)) {
		return false
	}
	if f.City != "" && (o.City == "" || !contains(o.City, f.City)) {
		return false
	}
	if f.Address != "" && !contains(o.Address1, f.Address) {
		return false
	}
	if f.Product != "" && !contains(o.ProductName, f.Product) {
		if _, ok := normalize.FindProductBySlug([]string{o.ProductName}, f.Product); !ok {
			return false
		}
	}
	if f.Phone != "" && !contains(o.Phone, f.Phone) {
		return false
	}
	if f.Search != "" {
		found := false
		for _, v := range []string{o.FirstName, o.ProductName, o.Phone, o.Address1, o.City, o.ProductLink} {
			if v != "" && contains(v, f.Search) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Apply returns the orders matching f, in their original order.
func (f Filters) Apply(orders []Order) []Order {
	out := make([]Order, 0, len(orders))
	for _, o := range orders {
		if f.Match(o) {
			out = append(out, o)
		}
	}
	return out
}
