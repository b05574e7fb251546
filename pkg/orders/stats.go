package orders

import (
	"math"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"orderdash/pkg/normalize"
)

const topN = 5

// UndatedKey groups orders without a createdDate in the sales trend.
const UndatedKey = "undated"

// Ranked is a name with its sales total.
type Ranked struct {
	Name     string  `json:"name"`
	Slug     string  `json:"slug,omitempty"`
	Total    float64 `json:"total"`
	Quantity float64 `json:"quantity,omitempty"`
}

// DailyStats are the figures for one day.
type DailyStats struct {
	TotalSales    float64  `json:"totalSales"`
	TotalOrders   int      `json:"totalOrders"`
	AverageBasket float64  `json:"averageBasket"`
	TopProducts   []Ranked `json:"topProducts"`
	TopCities     []Ranked `json:"topCities"`
}

// KPIs summarise a list of orders.
type KPIs struct {
	TotalSales    float64 `json:"totalSales"`
	TotalOrders   int     `json:"totalOrders"`
	AverageBasket float64 `json:"averageBasket"`
	UniqueCities  int     `json:"uniqueCities"`
}

// TrendPoint is the sales of one day.
type TrendPoint struct {
	Date   string  `json:"date"`
	Total  float64 `json:"total"`
	Orders int     `json:"orders"`
}

// Summary is the reporting view of a list of orders.
type Summary struct {
	KPIs        KPIs         `json:"kpis"`
	TopProducts []Ranked     `json:"topProducts"`
	SalesTrend  []TrendPoint `json:"salesTrend"`
}

func sumSubtotals(orders []Order) float64 {
	total := decimal.Zero
	for _, o := range orders {
		total = total.Add(decimal.NewFromFloat(o.Subtotal))
	}
	f, _ := total.Float64()
	return f
}

func averageBasket(total float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return math.Round(total / float64(n))
}

// ComputeKPIs returns totals over orders.
func ComputeKPIs(orders []Order) KPIs {
	total := sumSubtotals(orders)
	cities := make(map[string]bool)
	for _, o := range orders {
		if o.City != "" {
			cities[o.City] = true
		}
	}
	return KPIs{
		TotalSales:    total,
		TotalOrders:   len(orders),
		AverageBasket: averageBasket(total, len(orders)),
		UniqueCities:  len(cities),
	}
}

// ComputeDailyStats computes the figures of the orders created on date (YYYY-MM-DD).
func ComputeDailyStats(orders []Order, date string) DailyStats {
	day := Filters{Date: date}.Apply(orders)
	total := sumSubtotals(day)
	return DailyStats{
		TotalSales:    total,
		TotalOrders:   len(day),
		AverageBasket: averageBasket(total, len(day)),
		TopProducts:   rank(day, func(o Order) string { return o.ProductName }, false),
		TopCities:     rank(day, func(o Order) string { return o.City }, false),
	}
}

// Summarize computes KPIs, best sellers and the daily sales trend.
func Summarize(orders []Order) Summary {
	return Summary{
		KPIs:        ComputeKPIs(orders),
		TopProducts: rank(orders, func(o Order) string { return o.ProductName }, true),
		SalesTrend:  salesTrend(orders),
	}
}

func rank(orders []Order, key func(Order) string, withQuantity bool) []Ranked {
	index := make(map[string]int)
	var out []Ranked
	for _, o := range orders {
		k := key(o)
		if k == "" {
			continue
		}
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, Ranked{Name: k})
		}
		out[i].Total += o.Subtotal
		if withQuantity {
			out[i].Quantity += o.ProductQuantity
		}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Total > out[b].Total })
	if len(out) > topN {
		out = out[:topN]
	}
	if withQuantity {
		for i := range out {
			out[i].Slug = normalize.ProductSlug(out[i].Name)
		}
	}
	if out == nil {
		out = []Ranked{}
	}
	return out
}

func salesTrend(orders []Order) []TrendPoint {
	index := make(map[string]int)
	var out []TrendPoint
	for _, o := range orders {
		key := UndatedKey
		if len(o.CreatedDate) >= 10 {
			key = o.CreatedDate[:10]
		}
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, TrendPoint{Date: key})
		}
		out[i].Total += o.Subtotal
		out[i].Orders++
	}
	sort.Slice(out, func(a, b int) bool { return strings.Compare(out[a].Date, out[b].Date) < 0 })
	if out == nil {
		out = []TrendPoint{}
	}
	return out
}
