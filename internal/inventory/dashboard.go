package inventory

import (
	"slices"
	"strconv"
)

const (
	DashboardChartLimit = 6
	chartNameMaxLen     = 10
)

// Stats computes the dashboard headline numbers. Recent transactions are
// returned newest first.
func (s *State) Stats() DashboardStats {
	stats := DashboardStats{TotalItems: len(s.products)}
	for _, p := range s.products {
		if p.IsLowStock() {
			stats.LowStockItems++
		}
		stats.TotalValue += p.Value()
	}

	recent := slices.Clone(s.transactions)
	slices.Reverse(recent)
	slices.SortStableFunc(recent, func(a, b Transaction) int {
		return b.Date.Compare(a.Date)
	})
	stats.RecentTransactions = recent
	return stats
}

// StockChart returns bars for the first limit products.
func (s *State) StockChart(limit int) []ChartBar {
	n := min(limit, len(s.products))
	bars := make([]ChartBar, 0, n)
	for _, p := range s.products[:n] {
		bars = append(bars, ChartBar{
			Name:  chartName(p.Name),
			Stock: p.Quantity,
			Min:   p.MinStock,
			Low:   p.IsLowStock(),
		})
	}
	return bars
}

func chartName(name string) string {
	r := []rune(name)
	if len(r) > chartNameMaxLen {
		return string(r[:chartNameMaxLen]) + "..."
	}
	return name
}

// FormatPrice renders a price in its shortest decimal form (25.99, 19.5, 89).
func FormatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', -1, 64)
}
