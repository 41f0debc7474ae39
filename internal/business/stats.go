package business

import (
	"sort"
	"time"

	"github.com/luvora/luvora/internal/business/format"
)

// CalculateStats derives the aggregate totals from raw collections. The
// result depends only on the arguments and the supplied clock, so
// recomputing on an unchanged snapshot is idempotent.
func CalculateStats(inventory []InventoryItem, sales []Sale, transactions []Transaction, now time.Time) BusinessStats {
	var stats BusinessStats
	month, year := now.Month(), now.Year()

	for _, t := range transactions {
		switch t.Type {
		case TransactionInvestment:
			stats.TotalInvestment += t.Amount
		case TransactionSale:
			stats.TotalSales += t.Amount
			if t.Date.Month() == month && t.Date.Year() == year {
				stats.MonthlySales += t.Amount
			}
		}
	}

	for _, s := range sales {
		stats.TotalProfit += s.Profit
		if s.Date.Month() == month && s.Date.Year() == year {
			stats.MonthlyProfit += s.Profit
		}
		if s.PaymentStatus == PaymentPending {
			stats.PendingPayments++
			stats.TotalPendingAmount += s.SalePrice * float64(s.Quantity)
		}
	}

	for _, item := range inventory {
		stats.StockValue += item.CostPrice * float64(item.Quantity)
		stats.StockQuantity += item.Quantity
		if item.Quantity <= LowStockThreshold {
			stats.LowStockItems++
		}
	}

	return stats
}

// CalculatePendingPayments lists uncollected sales, oldest debt first
// (descending by days pending).
func CalculatePendingPayments(sales []Sale, now time.Time) []PendingPayment {
	pending := make([]PendingPayment, 0)
	for _, s := range sales {
		if s.PaymentStatus != PaymentPending {
			continue
		}
		customer := s.CustomerName
		if customer == "" {
			customer = "Unknown"
		}
		pending = append(pending, PendingPayment{
			SaleID:       s.ID,
			ItemName:     s.ItemName,
			CustomerName: customer,
			Quantity:     s.Quantity,
			TotalAmount:  s.SalePrice * float64(s.Quantity),
			SaleDate:     s.Date,
			DaysPending:  format.DaysPendingAt(s.Date, now),
		})
	}
	sort.SliceStable(pending, func(i, j int) bool {
		return pending[i].DaysPending > pending[j].DaysPending
	})
	return pending
}

// CalculatePaymentSummary splits revenue between collected and pending.
// The ratio is defined as 0 when there are no sales.
func CalculatePaymentSummary(sales []Sale) PaymentSummary {
	summary := PaymentSummary{TotalSales: len(sales)}
	for _, s := range sales {
		amount := s.SalePrice * float64(s.Quantity)
		summary.TotalRevenue += amount
		if s.PaymentStatus == PaymentPending {
			summary.PendingSales++
			summary.PendingDues += amount
		}
	}
	summary.CollectedCash = summary.TotalRevenue - summary.PendingDues
	if summary.TotalSales > 0 {
		paid := summary.TotalSales - summary.PendingSales
		summary.PaidVsPendingRatio = float64(paid) / float64(summary.TotalSales) * 100
	}
	return summary
}
