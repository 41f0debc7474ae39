package business

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateStatsSeparatesLedgers(t *testing.T) {
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)
	lastMonth := now.AddDate(0, -1, 0)

	transactions := []Transaction{
		{Type: TransactionInvestment, Amount: 100000, Date: lastMonth},
		{Type: TransactionSale, Amount: 8000, Date: now},
		{Type: TransactionSale, Amount: 5000, Date: lastMonth},
	}
	sales := []Sale{
		{Profit: 1500, Date: now, PaymentStatus: PaymentPaid, SalePrice: 2000, Quantity: 2},
		{Profit: 700, Date: lastMonth, PaymentStatus: PaymentPending, SalePrice: 900, Quantity: 1},
	}
	inventory := []InventoryItem{
		{CostPrice: 500, Quantity: 10},
		{CostPrice: 1200, Quantity: 3},
	}

	stats := CalculateStats(inventory, sales, transactions, now)

	// Capital ledger figures come from transactions only.
	assert.InDelta(t, 100000, stats.TotalInvestment, 0.001)
	assert.InDelta(t, 13000, stats.TotalSales, 0.001)
	assert.InDelta(t, 8000, stats.MonthlySales, 0.001)

	// Profit figures come from the sales records only.
	assert.InDelta(t, 2200, stats.TotalProfit, 0.001)
	assert.InDelta(t, 1500, stats.MonthlyProfit, 0.001)

	assert.InDelta(t, 500*10+1200*3, stats.StockValue, 0.001)
	assert.Equal(t, 13, stats.StockQuantity)
	assert.Equal(t, 1, stats.LowStockItems)
	assert.Equal(t, 1, stats.PendingPayments)
	assert.InDelta(t, 900, stats.TotalPendingAmount, 0.001)
}

func TestCalculateStatsIsIdempotent(t *testing.T) {
	now := time.Now()
	sales := []Sale{{Profit: 100, Date: now, PaymentStatus: PaymentPaid}}
	inventory := []InventoryItem{{CostPrice: 10, Quantity: 2}}

	first := CalculateStats(inventory, sales, nil, now)
	second := CalculateStats(inventory, sales, nil, now)
	assert.Equal(t, first, second)
}

func TestCalculatePendingPaymentsOrdersOldestFirst(t *testing.T) {
	now := time.Now()
	sales := []Sale{
		{ID: "recent", PaymentStatus: PaymentPending, Date: now.AddDate(0, 0, -2), SalePrice: 100, Quantity: 1},
		{ID: "old", PaymentStatus: PaymentPending, Date: now.AddDate(0, 0, -30), SalePrice: 100, Quantity: 1},
		{ID: "paid", PaymentStatus: PaymentPaid, Date: now.AddDate(0, 0, -60), SalePrice: 100, Quantity: 1},
	}

	pending := CalculatePendingPayments(sales, now)
	require.Len(t, pending, 2)
	assert.Equal(t, "old", pending[0].SaleID)
	assert.Equal(t, "recent", pending[1].SaleID)
	assert.Equal(t, "Unknown", pending[0].CustomerName)
}

func TestCalculatePaymentSummaryRatio(t *testing.T) {
	sales := []Sale{
		{PaymentStatus: PaymentPaid, SalePrice: 100, Quantity: 1},
		{PaymentStatus: PaymentPaid, SalePrice: 200, Quantity: 1},
		{PaymentStatus: PaymentPaid, SalePrice: 300, Quantity: 1},
		{PaymentStatus: PaymentPending, SalePrice: 400, Quantity: 1},
	}

	summary := CalculatePaymentSummary(sales)
	assert.InDelta(t, 1000, summary.TotalRevenue, 0.001)
	assert.InDelta(t, 400, summary.PendingDues, 0.001)
	assert.InDelta(t, 600, summary.CollectedCash, 0.001)
	assert.InDelta(t, 75, summary.PaidVsPendingRatio, 0.001)
	assert.Equal(t, 4, summary.TotalSales)
	assert.Equal(t, 1, summary.PendingSales)
}

func TestCalculatePaymentSummaryEmpty(t *testing.T) {
	summary := CalculatePaymentSummary(nil)
	assert.Zero(t, summary.PaidVsPendingRatio)
	assert.Zero(t, summary.TotalRevenue)
}
