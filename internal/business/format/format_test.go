package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCompactNumber(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{15000000, "1.5Cr"},
		{250000, "2.5L"},
		{1500, "1.5K"},
		{999, "999"},
		{0, "0"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CompactNumber(tc.in), "CompactNumber(%v)", tc.in)
	}
}

func TestCurrencyFallsBackToINR(t *testing.T) {
	got := Currency(100, "not-a-code")
	assert.Contains(t, got, "₹")
}

func TestProfit(t *testing.T) {
	assert.InDelta(t, 2400, Profit(2000, 1200, 3), 0.001)
	assert.InDelta(t, -300, Profit(900, 1200, 1), 0.001)
}

func TestProfitMarginZeroCost(t *testing.T) {
	assert.Zero(t, ProfitMargin(500, 0))
	assert.InDelta(t, 50, ProfitMargin(150, 100), 0.001)
}

func TestDaysPendingAtRoundsUp(t *testing.T) {
	now := time.Date(2026, time.March, 15, 18, 0, 0, 0, time.UTC)

	sameDay := now.Add(-6 * time.Hour)
	assert.Equal(t, 1, DaysPendingAt(sameDay, now))

	tenDays := now.AddDate(0, 0, -10)
	assert.Equal(t, 10, DaysPendingAt(tenDays, now))

	// A clock skewed into the future still yields a non-negative count.
	future := now.Add(30 * time.Hour)
	assert.Equal(t, 2, DaysPendingAt(future, now))
}

func TestCategoryFallbacks(t *testing.T) {
	assert.Equal(t, "#FF6B6B", CategoryColor("Shirts"))
	assert.Equal(t, "#8C8C8C", CategoryColor("Sarees"))
	assert.Equal(t, "👗", CategoryIcon("Dresses"))
	assert.Equal(t, "📦", CategoryIcon("Sarees"))
}

func TestPaymentStatusStyling(t *testing.T) {
	assert.Equal(t, "text-green-600", PaymentStatusColor("paid"))
	assert.Equal(t, "text-orange-600", PaymentStatusColor("pending"))
	assert.Equal(t, "✅", PaymentStatusIcon("paid"))
	assert.Equal(t, "⏳", PaymentStatusIcon("pending"))
}
