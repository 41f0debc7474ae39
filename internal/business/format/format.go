// Package format holds the pure presentation helpers: currency and number
// formatting, category styling, and the profit/pending arithmetic shared by
// the dashboard views.
package format

import (
	"math"
	"strconv"
	"time"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var indianEnglish = language.MustParse("en-IN")

// Currency renders an amount with the currency symbol and locale-aware
// digit grouping (lakh/crore grouping for INR), with up to two fraction
// digits and none when the amount is whole.
func Currency(amount float64, code string) string {
	unit, err := currency.ParseISO(code)
	if err != nil {
		unit = currency.INR
	}
	tag := language.AmericanEnglish
	if unit == currency.INR {
		tag = indianEnglish
	}
	p := message.NewPrinter(tag)
	return p.Sprintf("%v%v", currency.Symbol(unit),
		number.Decimal(amount, number.MinFractionDigits(0), number.MaxFractionDigits(2)))
}

// CompactNumber abbreviates large values using Indian units
// (thousand, lakh, crore).
func CompactNumber(n float64) string {
	switch {
	case n >= 1e7:
		return strconv.FormatFloat(n/1e7, 'f', 1, 64) + "Cr"
	case n >= 1e5:
		return strconv.FormatFloat(n/1e5, 'f', 1, 64) + "L"
	case n >= 1e3:
		return strconv.FormatFloat(n/1e3, 'f', 1, 64) + "K"
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

var categoryColors = map[string]string{
	"Shirts":      "#FF6B6B",
	"Pants":       "#4ECDC4",
	"Dresses":     "#45B7D1",
	"Jackets":     "#96CEB4",
	"Shoes":       "#FFEAA7",
	"Accessories": "#DDA0DD",
	"Jeans":       "#98D8C8",
	"T-Shirts":    "#F7DC6F",
	"Sweaters":    "#52C41A",
	"Skirts":      "#1890FF",
	"Suits":       "#722ED1",
	"Activewear":  "#FF9F43",
	"Formal Wear": "#6C5CE7",
	"Casual Wear": "#00B894",
	"Winter Wear": "#74B9FF",
	"Summer Wear": "#FDCB6E",
	"Other":       "#8C8C8C",
}

var categoryIcons = map[string]string{
	"Shirts":      "👔",
	"Pants":       "👖",
	"Dresses":     "👗",
	"Jackets":     "🧥",
	"Shoes":       "👟",
	"Accessories": "👜",
	"Jeans":       "👖",
	"T-Shirts":    "👕",
	"Sweaters":    "🧶",
	"Skirts":      "👗",
	"Suits":       "🤵",
	"Activewear":  "🏃",
	"Formal Wear": "🎩",
	"Casual Wear": "😊",
	"Winter Wear": "❄️",
	"Summer Wear": "☀️",
	"Other":       "📦",
}

// CategoryColor returns the chart color for a category, falling back to
// the neutral gray for unknown categories.
func CategoryColor(category string) string {
	if c, ok := categoryColors[category]; ok {
		return c
	}
	return "#8C8C8C"
}

// CategoryIcon returns the display icon for a category.
func CategoryIcon(category string) string {
	if icon, ok := categoryIcons[category]; ok {
		return icon
	}
	return "📦"
}

// Profit is the margin earned on a sale line.
func Profit(salePrice, costPrice float64, quantity int) float64 {
	return (salePrice - costPrice) * float64(quantity)
}

// ProfitMargin is the percentage markup over cost. Zero cost yields zero
// rather than a division error.
func ProfitMargin(salePrice, costPrice float64) float64 {
	if costPrice == 0 {
		return 0
	}
	return (salePrice - costPrice) / costPrice * 100
}

// DaysPending reports how long a payment has been outstanding.
func DaysPending(saleDate time.Time) int {
	return DaysPendingAt(saleDate, time.Now())
}

// DaysPendingAt is DaysPending against an explicit clock. Partial days
// round up, so a sale made earlier today counts as one day pending.
func DaysPendingAt(saleDate, now time.Time) int {
	diff := now.Sub(saleDate)
	if diff < 0 {
		diff = -diff
	}
	return int(math.Ceil(diff.Hours() / 24))
}

// PaymentStatusColor returns the text color class for a payment status.
func PaymentStatusColor(status string) string {
	if status == "paid" {
		return "text-green-600"
	}
	return "text-orange-600"
}

// PaymentStatusIcon returns the display icon for a payment status.
func PaymentStatusIcon(status string) string {
	if status == "paid" {
		return "✅"
	}
	return "⏳"
}
