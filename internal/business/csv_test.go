package business

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadInventoryCSVHeaderAliases(t *testing.T) {
	// PascalCase headers from a spreadsheet export parse the same as the
	// snake_case server names.
	input := strings.Join([]string{
		"Name,Category,CostPrice,Quantity,Vendor,DateAdded",
		"Banarasi Saree,Sarees,1200.50,10,Mehta Textiles,2026-01-15",
		"Silk Dupatta,Dupattas,300,4,,",
	}, "\n")

	items, err := ReadInventoryCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "Banarasi Saree", items[0].Name)
	assert.InDelta(t, 1200.50, items[0].CostPrice, 0.001)
	assert.Equal(t, 10, items[0].Quantity)
	assert.Equal(t, "Mehta Textiles", items[0].Vendor)
	assert.Equal(t, 2026, items[0].DateAdded.Year())

	assert.Equal(t, "Silk Dupatta", items[1].Name)
	assert.Empty(t, items[1].Vendor)
	assert.True(t, items[1].DateAdded.IsZero())
}

func TestReadInventoryCSVSnakeCaseAndShortRows(t *testing.T) {
	input := strings.Join([]string{
		"name,category,cost_price,quantity",
		"Saree A,Sarees,500,2",
		"Saree B,Sarees",
	}, "\n")

	items, err := ReadInventoryCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, items, 2)

	// The short row defaults its missing numeric fields to zero.
	assert.Equal(t, "Saree B", items[1].Name)
	assert.Zero(t, items[1].CostPrice)
	assert.Zero(t, items[1].Quantity)
}

func TestReadInventoryCSVUnparseableNumbers(t *testing.T) {
	input := "name,cost_price,quantity\nSaree,abc,xyz\n"

	items, err := ReadInventoryCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Zero(t, items[0].CostPrice)
	assert.Zero(t, items[0].Quantity)
}

func TestWriteInventoryCSVRoundTrip(t *testing.T) {
	items := []InventoryItem{
		{
			ID:        "item-1",
			OwnerID:   "owner-1",
			Name:      "Banarasi Saree",
			Category:  "Sarees",
			CostPrice: 1200.5,
			Quantity:  10,
			Vendor:    "Mehta Textiles",
			DateAdded: time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteInventoryCSV(&buf, items))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, strings.Join(InventoryHeader, ",")))
	assert.Contains(t, out, "Banarasi Saree")
	assert.Contains(t, out, "1200.5")
	assert.Contains(t, out, "2026-01-15")

	parsed, err := ReadInventoryCSV(&buf)
	require.NoError(t, err)
	require.Len(t, parsed, 1)
	assert.Equal(t, "Banarasi Saree", parsed[0].Name)
	assert.InDelta(t, 1200.5, parsed[0].CostPrice, 0.001)
}
