package business

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// InventoryHeader is the column order used for exports, matching the
// server column names verbatim.
var InventoryHeader = []string{"id", "user_id", "name", "category", "cost_price", "quantity", "vendor", "date_added", "notes", "photo_url"}

// WriteInventoryCSV serialises the owner's inventory rows to CSV.
func WriteInventoryCSV(w io.Writer, items []InventoryItem) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write(InventoryHeader); err != nil {
		return err
	}
	for _, item := range items {
		record := []string{
			item.ID,
			item.OwnerID,
			item.Name,
			item.Category,
			formatFloat(item.CostPrice),
			strconv.Itoa(item.Quantity),
			item.Vendor,
			formatDate(item.DateAdded),
			item.Notes,
			item.PhotoURL,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// ReadInventoryCSV parses an uploaded CSV into item inputs. The header
// row accepts the snake_case server names and their PascalCase aliases,
// compared case-insensitively; rows missing fields default to empty/zero.
func ReadInventoryCSV(r io.Reader) ([]ItemInput, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[canonicalColumn(name)] = i
	}

	var inputs []ItemInput
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		field := func(key string) string {
			idx, ok := columns[key]
			if !ok || idx >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[idx])
		}
		costPrice, _ := strconv.ParseFloat(field("costprice"), 64)
		quantity, _ := strconv.Atoi(field("quantity"))
		inputs = append(inputs, ItemInput{
			Name:      field("name"),
			Category:  field("category"),
			CostPrice: costPrice,
			Quantity:  quantity,
			Vendor:    field("vendor"),
			DateAdded: parseDate(field("dateadded")),
			Notes:     field("notes"),
			PhotoURL:  field("photourl"),
		})
	}
	return inputs, nil
}

// canonicalColumn folds "cost_price", "CostPrice" and "costprice" onto
// one key.
func canonicalColumn(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.ReplaceAll(name, "_", "")
}

func parseDate(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
