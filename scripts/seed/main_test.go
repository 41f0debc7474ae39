package main

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The gateway selects and inserts these columns; the seeded schema must
// declare every one of them or a fresh database rejects the queries.
var gatewayColumns = map[string][]string{
	"users":        {"id", "email", "password_hash", "is_active", "created_at"},
	"inventory":    {"id", "user_id", "name", "category", "cost_price", "quantity", "vendor", "date_added", "notes", "photo_url"},
	"sales":        {"id", "user_id", "item_id", "item_name", "category", "quantity", "sale_price", "cost_price", "profit", "date", "customer_name", "notes", "payment_status", "payment_date", "created_at"},
	"transactions": {"id", "user_id", "amount", "type", "category", "date", "notes"},
	"suppliers":    {"id", "user_id", "name", "contact_person", "email", "phone", "address", "rating", "notes", "created_at"},
}

func findCreateTable(t *testing.T, table string) string {
	t.Helper()
	prefix := "CREATE TABLE IF NOT EXISTS " + table + " ("
	for _, stmt := range schemaStatements {
		if strings.HasPrefix(stmt, prefix) {
			return stmt
		}
	}
	t.Fatalf("no CREATE TABLE statement for %s", table)
	return ""
}

func TestSchemaDeclaresEveryGatewayColumn(t *testing.T) {
	for table, columns := range gatewayColumns {
		ddl := findCreateTable(t, table)
		for _, column := range columns {
			// Column declarations start a line inside the parenthesised body.
			pattern := regexp.MustCompile(`(?m)^\s+` + column + `\s`)
			assert.True(t, pattern.MatchString(ddl), "table %s is missing column %s", table, column)
		}
	}
}

func TestSchemaCascadesSalesOnItemDelete(t *testing.T) {
	ddl := findCreateTable(t, "sales")
	require.Contains(t, ddl, "REFERENCES inventory(id) ON DELETE CASCADE")
}
