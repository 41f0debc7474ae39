// Package gateway is the remote data gateway: owner-scoped CRUD round
// trips against the hosted store, one best-effort call each, no caching
// and no retries. The aggregator decides what to do on failure.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/luvora/luvora/internal/business"
)

// Gateway implements business.StorePort on PostgreSQL. Every call runs
// under a client-side timeout so a hung round trip cannot hang the
// calling operation indefinitely.
type Gateway struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

// New constructs a Gateway. A non-positive timeout disables the per-call
// deadline.
func New(db *pgxpool.Pool, timeout time.Duration) *Gateway {
	return &Gateway{db: db, timeout: timeout}
}

func (g *Gateway) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if g.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, g.timeout)
}

// classify maps a pgx error to the gateway error taxonomy: a server
// response is a rejection, anything else is a transport failure.
func classify(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fmt.Errorf("gateway: %s: %w: %s", op, business.ErrRemoteRejected, pgErr.Message)
	}
	return fmt.Errorf("gateway: %s: %w: %v", op, business.ErrRemoteUnavailable, err)
}

const inventoryColumns = `id, user_id, name, category, cost_price, quantity, COALESCE(vendor, ''), date_added, COALESCE(notes, ''), COALESCE(photo_url, '')`

func scanInventoryItem(row pgx.Row) (business.InventoryItem, error) {
	var item business.InventoryItem
	err := row.Scan(&item.ID, &item.OwnerID, &item.Name, &item.Category, &item.CostPrice,
		&item.Quantity, &item.Vendor, &item.DateAdded, &item.Notes, &item.PhotoURL)
	return item, err
}

// ListInventory fetches all of an owner's items. No matching rows is an
// empty list, not an error.
func (g *Gateway) ListInventory(ctx context.Context, ownerID string) ([]business.InventoryItem, error) {
	ctx, cancel := g.callCtx(ctx)
	defer cancel()

	rows, err := g.db.Query(ctx, `SELECT `+inventoryColumns+` FROM inventory WHERE user_id = $1 ORDER BY date_added DESC, id`, ownerID)
	if err != nil {
		return nil, classify("list inventory", err)
	}
	defer rows.Close()

	items := make([]business.InventoryItem, 0)
	for rows.Next() {
		item, err := scanInventoryItem(rows)
		if err != nil {
			return nil, classify("scan inventory", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("list inventory", err)
	}
	return items, nil
}

// InsertInventoryItem stores a new item and returns the row with its
// generated id.
func (g *Gateway) InsertInventoryItem(ctx context.Context, ownerID string, input business.ItemInput) (business.InventoryItem, error) {
	ctx, cancel := g.callCtx(ctx)
	defer cancel()

	row := g.db.QueryRow(ctx, `
		INSERT INTO inventory (user_id, name, category, cost_price, quantity, vendor, date_added, notes, photo_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), NULLIF($9, ''))
		RETURNING `+inventoryColumns,
		ownerID, input.Name, input.Category, input.CostPrice, input.Quantity,
		input.Vendor, input.DateAdded, input.Notes, input.PhotoURL)
	item, err := scanInventoryItem(row)
	if err != nil {
		return business.InventoryItem{}, classify("insert inventory", err)
	}
	return item, nil
}

// InsertInventoryBatch bulk-loads items in a single COPY.
func (g *Gateway) InsertInventoryBatch(ctx context.Context, ownerID string, inputs []business.ItemInput) (int, error) {
	ctx, cancel := g.callCtx(ctx)
	defer cancel()

	rows := make([][]any, len(inputs))
	for i, input := range inputs {
		var notes, photoURL any
		if input.Notes != "" {
			notes = input.Notes
		}
		if input.PhotoURL != "" {
			photoURL = input.PhotoURL
		}
		rows[i] = []any{ownerID, input.Name, input.Category, input.CostPrice, input.Quantity, input.Vendor, input.DateAdded, notes, photoURL}
	}

	count, err := g.db.CopyFrom(ctx,
		pgx.Identifier{"inventory"},
		[]string{"user_id", "name", "category", "cost_price", "quantity", "vendor", "date_added", "notes", "photo_url"},
		pgx.CopyFromRows(rows))
	if err != nil {
		return 0, classify("bulk insert inventory", err)
	}
	return int(count), nil
}

// UpdateInventoryItem overwrites an item scoped by id and owner. A false
// result means no row matched; that is the caller's signal, not an error.
func (g *Gateway) UpdateInventoryItem(ctx context.Context, ownerID string, item business.InventoryItem) (bool, error) {
	ctx, cancel := g.callCtx(ctx)
	defer cancel()

	tag, err := g.db.Exec(ctx, `
		UPDATE inventory
		SET name = $3, category = $4, cost_price = $5, quantity = $6, vendor = $7,
		    date_added = $8, notes = NULLIF($9, ''), photo_url = NULLIF($10, '')
		WHERE id = $1 AND user_id = $2`,
		item.ID, ownerID, item.Name, item.Category, item.CostPrice, item.Quantity,
		item.Vendor, item.DateAdded, item.Notes, item.PhotoURL)
	if err != nil {
		return false, classify("update inventory", err)
	}
	return tag.RowsAffected() > 0, nil
}

// DecrementInventoryQuantity applies a conditional stock decrement: the
// row is only touched when the remaining quantity stays non-negative.
// Zero rows affected reports applied=false so the caller can treat the
// snapshot as stale.
func (g *Gateway) DecrementInventoryQuantity(ctx context.Context, ownerID, itemID string, quantity int) (int, bool, error) {
	ctx, cancel := g.callCtx(ctx)
	defer cancel()

	var newQuantity int
	err := g.db.QueryRow(ctx, `
		UPDATE inventory
		SET quantity = quantity - $3
		WHERE id = $1 AND user_id = $2 AND quantity >= $3
		RETURNING quantity`,
		itemID, ownerID, quantity).Scan(&newQuantity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, classify("decrement inventory", err)
	}
	return newQuantity, true, nil
}

// DeleteInventoryItem removes an item; the schema cascades to its sales.
func (g *Gateway) DeleteInventoryItem(ctx context.Context, ownerID, itemID string) (bool, error) {
	ctx, cancel := g.callCtx(ctx)
	defer cancel()

	tag, err := g.db.Exec(ctx, `DELETE FROM inventory WHERE id = $1 AND user_id = $2`, itemID, ownerID)
	if err != nil {
		return false, classify("delete inventory", err)
	}
	return tag.RowsAffected() > 0, nil
}

const saleColumns = `id, user_id, item_id, item_name, category, quantity, sale_price, cost_price, profit, date, COALESCE(customer_name, ''), COALESCE(notes, ''), payment_status, payment_date, created_at`

func scanSale(row pgx.Row) (business.Sale, error) {
	var sale business.Sale
	err := row.Scan(&sale.ID, &sale.OwnerID, &sale.ItemID, &sale.ItemName, &sale.Category,
		&sale.Quantity, &sale.SalePrice, &sale.CostPrice, &sale.Profit, &sale.Date,
		&sale.CustomerName, &sale.Notes, &sale.PaymentStatus, &sale.PaymentDate, &sale.CreatedAt)
	return sale, err
}

// ListSales fetches all of an owner's sales.
func (g *Gateway) ListSales(ctx context.Context, ownerID string) ([]business.Sale, error) {
	ctx, cancel := g.callCtx(ctx)
	defer cancel()

	rows, err := g.db.Query(ctx, `SELECT `+saleColumns+` FROM sales WHERE user_id = $1 ORDER BY created_at, id`, ownerID)
	if err != nil {
		return nil, classify("list sales", err)
	}
	defer rows.Close()

	sales := make([]business.Sale, 0)
	for rows.Next() {
		sale, err := scanSale(rows)
		if err != nil {
			return nil, classify("scan sale", err)
		}
		sales = append(sales, sale)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("list sales", err)
	}
	return sales, nil
}

// InsertSale stores a new sale row and returns it with generated fields.
func (g *Gateway) InsertSale(ctx context.Context, ownerID string, sale business.Sale) (business.Sale, error) {
	ctx, cancel := g.callCtx(ctx)
	defer cancel()

	row := g.db.QueryRow(ctx, `
		INSERT INTO sales (user_id, item_id, item_name, category, quantity, sale_price, cost_price, profit,
		                   date, customer_name, notes, payment_status, payment_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NULLIF($10, ''), NULLIF($11, ''), $12, $13, $14)
		RETURNING `+saleColumns,
		ownerID, sale.ItemID, sale.ItemName, sale.Category, sale.Quantity, sale.SalePrice,
		sale.CostPrice, sale.Profit, sale.Date, sale.CustomerName, sale.Notes,
		sale.PaymentStatus, sale.PaymentDate, sale.CreatedAt)
	stored, err := scanSale(row)
	if err != nil {
		return business.Sale{}, classify("insert sale", err)
	}
	return stored, nil
}

// UpdateSalePayment sets or clears the payment fields scoped by sale and
// owner, returning the server's row. A false result means no row matched.
func (g *Gateway) UpdateSalePayment(ctx context.Context, ownerID, saleID string, status business.PaymentStatus, paymentDate *time.Time) (business.Sale, bool, error) {
	ctx, cancel := g.callCtx(ctx)
	defer cancel()

	row := g.db.QueryRow(ctx, `
		UPDATE sales
		SET payment_status = $3, payment_date = $4
		WHERE id = $1 AND user_id = $2
		RETURNING `+saleColumns,
		saleID, ownerID, status, paymentDate)
	sale, err := scanSale(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return business.Sale{}, false, nil
		}
		return business.Sale{}, false, classify("update sale payment", err)
	}
	return sale, true, nil
}

const transactionColumns = `id, user_id, amount, type, COALESCE(category, ''), date, COALESCE(notes, '')`

// ListTransactions fetches the owner's capital ledger.
func (g *Gateway) ListTransactions(ctx context.Context, ownerID string) ([]business.Transaction, error) {
	ctx, cancel := g.callCtx(ctx)
	defer cancel()

	rows, err := g.db.Query(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE user_id = $1 ORDER BY date DESC, id`, ownerID)
	if err != nil {
		return nil, classify("list transactions", err)
	}
	defer rows.Close()

	transactions := make([]business.Transaction, 0)
	for rows.Next() {
		var t business.Transaction
		if err := rows.Scan(&t.ID, &t.OwnerID, &t.Amount, &t.Type, &t.Category, &t.Date, &t.Notes); err != nil {
			return nil, classify("scan transaction", err)
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("list transactions", err)
	}
	return transactions, nil
}

// InsertTransaction stores a capital-ledger entry.
func (g *Gateway) InsertTransaction(ctx context.Context, ownerID string, input business.TransactionInput) (business.Transaction, error) {
	ctx, cancel := g.callCtx(ctx)
	defer cancel()

	var t business.Transaction
	err := g.db.QueryRow(ctx, `
		INSERT INTO transactions (user_id, amount, type, category, date, notes)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''))
		RETURNING `+transactionColumns,
		ownerID, input.Amount, input.Type, input.Category, input.Date, input.Notes).
		Scan(&t.ID, &t.OwnerID, &t.Amount, &t.Type, &t.Category, &t.Date, &t.Notes)
	if err != nil {
		return business.Transaction{}, classify("insert transaction", err)
	}
	return t, nil
}

// DeleteTransaction removes a ledger entry scoped by id and owner.
func (g *Gateway) DeleteTransaction(ctx context.Context, ownerID, id string) (bool, error) {
	ctx, cancel := g.callCtx(ctx)
	defer cancel()

	tag, err := g.db.Exec(ctx, `DELETE FROM transactions WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return false, classify("delete transaction", err)
	}
	return tag.RowsAffected() > 0, nil
}
