package business

import (
	"errors"
	"fmt"
	"time"
)

// PaymentStatus enumerates the collection state of a sale.
type PaymentStatus string

const (
	// PaymentPending marks a sale whose payment has not been collected.
	PaymentPending PaymentStatus = "pending"
	// PaymentPaid marks a sale whose payment has been collected.
	PaymentPaid PaymentStatus = "paid"
)

// LowStockThreshold is the quantity at or below which an item counts as low stock.
const LowStockThreshold = 5

// InventoryItem is a stocked item owned by a single user.
type InventoryItem struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"user_id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	CostPrice float64   `json:"cost_price"`
	Quantity  int       `json:"quantity"`
	Vendor    string    `json:"vendor"`
	DateAdded time.Time `json:"date_added"`
	Notes     string    `json:"notes,omitempty"`
	PhotoURL  string    `json:"photo_url,omitempty"`
}

// Sale records a quantity sold against an inventory item. Item name and
// category are captured at sale time and never re-derived.
type Sale struct {
	ID            string        `json:"id"`
	OwnerID       string        `json:"user_id"`
	ItemID        string        `json:"item_id"`
	ItemName      string        `json:"item_name"`
	Category      string        `json:"category"`
	Quantity      int           `json:"quantity"`
	SalePrice     float64       `json:"sale_price"`
	CostPrice     float64       `json:"cost_price"`
	Profit        float64       `json:"profit"`
	Date          time.Time     `json:"date"`
	CustomerName  string        `json:"customer_name,omitempty"`
	Notes         string        `json:"notes,omitempty"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	PaymentDate   *time.Time    `json:"payment_date,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
}

// TransactionType enumerates capital-ledger entry kinds.
type TransactionType string

const (
	// TransactionInvestment is money put into the business.
	TransactionInvestment TransactionType = "investment"
	// TransactionSale is revenue recorded manually on the capital ledger.
	TransactionSale TransactionType = "sale"
)

// Transaction is a capital-ledger entry. The ledger is maintained by hand
// and is not written by the sale-recording flow; its totals are a separate
// view from the sale-derived profit figures.
type Transaction struct {
	ID       string          `json:"id"`
	OwnerID  string          `json:"user_id"`
	Amount   float64         `json:"amount"`
	Type     TransactionType `json:"type"`
	Category string          `json:"category"`
	Date     time.Time       `json:"date"`
	Notes    string          `json:"notes,omitempty"`
}

// BusinessStats aggregates the owner's totals. TotalInvestment, TotalSales
// and MonthlySales come from the capital ledger; the remaining figures are
// derived from inventory and sales.
type BusinessStats struct {
	TotalInvestment    float64 `json:"total_investment"`
	TotalSales         float64 `json:"total_sales"`
	TotalProfit        float64 `json:"total_profit"`
	StockValue         float64 `json:"stock_value"`
	StockQuantity      int     `json:"stock_quantity"`
	MonthlySales       float64 `json:"monthly_sales"`
	MonthlyProfit      float64 `json:"monthly_profit"`
	LowStockItems      int     `json:"low_stock_items"`
	PendingPayments    int     `json:"pending_payments"`
	TotalPendingAmount float64 `json:"total_pending_amount"`
}

// PendingPayment is one uncollected sale with its outstanding amount.
type PendingPayment struct {
	SaleID       string    `json:"sale_id"`
	ItemName     string    `json:"item_name"`
	CustomerName string    `json:"customer_name"`
	Quantity     int       `json:"quantity"`
	TotalAmount  float64   `json:"total_amount"`
	SaleDate     time.Time `json:"sale_date"`
	DaysPending  int       `json:"days_pending"`
}

// PaymentSummary splits revenue between collected and pending.
type PaymentSummary struct {
	TotalRevenue       float64 `json:"total_revenue"`
	PendingDues        float64 `json:"pending_dues"`
	CollectedCash      float64 `json:"collected_cash"`
	PaidVsPendingRatio float64 `json:"paid_vs_pending_ratio"`
	TotalSales         int     `json:"total_sales"`
	PendingSales       int     `json:"pending_sales"`
}

// Snapshot is the full in-memory copy of one owner's data plus derived
// views. Snapshots handed out by the aggregator are copies; callers never
// observe later mutations.
type Snapshot struct {
	Inventory       []InventoryItem  `json:"inventory"`
	Sales           []Sale           `json:"sales"`
	Transactions    []Transaction    `json:"transactions"`
	Stats           BusinessStats    `json:"stats"`
	PendingPayments []PendingPayment `json:"pending_payments"`
	PaymentSummary  PaymentSummary   `json:"payment_summary"`
}

// ItemInput carries user-supplied fields for a new inventory item.
type ItemInput struct {
	Name      string
	Category  string
	CostPrice float64
	Quantity  int
	Vendor    string
	DateAdded time.Time
	Notes     string
	PhotoURL  string
}

// SaleInput carries user-supplied fields for recording a sale.
type SaleInput struct {
	ItemID        string
	Quantity      int
	SalePrice     float64
	Date          time.Time
	CustomerName  string
	Notes         string
	PaymentStatus PaymentStatus
}

// TransactionInput carries user-supplied fields for a capital-ledger entry.
type TransactionInput struct {
	Amount   float64
	Type     TransactionType
	Category string
	Date     time.Time
	Notes    string
}

// Error taxonomy. Validation errors are raised before any network call;
// remote errors are raised after the gateway round trip.
var (
	// ErrAuthRequired indicates no owner identity is present.
	ErrAuthRequired = errors.New("business: authentication required")
	// ErrInvalidInput indicates user-supplied values failed validation.
	ErrInvalidInput = errors.New("business: invalid input")
	// ErrItemNotFound indicates the referenced inventory item is not in the snapshot.
	ErrItemNotFound = errors.New("business: inventory item not found")
	// ErrSaleNotFound indicates the referenced sale does not exist or is not owned.
	ErrSaleNotFound = errors.New("business: sale not found")
	// ErrTransactionNotFound indicates the referenced ledger entry does not exist or is not owned.
	ErrTransactionNotFound = errors.New("business: transaction not found")
	// ErrInsufficientStock indicates a sale quantity exceeds the available quantity.
	ErrInsufficientStock = errors.New("business: insufficient stock")
	// ErrRemoteRejected indicates the backing store refused a write.
	ErrRemoteRejected = errors.New("business: remote store rejected operation")
	// ErrRemoteUnavailable indicates a transport-level failure.
	ErrRemoteUnavailable = errors.New("business: remote store unavailable")
	// ErrStorageRejected indicates a photo upload or delete failed.
	ErrStorageRejected = errors.New("business: object storage rejected operation")
)

// ErrSaleNotApplied marks the partial-failure window of sale recording:
// the sale row committed but the stock decrement did not.
var ErrSaleNotApplied = errors.New("business: sale recorded but stock not adjusted")

// SaleNotAppliedError reports a committed sale whose inventory decrement
// failed. It is distinct from full failure: the remote store holds the
// sale, the local snapshot does not, and a reconcile task has been queued.
type SaleNotAppliedError struct {
	SaleID   string
	ItemID   string
	Quantity int
	Cause    error
}

func (e *SaleNotAppliedError) Error() string {
	return fmt.Sprintf("sale %s recorded but stock for item %s not adjusted: %v", e.SaleID, e.ItemID, e.Cause)
}

func (e *SaleNotAppliedError) Unwrap() error { return e.Cause }

// Is lets callers match the partial-failure condition with errors.Is.
func (e *SaleNotAppliedError) Is(target error) bool { return target == ErrSaleNotApplied }
