package business

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/luvora/luvora/internal/business/format"
)

// StorePort abstracts the remote data gateway. Every call is scoped by the
// owner identity; list calls return empty slices (not errors) when no rows
// match, and writes report whether a row was actually affected.
type StorePort interface {
	ListInventory(ctx context.Context, ownerID string) ([]InventoryItem, error)
	InsertInventoryItem(ctx context.Context, ownerID string, input ItemInput) (InventoryItem, error)
	InsertInventoryBatch(ctx context.Context, ownerID string, inputs []ItemInput) (int, error)
	UpdateInventoryItem(ctx context.Context, ownerID string, item InventoryItem) (bool, error)
	DecrementInventoryQuantity(ctx context.Context, ownerID, itemID string, quantity int) (int, bool, error)
	DeleteInventoryItem(ctx context.Context, ownerID, itemID string) (bool, error)

	ListSales(ctx context.Context, ownerID string) ([]Sale, error)
	InsertSale(ctx context.Context, ownerID string, sale Sale) (Sale, error)
	UpdateSalePayment(ctx context.Context, ownerID, saleID string, status PaymentStatus, paymentDate *time.Time) (Sale, bool, error)

	ListTransactions(ctx context.Context, ownerID string) ([]Transaction, error)
	InsertTransaction(ctx context.Context, ownerID string, input TransactionInput) (Transaction, error)
	DeleteTransaction(ctx context.Context, ownerID, id string) (bool, error)
}

// PhotoPort abstracts object storage for item photos.
type PhotoPort interface {
	Upload(ctx context.Context, data []byte, suggestedName string) (string, error)
	Delete(ctx context.Context, photoURL string) error
}

// TaskPort enqueues background compensation work. Enqueue failures are
// non-fatal; the caller already reports the underlying condition.
type TaskPort interface {
	EnqueueStockReconcile(ctx context.Context, ownerID, saleID, itemID string, quantity int) error
	EnqueuePhotoCleanup(ctx context.Context, photoURL string) error
}

// Service is the business state aggregator: the in-memory snapshot of one
// owner's inventory, sales and capital ledger, with every mutation routed
// through the remote gateway first. A single mutex serialises mutating
// operations so rapid duplicate submissions cannot race the snapshot.
type Service struct {
	ownerID string
	store   StorePort
	photos  PhotoPort
	tasks   TaskPort
	logger  *slog.Logger
	now     func() time.Time

	mu   sync.Mutex
	snap Snapshot
}

// NewService constructs the aggregator for one owner. The snapshot is
// empty until Load runs.
func NewService(ownerID string, store StorePort, photos PhotoPort, tasks TaskPort, logger *slog.Logger) (*Service, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, ErrAuthRequired
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		ownerID: ownerID,
		store:   store,
		photos:  photos,
		tasks:   tasks,
		logger:  logger.With(slog.String("owner", ownerID)),
		now:     time.Now,
	}, nil
}

// WithNow overrides the aggregator clock for testing.
func (s *Service) WithNow(fn func() time.Time) {
	if fn != nil {
		s.now = fn
	}
}

// OwnerID returns the owner identity this aggregator is scoped to.
func (s *Service) OwnerID() string { return s.ownerID }

// Load rebuilds the snapshot in full from the remote store. The three
// collections are fetched concurrently.
func (s *Service) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reloadLocked(ctx)
}

func (s *Service) reloadLocked(ctx context.Context) error {
	var (
		inventory    []InventoryItem
		sales        []Sale
		transactions []Transaction
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		inventory, err = s.store.ListInventory(gctx, s.ownerID)
		return err
	})
	g.Go(func() error {
		var err error
		sales, err = s.store.ListSales(gctx, s.ownerID)
		return err
	})
	g.Go(func() error {
		var err error
		transactions, err = s.store.ListTransactions(gctx, s.ownerID)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	s.snap.Inventory = inventory
	s.snap.Sales = sales
	s.snap.Transactions = transactions
	s.recomputeLocked()
	return nil
}

// recomputeLocked rebuilds every derived view from the raw collections.
// Derived views are never patched incrementally.
func (s *Service) recomputeLocked() {
	now := s.now()
	s.snap.Stats = CalculateStats(s.snap.Inventory, s.snap.Sales, s.snap.Transactions, now)
	s.snap.PendingPayments = CalculatePendingPayments(s.snap.Sales, now)
	s.snap.PaymentSummary = CalculatePaymentSummary(s.snap.Sales)
}

// Snapshot returns a copy of the current state. Callers never share
// mutable references with the aggregator.
func (s *Service) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copySnapshotLocked()
}

func (s *Service) copySnapshotLocked() Snapshot {
	out := Snapshot{
		Inventory:       make([]InventoryItem, len(s.snap.Inventory)),
		Sales:           make([]Sale, len(s.snap.Sales)),
		Transactions:    make([]Transaction, len(s.snap.Transactions)),
		Stats:           s.snap.Stats,
		PendingPayments: make([]PendingPayment, len(s.snap.PendingPayments)),
		PaymentSummary:  s.snap.PaymentSummary,
	}
	copy(out.Inventory, s.snap.Inventory)
	copy(out.Transactions, s.snap.Transactions)
	copy(out.PendingPayments, s.snap.PendingPayments)
	for i, sale := range s.snap.Sales {
		if sale.PaymentDate != nil {
			d := *sale.PaymentDate
			sale.PaymentDate = &d
		}
		out.Sales[i] = sale
	}
	return out
}

// GetInventoryItem looks up one item in the snapshot.
func (s *Service) GetInventoryItem(id string) (InventoryItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.snap.Inventory {
		if item.ID == id {
			return item, true
		}
	}
	return InventoryItem{}, false
}

// AddInventoryItem inserts a new item remotely, then rebuilds the snapshot
// in full so the generated id and server-side defaults are reflected
// exactly.
func (s *Service) AddInventoryItem(ctx context.Context, input ItemInput) (InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	input = normalizeItemInput(input, s.now())
	created, err := s.store.InsertInventoryItem(ctx, s.ownerID, input)
	if err != nil {
		return InventoryItem{}, fmt.Errorf("add inventory item: %w", err)
	}
	if err := s.reloadLocked(ctx); err != nil {
		// The insert committed; hand the row back even if the refresh
		// round trip failed.
		s.logger.Warn("snapshot refresh after insert failed", slog.Any("error", err))
	}
	return created, nil
}

func normalizeItemInput(input ItemInput, now time.Time) ItemInput {
	if strings.TrimSpace(input.Name) == "" {
		input.Name = "Unnamed"
	}
	if strings.TrimSpace(input.Category) == "" {
		input.Category = "Uncategorized"
	}
	if input.CostPrice < 0 {
		input.CostPrice = 0
	}
	if input.Quantity < 0 {
		input.Quantity = 0
	}
	if input.DateAdded.IsZero() {
		input.DateAdded = now
	}
	return input
}

// UpdateInventoryItem patches the snapshot optimistically, then confirms
// with the remote store. On remote failure the retained pre-update
// snapshot is restored exactly.
func (s *Service) UpdateInventoryItem(ctx context.Context, item InventoryItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, inv := range s.snap.Inventory {
		if inv.ID == item.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrItemNotFound
	}
	if item.Quantity < 0 || item.CostPrice < 0 {
		return fmt.Errorf("%w: quantity and cost price must be non-negative", ErrInvalidInput)
	}

	prev := s.copySnapshotLocked()
	item.OwnerID = s.ownerID
	s.snap.Inventory[idx] = item
	s.recomputeLocked()

	updated, err := s.store.UpdateInventoryItem(ctx, s.ownerID, item)
	if err != nil || !updated {
		s.snap = prev
		if err != nil {
			return fmt.Errorf("update inventory item: %w", err)
		}
		return ErrItemNotFound
	}
	return nil
}

// AddSale records a sale with the two-step protocol: insert the sale row,
// then decrement the item's stock with a server-side conditional update.
// A failure after the insert leaves the sale committed remotely and is
// reported as SaleNotAppliedError, with a reconcile task queued.
func (s *Service) AddSale(ctx context.Context, input SaleInput) (Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Step 1: locate the item in the local snapshot. A stale snapshot can
	// let a now-deleted item pass; the conditional decrement below is the
	// backstop.
	var item InventoryItem
	found := false
	for _, inv := range s.snap.Inventory {
		if inv.ID == input.ItemID {
			item = inv
			found = true
			break
		}
	}
	if !found {
		return Sale{}, ErrItemNotFound
	}

	// Step 2: validate input before any network call.
	if input.Quantity <= 0 {
		return Sale{}, fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
	}
	if input.SalePrice < 0 {
		return Sale{}, fmt.Errorf("%w: sale price must be non-negative", ErrInvalidInput)
	}
	if input.PaymentStatus != PaymentPending && input.PaymentStatus != PaymentPaid {
		return Sale{}, fmt.Errorf("%w: payment status must be pending or paid", ErrInvalidInput)
	}

	// Step 3: optimistic stock check against the snapshot.
	if input.Quantity > item.Quantity {
		return Sale{}, fmt.Errorf("%w: requested %d, available %d", ErrInsufficientStock, input.Quantity, item.Quantity)
	}

	now := s.now()
	saleDate := input.Date
	if saleDate.IsZero() {
		saleDate = now
	}
	sale := Sale{
		OwnerID:       s.ownerID,
		ItemID:        item.ID,
		ItemName:      item.Name,
		Category:      item.Category,
		Quantity:      input.Quantity,
		SalePrice:     input.SalePrice,
		CostPrice:     item.CostPrice,
		Profit:        format.Profit(input.SalePrice, item.CostPrice, input.Quantity),
		Date:          saleDate,
		CustomerName:  input.CustomerName,
		Notes:         input.Notes,
		PaymentStatus: input.PaymentStatus,
		CreatedAt:     now,
	}
	if sale.PaymentStatus == PaymentPaid {
		d := saleDate
		sale.PaymentDate = &d
	}

	// Step 4: commit the sale row. Failure here stops the operation with
	// no inventory mutation attempted.
	stored, err := s.store.InsertSale(ctx, s.ownerID, sale)
	if err != nil {
		return Sale{}, fmt.Errorf("record sale: %w", err)
	}

	// Step 5: decrement stock. The guard rejects a decrement that would
	// drive quantity negative, so concurrent stale sessions cannot
	// oversell past zero.
	newQuantity, applied, err := s.store.DecrementInventoryQuantity(ctx, s.ownerID, item.ID, stored.Quantity)
	if err != nil || !applied {
		if err == nil {
			err = fmt.Errorf("%w: stock changed since the snapshot was taken", ErrInsufficientStock)
		}
		s.enqueueStockReconcile(ctx, stored.ID, item.ID, stored.Quantity)
		return Sale{}, &SaleNotAppliedError{SaleID: stored.ID, ItemID: item.ID, Quantity: stored.Quantity, Cause: err}
	}

	// Step 6: both remote writes succeeded; apply locally and recompute.
	for i, inv := range s.snap.Inventory {
		if inv.ID == item.ID {
			s.snap.Inventory[i].Quantity = newQuantity
			break
		}
	}
	s.snap.Sales = append(s.snap.Sales, stored)
	s.recomputeLocked()
	return stored, nil
}

func (s *Service) enqueueStockReconcile(ctx context.Context, saleID, itemID string, quantity int) {
	if s.tasks == nil {
		return
	}
	if err := s.tasks.EnqueueStockReconcile(ctx, s.ownerID, saleID, itemID, quantity); err != nil {
		s.logger.Error("enqueue stock reconcile", slog.String("sale", saleID), slog.Any("error", err))
	}
}

// UpdatePaymentStatus transitions a sale between pending and paid. The
// server's returned row replaces the local sale so payment_date and any
// server-computed fields stay authoritative.
func (s *Service) UpdatePaymentStatus(ctx context.Context, saleID string, status PaymentStatus) (Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if status != PaymentPending && status != PaymentPaid {
		return Sale{}, fmt.Errorf("%w: payment status must be pending or paid", ErrInvalidInput)
	}
	var paymentDate *time.Time
	if status == PaymentPaid {
		d := s.now()
		paymentDate = &d
	}

	updated, ok, err := s.store.UpdateSalePayment(ctx, s.ownerID, saleID, status, paymentDate)
	if err != nil {
		return Sale{}, fmt.Errorf("update payment status: %w", err)
	}
	if !ok {
		return Sale{}, ErrSaleNotFound
	}

	for i, sale := range s.snap.Sales {
		if sale.ID == saleID {
			s.snap.Sales[i] = updated
			break
		}
	}
	s.recomputeLocked()
	return updated, nil
}

// DeleteInventoryItem removes an item remotely (the backend cascades the
// dependent sales), deletes any stored photo best-effort, then removes the
// item and its sales from the snapshot.
func (s *Service) DeleteInventoryItem(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var photoURL string
	for _, inv := range s.snap.Inventory {
		if inv.ID == id {
			photoURL = inv.PhotoURL
			break
		}
	}

	deleted, err := s.store.DeleteInventoryItem(ctx, s.ownerID, id)
	if err != nil {
		return fmt.Errorf("delete inventory item: %w", err)
	}
	if !deleted {
		return ErrItemNotFound
	}

	if photoURL != "" && s.photos != nil {
		if err := s.photos.Delete(ctx, photoURL); err != nil {
			// Non-fatal: the item is gone, the orphaned object is retried
			// in the background.
			s.logger.Warn("delete item photo", slog.String("item", id), slog.Any("error", err))
			if s.tasks != nil {
				if qerr := s.tasks.EnqueuePhotoCleanup(ctx, photoURL); qerr != nil {
					s.logger.Error("enqueue photo cleanup", slog.Any("error", qerr))
				}
			}
		}
	}

	inventory := s.snap.Inventory[:0]
	for _, inv := range s.snap.Inventory {
		if inv.ID != id {
			inventory = append(inventory, inv)
		}
	}
	s.snap.Inventory = inventory

	sales := s.snap.Sales[:0]
	for _, sale := range s.snap.Sales {
		if sale.ItemID != id {
			sales = append(sales, sale)
		}
	}
	s.snap.Sales = sales

	s.recomputeLocked()
	return nil
}

// AttachPhoto uploads image bytes for an item and persists the resulting
// public URL on the item.
func (s *Service) AttachPhoto(ctx context.Context, itemID string, data []byte, suggestedName string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, inv := range s.snap.Inventory {
		if inv.ID == itemID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return "", ErrItemNotFound
	}
	if s.photos == nil {
		return "", ErrStorageRejected
	}

	url, err := s.photos.Upload(ctx, data, suggestedName)
	if err != nil {
		return "", fmt.Errorf("upload photo: %w", err)
	}

	item := s.snap.Inventory[idx]
	item.PhotoURL = url
	updated, err := s.store.UpdateInventoryItem(ctx, s.ownerID, item)
	if err != nil || !updated {
		// The object is already uploaded; without the row pointing at it
		// nothing would ever delete it.
		if s.tasks != nil {
			if qerr := s.tasks.EnqueuePhotoCleanup(ctx, url); qerr != nil {
				s.logger.Error("enqueue photo cleanup", slog.Any("error", qerr))
			}
		}
		if err == nil {
			err = ErrItemNotFound
		}
		return "", fmt.Errorf("persist photo url: %w", err)
	}
	s.snap.Inventory[idx] = item
	return url, nil
}

// AddTransaction appends a capital-ledger entry.
func (s *Service) AddTransaction(ctx context.Context, input TransactionInput) (Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if input.Type != TransactionInvestment && input.Type != TransactionSale {
		return Transaction{}, fmt.Errorf("%w: type must be investment or sale", ErrInvalidInput)
	}
	if input.Date.IsZero() {
		input.Date = s.now()
	}
	created, err := s.store.InsertTransaction(ctx, s.ownerID, input)
	if err != nil {
		return Transaction{}, fmt.Errorf("add transaction: %w", err)
	}
	s.snap.Transactions = append(s.snap.Transactions, created)
	s.recomputeLocked()
	return created, nil
}

// DeleteTransaction removes a capital-ledger entry remotely and locally.
func (s *Service) DeleteTransaction(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	deleted, err := s.store.DeleteTransaction(ctx, s.ownerID, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if !deleted {
		return ErrTransactionNotFound
	}

	transactions := s.snap.Transactions[:0]
	for _, t := range s.snap.Transactions {
		if t.ID != id {
			transactions = append(transactions, t)
		}
	}
	s.snap.Transactions = transactions
	s.recomputeLocked()
	return nil
}

// ImportInventory bulk-inserts parsed rows in one call, then rebuilds the
// snapshot in full.
func (s *Service) ImportInventory(ctx context.Context, inputs []ItemInput) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(inputs) == 0 {
		return 0, fmt.Errorf("%w: no rows to import", ErrInvalidInput)
	}
	now := s.now()
	normalized := make([]ItemInput, len(inputs))
	for i, input := range inputs {
		normalized[i] = normalizeItemInput(input, now)
	}

	count, err := s.store.InsertInventoryBatch(ctx, s.ownerID, normalized)
	if err != nil {
		return 0, fmt.Errorf("import inventory: %w", err)
	}
	if err := s.reloadLocked(ctx); err != nil {
		s.logger.Warn("snapshot refresh after import failed", slog.Any("error", err))
	}
	return count, nil
}
