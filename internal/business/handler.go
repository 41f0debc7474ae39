package business

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/luvora/luvora/internal/platform/httpx"
	"github.com/luvora/luvora/internal/shared"
)

const maxUploadBytes = 8 << 20

// Handler exposes the aggregator over JSON endpoints. Every route
// resolves the owner's aggregator from the session identity.
type Handler struct {
	logger      *slog.Logger
	aggregators *Manager
	validator   *validator.Validate
}

// NewHandler constructs the business HTTP handler.
func NewHandler(logger *slog.Logger, aggregators *Manager) *Handler {
	return &Handler{logger: logger, aggregators: aggregators, validator: validator.New()}
}

// MountRoutes registers the dashboard API routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/dashboard", h.dashboard)

	r.Route("/inventory", func(r chi.Router) {
		r.Get("/", h.listInventory)
		r.Post("/", h.addInventoryItem)
		r.Get("/export", h.exportInventory)
		r.Post("/import", h.importInventory)
		r.Put("/{id}", h.updateInventoryItem)
		r.Delete("/{id}", h.deleteInventoryItem)
		r.Post("/{id}/photo", h.uploadPhoto)
	})

	r.Route("/sales", func(r chi.Router) {
		r.Get("/", h.listSales)
		r.Post("/", h.addSale)
		r.Put("/{id}/payment", h.updatePaymentStatus)
	})

	r.Route("/transactions", func(r chi.Router) {
		r.Get("/", h.listTransactions)
		r.Post("/", h.addTransaction)
		r.Delete("/{id}", h.deleteTransaction)
	})
}

func (h *Handler) service(ctx context.Context) (*Service, error) {
	owner := shared.OwnerID(ctx)
	if owner == "" {
		return nil, ErrAuthRequired
	}
	return h.aggregators.ForOwner(ctx, owner)
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	svc, err := h.service(r.Context())
	if err != nil {
		RespondError(w, err)
		return
	}
	snap := svc.Snapshot()
	httpx.JSON(w, http.StatusOK, map[string]any{
		"stats":            snap.Stats,
		"pending_payments": snap.PendingPayments,
		"payment_summary":  snap.PaymentSummary,
	})
}

func (h *Handler) listInventory(w http.ResponseWriter, r *http.Request) {
	svc, err := h.service(r.Context())
	if err != nil {
		RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, svc.Snapshot().Inventory)
}

type itemRequest struct {
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	CostPrice float64 `json:"cost_price" validate:"gte=0"`
	Quantity  int     `json:"quantity" validate:"gte=0"`
	Vendor    string  `json:"vendor"`
	DateAdded string  `json:"date_added"`
	Notes     string  `json:"notes"`
	PhotoURL  string  `json:"photo_url"`
}

func (req itemRequest) toInput() (ItemInput, error) {
	dateAdded, err := parseDateField(req.DateAdded)
	if err != nil {
		return ItemInput{}, err
	}
	return ItemInput{
		Name:      req.Name,
		Category:  req.Category,
		CostPrice: req.CostPrice,
		Quantity:  req.Quantity,
		Vendor:    req.Vendor,
		DateAdded: dateAdded,
		Notes:     req.Notes,
		PhotoURL:  req.PhotoURL,
	}, nil
}

func parseDateField(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: invalid date %q", ErrInvalidInput, value)
}

func (h *Handler) addInventoryItem(w http.ResponseWriter, r *http.Request) {
	svc, err := h.service(r.Context())
	if err != nil {
		RespondError(w, err)
		return
	}
	var req itemRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "request body must be JSON")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Input", err.Error())
		return
	}
	input, err := req.toInput()
	if err != nil {
		RespondError(w, err)
		return
	}
	created, err := svc.AddInventoryItem(r.Context(), input)
	if err != nil {
		h.logger.Error("add inventory item", slog.Any("error", err))
		RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) updateInventoryItem(w http.ResponseWriter, r *http.Request) {
	svc, err := h.service(r.Context())
	if err != nil {
		RespondError(w, err)
		return
	}
	var req itemRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "request body must be JSON")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Input", err.Error())
		return
	}
	input, err := req.toInput()
	if err != nil {
		RespondError(w, err)
		return
	}
	item := InventoryItem{
		ID:        chi.URLParam(r, "id"),
		Name:      input.Name,
		Category:  input.Category,
		CostPrice: input.CostPrice,
		Quantity:  input.Quantity,
		Vendor:    input.Vendor,
		DateAdded: input.DateAdded,
		Notes:     input.Notes,
		PhotoURL:  input.PhotoURL,
	}
	if err := svc.UpdateInventoryItem(r.Context(), item); err != nil {
		h.logger.Error("update inventory item", slog.String("item", item.ID), slog.Any("error", err))
		RespondError(w, err)
		return
	}
	updated, _ := svc.GetInventoryItem(item.ID)
	httpx.JSON(w, http.StatusOK, updated)
}

func (h *Handler) deleteInventoryItem(w http.ResponseWriter, r *http.Request) {
	svc, err := h.service(r.Context())
	if err != nil {
		RespondError(w, err)
		return
	}
	id := chi.URLParam(r, "id")
	if err := svc.DeleteInventoryItem(r.Context(), id); err != nil {
		h.logger.Error("delete inventory item", slog.String("item", id), slog.Any("error", err))
		RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) uploadPhoto(w http.ResponseWriter, r *http.Request) {
	svc, err := h.service(r.Context())
	if err != nil {
		RespondError(w, err)
		return
	}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "multipart form with a photo field is required")
		return
	}
	file, header, err := r.FormFile("photo")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "photo field is required")
		return
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "could not read upload")
		return
	}

	url, err := svc.AttachPhoto(r.Context(), chi.URLParam(r, "id"), data, header.Filename)
	if err != nil {
		h.logger.Error("upload photo", slog.Any("error", err))
		RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"photo_url": url})
}

func (h *Handler) exportInventory(w http.ResponseWriter, r *http.Request) {
	svc, err := h.service(r.Context())
	if err != nil {
		RespondError(w, err)
		return
	}
	items := svc.Snapshot().Inventory
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="inventory_export.csv"`)
	if err := WriteInventoryCSV(w, items); err != nil {
		h.logger.Error("export inventory", slog.Any("error", err))
	}
}

func (h *Handler) importInventory(w http.ResponseWriter, r *http.Request) {
	svc, err := h.service(r.Context())
	if err != nil {
		RespondError(w, err)
		return
	}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "multipart form with a file field is required")
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "file field is required")
		return
	}
	defer file.Close()

	inputs, err := ReadInventoryCSV(file)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid CSV", err.Error())
		return
	}
	count, err := svc.ImportInventory(r.Context(), inputs)
	if err != nil {
		h.logger.Error("import inventory", slog.Any("error", err))
		RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]int{"imported": count})
}

func (h *Handler) listSales(w http.ResponseWriter, r *http.Request) {
	svc, err := h.service(r.Context())
	if err != nil {
		RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, svc.Snapshot().Sales)
}

type saleRequest struct {
	ItemID        string  `json:"item_id" validate:"required"`
	Quantity      int     `json:"quantity" validate:"gt=0"`
	SalePrice     float64 `json:"sale_price" validate:"gte=0"`
	Date          string  `json:"date"`
	CustomerName  string  `json:"customer_name"`
	Notes         string  `json:"notes"`
	PaymentStatus string  `json:"payment_status" validate:"omitempty,oneof=pending paid"`
}

func (h *Handler) addSale(w http.ResponseWriter, r *http.Request) {
	svc, err := h.service(r.Context())
	if err != nil {
		RespondError(w, err)
		return
	}
	var req saleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "request body must be JSON")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Input", err.Error())
		return
	}
	date, err := parseDateField(req.Date)
	if err != nil {
		RespondError(w, err)
		return
	}
	status := PaymentStatus(req.PaymentStatus)
	if status == "" {
		status = PaymentPending
	}

	sale, err := svc.AddSale(r.Context(), SaleInput{
		ItemID:        req.ItemID,
		Quantity:      req.Quantity,
		SalePrice:     req.SalePrice,
		Date:          date,
		CustomerName:  req.CustomerName,
		Notes:         req.Notes,
		PaymentStatus: status,
	})
	if err != nil {
		h.logger.Error("record sale", slog.String("item", req.ItemID), slog.Any("error", err))
		RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, sale)
}

type paymentRequest struct {
	Status string `json:"status" validate:"required,oneof=pending paid"`
}

func (h *Handler) updatePaymentStatus(w http.ResponseWriter, r *http.Request) {
	svc, err := h.service(r.Context())
	if err != nil {
		RespondError(w, err)
		return
	}
	var req paymentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "request body must be JSON")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Input", err.Error())
		return
	}
	sale, err := svc.UpdatePaymentStatus(r.Context(), chi.URLParam(r, "id"), PaymentStatus(req.Status))
	if err != nil {
		h.logger.Error("update payment status", slog.String("sale", chi.URLParam(r, "id")), slog.Any("error", err))
		RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, sale)
}

func (h *Handler) listTransactions(w http.ResponseWriter, r *http.Request) {
	svc, err := h.service(r.Context())
	if err != nil {
		RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, svc.Snapshot().Transactions)
}

type transactionRequest struct {
	Amount   float64 `json:"amount" validate:"required"`
	Type     string  `json:"type" validate:"required,oneof=investment sale"`
	Category string  `json:"category"`
	Date     string  `json:"date"`
	Notes    string  `json:"notes"`
}

func (h *Handler) addTransaction(w http.ResponseWriter, r *http.Request) {
	svc, err := h.service(r.Context())
	if err != nil {
		RespondError(w, err)
		return
	}
	var req transactionRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "request body must be JSON")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Input", err.Error())
		return
	}
	date, err := parseDateField(req.Date)
	if err != nil {
		RespondError(w, err)
		return
	}
	created, err := svc.AddTransaction(r.Context(), TransactionInput{
		Amount:   req.Amount,
		Type:     TransactionType(req.Type),
		Category: req.Category,
		Date:     date,
		Notes:    req.Notes,
	})
	if err != nil {
		h.logger.Error("add transaction", slog.Any("error", err))
		RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) deleteTransaction(w http.ResponseWriter, r *http.Request) {
	svc, err := h.service(r.Context())
	if err != nil {
		RespondError(w, err)
		return
	}
	id := chi.URLParam(r, "id")
	if err := svc.DeleteTransaction(r.Context(), id); err != nil {
		h.logger.Error("delete transaction", slog.String("transaction", id), slog.Any("error", err))
		RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
