package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PhotoDeleter removes a stored photo object by its public URL.
type PhotoDeleter interface {
	Delete(ctx context.Context, photoURL string) error
}

// Reconciler owns the worker-side handlers for compensation tasks.
type Reconciler struct {
	db     *pgxpool.Pool
	photos PhotoDeleter
	logger *slog.Logger
}

// NewReconciler constructs a Reconciler.
func NewReconciler(db *pgxpool.Pool, photos PhotoDeleter, logger *slog.Logger) *Reconciler {
	return &Reconciler{db: db, photos: photos, logger: logger}
}

// HandleStockReconcile replays the decrement for a recorded sale. The
// retry path clamps at zero instead of refusing, because the sale row
// already exists and the ledger must converge even if stock drifted
// below the sold quantity in the meantime.
func (r *Reconciler) HandleStockReconcile(ctx context.Context, t *asynq.Task) error {
	var payload StockReconcilePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	var remaining int
	err := r.db.QueryRow(ctx,
		`UPDATE inventory SET quantity = GREATEST(quantity - $3, 0)
		 WHERE id = $1 AND user_id = $2
		 RETURNING quantity`,
		payload.ItemID, payload.OwnerID, payload.Quantity,
	).Scan(&remaining)
	if err != nil {
		r.logger.Error("stock reconcile",
			slog.String("sale", payload.SaleID),
			slog.String("item", payload.ItemID),
			slog.Any("error", err))
		return err
	}

	r.logger.Info("stock reconciled",
		slog.String("sale", payload.SaleID),
		slog.String("item", payload.ItemID),
		slog.Int("quantity", payload.Quantity),
		slog.Int("remaining", remaining))
	return nil
}

// HandlePhotoCleanup deletes an orphaned storage object.
func (r *Reconciler) HandlePhotoCleanup(ctx context.Context, t *asynq.Task) error {
	var payload PhotoCleanupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if err := r.photos.Delete(ctx, payload.PhotoURL); err != nil {
		r.logger.Error("photo cleanup", slog.String("url", payload.PhotoURL), slog.Any("error", err))
		return err
	}
	return nil
}
