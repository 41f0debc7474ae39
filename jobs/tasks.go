// Package jobs carries the background compensation work the request
// path cannot finish inline: stock reconciliation after a partially
// applied sale and cleanup of orphaned photo objects.
package jobs

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeStockReconcile retries the stock decrement for a sale that
	// was recorded but whose decrement did not apply.
	TaskTypeStockReconcile = "sale:reconcile_stock"
	// TaskTypePhotoCleanup deletes a storage object left behind after
	// its inventory item was removed.
	TaskTypePhotoCleanup = "photo:cleanup"
)

// StockReconcilePayload identifies the sale whose decrement must be
// replayed.
type StockReconcilePayload struct {
	OwnerID  string `json:"owner_id"`
	SaleID   string `json:"sale_id"`
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

// NewStockReconcileTask constructs an Asynq task.
func NewStockReconcileTask(payload StockReconcilePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeStockReconcile, data, asynq.Queue(QueueDefault), asynq.MaxRetry(10)), nil
}

// PhotoCleanupPayload identifies the orphaned object by its public URL.
type PhotoCleanupPayload struct {
	PhotoURL string `json:"photo_url"`
}

// NewPhotoCleanupTask constructs an Asynq task.
func NewPhotoCleanupTask(payload PhotoCleanupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypePhotoCleanup, data, asynq.Queue(QueueDefault)), nil
}

// Client submits jobs to the queue. It satisfies the aggregator's task
// port.
type Client struct {
	client *asynq.Client
}

// NewClient constructs an Asynq client.
func NewClient(redisOpts asynq.RedisClientOpt) *Client {
	return &Client{client: asynq.NewClient(redisOpts)}
}

// EnqueueStockReconcile enqueues a stock reconciliation task.
func (c *Client) EnqueueStockReconcile(ctx context.Context, ownerID, saleID, itemID string, quantity int) error {
	task, err := NewStockReconcileTask(StockReconcilePayload{
		OwnerID:  ownerID,
		SaleID:   saleID,
		ItemID:   itemID,
		Quantity: quantity,
	})
	if err != nil {
		return err
	}
	_, err = c.client.EnqueueContext(ctx, task)
	return err
}

// EnqueuePhotoCleanup enqueues a photo cleanup task.
func (c *Client) EnqueuePhotoCleanup(ctx context.Context, photoURL string) error {
	task, err := NewPhotoCleanupTask(PhotoCleanupPayload{PhotoURL: photoURL})
	if err != nil {
		return err
	}
	_, err = c.client.EnqueueContext(ctx, task)
	return err
}

// Close releases client resources.
func (c *Client) Close() error {
	return c.client.Close()
}
