package worker

import (
	"context"
	"time"

	"storefront/internal/broker"
	"storefront/internal/models"
	"storefront/internal/util"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// refreshLockTTL bounds how long one replica may hold the refresh lock.
const refreshLockTTL = 30 * time.Second

// Refresher reloads the catalog.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// RefreshLocker serializes catalog reloads across replicas.
type RefreshLocker interface {
	AcquireRefreshLock(ctx context.Context, ttl time.Duration) (bool, error)
	ReleaseRefreshLock(ctx context.Context) error
}

// MessageSource is the part of *broker.Consumer the worker drives.
type MessageSource interface {
	StartConsuming(ctx context.Context, handler broker.MessageHandler) error
	Close() error
}

// CatalogWorker refreshes the product catalog when it changes upstream
type CatalogWorker struct {
	consumer     MessageSource
	eventHandler *broker.EventHandler
	catalog      Refresher
	locker       RefreshLocker
	logger       *zap.Logger
}

// NewCatalogWorker creates a new catalog worker. locker may be nil.
func NewCatalogWorker(consumer MessageSource, catalog Refresher, locker RefreshLocker) *CatalogWorker {
	w := &CatalogWorker{
		consumer:     consumer,
		eventHandler: broker.NewEventHandler(),
		catalog:      catalog,
		locker:       locker,
		logger:       util.GetLogger(),
	}
	w.eventHandler.OnProductsUpdated(w.handleProductsUpdated)
	return w
}

// Start consumes catalog events until ctx is cancelled
func (w *CatalogWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting catalog worker")
	return w.consumer.StartConsuming(ctx, w.HandleMessage)
}

// HandleMessage processes one catalog event.
func (w *CatalogWorker) HandleMessage(ctx context.Context, msg kafka.Message) error {
	return w.eventHandler.HandleMessage(ctx, msg)
}

// Stop stops the worker
func (w *CatalogWorker) Stop() error {
	w.logger.Info("Stopping catalog worker")
	return w.consumer.Close()
}

func (w *CatalogWorker) handleProductsUpdated(ctx context.Context, event *models.ProductsUpdatedEvent) error {
	ctx, span := util.StartSpan(ctx, "CatalogWorker.HandleProductsUpdated")
	defer span.End()

	if w.locker != nil {
		acquired, err := w.locker.AcquireRefreshLock(ctx, refreshLockTTL)
		if err != nil {
			w.logger.Warn("Refresh lock unavailable, refreshing anyway", zap.Error(err))
		} else if !acquired {
			w.logger.Debug("Catalog refresh already running elsewhere", zap.String("event_id", event.EventID))
			return nil
		} else {
			defer func() {
				if err := w.locker.ReleaseRefreshLock(ctx); err != nil {
					w.logger.Warn("Failed to release refresh lock", zap.Error(err))
				}
			}()
		}
	}

	w.logger.Info("Products updated upstream, refreshing catalog",
		zap.String("event_id", event.EventID),
		zap.Int("products", len(event.ProductIDs)))

	return w.catalog.Refresh(ctx)
}
