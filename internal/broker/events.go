package broker

import (
	"context"
	"encoding/json"
	"fmt"

	"storefront/internal/models"
	"storefront/internal/util"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// cartKey keeps every event for one cart on one partition.
const cartKey = "cart-%s"

// EventPublisher publishes cart events
type EventPublisher struct {
	producer *Producer
	cartID   string
}

// NewEventPublisher creates a publisher for the cart stored under cartID
func NewEventPublisher(producer *Producer, cartID string) *EventPublisher {
	return &EventPublisher{producer: producer, cartID: cartID}
}

func (ep *EventPublisher) publish(ctx context.Context, eventType string, event interface{}) error {
	err := ep.producer.PublishEvent(ctx, fmt.Sprintf(cartKey, ep.cartID), event)
	status := "ok"
	if err != nil {
		status = "error"
	}
	util.EventsPublishedTotal.WithLabelValues(eventType, status).Inc()
	return err
}

// PublishCartItemAdded publishes CartItemAdded event
func (ep *EventPublisher) PublishCartItemAdded(ctx context.Context, event *models.CartItemEvent) error {
	return ep.publish(ctx, models.EventTypeCartItemAdded, event)
}

// PublishCartItemRemoved publishes CartItemRemoved event
func (ep *EventPublisher) PublishCartItemRemoved(ctx context.Context, event *models.CartItemEvent) error {
	return ep.publish(ctx, models.EventTypeCartItemRemoved, event)
}

// PublishCartQuantityUpdated publishes CartQuantityUpdated event
func (ep *EventPublisher) PublishCartQuantityUpdated(ctx context.Context, event *models.CartItemEvent) error {
	return ep.publish(ctx, models.EventTypeCartQuantityUpdated, event)
}

// PublishCartCleared publishes CartCleared event
func (ep *EventPublisher) PublishCartCleared(ctx context.Context, event *models.CartClearedEvent) error {
	return ep.publish(ctx, models.EventTypeCartCleared, event)
}

// EventHandler routes catalog events
type EventHandler struct {
	onProductsUpdated func(context.Context, *models.ProductsUpdatedEvent) error
	logger            *zap.Logger
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{logger: util.GetLogger()}
}

// OnProductsUpdated registers a handler for ProductsUpdated events
func (eh *EventHandler) OnProductsUpdated(handler func(context.Context, *models.ProductsUpdatedEvent) error) {
	eh.onProductsUpdated = handler
}

// HandleMessage routes messages to appropriate handlers. Unknown and
// undecodable events are logged and acknowledged.
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		eh.logger.Warn("Dropping undecodable event", zap.Int64("offset", msg.Offset), zap.Error(err))
		return nil
	}

	eh.logger.Debug("Handling event",
		zap.String("type", baseEvent.EventType),
		zap.String("id", baseEvent.EventID))

	switch baseEvent.EventType {
	case models.EventTypeProductsUpdated:
		if eh.onProductsUpdated != nil {
			var event models.ProductsUpdatedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal ProductsUpdated event: %w", err)
			}
			return eh.onProductsUpdated(ctx, &event)
		}

	default:
		eh.logger.Info("Unhandled event type", zap.String("type", baseEvent.EventType))
	}

	return nil
}
