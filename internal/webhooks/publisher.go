package webhooks

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"geolocation-service/internal/model"
)

type SubscriptionStore interface {
	ActiveSubscriptionsForEvent(ctx context.Context, eventType string) ([]model.WebhookSubscription, error)
	EnqueueDelivery(ctx context.Context, delivery *model.WebhookDelivery) error
}

// Publisher enqueues one pending delivery per matching subscription. Actual
// sending is the worker's job.
type Publisher struct {
	store SubscriptionStore
	log   zerolog.Logger
}

func NewPublisher(store SubscriptionStore, log zerolog.Logger) *Publisher {
	return &Publisher{store: store, log: log}
}

func (p *Publisher) Emit(ctx context.Context, eventType string, data interface{}) {
	subs, err := p.store.ActiveSubscriptionsForEvent(ctx, eventType)
	if err != nil {
		p.log.Error().Err(err).Str("event_type", eventType).Msg("load webhook subscriptions")
		return
	}
	if len(subs) == 0 {
		return
	}

	payload, err := json.Marshal(map[string]interface{}{
		"id":   "evt_" + uuid.NewString(),
		"type": eventType,
		"ts":   time.Now().UTC().Format(time.RFC3339),
		"data": data,
	})
	if err != nil {
		p.log.Error().Err(err).Str("event_type", eventType).Msg("marshal webhook payload")
		return
	}

	for _, sub := range subs {
		delivery := &model.WebhookDelivery{
			SubscriptionID: sub.ID,
			EventType:      eventType,
			URL:            sub.URL,
			Secret:         sub.Secret,
			Payload:        payload,
			Status:         model.DeliveryStatusPending,
		}
		if err := p.store.EnqueueDelivery(ctx, delivery); err != nil {
			p.log.Error().Err(err).Str("event_type", eventType).Str("url", sub.URL).Msg("enqueue webhook delivery")
		}
	}
}
