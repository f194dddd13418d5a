package service

import (
	"context"

	"geolocation-service/internal/model"
)

type SubscriptionAdminStore interface {
	CreateSubscription(ctx context.Context, sub *model.WebhookSubscription) error
	ListSubscriptions(ctx context.Context) ([]model.WebhookSubscription, error)
}

type WebhookService struct {
	store SubscriptionAdminStore
}

func NewWebhookService(store SubscriptionAdminStore) *WebhookService {
	return &WebhookService{store: store}
}

type CreateSubscriptionInput struct {
	EventType string
	URL       string
	Secret    string
}

func (s *WebhookService) CreateSubscription(ctx context.Context, principal model.Principal, input CreateSubscriptionInput) (*model.WebhookSubscription, error) {
	if !principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}
	if input.EventType == "" || input.URL == "" {
		return nil, ErrInvalidInput
	}

	sub := &model.WebhookSubscription{
		EventType: input.EventType,
		URL:       input.URL,
		Secret:    input.Secret,
		IsActive:  true,
	}
	if err := s.store.CreateSubscription(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *WebhookService) ListSubscriptions(ctx context.Context, principal model.Principal) ([]model.WebhookSubscription, error) {
	if !principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}
	return s.store.ListSubscriptions(ctx)
}
