package webhooks

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"geolocation-service/internal/config"
	"geolocation-service/internal/model"
)

type DeliveryStore interface {
	FetchDueDeliveries(ctx context.Context, limit int) ([]model.WebhookDelivery, error)
	MarkDelivered(ctx context.Context, id uuid.UUID, responseCode int) error
	MarkRetry(ctx context.Context, id uuid.UUID, nextAttemptAt time.Time, lastError string, responseCode int) error
	MarkFailed(ctx context.Context, id uuid.UUID, lastError string, responseCode int) error
}

const fetchBatchSize = 50

// Worker periodically sweeps pending deliveries and POSTs them. Failed
// attempts are rescheduled with exponential backoff until MaxAttempts, then
// marked failed permanently. Delivery is at-least-once.
type Worker struct {
	store       DeliveryStore
	httpClient  *http.Client
	log         zerolog.Logger
	interval    time.Duration
	maxAttempts int
	stop        chan struct{}
}

func NewWorker(store DeliveryStore, cfg config.WebhookConfig, log zerolog.Logger) *Worker {
	return &Worker{
		store:       store,
		httpClient:  &http.Client{Timeout: cfg.RequestTimeout},
		log:         log,
		interval:    cfg.SweepInterval,
		maxAttempts: cfg.MaxAttempts,
		stop:        make(chan struct{}),
	}
}

func (w *Worker) Start() {
	go func() {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		for {
			select {
			case <-w.stop:
				return
			case <-ticker.C:
				w.ProcessOnce(context.Background())
			}
		}
	}()
}

func (w *Worker) Stop() {
	close(w.stop)
}

func (w *Worker) ProcessOnce(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	deliveries, err := w.store.FetchDueDeliveries(ctx, fetchBatchSize)
	if err != nil {
		w.log.Error().Err(err).Msg("fetch due webhook deliveries")
		return
	}

	for _, delivery := range deliveries {
		w.attempt(ctx, delivery)
	}
}

func (w *Worker) attempt(ctx context.Context, delivery model.WebhookDelivery) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, delivery.URL, bytes.NewReader(delivery.Payload))
	if err != nil {
		w.fail(ctx, delivery, err.Error(), 0)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Event-Type", delivery.EventType)
	if delivery.Secret != "" {
		req.Header.Set("X-Signature", SignHMAC(delivery.Secret, delivery.Payload))
	}

	resp, err := w.httpClient.Do(req)
	code := 0
	if resp != nil {
		code = resp.StatusCode
		if resp.Body != nil {
			_ = resp.Body.Close()
		}
	}

	if err == nil && code >= 200 && code < 300 {
		if markErr := w.store.MarkDelivered(ctx, delivery.ID, code); markErr != nil {
			w.log.Error().Err(markErr).Str("delivery_id", delivery.ID.String()).Msg("mark webhook delivered")
		}
		return
	}

	lastError := ""
	if err != nil {
		lastError = err.Error()
	}
	w.fail(ctx, delivery, lastError, code)
}

func (w *Worker) fail(ctx context.Context, delivery model.WebhookDelivery, lastError string, code int) {
	if delivery.Attempts+1 >= w.maxAttempts {
		if err := w.store.MarkFailed(ctx, delivery.ID, lastError, code); err != nil {
			w.log.Error().Err(err).Str("delivery_id", delivery.ID.String()).Msg("mark webhook failed")
		}
		return
	}

	next := time.Now().Add(nextBackoff(delivery.Attempts))
	if err := w.store.MarkRetry(ctx, delivery.ID, next, lastError, code); err != nil {
		w.log.Error().Err(err).Str("delivery_id", delivery.ID.String()).Msg("schedule webhook retry")
	}
}

func nextBackoff(attempts int) time.Duration {
	if attempts < 0 {
		attempts = 0
	}
	if attempts > 10 {
		attempts = 10
	}
	backoff := time.Minute * time.Duration(1<<attempts)
	if backoff > time.Hour {
		backoff = time.Hour
	}
	return backoff
}
