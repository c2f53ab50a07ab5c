package api

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/tendant/simple-ingest/pkg/mediaingest"
)

// SubscriptionConfirmer completes the pub/sub handshake by calling the
// callback URL carried in a SubscriptionConfirmation body.
type SubscriptionConfirmer interface {
	Confirm(ctx context.Context, url string) error
}

// HTTPConfirmer confirms subscriptions with a plain GET
type HTTPConfirmer struct {
	Client *http.Client
}

func (c HTTPConfirmer) Confirm(ctx context.Context, url string) error {
	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build confirmation request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("confirm subscription: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("confirm subscription: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// S3WebhookHandler receives pub/sub-style storage notifications: handshake
// bodies, notification envelopes and direct record batches.
type S3WebhookHandler struct {
	svc       mediaingest.Service
	confirmer SubscriptionConfirmer
}

// NewS3WebhookHandler creates a new S3 events webhook handler
func NewS3WebhookHandler(svc mediaingest.Service, confirmer SubscriptionConfirmer) *S3WebhookHandler {
	if confirmer == nil {
		confirmer = HTTPConfirmer{}
	}
	return &S3WebhookHandler{
		svc:       svc,
		confirmer: confirmer,
	}
}

// Routes returns the router for the S3 events webhook endpoint. Non-POST
// methods are rejected by the router before any body is read.
func (h *S3WebhookHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Receive)
	return r
}

// Receive classifies and dispatches one delivery. Records in a batch are
// dispatched independently: a persistence failure on one record does not stop
// its siblings, but is still surfaced so the provider redelivers (the ledger
// shields the records that already went through).
func (h *S3WebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		slog.Error("Fail to read request body", "err", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	payload, err := mediaingest.ParseS3Payload(body)
	if err != nil {
		slog.Error("Fail to decode notification", "err", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if payload.Kind == mediaingest.S3PayloadSubscriptionConfirmation {
		if err := h.confirmer.Confirm(r.Context(), payload.SubscribeURL); err != nil {
			slog.Error("Fail to confirm subscription", "err", err)
			http.Error(w, "subscription confirmation failed", http.StatusInternalServerError)
			return
		}
		slog.Info("subscription confirmed", "url", payload.SubscribeURL)
		render.PlainText(w, r, http.StatusText(http.StatusOK))
		return
	}

	applied := 0
	var failed error
	for _, rec := range payload.Records {
		event := rec.Canonical()
		result, err := h.svc.ProcessEvent(r.Context(), ScopeS3, event)
		if err != nil {
			slog.Error("Fail to process record", "event_id", event.RawEventID, "err", err)
			failed = err
			continue
		}
		if result == mediaingest.ResultApplied {
			applied++
		}
	}

	if failed != nil {
		http.Error(w, "event processing failed", http.StatusInternalServerError)
		return
	}
	if applied > 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	render.PlainText(w, r, http.StatusText(http.StatusOK))
}
