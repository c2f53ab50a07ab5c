package api

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/tendant/simple-ingest/pkg/mediaingest"
)

// Ledger scopes, one per provider endpoint. Folding the scope into the
// idempotency key keeps equal raw event ids from different providers apart.
const (
	ScopePush = "push"
	ScopeS3   = "s3"
)

// PushWebhookHandler receives push-style storage notifications: one signed
// JSON body per delivery.
type PushWebhookHandler struct {
	svc      mediaingest.Service
	verifier CredentialVerifier
}

// NewPushWebhookHandler creates a new push webhook handler
func NewPushWebhookHandler(svc mediaingest.Service, verifier CredentialVerifier) *PushWebhookHandler {
	return &PushWebhookHandler{
		svc:      svc,
		verifier: verifier,
	}
}

// Routes returns the router for the push webhook endpoint. Non-POST methods
// are rejected by the router before any body is read.
func (h *PushWebhookHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Receive)
	return r
}

// Receive authenticates and dispatches one push notification
func (h *PushWebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	if err := h.verifier.Verify(r); err != nil {
		slog.Warn("push webhook rejected", "err", err)
		http.Error(w, "invalid credential", http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		slog.Error("Fail to read request body", "err", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	event, err := mediaingest.ParsePushEvent(body)
	if err != nil {
		slog.Error("Fail to decode push event", "err", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.svc.ProcessEvent(r.Context(), ScopePush, event)
	if err != nil {
		// Surface as a server error so the provider redelivers.
		slog.Error("Fail to process push event", "event_id", event.RawEventID, "err", err)
		http.Error(w, "event processing failed", http.StatusInternalServerError)
		return
	}

	writeResult(w, r, result)
}

// writeResult maps a dispatch outcome to the acknowledgement the provider
// retry policies expect: 204 when state changed, plain 200 otherwise.
func writeResult(w http.ResponseWriter, r *http.Request, result mediaingest.ProcessResult) {
	if result == mediaingest.ResultApplied {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	render.PlainText(w, r, http.StatusText(http.StatusOK))
}
