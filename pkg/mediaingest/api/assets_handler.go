package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/tendant/simple-ingest/pkg/mediaingest"
)

// AssetsHandler handles the internal media-asset API endpoints
type AssetsHandler struct {
	svc mediaingest.Service
}

// NewAssetsHandler creates a new assets handler
func NewAssetsHandler(svc mediaingest.Service) *AssetsHandler {
	return &AssetsHandler{svc: svc}
}

// Routes returns the router for asset endpoints
func (h *AssetsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.CreateAsset)
	r.Get("/{asset_id}", h.GetAsset)
	return r
}

// CreateAssetRequest represents the request to register a pending upload
type CreateAssetRequest struct {
	UserID      string `json:"user_id"`
	Purpose     string `json:"purpose"`
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type,omitempty"`
}

// CreateAssetResponse represents the response after registering an upload
type CreateAssetResponse struct {
	AssetID     string    `json:"asset_id"`
	StoragePath string    `json:"storage_path"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateAsset registers a pending-upload asset and returns its storage path
func (h *AssetsHandler) CreateAsset(w http.ResponseWriter, r *http.Request) {
	var req CreateAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Fail to decode request", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		slog.Error("Invalid user ID", "user_id", req.UserID, "error", err)
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}
	if req.Purpose == "" {
		slog.Error("Purpose is required")
		http.Error(w, "Purpose is required", http.StatusBadRequest)
		return
	}

	asset, err := h.svc.CreateAsset(r.Context(), mediaingest.CreateAssetRequest{
		UserID:      userID,
		Purpose:     mediaingest.AssetPurpose(req.Purpose),
		FileName:    req.FileName,
		ContentType: req.ContentType,
	})
	if err != nil {
		slog.Error("Failed to create asset", "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	slog.Info("Asset created", "asset_id", asset.ID.String(), "path", asset.StoragePath)

	resp := CreateAssetResponse{
		AssetID:     asset.ID.String(),
		StoragePath: asset.StoragePath,
		Status:      string(asset.Status),
		CreatedAt:   asset.CreatedAt,
	}
	render.JSON(w, r, resp)
}

// GetAsset returns one tracked asset
func (h *AssetsHandler) GetAsset(w http.ResponseWriter, r *http.Request) {
	assetIDStr := chi.URLParam(r, "asset_id")
	assetID, err := uuid.Parse(assetIDStr)
	if err != nil {
		slog.Error("Invalid asset ID", "asset_id", assetIDStr, "error", err)
		http.Error(w, "Invalid asset ID", http.StatusBadRequest)
		return
	}

	asset, err := h.svc.GetAsset(r.Context(), assetID)
	if err != nil {
		if errors.Is(err, mediaingest.ErrAssetNotFound) {
			http.Error(w, "Asset not found", http.StatusNotFound)
			return
		}
		slog.Error("Fail to get asset", "asset_id", assetID.String(), "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	render.JSON(w, r, asset)
}
