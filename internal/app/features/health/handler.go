package health

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dalemusser/syncadmin/internal/app/system/syncapi"
	"github.com/dalemusser/syncadmin/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Handler holds dependencies needed for health checks.
type Handler struct {
	Client *mongo.Client
	API    *syncapi.Client
	Log    *zap.Logger
}

// NewHandler constructs a health Handler. client may be nil when the
// console runs without an audit database.
func NewHandler(client *mongo.Client, api *syncapi.Client, logger *zap.Logger) *Handler {
	return &Handler{
		Client: client,
		API:    api,
		Log:    logger,
	}
}

// healthResponse is the JSON structure for the health check response.
type healthResponse struct {
	Status     string `json:"status"`
	Database   string `json:"database"`
	SyncServer string `json:"sync_server"`
	Message    string `json:"message,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Serve handles GET /health.
//
// On success: 200 and
//
//	{ "status":"ok", "database":"connected", "sync_server":"reachable" }
//
// When the database is down: 503. An unreachable sync server is reported
// as "degraded" with 200, since the console still serves its own pages.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	w.Header().Set("Content-Type", "application/json")

	resp := healthResponse{
		Status:     "ok",
		Database:   "disabled",
		SyncServer: "reachable",
	}

	if h.Client != nil {
		if err := h.Client.Ping(ctx, readpref.Primary()); err != nil {
			h.Log.Error("health-check: mongo ping failed", zap.Error(err))
			w.WriteHeader(http.StatusServiceUnavailable)
			resp.Status = "error"
			resp.Database = "disconnected"
			resp.Message = "Database unavailable"
			resp.Error = err.Error()
			_ = json.NewEncoder(w).Encode(resp)
			return
		}
		resp.Database = "connected"
	}

	if err := h.API.Ping(ctx); err != nil {
		h.Log.Warn("health-check: sync server ping failed", zap.Error(err))
		resp.Status = "degraded"
		resp.SyncServer = "unreachable"
		resp.Message = syncapi.Message(err)
		resp.Error = err.Error()
	}

	_ = json.NewEncoder(w).Encode(resp)
}
