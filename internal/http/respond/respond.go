// Package respond holds the response helpers shared by the API handlers.
package respond

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/MrJamesThe3rd/agency/internal/ledger"
)

// SyncHeader is set to "failed" when a write succeeded but the follow-up
// ledger sync did not.
const SyncHeader = "X-Ledger-Sync"

type Syncer interface {
	Sync(ctx context.Context) (*ledger.Result, error)
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Sync brings the ledger up to date after an agreement write. The write has
// already happened, so a failure is only reported through SyncHeader and the
// next sync picks the entries up.
func Sync(w http.ResponseWriter, r *http.Request, s Syncer) {
	if s == nil {
		return
	}

	if _, err := s.Sync(r.Context()); err != nil {
		slog.Error("failed to sync ledger", "error", err)
		w.Header().Set(SyncHeader, "failed")
	}
}
