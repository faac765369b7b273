package export

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"cloud.google.com/go/civil"
	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/agency/internal/export"
	"github.com/MrJamesThe3rd/agency/internal/transaction"
)

type Handler struct {
	svc *export.Service
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/ledger", h.ledger)
}

func (h *Handler) ledger(w http.ResponseWriter, r *http.Request) {
	filter := transaction.ListFilter{}

	for param, dst := range map[string]**civil.Date{
		"start_date": &filter.StartDate,
		"end_date":   &filter.EndDate,
	} {
		s := r.URL.Query().Get(param)
		if s == "" {
			continue
		}

		d, err := civil.ParseDate(s)
		if err != nil {
			http.Error(w, param+" must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		*dst = &d
	}

	// Buffered so a failure halfway through still gets a proper status.
	var buf bytes.Buffer
	if err := h.svc.Write(r.Context(), &buf, filter); err != nil {
		slog.Error("failed to export ledger", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"ledger_%s.xlsx\"", time.Now().UTC().Format("20060102")))

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write export", "error", err)
	}
}
