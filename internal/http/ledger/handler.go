package ledger

import (
	"net/http"

	"cloud.google.com/go/civil"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/agency/internal/http/respond"
	"github.com/MrJamesThe3rd/agency/internal/ledger"
)

type Handler struct {
	svc *ledger.Service
}

func NewHandler(svc *ledger.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/materialize", h.materialize)
	r.Get("/summary", h.summary)
}

type skipResponse struct {
	Kind   ledger.Kind `json:"kind"`
	ID     string      `json:"id"`
	Reason string      `json:"reason"`
}

type materializeResponse struct {
	Today      civil.Date     `json:"today"`
	Planned    int            `json:"planned"`
	Inserted   int            `json:"inserted"`
	InvoiceIDs []string       `json:"invoice_ids"`
	Skipped    []skipResponse `json:"skipped"`
}

func (h *Handler) materialize(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Sync(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := materializeResponse{
		Today:      res.Today,
		Planned:    res.Planned,
		Inserted:   len(res.Inserted),
		InvoiceIDs: make([]string, 0, len(res.Inserted)),
		Skipped:    make([]skipResponse, 0, len(res.Skipped)),
	}

	for _, tx := range res.Inserted {
		resp.InvoiceIDs = append(resp.InvoiceIDs, tx.InvoiceID)
	}

	for _, s := range res.Skipped {
		resp.Skipped = append(resp.Skipped, skipResponse(s))
	}

	respond.JSON(w, http.StatusOK, resp)
}

type monthResponse struct {
	Month   string          `json:"month"`
	Label   string          `json:"label"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

type summaryResponse struct {
	TotalBalance            decimal.Decimal `json:"total_balance"`
	MonthlyRecurringRevenue decimal.Decimal `json:"monthly_recurring_revenue"`
	MonthlyRecurringCost    decimal.Decimal `json:"monthly_recurring_cost"`
	Series                  []monthResponse `json:"series"`
	Excluded                int             `json:"excluded"`
	Stale                   bool            `json:"stale"`
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	s, err := h.svc.Summary(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := summaryResponse{
		TotalBalance:            s.TotalBalance,
		MonthlyRecurringRevenue: s.MonthlyRecurringRevenue,
		MonthlyRecurringCost:    s.MonthlyRecurringCost,
		Series:                  make([]monthResponse, len(s.Series)),
		Excluded:                s.Excluded,
		Stale:                   s.Stale,
	}

	for i, m := range s.Series {
		resp.Series[i] = monthResponse{
			Month:   m.Month.String(),
			Label:   m.Month.Label(),
			Income:  m.Income,
			Expense: m.Expense,
		}
	}

	if s.Stale {
		w.Header().Set(respond.SyncHeader, "failed")
	}

	respond.JSON(w, http.StatusOK, resp)
}
