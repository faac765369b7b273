package expense

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"cloud.google.com/go/civil"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/agency/internal/expense"
	"github.com/MrJamesThe3rd/agency/internal/http/respond"
)

type Handler struct {
	svc    *expense.Service
	ledger respond.Syncer
}

func NewHandler(svc *expense.Service, ledger respond.Syncer) *Handler {
	return &Handler{svc: svc, ledger: ledger}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Patch("/{id}/status", h.updateStatus)
}

type expenseResponse struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Status      expense.Status  `json:"status"`
	StartDate   civil.Date      `json:"start_date"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   *time.Time      `json:"updated_at,omitempty"`
}

func toResponse(e *expense.RecurringExpense) expenseResponse {
	return expenseResponse{
		ID:          e.ID,
		Description: e.Description,
		Amount:      e.Amount,
		Category:    e.Category,
		Status:      e.Status,
		StartDate:   e.StartDate,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, expense.ErrNotFound):
		http.Error(w, "recurring expense not found", http.StatusNotFound)
	case errors.Is(err, expense.ErrInvalid),
		errors.Is(err, expense.ErrInvalidAmount),
		errors.Is(err, expense.ErrInvalidStatus):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

type createExpenseRequest struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Status      expense.Status  `json:"status"`
	StartDate   civil.Date      `json:"start_date"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	e, err := h.svc.Create(r.Context(), expense.CreateParams(req))
	if err != nil {
		writeError(w, err)
		return
	}

	respond.Sync(w, r, h.ledger)
	respond.JSON(w, http.StatusCreated, toResponse(e))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := expense.ListFilter{}

	if s := r.URL.Query().Get("status"); s != "" {
		status := expense.Status(s)
		if !status.Valid() {
			http.Error(w, expense.ErrInvalidStatus.Error(), http.StatusBadRequest)
			return
		}

		filter.Status = &status
	}

	expenses, err := h.svc.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]expenseResponse, len(expenses))
	for i, e := range expenses {
		resp[i] = toResponse(e)
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	e, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(e))
}

type updateExpenseRequest struct {
	Description *string          `json:"description,omitempty"`
	Category    *string          `json:"category,omitempty"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	StartDate   *civil.Date      `json:"start_date,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req updateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	e, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), expense.UpdateParams(req))
	if err != nil {
		writeError(w, err)
		return
	}

	respond.Sync(w, r, h.ledger)
	respond.JSON(w, http.StatusOK, toResponse(e))
}

type updateStatusRequest struct {
	Status expense.Status `json:"status"`
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	e, err := h.svc.SetStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		writeError(w, err)
		return
	}

	respond.Sync(w, r, h.ledger)
	respond.JSON(w, http.StatusOK, toResponse(e))
}
