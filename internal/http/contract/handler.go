package contract

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"cloud.google.com/go/civil"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/agency/internal/contract"
	"github.com/MrJamesThe3rd/agency/internal/http/respond"
)

type Handler struct {
	svc    *contract.Service
	ledger respond.Syncer
}

// NewHandler wires the contract routes. Every successful write is followed
// by a sync of ledger so the new months show up immediately.
func NewHandler(svc *contract.Service, ledger respond.Syncer) *Handler {
	return &Handler{svc: svc, ledger: ledger}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Patch("/{id}/status", h.updateStatus)
}

type contractResponse struct {
	ID         string          `json:"id"`
	ClientID   string          `json:"client_id"`
	ClientName string          `json:"client_name"`
	Title      string          `json:"title"`
	Amount     decimal.Decimal `json:"amount"`
	Status     contract.Status `json:"status"`
	StartDate  civil.Date      `json:"start_date"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  *time.Time      `json:"updated_at,omitempty"`
}

func toResponse(c *contract.Contract) contractResponse {
	return contractResponse{
		ID:         c.ID,
		ClientID:   c.ClientID,
		ClientName: c.ClientName,
		Title:      c.Title,
		Amount:     c.Amount,
		Status:     c.Status,
		StartDate:  c.StartDate,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, contract.ErrNotFound):
		http.Error(w, "contract not found", http.StatusNotFound)
	case errors.Is(err, contract.ErrInvalid),
		errors.Is(err, contract.ErrInvalidAmount),
		errors.Is(err, contract.ErrInvalidStatus):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

type createContractRequest struct {
	ClientID   string          `json:"client_id"`
	ClientName string          `json:"client_name"`
	Title      string          `json:"title"`
	Amount     decimal.Decimal `json:"amount"`
	Status     contract.Status `json:"status"`
	StartDate  civil.Date      `json:"start_date"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createContractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	c, err := h.svc.Create(r.Context(), contract.CreateParams(req))
	if err != nil {
		writeError(w, err)
		return
	}

	respond.Sync(w, r, h.ledger)
	respond.JSON(w, http.StatusCreated, toResponse(c))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := contract.ListFilter{}

	if s := r.URL.Query().Get("status"); s != "" {
		status := contract.Status(s)
		if !status.Valid() {
			http.Error(w, contract.ErrInvalidStatus.Error(), http.StatusBadRequest)
			return
		}

		filter.Status = &status
	}

	contracts, err := h.svc.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]contractResponse, len(contracts))
	for i, c := range contracts {
		resp[i] = toResponse(c)
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(c))
}

type updateContractRequest struct {
	ClientName *string          `json:"client_name,omitempty"`
	Title      *string          `json:"title,omitempty"`
	Amount     *decimal.Decimal `json:"amount,omitempty"`
	StartDate  *civil.Date      `json:"start_date,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req updateContractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	c, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), contract.UpdateParams(req))
	if err != nil {
		writeError(w, err)
		return
	}

	respond.Sync(w, r, h.ledger)
	respond.JSON(w, http.StatusOK, toResponse(c))
}

type updateStatusRequest struct {
	Status contract.Status `json:"status"`
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	c, err := h.svc.SetStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		writeError(w, err)
		return
	}

	respond.Sync(w, r, h.ledger)
	respond.JSON(w, http.StatusOK, toResponse(c))
}
