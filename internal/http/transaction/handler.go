package transaction

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"cloud.google.com/go/civil"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/agency/internal/http/respond"
	"github.com/MrJamesThe3rd/agency/internal/transaction"
)

type Handler struct {
	svc    *transaction.Service
	ledger respond.Syncer
}

// NewHandler wires the transaction routes. Listing syncs ledger first so
// reads never miss an elapsed month.
func NewHandler(svc *transaction.Service, ledger respond.Syncer) *Handler {
	return &Handler{svc: svc, ledger: ledger}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Delete("/{id}", h.delete)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, transaction.ErrNotFound):
		http.Error(w, "transaction not found", http.StatusNotFound)
	case errors.Is(err, transaction.ErrRecurringEntry):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, transaction.ErrInvalidType),
		errors.Is(err, transaction.ErrInvalidAmount),
		errors.Is(err, transaction.ErrInvalidDate):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

type createTransactionRequest struct {
	Amount      decimal.Decimal  `json:"amount"`
	Type        transaction.Type `json:"type"`
	Description string           `json:"description"`
	Category    string           `json:"category"`
	Date        civil.Date       `json:"date"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tx, err := h.svc.Create(r.Context(), transaction.CreateParams{
		Amount:      req.Amount,
		Type:        req.Type,
		Description: req.Description,
		Category:    req.Category,
		Date:        req.Date,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(tx))
}

func parseFilter(q url.Values) (transaction.ListFilter, error) {
	filter := transaction.ListFilter{}

	if s := q.Get("type"); s != "" {
		typ := transaction.Type(s)
		if !typ.Valid() {
			return filter, transaction.ErrInvalidType
		}

		filter.Type = &typ
	}

	if s := q.Get("recurring"); s != "" {
		recurring, err := strconv.ParseBool(s)
		if err != nil {
			return filter, errors.New("recurring must be true or false")
		}

		filter.Recurring = &recurring
	}

	if s := q.Get("start_date"); s != "" {
		d, err := civil.ParseDate(s)
		if err != nil {
			return filter, errors.New("start_date must be YYYY-MM-DD")
		}

		filter.StartDate = &d
	}

	if s := q.Get("end_date"); s != "" {
		d, err := civil.ParseDate(s)
		if err != nil {
			return filter, errors.New("end_date must be YYYY-MM-DD")
		}

		filter.EndDate = &d
	}

	return filter, nil
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	respond.Sync(w, r, h.ledger)

	txs, err := h.svc.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponseList(txs))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	tx, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(tx))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
