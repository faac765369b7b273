package importcsv

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"cloud.google.com/go/civil"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/agency/internal/http/respond"
	"github.com/MrJamesThe3rd/agency/internal/importer"
	"github.com/MrJamesThe3rd/agency/internal/importer/statement"
	"github.com/MrJamesThe3rd/agency/internal/transaction"
)

const maxUpload = 10 << 20

type Handler struct {
	svc *importer.Service
}

func NewHandler(svc *importer.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importCSV)
	r.Post("/confirm", h.confirmImport)
	r.Get("/formats", h.formats)
}

type transactionResponse struct {
	ID             string           `json:"id"`
	Amount         decimal.Decimal  `json:"amount"`
	Type           transaction.Type `json:"type"`
	Description    string           `json:"description"`
	RawDescription string           `json:"raw_description,omitempty"`
	Category       string           `json:"category,omitempty"`
	Date           civil.Date       `json:"date"`
	Recurring      bool             `json:"recurring"`
	CreatedAt      time.Time        `json:"created_at"`
}

type importSuccessResponse struct {
	Imported     int                   `json:"imported"`
	Transactions []transactionResponse `json:"transactions"`
}

type createParamsDTO struct {
	Amount         decimal.Decimal  `json:"amount"`
	Type           transaction.Type `json:"type"`
	Description    string           `json:"description"`
	RawDescription string           `json:"raw_description"`
	Category       string           `json:"category"`
	Date           civil.Date       `json:"date"`
}

type conflictDTO struct {
	Incoming createParamsDTO     `json:"incoming"`
	Existing transactionResponse `json:"existing"`
}

type importConflictResponse struct {
	New       []createParamsDTO `json:"new"`
	Conflicts []conflictDTO     `json:"conflicts"`
}

type confirmRequest struct {
	Params []createParamsDTO `json:"params"`
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	format := r.FormValue("format")
	if format == "" {
		format = importer.FormatAuto
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	result, err := h.svc.Import(r.Context(), format, file)
	if err != nil {
		if errors.Is(err, statement.ErrUnknownFormat) || errors.Is(err, statement.ErrUnknownProfile) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		http.Error(w, err.Error(), http.StatusUnprocessableEntity)

		return
	}

	if len(result.Conflicts) > 0 {
		resp := importConflictResponse{
			New:       make([]createParamsDTO, 0, len(result.New)),
			Conflicts: make([]conflictDTO, 0, len(result.Conflicts)),
		}
		for _, p := range result.New {
			resp.New = append(resp.New, createParamsDTO(p))
		}

		for _, c := range result.Conflicts {
			resp.Conflicts = append(resp.Conflicts, conflictDTO{
				Incoming: createParamsDTO(c.Incoming),
				Existing: toTxResponse(c.Existing),
			})
		}

		respond.JSON(w, http.StatusConflict, resp)

		return
	}

	respond.JSON(w, http.StatusCreated, toSuccessResponse(result.Imported))
}

func (h *Handler) confirmImport(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	params := make([]transaction.CreateParams, 0, len(req.Params))
	for _, p := range req.Params {
		params = append(params, transaction.CreateParams(p))
	}

	txs, err := h.svc.Confirm(r.Context(), params)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	respond.JSON(w, http.StatusCreated, toSuccessResponse(txs))
}

func (h *Handler) formats(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, append([]string{importer.FormatAuto}, statement.Profiles()...))
}

func toSuccessResponse(txs []*transaction.Transaction) importSuccessResponse {
	responses := make([]transactionResponse, 0, len(txs))
	for _, tx := range txs {
		responses = append(responses, toTxResponse(tx))
	}

	return importSuccessResponse{
		Imported:     len(txs),
		Transactions: responses,
	}
}

func toTxResponse(tx *transaction.Transaction) transactionResponse {
	return transactionResponse{
		ID:             tx.ID,
		Amount:         tx.Amount,
		Type:           tx.Type,
		Description:    tx.Description,
		RawDescription: tx.RawDescription,
		Category:       tx.Category,
		Date:           tx.Date,
		Recurring:      tx.Recurring,
		CreatedAt:      tx.CreatedAt,
	}
}
