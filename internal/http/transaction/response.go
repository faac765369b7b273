package transaction

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/agency/internal/transaction"
)

type transactionResponse struct {
	ID                 string           `json:"id"`
	Amount             decimal.Decimal  `json:"amount"`
	Type               transaction.Type `json:"type"`
	Description        string           `json:"description"`
	RawDescription     string           `json:"raw_description,omitempty"`
	Category           string           `json:"category,omitempty"`
	Date               civil.Date       `json:"date"`
	Recurring          bool             `json:"recurring"`
	InvoiceID          string           `json:"invoice_id,omitempty"`
	ContractID         string           `json:"contract_id,omitempty"`
	RecurringExpenseID string           `json:"recurring_expense_id,omitempty"`
	CreatedAt          time.Time        `json:"created_at"`
}

func toResponse(tx *transaction.Transaction) transactionResponse {
	return transactionResponse{
		ID:                 tx.ID,
		Amount:             tx.Amount,
		Type:               tx.Type,
		Description:        tx.Description,
		RawDescription:     tx.RawDescription,
		Category:           tx.Category,
		Date:               tx.Date,
		Recurring:          tx.Recurring,
		InvoiceID:          tx.InvoiceID,
		ContractID:         tx.ContractID,
		RecurringExpenseID: tx.RecurringExpenseID,
		CreatedAt:          tx.CreatedAt,
	}
}

func toResponseList(txs []*transaction.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = toResponse(tx)
	}

	return resp
}
