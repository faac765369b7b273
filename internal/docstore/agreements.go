package docstore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"cloud.google.com/go/firestore"

	"github.com/MrJamesThe3rd/agency/internal/contract"
	"github.com/MrJamesThe3rd/agency/internal/expense"
)

type contractDoc struct {
	ClientID   string     `firestore:"clientId"`
	ClientName string     `firestore:"clientName"`
	Title      string     `firestore:"title"`
	Amount     string     `firestore:"amount"`
	Status     string     `firestore:"status"`
	StartDate  string     `firestore:"startDate"`
	CreatedAt  time.Time  `firestore:"createdAt"`
	UpdatedAt  *time.Time `firestore:"updatedAt,omitempty"`
}

func toContractDoc(c *contract.Contract) contractDoc {
	return contractDoc{
		ClientID:   c.ClientID,
		ClientName: c.ClientName,
		Title:      c.Title,
		Amount:     c.Amount.StringFixed(2),
		Status:     string(c.Status),
		StartDate:  formatDate(c.StartDate),
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

func contractFromSnapshot(snap *firestore.DocumentSnapshot) (*contract.Contract, error) {
	var d contractDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, fmt.Errorf("decoding contract %s: %w", snap.Ref.ID, err)
	}

	return &contract.Contract{
		ID:         snap.Ref.ID,
		ClientID:   d.ClientID,
		ClientName: d.ClientName,
		Title:      d.Title,
		Amount:     parseAmount(contractsCollection, snap.Ref.ID, d.Amount),
		Status:     contract.Status(d.Status),
		StartDate:  parseDate(contractsCollection, snap.Ref.ID, d.StartDate),
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}, nil
}

func (s *Store) CreateContract(ctx context.Context, c *contract.Contract) error {
	ref := s.client.Collection(contractsCollection).NewDoc()

	c.CreatedAt = time.Now().UTC()

	if _, err := ref.Create(ctx, toContractDoc(c)); err != nil {
		return fmt.Errorf("creating contract: %w", err)
	}

	c.ID = ref.ID

	return nil
}

func (s *Store) GetContract(ctx context.Context, id string) (*contract.Contract, error) {
	snap, err := s.client.Collection(contractsCollection).Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, contract.ErrNotFound
		}

		return nil, fmt.Errorf("getting contract: %w", err)
	}

	return contractFromSnapshot(snap)
}

func (s *Store) UpdateContract(ctx context.Context, c *contract.Contract) error {
	now := time.Now().UTC()
	c.UpdatedAt = &now

	ref := s.client.Collection(contractsCollection).Doc(c.ID)

	_, err := ref.Update(ctx, []firestore.Update{
		{Path: "clientName", Value: c.ClientName},
		{Path: "title", Value: c.Title},
		{Path: "amount", Value: c.Amount.StringFixed(2)},
		{Path: "status", Value: string(c.Status)},
		{Path: "startDate", Value: formatDate(c.StartDate)},
		{Path: "updatedAt", Value: now},
	})
	if err != nil {
		if isNotFound(err) {
			return contract.ErrNotFound
		}

		return fmt.Errorf("updating contract: %w", err)
	}

	return nil
}

func (s *Store) ListContracts(ctx context.Context, filter contract.ListFilter) ([]*contract.Contract, error) {
	query := s.client.Collection(contractsCollection).Query
	if filter.Status != nil {
		query = query.Where("status", "==", string(*filter.Status))
	}

	snaps, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("listing contracts: %w", err)
	}

	contracts := make([]*contract.Contract, 0, len(snaps))

	for _, snap := range snaps {
		c, err := contractFromSnapshot(snap)
		if err != nil {
			return nil, err
		}

		contracts = append(contracts, c)
	}

	sortByStart(contracts,
		func(c *contract.Contract) civil.Date { return c.StartDate },
		func(c *contract.Contract) string { return c.ID },
	)

	return contracts, nil
}

type expenseDoc struct {
	Description string     `firestore:"description"`
	Amount      string     `firestore:"amount"`
	Category    string     `firestore:"category"`
	Status      string     `firestore:"status"`
	StartDate   string     `firestore:"startDate"`
	CreatedAt   time.Time  `firestore:"createdAt"`
	UpdatedAt   *time.Time `firestore:"updatedAt,omitempty"`
}

func expenseFromSnapshot(snap *firestore.DocumentSnapshot) (*expense.RecurringExpense, error) {
	var d expenseDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, fmt.Errorf("decoding recurring expense %s: %w", snap.Ref.ID, err)
	}

	return &expense.RecurringExpense{
		ID:          snap.Ref.ID,
		Description: d.Description,
		Amount:      parseAmount(expensesCollection, snap.Ref.ID, d.Amount),
		Category:    d.Category,
		Status:      expense.Status(d.Status),
		StartDate:   parseDate(expensesCollection, snap.Ref.ID, d.StartDate),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}, nil
}

func (s *Store) CreateRecurringExpense(ctx context.Context, e *expense.RecurringExpense) error {
	ref := s.client.Collection(expensesCollection).NewDoc()

	e.CreatedAt = time.Now().UTC()

	_, err := ref.Create(ctx, expenseDoc{
		Description: e.Description,
		Amount:      e.Amount.StringFixed(2),
		Category:    e.Category,
		Status:      string(e.Status),
		StartDate:   formatDate(e.StartDate),
		CreatedAt:   e.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("creating recurring expense: %w", err)
	}

	e.ID = ref.ID

	return nil
}

func (s *Store) GetRecurringExpense(ctx context.Context, id string) (*expense.RecurringExpense, error) {
	snap, err := s.client.Collection(expensesCollection).Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, expense.ErrNotFound
		}

		return nil, fmt.Errorf("getting recurring expense: %w", err)
	}

	return expenseFromSnapshot(snap)
}

func (s *Store) UpdateRecurringExpense(ctx context.Context, e *expense.RecurringExpense) error {
	now := time.Now().UTC()
	e.UpdatedAt = &now

	_, err := s.client.Collection(expensesCollection).Doc(e.ID).Update(ctx, []firestore.Update{
		{Path: "description", Value: e.Description},
		{Path: "amount", Value: e.Amount.StringFixed(2)},
		{Path: "category", Value: e.Category},
		{Path: "status", Value: string(e.Status)},
		{Path: "startDate", Value: formatDate(e.StartDate)},
		{Path: "updatedAt", Value: now},
	})
	if err != nil {
		if isNotFound(err) {
			return expense.ErrNotFound
		}

		return fmt.Errorf("updating recurring expense: %w", err)
	}

	return nil
}

func (s *Store) ListRecurringExpenses(ctx context.Context, filter expense.ListFilter) ([]*expense.RecurringExpense, error) {
	query := s.client.Collection(expensesCollection).Query
	if filter.Status != nil {
		query = query.Where("status", "==", string(*filter.Status))
	}

	snaps, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("listing recurring expenses: %w", err)
	}

	expenses := make([]*expense.RecurringExpense, 0, len(snaps))

	for _, snap := range snaps {
		e, err := expenseFromSnapshot(snap)
		if err != nil {
			return nil, err
		}

		expenses = append(expenses, e)
	}

	sortByStart(expenses,
		func(e *expense.RecurringExpense) civil.Date { return e.StartDate },
		func(e *expense.RecurringExpense) string { return e.ID },
	)

	return expenses, nil
}
