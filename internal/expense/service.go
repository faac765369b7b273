package expense

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=expense
type Repository interface {
	CreateRecurringExpense(ctx context.Context, e *RecurringExpense) error
	GetRecurringExpense(ctx context.Context, id string) (*RecurringExpense, error)
	UpdateRecurringExpense(ctx context.Context, e *RecurringExpense) error
	ListRecurringExpenses(ctx context.Context, filter ListFilter) ([]*RecurringExpense, error)
}

type Service struct {
	repo     Repository
	validate *validator.Validate
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, validate: validator.New(validator.WithRequiredStructEnabled())}
}

// DefaultCategory is used when an expense is created without one.
const DefaultCategory = "Operational"

type CreateParams struct {
	Description string          `validate:"required,max=200"`
	Amount      decimal.Decimal `validate:"-"`
	Category    string          `validate:"max=80"`
	Status      Status          `validate:"omitempty,oneof=active paused cancelled"`
	StartDate   civil.Date      `validate:"-"`
}

type UpdateParams struct {
	Description *string          `validate:"omitempty,min=1,max=200"`
	Category    *string          `validate:"omitempty,max=80"`
	Amount      *decimal.Decimal `validate:"-"`
	StartDate   *civil.Date      `validate:"-"`
}

type ListFilter struct {
	Status *Status
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*RecurringExpense, error) {
	if err := s.validate.Struct(params); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	if !params.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	if !params.StartDate.IsValid() {
		return nil, fmt.Errorf("%w: start date %q", ErrInvalid, params.StartDate)
	}

	e := &RecurringExpense{
		Description: strings.TrimSpace(params.Description),
		Amount:      params.Amount.Round(2),
		Category:    params.Category,
		Status:      params.Status,
		StartDate:   params.StartDate,
	}

	if e.Category == "" {
		e.Category = DefaultCategory
	}

	if e.Status == "" {
		e.Status = StatusActive
	}

	if err := s.repo.CreateRecurringExpense(ctx, e); err != nil {
		return nil, err
	}

	return e, nil
}

func (s *Service) Get(ctx context.Context, id string) (*RecurringExpense, error) {
	return s.repo.GetRecurringExpense(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*RecurringExpense, error) {
	return s.repo.ListRecurringExpenses(ctx, filter)
}

func (s *Service) Update(ctx context.Context, id string, params UpdateParams) (*RecurringExpense, error) {
	if err := s.validate.Struct(params); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	e, err := s.repo.GetRecurringExpense(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Description != nil {
		e.Description = strings.TrimSpace(*params.Description)
	}

	if params.Category != nil {
		e.Category = *params.Category
	}

	if params.Amount != nil {
		if !params.Amount.IsPositive() {
			return nil, ErrInvalidAmount
		}

		e.Amount = params.Amount.Round(2)
	}

	if params.StartDate != nil {
		if !params.StartDate.IsValid() {
			return nil, fmt.Errorf("%w: start date %q", ErrInvalid, *params.StartDate)
		}

		e.StartDate = *params.StartDate
	}

	if err := s.repo.UpdateRecurringExpense(ctx, e); err != nil {
		return nil, err
	}

	return e, nil
}

func (s *Service) SetStatus(ctx context.Context, id string, status Status) (*RecurringExpense, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	e, err := s.repo.GetRecurringExpense(ctx, id)
	if err != nil {
		return nil, err
	}

	if e.Status == status {
		return e, nil
	}

	e.Status = status
	if err := s.repo.UpdateRecurringExpense(ctx, e); err != nil {
		return nil, err
	}

	return e, nil
}
