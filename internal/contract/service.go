package contract

import (
	"context"
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=contract
type Repository interface {
	CreateContract(ctx context.Context, c *Contract) error
	GetContract(ctx context.Context, id string) (*Contract, error)
	UpdateContract(ctx context.Context, c *Contract) error
	ListContracts(ctx context.Context, filter ListFilter) ([]*Contract, error)
}

type Service struct {
	repo     Repository
	validate *validator.Validate
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, validate: validator.New(validator.WithRequiredStructEnabled())}
}

type CreateParams struct {
	ClientID   string          `validate:"required"`
	ClientName string          `validate:"required"`
	Title      string          `validate:"required,max=200"`
	Amount     decimal.Decimal `validate:"-"`
	Status     Status          `validate:"omitempty,oneof=active paused cancelled"`
	StartDate  civil.Date      `validate:"-"`
}

// UpdateParams holds the editable fields; nil leaves a field untouched.
type UpdateParams struct {
	ClientName *string          `validate:"omitempty,min=1"`
	Title      *string          `validate:"omitempty,min=1,max=200"`
	Amount     *decimal.Decimal `validate:"-"`
	StartDate  *civil.Date      `validate:"-"`
}

type ListFilter struct {
	Status *Status
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Contract, error) {
	if err := s.validate.Struct(params); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	if !params.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	if !params.StartDate.IsValid() {
		return nil, fmt.Errorf("%w: start date %q", ErrInvalid, params.StartDate)
	}

	status := params.Status
	if status == "" {
		status = StatusActive
	}

	c := &Contract{
		ClientID:   params.ClientID,
		ClientName: params.ClientName,
		Title:      params.Title,
		Amount:     params.Amount.Round(2),
		Status:     status,
		StartDate:  params.StartDate,
	}
	if err := s.repo.CreateContract(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Contract, error) {
	return s.repo.GetContract(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Contract, error) {
	return s.repo.ListContracts(ctx, filter)
}

func (s *Service) Update(ctx context.Context, id string, params UpdateParams) (*Contract, error) {
	if err := s.validate.Struct(params); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	c, err := s.repo.GetContract(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.ClientName != nil {
		c.ClientName = *params.ClientName
	}

	if params.Title != nil {
		c.Title = *params.Title
	}

	if params.Amount != nil {
		if !params.Amount.IsPositive() {
			return nil, ErrInvalidAmount
		}

		c.Amount = params.Amount.Round(2)
	}

	if params.StartDate != nil {
		if !params.StartDate.IsValid() {
			return nil, fmt.Errorf("%w: start date %q", ErrInvalid, *params.StartDate)
		}

		c.StartDate = *params.StartDate
	}

	if err := s.repo.UpdateContract(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

// SetStatus moves a contract between active, paused and cancelled. Entries
// already generated for it are left in the ledger.
func (s *Service) SetStatus(ctx context.Context, id string, status Status) (*Contract, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	c, err := s.repo.GetContract(ctx, id)
	if err != nil {
		return nil, err
	}

	if c.Status == status {
		return c, nil
	}

	c.Status = status
	if err := s.repo.UpdateContract(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}
