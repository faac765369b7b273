package expense_test

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/agency/internal/expense"
)

func TestService_Create_Defaults(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := expense.NewMockRepository(ctrl)
	repo.EXPECT().
		CreateRecurringExpense(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e *expense.RecurringExpense) error {
			e.ID = "e1"
			return nil
		})

	got, err := expense.NewService(repo).Create(context.Background(), expense.CreateParams{
		Description: "  Figma seats ",
		Amount:      decimal.RequireFromString("200"),
		StartDate:   civil.Date{Year: 2024, Month: time.February, Day: 1},
	})
	require.NoError(t, err)

	assert.Equal(t, "e1", got.ID)
	assert.Equal(t, "Figma seats", got.Description)
	assert.Equal(t, expense.DefaultCategory, got.Category)
	assert.Equal(t, expense.StatusActive, got.Status)
}

func TestService_Create_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		params expense.CreateParams
	}{
		{
			name: "MissingDescription",
			params: expense.CreateParams{
				Amount:    decimal.NewFromInt(1),
				StartDate: civil.Date{Year: 2024, Month: time.February, Day: 1},
			},
		},
		{
			name: "NegativeAmount",
			params: expense.CreateParams{
				Description: "Rent",
				Amount:      decimal.NewFromInt(-1),
				StartDate:   civil.Date{Year: 2024, Month: time.February, Day: 1},
			},
		},
		{
			name: "ZeroStartDate",
			params: expense.CreateParams{
				Description: "Rent",
				Amount:      decimal.NewFromInt(1),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			got, err := expense.NewService(expense.NewMockRepository(ctrl)).Create(context.Background(), tt.params)
			assert.Error(t, err)
			assert.Nil(t, got)
		})
	}
}

func TestService_SetStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := expense.NewMockRepository(ctrl)
	repo.EXPECT().GetRecurringExpense(gomock.Any(), "e1").
		Return(&expense.RecurringExpense{ID: "e1", Status: expense.StatusActive}, nil)
	repo.EXPECT().UpdateRecurringExpense(gomock.Any(), gomock.Any()).Return(nil)

	got, err := expense.NewService(repo).SetStatus(context.Background(), "e1", expense.StatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, expense.StatusCancelled, got.Status)

	_, err = expense.NewService(repo).SetStatus(context.Background(), "e1", "gone")
	assert.ErrorIs(t, err, expense.ErrInvalidStatus)
}
