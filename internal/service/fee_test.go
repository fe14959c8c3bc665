package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Astemirdum/library-rental/internal/errs"
	"github.com/Astemirdum/library-rental/internal/model"
)

func book(fee string) model.Book {
	return model.Book{Title: "Sample Book", DailyFee: decimal.RequireFromString(fee)}
}

func TestBorrowCost(t *testing.T) {
	t.Parallel()
	var tests = []struct {
		name     string
		books    []model.Book
		loanDays int
		want     string
		wantErr  error
	}{
		{
			name:     "single book",
			books:    []model.Book{book("1.00")},
			loanDays: 14,
			want:     "14.00",
		},
		{
			name:     "two books",
			books:    []model.Book{book("2.50"), book("1.00")},
			loanDays: 7,
			want:     "24.50",
		},
		{
			name:     "fractional fee rounds to cents",
			books:    []model.Book{book("0.333")},
			loanDays: 10,
			want:     "3.33",
		},
		{
			name:     "empty book list",
			books:    nil,
			loanDays: 14,
			wantErr:  errs.ErrInvalidRequest,
		},
		{
			name:     "zero days",
			books:    []model.Book{book("1.00")},
			loanDays: 0,
			wantErr:  errs.ErrInvalidRequest,
		},
		{
			name:     "negative daily fee",
			books:    []model.Book{{Title: "Bad", DailyFee: decimal.RequireFromString("-1.00")}},
			loanDays: 14,
			wantErr:  errs.ErrInvalidRequest,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := BorrowCost(tt.books, tt.loanDays)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got.StringFixed(2))
		})
	}
}

func TestBorrowCost_Deterministic(t *testing.T) {
	t.Parallel()
	books := []model.Book{book("2.50"), book("1.00")}
	first, err := BorrowCost(books, 7)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := BorrowCost(books, 7)
		require.NoError(t, err)
		require.True(t, first.Equal(again))
	}
}

func TestFineCost(t *testing.T) {
	t.Parallel()
	got, err := FineCost([]model.Book{book("1.00")}, 28)
	require.NoError(t, err)
	require.Equal(t, "28.00", got.StringFixed(2))

	_, err = FineCost(nil, 28)
	require.ErrorIs(t, err, errs.ErrInvalidRequest)
}
