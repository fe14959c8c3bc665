package service

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/Astemirdum/library-rental/internal/errs"
	"github.com/Astemirdum/library-rental/internal/model"
)

// BorrowCost is the cost of borrowing the given books for loanDays:
// sum of daily fees multiplied by the number of days, rounded to cents.
func BorrowCost(books []model.Book, loanDays int) (decimal.Decimal, error) {
	return dailyTotal(books, loanDays)
}

// FineCost is the punitive fee for a late return, computed with the
// fine-specific day multiplier instead of the loan period.
func FineCost(books []model.Book, fineDays int) (decimal.Decimal, error) {
	return dailyTotal(books, fineDays)
}

func dailyTotal(books []model.Book, days int) (decimal.Decimal, error) {
	if len(books) == 0 {
		return decimal.Zero, errors.Wrap(errs.ErrInvalidRequest, "empty book list")
	}
	if days <= 0 {
		return decimal.Zero, errors.Wrap(errs.ErrInvalidRequest, "days must be positive")
	}
	total := decimal.Zero
	for _, book := range books {
		if book.DailyFee.IsNegative() {
			return decimal.Zero, errors.Wrapf(errs.ErrInvalidRequest, "book %q has negative daily fee", book.Title)
		}
		total = total.Add(book.DailyFee)
	}
	return total.Mul(decimal.NewFromInt(int64(days))).Round(2), nil
}
