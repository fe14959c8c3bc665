package repository

import (
	"context"
	"time"

	"github.com/Astemirdum/library-rental/internal/model"
)

//go:generate mockgen -source=repository.go -destination=mocks/mock.go -package=repo_mocks

type BookRepository interface {
	CreateBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error)
	GetBook(ctx context.Context, id int) (model.Book, error)
	ListBooks(ctx context.Context, page, size int) (model.ListBooks, error)
	DeleteBook(ctx context.Context, id int) error
}

type BorrowingRepository interface {
	// CreateBorrowing reserves one copy of every requested book and inserts
	// the borrowing in a single transaction. All-or-nothing: the first
	// unavailable book aborts the whole request.
	CreateBorrowing(ctx context.Context, username string, bookIDs []int, borrowDate, expectedReturnDate time.Time) (model.Borrowing, error)
	// ReturnBorrowing transitions an active borrowing to returned and
	// releases one copy per book in the same transaction.
	ReturnBorrowing(ctx context.Context, id int, returnDate time.Time) (model.Borrowing, error)
	GetBorrowing(ctx context.Context, id int) (model.Borrowing, error)
	ListBorrowings(ctx context.Context, filter model.ListBorrowingsFilter) (model.ListBorrowings, error)
	ListOverdue(ctx context.Context, asOf time.Time) ([]model.Borrowing, error)
}

type PaymentRepository interface {
	CreatePayment(ctx context.Context, payment model.Payment) (model.Payment, error)
	ConfirmBySession(ctx context.Context, sessionID string) (model.Payment, error)
	ListPayments(ctx context.Context, username string) ([]model.Payment, error)
}
