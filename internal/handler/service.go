package handler

import (
	"context"

	"github.com/Astemirdum/library-rental/internal/model"
)

//go:generate mockgen -source=service.go -destination=mocks/mock.go -package=service_mocks

type BorrowingService interface {
	CreateBorrowing(ctx context.Context, req model.CreateBorrowingRequest) (model.BorrowingResponse, error)
	ReturnBorrowing(ctx context.Context, id int, isAdmin bool) (model.BorrowingResponse, error)
	GetBorrowing(ctx context.Context, id int, username string, isAdmin bool) (model.Borrowing, error)
	ListBorrowings(ctx context.Context, filter model.ListBorrowingsFilter, isAdmin bool) (model.ListBorrowings, error)
	ConfirmPayment(ctx context.Context, sessionID string) (model.Payment, error)
	ListPayments(ctx context.Context, username string) ([]model.Payment, error)
}

type BookService interface {
	CreateBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error)
	GetBook(ctx context.Context, id int) (model.Book, error)
	ListBooks(ctx context.Context, page, size int) (model.ListBooks, error)
	DeleteBook(ctx context.Context, id int) error
}
