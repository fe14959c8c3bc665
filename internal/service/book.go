package service

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-rental/internal/errs"
	"github.com/Astemirdum/library-rental/internal/model"
	"github.com/Astemirdum/library-rental/internal/repository"
)

type BookService struct {
	log  *zap.Logger
	repo repository.BookRepository
}

func NewBookService(repo repository.BookRepository, log *zap.Logger) *BookService {
	return &BookService{
		log:  log,
		repo: repo,
	}
}

func (s *BookService) CreateBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error) {
	if req.DailyFee.IsNegative() {
		return model.Book{}, errors.Wrap(errs.ErrInvalidRequest, "daily fee must not be negative")
	}
	return s.repo.CreateBook(ctx, req)
}

func (s *BookService) GetBook(ctx context.Context, id int) (model.Book, error) {
	return s.repo.GetBook(ctx, id)
}

func (s *BookService) ListBooks(ctx context.Context, page, size int) (model.ListBooks, error) {
	return s.repo.ListBooks(ctx, page, size)
}

func (s *BookService) DeleteBook(ctx context.Context, id int) error {
	return s.repo.DeleteBook(ctx, id)
}
