package repository

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-rental/internal/errs"
	"github.com/Astemirdum/library-rental/internal/model"
)

type bookRepository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewBookRepository(db *sqlx.DB, log *zap.Logger) (*bookRepository, error) {
	return &bookRepository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

func (r *bookRepository) CreateBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error) {
	q, args, err := qb.Insert(booksTableName).
		Columns("title", "author", "cover", "inventory", "daily_fee").
		Values(req.Title, req.Author, req.Cover, req.Inventory, req.DailyFee).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.Book{}, err
	}
	var book model.Book
	if err := r.db.GetContext(ctx, &book, q, args...); err != nil {
		r.log.Error("CreateBook", zap.String("q", q), zap.Any("args", args))
		return model.Book{}, err
	}
	return book, nil
}

func (r *bookRepository) GetBook(ctx context.Context, id int) (model.Book, error) {
	q, args, err := qb.Select("*").
		From(booksTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}
	var book model.Book
	if err := r.db.GetContext(ctx, &book, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Book{}, errs.ErrNotFound
		}
		return model.Book{}, err
	}
	return book, nil
}

func (r *bookRepository) ListBooks(ctx context.Context, page, size int) (model.ListBooks, error) {
	q := qb.Select("*").
		From(booksTableName).
		OrderBy("id")

	if page != 0 && size != 0 {
		q = q.Limit(uint64(size)).Offset(uint64((page - 1) * size))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return model.ListBooks{}, err
	}
	var books []model.Book
	if err := r.db.SelectContext(ctx, &books, query, args...); err != nil {
		return model.ListBooks{}, err
	}

	return model.ListBooks{
		Paging: model.Paging{
			Page:          page,
			PageSize:      size,
			TotalElements: len(books),
		},
		Items: books,
	}, nil
}

func (r *bookRepository) DeleteBook(ctx context.Context, id int) error {
	q, args, err := qb.Delete(booksTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errs.ErrNotFound
	}
	return nil
}
