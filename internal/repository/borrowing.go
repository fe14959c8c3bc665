package repository

import (
	"context"
	"database/sql"
	"sort"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-rental/internal/errs"
	"github.com/Astemirdum/library-rental/internal/model"
)

const (
	booksTableName          = `books`
	borrowingTableName      = `borrowing`
	borrowingBooksTableName = `borrowing_books`
	paymentTableName        = `payment`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type borrowingRepository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewBorrowingRepository(db *sqlx.DB, log *zap.Logger) (*borrowingRepository, error) {
	return &borrowingRepository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

func (r *borrowingRepository) CreateBorrowing(ctx context.Context, username string, bookIDs []int, borrowDate, expectedReturnDate time.Time) (model.Borrowing, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return model.Borrowing{}, err
	}
	defer tx.Rollback() //nolint:errcheck

	// reserve in ascending id order so concurrent requests cannot deadlock
	ids := dedupeSorted(bookIDs)
	for _, id := range ids {
		if err := reserveBook(ctx, tx, id); err != nil {
			return model.Borrowing{}, err
		}
	}

	q, args, err := qb.Insert(borrowingTableName).
		Columns("borrowing_uid", "username", "borrow_date", "expected_return_date", "is_active").
		Values(uuid.New(), username, borrowDate.Format(time.DateOnly), expectedReturnDate.Format(time.DateOnly), true).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.Borrowing{}, err
	}
	var borrowing model.Borrowing
	if err := tx.GetContext(ctx, &borrowing, q, args...); err != nil {
		r.log.Error("CreateBorrowing", zap.String("q", q), zap.Any("args", args))
		return model.Borrowing{}, err
	}

	ib := qb.Insert(borrowingBooksTableName).Columns("borrowing_id", "book_id")
	for _, id := range ids {
		ib = ib.Values(borrowing.ID, id)
	}
	q, args, err = ib.ToSql()
	if err != nil {
		return model.Borrowing{}, err
	}
	if _, err := tx.ExecContext(ctx, q, args...); err != nil {
		return model.Borrowing{}, err
	}

	if borrowing.Books, err = borrowedBooks(ctx, tx, borrowing.ID); err != nil {
		return model.Borrowing{}, err
	}

	if err := tx.Commit(); err != nil {
		return model.Borrowing{}, err
	}
	return borrowing, nil
}

// reserveBook decrements inventory iff a copy is available. The conditional
// update is a single statement, so concurrent reservations for the last copy
// cannot both succeed.
func reserveBook(ctx context.Context, tx *sqlx.Tx, bookID int) error {
	var title string
	err := tx.QueryRowContext(ctx,
		`update books set inventory = inventory - 1 where id = $1 and inventory > 0 returning title`,
		bookID).Scan(&title)
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		if err := tx.QueryRowContext(ctx, `select title from books where id = $1`, bookID).Scan(&title); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return errs.ErrNotFound
			}
			return err
		}
		return errs.OutOfStock(title)
	}
	// the inventory >= 0 check constraint is a backstop, the conditional
	// update above should never let it fire
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.CheckViolation {
		return errs.ErrOutOfStock
	}
	return err
}

func (r *borrowingRepository) ReturnBorrowing(ctx context.Context, id int, returnDate time.Time) (model.Borrowing, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return model.Borrowing{}, err
	}
	defer tx.Rollback() //nolint:errcheck

	// the is_active guard inside the transaction closes the race between two
	// concurrent return calls: only one of them flips the row and releases
	// inventory
	var borrowing model.Borrowing
	err = tx.GetContext(ctx, &borrowing,
		`update borrowing set actual_return_date = $2, is_active = false
		 where id = $1 and is_active returning *`,
		id, returnDate.Format(time.DateOnly))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			var exists bool
			if err := tx.QueryRowContext(ctx, `select exists(select 1 from borrowing where id = $1)`, id).Scan(&exists); err != nil {
				return model.Borrowing{}, err
			}
			if exists {
				return model.Borrowing{}, errs.ErrAlreadyReturned
			}
			return model.Borrowing{}, errs.ErrNotFound
		}
		return model.Borrowing{}, err
	}

	if _, err := tx.ExecContext(ctx,
		`update books set inventory = inventory + 1
		 from borrowing_books bb
		 where books.id = bb.book_id and bb.borrowing_id = $1`, id); err != nil {
		return model.Borrowing{}, err
	}

	if borrowing.Books, err = borrowedBooks(ctx, tx, id); err != nil {
		return model.Borrowing{}, err
	}

	if err := tx.Commit(); err != nil {
		return model.Borrowing{}, err
	}
	return borrowing, nil
}

func (r *borrowingRepository) GetBorrowing(ctx context.Context, id int) (model.Borrowing, error) {
	q, args, err := qb.Select("*").
		From(borrowingTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return model.Borrowing{}, err
	}
	var borrowing model.Borrowing
	if err := r.db.GetContext(ctx, &borrowing, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Borrowing{}, errs.ErrNotFound
		}
		return model.Borrowing{}, err
	}
	if borrowing.Books, err = borrowedBooks(ctx, r.db, id); err != nil {
		return model.Borrowing{}, err
	}
	return borrowing, nil
}

func (r *borrowingRepository) ListBorrowings(ctx context.Context, filter model.ListBorrowingsFilter) (model.ListBorrowings, error) {
	q := qb.Select("id", "borrowing_uid", "username", "borrow_date", "expected_return_date", "actual_return_date", "is_active").
		From(borrowingTableName).
		OrderBy("borrow_date desc", "id desc")

	if filter.Username != "" {
		q = q.Where(sq.Eq{"username": filter.Username})
	}
	if filter.UserID != "" {
		q = q.Where(sq.Eq{"username": filter.UserID})
	}
	if filter.IsActive != nil {
		q = q.Where(sq.Eq{"is_active": *filter.IsActive})
	}
	if filter.Page != 0 && filter.Size != 0 {
		q = q.Limit(uint64(filter.Size)).Offset(uint64((filter.Page - 1) * filter.Size))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return model.ListBorrowings{}, err
	}
	r.log.Debug("ListBorrowings", zap.String("query", query), zap.Any("args", args))

	var items []model.Borrowing
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return model.ListBorrowings{}, err
	}
	for i := range items {
		if items[i].Books, err = borrowedBooks(ctx, r.db, items[i].ID); err != nil {
			return model.ListBorrowings{}, err
		}
	}

	return model.ListBorrowings{
		Paging: model.Paging{
			Page:          filter.Page,
			PageSize:      filter.Size,
			TotalElements: len(items),
		},
		Items: items,
	}, nil
}

func (r *borrowingRepository) ListOverdue(ctx context.Context, asOf time.Time) ([]model.Borrowing, error) {
	q, args, err := qb.Select("id", "borrowing_uid", "username", "borrow_date", "expected_return_date", "actual_return_date", "is_active").
		From(borrowingTableName).
		Where(sq.Eq{"is_active": true}).
		Where(sq.LtOrEq{"expected_return_date": asOf.Format(time.DateOnly)}).
		OrderBy("expected_return_date").
		ToSql()
	if err != nil {
		return nil, err
	}
	var items []model.Borrowing
	if err := r.db.SelectContext(ctx, &items, q, args...); err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].Books, err = borrowedBooks(ctx, r.db, items[i].ID); err != nil {
			return nil, err
		}
	}
	return items, nil
}

func borrowedBooks(ctx context.Context, q sqlx.QueryerContext, borrowingID int) ([]model.Book, error) {
	query, args, err := qb.Select("b.id", "title", "author", "cover", "inventory", "daily_fee").
		From(booksTableName + " b").
		Join(borrowingBooksTableName + " bb on b.id = bb.book_id").
		Where(sq.Eq{"bb.borrowing_id": borrowingID}).
		OrderBy("b.id").
		ToSql()
	if err != nil {
		return nil, err
	}
	var books []model.Book
	if err := sqlx.SelectContext(ctx, q, &books, query, args...); err != nil {
		return nil, err
	}
	return books, nil
}

func dedupeSorted(ids []int) []int {
	sorted := make([]int, len(ids))
	copy(sorted, ids)
	sort.Ints(sorted)
	out := sorted[:0]
	for i, id := range sorted {
		if i == 0 || id != sorted[i-1] {
			out = append(out, id)
		}
	}
	return out
}
