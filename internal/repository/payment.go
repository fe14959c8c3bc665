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

type paymentRepository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewPaymentRepository(db *sqlx.DB, log *zap.Logger) (*paymentRepository, error) {
	return &paymentRepository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

func (r *paymentRepository) CreatePayment(ctx context.Context, payment model.Payment) (model.Payment, error) {
	q, args, err := qb.Insert(paymentTableName).
		Columns("borrowing_id", "status", "type", "session_id", "session_url", "money_to_pay").
		Values(payment.BorrowingID, payment.Status, payment.Type, payment.SessionID, payment.SessionURL, payment.MoneyToPay).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.Payment{}, err
	}
	var created model.Payment
	if err := r.db.GetContext(ctx, &created, q, args...); err != nil {
		r.log.Error("CreatePayment", zap.String("q", q), zap.Any("args", args))
		return model.Payment{}, err
	}
	return created, nil
}

// ConfirmBySession flips a pending payment to paid. The status guard makes
// the external confirmation callback idempotent.
func (r *paymentRepository) ConfirmBySession(ctx context.Context, sessionID string) (model.Payment, error) {
	var payment model.Payment
	err := r.db.GetContext(ctx, &payment,
		`update payment set status = 'paid' where session_id = $1 and status = 'pending' returning *`,
		sessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Payment{}, errs.ErrNotFound
		}
		return model.Payment{}, err
	}
	return payment, nil
}

func (r *paymentRepository) ListPayments(ctx context.Context, username string) ([]model.Payment, error) {
	q := qb.Select("p.id", "p.borrowing_id", "p.status", "p.type", "p.session_id", "p.session_url", "p.money_to_pay").
		From(paymentTableName + " p").
		OrderBy("p.id")

	if username != "" {
		q = q.Join(borrowingTableName + " b on b.id = p.borrowing_id").
			Where(sq.Eq{"b.username": username})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	var payments []model.Payment
	if err := r.db.SelectContext(ctx, &payments, query, args...); err != nil {
		return nil, err
	}
	return payments, nil
}
