package service

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-rental/config"
	"github.com/Astemirdum/library-rental/internal/errs"
	"github.com/Astemirdum/library-rental/internal/model"
	"github.com/Astemirdum/library-rental/internal/repository"
	"github.com/Astemirdum/library-rental/pkg/kafka"
	"github.com/Astemirdum/library-rental/pkg/stripe"
)

//go:generate mockgen -source=borrowing.go -destination=mocks/mock.go -package=mocks

// CheckoutProvider opens external payment sessions.
type CheckoutProvider interface {
	OpenCheckout(ctx context.Context, borrowingID int, items []stripe.LineItem) (stripe.Session, error)
}

// Notifier delivers best-effort chat messages. Failures are logged and
// never propagate into business state.
type Notifier interface {
	Notify(ctx context.Context, chatID, text string) error
	AdminChatID() string
}

type BorrowingService struct {
	log      *zap.Logger
	repo     repository.BorrowingRepository
	payments repository.PaymentRepository
	checkout CheckoutProvider
	notifier Notifier
	queue    kafka.Enqueuer
	cfg      config.Business
	now      func() time.Time
}

type Option func(*BorrowingService)

// WithClock overrides the wall clock, tests supply fixed timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *BorrowingService) {
		s.now = now
	}
}

func NewBorrowingService(
	repo repository.BorrowingRepository,
	payments repository.PaymentRepository,
	checkout CheckoutProvider,
	notifier Notifier,
	queue kafka.Enqueuer,
	cfg config.Business,
	log *zap.Logger,
	ops ...Option,
) *BorrowingService {
	s := &BorrowingService{
		log:      log,
		repo:     repo,
		payments: payments,
		checkout: checkout,
		notifier: notifier,
		queue:    queue,
		cfg:      cfg,
		now:      time.Now,
	}
	for _, op := range ops {
		op(s)
	}
	return s
}

// CreateBorrowing reserves every requested book and creates the borrowing in
// one transaction, then requests a checkout session. The session is a
// best-effort downstream step: the committed loan is returned even when the
// provider call fails, just without a payment link.
func (s *BorrowingService) CreateBorrowing(ctx context.Context, req model.CreateBorrowingRequest) (model.BorrowingResponse, error) {
	if len(req.BookIDs) == 0 {
		return model.BorrowingResponse{}, errors.Wrap(errs.ErrInvalidRequest, "empty book list")
	}

	borrowDate := dateOnly(s.now())
	expectedReturnDate := borrowDate.AddDate(0, 0, s.cfg.BorrowingDays)

	borrowing, err := s.repo.CreateBorrowing(ctx, req.Username, req.BookIDs, borrowDate, expectedReturnDate)
	if err != nil {
		return model.BorrowingResponse{}, err
	}

	s.publish(model.EventBorrowingCreated, borrowing)

	payment := s.openCheckout(ctx, borrowing, model.PaymentTypePayment, s.cfg.BorrowingDays)
	return model.BorrowingResponse{Borrowing: borrowing, Payment: payment}, nil
}

// ReturnBorrowing transitions the borrowing to returned and releases its
// inventory. Admin only. An overdue return additionally levies a fine
// checkout session and a second notification.
func (s *BorrowingService) ReturnBorrowing(ctx context.Context, id int, isAdmin bool) (model.BorrowingResponse, error) {
	if !isAdmin {
		return model.BorrowingResponse{}, errs.ErrForbidden
	}

	returnDate := dateOnly(s.now())
	borrowing, err := s.repo.ReturnBorrowing(ctx, id, returnDate)
	if err != nil {
		return model.BorrowingResponse{}, err
	}
	s.notify(ctx, fmt.Sprintf("Borrowing with ID %d has been returned", borrowing.ID))
	s.publish(model.EventBorrowingReturned, borrowing)

	var payment *model.Payment
	if borrowing.IsOverdue(returnDate) {
		s.notify(ctx, fmt.Sprintf("Borrowing with ID %d is overdue. You must pay a fine", borrowing.ID))
		s.publish(model.EventBorrowingOverdue, borrowing)
		payment = s.openCheckout(ctx, borrowing, model.PaymentTypeFine, s.cfg.FineMultiplierDays)
	}

	return model.BorrowingResponse{Borrowing: borrowing, Payment: payment}, nil
}

func (s *BorrowingService) GetBorrowing(ctx context.Context, id int, username string, isAdmin bool) (model.Borrowing, error) {
	borrowing, err := s.repo.GetBorrowing(ctx, id)
	if err != nil {
		return model.Borrowing{}, err
	}
	if !isAdmin && borrowing.Username != username {
		return model.Borrowing{}, errs.ErrNotFound
	}
	return borrowing, nil
}

func (s *BorrowingService) ListBorrowings(ctx context.Context, filter model.ListBorrowingsFilter, isAdmin bool) (model.ListBorrowings, error) {
	if !isAdmin {
		// non-privileged callers only see their own borrowings
		filter.UserID = ""
	} else {
		filter.Username = ""
	}
	return s.repo.ListBorrowings(ctx, filter)
}

// ConfirmPayment is the hook invoked by the provider success callback,
// flipping the stored payment from pending to paid.
func (s *BorrowingService) ConfirmPayment(ctx context.Context, sessionID string) (model.Payment, error) {
	return s.payments.ConfirmBySession(ctx, sessionID)
}

func (s *BorrowingService) ListPayments(ctx context.Context, username string) ([]model.Payment, error) {
	return s.payments.ListPayments(ctx, username)
}

// openCheckout computes the cost, opens a provider session and persists the
// payment. Any failure is logged and reported as a missing payment, the
// committed borrowing and inventory are never unwound.
func (s *BorrowingService) openCheckout(ctx context.Context, borrowing model.Borrowing, paymentType model.PaymentType, days int) *model.Payment {
	cost, err := dailyTotal(borrowing.Books, days)
	if err != nil {
		s.log.Error("checkout cost", zap.Int("borrowingID", borrowing.ID), zap.Error(err))
		return nil
	}

	items := make([]stripe.LineItem, 0, len(borrowing.Books))
	for _, book := range borrowing.Books {
		items = append(items, stripe.LineItem{
			Name:     book.Title,
			UnitCost: book.DailyFee.Mul(decimal.NewFromInt(int64(days))).Round(2),
			Quantity: 1,
		})
	}

	session, err := s.checkout.OpenCheckout(ctx, borrowing.ID, items)
	if err != nil {
		s.log.Warn("open checkout", zap.Int("borrowingID", borrowing.ID), zap.Error(err))
		return nil
	}

	payment, err := s.payments.CreatePayment(ctx, model.Payment{
		BorrowingID: borrowing.ID,
		Status:      model.PaymentStatusPending,
		Type:        paymentType,
		SessionID:   session.ID,
		SessionURL:  session.URL,
		MoneyToPay:  cost,
	})
	if err != nil {
		s.log.Error("persist payment", zap.Int("borrowingID", borrowing.ID), zap.Error(err))
		return nil
	}
	return &payment
}

func (s *BorrowingService) notify(ctx context.Context, text string) {
	if err := s.notifier.Notify(ctx, s.notifier.AdminChatID(), text); err != nil {
		s.log.Warn("notify", zap.Error(err))
	}
}

func (s *BorrowingService) publish(eventType model.EventType, borrowing model.Borrowing) {
	event := model.BorrowingEvent{
		Type:         eventType,
		BorrowingID:  borrowing.ID,
		BorrowingUid: borrowing.BorrowingUid,
		Username:     borrowing.Username,
	}
	if err := s.queue.Enqueue(kafka.BorrowingEventsTopic, event); err != nil {
		s.log.Warn("enqueue event", zap.String("type", string(eventType)), zap.Error(err))
	}
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
