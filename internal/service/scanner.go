package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Astemirdum/library-rental/internal/model"
	"github.com/Astemirdum/library-rental/internal/repository"
)

// Scanner periodically sweeps active borrowings past their expected return
// date. It only reads and notifies, re-running always reflects current state.
type Scanner struct {
	log      *zap.Logger
	repo     repository.BorrowingRepository
	notifier Notifier
	now      func() time.Time
}

type ScannerOption func(*Scanner)

func WithScannerClock(now func() time.Time) ScannerOption {
	return func(s *Scanner) {
		s.now = now
	}
}

func NewScanner(repo repository.BorrowingRepository, notifier Notifier, log *zap.Logger, ops ...ScannerOption) *Scanner {
	s := &Scanner{
		log:      log.Named("scanner"),
		repo:     repo,
		notifier: notifier,
		now:      time.Now,
	}
	for _, op := range ops {
		op(s)
	}
	return s
}

// Scan reports every overdue borrowing to the admin chat, or a single
// "nothing overdue" message when there are none.
func (s *Scanner) Scan(ctx context.Context) ([]model.Borrowing, error) {
	overdue, err := s.repo.ListOverdue(ctx, s.now())
	if err != nil {
		return nil, err
	}

	chatID := s.notifier.AdminChatID()
	if len(overdue) == 0 {
		if err := s.notifier.Notify(ctx, chatID, "No borrowings overdue today"); err != nil {
			s.log.Warn("notify", zap.Error(err))
		}
		return nil, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, borrowing := range overdue {
		borrowing := borrowing
		g.Go(func() error {
			text := fmt.Sprintf("Borrowing with ID %d by %s is overdue, expected return %s",
				borrowing.ID, borrowing.Username, borrowing.ExpectedReturnDate.Format(time.DateOnly))
			if err := s.notifier.Notify(ctx, chatID, text); err != nil {
				s.log.Warn("notify", zap.Int("borrowingID", borrowing.ID), zap.Error(err))
			}
			return nil
		})
	}
	_ = g.Wait()

	return overdue, nil
}
