package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-rental/internal/model"
	repo_mocks "github.com/Astemirdum/library-rental/internal/repository/mocks"
	"github.com/Astemirdum/library-rental/internal/service"
	"github.com/Astemirdum/library-rental/internal/service/mocks"
)

func newScanner(t *testing.T, now time.Time) (*service.Scanner, *repo_mocks.MockBorrowingRepository, *mocks.MockNotifier) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := repo_mocks.NewMockBorrowingRepository(ctrl)
	notifier := mocks.NewMockNotifier(ctrl)
	scanner := service.NewScanner(repo, notifier, zap.NewExample().Named("test"),
		service.WithScannerClock(func() time.Time { return now }))
	return scanner, repo, notifier
}

func TestScanner_Scan(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 5, 4, 9, 0, 0, 0, time.UTC)

	t.Run("nothing overdue fires exactly one message", func(t *testing.T) {
		t.Parallel()
		scanner, repo, notifier := newScanner(t, now)

		repo.EXPECT().ListOverdue(gomock.Any(), now).Return(nil, nil)
		notifier.EXPECT().AdminChatID().Return("42")
		notifier.EXPECT().
			Notify(gomock.Any(), "42", "No borrowings overdue today").
			Return(nil).
			Times(1)

		overdue, err := scanner.Scan(context.Background())
		require.NoError(t, err)
		require.Empty(t, overdue)
	})

	t.Run("one message per overdue borrowing", func(t *testing.T) {
		t.Parallel()
		scanner, repo, notifier := newScanner(t, now)

		borrowings := []model.Borrowing{
			{ID: 1, Username: "reader", ExpectedReturnDate: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), IsActive: true},
			{ID: 2, Username: "other", ExpectedReturnDate: time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC), IsActive: true},
		}
		repo.EXPECT().ListOverdue(gomock.Any(), now).Return(borrowings, nil)
		notifier.EXPECT().AdminChatID().Return("42")
		notifier.EXPECT().
			Notify(gomock.Any(), "42", "Borrowing with ID 1 by reader is overdue, expected return 2024-05-01").
			Return(nil)
		notifier.EXPECT().
			Notify(gomock.Any(), "42", "Borrowing with ID 2 by other is overdue, expected return 2024-05-03").
			Return(nil)

		overdue, err := scanner.Scan(context.Background())
		require.NoError(t, err)
		require.Len(t, overdue, 2)
	})

	t.Run("notify failure is swallowed", func(t *testing.T) {
		t.Parallel()
		scanner, repo, notifier := newScanner(t, now)

		borrowings := []model.Borrowing{
			{ID: 1, Username: "reader", ExpectedReturnDate: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), IsActive: true},
		}
		repo.EXPECT().ListOverdue(gomock.Any(), now).Return(borrowings, nil)
		notifier.EXPECT().AdminChatID().Return("42")
		notifier.EXPECT().
			Notify(gomock.Any(), "42", gomock.Any()).
			Return(errors.New("delivery error"))

		overdue, err := scanner.Scan(context.Background())
		require.NoError(t, err)
		require.Len(t, overdue, 1)
	})

	t.Run("repeated scan reflects current state", func(t *testing.T) {
		t.Parallel()
		scanner, repo, notifier := newScanner(t, now)

		repo.EXPECT().ListOverdue(gomock.Any(), now).Return(nil, nil).Times(2)
		notifier.EXPECT().AdminChatID().Return("42").Times(2)
		notifier.EXPECT().
			Notify(gomock.Any(), "42", "No borrowings overdue today").
			Return(nil).
			Times(2)

		for i := 0; i < 2; i++ {
			_, err := scanner.Scan(context.Background())
			require.NoError(t, err)
		}
	})
}
