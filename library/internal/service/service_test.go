package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/polyakovs/library-lending/library/internal/errs"
	"github.com/polyakovs/library-lending/library/internal/model"
	repo_mocks "github.com/polyakovs/library-lending/library/internal/repository/mocks"
	"github.com/polyakovs/library-lending/library/internal/service"
	pub_mocks "github.com/polyakovs/library-lending/library/internal/service/mocks"
	"github.com/polyakovs/library-lending/pkg/kafka"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newService(t *testing.T, today time.Time) (*service.Service, *repo_mocks.MockRepository, *pub_mocks.MockPublisher) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := repo_mocks.NewMockRepository(ctrl)
	pub := pub_mocks.NewMockPublisher(ctrl)
	svc := service.NewService(repo, pub, zap.NewNop(), service.WithClock(func() time.Time {
		return today
	}))
	return svc, repo, pub
}

func TestService_IssueLoan(t *testing.T) {
	t.Parallel()

	t.Run("due date is issue date plus fourteen days", func(t *testing.T) {
		t.Parallel()
		today := date(2024, time.January, 1)
		svc, repo, pub := newService(t, today)

		issued := model.Loan{
			ID:        1,
			LoanUid:   "8161b9ba-cfbb-46a8-90a2-8b9c4c0dcb5b",
			MemberID:  7,
			CopyID:    3,
			IssueDate: today,
			DueDate:   date(2024, time.January, 15),
		}
		repo.EXPECT().
			IssueLoan(context.Background(), 10, 7, today, date(2024, time.January, 15)).
			Return(issued, nil)
		pub.EXPECT().
			PublishLending(gomock.Any()).
			DoAndReturn(func(event kafka.EventLending) error {
				require.Equal(t, kafka.EventLoanIssued, event.Type)
				require.Equal(t, issued.LoanUid, event.LoanUid)
				require.Equal(t, 10, event.BookID)
				require.Equal(t, 7, event.MemberID)
				return nil
			})

		loan, err := svc.IssueLoan(context.Background(), 10, 7)
		require.NoError(t, err)
		require.Equal(t, date(2024, time.January, 15), loan.DueDate)
	})

	t.Run("wall clock time of day is dropped", func(t *testing.T) {
		t.Parallel()
		now := time.Date(2024, time.March, 3, 17, 45, 12, 0, time.UTC)
		svc, repo, pub := newService(t, now)

		repo.EXPECT().
			IssueLoan(context.Background(), 1, 1, date(2024, time.March, 3), date(2024, time.March, 17)).
			Return(model.Loan{ID: 1}, nil)
		pub.EXPECT().PublishLending(gomock.Any()).Return(nil)

		_, err := svc.IssueLoan(context.Background(), 1, 1)
		require.NoError(t, err)
	})

	t.Run("no copy available is passed through and nothing is published", func(t *testing.T) {
		t.Parallel()
		svc, repo, _ := newService(t, date(2024, time.January, 1))

		repo.EXPECT().
			IssueLoan(gomock.Any(), 10, 7, gomock.Any(), gomock.Any()).
			Return(model.Loan{}, errs.ErrNoCopyAvailable)

		_, err := svc.IssueLoan(context.Background(), 10, 7)
		require.ErrorIs(t, err, errs.ErrNoCopyAvailable)
	})

	t.Run("publish failure does not fail the issue", func(t *testing.T) {
		t.Parallel()
		svc, repo, pub := newService(t, date(2024, time.January, 1))

		repo.EXPECT().
			IssueLoan(gomock.Any(), 10, 7, gomock.Any(), gomock.Any()).
			Return(model.Loan{ID: 5}, nil)
		pub.EXPECT().PublishLending(gomock.Any()).Return(errors.New("broker down"))

		loan, err := svc.IssueLoan(context.Background(), 10, 7)
		require.NoError(t, err)
		require.Equal(t, 5, loan.ID)
	})
}

func TestService_ReturnLoan(t *testing.T) {
	t.Parallel()

	t.Run("closes the loan on today and publishes the fine", func(t *testing.T) {
		t.Parallel()
		today := date(2024, time.January, 20)
		svc, repo, pub := newService(t, today)

		returned := model.Loan{
			ID:         4,
			LoanUid:    "a15c3781-1a5c-4b0b-bb14-59b5a01600ab",
			MemberID:   7,
			CopyID:     3,
			IssueDate:  date(2024, time.January, 1),
			DueDate:    date(2024, time.January, 15),
			ReturnDate: &today,
			FineAmount: 50,
		}
		repo.EXPECT().
			ReturnLoan(context.Background(), 4, today).
			Return(returned, nil)
		pub.EXPECT().
			PublishLending(gomock.Any()).
			DoAndReturn(func(event kafka.EventLending) error {
				require.Equal(t, kafka.EventLoanReturned, event.Type)
				require.Equal(t, int64(50), event.FineAmount)
				require.Equal(t, today, event.At)
				return nil
			})

		loan, err := svc.ReturnLoan(context.Background(), 4)
		require.NoError(t, err)
		require.Equal(t, int64(50), loan.FineAmount)
	})

	t.Run("missing return date does not break publishing", func(t *testing.T) {
		t.Parallel()
		today := date(2024, time.January, 20)
		svc, repo, pub := newService(t, today)

		repo.EXPECT().
			ReturnLoan(context.Background(), 4, today).
			Return(model.Loan{ID: 4, LoanUid: "a15c3781-1a5c-4b0b-bb14-59b5a01600ab", MemberID: 7}, nil)
		pub.EXPECT().
			PublishLending(gomock.Any()).
			DoAndReturn(func(event kafka.EventLending) error {
				require.Equal(t, kafka.EventLoanReturned, event.Type)
				require.False(t, event.At.IsZero())
				return nil
			})

		_, err := svc.ReturnLoan(context.Background(), 4)
		require.NoError(t, err)
	})

	t.Run("already returned is passed through", func(t *testing.T) {
		t.Parallel()
		svc, repo, _ := newService(t, date(2024, time.January, 20))

		repo.EXPECT().
			ReturnLoan(gomock.Any(), 4, gomock.Any()).
			Return(model.Loan{}, errs.ErrAlreadyReturned)

		_, err := svc.ReturnLoan(context.Background(), 4)
		require.ErrorIs(t, err, errs.ErrAlreadyReturned)
	})

	t.Run("unknown loan is passed through", func(t *testing.T) {
		t.Parallel()
		svc, repo, _ := newService(t, date(2024, time.January, 20))

		repo.EXPECT().
			ReturnLoan(gomock.Any(), 99, gomock.Any()).
			Return(model.Loan{}, errs.ErrNotFound)

		_, err := svc.ReturnLoan(context.Background(), 99)
		require.ErrorIs(t, err, errs.ErrNotFound)
	})
}

func TestService_LoanClassification(t *testing.T) {
	t.Parallel()
	today := date(2024, time.June, 10)
	returnedAt := date(2024, time.May, 1)

	// open due in the future, open lapsed, closed late, open due today
	views := []model.LoanView{
		{ID: 1, DueDate: date(2024, time.June, 20)},
		{ID: 2, DueDate: date(2024, time.June, 1)},
		{ID: 3, DueDate: date(2024, time.April, 1), ReturnDate: &returnedAt},
		{ID: 4, DueDate: date(2024, time.June, 10)},
	}

	svc, repo, _ := newService(t, today)
	repo.EXPECT().LoansFiltered(context.Background(), model.FilterAll).Return(views, nil)

	got, err := svc.LoansFiltered(context.Background(), model.FilterAll)
	require.NoError(t, err)
	require.Equal(t, model.StatusIssued, got[0].Status)
	require.Equal(t, model.StatusOverdue, got[1].Status)
	require.Equal(t, model.StatusReturned, got[2].Status)
	require.Equal(t, model.StatusIssued, got[3].Status)
}

func TestService_RecentLoans(t *testing.T) {
	t.Parallel()
	today := date(2024, time.June, 10)
	svc, repo, _ := newService(t, today)

	repo.EXPECT().
		RecentLoans(context.Background(), 5).
		Return([]model.LoanView{{ID: 2, DueDate: date(2024, time.June, 1)}}, nil)

	got, err := svc.RecentLoans(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, model.StatusOverdue, got[0].Status)
}
