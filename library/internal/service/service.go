package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/polyakovs/library-lending/library/internal/model"
	"github.com/polyakovs/library-lending/library/internal/repository"
)

// loanTermDays is the lending period: due date = issue date + 14 days.
const loanTermDays = 14

type Service struct {
	log  *zap.Logger
	repo repository.Repository
	pub  Publisher
	now  func() time.Time
}

type Option func(*Service)

// WithClock overrides the wall clock, used by tests to pin "today".
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(repo repository.Repository, pub Publisher, log *zap.Logger, opts ...Option) *Service {
	s := &Service{
		log:  log,
		repo: repo,
		pub:  pub,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) AddBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error) {
	return s.repo.AddBook(ctx, req)
}

func (s *Service) ListBooks(ctx context.Context) ([]model.BookView, error) {
	return s.repo.ListBooks(ctx)
}

func (s *Service) SearchBooks(ctx context.Context, prefix string) ([]model.Book, error) {
	return s.repo.SearchBooks(ctx, prefix)
}

func (s *Service) ListCategories(ctx context.Context) ([]model.Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *Service) AddCategory(ctx context.Context, name string) (model.Category, error) {
	return s.repo.AddCategory(ctx, name)
}

func (s *Service) ListPublishers(ctx context.Context) ([]model.Publisher, error) {
	return s.repo.ListPublishers(ctx)
}

func (s *Service) AddPublisher(ctx context.Context, name string) (model.Publisher, error) {
	return s.repo.AddPublisher(ctx, name)
}

func (s *Service) AddMember(ctx context.Context, req model.CreateMemberRequest) (model.Member, error) {
	return s.repo.AddMember(ctx, req)
}

func (s *Service) ListMembers(ctx context.Context) ([]model.Member, error) {
	return s.repo.ListMembers(ctx)
}

func (s *Service) IssueLoan(ctx context.Context, bookID, memberID int) (model.Loan, error) {
	issueDate := model.TruncateDay(s.now())
	dueDate := issueDate.AddDate(0, 0, loanTermDays)

	loan, err := s.repo.IssueLoan(ctx, bookID, memberID, issueDate, dueDate)
	if err != nil {
		return model.Loan{}, err
	}
	s.publishLoanIssued(loan, bookID)
	return loan, nil
}

func (s *Service) ReturnLoan(ctx context.Context, loanID int) (model.Loan, error) {
	loan, err := s.repo.ReturnLoan(ctx, loanID, model.TruncateDay(s.now()))
	if err != nil {
		return model.Loan{}, err
	}
	s.publishLoanReturned(loan)
	return loan, nil
}

func (s *Service) AvailableCount(ctx context.Context, bookID int) (int, error) {
	return s.repo.AvailableCount(ctx, bookID)
}

func (s *Service) DashboardStats(ctx context.Context) (model.Stats, error) {
	return s.repo.DashboardStats(ctx)
}

func (s *Service) RecentLoans(ctx context.Context, limit int) ([]model.LoanView, error) {
	loans, err := s.repo.RecentLoans(ctx, limit)
	if err != nil {
		return nil, err
	}
	return s.classified(loans), nil
}

func (s *Service) LoansFiltered(ctx context.Context, filter model.LoanFilter) ([]model.LoanView, error) {
	loans, err := s.repo.LoansFiltered(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.classified(loans), nil
}

func (s *Service) classified(loans []model.LoanView) []model.LoanView {
	today := s.now()
	for i := range loans {
		loans[i].Status = loans[i].Classify(today)
	}
	return loans
}

func (s *Service) publishLoanIssued(loan model.Loan, bookID int) {
	if err := s.pub.PublishLending(newIssuedEvent(loan, bookID)); err != nil {
		s.log.Warn("publish loan_issued", zap.Int("loanID", loan.ID), zap.Error(err))
	}
}

func (s *Service) publishLoanReturned(loan model.Loan) {
	if err := s.pub.PublishLending(newReturnedEvent(loan)); err != nil {
		s.log.Warn("publish loan_returned", zap.Int("loanID", loan.ID), zap.Error(err))
	}
}
