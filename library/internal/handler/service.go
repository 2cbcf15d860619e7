package handler

import (
	"context"

	"github.com/polyakovs/library-lending/library/internal/model"
	"github.com/polyakovs/library-lending/library/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type LibraryService interface {
	AddBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error)
	ListBooks(ctx context.Context) ([]model.BookView, error)
	SearchBooks(ctx context.Context, prefix string) ([]model.Book, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
	AddCategory(ctx context.Context, name string) (model.Category, error)
	ListPublishers(ctx context.Context) ([]model.Publisher, error)
	AddPublisher(ctx context.Context, name string) (model.Publisher, error)

	AddMember(ctx context.Context, req model.CreateMemberRequest) (model.Member, error)
	ListMembers(ctx context.Context) ([]model.Member, error)

	IssueLoan(ctx context.Context, bookID, memberID int) (model.Loan, error)
	ReturnLoan(ctx context.Context, loanID int) (model.Loan, error)
	AvailableCount(ctx context.Context, bookID int) (int, error)

	DashboardStats(ctx context.Context) (model.Stats, error)
	RecentLoans(ctx context.Context, limit int) ([]model.LoanView, error)
	LoansFiltered(ctx context.Context, filter model.LoanFilter) ([]model.LoanView, error)
}

var _ LibraryService = (*service.Service)(nil)
