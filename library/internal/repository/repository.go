package repository

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/polyakovs/library-lending/library/internal/fine"
	"github.com/polyakovs/library-lending/library/internal/model"
)

//go:generate go run github.com/golang/mock/mockgen -source=repository.go -destination=mocks/mock.go

type Repository interface {
	AddBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error)
	ListBooks(ctx context.Context) ([]model.BookView, error)
	SearchBooks(ctx context.Context, prefix string) ([]model.Book, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
	AddCategory(ctx context.Context, name string) (model.Category, error)
	ListPublishers(ctx context.Context) ([]model.Publisher, error)
	AddPublisher(ctx context.Context, name string) (model.Publisher, error)

	AddMember(ctx context.Context, req model.CreateMemberRequest) (model.Member, error)
	ListMembers(ctx context.Context) ([]model.Member, error)

	IssueLoan(ctx context.Context, bookID, memberID int, issueDate, dueDate time.Time) (model.Loan, error)
	ReturnLoan(ctx context.Context, loanID int, returnDate time.Time) (model.Loan, error)
	AvailableCount(ctx context.Context, bookID int) (int, error)

	DashboardStats(ctx context.Context) (model.Stats, error)
	RecentLoans(ctx context.Context, limit int) ([]model.LoanView, error)
	LoansFiltered(ctx context.Context, filter model.LoanFilter) ([]model.LoanView, error)
}

type repository struct {
	db   *sqlx.DB
	fine fine.Calculator
	log  *zap.Logger
}

func NewRepository(db *sqlx.DB, finePolicy fine.Calculator, log *zap.Logger) (*repository, error) {
	return &repository{
		db:   db,
		fine: finePolicy,
		log:  log.Named("repo"),
	}, nil
}

const (
	bookTableName       = `book`
	bookCopyTableName   = `book_copy`
	bookAuthorTableName = `book_author`
	authorTableName     = `author`
	categoryTableName   = `category`
	publisherTableName  = `publisher`
	memberTableName     = `member`
	loanTableName       = `loan`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// withTx runs fn inside a single transaction. Any error rolls the whole
// transaction back so no partial writes remain observable.
func (r *repository) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	if err := fn(tx); err != nil {
		return err
	}
	return errors.Wrap(tx.Commit(), "commit tx")
}

func pgErrCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
