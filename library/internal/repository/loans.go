package repository

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/polyakovs/library-lending/library/internal/errs"
	"github.com/polyakovs/library-lending/library/internal/model"
)

// IssueLoan claims one available copy of the book and opens a loan for
// it, all in one transaction. The claiming update locks the chosen copy
// row, so two concurrent issues can never take the same copy: the second
// caller either claims a different copy or gets ErrNoCopyAvailable.
func (r *repository) IssueLoan(ctx context.Context, bookID, memberID int, issueDate, dueDate time.Time) (model.Loan, error) {
	var loan model.Loan
	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		var exists bool
		if err := tx.QueryRowContext(ctx,
			`select exists (select 1 from member where id = $1)`, memberID).Scan(&exists); err != nil {
			return errors.Wrap(err, "check member")
		}
		if !exists {
			return errs.ErrMemberNotFound
		}
		if err := tx.QueryRowContext(ctx,
			`select exists (select 1 from book where id = $1)`, bookID).Scan(&exists); err != nil {
			return errors.Wrap(err, "check book")
		}
		if !exists {
			return errs.ErrBookNotFound
		}

		q := `
update book_copy
    set copy_status = 'on_loan'
where id = (
    select id from book_copy
    where book_id = $1 and copy_status = 'available'
    limit 1
    for update skip locked)
returning id`
		var copyID int
		if err := tx.QueryRowContext(ctx, q, bookID).Scan(&copyID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return errs.ErrNoCopyAvailable
			}
			return errors.Wrap(err, "claim copy")
		}

		query, args, err := qb.Insert(loanTableName).
			Columns("loan_uid", "member_id", "copy_id", "issue_date", "due_date").
			Values(uuid.New(), memberID, copyID, issueDate.Format(time.DateOnly), dueDate.Format(time.DateOnly)).
			Suffix("returning *").
			ToSql()
		if err != nil {
			return err
		}
		if err := tx.GetContext(ctx, &loan, query, args...); err != nil {
			if pgErrCode(err) == pgerrcode.UniqueViolation {
				return errs.ErrNoCopyAvailable
			}
			return errors.Wrap(err, "insert loan")
		}
		return nil
	})
	if err != nil {
		r.log.Debug("IssueLoan", zap.Int("bookID", bookID), zap.Int("memberID", memberID), zap.Error(err))
		return model.Loan{}, err
	}
	return loan, nil
}

// ReturnLoan closes an open loan: it writes return_date and the fine in
// the same update, computed from the due date read under the row lock,
// then releases the copy. Returning an already-returned loan is a hard
// error and never recomputes the fine.
func (r *repository) ReturnLoan(ctx context.Context, loanID int, returnDate time.Time) (model.Loan, error) {
	var loan model.Loan
	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		var (
			copyID   int
			dueDate  time.Time
			returned *time.Time
		)
		err := tx.QueryRowContext(ctx,
			`select copy_id, due_date, return_date from loan where id = $1 for update`, loanID).
			Scan(&copyID, &dueDate, &returned)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return errs.ErrNotFound
			}
			return errors.Wrap(err, "lock loan")
		}
		if returned != nil {
			return errs.ErrAlreadyReturned
		}

		amount := r.fine.Fine(dueDate, returnDate)

		query, args, err := qb.Update(loanTableName).
			Set("return_date", returnDate.Format(time.DateOnly)).
			Set("fine_amount", amount).
			Where(sq.Eq{"id": loanID}).
			Suffix("returning *").
			ToSql()
		if err != nil {
			return err
		}
		if err := tx.GetContext(ctx, &loan, query, args...); err != nil {
			return errors.Wrap(err, "close loan")
		}

		if _, err := tx.ExecContext(ctx,
			`update book_copy set copy_status = 'available' where id = $1`, copyID); err != nil {
			return errors.Wrap(err, "release copy")
		}
		return nil
	})
	if err != nil {
		r.log.Debug("ReturnLoan", zap.Int("loanID", loanID), zap.Error(err))
		return model.Loan{}, err
	}
	return loan, nil
}

var loanViewColumns = []string{
	"l.id", "l.loan_uid", "b.title", "m.name as borrower",
	"l.issue_date", "l.due_date", "l.return_date", "l.fine_amount",
}

func (r *repository) loanViewQuery() sq.SelectBuilder {
	return qb.Select(loanViewColumns...).
		From(loanTableName + " l").
		Join(memberTableName + " m on m.id = l.member_id").
		Join(bookCopyTableName + " bc on bc.id = l.copy_id").
		Join(bookTableName + " b on b.id = bc.book_id").
		OrderBy("l.issue_date desc", "l.id desc")
}

func (r *repository) RecentLoans(ctx context.Context, limit int) ([]model.LoanView, error) {
	query, args, err := r.loanViewQuery().Limit(uint64(limit)).ToSql()
	if err != nil {
		return nil, err
	}
	var loans []model.LoanView
	if err := r.db.SelectContext(ctx, &loans, query, args...); err != nil {
		return nil, err
	}
	return loans, nil
}

func (r *repository) LoansFiltered(ctx context.Context, filter model.LoanFilter) ([]model.LoanView, error) {
	q := r.loanViewQuery()
	switch filter {
	case model.FilterActive:
		q = q.Where("l.return_date is null")
	case model.FilterOverdue:
		q = q.Where("l.return_date is null and l.due_date < current_date")
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	var loans []model.LoanView
	if err := r.db.SelectContext(ctx, &loans, query, args...); err != nil {
		return nil, err
	}
	return loans, nil
}

func (r *repository) DashboardStats(ctx context.Context) (model.Stats, error) {
	q := `
select
    (select count(*) from book)                                                        as total_books,
    (select count(*) from loan where return_date is null)                              as active_loans,
    (select count(*) from loan where return_date is null and due_date < current_date)  as overdue_loans`

	var stats model.Stats
	if err := r.db.GetContext(ctx, &stats, q); err != nil {
		return model.Stats{}, err
	}
	return stats, nil
}
