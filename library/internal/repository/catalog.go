package repository

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/polyakovs/library-lending/library/internal/errs"
	"github.com/polyakovs/library-lending/library/internal/model"
)

// AddBook inserts the book, creates its physical copies, resolves the
// author by exact name (reuse if present, create otherwise) and links it
// to the book. Everything happens in one transaction.
func (r *repository) AddBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error) {
	var book model.Book
	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		query, args, err := qb.Insert(bookTableName).
			Columns("title", "isbn", "year", "publisher_id", "category_id", "total_copies").
			Values(req.Title, req.ISBN, req.Year, req.PublisherID, req.CategoryID, req.Copies).
			Suffix("returning *").
			ToSql()
		if err != nil {
			return err
		}
		if err := tx.GetContext(ctx, &book, query, args...); err != nil {
			switch pgErrCode(err) {
			case pgerrcode.UniqueViolation:
				return errs.ErrDuplicateISBN
			case pgerrcode.ForeignKeyViolation:
				return errs.ErrReference
			}
			return errors.Wrap(err, "insert book")
		}

		ins := qb.Insert(bookCopyTableName).Columns("book_id")
		for i := 0; i < req.Copies; i++ {
			ins = ins.Values(book.ID)
		}
		query, args, err = ins.ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return errors.Wrap(err, "insert copies")
		}

		authorID, err := r.findOrCreateAuthor(ctx, tx, req.Author)
		if err != nil {
			return err
		}

		query, args, err = qb.Insert(bookAuthorTableName).
			Columns("book_id", "author_id").
			Values(book.ID, authorID).
			ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return errors.Wrap(err, "link author")
		}
		return nil
	})
	if err != nil {
		r.log.Debug("AddBook", zap.String("isbn", req.ISBN), zap.Error(err))
		return model.Book{}, err
	}
	return book, nil
}

// findOrCreateAuthor dedups authors by exact, case-sensitive name match.
func (r *repository) findOrCreateAuthor(ctx context.Context, tx *sqlx.Tx, name string) (int, error) {
	var id int
	err := tx.QueryRowContext(ctx, `select id from author where name = $1`, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, errors.Wrap(err, "find author")
	}
	err = tx.QueryRowContext(ctx,
		`insert into author (name) values ($1)
		 on conflict (name) do update set name = excluded.name
		 returning id`, name).Scan(&id)
	return id, errors.Wrap(err, "create author")
}

func (r *repository) ListBooks(ctx context.Context) ([]model.BookView, error) {
	query, args, err := qb.Select(
		"b.id", "b.title", "b.isbn", "b.year", "b.total_copies",
		"c.name as category", "p.name as publisher",
		"(select count(*) from book_copy bc where bc.book_id = b.id and bc.copy_status = 'available') as available").
		From(bookTableName + " b").
		LeftJoin(categoryTableName + " c on c.id = b.category_id").
		LeftJoin(publisherTableName + " p on p.id = b.publisher_id").
		OrderBy("b.id desc").
		ToSql()
	if err != nil {
		return nil, err
	}

	var books []model.BookView
	if err := r.db.SelectContext(ctx, &books, query, args...); err != nil {
		return nil, err
	}
	return books, nil
}

const searchLimit = 5

func (r *repository) SearchBooks(ctx context.Context, prefix string) ([]model.Book, error) {
	pattern := prefix + "%"
	query, args, err := qb.Select("id", "title", "isbn", "year", "publisher_id", "category_id", "total_copies").
		From(bookTableName).
		Where(sq.Or{
			sq.Like{"title": pattern},
			sq.Like{"isbn": pattern},
		}).
		Limit(searchLimit).
		ToSql()
	if err != nil {
		return nil, err
	}

	var books []model.Book
	if err := r.db.SelectContext(ctx, &books, query, args...); err != nil {
		return nil, err
	}
	return books, nil
}

func (r *repository) ListCategories(ctx context.Context) ([]model.Category, error) {
	var items []model.Category
	if err := r.db.SelectContext(ctx, &items, `select id, name from category order by name`); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) AddCategory(ctx context.Context, name string) (model.Category, error) {
	var item model.Category
	err := r.db.GetContext(ctx, &item, `insert into category (name) values ($1) returning id, name`, name)
	if pgErrCode(err) == pgerrcode.UniqueViolation {
		return model.Category{}, errs.ErrDuplicateName
	}
	return item, err
}

func (r *repository) ListPublishers(ctx context.Context) ([]model.Publisher, error) {
	var items []model.Publisher
	if err := r.db.SelectContext(ctx, &items, `select id, name from publisher order by name`); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) AddPublisher(ctx context.Context, name string) (model.Publisher, error) {
	var item model.Publisher
	err := r.db.GetContext(ctx, &item, `insert into publisher (name) values ($1) returning id, name`, name)
	if pgErrCode(err) == pgerrcode.UniqueViolation {
		return model.Publisher{}, errs.ErrDuplicateName
	}
	return item, err
}
