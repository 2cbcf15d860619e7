package repository

import (
	"context"
)

// AvailableCount reports how many copies of the book are currently on
// the shelf.
func (r *repository) AvailableCount(ctx context.Context, bookID int) (int, error) {
	q := `
select count(*) from book_copy
where book_id = $1 and copy_status = 'available'
`
	var count int
	if err := r.db.QueryRowContext(ctx, q, bookID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
