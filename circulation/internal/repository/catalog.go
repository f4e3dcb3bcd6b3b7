package repository

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Kidemi04/Library-Self-Checkout-System-sub001/circulation/internal/errs"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub001/circulation/internal/model"
)

func (r *repository) GetBook(ctx context.Context, bookUid string) (model.Book, error) {
	query, args, err := qb.Select("id", "book_uid", "title", "author", "isbn", "classification", "total_copies", "available_copies").
		From(bookTableName).
		Where(sq.Eq{"book_uid": bookUid}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}

	var book model.Book
	if err := r.db.GetContext(ctx, &book, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Book{}, errs.ErrBookNotFound
		}
		return model.Book{}, err
	}
	return book, nil
}

func (r *repository) ListBooks(ctx context.Context, page, size int) (model.ListBooks, error) {
	q := qb.Select("id", "book_uid", "title", "author", "isbn", "classification", "total_copies", "available_copies").
		From(bookTableName).
		OrderBy("id")

	if page != 0 && size != 0 {
		q = q.Limit(uint64(size)).Offset(uint64((page - 1) * size))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return model.ListBooks{}, err
	}
	r.log.Debug("ListBooks", zap.String("query", query), zap.Any("args", args))

	var books []model.Book
	if err := r.db.SelectContext(ctx, &books, query, args...); err != nil {
		return model.ListBooks{}, err
	}

	return model.ListBooks{
		Paging: model.Paging{
			Page:          page,
			PageSize:      size,
			TotalElements: len(books),
		},
		Items: books,
	}, nil
}

func (r *repository) CreateBook(ctx context.Context, book model.Book) (model.Book, error) {
	query, args, err := qb.Insert(bookTableName).
		Columns("book_uid", "title", "author", "isbn", "classification").
		Values(uuid.New(), book.Title, book.Author, book.ISBN, book.Classification).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.Book{}, err
	}

	var created model.Book
	if err := r.db.GetContext(ctx, &created, query, args...); err != nil {
		r.log.Error("CreateBook", zap.String("q", query), zap.Any("args", args))
		return model.Book{}, err
	}
	return created, nil
}

func (r *repository) BookIDs(ctx context.Context) ([]int, error) {
	var ids []int
	if err := r.db.SelectContext(ctx, &ids, `select id from book order by id`); err != nil {
		return nil, err
	}
	return ids, nil
}

// RecomputeCounts rebuilds the denormalized counters from live copy rows.
// Derived values are recomputed, never incremented, so concurrent writers
// cannot drift them.
func (r *repository) RecomputeCounts(ctx context.Context, bookID int) error {
	q := `
update book
    set available_copies = (select count(*) from copy where copy.book_id = book.id and copy.status = 'AVAILABLE'),
        total_copies     = (select count(*) from copy where copy.book_id = book.id)
where id = $1`
	_, err := r.db.ExecContext(ctx, q, bookID)
	return err
}

func (r *repository) AddCopy(ctx context.Context, bookID int, barcode string) (model.Copy, error) {
	query, args, err := qb.Insert(copyTableName).
		Columns("copy_uid", "book_id", "barcode", "status").
		Values(uuid.New(), bookID, barcode, model.CopyProcessing).
		Suffix("returning id, copy_uid, book_id, barcode, status").
		ToSql()
	if err != nil {
		return model.Copy{}, err
	}

	var copy model.Copy
	if err := r.db.GetContext(ctx, &copy, query, args...); err != nil {
		r.log.Error("AddCopy", zap.String("q", query), zap.Any("args", args))
		return model.Copy{}, err
	}
	return copy, nil
}

func (r *repository) getCopy(ctx context.Context, pred sq.Eq) (model.Copy, error) {
	query, args, err := qb.Select("c.id", "copy_uid", "c.book_id", "book_uid", "barcode", "c.status").
		From(copyTableName + " c").
		Join(fmt.Sprintf("%s b on b.id = c.book_id", bookTableName)).
		Where(pred).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Copy{}, err
	}

	var copy model.Copy
	if err := r.db.GetContext(ctx, &copy, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Copy{}, errs.ErrCopyNotFound
		}
		return model.Copy{}, err
	}
	return copy, nil
}

func (r *repository) GetCopy(ctx context.Context, copyUid string) (model.Copy, error) {
	return r.getCopy(ctx, sq.Eq{"copy_uid": copyUid})
}

func (r *repository) GetCopyByID(ctx context.Context, id int) (model.Copy, error) {
	return r.getCopy(ctx, sq.Eq{"c.id": id})
}

func (r *repository) ListCopies(ctx context.Context, bookID int) ([]model.Copy, error) {
	query, args, err := qb.Select("c.id", "copy_uid", "c.book_id", "book_uid", "barcode", "c.status").
		From(copyTableName + " c").
		Join(fmt.Sprintf("%s b on b.id = c.book_id", bookTableName)).
		Where(sq.Eq{"c.book_id": bookID}).
		OrderBy("c.id").
		ToSql()
	if err != nil {
		return nil, err
	}

	var copies []model.Copy
	if err := r.db.SelectContext(ctx, &copies, query, args...); err != nil {
		return nil, err
	}
	return copies, nil
}

// NextAvailableCopy picks the lowest-id AVAILABLE copy as the deterministic
// tie-break. The caller still has to win ClaimCopy before using it.
func (r *repository) NextAvailableCopy(ctx context.Context, bookID int) (model.Copy, error) {
	query, args, err := qb.Select("c.id", "copy_uid", "c.book_id", "book_uid", "barcode", "c.status").
		From(copyTableName + " c").
		Join(fmt.Sprintf("%s b on b.id = c.book_id", bookTableName)).
		Where(sq.Eq{"c.book_id": bookID}).
		Where(sq.Eq{"c.status": model.CopyAvailable}).
		OrderBy("c.id").
		Limit(1).
		ToSql()
	if err != nil {
		return model.Copy{}, err
	}

	var copy model.Copy
	if err := r.db.GetContext(ctx, &copy, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Copy{}, errs.ErrNoCopyAvailable
		}
		return model.Copy{}, err
	}
	return copy, nil
}

// ClaimCopy is the compare-and-set every copy transition goes through.
// A false return means another desk moved the copy first.
func (r *repository) ClaimCopy(ctx context.Context, copyID int, from, to model.CopyStatus) (bool, error) {
	q := `update copy set status = $3 where id = $1 and status = $2`
	res, err := r.db.ExecContext(ctx, q, copyID, from, to)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
