package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Kidemi04/Library-Self-Checkout-System-sub001/circulation/internal/errs"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub001/circulation/internal/model"
)

var holdColumns = []string{
	"h.id", "hold_uid", "h.book_id", "book_uid", "patron_id", "h.copy_id",
	"h.status", "placed_at", "ready_at", "expires_at",
}

func (r *repository) holdQuery() sq.SelectBuilder {
	return qb.Select(holdColumns...).
		From(holdTableName + " h").
		Join(fmt.Sprintf("%s b on b.id = h.book_id", bookTableName))
}

func (r *repository) CreateHold(ctx context.Context, bookID int, patronID string) (model.Hold, error) {
	query, args, err := qb.Insert(holdTableName).
		Columns("hold_uid", "book_id", "patron_id", "status", "placed_at").
		Values(uuid.New(), bookID, patronID, model.HoldQueued, time.Now().UTC()).
		Suffix("returning id, hold_uid, book_id, patron_id, copy_id, status, placed_at, ready_at, expires_at").
		ToSql()
	if err != nil {
		return model.Hold{}, err
	}

	var hold model.Hold
	if err := r.db.GetContext(ctx, &hold, query, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return model.Hold{}, errs.ErrDuplicateHold
		}
		r.log.Error("CreateHold", zap.String("q", query), zap.Any("args", args))
		return model.Hold{}, err
	}
	return hold, nil
}

func (r *repository) GetHold(ctx context.Context, holdUid string) (model.Hold, error) {
	query, args, err := r.holdQuery().
		Where(sq.Eq{"hold_uid": holdUid}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Hold{}, err
	}

	var hold model.Hold
	if err := r.db.GetContext(ctx, &hold, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Hold{}, errs.ErrHoldNotFound
		}
		return model.Hold{}, err
	}
	return hold, nil
}

func (r *repository) ReadyHoldForPatron(ctx context.Context, bookID int, patronID string) (model.Hold, bool, error) {
	query, args, err := r.holdQuery().
		Where(sq.Eq{"h.book_id": bookID}).
		Where(sq.Eq{"patron_id": patronID}).
		Where(sq.Eq{"h.status": model.HoldReady}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Hold{}, false, err
	}

	var hold model.Hold
	if err := r.db.GetContext(ctx, &hold, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Hold{}, false, nil
		}
		return model.Hold{}, false, err
	}
	return hold, true, nil
}

// OldestQueued returns the head of the FIFO queue for a book; insertion id
// breaks placed_at ties.
func (r *repository) OldestQueued(ctx context.Context, bookID int) (model.Hold, bool, error) {
	query, args, err := r.holdQuery().
		Where(sq.Eq{"h.book_id": bookID}).
		Where(sq.Eq{"h.status": model.HoldQueued}).
		OrderBy("placed_at", "h.id").
		Limit(1).
		ToSql()
	if err != nil {
		return model.Hold{}, false, err
	}

	var hold model.Hold
	if err := r.db.GetContext(ctx, &hold, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Hold{}, false, nil
		}
		return model.Hold{}, false, err
	}
	return hold, true, nil
}

func (r *repository) HasQueued(ctx context.Context, bookID int) (bool, error) {
	var count int
	q := `select count(*) from hold where book_id = $1 and status = 'QUEUED'`
	if err := r.db.QueryRowContext(ctx, q, bookID).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// PromoteHold claims a QUEUED hold for a freed copy. Zero affected rows
// means another check-in promoted or the patron canceled concurrently.
func (r *repository) PromoteHold(ctx context.Context, holdID, copyID int, readyAt, expiresAt time.Time) (bool, error) {
	q := `
update hold
    set status = 'READY', copy_id = $2, ready_at = $3, expires_at = $4
where id = $1 and status = 'QUEUED'`
	res, err := r.db.ExecContext(ctx, q, holdID, copyID, readyAt, expiresAt)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// ResolveHold moves a hold to a terminal state only if it is still in the
// state the caller observed.
func (r *repository) ResolveHold(ctx context.Context, holdID int, from, to model.HoldStatus) (bool, error) {
	q := `update hold set status = $3 where id = $1 and status = $2`
	res, err := r.db.ExecContext(ctx, q, holdID, from, to)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *repository) ExpiredReady(ctx context.Context, now time.Time) ([]model.Hold, error) {
	query, args, err := r.holdQuery().
		Where(sq.Eq{"h.status": model.HoldReady}).
		Where(sq.Lt{"expires_at": now}).
		OrderBy("expires_at").
		ToSql()
	if err != nil {
		return nil, err
	}

	var holds []model.Hold
	if err := r.db.SelectContext(ctx, &holds, query, args...); err != nil {
		return nil, err
	}
	return holds, nil
}

func (r *repository) ListHoldsByPatron(ctx context.Context, patronID string) ([]model.Hold, error) {
	query, args, err := r.holdQuery().
		Where(sq.Eq{"patron_id": patronID}).
		OrderBy("placed_at desc").
		ToSql()
	if err != nil {
		return nil, err
	}

	var holds []model.Hold
	if err := r.db.SelectContext(ctx, &holds, query, args...); err != nil {
		return nil, err
	}
	return holds, nil
}
