package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Kidemi04/Library-Self-Checkout-System-sub001/circulation/internal/errs"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub001/circulation/internal/model"
)

var loanColumns = []string{
	"l.id", "loan_uid", "l.copy_id", "copy_uid", "l.book_id", "book_uid",
	"borrower_id", "borrower_name", "borrower_role", "staff_id",
	"l.status", "borrowed_at", "due_at", "returned_at", "renewal_count",
}

func (r *repository) loanQuery() sq.SelectBuilder {
	return qb.Select(loanColumns...).
		From(loanTableName + " l").
		Join(fmt.Sprintf("%s c on c.id = l.copy_id", copyTableName)).
		Join(fmt.Sprintf("%s b on b.id = l.book_id", bookTableName))
}

func (r *repository) CreateLoan(ctx context.Context, loan model.Loan) (model.Loan, error) {
	query, args, err := qb.Insert(loanTableName).
		Columns("loan_uid", "copy_id", "book_id", "borrower_id", "borrower_name", "borrower_role",
			"staff_id", "status", "borrowed_at", "due_at").
		Values(uuid.New(), loan.CopyID, loan.BookID, loan.BorrowerID, loan.BorrowerName, loan.BorrowerRole,
			loan.StaffID, model.LoanBorrowed, loan.BorrowedAt, loan.DueAt).
		Suffix("returning id, loan_uid").
		ToSql()
	if err != nil {
		return model.Loan{}, err
	}

	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&loan.ID, &loan.LoanUid); err != nil {
		r.log.Error("CreateLoan", zap.String("q", query), zap.Any("args", args))
		return model.Loan{}, err
	}
	loan.Status = model.LoanBorrowed
	return loan, nil
}

func (r *repository) GetLoan(ctx context.Context, loanUid string) (model.Loan, error) {
	query, args, err := r.loanQuery().
		Where(sq.Eq{"loan_uid": loanUid}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Loan{}, err
	}

	var loan model.Loan
	if err := r.db.GetContext(ctx, &loan, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Loan{}, errs.ErrLoanNotFound
		}
		return model.Loan{}, err
	}
	return loan, nil
}

func (r *repository) openLoans(ctx context.Context, pred sq.Sqlizer) ([]model.Loan, error) {
	query, args, err := r.loanQuery().
		Where(sq.Eq{"l.status": []model.LoanStatus{model.LoanBorrowed, model.LoanOverdue}}).
		Where(pred).
		OrderBy("l.id").
		ToSql()
	if err != nil {
		return nil, err
	}

	var loans []model.Loan
	if err := r.db.SelectContext(ctx, &loans, query, args...); err != nil {
		return nil, err
	}
	return loans, nil
}

func (r *repository) OpenLoansByLoanUid(ctx context.Context, loanUid string) ([]model.Loan, error) {
	return r.openLoans(ctx, sq.Eq{"loan_uid": loanUid})
}

func (r *repository) OpenLoansByBarcode(ctx context.Context, barcode string) ([]model.Loan, error) {
	return r.openLoans(ctx, sq.Eq{"barcode": barcode})
}

func (r *repository) OpenLoansByBorrower(ctx context.Context, borrowerID string) ([]model.Loan, error) {
	return r.openLoans(ctx, sq.Eq{"borrower_id": borrowerID})
}

func (r *repository) OpenLoansByISBN(ctx context.Context, isbn string) ([]model.Loan, error) {
	return r.openLoans(ctx, sq.Eq{"isbn": isbn})
}

func (r *repository) ListLoansByBorrower(ctx context.Context, borrowerID string) ([]model.Loan, error) {
	query, args, err := r.loanQuery().
		Where(sq.Eq{"borrower_id": borrowerID}).
		OrderBy("borrowed_at desc").
		ToSql()
	if err != nil {
		return nil, err
	}

	var loans []model.Loan
	if err := r.db.SelectContext(ctx, &loans, query, args...); err != nil {
		return nil, err
	}
	return loans, nil
}

// CloseLoan conditionally closes an open loan. Zero affected rows means a
// concurrent check-in already closed it.
func (r *repository) CloseLoan(ctx context.Context, loanID int, at time.Time) (bool, error) {
	q := `
update loan
    set status = 'RETURNED', returned_at = $2
where id = $1 and status in ('BORROWED', 'OVERDUE')`
	res, err := r.db.ExecContext(ctx, q, loanID, at)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// CloseLoanByCopy closes whatever open loan holds the copy. Used when a copy
// on loan is declared lost.
func (r *repository) CloseLoanByCopy(ctx context.Context, copyID int, at time.Time) (model.Loan, bool, error) {
	q := `
update loan
    set status = 'RETURNED', returned_at = $2
where copy_id = $1 and status in ('BORROWED', 'OVERDUE')
returning id, loan_uid, copy_id, book_id, borrower_id, borrower_name, borrower_role,
    staff_id, status, borrowed_at, due_at, returned_at, renewal_count`

	var loan model.Loan
	if err := r.db.GetContext(ctx, &loan, q, copyID, at); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Loan{}, false, nil
		}
		return model.Loan{}, false, err
	}
	return loan, true, nil
}

func (r *repository) RenewLoan(ctx context.Context, loanID int, extend time.Duration, maxRenewals int) (model.Loan, bool, error) {
	q := `
update loan
    set due_at = due_at + make_interval(secs => $2), renewal_count = renewal_count + 1
where id = $1 and status = 'BORROWED' and renewal_count < $3
returning id, loan_uid, copy_id, book_id, borrower_id, borrower_name, borrower_role,
    staff_id, status, borrowed_at, due_at, returned_at, renewal_count`

	var loan model.Loan
	if err := r.db.GetContext(ctx, &loan, q, loanID, extend.Seconds(), maxRenewals); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Loan{}, false, nil
		}
		return model.Loan{}, false, err
	}
	return loan, true, nil
}

func (r *repository) MarkOverdue(ctx context.Context, now time.Time) (int, error) {
	q := `update loan set status = 'OVERDUE' where status = 'BORROWED' and due_at < $1`
	res, err := r.db.ExecContext(ctx, q, now)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
