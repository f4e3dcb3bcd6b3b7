package repository

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/Kidemi04/Library-Self-Checkout-System-sub001/circulation/internal/model"
)

// Catalog is the book/copy store. ClaimCopy is the only way a copy changes
// status: a conditional update scoped to the expected prior state.
type Catalog interface {
	GetBook(ctx context.Context, bookUid string) (model.Book, error)
	ListBooks(ctx context.Context, page, size int) (model.ListBooks, error)
	CreateBook(ctx context.Context, book model.Book) (model.Book, error)
	BookIDs(ctx context.Context) ([]int, error)
	RecomputeCounts(ctx context.Context, bookID int) error

	AddCopy(ctx context.Context, bookID int, barcode string) (model.Copy, error)
	GetCopy(ctx context.Context, copyUid string) (model.Copy, error)
	GetCopyByID(ctx context.Context, id int) (model.Copy, error)
	ListCopies(ctx context.Context, bookID int) ([]model.Copy, error)
	NextAvailableCopy(ctx context.Context, bookID int) (model.Copy, error)
	ClaimCopy(ctx context.Context, copyID int, from, to model.CopyStatus) (bool, error)
}

// LoanLedger is append-only for creation; rows mutate only to close, renew
// or mark a loan overdue, always conditionally on the current status.
type LoanLedger interface {
	CreateLoan(ctx context.Context, loan model.Loan) (model.Loan, error)
	GetLoan(ctx context.Context, loanUid string) (model.Loan, error)
	OpenLoansByLoanUid(ctx context.Context, loanUid string) ([]model.Loan, error)
	OpenLoansByBarcode(ctx context.Context, barcode string) ([]model.Loan, error)
	OpenLoansByBorrower(ctx context.Context, borrowerID string) ([]model.Loan, error)
	OpenLoansByISBN(ctx context.Context, isbn string) ([]model.Loan, error)
	ListLoansByBorrower(ctx context.Context, borrowerID string) ([]model.Loan, error)
	CloseLoan(ctx context.Context, loanID int, at time.Time) (bool, error)
	CloseLoanByCopy(ctx context.Context, copyID int, at time.Time) (model.Loan, bool, error)
	RenewLoan(ctx context.Context, loanID int, extend time.Duration, maxRenewals int) (model.Loan, bool, error)
	MarkOverdue(ctx context.Context, now time.Time) (int, error)
}

// HoldQueue orders holds per book by (placed_at, id). Promotion claims a
// specific hold id only while it is still QUEUED.
type HoldQueue interface {
	CreateHold(ctx context.Context, bookID int, patronID string) (model.Hold, error)
	GetHold(ctx context.Context, holdUid string) (model.Hold, error)
	ReadyHoldForPatron(ctx context.Context, bookID int, patronID string) (model.Hold, bool, error)
	OldestQueued(ctx context.Context, bookID int) (model.Hold, bool, error)
	HasQueued(ctx context.Context, bookID int) (bool, error)
	PromoteHold(ctx context.Context, holdID, copyID int, readyAt, expiresAt time.Time) (bool, error)
	ResolveHold(ctx context.Context, holdID int, from, to model.HoldStatus) (bool, error)
	ExpiredReady(ctx context.Context, now time.Time) ([]model.Hold, error)
	ListHoldsByPatron(ctx context.Context, patronID string) ([]model.Hold, error)
}

type Repository interface {
	Catalog
	LoanLedger
	HoldQueue
}

type repository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewRepository(db *sqlx.DB, log *zap.Logger) (*repository, error) {
	return &repository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

const (
	bookTableName = `book`
	copyTableName = `copy`
	loanTableName = `loan`
	holdTableName = `hold`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
