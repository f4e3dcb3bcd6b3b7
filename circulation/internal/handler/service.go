package handler

import (
	"context"

	"github.com/Kidemi04/Library-Self-Checkout-System-sub001/circulation/internal/model"
)

//go:generate mockgen -source=service.go -destination=mocks/mock.go

type CirculationService interface {
	Checkout(ctx context.Context, req model.CheckoutRequest) (model.Loan, error)
	Checkin(ctx context.Context, identifier string) (model.Loan, error)
	RenewLoan(ctx context.Context, loanUid string) (model.Loan, error)

	PlaceHold(ctx context.Context, req model.PlaceHoldRequest) (model.Hold, error)
	CancelHold(ctx context.Context, holdUid string) error
	SweepExpiredHolds(ctx context.Context) (model.SweepResult, error)

	CreateBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error)
	AddCopy(ctx context.Context, bookUid, barcode string) (model.Copy, error)
	UpdateCopyStatus(ctx context.Context, copyUid string, to model.CopyStatus) (model.Copy, error)

	ListBooks(ctx context.Context, page, size int) (model.ListBooks, error)
	GetBook(ctx context.Context, bookUid string) (model.Book, error)
	ListCopies(ctx context.Context, bookUid string) ([]model.Copy, error)
	ListLoans(ctx context.Context, borrowerID string) ([]model.Loan, error)
	ListHolds(ctx context.Context, patronID string) ([]model.Hold, error)
}
