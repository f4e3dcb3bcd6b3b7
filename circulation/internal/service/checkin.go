package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Kidemi04/Library-Self-Checkout-System-sub001/circulation/internal/errs"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub001/circulation/internal/model"
)

// Checkin closes the open loan the identifier resolves to and hands the copy
// either back to the shelf or to the oldest queued hold for its book.
func (s *Service) Checkin(ctx context.Context, identifier string) (model.Loan, error) {
	loan, promoted, err := s.checkin(ctx, identifier)
	if err != nil {
		s.auditFail(ctx, EventCheckin, entityLoan, identifier, err)
		return model.Loan{}, err
	}

	payload := map[string]any{
		"copyUid": loan.CopyUid,
		"bookUid": loan.BookUid,
	}
	if promoted != nil {
		payload["promotedHoldUid"] = promoted.HoldUid
	}
	s.auditOK(ctx, EventCheckin, entityLoan, loan.LoanUid, payload)
	return loan, nil
}

func (s *Service) checkin(ctx context.Context, identifier string) (model.Loan, *model.Hold, error) {
	loan, err := s.resolveLoan(ctx, identifier)
	if err != nil {
		return model.Loan{}, nil, err
	}

	now := s.now().UTC()
	closed, err := s.loans.CloseLoan(ctx, loan.ID, now)
	if err != nil {
		return model.Loan{}, nil, err
	}
	if !closed {
		return model.Loan{}, nil, errs.ErrAlreadyReturned
	}
	loan.Status = model.LoanReturned
	loan.ReturnedAt = &now

	promoted, err := s.releaseCopy(ctx, loan.CopyID, loan.BookID, model.CopyOnLoan)
	if err != nil {
		// the loan is already closed; a failed release is a stale-view
		// conflict the caller resolves by refetching the copy
		s.log.Error("release copy after checkin",
			zap.String("loan", loan.LoanUid), zap.Int("copy", loan.CopyID), zap.Error(err))
		return model.Loan{}, nil, err
	}
	return loan, promoted, nil
}

// loanLookup is one strategy for resolving a check-in identifier to an open
// loan. Strategies run in a fixed priority order; string sniffing is limited
// to skipping uid lookups for values that cannot be uids.
type loanLookup struct {
	name    string
	applies func(string) bool
	find    func(context.Context, string) ([]model.Loan, error)
}

func (s *Service) resolveLoan(ctx context.Context, identifier string) (model.Loan, error) {
	if identifier == "" {
		return model.Loan{}, errs.ErrLoanNotFound
	}

	isUUID := func(v string) bool {
		_, err := uuid.Parse(v)
		return err == nil
	}
	always := func(string) bool { return true }

	lookups := []loanLookup{
		{name: "loanUid", applies: isUUID, find: s.loans.OpenLoansByLoanUid},
		{name: "barcode", applies: always, find: s.loans.OpenLoansByBarcode},
		{name: "borrower", applies: always, find: s.loans.OpenLoansByBorrower},
		{name: "isbn", applies: always, find: s.loans.OpenLoansByISBN},
	}

	for _, lookup := range lookups {
		if !lookup.applies(identifier) {
			continue
		}
		loans, err := lookup.find(ctx, identifier)
		if err != nil {
			return model.Loan{}, err
		}
		switch len(loans) {
		case 0:
			continue
		case 1:
			return loans[0], nil
		default:
			// e.g. a borrower id with several books out
			return model.Loan{}, errs.ErrAmbiguousIdentifier
		}
	}
	return model.Loan{}, errs.ErrLoanNotFound
}
