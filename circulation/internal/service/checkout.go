package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/Kidemi04/Library-Self-Checkout-System-sub001/circulation/internal/errs"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub001/circulation/internal/model"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub001/pkg/auth"
)

// Checkout opens a loan for one copy of a book. Given a book uid, it prefers
// the copy already reserved for the borrower's READY hold, otherwise the
// lowest-id available copy; given an explicit copy uid (staff only), it
// claims exactly that copy.
func (s *Service) Checkout(ctx context.Context, req model.CheckoutRequest) (model.Loan, error) {
	loan, fulfilledHold, err := s.checkout(ctx, req)
	if err != nil {
		target, entity := req.BookUid, entityBook
		if req.CopyUid != "" {
			target, entity = req.CopyUid, entityCopy
		}
		s.auditFail(ctx, EventCheckout, entity, target, err)
		return model.Loan{}, err
	}

	payload := map[string]any{
		"copyUid":    loan.CopyUid,
		"bookUid":    loan.BookUid,
		"borrowerId": loan.BorrowerID,
	}
	if fulfilledHold != nil {
		payload["fulfilledHoldUid"] = fulfilledHold.HoldUid
	}
	s.auditOK(ctx, EventCheckout, entityLoan, loan.LoanUid, payload)
	return loan, nil
}

func (s *Service) checkout(ctx context.Context, req model.CheckoutRequest) (model.Loan, *model.Hold, error) {
	if strings.TrimSpace(req.Borrower.ID) == "" {
		return model.Loan{}, nil, errs.ErrInvalidBorrower
	}

	now := s.now().UTC()
	due := now.Add(s.cfg.LoanPeriod)
	if req.DueDate != nil {
		if req.DueDate.Before(now) {
			return model.Loan{}, nil, errs.ErrInvalidDueDate
		}
		due = req.DueDate.UTC()
	}

	var (
		copy          model.Copy
		fulfilledHold *model.Hold
	)
	switch {
	case req.CopyUid != "":
		// picking a specific physical copy is a desk-side operation
		if !auth.IsStaff(ctx) {
			return model.Loan{}, nil, errs.ErrForbidden
		}
		c, err := s.catalog.GetCopy(ctx, req.CopyUid)
		if err != nil {
			return model.Loan{}, nil, err
		}
		if c.Status != model.CopyAvailable {
			return model.Loan{}, nil, errs.ErrAlreadyOnLoan
		}
		won, err := s.catalog.ClaimCopy(ctx, c.ID, model.CopyAvailable, model.CopyOnLoan)
		if err != nil {
			return model.Loan{}, nil, err
		}
		if !won {
			return model.Loan{}, nil, errs.ErrAlreadyOnLoan
		}
		copy = c

	case req.BookUid != "":
		book, err := s.catalog.GetBook(ctx, req.BookUid)
		if err != nil {
			return model.Loan{}, nil, err
		}
		copy, fulfilledHold, err = s.selectCopy(ctx, book, req.Borrower.ID)
		if err != nil {
			return model.Loan{}, nil, err
		}

	default:
		return model.Loan{}, nil, errs.ErrInvalidTarget
	}

	loan := model.Loan{
		CopyID:       copy.ID,
		CopyUid:      copy.CopyUid,
		BookID:       copy.BookID,
		BookUid:      copy.BookUid,
		BorrowerID:   req.Borrower.ID,
		BorrowerName: req.Borrower.Name,
		BorrowerRole: req.Borrower.Role,
		StaffID:      s.staffID(ctx, req.Borrower.ID),
		BorrowedAt:   now,
		DueAt:        due,
	}
	created, err := s.loans.CreateLoan(ctx, loan)
	if err != nil {
		// the claimed copy must not be stranded ON_LOAN without a loan;
		// hand it back through the queue so a waiting hold gets it first
		if _, relErr := s.releaseCopy(ctx, copy.ID, copy.BookID, model.CopyOnLoan); relErr != nil {
			s.log.Error("checkout rollback", zap.Int("copy", copy.ID), zap.Error(relErr))
		}
		if cErr := s.catalog.RecomputeCounts(ctx, copy.BookID); cErr != nil {
			s.log.Warn("recompute counts", zap.Int("book", copy.BookID), zap.Error(cErr))
		}
		return model.Loan{}, nil, err
	}

	if err := s.catalog.RecomputeCounts(ctx, copy.BookID); err != nil {
		s.log.Warn("recompute counts", zap.Int("book", copy.BookID), zap.Error(err))
	}
	return created, fulfilledHold, nil
}

// selectCopy implements the deterministic copy choice for a book-level
// checkout. The READY hold is resolved before its copy is claimed so that a
// racing sweep or cancellation observes exactly one winner.
func (s *Service) selectCopy(ctx context.Context, book model.Book, patronID string) (model.Copy, *model.Hold, error) {
	hold, found, err := s.holds.ReadyHoldForPatron(ctx, book.ID, patronID)
	if err != nil {
		return model.Copy{}, nil, err
	}
	if found && hold.CopyID != nil {
		won, err := s.holds.ResolveHold(ctx, hold.ID, model.HoldReady, model.HoldFulfilled)
		if err != nil {
			return model.Copy{}, nil, err
		}
		if won {
			claimed, err := s.catalog.ClaimCopy(ctx, *hold.CopyID, model.CopyReserved, model.CopyOnLoan)
			if err != nil {
				return model.Copy{}, nil, err
			}
			if claimed {
				c, err := s.catalog.GetCopyByID(ctx, *hold.CopyID)
				if err != nil {
					return model.Copy{}, nil, err
				}
				hold.Status = model.HoldFulfilled
				return c, &hold, nil
			}
			s.log.Error("fulfilled hold lost its reserved copy",
				zap.String("hold", hold.HoldUid), zap.Int("copy", *hold.CopyID))
		}
		// the hold was expired or canceled under us; fall back to the shelf
	}

	for {
		c, err := s.catalog.NextAvailableCopy(ctx, book.ID)
		if err != nil {
			return model.Copy{}, nil, err
		}
		won, err := s.catalog.ClaimCopy(ctx, c.ID, model.CopyAvailable, model.CopyOnLoan)
		if err != nil {
			return model.Copy{}, nil, err
		}
		if won {
			return c, nil, nil
		}
		// lost the claim; that copy is no longer AVAILABLE, so the next
		// fetch yields a different candidate
	}
}

func (s *Service) staffID(ctx context.Context, borrowerID string) *string {
	actor, ok := auth.UserFromContext(ctx)
	if !ok || !auth.IsStaff(ctx) || actor.ID == borrowerID {
		return nil // self-service
	}
	id := actor.ID
	return &id
}

// RenewLoan pushes the due date out by one loan period. Renewal is refused
// while patrons are queued for the book: the copy is wanted back.
func (s *Service) RenewLoan(ctx context.Context, loanUid string) (model.Loan, error) {
	loan, err := s.renewLoan(ctx, loanUid)
	if err != nil {
		s.auditFail(ctx, EventRenew, entityLoan, loanUid, err)
		return model.Loan{}, err
	}
	s.auditOK(ctx, EventRenew, entityLoan, loan.LoanUid, map[string]any{
		"dueAt":        loan.DueAt,
		"renewalCount": loan.RenewalCount,
	})
	return loan, nil
}

func (s *Service) renewLoan(ctx context.Context, loanUid string) (model.Loan, error) {
	loan, err := s.loans.GetLoan(ctx, loanUid)
	if err != nil {
		return model.Loan{}, err
	}
	actor, _ := auth.UserFromContext(ctx)
	if loan.BorrowerID != actor.ID && !auth.IsStaff(ctx) {
		return model.Loan{}, errs.ErrForbidden
	}
	if !loan.Open() {
		return model.Loan{}, errs.ErrAlreadyReturned
	}
	queued, err := s.holds.HasQueued(ctx, loan.BookID)
	if err != nil {
		return model.Loan{}, err
	}
	if queued {
		return model.Loan{}, errs.ErrRenewalNotAllowed
	}

	renewed, ok, err := s.loans.RenewLoan(ctx, loan.ID, s.cfg.LoanPeriod, s.cfg.MaxRenewals)
	if err != nil {
		return model.Loan{}, err
	}
	if !ok {
		// renewal cap reached, or the loan closed or went overdue concurrently
		return model.Loan{}, errs.ErrRenewalNotAllowed
	}
	renewed.CopyUid = loan.CopyUid
	renewed.BookUid = loan.BookUid
	return renewed, nil
}
