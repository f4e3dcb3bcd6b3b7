package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/Kidemi04/Library-Self-Checkout-System-sub001/circulation/internal/errs"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub001/circulation/internal/model"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub001/pkg/auth"
)

func (s *Service) CreateBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error) {
	if !auth.IsStaff(ctx) {
		s.auditFail(ctx, EventCreateBook, entityBook, req.ISBN, errs.ErrForbidden)
		return model.Book{}, errs.ErrForbidden
	}
	book, err := s.catalog.CreateBook(ctx, model.Book{
		Title:          req.Title,
		Author:         req.Author,
		ISBN:           req.ISBN,
		Classification: req.Classification,
	})
	if err != nil {
		s.auditFail(ctx, EventCreateBook, entityBook, req.ISBN, err)
		return model.Book{}, err
	}
	s.auditOK(ctx, EventCreateBook, entityBook, book.BookUid, map[string]any{"isbn": book.ISBN})
	return book, nil
}

// AddCopy registers a new physical copy. It enters the collection in
// PROCESSING and is put into circulation with a status change to AVAILABLE
// once cataloging is done.
func (s *Service) AddCopy(ctx context.Context, bookUid, barcode string) (model.Copy, error) {
	if !auth.IsStaff(ctx) {
		s.auditFail(ctx, EventAddCopy, entityBook, bookUid, errs.ErrForbidden)
		return model.Copy{}, errs.ErrForbidden
	}

	book, err := s.catalog.GetBook(ctx, bookUid)
	if err != nil {
		s.auditFail(ctx, EventAddCopy, entityBook, bookUid, err)
		return model.Copy{}, err
	}
	copy, err := s.catalog.AddCopy(ctx, book.ID, barcode)
	if err != nil {
		s.auditFail(ctx, EventAddCopy, entityBook, bookUid, err)
		return model.Copy{}, err
	}
	copy.BookUid = book.BookUid

	if err := s.catalog.RecomputeCounts(ctx, book.ID); err != nil {
		s.log.Warn("recompute counts", zap.Int("book", book.ID), zap.Error(err))
	}
	s.auditOK(ctx, EventAddCopy, entityCopy, copy.CopyUid, map[string]any{
		"bookUid": book.BookUid,
		"barcode": barcode,
	})
	return copy, nil
}

// copyTransitions lists the staff-driven status changes. Loan and hold
// driven transitions (AVAILABLE↔ON_LOAN↔RESERVED) never go through here.
var copyTransitions = map[model.CopyStatus]map[model.CopyStatus]bool{
	model.CopyProcessing: {model.CopyAvailable: true},
	model.CopyAvailable:  {model.CopyLost: true, model.CopyDamaged: true, model.CopyProcessing: true},
	model.CopyOnLoan:     {model.CopyLost: true},
	model.CopyDamaged:    {model.CopyProcessing: true, model.CopyAvailable: true},
	model.CopyLost:       {},
}

// UpdateCopyStatus applies a staff-driven transition. A copy entering
// circulation is offered to the hold queue before it reaches the shelf;
// a copy declared lost while on loan drags its open loan closed.
func (s *Service) UpdateCopyStatus(ctx context.Context, copyUid string, to model.CopyStatus) (model.Copy, error) {
	copy, err := s.updateCopyStatus(ctx, copyUid, to)
	if err != nil {
		s.auditFail(ctx, EventCopyStatus, entityCopy, copyUid, err)
		return model.Copy{}, err
	}
	s.auditOK(ctx, EventCopyStatus, entityCopy, copy.CopyUid, map[string]any{
		"status": copy.Status,
	})
	return copy, nil
}

func (s *Service) updateCopyStatus(ctx context.Context, copyUid string, to model.CopyStatus) (model.Copy, error) {
	if !auth.IsStaff(ctx) {
		return model.Copy{}, errs.ErrForbidden
	}

	copy, err := s.catalog.GetCopy(ctx, copyUid)
	if err != nil {
		return model.Copy{}, err
	}
	if !copyTransitions[copy.Status][to] {
		return model.Copy{}, errs.ErrInvalidCopyStatus
	}

	if to == model.CopyAvailable {
		promoted, err := s.releaseCopy(ctx, copy.ID, copy.BookID, copy.Status)
		if err != nil {
			return model.Copy{}, err
		}
		copy.Status = model.CopyAvailable
		if promoted != nil {
			copy.Status = model.CopyReserved
		}
		return copy, nil
	}

	won, err := s.catalog.ClaimCopy(ctx, copy.ID, copy.Status, to)
	if err != nil {
		return model.Copy{}, err
	}
	if !won {
		return model.Copy{}, errs.ErrConflict
	}

	if copy.Status == model.CopyOnLoan && to == model.CopyLost {
		if loan, closed, err := s.loans.CloseLoanByCopy(ctx, copy.ID, s.now().UTC()); err != nil {
			s.log.Error("close loan for lost copy", zap.Int("copy", copy.ID), zap.Error(err))
		} else if closed {
			s.log.Info("loan closed, copy lost", zap.String("loan", loan.LoanUid))
		}
	}
	copy.Status = to

	if err := s.catalog.RecomputeCounts(ctx, copy.BookID); err != nil {
		s.log.Warn("recompute counts", zap.Int("book", copy.BookID), zap.Error(err))
	}
	return copy, nil
}
