package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/Kidemi04/Library-Self-Checkout-System-sub001/circulation/internal/errs"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub001/circulation/internal/model"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub001/pkg/auth"
)

// PlaceHold queues a standing request for any copy of a book. By default
// holds are allowed even while a copy sits on the shelf, since availability
// can change before pickup.
func (s *Service) PlaceHold(ctx context.Context, req model.PlaceHoldRequest) (model.Hold, error) {
	hold, err := s.placeHold(ctx, req)
	if err != nil {
		s.auditFail(ctx, EventPlaceHold, entityBook, req.BookUid, err)
		return model.Hold{}, err
	}
	s.auditOK(ctx, EventPlaceHold, entityHold, hold.HoldUid, map[string]any{
		"bookUid":  hold.BookUid,
		"patronId": hold.PatronID,
	})
	return hold, nil
}

func (s *Service) placeHold(ctx context.Context, req model.PlaceHoldRequest) (model.Hold, error) {
	actor, _ := auth.UserFromContext(ctx)
	if req.PatronID != actor.ID && !auth.IsStaff(ctx) {
		return model.Hold{}, errs.ErrForbidden
	}

	book, err := s.catalog.GetBook(ctx, req.BookUid)
	if err != nil {
		return model.Hold{}, err
	}
	if s.cfg.ForceDirectCheckout && book.AvailableCopies > 0 {
		return model.Hold{}, errs.ErrCopyFreelyAvailable
	}

	hold, err := s.holds.CreateHold(ctx, book.ID, req.PatronID)
	if err != nil {
		return model.Hold{}, err
	}
	hold.BookUid = book.BookUid
	return hold, nil
}

// CancelHold resolves a QUEUED or READY hold to CANCELED. A patron may only
// cancel their own hold; staff may cancel any.
func (s *Service) CancelHold(ctx context.Context, holdUid string) error {
	if err := s.cancelHold(ctx, holdUid); err != nil {
		s.auditFail(ctx, EventCancelHold, entityHold, holdUid, err)
		return err
	}
	s.auditOK(ctx, EventCancelHold, entityHold, holdUid, nil)
	return nil
}

func (s *Service) cancelHold(ctx context.Context, holdUid string) error {
	hold, err := s.holds.GetHold(ctx, holdUid)
	if err != nil {
		return err
	}
	actor, _ := auth.UserFromContext(ctx)
	if hold.PatronID != actor.ID && !auth.IsStaff(ctx) {
		return errs.ErrForbidden
	}
	if hold.Status.Terminal() {
		return errs.ErrInvalidHoldState
	}

	won, err := s.holds.ResolveHold(ctx, hold.ID, hold.Status, model.HoldCanceled)
	if err != nil {
		return err
	}
	if !won {
		// a concurrent checkout, expiry or cancel resolved it first
		return errs.ErrHoldAlreadyResolved
	}

	if hold.Status == model.HoldReady && hold.CopyID != nil {
		if _, err := s.releaseCopy(ctx, *hold.CopyID, hold.BookID, model.CopyReserved); err != nil {
			s.log.Error("release copy after cancel",
				zap.String("hold", hold.HoldUid), zap.Int("copy", *hold.CopyID), zap.Error(err))
			return err
		}
	}
	return nil
}

// releaseCopy hands a copy the engine just took back (from a check-in, a
// cancellation or an expiry) to the hold queue. The promotion cascade is a
// worklist bounded by the queue length: every failed claim means that hold
// already left QUEUED. Only when no hold takes the copy does it land on the
// shelf, and only then does availableCopies move.
func (s *Service) releaseCopy(ctx context.Context, copyID, bookID int, current model.CopyStatus) (*model.Hold, error) {
	now := s.now().UTC()

	for {
		hold, found, err := s.holds.OldestQueued(ctx, bookID)
		if err != nil {
			return nil, err
		}
		if !found {
			break
		}

		if current != model.CopyReserved {
			won, err := s.catalog.ClaimCopy(ctx, copyID, current, model.CopyReserved)
			if err != nil {
				return nil, err
			}
			if !won {
				return nil, errs.ErrConflict
			}
			current = model.CopyReserved
		}

		expiresAt := now.Add(s.cfg.PickupWindow)
		won, err := s.holds.PromoteHold(ctx, hold.ID, copyID, now, expiresAt)
		if err != nil {
			return nil, err
		}
		if won {
			hold.Status = model.HoldReady
			hold.CopyID = &copyID
			hold.ReadyAt = &now
			hold.ExpiresAt = &expiresAt
			return &hold, nil
		}
		// the head of the queue was resolved concurrently; take the next one
	}

	won, err := s.catalog.ClaimCopy(ctx, copyID, current, model.CopyAvailable)
	if err != nil {
		return nil, err
	}
	if !won {
		return nil, errs.ErrConflict
	}
	if err := s.catalog.RecomputeCounts(ctx, bookID); err != nil {
		s.log.Warn("recompute counts", zap.Int("book", bookID), zap.Error(err))
	}
	return nil, nil
}
