package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/Kidemi04/Library-Self-Checkout-System-sub001/circulation/internal/model"
)

// SweepExpiredHolds expires READY holds whose pickup window lapsed and
// releases their copies through the promotion cascade. The conditional
// READY→EXPIRED update makes the sweep idempotent: a hold already resolved
// by a checkout, a cancel or an earlier sweep is skipped, so a copy is
// never double-released. Overdue loans are flagged in the same pass.
func (s *Service) SweepExpiredHolds(ctx context.Context) (model.SweepResult, error) {
	now := s.now().UTC()

	var result model.SweepResult

	expired, err := s.holds.ExpiredReady(ctx, now)
	if err != nil {
		return result, err
	}
	for _, hold := range expired {
		won, err := s.holds.ResolveHold(ctx, hold.ID, model.HoldReady, model.HoldExpired)
		if err != nil {
			return result, err
		}
		if !won {
			continue
		}
		result.ExpiredHolds++

		if hold.CopyID != nil {
			if _, err := s.releaseCopy(ctx, *hold.CopyID, hold.BookID, model.CopyReserved); err != nil {
				s.log.Error("release copy after expiry",
					zap.String("hold", hold.HoldUid), zap.Int("copy", *hold.CopyID), zap.Error(err))
			}
		}
		s.auditOK(ctx, EventExpireHold, entityHold, hold.HoldUid, map[string]any{
			"bookUid":  hold.BookUid,
			"patronId": hold.PatronID,
		})
	}

	overdue, err := s.loans.MarkOverdue(ctx, now)
	if err != nil {
		return result, err
	}
	result.OverdueLoans = overdue

	return result, nil
}
