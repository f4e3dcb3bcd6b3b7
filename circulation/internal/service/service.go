package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Kidemi04/Library-Self-Checkout-System-sub001/circulation/config"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub001/circulation/internal/model"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub001/circulation/internal/repository"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub001/pkg/auth"
)

// Service is the circulation engine. It owns no storage; it is the only
// writer allowed to move Copy, Loan and Hold rows between states, and it
// does so exclusively through conditional updates.
type Service struct {
	log     *zap.Logger
	catalog repository.Catalog
	loans   repository.LoanLedger
	holds   repository.HoldQueue
	audit   AuditSink
	cfg     config.Engine
	now     func() time.Time
}

func NewService(repo repository.Repository, sink AuditSink, cfg config.Engine, log *zap.Logger) *Service {
	return newService(repo, repo, repo, sink, cfg, log)
}

func newService(catalog repository.Catalog, loans repository.LoanLedger, holds repository.HoldQueue,
	sink AuditSink, cfg config.Engine, log *zap.Logger) *Service {
	return &Service{
		log:     log,
		catalog: catalog,
		loans:   loans,
		holds:   holds,
		audit:   sink,
		cfg:     cfg,
		now:     time.Now,
	}
}

func (s *Service) ListBooks(ctx context.Context, page, size int) (model.ListBooks, error) {
	return s.catalog.ListBooks(ctx, page, size)
}

func (s *Service) GetBook(ctx context.Context, bookUid string) (model.Book, error) {
	return s.catalog.GetBook(ctx, bookUid)
}

func (s *Service) ListCopies(ctx context.Context, bookUid string) ([]model.Copy, error) {
	book, err := s.catalog.GetBook(ctx, bookUid)
	if err != nil {
		return nil, err
	}
	return s.catalog.ListCopies(ctx, book.ID)
}

// ListLoans returns the acting user's loans; staff may inspect any borrower.
func (s *Service) ListLoans(ctx context.Context, borrowerID string) ([]model.Loan, error) {
	actor, _ := auth.UserFromContext(ctx)
	if borrowerID == "" || (!auth.IsStaff(ctx) && borrowerID != actor.ID) {
		borrowerID = actor.ID
	}
	return s.loans.ListLoansByBorrower(ctx, borrowerID)
}

func (s *Service) ListHolds(ctx context.Context, patronID string) ([]model.Hold, error) {
	actor, _ := auth.UserFromContext(ctx)
	if patronID == "" || (!auth.IsStaff(ctx) && patronID != actor.ID) {
		patronID = actor.ID
	}
	return s.holds.ListHoldsByPatron(ctx, patronID)
}

// Reconcile rebuilds every book's cached counters from live copy statuses.
// Running counters are treated as a cache, not a source of truth.
func (s *Service) Reconcile(ctx context.Context) error {
	ids, err := s.catalog.BookIDs(ctx)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := s.catalog.RecomputeCounts(ctx, id); err != nil {
			return err
		}
	}
	return nil
}
