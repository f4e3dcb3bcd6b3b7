package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/Kidemi04/Library-Self-Checkout-System-sub001/pkg/kafka"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub001/reporting/internal/model"
	reportingRepo "github.com/Kidemi04/Library-Self-Checkout-System-sub001/reporting/internal/repository"
)

type Service struct {
	log  *zap.Logger
	repo reportingRepo.Repository
}

func NewService(repo reportingRepo.Repository, log *zap.Logger) *Service {
	return &Service{
		log:  log,
		repo: repo,
	}
}

// Record used by the kafka consumer.
func (s *Service) Record(ctx context.Context, event kafka.AuditEvent) error {
	return s.repo.Append(ctx, event)
}

func (s *Service) List(ctx context.Context, filter model.Filter) (model.ListAuditEntries, error) {
	return s.repo.List(ctx, filter)
}
