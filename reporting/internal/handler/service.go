package handler

import (
	"context"

	"github.com/Kidemi04/Library-Self-Checkout-System-sub001/reporting/internal/model"
)

//go:generate mockgen -source=service.go -destination=mocks/mock.go

type ReportingService interface {
	List(ctx context.Context, filter model.Filter) (model.ListAuditEntries, error)
}
