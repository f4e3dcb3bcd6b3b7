package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/Kidemi04/Library-Self-Checkout-System-sub001/reporting/internal/model"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub001/pkg/kafka"
)

type Repository interface {
	Append(ctx context.Context, event kafka.AuditEvent) error
	List(ctx context.Context, filter model.Filter) (model.ListAuditEntries, error)
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

const auditTableName = `audit_log`

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func (r *repository) Append(ctx context.Context, event kafka.AuditEvent) error {
	query, args, err := qb.Insert(auditTableName).
		Columns("event_type", "entity_type", "entity_id", "actor_id", "actor_role", "success", "payload", "created_at").
		Values(event.EventType, event.EntityType, event.EntityID, event.ActorID, event.ActorRole,
			event.Success, []byte(event.Payload), event.Timestamp).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.log.Error("Append", zap.String("q", query), zap.Any("args", args))
		return err
	}
	return nil
}

func (r *repository) List(ctx context.Context, filter model.Filter) (model.ListAuditEntries, error) {
	q := qb.Select("id", "event_type", "entity_type", "entity_id", "actor_id", "actor_role", "success", "payload", "created_at").
		From(auditTableName).
		OrderBy("created_at desc", "id desc")

	if filter.EntityType != "" {
		q = q.Where(sq.Eq{"entity_type": filter.EntityType})
	}
	if filter.EntityID != "" {
		q = q.Where(sq.Eq{"entity_id": filter.EntityID})
	}
	if filter.EventType != "" {
		q = q.Where(sq.Eq{"event_type": filter.EventType})
	}
	if filter.Success != nil {
		q = q.Where(sq.Eq{"success": *filter.Success})
	}
	if !filter.From.IsZero() {
		q = q.Where(sq.GtOrEq{"created_at": filter.From})
	}
	if !filter.To.IsZero() {
		q = q.Where(sq.Lt{"created_at": filter.To})
	}
	if filter.Page != 0 && filter.Size != 0 {
		q = q.Limit(uint64(filter.Size)).Offset(uint64((filter.Page - 1) * filter.Size))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return model.ListAuditEntries{}, err
	}
	r.log.Debug("List", zap.String("query", query), zap.Any("args", args))

	var entries []model.AuditEntry
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return model.ListAuditEntries{}, err
	}

	return model.ListAuditEntries{
		Page:     filter.Page,
		PageSize: filter.Size,
		Items:    entries,
	}, nil
}
