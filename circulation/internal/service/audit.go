package service

import (
	"context"
	"encoding/json"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/Kidemi04/Library-Self-Checkout-System-sub001/pkg/auth"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub001/pkg/circuit_breaker"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub001/pkg/kafka"
)

const (
	EventCheckout   = "CHECKOUT"
	EventCheckin    = "CHECKIN"
	EventRenew      = "RENEW"
	EventPlaceHold  = "PLACE_HOLD"
	EventCancelHold = "CANCEL_HOLD"
	EventExpireHold = "EXPIRE_HOLD"
	EventCreateBook = "CREATE_BOOK"
	EventAddCopy    = "ADD_COPY"
	EventCopyStatus = "COPY_STATUS"
)

const (
	entityBook = "book"
	entityCopy = "copy"
	entityLoan = "loan"
	entityHold = "hold"
)

// AuditSink records state-changing actions. It is fire-and-forget: a sink
// failure must never undo the mutation it describes.
type AuditSink interface {
	Record(ctx context.Context, event kafka.AuditEvent)
}

type kafkaSink struct {
	producer sarama.SyncProducer
	cb       circuit_breaker.CircuitBreaker
	log      *zap.Logger
}

func NewKafkaSink(producer sarama.SyncProducer, cb circuit_breaker.CircuitBreaker, log *zap.Logger) AuditSink {
	return &kafkaSink{
		producer: producer,
		cb:       cb,
		log:      log.Named("audit"),
	}
}

func (s *kafkaSink) Record(_ context.Context, event kafka.AuditEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		s.log.Error("marshal audit event", zap.Error(err))
		return
	}
	err = s.cb.Call(func() error {
		msg := &sarama.ProducerMessage{Topic: kafka.AuditTopic, Value: sarama.ByteEncoder(data)}
		_, _, sendErr := s.producer.SendMessage(msg)
		return sendErr
	})
	if err != nil {
		// captured locally, never propagated into the mutation
		s.log.Warn("audit event dropped",
			zap.String("event", event.EventType),
			zap.String("entity", event.EntityID),
			zap.Error(err))
	}
}

func (s *Service) auditOK(ctx context.Context, eventType, entityType, entityID string, payload map[string]any) {
	s.audit.Record(ctx, s.buildEvent(ctx, eventType, entityType, entityID, true, payload))
}

func (s *Service) auditFail(ctx context.Context, eventType, entityType, entityID string, cause error) {
	payload := map[string]any{"error": cause.Error()}
	s.audit.Record(ctx, s.buildEvent(ctx, eventType, entityType, entityID, false, payload))
}

func (s *Service) buildEvent(ctx context.Context, eventType, entityType, entityID string, success bool, payload map[string]any) kafka.AuditEvent {
	actor, _ := auth.UserFromContext(ctx)
	var raw json.RawMessage
	if len(payload) > 0 {
		raw, _ = json.Marshal(payload) //nolint:errcheck
	}
	return kafka.AuditEvent{
		EventType:  eventType,
		EntityType: entityType,
		EntityID:   entityID,
		ActorID:    actor.ID,
		ActorRole:  string(actor.Role),
		Success:    success,
		Payload:    raw,
		Timestamp:  s.now().UTC(),
	}
}
