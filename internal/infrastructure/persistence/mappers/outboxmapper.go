package mappers

import (
	"encoding/json"
	"fmt"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/notification"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/infrastructure/persistence/models"
)

func OutboxToModel(e *notification.OutboxEntry) (*models.OutboxModel, error) {
	payload, err := marshalJSON(e.Payload())
	if err != nil {
		return nil, fmt.Errorf("failed to encode outbox payload: %w", err)
	}
	recipients, err := marshalJSON(e.Recipients())
	if err != nil {
		return nil, fmt.Errorf("failed to encode outbox recipients: %w", err)
	}
	return &models.OutboxModel{
		ID:            e.ID(),
		EventID:       e.EventID(),
		EventType:     e.EventType(),
		AggregateType: e.AggregateType(),
		AggregateID:   e.AggregateID(),
		TenantID:      e.TenantID(),
		Recipients:    recipients,
		Payload:       payload,
		Status:        string(e.Status()),
		Attempts:      e.Attempts(),
		NextAttemptAt: toMilli(e.NextAttemptAt()),
		LastError:     e.LastError(),
		CreatedAt:     toMilli(e.CreatedAt()),
		SentAt:        toMilliPtr(e.SentAt()),
	}, nil
}

func OutboxToDomain(model *models.OutboxModel) (*notification.OutboxEntry, error) {
	payload := map[string]any{}
	if len(model.Payload) > 0 {
		if err := json.Unmarshal(model.Payload, &payload); err != nil {
			return nil, fmt.Errorf("failed to decode payload of outbox entry %d: %w", model.ID, err)
		}
	}
	var recipients []uint
	if len(model.Recipients) > 0 {
		if err := json.Unmarshal(model.Recipients, &recipients); err != nil {
			return nil, fmt.Errorf("failed to decode recipients of outbox entry %d: %w", model.ID, err)
		}
	}
	return notification.ReconstructOutboxEntry(notification.OutboxParams{
		ID:            model.ID,
		EventID:       model.EventID,
		EventType:     model.EventType,
		AggregateType: model.AggregateType,
		AggregateID:   model.AggregateID,
		TenantID:      model.TenantID,
		Recipients:    recipients,
		Payload:       payload,
		Status:        notification.OutboxStatus(model.Status),
		Attempts:      model.Attempts,
		NextAttemptAt: fromMilli(model.NextAttemptAt),
		LastError:     model.LastError,
		CreatedAt:     fromMilli(model.CreatedAt),
		SentAt:        fromMilliPtr(model.SentAt),
	}), nil
}
