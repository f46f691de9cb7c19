package service

import "time"

// 실시간 알림 이벤트 종류
const (
	EventStageAdvanced    = "schedule.stage_advanced"
	EventPaymentCreated   = "payment.created"
	EventPaymentUpdated   = "payment.status_changed"
	EventPaymentDeleted   = "payment.deleted"
	EventContractLinePaid = "contract.line_paid"
	EventContractDueSoon  = "contract.due_soon"
	EventLookupRefreshed  = "lookup.refreshed"
)

type Event struct {
	Type     string      `json:"type"`
	EntityID string      `json:"entityId,omitempty"`
	Actor    string      `json:"actor,omitempty"`
	Data     interface{} `json:"data,omitempty"`
	At       time.Time   `json:"at"`
}

// EventPublisher receives events after the write that produced them has
// been committed.
type EventPublisher interface {
	Publish(event Event)
}

type noopPublisher struct{}

func (noopPublisher) Publish(Event) {}

func publisherOrNoop(p EventPublisher) EventPublisher {
	if p == nil {
		return noopPublisher{}
	}
	return p
}
