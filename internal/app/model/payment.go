package model

import "time"

type ReceiverType string  // 정산 받는 사람 구분
type PaymentMethod string // 지급 방법
type PaymentStatus string // 정산 상태

const (
	ReceiverForeman ReceiverType = "foreman" // 반장
	ReceiverDriver  ReceiverType = "driver"  // 기사

	MethodBank  PaymentMethod = "bank"
	MethodCash  PaymentMethod = "cash"
	MethodOther PaymentMethod = "other"

	PaymentPending    PaymentStatus = "pending"
	PaymentProcessing PaymentStatus = "processing"
	PaymentCompleted  PaymentStatus = "completed"
)

func (t ReceiverType) Valid() bool {
	return t == ReceiverForeman || t == ReceiverDriver
}

func (m PaymentMethod) Valid() bool {
	return m == MethodBank || m == MethodCash || m == MethodOther
}

func (s PaymentStatus) rank() int {
	switch s {
	case PaymentPending:
		return 0
	case PaymentProcessing:
		return 1
	case PaymentCompleted:
		return 2
	}
	return -1
}

// CanMoveTo allows forward-only moves: pending → processing → completed
// (processing may be skipped).
func (s PaymentStatus) CanMoveTo(next PaymentStatus) bool {
	return s.rank() >= 0 && next.rank() > s.rank()
}

// BankInfo 계좌 정보
type BankInfo struct {
	BankName      string `json:"bankName"`
	AccountNumber string `json:"accountNumber"`
	AccountHolder string `json:"accountHolder"`
}

// ScheduleDetail 정산 시점의 일정 요약 (표시용 캐시)
type ScheduleDetail struct {
	WorkType      WorkType  `json:"workType"`
	FarmerID      string    `json:"farmerId,omitempty"`
	FieldID       string    `json:"fieldId,omitempty"`
	ScheduledDate time.Time `json:"scheduledDate"`
	Stage         Stage     `json:"stage"`
	Amount        int64     `json:"amount"`
}

// SettledSchedule 정산에 포함된 일정과 그 요약을 한 쌍으로 묶는다
type SettledSchedule struct {
	ScheduleID string         `json:"scheduleId"`
	Detail     ScheduleDetail `json:"detail"`
}

// Payment 반장/기사에게 지급하는 정산 한 건
type Payment struct {
	ID           string            `json:"id"`
	ReceiverID   string            `json:"receiverId"`
	ReceiverName string            `json:"receiverName"`
	ReceiverType ReceiverType      `json:"receiverType"`
	PayerID      string            `json:"payerId"`
	Schedules    []SettledSchedule `json:"schedules"`
	Amount       int64             `json:"amount"`
	Method       PaymentMethod     `json:"method"`
	Status       PaymentStatus     `json:"status"`
	Bank         *BankInfo         `json:"bankInfo,omitempty"`
	PaymentDate  time.Time         `json:"paymentDate"`
	ReceiptRef   string            `json:"receiptRef,omitempty"`
	Memo         string            `json:"memo,omitempty"`
	Audit
}

func (p *Payment) ScheduleIDs() []string {
	ids := make([]string, len(p.Schedules))
	for i, s := range p.Schedules {
		ids[i] = s.ScheduleID
	}
	return ids
}

// DetailFor looks a schedule detail up by id rather than by position.
func (p *Payment) DetailFor(scheduleID string) (ScheduleDetail, bool) {
	for _, s := range p.Schedules {
		if s.ScheduleID == scheduleID {
			return s.Detail, true
		}
	}
	return ScheduleDetail{}, false
}
