package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type SchedulePaymentStatus string // 일정별 정산 상태

const (
	ScheduleUnpaid  SchedulePaymentStatus = "unpaid"  // 정산 전
	SchedulePending SchedulePaymentStatus = "pending" // 정산 등록됨, 지급 대기
	SchedulePaid    SchedulePaymentStatus = "paid"    // 지급 완료
)

// TimeWindow 예정/실제 작업 시간
type TimeWindow struct {
	Start time.Time  `json:"start"`
	End   *time.Time `json:"end,omitempty"`
}

// RateInfo 작업 단가 정보
type RateInfo struct {
	CategoryID       string   `json:"categoryId,omitempty"`
	RateID           string   `json:"rateId,omitempty"`
	BaseRate         int64    `json:"baseRate"`                   // 기본 단가
	NegotiatedRate   *int64   `json:"negotiatedRate,omitempty"`   // 협의 단가
	Quantity         *float64 `json:"quantity,omitempty"`         // 수량 (kg 등 소수 가능)
	Unit             string   `json:"unit,omitempty"`             // 단위
	AdditionalAmount *int64   `json:"additionalAmount,omitempty"` // 기타 추가 금액
}

// EffectiveRate 협의 단가가 있으면 협의 단가, 없으면 기본 단가
func (r RateInfo) EffectiveRate() int64 {
	if r.NegotiatedRate != nil {
		return *r.NegotiatedRate
	}
	return r.BaseRate
}

// TransportInfo 운송 작업 부가 정보
type TransportInfo struct {
	VehicleNumber string   `json:"vehicleNumber,omitempty"`
	Origin        string   `json:"origin,omitempty"`
	Destination   string   `json:"destination,omitempty"`
	DistanceKm    *float64 `json:"distanceKm,omitempty"`
	Trips         int      `json:"trips,omitempty"`
}

// AdditionalSettlement 작업 이후 추가된 정산 항목 (추가만 가능)
type AdditionalSettlement struct {
	ID         string    `json:"id"`
	Amount     int64     `json:"amount"`
	Reason     string    `json:"reason,omitempty"`
	Date       time.Time `json:"date"`
	CategoryID string    `json:"categoryId,omitempty"`
	By         string    `json:"by"`
}

// CompletionDetails 작업 완료 후 측정값
type CompletionDetails struct {
	Quantity   float64                `json:"quantity"`
	Unit       string                 `json:"unit"`
	WorkPrice  int64                  `json:"workPrice"`
	Extra      map[string]interface{} `json:"extra,omitempty"` // 작업 종류별 추가 항목 (박스 수, 차량 대수 등)
	Notes      string                 `json:"notes,omitempty"`
	RecordedAt time.Time              `json:"recordedAt"`
	RecordedBy string                 `json:"recordedBy"`
}

// Schedule 작업 배정 한 건
type Schedule struct {
	ID                    string                 `json:"id"`
	WorkType              WorkType               `json:"workType"`
	FieldID               string                 `json:"fieldId,omitempty"`
	FarmerID              string                 `json:"farmerId,omitempty"`
	WorkerID              string                 `json:"workerId,omitempty"`
	Stage                 StageState             `json:"stage"`
	Scheduled             TimeWindow             `json:"scheduled"`
	Actual                *TimeWindow            `json:"actual,omitempty"`
	Rate                  RateInfo               `json:"rateInfo"`
	Transport             *TransportInfo         `json:"transport,omitempty"`
	AdditionalSettlements []AdditionalSettlement `json:"additionalSettlements,omitempty"`
	Completion            *CompletionDetails     `json:"completion,omitempty"`
	PaymentStatus         SchedulePaymentStatus  `json:"paymentStatus"`
	PaymentID             *string                `json:"paymentId"`
	Notes                 string                 `json:"notes,omitempty"`
	Audit
}

// SettlementTotal = 적용 단가 × 수량 + 추가 정산 합계 + 기타 추가 금액.
// 수량이 없으면 1로 본다. 소수 수량은 원 단위로 반올림한다.
func (s *Schedule) SettlementTotal() int64 {
	quantity := decimal.NewFromInt(1)
	if s.Rate.Quantity != nil {
		quantity = decimal.NewFromFloat(*s.Rate.Quantity)
	}
	total := decimal.NewFromInt(s.Rate.EffectiveRate()).Mul(quantity).Round(0)
	for _, a := range s.AdditionalSettlements {
		total = total.Add(decimal.NewFromInt(a.Amount))
	}
	if s.Rate.AdditionalAmount != nil {
		total = total.Add(decimal.NewFromInt(*s.Rate.AdditionalAmount))
	}
	return total.IntPart()
}

func (s *Schedule) IsTerminal() bool {
	return s.Stage.Current.IsTerminal()
}
