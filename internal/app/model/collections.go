package model

import "time"

// 문서 저장소 컬렉션 이름
const (
	CollectionFarmers       = "farmers"
	CollectionFields        = "fields"
	CollectionContracts     = "contracts"
	CollectionWorkers       = "workers"
	CollectionSchedules     = "schedules"
	CollectionPayments      = "payments"
	CollectionCategories    = "categories"
	CollectionPaymentGroups = "paymentGroups"
	CollectionCropTypes     = "cropTypes"
	CollectionWorkTypes     = "workTypes"
)

// Audit 모든 문서에 공통으로 붙는 생성/수정 정보
type Audit struct {
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	CreatedBy string    `json:"createdBy,omitempty"`
}

// Stamp 생성 시각과 작성자를 기록한다
func (a *Audit) Stamp(now time.Time, actor string) {
	a.CreatedAt = now
	a.UpdatedAt = now
	a.CreatedBy = actor
}
