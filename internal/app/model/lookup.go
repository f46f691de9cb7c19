package model

type LookupKind string // 단순 조회용 코드 종류

const (
	LookupPaymentGroup LookupKind = "paymentGroup"
	LookupCropType     LookupKind = "cropType"
	LookupWorkType     LookupKind = "workType"
)

// Collection maps a lookup kind to its document collection.
func (k LookupKind) Collection() (string, bool) {
	switch k {
	case LookupPaymentGroup:
		return CollectionPaymentGroups, true
	case LookupCropType:
		return CollectionCropTypes, true
	case LookupWorkType:
		return CollectionWorkTypes, true
	}
	return "", false
}

// Lookup PaymentGroup / CropType / WorkType 공통 구조
type Lookup struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Audit
}
