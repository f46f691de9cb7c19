package model

// Farmer 농가
type Farmer struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Phone          string    `json:"phone,omitempty"`
	Address        string    `json:"address,omitempty"`
	PaymentGroupID string    `json:"paymentGroupId,omitempty"` // 지급 그룹
	Bank           *BankInfo `json:"bankInfo,omitempty"`
	Memo           string    `json:"memo,omitempty"`
	Audit
}

// Field 농지
type Field struct {
	ID         string  `json:"id"`
	FarmerID   string  `json:"farmerId"`
	Name       string  `json:"name"`
	Address    string  `json:"address,omitempty"`
	AreaPyeong float64 `json:"areaPyeong,omitempty"` // 면적 (평)
	CropTypeID string  `json:"cropTypeId,omitempty"`
	Memo       string  `json:"memo,omitempty"`
	Audit
}

// Worker 반장 또는 기사
type Worker struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Type          ReceiverType `json:"type"`
	Phone         string       `json:"phone,omitempty"`
	VehicleNumber string       `json:"vehicleNumber,omitempty"` // 기사 차량 번호
	Bank          *BankInfo    `json:"bankInfo,omitempty"`
	Memo          string       `json:"memo,omitempty"`
	Audit
}
