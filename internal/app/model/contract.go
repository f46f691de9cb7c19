package model

import (
	"sort"
	"strconv"
	"time"
)

type ContractStatus string // 계약 상태
type LineStatus string     // 지급 항목 상태
type LineKind string       // 지급 항목 구분

const (
	ContractPending   ContractStatus = "pending"
	ContractActive    ContractStatus = "active"
	ContractCompleted ContractStatus = "completed"
	ContractCancelled ContractStatus = "cancelled"

	LineUnpaid    LineStatus = "unpaid"
	LineScheduled LineStatus = "scheduled"
	LinePaid      LineStatus = "paid"

	LineDown         LineKind = "down"         // 계약금
	LineIntermediate LineKind = "intermediate" // 중도금
	LineFinal        LineKind = "final"        // 잔금
)

func (s ContractStatus) Valid() bool {
	switch s {
	case ContractPending, ContractActive, ContractCompleted, ContractCancelled:
		return true
	}
	return false
}

// PaymentLine 계약금/중도금/잔금 한 줄
type PaymentLine struct {
	Amount     int64      `json:"amount"`
	DueDate    *time.Time `json:"dueDate,omitempty"`
	Status     LineStatus `json:"status"`
	PaidDate   *time.Time `json:"paidDate,omitempty"`
	PaidAmount *int64     `json:"paidAmount,omitempty"` // 실제 지급액 (부분/조정 지급 시 amount 와 다를 수 있음)
	ReceiptRef string     `json:"receiptRef,omitempty"`
}

// IntermediatePayment 회차 번호가 붙은 중도금
type IntermediatePayment struct {
	Installment int `json:"installment"`
	PaymentLine
}

type HarvestPeriod struct {
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
}

// ContractDetails 계약 세부 조건
type ContractDetails struct {
	HarvestPeriod     HarvestPeriod `json:"harvestPeriod"`
	UnitPrice         int64         `json:"unitPrice"`
	UnitType          string        `json:"unitType,omitempty"`
	EstimatedQuantity float64       `json:"estimatedQuantity"`
	Terms             string        `json:"terms,omitempty"`
}

// Contract 농가와의 계약. 계약 상태는 지급 항목 상태와 별개로 관리된다.
type Contract struct {
	ID                   string                `json:"id"`
	FarmerID             string                `json:"farmerId"`
	FieldIDs             []string              `json:"fieldIds"`
	ContractNumber       string                `json:"contractNumber"`
	ContractDate         time.Time             `json:"contractDate"`
	Type                 string                `json:"type,omitempty"`
	Status               ContractStatus        `json:"status"`
	TotalAmount          int64                 `json:"totalAmount"`
	DownPayment          PaymentLine           `json:"downPayment"`
	IntermediatePayments []IntermediatePayment `json:"intermediatePayments"`
	FinalPayment         PaymentLine           `json:"finalPayment"`
	Details              ContractDetails       `json:"contractDetails"`
	Audit
}

// LineRef 지급 항목 지정. Installment 는 중도금에서만 쓴다.
type LineRef struct {
	Kind        LineKind `json:"kind"`
	Installment int      `json:"installment,omitempty"`
}

func (r LineRef) String() string {
	if r.Kind == LineIntermediate {
		return string(r.Kind) + "#" + strconv.Itoa(r.Installment)
	}
	return string(r.Kind)
}

// PaidInfo markLinePaid 입력
type PaidInfo struct {
	PaidDate   time.Time
	PaidAmount *int64
	ReceiptRef string
}

// DueLine nextDuePayment 결과
type DueLine struct {
	Ref  LineRef     `json:"ref"`
	Line PaymentLine `json:"line"`
}

// Line resolves a reference to a pointer into the contract.
func (c *Contract) Line(ref LineRef) (*PaymentLine, error) {
	switch ref.Kind {
	case LineDown:
		return &c.DownPayment, nil
	case LineFinal:
		return &c.FinalPayment, nil
	case LineIntermediate:
		for i := range c.IntermediatePayments {
			if c.IntermediatePayments[i].Installment == ref.Installment {
				return &c.IntermediatePayments[i].PaymentLine, nil
			}
		}
		return nil, NewNotFoundError("payment line", c.ID+"/"+ref.String())
	default:
		return nil, NewValidationError("kind", "지급 항목 구분이 올바르지 않습니다")
	}
}

// orderedLines yields down, intermediates by installment number, final.
func (c *Contract) orderedLines() []DueLine {
	inter := make([]IntermediatePayment, len(c.IntermediatePayments))
	copy(inter, c.IntermediatePayments)
	sort.SliceStable(inter, func(i, j int) bool { return inter[i].Installment < inter[j].Installment })

	lines := make([]DueLine, 0, len(inter)+2)
	lines = append(lines, DueLine{Ref: LineRef{Kind: LineDown}, Line: c.DownPayment})
	for _, p := range inter {
		lines = append(lines, DueLine{Ref: LineRef{Kind: LineIntermediate, Installment: p.Installment}, Line: p.PaymentLine})
	}
	return append(lines, DueLine{Ref: LineRef{Kind: LineFinal}, Line: c.FinalPayment})
}

// PaidToDate sums the nominal amount of every paid line. PaidAmount is
// intentionally not used here.
func (c *Contract) PaidToDate() int64 {
	var sum int64
	for _, l := range c.orderedLines() {
		if l.Line.Status == LinePaid {
			sum += l.Line.Amount
		}
	}
	return sum
}

// Outstanding may be negative when paid lines exceed the total.
func (c *Contract) Outstanding() int64 {
	return c.TotalAmount - c.PaidToDate()
}

// MarkLinePaid sets the line to paid with its metadata. No check against
// TotalAmount is made.
func (c *Contract) MarkLinePaid(ref LineRef, info PaidInfo) error {
	line, err := c.Line(ref)
	if err != nil {
		return err
	}
	paidDate := info.PaidDate
	line.Status = LinePaid
	line.PaidDate = &paidDate
	line.PaidAmount = info.PaidAmount
	if info.ReceiptRef != "" {
		line.ReceiptRef = info.ReceiptRef
	}
	return nil
}

// MarkLineScheduled moves an unpaid line to scheduled.
func (c *Contract) MarkLineScheduled(ref LineRef, dueDate *time.Time) error {
	line, err := c.Line(ref)
	if err != nil {
		return err
	}
	if line.Status != LineUnpaid {
		return &InvalidTransitionError{Entity: "payment line", From: string(line.Status), To: string(LineScheduled)}
	}
	line.Status = LineScheduled
	if dueDate != nil {
		d := *dueDate
		line.DueDate = &d
	}
	return nil
}

// NextDuePayment returns the first line not yet paid, in order down →
// intermediate (by installment) → final. A completed contract has none.
func (c *Contract) NextDuePayment() (DueLine, bool) {
	if c.Status == ContractCompleted {
		return DueLine{}, false
	}
	for _, l := range c.orderedLines() {
		if l.Line.Status != LinePaid {
			return l, true
		}
	}
	return DueLine{}, false
}

// StatusMismatch flags a contract whose status disagrees with its lines:
// completed with an unpaid line, or every line paid while still pending/active.
func (c *Contract) StatusMismatch() bool {
	allPaid := true
	for _, l := range c.orderedLines() {
		if l.Line.Status != LinePaid {
			allPaid = false
			break
		}
	}
	switch c.Status {
	case ContractCompleted:
		return !allPaid
	case ContractPending, ContractActive:
		return allPaid
	}
	return false
}
