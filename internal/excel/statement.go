package excel

import (
	"fmt"
	"time"

	"github.com/park1112/next-snp-management-sub002/internal/app/model"
	"github.com/xuri/excelize/v2"
)

const statementSheet = "정산서"

// StatementLine 정산서 한 줄. 일정 요약과 이름 해석 결과를 담는다.
type StatementLine struct {
	ScheduleID string
	Detail     model.ScheduleDetail
	FarmerName string
	FieldName  string
}

type Statement struct {
	Payment model.Payment
	Lines   []StatementLine
}

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate renders the settlement statement as an xlsx workbook.
func (g *Generator) Generate(st Statement) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName("Sheet1", statementSheet); err != nil {
		return nil, err
	}

	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(statementSheet, cell, value)
	}

	p := st.Payment
	set("A1", "정산서")
	set("A3", "받는 사람")
	set("B3", p.ReceiverName)
	set("A4", "구분")
	set("B4", receiverLabel(p.ReceiverType))
	set("A5", "지급일")
	set("B5", formatDate(p.PaymentDate))
	set("A6", "지급 방법")
	set("B6", methodLabel(p.Method))
	set("A7", "상태")
	set("B7", string(p.Status))
	if p.Bank != nil {
		set("A8", "계좌")
		set("B8", fmt.Sprintf("%s %s (%s)", p.Bank.BankName, p.Bank.AccountNumber, p.Bank.AccountHolder))
	}

	tableRow := 10
	headers := []string{"작업일", "작업 종류", "농가", "농지", "단계", "금액"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, tableRow)
		set(cell, header)
	}

	var sum int64
	for i, line := range st.Lines {
		row := tableRow + 1 + i
		set(fmt.Sprintf("A%d", row), formatDate(line.Detail.ScheduledDate))
		set(fmt.Sprintf("B%d", row), line.Detail.WorkType.Label())
		set(fmt.Sprintf("C%d", row), orID(line.FarmerName, line.Detail.FarmerID))
		set(fmt.Sprintf("D%d", row), orID(line.FieldName, line.Detail.FieldID))
		set(fmt.Sprintf("E%d", row), string(line.Detail.Stage))
		set(fmt.Sprintf("F%d", row), line.Detail.Amount)
		sum += line.Detail.Amount
	}

	totalRow := tableRow + len(st.Lines) + 2
	set(fmt.Sprintf("E%d", totalRow), "작업 합계")
	set(fmt.Sprintf("F%d", totalRow), sum)
	set(fmt.Sprintf("E%d", totalRow+1), "지급액")
	set(fmt.Sprintf("F%d", totalRow+1), p.Amount)
	if p.Memo != "" {
		set(fmt.Sprintf("A%d", totalRow+3), "메모")
		set(fmt.Sprintf("B%d", totalRow+3), p.Memo)
	}

	_ = file.SetColWidth(statementSheet, "A", "A", 14)
	_ = file.SetColWidth(statementSheet, "B", "B", 28)
	_ = file.SetColWidth(statementSheet, "C", "D", 18)
	_ = file.SetColWidth(statementSheet, "E", "F", 14)

	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FileName 다운로드 파일 이름
func FileName(p model.Payment) string {
	return fmt.Sprintf("settlement_%s_%s.xlsx", p.PaymentDate.Format("20060102"), p.ID)
}

func receiverLabel(t model.ReceiverType) string {
	switch t {
	case model.ReceiverForeman:
		return "반장"
	case model.ReceiverDriver:
		return "기사"
	default:
		return string(t)
	}
}

func methodLabel(m model.PaymentMethod) string {
	switch m {
	case model.MethodBank:
		return "계좌이체"
	case model.MethodCash:
		return "현금"
	default:
		return "기타"
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02")
}

func orID(name, id string) string {
	if name != "" {
		return name
	}
	if id == "" {
		return "-"
	}
	return id
}
