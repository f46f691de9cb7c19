package excel

import (
	"bytes"
	"testing"
	"time"

	"github.com/park1112/next-snp-management-sub002/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestGenerator_Generate(t *testing.T) {
	date := time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC)
	st := Statement{
		Payment: model.Payment{
			ID:           "p1",
			ReceiverName: "이반장",
			ReceiverType: model.ReceiverForeman,
			Amount:       330000,
			Method:       model.MethodBank,
			Status:       model.PaymentPending,
			Bank:         &model.BankInfo{BankName: "농협", AccountNumber: "302-01", AccountHolder: "이반장"},
			PaymentDate:  date,
		},
		Lines: []StatementLine{
			{ScheduleID: "s1", FarmerName: "김농부", Detail: model.ScheduleDetail{WorkType: model.WorkPulling, ScheduledDate: date, Stage: model.StageCompleted, Amount: 150000}},
			{ScheduleID: "s2", Detail: model.ScheduleDetail{WorkType: model.WorkTransport, FieldID: "field-9", ScheduledDate: date, Stage: model.StageCompleted, Amount: 180000}},
		},
	}

	data, err := NewGenerator().Generate(st)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	get := func(cell string) string {
		v, err := f.GetCellValue(statementSheet, cell)
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, "이반장", get("B3"))
	assert.Equal(t, "반장", get("B4"))
	assert.Equal(t, "2026-10-05", get("B5"))
	assert.Equal(t, "뽑기", get("B11"))
	assert.Equal(t, "김농부", get("C11"))
	assert.Equal(t, "운송", get("B12"))
	assert.Equal(t, "field-9", get("D12"))
	assert.Equal(t, "330000", get("F14"))
	assert.Equal(t, "330000", get("F15"))
}

func TestFileName(t *testing.T) {
	p := model.Payment{ID: "abc", PaymentDate: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)}
	assert.Equal(t, "settlement_20260102_abc.xlsx", FileName(p))
}
