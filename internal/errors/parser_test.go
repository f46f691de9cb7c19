package errors

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/park1112/next-snp-management-sub002/internal/app/model"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestParseError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		context    string
		wantStatus int
		wantCode   string
		wantField  string
	}{
		{
			name:       "Validation",
			err:        model.NewValidationError("name", "이름을 입력해주세요"),
			wantStatus: http.StatusBadRequest,
			wantCode:   ValidationInvalidInput,
			wantField:  "name",
		},
		{
			name:       "Not found category",
			err:        model.NewNotFoundError("category", "c1"),
			wantStatus: http.StatusNotFound,
			wantCode:   CategoryNotFound,
		},
		{
			name:       "Wrapped not found",
			err:        fmt.Errorf("load: %w", model.NewNotFoundError("payment", "p1")),
			wantStatus: http.StatusNotFound,
			wantCode:   PaymentNotFound,
		},
		{
			name:       "Schedule transition",
			err:        &model.InvalidTransitionError{Entity: "schedule", From: "완료", To: "예정"},
			wantStatus: http.StatusConflict,
			wantCode:   ScheduleInvalidTransition,
		},
		{
			name:       "Store failure",
			err:        &model.StoreError{Op: "update schedules", Err: fmt.Errorf("permission denied")},
			context:    "update schedule",
			wantStatus: http.StatusInternalServerError,
			wantCode:   InternalDatabaseError,
		},
		{
			name:       "Gorm not found",
			err:        gorm.ErrRecordNotFound,
			context:    "user",
			wantStatus: http.StatusNotFound,
			wantCode:   ResourceNotFound,
		},
		{
			name:       "Unknown",
			err:        fmt.Errorf("boom"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   InternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := ParseError(tt.err, tt.context)
			assert.Equal(t, tt.wantStatus, info.Status)
			assert.Equal(t, tt.wantCode, info.Code)
			assert.Equal(t, tt.wantField, info.Field)
			assert.NotEmpty(t, info.Message)
		})
	}
}

func TestParseError_HidesStoreCause(t *testing.T) {
	info := ParseError(&model.StoreError{Op: "remove categories", Err: fmt.Errorf("secret dsn")}, "delete category")
	assert.NotContains(t, info.Message, "secret")
	assert.Contains(t, info.Message, "삭제")
}

func TestRespond(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Respond(c, model.NewValidationError("amount", "정산 금액은 0보다 커야 합니다"), "create payment")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"fields":{"amount"`)
}
