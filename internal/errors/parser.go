package errors

import (
	"errors"
	"strings"

	"github.com/park1112/next-snp-management-sub002/internal/app/model"
	"gorm.io/gorm"
)

// ErrorInfo 에러 정보 구조
type ErrorInfo struct {
	Status  int    // HTTP 상태 코드
	Code    string // 에러 코드 (codes.go 참조)
	Message string // 사용자 친화적 메시지
	Field   string // 검증 오류가 난 필드
}

// ParseError 도메인 오류를 응답 코드와 메시지로 변환한다.
// 저장소 오류의 원인 문자열은 노출하지 않는다.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{Status: 500, Code: InternalServerError, Message: "서버 오류가 발생했습니다"}
	}

	var validation *model.ValidationError
	if errors.As(err, &validation) {
		return ErrorInfo{Status: 400, Code: ValidationInvalidInput, Message: validation.Message, Field: validation.Field}
	}

	var notFound *model.NotFoundError
	if errors.As(err, &notFound) {
		return ErrorInfo{Status: 404, Code: notFoundCode(notFound.Entity), Message: notFoundMessage(notFound.Entity)}
	}

	var transition *model.InvalidTransitionError
	if errors.As(err, &transition) {
		return ErrorInfo{
			Status:  409,
			Code:    transitionCode(transition.Entity),
			Message: "'" + transition.From + "' 상태에서 '" + transition.To + "'(으)로 변경할 수 없습니다",
		}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{Status: 404, Code: ResourceNotFound, Message: notFoundMessage(context)}
	}

	if errors.Is(err, model.ErrStore) {
		return ErrorInfo{Status: 500, Code: InternalDatabaseError, Message: defaultErrorMessage(context)}
	}

	errLower := strings.ToLower(err.Error())
	if strings.Contains(errLower, "duplicate key") || strings.Contains(errLower, "unique constraint") {
		if strings.Contains(errLower, "email") {
			return ErrorInfo{Status: 409, Code: AuthEmailAlreadyExists, Message: "이미 사용 중인 이메일입니다"}
		}
		return ErrorInfo{Status: 409, Code: ResourceAlreadyExists, Message: "이미 존재하는 데이터입니다"}
	}

	return ErrorInfo{Status: 500, Code: InternalServerError, Message: defaultErrorMessage(context)}
}

func notFoundCode(entity string) string {
	switch entity {
	case "category":
		return CategoryNotFound
	case "rate":
		return RateNotFound
	case "schedule":
		return ScheduleNotFound
	case "contract":
		return ContractNotFound
	case "payment":
		return PaymentNotFound
	default:
		return ResourceNotFound
	}
}

func transitionCode(entity string) string {
	switch entity {
	case "schedule":
		return ScheduleInvalidTransition
	case "payment":
		return PaymentInvalidTransition
	case "payment line":
		return ContractLineInvalid
	default:
		return ResourceConflict
	}
}

// notFoundMessage 엔티티 이름에 따른 Not Found 메시지
func notFoundMessage(entity string) string {
	lower := strings.ToLower(entity)

	switch {
	case strings.Contains(lower, "category"):
		return "작업 분류를 찾을 수 없습니다"
	case strings.Contains(lower, "rate"):
		return "단가를 찾을 수 없습니다"
	case strings.Contains(lower, "schedule"):
		return "작업 일정을 찾을 수 없습니다"
	case strings.Contains(lower, "contract"):
		return "계약을 찾을 수 없습니다"
	case strings.Contains(lower, "payment"):
		return "정산 내역을 찾을 수 없습니다"
	case strings.Contains(lower, "farmer"):
		return "농가를 찾을 수 없습니다"
	case strings.Contains(lower, "field"):
		return "농지를 찾을 수 없습니다"
	case strings.Contains(lower, "worker"):
		return "작업자를 찾을 수 없습니다"
	case strings.Contains(lower, "user"):
		return "사용자를 찾을 수 없습니다"
	}
	return "요청한 데이터를 찾을 수 없습니다"
}

// defaultErrorMessage 작업 이름에 따른 기본 에러 메시지
func defaultErrorMessage(context string) string {
	lower := strings.ToLower(context)

	switch {
	case strings.Contains(lower, "create"):
		return "등록 중 오류가 발생했습니다. 잠시 후 다시 시도해주세요"
	case strings.Contains(lower, "update"):
		return "수정 중 오류가 발생했습니다. 잠시 후 다시 시도해주세요"
	case strings.Contains(lower, "delete"):
		return "삭제 중 오류가 발생했습니다. 잠시 후 다시 시도해주세요"
	}
	return "서버 오류가 발생했습니다. 잠시 후 다시 시도해주세요"
}
