package errors

// 에러 코드 상수 정의
// 형식: CATEGORY_SPECIFIC_DETAIL
// 프론트엔드에서 이 코드를 기반으로 메시지를 매핑함

const (
	// ==================== 인증 (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // 로그인 필요
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // 잘못된 이메일/비밀번호
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"       // 토큰 만료
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"       // 잘못된 토큰
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"       // 토큰 폐기됨
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"        // 이메일 중복

	// ==================== 인가/권한 (AUTHZ_) ====================
	AuthzForbidden = "AUTHZ_FORBIDDEN"  // 접근 권한 없음
	AuthzAdminOnly = "AUTHZ_ADMIN_ONLY" // 관리자만 가능

	// ==================== 검증 (VALIDATION_) ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT" // 잘못된 입력
	ValidationInvalidID    = "VALIDATION_INVALID_ID"    // 잘못된 ID
	ValidationRequired     = "VALIDATION_REQUIRED"      // 필수 항목

	// ==================== 리소스 (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"      // 리소스 없음
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS" // 이미 존재
	ResourceConflict      = "RESOURCE_CONFLICT"       // 충돌

	// ==================== 작업 분류 (CATEGORY_) ====================
	CategoryNotFound = "CATEGORY_NOT_FOUND" // 작업 분류 없음
	RateNotFound     = "RATE_NOT_FOUND"     // 단가 없음

	// ==================== 작업 일정 (SCHEDULE_) ====================
	ScheduleNotFound          = "SCHEDULE_NOT_FOUND"          // 일정 없음
	ScheduleInvalidTransition = "SCHEDULE_INVALID_TRANSITION" // 허용되지 않은 단계 이동

	// ==================== 계약 (CONTRACT_) ====================
	ContractNotFound    = "CONTRACT_NOT_FOUND"    // 계약 없음
	ContractLineInvalid = "CONTRACT_LINE_INVALID" // 잘못된 지급 회차 상태 변경

	// ==================== 정산 (PAYMENT_) ====================
	PaymentNotFound          = "PAYMENT_NOT_FOUND"          // 정산 없음
	PaymentInvalidTransition = "PAYMENT_INVALID_TRANSITION" // 되돌릴 수 없는 정산 상태

	// ==================== 업로드 (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE" // 잘못된 파일 형식
	UploadFailed          = "UPLOAD_FAILED"            // 업로드 실패

	// ==================== 내부 오류 (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"   // 서버 오류
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR" // DB 오류
	InternalConfigError   = "INTERNAL_CONFIG_ERROR"   // 설정 오류
)
