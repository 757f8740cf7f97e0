package errors

// 에러 코드 상수 정의
// 형식: CATEGORY_SPECIFIC_DETAIL
// 프론트엔드에서 이 코드를 기반으로 메시지를 매핑함

const (
	// ==================== 인증 (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"         // 로그인 필요
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS"  // 잘못된 계정/비밀번호
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"        // 토큰 만료
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"        // 잘못된 토큰
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"        // 토큰 폐기됨
	AuthUserNotFound       = "AUTH_USER_NOT_FOUND"       // 토큰 주체 계정 없음
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"         // 이메일 중복
	AuthUsernameExists     = "AUTH_USERNAME_EXISTS"      // 사용자명 중복
	AuthPhoneExists        = "AUTH_PHONE_EXISTS"         // 전화번호 중복
	AuthEmailNotRegistered = "AUTH_EMAIL_NOT_REGISTERED" // 가입되지 않은 이메일
	AuthCodeInvalid        = "AUTH_CODE_INVALID"         // 잘못되었거나 만료된 인증코드
	AuthCodeSendFailed     = "AUTH_CODE_SEND_FAILED"     // 인증 메일 발송 실패
	AuthWrongPassword      = "AUTH_WRONG_PASSWORD"       // 기존 비밀번호 불일치

	// ==================== 인가/권한 (AUTHZ_) ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"      // 접근 권한 없음
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND" // 권한 정보 없음
	AuthzOwnerOnly    = "AUTHZ_OWNER_ONLY"     // 소유자만 가능

	// ==================== 검증 (VALIDATION_) ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT" // 잘못된 입력
	ValidationInvalidID    = "VALIDATION_INVALID_ID"    // 잘못된 ID
	ValidationInvalidState = "VALIDATION_INVALID_STATE" // 잘못된 상태 값
	ValidationRequired     = "VALIDATION_REQUIRED"      // 필수 항목

	// ==================== 리소스 (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"      // 리소스 없음
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS" // 이미 존재
	ResourceConflict      = "RESOURCE_CONFLICT"       // 충돌

	// ==================== 사용자 (USER_) ====================
	UserNotFound = "USER_NOT_FOUND" // 사용자 없음

	// ==================== 매장 (STORE_) ====================
	StoreNotFound      = "STORE_NOT_FOUND"      // 매장 없음
	StoreAlreadyExists = "STORE_ALREADY_EXISTS" // 업체당 매장 1개
	StoreNotApproved   = "STORE_NOT_APPROVED"   // 심사 통과 전 매장

	// ==================== 메뉴 (ITEM_) ====================
	ItemNotFound          = "ITEM_NOT_FOUND"          // 메뉴 없음
	ItemStoreMismatch     = "ITEM_STORE_MISMATCH"     // 다른 매장의 메뉴
	ItemInsufficientStock = "ITEM_INSUFFICIENT_STOCK" // 재고 부족

	// ==================== 주문 (ORDER_) ====================
	OrderNotFound          = "ORDER_NOT_FOUND"          // 주문 없음
	OrderInvalidTransition = "ORDER_INVALID_TRANSITION" // 허용되지 않는 상태 변경
	OrderNotDeletable      = "ORDER_NOT_DELETABLE"      // 삭제 불가 상태

	// ==================== 리뷰 (COMMENT_) ====================
	CommentNotFound = "COMMENT_NOT_FOUND" // 리뷰 없음

	// ==================== 업로드 (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE" // 잘못된 파일 형식
	UploadInvalidFolder   = "UPLOAD_INVALID_FOLDER"    // 허용되지 않는 폴더
	UploadUnavailable     = "UPLOAD_UNAVAILABLE"       // 스토리지 미설정

	// ==================== 내부 오류 (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"   // 서버 오류
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR" // DB 오류
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"   // 외부 서비스 오류
)
