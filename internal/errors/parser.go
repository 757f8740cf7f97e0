package errors

import (
	"errors"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// PostgreSQL SQLSTATE
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
	pgCheckViolation      = "23514"
)

// ErrorInfo 에러 정보 구조
type ErrorInfo struct {
	Status  int    // HTTP 상태 코드
	Code    string // 에러 코드 (codes.go 참조)
	Message string // 사용자 친화적 메시지
}

// ParseError 서비스 sentinel 로 분류되지 않은 에러를 응답용 정보로 변환
// DB 제약 조건 위반은 클라이언트 오류로, 나머지는 내부 오류로 취급하며 상세 내용은 숨긴다
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return internal(context)
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{Status: http.StatusNotFound, Code: ResourceNotFound, Message: notFoundMessage(context)}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return duplicateKey(pgErr.ConstraintName + " " + pgErr.Detail)
		case pgForeignKeyViolation:
			return ErrorInfo{Status: http.StatusBadRequest, Code: ResourceConflict, Message: "Referenced data does not exist or is still in use"}
		case pgNotNullViolation:
			return ErrorInfo{Status: http.StatusBadRequest, Code: ValidationRequired, Message: "A required field is missing"}
		case pgCheckViolation:
			return ErrorInfo{Status: http.StatusBadRequest, Code: ValidationInvalidInput, Message: "Input value is out of range"}
		}
		return internal(context)
	}

	// 드라이버 에러 문자열 (sqlite 등)
	lower := strings.ToLower(err.Error())
	switch {
	case strings.Contains(lower, "unique constraint") || strings.Contains(lower, "duplicate key"):
		return duplicateKey(lower)
	case strings.Contains(lower, "foreign key constraint"):
		return ErrorInfo{Status: http.StatusBadRequest, Code: ResourceConflict, Message: "Referenced data does not exist or is still in use"}
	case strings.Contains(lower, "connection refused") || strings.Contains(lower, "timeout"):
		return ErrorInfo{Status: http.StatusInternalServerError, Code: InternalDatabaseError, Message: "Storage is temporarily unavailable, please try again later"}
	}

	return internal(context)
}

func duplicateKey(detail string) ErrorInfo {
	detail = strings.ToLower(detail)
	switch {
	case strings.Contains(detail, "email"):
		return ErrorInfo{Status: http.StatusBadRequest, Code: AuthEmailAlreadyExists, Message: "Email is already in use"}
	case strings.Contains(detail, "username"):
		return ErrorInfo{Status: http.StatusBadRequest, Code: AuthUsernameExists, Message: "Username is already in use"}
	case strings.Contains(detail, "phone"):
		return ErrorInfo{Status: http.StatusBadRequest, Code: AuthPhoneExists, Message: "Phone number is already in use"}
	case strings.Contains(detail, "owner_id"):
		return ErrorInfo{Status: http.StatusBadRequest, Code: StoreAlreadyExists, Message: "Vendor already owns a store"}
	}
	return ErrorInfo{Status: http.StatusBadRequest, Code: ResourceAlreadyExists, Message: "Data already exists"}
}

func internal(context string) ErrorInfo {
	return ErrorInfo{Status: http.StatusInternalServerError, Code: InternalServerError, Message: defaultMessage(context)}
}

func notFoundMessage(context string) string {
	lower := strings.ToLower(context)
	for _, resource := range []string{"store", "item", "order", "comment", "user"} {
		if strings.Contains(lower, resource) {
			return strings.ToUpper(resource[:1]) + resource[1:] + " not found"
		}
	}
	return "Requested data not found"
}

func defaultMessage(context string) string {
	lower := strings.ToLower(context)
	switch {
	case strings.Contains(lower, "create"):
		return "Failed to create, please try again later"
	case strings.Contains(lower, "update"):
		return "Failed to update, please try again later"
	case strings.Contains(lower, "delete"):
		return "Failed to delete, please try again later"
	}
	return "Internal server error, please try again later"
}

// ParseAndRespond 에러를 파싱하여 응답 반환 (controller 헬퍼)
func ParseAndRespond(c interface{ JSON(int, interface{}) }, err error, context string) {
	info := ParseError(err, context)
	c.JSON(info.Status, ErrorResponse{
		Error:   info.Code,
		Message: info.Message,
	})
}
