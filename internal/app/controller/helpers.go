package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/canteen-backend/internal/app/model"
	"github.com/ikkim/canteen-backend/internal/app/service"
	apperrors "github.com/ikkim/canteen-backend/internal/errors"
	"github.com/ikkim/canteen-backend/internal/middleware"
)

// BatchDeleteRequest 일괄 삭제 요청
type BatchDeleteRequest struct {
	IDs []uint `json:"ids" binding:"required,min=1"`
}

// parseID 경로 파라미터를 양의 정수 ID 로 변환. 실패하면 400 응답 후 false
func parseID(c *gin.Context, param, resource string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil || id == 0 {
		apperrors.InvalidID(c, resource)
		return 0, false
	}
	return uint(id), true
}

// bindPage skip/limit 쿼리 파싱
func bindPage(c *gin.Context) (model.PageQuery, bool) {
	var page model.PageQuery
	if err := c.ShouldBindQuery(&page); err != nil {
		apperrors.InvalidInput(c)
		return page, false
	}
	return page.Normalize(), true
}

// optionalUint 비어 있으면 nil
func optionalUint(c *gin.Context, key string) (*uint, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid "+key)
		return nil, false
	}
	id := uint(v)
	return &id, true
}

// currentActor 인증 미들웨어가 설정한 사용자 정보
func currentActor(c *gin.Context) (service.Actor, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return service.Actor{}, false
	}
	role, ok := middleware.GetUserRole(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return service.Actor{}, false
	}
	return service.Actor{UserID: userID, Role: role}, true
}

// optionalActor 비로그인 요청은 권한 없는 Actor 로 취급
func optionalActor(c *gin.Context) service.Actor {
	userID, _ := middleware.GetUserID(c)
	role, _ := middleware.GetUserRole(c)
	return service.Actor{UserID: userID, Role: role}
}

// respondServiceError 서비스 에러를 HTTP 응답으로 변환한다
func respondServiceError(c *gin.Context, err error, context string) {
	log := middleware.GetLoggerFromContext(c)

	switch {
	case errors.Is(err, service.ErrForbidden):
		apperrors.Forbidden(c, err.Error())

	case errors.Is(err, service.ErrInvalidCredentials):
		apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthInvalidCredentials, err.Error())
	case errors.Is(err, service.ErrInvalidRefreshToken):
		apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthTokenInvalid, err.Error())

	case errors.Is(err, service.ErrInvalidVerificationCode):
		apperrors.BadRequest(c, apperrors.AuthCodeInvalid, err.Error())
	case errors.Is(err, service.ErrEmailAlreadyExists):
		apperrors.BadRequest(c, apperrors.AuthEmailAlreadyExists, err.Error())
	case errors.Is(err, service.ErrUsernameAlreadyExists):
		apperrors.BadRequest(c, apperrors.AuthUsernameExists, err.Error())
	case errors.Is(err, service.ErrPhoneAlreadyExists):
		apperrors.BadRequest(c, apperrors.AuthPhoneExists, err.Error())
	case errors.Is(err, service.ErrWrongPassword):
		apperrors.BadRequest(c, apperrors.AuthWrongPassword, err.Error())
	case errors.Is(err, service.ErrStoreAlreadyExists):
		apperrors.BadRequest(c, apperrors.StoreAlreadyExists, err.Error())
	case errors.Is(err, service.ErrStoreNotApproved):
		apperrors.BadRequest(c, apperrors.StoreNotApproved, err.Error())
	case errors.Is(err, service.ErrItemStoreMismatch):
		apperrors.BadRequest(c, apperrors.ItemStoreMismatch, err.Error())
	case errors.Is(err, service.ErrInsufficientStock):
		apperrors.BadRequest(c, apperrors.ItemInsufficientStock, err.Error())
	case errors.Is(err, service.ErrInvalidTransition):
		apperrors.BadRequest(c, apperrors.OrderInvalidTransition, err.Error())
	case errors.Is(err, service.ErrOrderNotDeletable):
		apperrors.BadRequest(c, apperrors.OrderNotDeletable, err.Error())
	case errors.Is(err, service.ErrInvalidState):
		apperrors.BadRequest(c, apperrors.ValidationInvalidState, err.Error())
	case errors.Is(err, service.ErrInvalidScene),
		errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrAdminRegistration),
		errors.Is(err, service.ErrWeakPassword),
		errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrInvalidUsername),
		errors.Is(err, service.ErrInvalidPrice),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrEmptyOrder),
		errors.Is(err, service.ErrInvalidOrderQty),
		errors.Is(err, service.ErrEmptyContent):
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())

	case errors.Is(err, service.ErrEmailNotRegistered):
		apperrors.NotFound(c, apperrors.AuthEmailNotRegistered, err.Error())
	case errors.Is(err, service.ErrUserNotFound):
		apperrors.NotFound(c, apperrors.UserNotFound, err.Error())
	case errors.Is(err, service.ErrStoreNotFound):
		apperrors.NotFound(c, apperrors.StoreNotFound, err.Error())
	case errors.Is(err, service.ErrItemNotFound):
		apperrors.NotFound(c, apperrors.ItemNotFound, err.Error())
	case errors.Is(err, service.ErrOrderNotFound):
		apperrors.NotFound(c, apperrors.OrderNotFound, err.Error())
	case errors.Is(err, service.ErrCommentNotFound):
		apperrors.NotFound(c, apperrors.CommentNotFound, err.Error())

	case errors.Is(err, service.ErrVerificationSendFailed):
		log.Error("Verification mail delivery failed", err)
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.AuthCodeSendFailed, service.ErrVerificationSendFailed.Error())

	default:
		log.Error("Request failed", err, map[string]interface{}{
			"context": context,
		})
		apperrors.ParseAndRespond(c, err, context)
	}
}
