package service

import "errors"

// 공통
var (
	ErrForbidden = errors.New("permission denied")
)

// 인증/사용자
var (
	ErrInvalidCredentials      = errors.New("invalid username or password")
	ErrInvalidVerificationCode = errors.New("invalid or expired code")
	ErrVerificationSendFailed  = errors.New("failed to send verification code")
	ErrInvalidScene            = errors.New("invalid verification scene")
	ErrEmailAlreadyExists      = errors.New("email already exists")
	ErrUsernameAlreadyExists   = errors.New("username already exists")
	ErrPhoneAlreadyExists      = errors.New("phone already exists")
	ErrEmailNotRegistered      = errors.New("email not registered")
	ErrUserNotFound            = errors.New("user not found")
	ErrInvalidRole             = errors.New("invalid user type")
	ErrAdminRegistration       = errors.New("admin accounts cannot be registered")
	ErrWeakPassword            = errors.New("password must be at least 6 characters")
	ErrWrongPassword           = errors.New("old password is incorrect")
	ErrInvalidRefreshToken     = errors.New("invalid refresh token")
	ErrInvalidEmail            = errors.New("invalid email")
	ErrInvalidUsername         = errors.New("username must not be empty")
)

// 매장/메뉴
var (
	ErrStoreNotFound      = errors.New("store not found")
	ErrStoreAlreadyExists = errors.New("vendor already owns a store")
	ErrStoreNotApproved   = errors.New("store is not approved")
	ErrInvalidState       = errors.New("invalid state")
	ErrItemNotFound       = errors.New("item not found")
	ErrInvalidPrice       = errors.New("price must be greater than 0")
	ErrInvalidQuantity    = errors.New("quantity must not be negative")
)

// 주문
var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrEmptyOrder        = errors.New("order must contain at least one item")
	ErrInvalidOrderQty   = errors.New("order quantity must be greater than 0")
	ErrItemStoreMismatch = errors.New("item does not belong to the store")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidTransition = errors.New("invalid order state transition")
	ErrOrderNotDeletable = errors.New("only pending orders can be deleted")
)

// 리뷰
var (
	ErrCommentNotFound = errors.New("comment not found")
	ErrEmptyContent    = errors.New("content must not be empty")
)
