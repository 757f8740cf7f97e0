package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/canteen-backend/internal/app/model"
	"github.com/ikkim/canteen-backend/internal/app/service"
	apperrors "github.com/ikkim/canteen-backend/internal/errors"
	"github.com/ikkim/canteen-backend/internal/middleware"
)

type AuthController struct {
	authService         service.AuthService
	verificationService service.VerificationService
}

func NewAuthController(authService service.AuthService, verificationService service.VerificationService) *AuthController {
	return &AuthController{
		authService:         authService,
		verificationService: verificationService,
	}
}

type SendEmailCodeRequest struct {
	Email string                  `json:"email" binding:"required,email"`
	Scene model.VerificationScene `json:"scene" binding:"required"`
}

type RegisterRequest struct {
	Username         string         `json:"username" binding:"required,max=100"`
	Email            string         `json:"email" binding:"required,email"`
	Phone            string         `json:"phone" binding:"max=50"`
	Password         string         `json:"password" binding:"required,min=6"`
	UserType         model.UserRole `json:"user_type"`
	VerificationCode string         `json:"verification_code" binding:"required"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type EmailLoginRequest struct {
	Email            string `json:"email" binding:"required,email"`
	VerificationCode string `json:"verification_code" binding:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type ResetPasswordRequest struct {
	Email            string `json:"email" binding:"required,email"`
	VerificationCode string `json:"verification_code" binding:"required"`
	NewPassword      string `json:"new_password" binding:"required,min=6"`
}

type UpdateProfileRequest struct {
	Username *string `json:"username" binding:"omitempty,min=1,max=100"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Phone    *string `json:"phone" binding:"omitempty,max=50"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

// SendEmailCode 인증 코드 메일 발송
// POST /auth/send-email-code
func (ctrl *AuthController) SendEmailCode(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req SendEmailCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid send code request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.InvalidInput(c)
		return
	}

	if err := ctrl.verificationService.SendCode(req.Email, req.Scene); err != nil {
		respondServiceError(c, err, "send verification code")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Verification code sent",
	})
}

// Register
// POST /auth/register
func (ctrl *AuthController) Register(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid registration request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.InvalidInput(c)
		return
	}

	user, err := ctrl.authService.Register(service.RegisterInput{
		Username:         req.Username,
		Email:            req.Email,
		Phone:            req.Phone,
		Password:         req.Password,
		Role:             req.UserType,
		VerificationCode: req.VerificationCode,
	})
	if err != nil {
		respondServiceError(c, err, "register user")
		return
	}

	log.Info("User registered", map[string]interface{}{
		"user_id": user.ID,
	})
	c.JSON(http.StatusCreated, user)
}

// Login 사용자명, 이메일, 전화번호 중 하나와 비밀번호로 로그인
// POST /auth/login
func (ctrl *AuthController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid login request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.InvalidInput(c)
		return
	}

	_, tokens, err := ctrl.authService.Login(req.Username, req.Password)
	if err != nil {
		respondServiceError(c, err, "login")
		return
	}
	c.JSON(http.StatusOK, tokens)
}

// LoginWithEmail
// POST /auth/login/email
func (ctrl *AuthController) LoginWithEmail(c *gin.Context) {
	var req EmailLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.InvalidInput(c)
		return
	}

	_, tokens, err := ctrl.authService.LoginWithEmail(req.Email, req.VerificationCode)
	if err != nil {
		respondServiceError(c, err, "login with email")
		return
	}
	c.JSON(http.StatusOK, tokens)
}

// Refresh
// POST /auth/refresh
func (ctrl *AuthController) Refresh(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.InvalidInput(c)
		return
	}

	tokens, err := ctrl.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondServiceError(c, err, "refresh token")
		return
	}
	c.JSON(http.StatusOK, tokens)
}

// Logout 현재 access 토큰과 전달된 refresh 토큰을 만료 시까지 폐기
// POST /auth/logout
func (ctrl *AuthController) Logout(c *gin.Context) {
	var req LogoutRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			apperrors.InvalidInput(c)
			return
		}
	}

	token, claims, ok := middleware.GetAccessToken(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	if err := ctrl.authService.Logout(c.Request.Context(), token, claims, req.RefreshToken); err != nil {
		respondServiceError(c, err, "logout")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out",
	})
}

// ResetPassword
// POST /auth/reset-password
func (ctrl *AuthController) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.InvalidInput(c)
		return
	}

	if err := ctrl.authService.ResetPassword(req.Email, req.VerificationCode, req.NewPassword); err != nil {
		respondServiceError(c, err, "reset password")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Password has been reset",
	})
}

// GetMe
// GET /auth/me
func (ctrl *AuthController) GetMe(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	user, err := ctrl.authService.GetUserByID(userID)
	if err != nil {
		respondServiceError(c, err, "get current user")
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateMe
// PUT /auth/me
func (ctrl *AuthController) UpdateMe(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.InvalidInput(c)
		return
	}

	user, err := ctrl.authService.UpdateProfile(userID, service.ProfileInput{
		Username: req.Username,
		Email:    req.Email,
		Phone:    req.Phone,
	})
	if err != nil {
		respondServiceError(c, err, "update profile")
		return
	}
	c.JSON(http.StatusOK, user)
}

// ChangePassword
// PUT /auth/me/password
func (ctrl *AuthController) ChangePassword(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.InvalidInput(c)
		return
	}

	if err := ctrl.authService.ChangePassword(userID, req.OldPassword, req.NewPassword); err != nil {
		respondServiceError(c, err, "change password")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Password changed",
	})
}
