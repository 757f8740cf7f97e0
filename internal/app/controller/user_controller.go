package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/canteen-backend/internal/app/model"
	"github.com/ikkim/canteen-backend/internal/app/repository"
	"github.com/ikkim/canteen-backend/internal/app/service"
	apperrors "github.com/ikkim/canteen-backend/internal/errors"
	"github.com/ikkim/canteen-backend/internal/middleware"
)

type UserController struct {
	userService service.UserService
}

func NewUserController(userService service.UserService) *UserController {
	return &UserController{
		userService: userService,
	}
}

type UpdateUserRequest struct {
	Username *string         `json:"username" binding:"omitempty,min=1,max=100"`
	Email    *string         `json:"email" binding:"omitempty,email"`
	Phone    *string         `json:"phone" binding:"omitempty,max=50"`
	UserType *model.UserRole `json:"user_type"`
}

// ListUsers 관리자용 사용자 목록
// GET /user?skip&limit&user_type&search
func (ctrl *UserController) ListUsers(c *gin.Context) {
	page, ok := bindPage(c)
	if !ok {
		return
	}

	filter := repository.UserFilter{
		Search: c.Query("search"),
		Page:   page,
	}
	if raw := c.Query("user_type"); raw != "" {
		role := model.UserRole(raw)
		if !role.Valid() {
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid user_type")
			return
		}
		filter.Role = &role
	}

	users, err := ctrl.userService.List(filter)
	if err != nil {
		respondServiceError(c, err, "list users")
		return
	}
	c.JSON(http.StatusOK, users)
}

// GET /user/:id
func (ctrl *UserController) GetUser(c *gin.Context) {
	id, ok := parseID(c, "id", "user")
	if !ok {
		return
	}

	user, err := ctrl.userService.Get(id)
	if err != nil {
		respondServiceError(c, err, "get user")
		return
	}
	c.JSON(http.StatusOK, user)
}

// PUT /user/:id
func (ctrl *UserController) UpdateUser(c *gin.Context) {
	id, ok := parseID(c, "id", "user")
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.InvalidInput(c)
		return
	}

	user, err := ctrl.userService.Update(id, service.AdminUserInput{
		ProfileInput: service.ProfileInput{
			Username: req.Username,
			Email:    req.Email,
			Phone:    req.Phone,
		},
		Role: req.UserType,
	})
	if err != nil {
		respondServiceError(c, err, "update user")
		return
	}
	c.JSON(http.StatusOK, user)
}

// DELETE /user/:id
func (ctrl *UserController) DeleteUser(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseID(c, "id", "user")
	if !ok {
		return
	}

	if err := ctrl.userService.Delete(id); err != nil {
		respondServiceError(c, err, "delete user")
		return
	}

	log.Info("User deleted by admin", map[string]interface{}{
		"user_id": id,
	})
	c.JSON(http.StatusOK, gin.H{
		"message": "User deleted",
	})
}

// DeleteMe 본인 계정 탈퇴
// DELETE /user/me
func (ctrl *UserController) DeleteMe(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	if err := ctrl.userService.DeleteSelf(userID); err != nil {
		respondServiceError(c, err, "delete account")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Account deleted",
	})
}
