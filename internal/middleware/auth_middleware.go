package middleware

import (
	"context"
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/canteen-backend/internal/app/model"
	"github.com/ikkim/canteen-backend/internal/errors"
	"github.com/ikkim/canteen-backend/pkg/util"
	"gorm.io/gorm"
)

// Context keys for user information
const (
	UserIDKey      = "user_id"
	UserEmailKey   = "user_email"
	UserRoleKey    = "user_role"
	AccessTokenKey = "access_token"
	ClaimsKey      = "token_claims"
)

// TokenRevocationChecker 로그아웃된 토큰 조회 (Redis 블랙리스트)
type TokenRevocationChecker interface {
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// UserLookup 토큰의 사용자 ID 로 현재 계정 조회 (repository.UserRepository 가 구현)
type UserLookup interface {
	FindByID(id uint) (*model.User, error)
}

type AuthMiddleware struct {
	jwtSecret string
	users     UserLookup
	revoked   TokenRevocationChecker
}

// NewAuthMiddleware revoked 가 nil 이면 블랙리스트 검사를 하지 않는다
func NewAuthMiddleware(jwtSecret string, users UserLookup, revoked TokenRevocationChecker) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSecret: jwtSecret,
		users:     users,
		revoked:   revoked,
	}
}

// authFailure 인증 실패 응답 정보
type authFailure struct {
	status  int
	code    string
	message string
}

// ExtractBearerToken "Bearer <token>" 형식의 헤더에서 토큰 추출
func ExtractBearerToken(header string) (string, bool) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// resolve 토큰을 검증하고 토큰 주체를 DB 에서 다시 조회한다.
// 권한은 토큰 발급 당시가 아니라 현재 저장된 값을 따른다.
func (m *AuthMiddleware) resolve(c *gin.Context, token string) (*util.Claims, *model.User, *authFailure) {
	claims, err := util.ValidateToken(token, m.jwtSecret)
	if err != nil {
		if stderrors.Is(err, util.ErrExpiredToken) {
			return nil, nil, &authFailure{http.StatusUnauthorized, errors.AuthTokenExpired, "Token has expired"}
		}
		return nil, nil, &authFailure{http.StatusUnauthorized, errors.AuthTokenInvalid, "Invalid or expired token"}
	}

	// refresh 토큰으로 API 호출 불가
	if claims.TokenType != util.TokenTypeAccess {
		return nil, nil, &authFailure{http.StatusUnauthorized, errors.AuthTokenInvalid, "Invalid or expired token"}
	}

	if m.revoked != nil {
		revoked, err := m.revoked.IsRevoked(c.Request.Context(), token)
		if err != nil {
			// 블랙리스트 저장소 장애 시 토큰 서명만으로 인증 (fail open)
			GetLoggerFromContext(c).Error("Failed to check token revocation", err, map[string]interface{}{
				"user_id": claims.UserID,
			})
		} else if revoked {
			return nil, nil, &authFailure{http.StatusUnauthorized, errors.AuthTokenRevoked, "Token has been revoked"}
		}
	}

	user, err := m.users.FindByID(claims.UserID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, &authFailure{http.StatusUnauthorized, errors.AuthUserNotFound, "User no longer exists"}
		}
		GetLoggerFromContext(c).Error("Failed to load token user", err, map[string]interface{}{
			"user_id": claims.UserID,
		})
		return nil, nil, &authFailure{http.StatusInternalServerError, errors.InternalServerError, "Internal server error"}
	}

	return claims, user, nil
}

func setIdentity(c *gin.Context, token string, claims *util.Claims, user *model.User) {
	c.Set(UserIDKey, user.ID)
	c.Set(UserEmailKey, user.Email)
	c.Set(UserRoleKey, user.Role)
	c.Set(AccessTokenKey, token)
	c.Set(ClaimsKey, claims)
}

// Authenticate validates JWT token (required)
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			log.Warn("Missing authorization header", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.Unauthorized(c, "Authorization header is required")
			c.Abort()
			return
		}

		token, ok := ExtractBearerToken(authHeader)
		if !ok {
			log.Warn("Invalid authorization header format", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenInvalid, "Authorization header must be Bearer token")
			c.Abort()
			return
		}

		claims, user, failure := m.resolve(c, token)
		if failure != nil {
			log.Warn("Token validation failed", map[string]interface{}{
				"path": c.Request.URL.Path,
				"code": failure.code,
			})
			errors.RespondWithError(c, failure.status, failure.code, failure.message)
			c.Abort()
			return
		}

		setIdentity(c, token, claims, user)

		log.Debug("User authenticated successfully", map[string]interface{}{
			"user_id": user.ID,
			"role":    user.Role,
		})

		c.Next()
	}
}

// OptionalAuthenticate validates JWT token if present (optional)
// - If token is present and valid: sets user info in context
// - If token is missing or invalid: continues as guest
func (m *AuthMiddleware) OptionalAuthenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		token, ok := ExtractBearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.Next()
			return
		}

		claims, user, failure := m.resolve(c, token)
		if failure != nil {
			log.Debug("Token validation failed - continuing as guest", map[string]interface{}{
				"path": c.Request.URL.Path,
				"code": failure.code,
			})
			c.Next()
			return
		}

		setIdentity(c, token, claims, user)
		c.Next()
	}
}

// RequireRole checks if user has one of the required roles
func (m *AuthMiddleware) RequireRole(roles ...model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		role, exists := GetUserRole(c)
		if !exists {
			log.Warn("Role information not found in context", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.RespondWithError(c, http.StatusForbidden, errors.AuthzRoleNotFound, "Role information not found")
			c.Abort()
			return
		}

		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}

		userID, _ := GetUserID(c)
		log.Warn("Insufficient permissions", map[string]interface{}{
			"user_id":        userID,
			"user_role":      role,
			"required_roles": roles,
			"path":           c.Request.URL.Path,
		})
		errors.Forbidden(c, "Insufficient permissions")
		c.Abort()
	}
}

// GetUserID extracts user ID from context
func GetUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := userID.(uint)
	return id, ok
}

// GetUserEmail extracts user email from context
func GetUserEmail(c *gin.Context) (string, bool) {
	email, exists := c.Get(UserEmailKey)
	if !exists {
		return "", false
	}
	s, ok := email.(string)
	return s, ok
}

// GetUserRole extracts user role from context
func GetUserRole(c *gin.Context) (model.UserRole, bool) {
	role, exists := c.Get(UserRoleKey)
	if !exists {
		return "", false
	}
	switch r := role.(type) {
	case model.UserRole:
		return r, true
	case string:
		return model.UserRole(r), true
	}
	return "", false
}

// GetAccessToken 인증에 사용된 access 토큰과 클레임 (로그아웃 시 폐기용)
func GetAccessToken(c *gin.Context) (string, *util.Claims, bool) {
	token := c.GetString(AccessTokenKey)
	raw, exists := c.Get(ClaimsKey)
	if token == "" || !exists {
		return "", nil, false
	}
	claims, ok := raw.(*util.Claims)
	return token, claims, ok
}
