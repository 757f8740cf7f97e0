package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ikkim/canteen-backend/internal/app/model"
	"github.com/ikkim/canteen-backend/internal/app/repository"
	"github.com/ikkim/canteen-backend/pkg/logger"
	"github.com/ikkim/canteen-backend/pkg/util"
	"gorm.io/gorm"
)

const minPasswordLength = 6

// TokenRevoker 로그아웃된 토큰 저장소 (Redis 미사용 시 nil)
type TokenRevoker interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

type RegisterInput struct {
	Username         string
	Email            string
	Phone            string
	Password         string
	Role             model.UserRole
	VerificationCode string
}

// ProfileInput nil 필드는 변경하지 않는다
type ProfileInput struct {
	Username *string
	Email    *string
	Phone    *string
}

type AuthService interface {
	Register(input RegisterInput) (*model.User, error)
	Login(identifier, password string) (*model.User, *util.TokenPair, error)
	LoginWithEmail(email, code string) (*model.User, *util.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*util.TokenPair, error)
	Logout(ctx context.Context, accessToken string, accessClaims *util.Claims, refreshToken string) error
	ResetPassword(email, code, newPassword string) error
	GetUserByID(id uint) (*model.User, error)
	UpdateProfile(userID uint, input ProfileInput) (*model.User, error)
	ChangePassword(userID uint, oldPassword, newPassword string) error
}

type authService struct {
	db            *gorm.DB
	userRepo      repository.UserRepository
	verification  VerificationService
	revoker       TokenRevoker
	jwtSecret     string
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

func NewAuthService(
	db *gorm.DB,
	userRepo repository.UserRepository,
	verification VerificationService,
	revoker TokenRevoker,
	jwtSecret string,
	accessExpiry, refreshExpiry time.Duration,
) AuthService {
	return &authService{
		db:            db,
		userRepo:      userRepo,
		verification:  verification,
		revoker:       revoker,
		jwtSecret:     jwtSecret,
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
	}
}

func (s *authService) Register(input RegisterInput) (*model.User, error) {
	email := util.NormalizeEmail(input.Email)
	username := strings.TrimSpace(input.Username)
	phone := strings.TrimSpace(input.Phone)

	logger.Info("Attempting user registration", map[string]interface{}{
		"email":    email,
		"username": username,
	})

	role := input.Role
	if role == "" {
		role = model.RoleCustomer
	}
	if role == model.RoleAdmin {
		logger.Warn("Registration failed: admin role requested", map[string]interface{}{
			"email": email,
		})
		return nil, ErrAdminRegistration
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}
	if username == "" {
		return nil, ErrInvalidUsername
	}
	if email == "" {
		return nil, ErrInvalidEmail
	}
	if len(input.Password) < minPasswordLength {
		return nil, ErrWeakPassword
	}

	if err := ensureUnique(s.userRepo, 0, &username, &email, &phone); err != nil {
		logger.Warn("Registration failed: duplicate account field", map[string]interface{}{
			"email":    email,
			"username": username,
			"reason":   err.Error(),
		})
		return nil, err
	}

	hashedPassword, err := util.HashPassword(input.Password)
	if err != nil {
		logger.Error("Failed to hash password", err, map[string]interface{}{
			"email": email,
		})
		return nil, err
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         role,
	}
	if phone != "" {
		user.Phone = &phone
	}

	// 코드 사용 처리와 계정 생성은 함께 커밋되거나 함께 취소된다
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.verification.ConsumeTx(tx, email, model.SceneRegister, input.VerificationCode); err != nil {
			return err
		}
		return repository.NewUserRepository(tx).Create(user)
	})
	if err != nil {
		if errors.Is(err, ErrInvalidVerificationCode) {
			return nil, err
		}
		// 동시에 같은 값으로 가입한 계정이 먼저 커밋된 경우
		if dupErr := ensureUnique(s.userRepo, 0, &username, &email, &phone); dupErr != nil {
			return nil, dupErr
		}
		logger.Error("Failed to create user in database", err, map[string]interface{}{
			"email": email,
		})
		return nil, err
	}

	logger.Info("User registered successfully", map[string]interface{}{
		"user_id": user.ID,
		"email":   email,
		"role":    user.Role,
	})
	return user, nil
}

func (s *authService) Login(identifier, password string) (*model.User, *util.TokenPair, error) {
	identifier = strings.TrimSpace(identifier)
	logger.Info("Login attempt", map[string]interface{}{
		"identifier": identifier,
	})

	user, err := s.userRepo.FindByLogin(identifier)
	if err != nil && strings.Contains(identifier, "@") && errors.Is(err, gorm.ErrRecordNotFound) {
		// 이메일은 소문자로 저장됨
		user, err = s.userRepo.FindByEmail(util.NormalizeEmail(identifier))
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Login failed: user not found", map[string]interface{}{
				"identifier": identifier,
			})
			return nil, nil, ErrInvalidCredentials
		}
		logger.Error("Failed to find user", err, map[string]interface{}{
			"identifier": identifier,
		})
		return nil, nil, err
	}

	if !util.VerifyPassword(user.PasswordHash, password) {
		logger.Warn("Login failed: invalid password", map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("User logged in successfully", map[string]interface{}{
		"user_id": user.ID,
		"role":    user.Role,
	})
	return user, tokens, nil
}

func (s *authService) LoginWithEmail(email, code string) (*model.User, *util.TokenPair, error) {
	email = util.NormalizeEmail(email)
	logger.Info("Email code login attempt", map[string]interface{}{
		"email": email,
	})

	user, err := s.findByEmail(email)
	if err != nil {
		return nil, nil, err
	}

	if err := s.verification.Consume(email, model.SceneLogin, code); err != nil {
		return nil, nil, err
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("User logged in with email code", map[string]interface{}{
		"user_id": user.ID,
	})
	return user, tokens, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*util.TokenPair, error) {
	claims, err := util.ValidateToken(refreshToken, s.jwtSecret)
	if err != nil || claims.TokenType != util.TokenTypeRefresh {
		logger.Warn("Refresh rejected: invalid token")
		return nil, ErrInvalidRefreshToken
	}

	if s.revoker != nil {
		revoked, err := s.revoker.IsRevoked(ctx, refreshToken)
		if err != nil {
			logger.Error("Failed to check refresh token revocation", err, map[string]interface{}{
				"user_id": claims.UserID,
			})
		} else if revoked {
			logger.Warn("Refresh rejected: token revoked", map[string]interface{}{
				"user_id": claims.UserID,
			})
			return nil, ErrInvalidRefreshToken
		}
	}

	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Refresh rejected: user no longer exists", map[string]interface{}{
				"user_id": claims.UserID,
			})
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}

	logger.Info("Tokens refreshed", map[string]interface{}{
		"user_id": user.ID,
	})
	return tokens, nil
}

func (s *authService) Logout(ctx context.Context, accessToken string, accessClaims *util.Claims, refreshToken string) error {
	if s.revoker == nil {
		logger.Debug("Token revocation disabled, logout is client side only")
		return nil
	}

	if accessToken != "" && accessClaims != nil {
		if err := s.revoker.Revoke(ctx, accessToken, accessClaims.RemainingTTL()); err != nil {
			logger.Error("Failed to revoke access token", err, map[string]interface{}{
				"user_id": accessClaims.UserID,
			})
			return err
		}
	}

	if refreshToken != "" {
		claims, err := util.ValidateToken(refreshToken, s.jwtSecret)
		if err != nil || claims.TokenType != util.TokenTypeRefresh {
			return ErrInvalidRefreshToken
		}
		if accessClaims != nil && claims.UserID != accessClaims.UserID {
			return ErrInvalidRefreshToken
		}
		if err := s.revoker.Revoke(ctx, refreshToken, claims.RemainingTTL()); err != nil {
			logger.Error("Failed to revoke refresh token", err, map[string]interface{}{
				"user_id": claims.UserID,
			})
			return err
		}
	}

	fields := map[string]interface{}{}
	if accessClaims != nil {
		fields["user_id"] = accessClaims.UserID
	}
	logger.Info("User logged out", fields)
	return nil
}

func (s *authService) ResetPassword(email, code, newPassword string) error {
	email = util.NormalizeEmail(email)
	if len(newPassword) < minPasswordLength {
		return ErrWeakPassword
	}

	user, err := s.findByEmail(email)
	if err != nil {
		return err
	}

	if err := s.verification.Consume(email, model.SceneResetPassword, code); err != nil {
		return err
	}

	hashedPassword, err := util.HashPassword(newPassword)
	if err != nil {
		logger.Error("Failed to hash password", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return err
	}
	user.PasswordHash = hashedPassword

	if err := s.userRepo.Update(user); err != nil {
		return err
	}

	logger.Info("Password reset", map[string]interface{}{
		"user_id": user.ID,
	})
	return nil
}

func (s *authService) GetUserByID(id uint) (*model.User, error) {
	logger.Debug("Fetching user by ID", map[string]interface{}{
		"user_id": id,
	})

	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("User not found", map[string]interface{}{
				"user_id": id,
			})
			return nil, ErrUserNotFound
		}
		logger.Error("Failed to fetch user", err, map[string]interface{}{
			"user_id": id,
		})
		return nil, err
	}
	return user, nil
}

func (s *authService) UpdateProfile(userID uint, input ProfileInput) (*model.User, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	if err := applyProfile(s.userRepo, user, input); err != nil {
		logger.Warn("Profile update rejected", map[string]interface{}{
			"user_id": userID,
			"reason":  err.Error(),
		})
		return nil, err
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	logger.Info("Profile updated", map[string]interface{}{
		"user_id": user.ID,
	})
	return user, nil
}

func (s *authService) ChangePassword(userID uint, oldPassword, newPassword string) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}

	if !util.VerifyPassword(user.PasswordHash, oldPassword) {
		logger.Warn("Password change rejected: wrong old password", map[string]interface{}{
			"user_id": userID,
		})
		return ErrWrongPassword
	}
	if len(newPassword) < minPasswordLength {
		return ErrWeakPassword
	}

	hashedPassword, err := util.HashPassword(newPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hashedPassword

	if err := s.userRepo.Update(user); err != nil {
		return err
	}

	logger.Info("Password changed", map[string]interface{}{
		"user_id": userID,
	})
	return nil
}

func (s *authService) findByEmail(email string) (*model.User, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Email not registered", map[string]interface{}{
				"email": email,
			})
			return nil, ErrEmailNotRegistered
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) issueTokens(user *model.User) (*util.TokenPair, error) {
	tokens, err := util.GenerateTokenPair(
		user.ID,
		user.Email,
		string(user.Role),
		s.jwtSecret,
		s.accessExpiry,
		s.refreshExpiry,
	)
	if err != nil {
		logger.Error("Failed to generate tokens", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, err
	}
	return tokens, nil
}

// ensureUnique 비어 있지 않은 값만 검사한다 (excludeID 는 자기 자신)
func ensureUnique(repo repository.UserRepository, excludeID uint, username, email, phone *string) error {
	if username != nil && *username != "" {
		exists, err := repo.UsernameExists(*username, excludeID)
		if err != nil {
			return err
		}
		if exists {
			return ErrUsernameAlreadyExists
		}
	}
	if email != nil && *email != "" {
		exists, err := repo.EmailExists(*email, excludeID)
		if err != nil {
			return err
		}
		if exists {
			return ErrEmailAlreadyExists
		}
	}
	if phone != nil && *phone != "" {
		exists, err := repo.PhoneExists(*phone, excludeID)
		if err != nil {
			return err
		}
		if exists {
			return ErrPhoneAlreadyExists
		}
	}
	return nil
}

// applyProfile 값을 정규화하고 중복을 확인한 뒤 user 에 반영한다
func applyProfile(repo repository.UserRepository, user *model.User, input ProfileInput) error {
	var username, email, phone *string
	if input.Username != nil {
		v := strings.TrimSpace(*input.Username)
		if v == "" {
			return ErrInvalidUsername
		}
		username = &v
	}
	if input.Email != nil {
		v := util.NormalizeEmail(*input.Email)
		if v == "" {
			return ErrInvalidEmail
		}
		email = &v
	}
	if input.Phone != nil {
		v := strings.TrimSpace(*input.Phone)
		phone = &v
	}

	if err := ensureUnique(repo, user.ID, username, email, phone); err != nil {
		return err
	}

	if username != nil {
		user.Username = *username
	}
	if email != nil {
		user.Email = *email
	}
	if phone != nil {
		if *phone == "" {
			user.Phone = nil
		} else {
			user.Phone = phone
		}
	}
	return nil
}
