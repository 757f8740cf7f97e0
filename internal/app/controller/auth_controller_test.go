package controller

import (
	"net/http"
	"testing"

	"github.com/ikkim/canteen-backend/internal/app/model"
	apperrors "github.com/ikkim/canteen-backend/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerCustomer(t *testing.T, s *testServer, username string) {
	w := s.do(t, "POST", "/auth/send-email-code", "", SendEmailCodeRequest{
		Email: username + "@example.com",
		Scene: model.SceneRegister,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, "POST", "/auth/register", "", RegisterRequest{
		Username:         username,
		Email:            username + "@example.com",
		Password:         "password123",
		VerificationCode: s.mailer.lastCode(t),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func login(t *testing.T, s *testServer, identifier, password string) map[string]interface{} {
	w := s.do(t, "POST", "/auth/login", "", LoginRequest{Username: identifier, Password: password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decode(t, w)
}

func TestAuthController_RegisterAndLogin(t *testing.T) {
	s := setupControllerTest(t)

	registerCustomer(t, s, "alice")

	tokens := login(t, s, "alice", "password123")
	assert.NotEmpty(t, tokens["access_token"])
	assert.NotEmpty(t, tokens["refresh_token"])
	assert.Equal(t, "bearer", tokens["token_type"])

	w := s.do(t, "GET", "/auth/me", tokens["access_token"].(string), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	me := decode(t, w)
	assert.Equal(t, "alice", me["username"])
	assert.Equal(t, "customer", me["user_type"])
	assert.NotContains(t, me, "password_hash")

	// 이메일로도 로그인 가능
	login(t, s, "ALICE@example.com", "password123")
}

func TestAuthController_Register_WrongCode(t *testing.T) {
	s := setupControllerTest(t)

	w := s.do(t, "POST", "/auth/send-email-code", "", SendEmailCodeRequest{
		Email: "bob@example.com",
		Scene: model.SceneRegister,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, "POST", "/auth/register", "", RegisterRequest{
		Username:         "bob",
		Email:            "bob@example.com",
		Password:         "password123",
		VerificationCode: "000000x",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperrors.AuthCodeInvalid, decode(t, w)["error"])
}

func TestAuthController_Register_AdminRejected(t *testing.T) {
	s := setupControllerTest(t)

	w := s.do(t, "POST", "/auth/register", "", RegisterRequest{
		Username:         "mallory",
		Email:            "mallory@example.com",
		Password:         "password123",
		UserType:         model.RoleAdmin,
		VerificationCode: "123456",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthController_Register_InvalidInput(t *testing.T) {
	s := setupControllerTest(t)

	w := s.do(t, "POST", "/auth/register", "", RegisterRequest{
		Username:         "carol",
		Email:            "not-an-email",
		Password:         "password123",
		VerificationCode: "123456",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperrors.ValidationInvalidInput, decode(t, w)["error"])

	w = s.do(t, "POST", "/auth/register", "", RegisterRequest{
		Username:         "carol",
		Email:            "carol@example.com",
		Password:         "short",
		VerificationCode: "123456",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthController_SendCode_Errors(t *testing.T) {
	s := setupControllerTest(t)
	s.createUser(t, "dave", model.RoleCustomer)

	w := s.do(t, "POST", "/auth/send-email-code", "", SendEmailCodeRequest{
		Email: "dave@example.com",
		Scene: "bogus",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, "POST", "/auth/send-email-code", "", SendEmailCodeRequest{
		Email: "dave@example.com",
		Scene: model.SceneRegister,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperrors.AuthEmailAlreadyExists, decode(t, w)["error"])

	w = s.do(t, "POST", "/auth/send-email-code", "", SendEmailCodeRequest{
		Email: "nobody@example.com",
		Scene: model.SceneLogin,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAuthController_Login_WrongPassword(t *testing.T) {
	s := setupControllerTest(t)
	s.createUser(t, "erin", model.RoleCustomer)

	w := s.do(t, "POST", "/auth/login", "", LoginRequest{Username: "erin", Password: "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, apperrors.AuthInvalidCredentials, decode(t, w)["error"])
}

func TestAuthController_LoginWithEmail(t *testing.T) {
	s := setupControllerTest(t)
	s.createUser(t, "frank", model.RoleCustomer)

	w := s.do(t, "POST", "/auth/send-email-code", "", SendEmailCodeRequest{
		Email: "frank@example.com",
		Scene: model.SceneLogin,
	})
	require.Equal(t, http.StatusOK, w.Code)
	code := s.mailer.lastCode(t)

	w = s.do(t, "POST", "/auth/login/email", "", EmailLoginRequest{Email: "frank@example.com", VerificationCode: code})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decode(t, w)["access_token"])

	// 같은 코드는 한 번만 사용 가능
	w = s.do(t, "POST", "/auth/login/email", "", EmailLoginRequest{Email: "frank@example.com", VerificationCode: code})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthController_RefreshAndLogout(t *testing.T) {
	s := setupControllerTest(t)
	s.createUser(t, "grace", model.RoleCustomer)

	tokens := login(t, s, "grace", "password123")
	access := tokens["access_token"].(string)
	refresh := tokens["refresh_token"].(string)

	w := s.do(t, "POST", "/auth/refresh", "", RefreshTokenRequest{RefreshToken: refresh})
	require.Equal(t, http.StatusOK, w.Code)

	// access 토큰은 refresh 용도로 사용할 수 없다
	w = s.do(t, "POST", "/auth/refresh", "", RefreshTokenRequest{RefreshToken: access})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, "POST", "/auth/logout", access, LogoutRequest{RefreshToken: refresh})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, "GET", "/auth/me", access, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, "POST", "/auth/refresh", "", RefreshTokenRequest{RefreshToken: refresh})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthController_ResetPassword(t *testing.T) {
	s := setupControllerTest(t)
	s.createUser(t, "heidi", model.RoleCustomer)

	w := s.do(t, "POST", "/auth/send-email-code", "", SendEmailCodeRequest{
		Email: "heidi@example.com",
		Scene: model.SceneResetPassword,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, "POST", "/auth/reset-password", "", ResetPasswordRequest{
		Email:            "heidi@example.com",
		VerificationCode: s.mailer.lastCode(t),
		NewPassword:      "brand-new-pass",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	login(t, s, "heidi", "brand-new-pass")
}

func TestAuthController_UpdateMeAndChangePassword(t *testing.T) {
	s := setupControllerTest(t)
	ivan := s.createUser(t, "ivan", model.RoleCustomer)
	s.createUser(t, "judy", model.RoleCustomer)
	token := tokenFor(t, ivan)

	taken := "judy@example.com"
	w := s.do(t, "PUT", "/auth/me", token, UpdateProfileRequest{Email: &taken})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperrors.AuthEmailAlreadyExists, decode(t, w)["error"])

	phone := "010-2222-3333"
	w = s.do(t, "PUT", "/auth/me", token, UpdateProfileRequest{Phone: &phone})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, phone, decode(t, w)["phone"])

	w = s.do(t, "PUT", "/auth/me/password", token, ChangePasswordRequest{OldPassword: "nope-nope", NewPassword: "another-pass"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperrors.AuthWrongPassword, decode(t, w)["error"])

	w = s.do(t, "PUT", "/auth/me/password", token, ChangePasswordRequest{OldPassword: "password123", NewPassword: "another-pass"})
	assert.Equal(t, http.StatusOK, w.Code)
	login(t, s, "ivan", "another-pass")
}

func TestAuthController_GetMe_Unauthenticated(t *testing.T) {
	s := setupControllerTest(t)

	w := s.do(t, "GET", "/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
