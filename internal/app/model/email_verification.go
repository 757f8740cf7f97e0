package model

import (
	"time"
)

type VerificationScene string // 인증 코드 사용처

const (
	SceneLogin         VerificationScene = "login"
	SceneRegister      VerificationScene = "register"
	SceneResetPassword VerificationScene = "reset_password"
)

func (s VerificationScene) Valid() bool {
	switch s {
	case SceneLogin, SceneRegister, SceneResetPassword:
		return true
	}
	return false
}

// EmailVerificationCode 이메일 인증 코드. 코드 원문은 저장하지 않는다.
type EmailVerificationCode struct {
	ID        uint              `gorm:"primaryKey" json:"id"`                                                      // 인증 코드 ID
	Email     string            `gorm:"size:255;not null;index:idx_verification_email_scene" json:"email"`         // 이메일
	Scene     VerificationScene `gorm:"type:varchar(20);not null;index:idx_verification_email_scene" json:"scene"` // 사용처
	CodeHash  string            `gorm:"size:64;not null" json:"-"`                                                 // SHA-256 해시
	ExpiresAt time.Time         `gorm:"not null;index" json:"expires_at"`                                          // 만료 시각
	Verified  bool              `gorm:"default:false;not null" json:"verified"`                                    // 사용 여부
	CreatedAt time.Time         `json:"created_at"`                                                                // 생성 시각
}

func (EmailVerificationCode) TableName() string {
	return "email_verification_codes"
}
