package model

import (
	"time"
)

type UserRole string // 사용자 권한 타입

const (
	RoleCustomer UserRole = "customer" // 일반 고객 (주문, 리뷰 작성)
	RoleVendor   UserRole = "vendor"   // 입점 업체 (매장/메뉴 관리)
	RoleAdmin    UserRole = "admin"    // 관리자 (심사, 통계)
)

// Valid 정의된 권한인지 확인
func (r UserRole) Valid() bool {
	switch r {
	case RoleCustomer, RoleVendor, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID           uint      `gorm:"primarykey" json:"id"`                                                        // 사용자 ID
	Username     string    `gorm:"size:100;uniqueIndex;not null" json:"username"`                               // 사용자명
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`                                  // 이메일 (소문자 정규화)
	Phone        *string   `gorm:"size:50;uniqueIndex" json:"phone"`                                            // 전화번호 (선택)
	PasswordHash string    `gorm:"not null" json:"-"`                                                           // 비밀번호 해시
	Role         UserRole  `gorm:"column:user_type;type:varchar(20);default:'customer';index" json:"user_type"` // 권한
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"create_time"`                                           // 가입 시각
	UpdatedAt    time.Time `json:"-"`                                                                           // 수정 시각
}

func (User) TableName() string {
	return "users"
}

// PhoneValue 전화번호 (없으면 빈 문자열)
func (u *User) PhoneValue() string {
	if u.Phone == nil {
		return ""
	}
	return *u.Phone
}
