package service

import "github.com/ikkim/canteen-backend/internal/app/model"

// Actor 요청을 보낸 인증 사용자
type Actor struct {
	UserID uint
	Role   model.UserRole
}

func (a Actor) IsAdmin() bool {
	return a.Role == model.RoleAdmin
}

func (a Actor) IsVendor() bool {
	return a.Role == model.RoleVendor
}

func (a Actor) IsCustomer() bool {
	return a.Role == model.RoleCustomer
}
