package service

import (
	"errors"

	"github.com/ikkim/canteen-backend/internal/app/model"
	"github.com/ikkim/canteen-backend/internal/app/repository"
	"github.com/ikkim/canteen-backend/pkg/logger"
	"gorm.io/gorm"
)

// AdminUserInput 관리자용 사용자 수정 입력
type AdminUserInput struct {
	ProfileInput
	Role *model.UserRole
}

type UserService interface {
	List(filter repository.UserFilter) (model.Page[model.User], error)
	Get(id uint) (*model.User, error)
	Update(id uint, input AdminUserInput) (*model.User, error)
	Delete(id uint) error
	DeleteSelf(userID uint) error
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) List(filter repository.UserFilter) (model.Page[model.User], error) {
	filter.Page = filter.Page.Normalize()
	users, total, err := s.userRepo.List(filter)
	if err != nil {
		return model.Page[model.User]{}, err
	}
	return model.NewPage(users, total, filter.Page), nil
}

func (s *userService) Get(id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) Update(id uint, input AdminUserInput) (*model.User, error) {
	user, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if input.Role != nil && !input.Role.Valid() {
		return nil, ErrInvalidRole
	}

	if err := applyProfile(s.userRepo, user, input.ProfileInput); err != nil {
		logger.Warn("User update rejected", map[string]interface{}{
			"user_id": id,
			"reason":  err.Error(),
		})
		return nil, err
	}
	if input.Role != nil {
		user.Role = *input.Role
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	logger.Info("User updated by admin", map[string]interface{}{
		"user_id": user.ID,
		"role":    user.Role,
	})
	return user, nil
}

// Delete 사용자가 소유한 매장, 주문, 리뷰를 함께 삭제한다
func (s *userService) Delete(id uint) error {
	if _, err := s.Get(id); err != nil {
		return err
	}

	if err := s.userRepo.Delete(id); err != nil {
		return err
	}

	logger.Info("User deleted", map[string]interface{}{
		"user_id": id,
	})
	return nil
}

func (s *userService) DeleteSelf(userID uint) error {
	logger.Info("User requested account deletion", map[string]interface{}{
		"user_id": userID,
	})
	return s.Delete(userID)
}
