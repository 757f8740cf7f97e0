package repository

import (
	"errors"

	"github.com/ikkim/canteen-backend/internal/app/model"
	"github.com/ikkim/canteen-backend/pkg/logger"
	"gorm.io/gorm"
)

type UserFilter struct {
	Role   *model.UserRole
	Search string // username, email, phone 부분 일치
	Page   model.PageQuery
}

type UserRepository interface {
	Create(user *model.User) error
	FindByID(id uint) (*model.User, error)
	FindByUsername(username string) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	FindByLogin(identifier string) (*model.User, error)
	UsernameExists(username string, excludeID uint) (bool, error)
	EmailExists(email string, excludeID uint) (bool, error)
	PhoneExists(phone string, excludeID uint) (bool, error)
	List(filter UserFilter) ([]model.User, int64, error)
	Count() (int64, error)
	Update(user *model.User) error
	Delete(id uint) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *model.User) error {
	logger.Debug("Creating user in database", map[string]interface{}{
		"username": user.Username,
		"email":    user.Email,
	})

	if err := r.db.Create(user).Error; err != nil {
		logger.Error("Failed to create user in database", err, map[string]interface{}{
			"username": user.Username,
			"email":    user.Email,
		})
		return err
	}

	logger.Debug("User created in database", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})
	return nil
}

func (r *userRepository) findOne(field string, query *gorm.DB) (*model.User, error) {
	var user model.User
	if err := query.First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Debug("User not found in database", map[string]interface{}{
				"by": field,
			})
		} else {
			logger.Error("Failed to find user in database", err, map[string]interface{}{
				"by": field,
			})
		}
		return nil, err
	}

	logger.Debug("User found in database", map[string]interface{}{
		"by":      field,
		"user_id": user.ID,
	})
	return &user, nil
}

func (r *userRepository) FindByID(id uint) (*model.User, error) {
	return r.findOne("id", r.db.Where("id = ?", id))
}

func (r *userRepository) FindByUsername(username string) (*model.User, error) {
	return r.findOne("username", r.db.Where("username = ?", username))
}

func (r *userRepository) FindByEmail(email string) (*model.User, error) {
	return r.findOne("email", r.db.Where("email = ?", email))
}

// FindByLogin 사용자명, 이메일, 전화번호 중 하나로 조회
func (r *userRepository) FindByLogin(identifier string) (*model.User, error) {
	return r.findOne("login", r.db.
		Where("username = ? OR email = ? OR phone = ?", identifier, identifier, identifier).
		Order("id ASC"))
}

func (r *userRepository) exists(column, value string, excludeID uint) (bool, error) {
	var count int64
	query := r.db.Model(&model.User{}).Where(column+" = ?", value)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		logger.Error("Failed to check user uniqueness", err, map[string]interface{}{
			"column": column,
		})
		return false, err
	}
	return count > 0, nil
}

func (r *userRepository) UsernameExists(username string, excludeID uint) (bool, error) {
	return r.exists("username", username, excludeID)
}

func (r *userRepository) EmailExists(email string, excludeID uint) (bool, error) {
	return r.exists("email", email, excludeID)
}

func (r *userRepository) PhoneExists(phone string, excludeID uint) (bool, error) {
	return r.exists("phone", phone, excludeID)
}

func (r *userRepository) filtered(filter UserFilter) *gorm.DB {
	query := r.db.Model(&model.User{})
	if filter.Role != nil {
		query = query.Where("user_type = ?", *filter.Role)
	}
	if filter.Search != "" {
		like := likePattern(filter.Search)
		query = query.Where("LOWER(username) LIKE ? OR LOWER(email) LIKE ? OR LOWER(COALESCE(phone, '')) LIKE ?", like, like, like)
	}
	return query
}

func (r *userRepository) List(filter UserFilter) ([]model.User, int64, error) {
	page := filter.Page.Normalize()
	logger.Debug("Listing users", map[string]interface{}{
		"role":   filter.Role,
		"search": filter.Search,
		"skip":   page.Skip,
		"limit":  page.Limit,
	})

	var total int64
	if err := r.filtered(filter).Count(&total).Error; err != nil {
		logger.Error("Failed to count users", err)
		return nil, 0, err
	}

	var users []model.User
	if err := r.filtered(filter).Order("id DESC").Offset(page.Skip).Limit(page.Limit).Find(&users).Error; err != nil {
		logger.Error("Failed to list users", err)
		return nil, 0, err
	}

	logger.Debug("Users listed", map[string]interface{}{
		"count": len(users),
		"total": total,
	})
	return users, total, nil
}

func (r *userRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&model.User{}).Count(&count).Error; err != nil {
		logger.Error("Failed to count users", err)
		return 0, err
	}
	return count, nil
}

func (r *userRepository) Update(user *model.User) error {
	logger.Debug("Updating user in database", map[string]interface{}{
		"user_id": user.ID,
	})

	if err := r.db.Save(user).Error; err != nil {
		logger.Error("Failed to update user in database", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return err
	}

	logger.Debug("User updated in database", map[string]interface{}{
		"user_id": user.ID,
	})
	return nil
}

// Delete 사용자와 소유 매장, 주문, 리뷰를 함께 삭제
func (r *userRepository) Delete(id uint) error {
	logger.Debug("Deleting user from database", map[string]interface{}{
		"user_id": id,
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		return deleteUserTree(tx, id)
	})
	if err != nil {
		logger.Error("Failed to delete user from database", err, map[string]interface{}{
			"user_id": id,
		})
		return err
	}

	logger.Debug("User deleted from database", map[string]interface{}{
		"user_id": id,
	})
	return nil
}
