package db

import (
	"errors"

	"github.com/ikkim/canteen-backend/config"
	"github.com/ikkim/canteen-backend/internal/app/model"
	"github.com/ikkim/canteen-backend/pkg/logger"
	"github.com/ikkim/canteen-backend/pkg/util"
	"gorm.io/gorm"
)

// Models 마이그레이션 대상 (생성 순서: 참조되는 테이블 먼저)
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Store{},
		&model.Item{},
		&model.Order{},
		&model.OrderLine{},
		&model.Comment{},
		&model.EmailVerificationCode{},
	}
}

// Migrate runs database migrations on the global connection
func Migrate(admin *config.AdminConfig) error {
	return MigrateDB(DB, admin)
}

// MigrateDB runs migrations and seeds the default admin account
func MigrateDB(db *gorm.DB, admin *config.AdminConfig) error {
	logger.Info("Running database migrations...")

	models := Models()
	if err := db.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	if admin != nil {
		if err := SeedAdmin(db, admin); err != nil {
			logger.Error("Failed to seed initial data during migration", err)
			return err
		}
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// SeedAdmin 같은 사용자명의 계정이 없을 때만 기본 관리자를 생성
func SeedAdmin(db *gorm.DB, admin *config.AdminConfig) error {
	if admin.Username == "" || admin.Password == "" {
		logger.Warn("Admin seed skipped, username or password not configured")
		return nil
	}

	var existing model.User
	err := db.Where("username = ?", admin.Username).First(&existing).Error
	if err == nil {
		logger.Info("Admin already seeded, skipping...", map[string]interface{}{
			"username": admin.Username,
		})
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := util.HashPassword(admin.Password)
	if err != nil {
		return err
	}

	user := model.User{
		Username:     admin.Username,
		Email:        util.NormalizeEmail(admin.Email),
		PasswordHash: hash,
		Role:         model.RoleAdmin,
	}
	if admin.Phone != "" {
		phone := admin.Phone
		user.Phone = &phone
	}

	if err := db.Create(&user).Error; err != nil {
		return err
	}

	logger.Info("Default admin created", map[string]interface{}{
		"user_id":  user.ID,
		"username": user.Username,
	})
	return nil
}
