package repository

import (
	"time"

	"github.com/ikkim/canteen-backend/internal/app/model"
	"github.com/ikkim/canteen-backend/pkg/logger"
	"gorm.io/gorm"
)

type VerificationRepository interface {
	// Replace 같은 (email, scene) 의 기존 코드를 지우고 새 코드 저장
	Replace(code *model.EmailVerificationCode) error
	FindLatestActive(email string, scene model.VerificationScene, now time.Time) (*model.EmailVerificationCode, error)
	MarkVerified(id uint) error
	Delete(id uint) error
	DeleteExpired(now time.Time) (int64, error)
}

type verificationRepository struct {
	db *gorm.DB
}

func NewVerificationRepository(db *gorm.DB) VerificationRepository {
	return &verificationRepository{db: db}
}

func (r *verificationRepository) Replace(code *model.EmailVerificationCode) error {
	logger.Debug("Storing verification code", map[string]interface{}{
		"email": code.Email,
		"scene": code.Scene,
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("email = ? AND scene = ?", code.Email, code.Scene).
			Delete(&model.EmailVerificationCode{}).Error; err != nil {
			return err
		}
		return tx.Create(code).Error
	})
	if err != nil {
		logger.Error("Failed to store verification code", err, map[string]interface{}{
			"email": code.Email,
			"scene": code.Scene,
		})
		return err
	}
	return nil
}

// FindLatestActive 미사용, 미만료 코드 중 가장 최근 것
func (r *verificationRepository) FindLatestActive(email string, scene model.VerificationScene, now time.Time) (*model.EmailVerificationCode, error) {
	var code model.EmailVerificationCode
	err := r.db.Where("email = ? AND scene = ? AND verified = ? AND expires_at > ?", email, scene, false, now).
		Order("created_at DESC, id DESC").
		First(&code).Error
	if err != nil {
		logger.Debug("No active verification code", map[string]interface{}{
			"email": email,
			"scene": scene,
		})
		return nil, err
	}
	return &code, nil
}

func (r *verificationRepository) MarkVerified(id uint) error {
	result := r.db.Model(&model.EmailVerificationCode{}).
		Where("id = ? AND verified = ?", id, false).
		Update("verified", true)
	if result.Error != nil {
		logger.Error("Failed to mark verification code as used", result.Error, map[string]interface{}{
			"code_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *verificationRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.EmailVerificationCode{}, id).Error; err != nil {
		logger.Error("Failed to delete verification code", err, map[string]interface{}{
			"code_id": id,
		})
		return err
	}
	return nil
}

// DeleteExpired 만료된 코드 정리 (스케줄러에서 호출)
func (r *verificationRepository) DeleteExpired(now time.Time) (int64, error) {
	result := r.db.Where("expires_at <= ?", now).Delete(&model.EmailVerificationCode{})
	if result.Error != nil {
		logger.Error("Failed to delete expired verification codes", result.Error)
		return 0, result.Error
	}
	logger.Debug("Expired verification codes deleted", map[string]interface{}{
		"count": result.RowsAffected,
	})
	return result.RowsAffected, nil
}
