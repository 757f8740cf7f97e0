package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/ikkim/canteen-backend/config"
	"github.com/ikkim/canteen-backend/internal/app/model"
	"github.com/ikkim/canteen-backend/internal/app/repository"
	"github.com/ikkim/canteen-backend/pkg/logger"
	"github.com/ikkim/canteen-backend/pkg/util"
	"gorm.io/gorm"
)

type VerificationService interface {
	SendCode(email string, scene model.VerificationScene) error
	// Consume 코드가 일치하면 사용 처리, 실패 사유는 구분하지 않는다
	Consume(email string, scene model.VerificationScene, code string) error
	// ConsumeTx 호출자의 트랜잭션 안에서 사용 처리 (롤백되면 코드도 되살아난다)
	ConsumeTx(tx *gorm.DB, email string, scene model.VerificationScene, code string) error
	CleanupExpired() (int64, error)
}

type verificationService struct {
	codeRepo repository.VerificationRepository
	userRepo repository.UserRepository
	mailer   util.Mailer
	cfg      config.VerificationConfig
	now      func() time.Time
}

func NewVerificationService(
	codeRepo repository.VerificationRepository,
	userRepo repository.UserRepository,
	mailer util.Mailer,
	cfg config.VerificationConfig,
) VerificationService {
	return &verificationService{
		codeRepo: codeRepo,
		userRepo: userRepo,
		mailer:   mailer,
		cfg:      cfg,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *verificationService) SendCode(email string, scene model.VerificationScene) error {
	email = util.NormalizeEmail(email)
	if email == "" {
		return ErrInvalidEmail
	}
	if !scene.Valid() {
		return ErrInvalidScene
	}

	logger.Info("Sending verification code", map[string]interface{}{
		"email": email,
		"scene": scene,
	})

	_, err := s.userRepo.FindByEmail(email)
	switch {
	case err == nil && scene == model.SceneRegister:
		logger.Warn("Verification code rejected: email already registered", map[string]interface{}{
			"email": email,
		})
		return ErrEmailAlreadyExists
	case errors.Is(err, gorm.ErrRecordNotFound) && scene != model.SceneRegister:
		logger.Warn("Verification code rejected: email not registered", map[string]interface{}{
			"email": email,
			"scene": scene,
		})
		return ErrEmailNotRegistered
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		return err
	}

	code, err := util.GenerateVerificationCode(s.cfg.CodeLength)
	if err != nil {
		logger.Error("Failed to generate verification code", err)
		return err
	}

	record := &model.EmailVerificationCode{
		Email:     email,
		Scene:     scene,
		CodeHash:  util.HashVerificationCode(code),
		ExpiresAt: s.now().Add(s.cfg.CodeExpiry),
	}
	if err := s.codeRepo.Replace(record); err != nil {
		return err
	}

	subject, body := verificationMail(scene, code, s.cfg.CodeExpiry)
	if err := s.mailer.Send(email, subject, body); err != nil {
		// 전달되지 못한 코드는 남기지 않는다
		if delErr := s.codeRepo.Delete(record.ID); delErr != nil {
			logger.Error("Failed to discard undelivered verification code", delErr, map[string]interface{}{
				"code_id": record.ID,
			})
		}
		logger.Error("Failed to deliver verification code", err, map[string]interface{}{
			"email": email,
			"scene": scene,
		})
		return fmt.Errorf("%w: %v", ErrVerificationSendFailed, err)
	}

	logger.Info("Verification code sent", map[string]interface{}{
		"email": email,
		"scene": scene,
	})
	return nil
}

func (s *verificationService) Consume(email string, scene model.VerificationScene, code string) error {
	return s.consume(s.codeRepo, email, scene, code)
}

func (s *verificationService) ConsumeTx(tx *gorm.DB, email string, scene model.VerificationScene, code string) error {
	return s.consume(repository.NewVerificationRepository(tx), email, scene, code)
}

func (s *verificationService) consume(codeRepo repository.VerificationRepository, email string, scene model.VerificationScene, code string) error {
	email = util.NormalizeEmail(email)

	record, err := codeRepo.FindLatestActive(email, scene, s.now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Verification failed: no active code", map[string]interface{}{
				"email": email,
				"scene": scene,
			})
			return ErrInvalidVerificationCode
		}
		return err
	}

	if record.CodeHash != util.HashVerificationCode(code) {
		logger.Warn("Verification failed: code mismatch", map[string]interface{}{
			"email": email,
			"scene": scene,
		})
		return ErrInvalidVerificationCode
	}

	if err := codeRepo.MarkVerified(record.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 동시에 다른 요청이 먼저 사용함
			return ErrInvalidVerificationCode
		}
		return err
	}

	logger.Info("Verification code consumed", map[string]interface{}{
		"email": email,
		"scene": scene,
	})
	return nil
}

func (s *verificationService) CleanupExpired() (int64, error) {
	deleted, err := s.codeRepo.DeleteExpired(s.now())
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		logger.Info("Expired verification codes removed", map[string]interface{}{
			"count": deleted,
		})
	}
	return deleted, nil
}

func verificationMail(scene model.VerificationScene, code string, expiry time.Duration) (string, string) {
	purpose := map[model.VerificationScene]string{
		model.SceneLogin:         "sign in",
		model.SceneRegister:      "complete your registration",
		model.SceneResetPassword: "reset your password",
	}[scene]

	subject := "[Canteen] Your verification code"
	body := fmt.Sprintf(
		"Your verification code is %s.\n\nUse it to %s. The code expires in %d minutes.\nIf you did not request this, you can ignore this email.\n",
		code, purpose, int(expiry.Minutes()),
	)
	return subject, body
}
