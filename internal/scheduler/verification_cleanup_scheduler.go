package scheduler

import (
	"github.com/ikkim/canteen-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// CodeCleaner 만료/사용된 인증 코드 정리
type CodeCleaner interface {
	CleanupExpired() (int64, error)
}

// VerificationCleanupScheduler 인증 코드 정리 스케줄러
type VerificationCleanupScheduler struct {
	cron     *cron.Cron
	cleaner  CodeCleaner
	schedule string
}

// NewVerificationCleanupScheduler schedule 은 표준 5필드 cron 표현식 (예: "0 * * * *")
func NewVerificationCleanupScheduler(cleaner CodeCleaner, schedule string) *VerificationCleanupScheduler {
	return &VerificationCleanupScheduler{
		cron:     cron.New(),
		cleaner:  cleaner,
		schedule: schedule,
	}
}

// Start 스케줄러 시작. schedule 이 비어 있으면 아무 것도 하지 않는다
func (s *VerificationCleanupScheduler) Start() error {
	if s.schedule == "" {
		logger.Info("Verification cleanup scheduler disabled")
		return nil
	}

	if _, err := s.cron.AddFunc(s.schedule, s.runOnce); err != nil {
		logger.Error("Failed to add cron job for verification cleanup", err, map[string]interface{}{
			"schedule": s.schedule,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Verification cleanup scheduler started", map[string]interface{}{
		"schedule": s.schedule,
	})
	return nil
}

func (s *VerificationCleanupScheduler) runOnce() {
	removed, err := s.cleaner.CleanupExpired()
	if err != nil {
		logger.Error("Failed to clean up verification codes", err)
		return
	}
	logger.Info("Verification codes cleaned up", map[string]interface{}{
		"removed": removed,
	})
}

// Stop 실행 중인 작업이 끝날 때까지 기다린 뒤 중지
func (s *VerificationCleanupScheduler) Stop() {
	logger.Info("Stopping verification cleanup scheduler...")
	<-s.cron.Stop().Done()
	logger.Info("Verification cleanup scheduler stopped")
}
