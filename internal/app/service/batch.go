package service

import (
	"fmt"

	"github.com/ikkim/canteen-backend/internal/app/model"
	"github.com/ikkim/canteen-backend/pkg/logger"
	"gorm.io/gorm"
)

// batchDelete 하나의 트랜잭션에서 ID별 savepoint 로 삭제를 시도한다.
// 실패한 ID 만 되돌리고 나머지는 마지막에 함께 커밋한다.
func batchDelete(db *gorm.DB, resource string, ids []uint, deleteOne func(tx *gorm.DB, id uint) error) (*model.BatchDeleteResult, error) {
	result := &model.BatchDeleteResult{FailedIDs: []uint{}}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	seen := make(map[uint]bool, len(ids))
	for i, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true

		savepoint := fmt.Sprintf("batch_%d", i)
		if err := tx.SavePoint(savepoint).Error; err != nil {
			tx.Rollback()
			return nil, err
		}

		if err := deleteOne(tx, id); err != nil {
			if rbErr := tx.RollbackTo(savepoint).Error; rbErr != nil {
				tx.Rollback()
				return nil, rbErr
			}
			logger.Warn("Batch delete item failed", map[string]interface{}{
				"resource": resource,
				"id":       id,
				"error":    err.Error(),
			})
			result.FailedCount++
			result.FailedIDs = append(result.FailedIDs, id)
			continue
		}
		result.SuccessCount++
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	result.Message = fmt.Sprintf("deleted %d %s(s), %d failed", result.SuccessCount, resource, result.FailedCount)
	logger.Info("Batch delete completed", map[string]interface{}{
		"resource":      resource,
		"success_count": result.SuccessCount,
		"failed_count":  result.FailedCount,
	})
	return result, nil
}
