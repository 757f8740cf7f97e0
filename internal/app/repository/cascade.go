package repository

import (
	"strings"

	"github.com/ikkim/canteen-backend/internal/app/model"
	"gorm.io/gorm"
)

// 하위 데이터를 먼저 삭제 (DB 외래 키 설정과 무관하게 동일하게 동작)

func deleteOrders(tx *gorm.DB, column string, value interface{}) error {
	orderIDs := tx.Model(&model.Order{}).Select("id").Where(column+" = ?", value)
	if err := tx.Where("order_id IN (?)", orderIDs).Delete(&model.OrderLine{}).Error; err != nil {
		return err
	}
	return tx.Where(column+" = ?", value).Delete(&model.Order{}).Error
}

func deleteStoreTree(tx *gorm.DB, storeID uint) error {
	if err := deleteOrders(tx, "store_id", storeID); err != nil {
		return err
	}
	if err := tx.Where("store_id = ?", storeID).Delete(&model.Comment{}).Error; err != nil {
		return err
	}
	itemIDs := tx.Model(&model.Item{}).Select("id").Where("store_id = ?", storeID)
	if err := tx.Model(&model.OrderLine{}).Where("item_id IN (?)", itemIDs).Update("item_id", nil).Error; err != nil {
		return err
	}
	if err := tx.Where("store_id = ?", storeID).Delete(&model.Item{}).Error; err != nil {
		return err
	}
	return tx.Delete(&model.Store{}, storeID).Error
}

func deleteUserTree(tx *gorm.DB, userID uint) error {
	var storeIDs []uint
	if err := tx.Model(&model.Store{}).Where("owner_id = ?", userID).Pluck("id", &storeIDs).Error; err != nil {
		return err
	}
	for _, storeID := range storeIDs {
		if err := deleteStoreTree(tx, storeID); err != nil {
			return err
		}
	}
	if err := deleteOrders(tx, "user_id", userID); err != nil {
		return err
	}
	if err := tx.Where("user_id = ?", userID).Delete(&model.Comment{}).Error; err != nil {
		return err
	}
	return tx.Delete(&model.User{}, userID).Error
}

// likePattern 대소문자 구분 없는 부분 일치 패턴
func likePattern(s string) string {
	return "%" + strings.ToLower(strings.TrimSpace(s)) + "%"
}
