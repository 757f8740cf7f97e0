package repository

import (
	"github.com/ikkim/canteen-backend/internal/app/model"
	"github.com/ikkim/canteen-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ItemFilter struct {
	StoreID     *uint
	StoreName   string
	ItemName    string
	Description string
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
	InStock     *bool
	Page        model.PageQuery
}

type ItemRepository interface {
	Create(item *model.Item) error
	FindByID(id uint) (*model.Item, error)
	FindViewByID(id uint) (*model.ItemView, error)
	List(filter ItemFilter) ([]model.ItemView, int64, error)
	CountByStore(storeID uint) (int64, error)
	Update(id uint, fields map[string]interface{}) error
	Delete(id uint) error
}

type itemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) Create(item *model.Item) error {
	logger.Debug("Creating item in database", map[string]interface{}{
		"name":     item.Name,
		"store_id": item.StoreID,
	})

	if err := r.db.Create(item).Error; err != nil {
		logger.Error("Failed to create item in database", err, map[string]interface{}{
			"name":     item.Name,
			"store_id": item.StoreID,
		})
		return err
	}

	logger.Debug("Item created in database", map[string]interface{}{
		"item_id":  item.ID,
		"store_id": item.StoreID,
	})
	return nil
}

func (r *itemRepository) FindByID(id uint) (*model.Item, error) {
	logger.Debug("Finding item by ID", map[string]interface{}{
		"item_id": id,
	})

	var item model.Item
	if err := r.db.First(&item, id).Error; err != nil {
		logger.Debug("Item not found by ID", map[string]interface{}{
			"item_id": id,
			"error":   err.Error(),
		})
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) viewQuery() *gorm.DB {
	return r.db.Table("items").
		Select("items.*, stores.name AS store_name").
		Joins("LEFT JOIN stores ON stores.id = items.store_id")
}

func (r *itemRepository) FindViewByID(id uint) (*model.ItemView, error) {
	var views []model.ItemView
	if err := r.viewQuery().Where("items.id = ?", id).Limit(1).Scan(&views).Error; err != nil {
		logger.Error("Failed to find item view", err, map[string]interface{}{
			"item_id": id,
		})
		return nil, err
	}
	if len(views) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &views[0], nil
}

func (r *itemRepository) filtered(query *gorm.DB, filter ItemFilter) *gorm.DB {
	if filter.StoreID != nil {
		query = query.Where("items.store_id = ?", *filter.StoreID)
	}
	if filter.StoreName != "" {
		query = query.Where("items.store_id IN (?)",
			r.db.Model(&model.Store{}).Select("id").Where("LOWER(name) LIKE ?", likePattern(filter.StoreName)))
	}
	if filter.ItemName != "" {
		query = query.Where("LOWER(items.name) LIKE ?", likePattern(filter.ItemName))
	}
	if filter.Description != "" {
		query = query.Where("LOWER(items.description) LIKE ?", likePattern(filter.Description))
	}
	if filter.MinPrice != nil {
		query = query.Where("items.price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("items.price <= ?", *filter.MaxPrice)
	}
	if filter.InStock != nil {
		if *filter.InStock {
			query = query.Where("items.stock_quantity > 0")
		} else {
			query = query.Where("items.stock_quantity <= 0")
		}
	}
	return query
}

func (r *itemRepository) List(filter ItemFilter) ([]model.ItemView, int64, error) {
	page := filter.Page.Normalize()
	logger.Debug("Listing items", map[string]interface{}{
		"store_id":  filter.StoreID,
		"item_name": filter.ItemName,
		"skip":      page.Skip,
		"limit":     page.Limit,
	})

	var total int64
	if err := r.filtered(r.db.Model(&model.Item{}), filter).Count(&total).Error; err != nil {
		logger.Error("Failed to count items", err)
		return nil, 0, err
	}

	var views []model.ItemView
	if err := r.filtered(r.viewQuery(), filter).
		Order("items.id DESC").
		Offset(page.Skip).Limit(page.Limit).
		Scan(&views).Error; err != nil {
		logger.Error("Failed to list items", err)
		return nil, 0, err
	}

	logger.Debug("Items listed", map[string]interface{}{
		"count": len(views),
		"total": total,
	})
	return views, total, nil
}

func (r *itemRepository) CountByStore(storeID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&model.Item{}).Where("store_id = ?", storeID).Count(&count).Error; err != nil {
		logger.Error("Failed to count items by store", err, map[string]interface{}{
			"store_id": storeID,
		})
		return 0, err
	}
	return count, nil
}

// Update 전달된 컬럼만 갱신 (재고는 주문 처리와 경합하므로 전체 저장하지 않음)
func (r *itemRepository) Update(id uint, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}

	logger.Debug("Updating item in database", map[string]interface{}{
		"item_id": id,
		"columns": len(fields),
	})

	result := r.db.Model(&model.Item{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		logger.Error("Failed to update item in database", result.Error, map[string]interface{}{
			"item_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	logger.Debug("Item updated in database", map[string]interface{}{
		"item_id": id,
	})
	return nil
}

// Delete 주문 항목의 메뉴 참조는 null 로 바꾸고 스냅샷은 유지
func (r *itemRepository) Delete(id uint) error {
	logger.Debug("Deleting item from database", map[string]interface{}{
		"item_id": id,
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.OrderLine{}).Where("item_id = ?", id).Update("item_id", nil).Error; err != nil {
			return err
		}
		result := tx.Delete(&model.Item{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to delete item from database", err, map[string]interface{}{
			"item_id": id,
		})
		return err
	}

	logger.Debug("Item deleted from database", map[string]interface{}{
		"item_id": id,
	})
	return nil
}
