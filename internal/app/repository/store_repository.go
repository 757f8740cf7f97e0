package repository

import (
	"time"

	"github.com/ikkim/canteen-backend/internal/app/model"
	"github.com/ikkim/canteen-backend/pkg/logger"
	"gorm.io/gorm"
)

type StoreFilter struct {
	State   *model.StoreState
	OwnerID *uint
	Search  string // name, description, address 부분 일치
	Page    model.PageQuery
}

type StoreRepository interface {
	Create(store *model.Store) error
	FindByID(id uint) (*model.Store, error)
	FindByOwnerID(ownerID uint) (*model.Store, error)
	FindViewByID(id uint) (*model.StoreView, error)
	List(filter StoreFilter) ([]model.StoreView, int64, error)
	CountByState(state model.StoreState) (int64, error)
	Update(id uint, fields map[string]interface{}) error
	UpdateState(id uint, state model.StoreState, reviewTime time.Time) error
	Delete(id uint) error
}

type storeRepository struct {
	db *gorm.DB
}

func NewStoreRepository(db *gorm.DB) StoreRepository {
	return &storeRepository{db: db}
}

func (r *storeRepository) Create(store *model.Store) error {
	logger.Debug("Creating store in database", map[string]interface{}{
		"name":     store.Name,
		"owner_id": store.OwnerID,
	})

	if err := r.db.Create(store).Error; err != nil {
		logger.Error("Failed to create store in database", err, map[string]interface{}{
			"name":     store.Name,
			"owner_id": store.OwnerID,
		})
		return err
	}

	logger.Debug("Store created in database", map[string]interface{}{
		"store_id": store.ID,
		"owner_id": store.OwnerID,
	})
	return nil
}

func (r *storeRepository) FindByID(id uint) (*model.Store, error) {
	logger.Debug("Finding store by ID", map[string]interface{}{
		"store_id": id,
	})

	var store model.Store
	if err := r.db.First(&store, id).Error; err != nil {
		logger.Debug("Store not found by ID", map[string]interface{}{
			"store_id": id,
			"error":    err.Error(),
		})
		return nil, err
	}
	return &store, nil
}

func (r *storeRepository) FindByOwnerID(ownerID uint) (*model.Store, error) {
	logger.Debug("Finding store by owner", map[string]interface{}{
		"owner_id": ownerID,
	})

	var store model.Store
	if err := r.db.Where("owner_id = ?", ownerID).First(&store).Error; err != nil {
		logger.Debug("Store not found by owner", map[string]interface{}{
			"owner_id": ownerID,
			"error":    err.Error(),
		})
		return nil, err
	}
	return &store, nil
}

func (r *storeRepository) viewQuery() *gorm.DB {
	return r.db.Table("stores").
		Select("stores.*, users.username AS owner_name").
		Joins("LEFT JOIN users ON users.id = stores.owner_id")
}

func (r *storeRepository) FindViewByID(id uint) (*model.StoreView, error) {
	var views []model.StoreView
	if err := r.viewQuery().Where("stores.id = ?", id).Limit(1).Scan(&views).Error; err != nil {
		logger.Error("Failed to find store view", err, map[string]interface{}{
			"store_id": id,
		})
		return nil, err
	}
	if len(views) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &views[0], nil
}

func (r *storeRepository) filtered(query *gorm.DB, filter StoreFilter) *gorm.DB {
	if filter.State != nil {
		query = query.Where("stores.state = ?", *filter.State)
	}
	if filter.OwnerID != nil {
		query = query.Where("stores.owner_id = ?", *filter.OwnerID)
	}
	if filter.Search != "" {
		like := likePattern(filter.Search)
		query = query.Where("LOWER(stores.name) LIKE ? OR LOWER(stores.description) LIKE ? OR LOWER(stores.address) LIKE ?", like, like, like)
	}
	return query
}

func (r *storeRepository) List(filter StoreFilter) ([]model.StoreView, int64, error) {
	page := filter.Page.Normalize()
	logger.Debug("Listing stores", map[string]interface{}{
		"state":    filter.State,
		"owner_id": filter.OwnerID,
		"search":   filter.Search,
		"skip":     page.Skip,
		"limit":    page.Limit,
	})

	var total int64
	if err := r.filtered(r.db.Model(&model.Store{}), filter).Count(&total).Error; err != nil {
		logger.Error("Failed to count stores", err)
		return nil, 0, err
	}

	var views []model.StoreView
	if err := r.filtered(r.viewQuery(), filter).
		Order("stores.id DESC").
		Offset(page.Skip).Limit(page.Limit).
		Scan(&views).Error; err != nil {
		logger.Error("Failed to list stores", err)
		return nil, 0, err
	}

	logger.Debug("Stores listed", map[string]interface{}{
		"count": len(views),
		"total": total,
	})
	return views, total, nil
}

func (r *storeRepository) CountByState(state model.StoreState) (int64, error) {
	var count int64
	if err := r.db.Model(&model.Store{}).Where("state = ?", state).Count(&count).Error; err != nil {
		logger.Error("Failed to count stores by state", err, map[string]interface{}{
			"state": state,
		})
		return 0, err
	}
	return count, nil
}

func (r *storeRepository) Update(id uint, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}

	logger.Debug("Updating store in database", map[string]interface{}{
		"store_id": id,
		"columns":  len(fields),
	})

	result := r.db.Model(&model.Store{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		logger.Error("Failed to update store in database", result.Error, map[string]interface{}{
			"store_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	logger.Debug("Store updated in database", map[string]interface{}{
		"store_id": id,
	})
	return nil
}

func (r *storeRepository) UpdateState(id uint, state model.StoreState, reviewTime time.Time) error {
	logger.Debug("Updating store state in database", map[string]interface{}{
		"store_id": id,
		"state":    state,
	})

	result := r.db.Model(&model.Store{}).Where("id = ?", id).Updates(map[string]interface{}{
		"state":       state,
		"review_time": reviewTime,
	})
	if result.Error != nil {
		logger.Error("Failed to update store state in database", result.Error, map[string]interface{}{
			"store_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete 매장과 메뉴, 주문, 리뷰를 함께 삭제
func (r *storeRepository) Delete(id uint) error {
	logger.Debug("Deleting store from database", map[string]interface{}{
		"store_id": id,
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		return deleteStoreTree(tx, id)
	})
	if err != nil {
		logger.Error("Failed to delete store from database", err, map[string]interface{}{
			"store_id": id,
		})
		return err
	}

	logger.Debug("Store deleted from database", map[string]interface{}{
		"store_id": id,
	})
	return nil
}
