package service

import (
	"errors"
	"strings"

	"github.com/ikkim/canteen-backend/internal/app/model"
	"github.com/ikkim/canteen-backend/internal/app/repository"
	"github.com/ikkim/canteen-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ItemInput struct {
	StoreID     uint
	Name        string
	Description string
	ImageURL    string
	Price       decimal.Decimal
	Quantity    int
}

type ItemMutation struct {
	Name        *string
	Description *string
	ImageURL    *string
	Price       *decimal.Decimal
	Quantity    *int
}

type ItemService interface {
	Create(actor Actor, input ItemInput) (*model.ItemView, error)
	List(actor Actor, filter repository.ItemFilter) (model.Page[model.ItemView], error)
	ListByStore(storeID uint, page model.PageQuery) (model.Page[model.ItemView], error)
	Get(id uint) (*model.ItemView, error)
	Update(actor Actor, id uint, input ItemMutation) (*model.ItemView, error)
	Delete(actor Actor, id uint) error
	BatchDelete(actor Actor, ids []uint) (*model.BatchDeleteResult, error)
}

type itemService struct {
	db        *gorm.DB
	itemRepo  repository.ItemRepository
	storeRepo repository.StoreRepository
}

func NewItemService(db *gorm.DB, itemRepo repository.ItemRepository, storeRepo repository.StoreRepository) ItemService {
	return &itemService{
		db:        db,
		itemRepo:  itemRepo,
		storeRepo: storeRepo,
	}
}

func validateItemValues(price *decimal.Decimal, quantity *int) error {
	if price != nil && !price.IsPositive() {
		return ErrInvalidPrice
	}
	if quantity != nil && *quantity < 0 {
		return ErrInvalidQuantity
	}
	return nil
}

func (s *itemService) Create(actor Actor, input ItemInput) (*model.ItemView, error) {
	logger.Info("Creating item", map[string]interface{}{
		"store_id": input.StoreID,
		"user_id":  actor.UserID,
		"name":     input.Name,
	})

	if err := validateItemValues(&input.Price, &input.Quantity); err != nil {
		return nil, err
	}

	store, err := s.storeRepo.FindByID(input.StoreID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, err
	}
	if !actor.IsAdmin() && store.OwnerID != actor.UserID {
		logger.Warn("Item creation forbidden: not the store owner", map[string]interface{}{
			"store_id": store.ID,
			"user_id":  actor.UserID,
		})
		return nil, ErrForbidden
	}
	if store.State != model.StoreStateApproved {
		logger.Warn("Item creation rejected: store not approved", map[string]interface{}{
			"store_id": store.ID,
			"state":    store.State,
		})
		return nil, ErrStoreNotApproved
	}

	item := &model.Item{
		Name:          strings.TrimSpace(input.Name),
		Description:   input.Description,
		ImageURL:      input.ImageURL,
		Price:         input.Price,
		StockQuantity: input.Quantity,
		StoreID:       store.ID,
	}
	if err := s.itemRepo.Create(item); err != nil {
		return nil, err
	}

	logger.Info("Item created", map[string]interface{}{
		"item_id":  item.ID,
		"store_id": store.ID,
	})
	return s.Get(item.ID)
}

// List 업체는 자기 매장 메뉴만 볼 수 있다
func (s *itemService) List(actor Actor, filter repository.ItemFilter) (model.Page[model.ItemView], error) {
	filter.Page = filter.Page.Normalize()

	if actor.IsVendor() {
		store, err := s.storeRepo.FindByOwnerID(actor.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return model.NewPage([]model.ItemView{}, 0, filter.Page), nil
			}
			return model.Page[model.ItemView]{}, err
		}
		filter.StoreID = &store.ID
	}

	items, total, err := s.itemRepo.List(filter)
	if err != nil {
		return model.Page[model.ItemView]{}, err
	}
	return model.NewPage(items, total, filter.Page), nil
}

func (s *itemService) ListByStore(storeID uint, page model.PageQuery) (model.Page[model.ItemView], error) {
	if _, err := s.storeRepo.FindByID(storeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Page[model.ItemView]{}, ErrStoreNotFound
		}
		return model.Page[model.ItemView]{}, err
	}

	page = page.Normalize()
	items, total, err := s.itemRepo.List(repository.ItemFilter{StoreID: &storeID, Page: page})
	if err != nil {
		return model.Page[model.ItemView]{}, err
	}
	return model.NewPage(items, total, page), nil
}

func (s *itemService) Get(id uint) (*model.ItemView, error) {
	item, err := s.itemRepo.FindViewByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return item, nil
}

func (s *itemService) Update(actor Actor, id uint, input ItemMutation) (*model.ItemView, error) {
	if err := validateItemValues(input.Price, input.Quantity); err != nil {
		return nil, err
	}

	item, err := findOwnedItem(s.itemRepo, s.storeRepo, actor, id)
	if err != nil {
		return nil, err
	}

	// 요청에 포함된 컬럼만 갱신해 주문으로 바뀐 재고를 덮어쓰지 않는다
	fields := map[string]interface{}{}
	if input.Name != nil {
		fields["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	if input.ImageURL != nil {
		fields["image_url"] = *input.ImageURL
	}
	if input.Price != nil {
		fields["price"] = *input.Price
	}
	if input.Quantity != nil {
		fields["stock_quantity"] = *input.Quantity
	}

	if err := s.itemRepo.Update(item.ID, fields); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}

	logger.Info("Item updated", map[string]interface{}{
		"item_id": item.ID,
		"user_id": actor.UserID,
	})
	return s.Get(item.ID)
}

func (s *itemService) Delete(actor Actor, id uint) error {
	if _, err := findOwnedItem(s.itemRepo, s.storeRepo, actor, id); err != nil {
		return err
	}

	if err := s.itemRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrItemNotFound
		}
		return err
	}

	logger.Info("Item deleted", map[string]interface{}{
		"item_id": id,
		"user_id": actor.UserID,
	})
	return nil
}

func (s *itemService) BatchDelete(actor Actor, ids []uint) (*model.BatchDeleteResult, error) {
	return batchDelete(s.db, "item", ids, func(tx *gorm.DB, id uint) error {
		itemRepo := repository.NewItemRepository(tx)
		if _, err := findOwnedItem(itemRepo, repository.NewStoreRepository(tx), actor, id); err != nil {
			return err
		}
		return itemRepo.Delete(id)
	})
}

func findOwnedItem(itemRepo repository.ItemRepository, storeRepo repository.StoreRepository, actor Actor, id uint) (*model.Item, error) {
	item, err := itemRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	if actor.IsAdmin() {
		return item, nil
	}

	store, err := storeRepo.FindByID(item.StoreID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, err
	}
	if store.OwnerID != actor.UserID {
		logger.Warn("Item access forbidden", map[string]interface{}{
			"item_id": id,
			"user_id": actor.UserID,
		})
		return nil, ErrForbidden
	}
	return item, nil
}
