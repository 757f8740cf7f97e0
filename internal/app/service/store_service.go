package service

import (
	"errors"
	"strings"
	"time"

	"github.com/ikkim/canteen-backend/internal/app/model"
	"github.com/ikkim/canteen-backend/internal/app/repository"
	"github.com/ikkim/canteen-backend/pkg/logger"
	"gorm.io/gorm"
)

type StoreInput struct {
	Name        string
	Description string
	Address     string
	Phone       string
	Hours       string
	ImageURL    string
}

// StoreMutation nil 필드는 변경하지 않는다
type StoreMutation struct {
	Name        *string
	Description *string
	Address     *string
	Phone       *string
	Hours       *string
	ImageURL    *string
}

type StoreService interface {
	Create(actor Actor, input StoreInput) (*model.StoreView, error)
	List(filter repository.StoreFilter) (model.Page[model.StoreView], error)
	ListPending(page model.PageQuery) (model.Page[model.StoreView], error)
	Get(id uint) (*model.StoreView, error)
	GetMine(actor Actor) (*model.StoreView, error)
	Update(actor Actor, id uint, input StoreMutation) (*model.StoreView, error)
	Delete(actor Actor, id uint) error
	Review(id uint, state model.StoreState) (*model.StoreView, error)
}

type storeService struct {
	storeRepo repository.StoreRepository
	now       func() time.Time
}

func NewStoreService(storeRepo repository.StoreRepository) StoreService {
	return &storeService{
		storeRepo: storeRepo,
		now:       time.Now,
	}
}

func (s *storeService) Create(actor Actor, input StoreInput) (*model.StoreView, error) {
	logger.Info("Creating store", map[string]interface{}{
		"owner_id": actor.UserID,
		"name":     input.Name,
	})

	_, err := s.storeRepo.FindByOwnerID(actor.UserID)
	if err == nil {
		logger.Warn("Store creation rejected: vendor already owns a store", map[string]interface{}{
			"owner_id": actor.UserID,
		})
		return nil, ErrStoreAlreadyExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	store := &model.Store{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Address:     strings.TrimSpace(input.Address),
		Phone:       strings.TrimSpace(input.Phone),
		Hours:       input.Hours,
		ImageURL:    input.ImageURL,
		State:       model.StoreStatePending,
		OwnerID:     actor.UserID,
	}
	if err := s.storeRepo.Create(store); err != nil {
		return nil, err
	}

	logger.Info("Store created, awaiting review", map[string]interface{}{
		"store_id": store.ID,
		"owner_id": actor.UserID,
	})
	return s.Get(store.ID)
}

// List state 가 없으면 영업 중인 매장만 조회
func (s *storeService) List(filter repository.StoreFilter) (model.Page[model.StoreView], error) {
	if filter.State == nil {
		approved := model.StoreStateApproved
		filter.State = &approved
	}
	filter.Page = filter.Page.Normalize()

	stores, total, err := s.storeRepo.List(filter)
	if err != nil {
		return model.Page[model.StoreView]{}, err
	}
	return model.NewPage(stores, total, filter.Page), nil
}

func (s *storeService) ListPending(page model.PageQuery) (model.Page[model.StoreView], error) {
	pending := model.StoreStatePending
	return s.List(repository.StoreFilter{State: &pending, Page: page})
}

func (s *storeService) Get(id uint) (*model.StoreView, error) {
	store, err := s.storeRepo.FindViewByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, err
	}
	return store, nil
}

func (s *storeService) GetMine(actor Actor) (*model.StoreView, error) {
	store, err := s.storeRepo.FindByOwnerID(actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, err
	}
	return s.Get(store.ID)
}

func (s *storeService) Update(actor Actor, id uint, input StoreMutation) (*model.StoreView, error) {
	logger.Info("Updating store", map[string]interface{}{
		"store_id": id,
		"user_id":  actor.UserID,
	})

	store, err := s.findOwned(actor, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if input.Name != nil {
		fields["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	if input.Address != nil {
		fields["address"] = strings.TrimSpace(*input.Address)
	}
	if input.Phone != nil {
		fields["phone"] = strings.TrimSpace(*input.Phone)
	}
	if input.Hours != nil {
		fields["hours"] = *input.Hours
	}
	if input.ImageURL != nil {
		fields["image_url"] = *input.ImageURL
	}

	// 업체가 수정하면 다시 심사를 받아야 한다
	if !actor.IsAdmin() {
		fields["state"] = model.StoreStatePending
		fields["review_time"] = nil
	}

	if err := s.storeRepo.Update(store.ID, fields); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, err
	}

	logger.Info("Store updated", map[string]interface{}{
		"store_id": store.ID,
		"columns":  len(fields),
	})
	return s.Get(store.ID)
}

func (s *storeService) Delete(actor Actor, id uint) error {
	if _, err := s.findOwned(actor, id); err != nil {
		return err
	}

	if err := s.storeRepo.Delete(id); err != nil {
		return err
	}

	logger.Info("Store deleted", map[string]interface{}{
		"store_id": id,
		"user_id":  actor.UserID,
	})
	return nil
}

func (s *storeService) Review(id uint, state model.StoreState) (*model.StoreView, error) {
	if !state.Valid() {
		return nil, ErrInvalidState
	}

	if err := s.storeRepo.UpdateState(id, state, s.now()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, err
	}

	logger.Info("Store reviewed", map[string]interface{}{
		"store_id": id,
		"state":    state,
	})
	return s.Get(id)
}

func (s *storeService) findOwned(actor Actor, id uint) (*model.Store, error) {
	store, err := s.storeRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Store not found", map[string]interface{}{
				"store_id": id,
			})
			return nil, ErrStoreNotFound
		}
		return nil, err
	}

	if !actor.IsAdmin() && store.OwnerID != actor.UserID {
		logger.Warn("Store access forbidden", map[string]interface{}{
			"store_id": id,
			"user_id":  actor.UserID,
		})
		return nil, ErrForbidden
	}
	return store, nil
}
