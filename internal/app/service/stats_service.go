package service

import (
	"errors"

	"github.com/ikkim/canteen-backend/internal/app/model"
	"github.com/ikkim/canteen-backend/internal/app/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SiteStats 사이트 전체 통계
type SiteStats struct {
	UserTotal     int64           `json:"user_total"`
	MerchantTotal int64           `json:"merchant_total"`
	OrderTotal    int64           `json:"order_total"`
	TurnoverTotal decimal.Decimal `json:"turnover_total"`
}

type StatsService interface {
	Personal(actor Actor) (map[string]interface{}, error)
	Site() (*SiteStats, error)
}

type statsService struct {
	userRepo    repository.UserRepository
	storeRepo   repository.StoreRepository
	itemRepo    repository.ItemRepository
	orderRepo   repository.OrderRepository
	commentRepo repository.CommentRepository
}

func NewStatsService(
	userRepo repository.UserRepository,
	storeRepo repository.StoreRepository,
	itemRepo repository.ItemRepository,
	orderRepo repository.OrderRepository,
	commentRepo repository.CommentRepository,
) StatsService {
	return &statsService{
		userRepo:    userRepo,
		storeRepo:   storeRepo,
		itemRepo:    itemRepo,
		orderRepo:   orderRepo,
		commentRepo: commentRepo,
	}
}

func (s *statsService) Personal(actor Actor) (map[string]interface{}, error) {
	switch {
	case actor.IsAdmin():
		pendingStores, err := s.storeRepo.CountByState(model.StoreStatePending)
		if err != nil {
			return nil, err
		}
		pendingComments, err := s.commentRepo.CountByState(model.CommentStatePending)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{
			"pending_store_review":   pendingStores,
			"pending_comment_review": pendingComments,
		}, nil

	case actor.IsVendor():
		store, err := s.storeRepo.FindByOwnerID(actor.UserID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return map[string]interface{}{
				"store_exists":  false,
				"store_state":   nil,
				"item_total":    int64(0),
				"order_total":   int64(0),
				"order_pending": int64(0),
			}, nil
		}
		if err != nil {
			return nil, err
		}

		items, err := s.itemRepo.CountByStore(store.ID)
		if err != nil {
			return nil, err
		}
		orders, pending, err := s.countOrders(repository.OrderFilter{StoreID: &store.ID})
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{
			"store_exists":  true,
			"store_state":   store.State,
			"item_total":    items,
			"order_total":   orders,
			"order_pending": pending,
		}, nil

	default:
		orders, pending, err := s.countOrders(repository.OrderFilter{UserID: &actor.UserID})
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{
			"order_total":   orders,
			"order_pending": pending,
		}, nil
	}
}

func (s *statsService) countOrders(filter repository.OrderFilter) (int64, int64, error) {
	total, err := s.orderRepo.Count(filter)
	if err != nil {
		return 0, 0, err
	}
	pendingState := model.OrderStatePending
	filter.State = &pendingState
	pending, err := s.orderRepo.Count(filter)
	if err != nil {
		return 0, 0, err
	}
	return total, pending, nil
}

func (s *statsService) Site() (*SiteStats, error) {
	users, err := s.userRepo.Count()
	if err != nil {
		return nil, err
	}
	merchants, err := s.storeRepo.CountByState(model.StoreStateApproved)
	if err != nil {
		return nil, err
	}
	orders, err := s.orderRepo.Count(repository.OrderFilter{})
	if err != nil {
		return nil, err
	}
	turnover, err := s.orderRepo.Turnover(model.OrderStateApproved, model.OrderStateCompleted)
	if err != nil {
		return nil, err
	}

	return &SiteStats{
		UserTotal:     users,
		MerchantTotal: merchants,
		OrderTotal:    orders,
		TurnoverTotal: turnover,
	}, nil
}
