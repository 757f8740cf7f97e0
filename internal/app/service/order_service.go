package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ikkim/canteen-backend/internal/app/model"
	"github.com/ikkim/canteen-backend/internal/app/repository"
	"github.com/ikkim/canteen-backend/internal/metrics"
	"github.com/ikkim/canteen-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderLineInput struct {
	ItemID   uint
	Quantity int
}

type OrderInput struct {
	StoreID      uint
	Items        []OrderLineInput
	ContactPhone string
	PickupTime   string
}

type OrderService interface {
	Create(actor Actor, input OrderInput) (*model.OrderView, error)
	List(actor Actor, filter repository.OrderFilter) (model.Page[model.OrderView], error)
	ListMine(actor Actor, filter repository.OrderFilter) (model.Page[model.OrderView], error)
	ListStoreMine(actor Actor, filter repository.OrderFilter) (model.Page[model.OrderView], error)
	Get(actor Actor, id uint) (*model.OrderView, error)
	UpdateState(actor Actor, id uint, next model.OrderState) (*model.OrderView, error)
	Delete(actor Actor, id uint) error
	BatchDelete(actor Actor, ids []uint) (*model.BatchDeleteResult, error)
	Export(actor Actor, filter repository.OrderFilter) ([]byte, error)
}

type orderService struct {
	db        *gorm.DB
	orderRepo repository.OrderRepository
	storeRepo repository.StoreRepository
	now       func() time.Time
}

func NewOrderService(db *gorm.DB, orderRepo repository.OrderRepository, storeRepo repository.StoreRepository) OrderService {
	return &orderService{
		db:        db,
		orderRepo: orderRepo,
		storeRepo: storeRepo,
		now:       time.Now,
	}
}

// mergeLines 같은 메뉴는 수량을 합치고 잠금 순서를 고정하기 위해 ID 순으로 정렬
func mergeLines(lines []OrderLineInput) ([]OrderLineInput, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyOrder
	}

	quantities := make(map[uint]int, len(lines))
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, ErrInvalidOrderQty
		}
		quantities[line.ItemID] += line.Quantity
	}

	merged := make([]OrderLineInput, 0, len(quantities))
	for itemID, qty := range quantities {
		merged = append(merged, OrderLineInput{ItemID: itemID, Quantity: qty})
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].ItemID < merged[j].ItemID })
	return merged, nil
}

func (s *orderService) Create(actor Actor, input OrderInput) (*model.OrderView, error) {
	logger.Info("Creating order", map[string]interface{}{
		"user_id":    actor.UserID,
		"store_id":   input.StoreID,
		"line_count": len(input.Items),
	})

	lines, err := mergeLines(input.Items)
	if err != nil {
		logger.Warn("Order rejected: invalid lines", map[string]interface{}{
			"user_id": actor.UserID,
			"reason":  err.Error(),
		})
		return nil, err
	}

	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during order creation, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"user_id": actor.UserID,
			})
			panic(r)
		}
	}()

	var store model.Store
	if err := tx.First(&store, input.StoreID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Order rejected: store not found", map[string]interface{}{
				"store_id": input.StoreID,
			})
			return nil, ErrStoreNotFound
		}
		return nil, err
	}
	if store.State != model.StoreStateApproved {
		tx.Rollback()
		logger.Warn("Order rejected: store not approved", map[string]interface{}{
			"store_id": store.ID,
			"state":    store.State,
		})
		return nil, ErrStoreNotApproved
	}

	total := decimal.Zero
	orderLines := make([]model.OrderLine, 0, len(lines))
	for _, line := range lines {
		var item model.Item
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&item, line.ItemID).Error; err != nil {
			tx.Rollback()
			if errors.Is(err, gorm.ErrRecordNotFound) {
				logger.Warn("Order rejected: item not found", map[string]interface{}{
					"item_id": line.ItemID,
				})
				return nil, ErrItemNotFound
			}
			return nil, err
		}

		if item.StoreID != store.ID {
			tx.Rollback()
			logger.Warn("Order rejected: item belongs to another store", map[string]interface{}{
				"item_id":  item.ID,
				"store_id": store.ID,
			})
			return nil, ErrItemStoreMismatch
		}
		if item.StockQuantity < line.Quantity {
			tx.Rollback()
			logger.Warn("Order rejected: insufficient stock", map[string]interface{}{
				"item_id":   item.ID,
				"requested": line.Quantity,
				"available": item.StockQuantity,
			})
			return nil, ErrInsufficientStock
		}

		itemID := item.ID
		orderLine := model.OrderLine{
			ItemID:    &itemID,
			ItemName:  item.Name,
			Quantity:  line.Quantity,
			ItemPrice: item.Price,
		}
		total = total.Add(orderLine.Subtotal())
		orderLines = append(orderLines, orderLine)
	}

	order := &model.Order{
		UserID:       actor.UserID,
		StoreID:      store.ID,
		State:        model.OrderStatePending,
		TotalAmount:  total,
		ContactPhone: strings.TrimSpace(input.ContactPhone),
		PickupTime:   strings.TrimSpace(input.PickupTime),
	}
	if err := tx.Create(order).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to create order", err, map[string]interface{}{
			"user_id": actor.UserID,
		})
		return nil, err
	}

	for i := range orderLines {
		orderLines[i].OrderID = order.ID
	}
	if err := tx.Create(&orderLines).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to create order lines", err, map[string]interface{}{
			"order_id": order.ID,
		})
		return nil, err
	}

	for _, line := range lines {
		result := tx.Model(&model.Item{}).
			Where("id = ? AND stock_quantity >= ?", line.ItemID, line.Quantity).
			Update("stock_quantity", gorm.Expr("stock_quantity - ?", line.Quantity))
		if result.Error != nil {
			tx.Rollback()
			logger.Error("Failed to decrement stock", result.Error, map[string]interface{}{
				"item_id": line.ItemID,
			})
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			tx.Rollback()
			return nil, ErrInsufficientStock
		}
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit order transaction", err, map[string]interface{}{
			"user_id": actor.UserID,
		})
		return nil, err
	}
	metrics.RecordOrderCreated()

	logger.Info("Order created", map[string]interface{}{
		"order_id":     order.ID,
		"user_id":      actor.UserID,
		"store_id":     store.ID,
		"total_amount": total.StringFixed(2),
	})
	return s.findView(order.ID)
}

// List 역할별 조회 범위: 고객은 본인 주문, 업체는 자기 매장 주문, 관리자는 전체
func (s *orderService) List(actor Actor, filter repository.OrderFilter) (model.Page[model.OrderView], error) {
	filter.Page = filter.Page.Normalize()

	switch {
	case actor.IsCustomer():
		filter.UserID = &actor.UserID
	case actor.IsVendor():
		store, err := s.storeRepo.FindByOwnerID(actor.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return model.NewPage([]model.OrderView{}, 0, filter.Page), nil
			}
			return model.Page[model.OrderView]{}, err
		}
		filter.StoreID = &store.ID
	}

	orders, total, err := s.orderRepo.List(filter)
	if err != nil {
		return model.Page[model.OrderView]{}, err
	}
	return model.NewPage(orders, total, filter.Page), nil
}

func (s *orderService) ListMine(actor Actor, filter repository.OrderFilter) (model.Page[model.OrderView], error) {
	filter.Page = filter.Page.Normalize()
	filter.UserID = &actor.UserID

	orders, total, err := s.orderRepo.List(filter)
	if err != nil {
		return model.Page[model.OrderView]{}, err
	}
	return model.NewPage(orders, total, filter.Page), nil
}

func (s *orderService) ListStoreMine(actor Actor, filter repository.OrderFilter) (model.Page[model.OrderView], error) {
	store, err := s.storeRepo.FindByOwnerID(actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Page[model.OrderView]{}, ErrStoreNotFound
		}
		return model.Page[model.OrderView]{}, err
	}

	filter.Page = filter.Page.Normalize()
	filter.StoreID = &store.ID

	orders, total, err := s.orderRepo.List(filter)
	if err != nil {
		return model.Page[model.OrderView]{}, err
	}
	return model.NewPage(orders, total, filter.Page), nil
}

func (s *orderService) Get(actor Actor, id uint) (*model.OrderView, error) {
	view, err := s.findView(id)
	if err != nil {
		return nil, err
	}

	if err := checkOrderAccess(repository.NewStoreRepository(s.db), actor, &view.Order); err != nil {
		return nil, err
	}
	return view, nil
}

// allowedTransitions 역할별 허용 상태 전이
var allowedTransitions = map[model.UserRole]map[model.OrderState][]model.OrderState{
	model.RoleCustomer: {
		model.OrderStatePending: {model.OrderStateCancelled},
	},
	model.RoleVendor: {
		model.OrderStatePending:  {model.OrderStateApproved, model.OrderStateCancelled},
		model.OrderStateApproved: {model.OrderStateCompleted},
	},
	model.RoleAdmin: {
		model.OrderStatePending:  {model.OrderStateApproved, model.OrderStateCancelled},
		model.OrderStateApproved: {model.OrderStateCompleted, model.OrderStateCancelled},
	},
}

func canTransition(role model.UserRole, from, to model.OrderState) bool {
	for _, next := range allowedTransitions[role][from] {
		if next == to {
			return true
		}
	}
	return false
}

func (s *orderService) UpdateState(actor Actor, id uint, next model.OrderState) (*model.OrderView, error) {
	logger.Info("Updating order state", map[string]interface{}{
		"order_id": id,
		"user_id":  actor.UserID,
		"state":    next,
	})

	if !next.Valid() {
		return nil, ErrInvalidState
	}

	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	var order model.Order
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&order, id).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if err := checkOrderAccess(repository.NewStoreRepository(tx), actor, &order); err != nil {
		tx.Rollback()
		return nil, err
	}

	prev := order.State
	if !canTransition(actor.Role, prev, next) {
		tx.Rollback()
		logger.Warn("Order state transition rejected", map[string]interface{}{
			"order_id": id,
			"role":     actor.Role,
			"from":     prev,
			"to":       next,
		})
		return nil, ErrInvalidTransition
	}

	// 이전 상태 조건으로 갱신해 동시 요청이 재고를 두 번 복구하지 못하게 한다
	result := tx.Model(&model.Order{}).
		Where("id = ? AND state = ?", id, prev).
		Updates(map[string]interface{}{
			"state":       next,
			"review_time": s.now(),
		})
	if result.Error != nil {
		tx.Rollback()
		logger.Error("Failed to update order state", result.Error, map[string]interface{}{
			"order_id": id,
		})
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		return nil, ErrInvalidTransition
	}

	restored := 0
	if next == model.OrderStateCancelled && prev.HoldsStock() {
		units, err := restoreStock(tx, id)
		if err != nil {
			tx.Rollback()
			return nil, err
		}
		restored = units
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit order state change", err, map[string]interface{}{
			"order_id": id,
		})
		return nil, err
	}
	if next == model.OrderStateCancelled && prev.HoldsStock() {
		metrics.RecordStockRestored(restored)
	}

	logger.Info("Order state updated", map[string]interface{}{
		"order_id":       id,
		"from":           prev,
		"to":             next,
		"restored_units": restored,
	})
	return s.findView(id)
}

func (s *orderService) Delete(actor Actor, id uint) error {
	tx := s.db.Begin()
	if tx.Error != nil {
		return tx.Error
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	restored, held, err := deleteOrder(tx, actor, id)
	if err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit().Error; err != nil {
		return err
	}
	if held {
		metrics.RecordStockRestored(restored)
	}

	logger.Info("Order deleted", map[string]interface{}{
		"order_id":       id,
		"user_id":        actor.UserID,
		"restored_units": restored,
	})
	return nil
}

func (s *orderService) BatchDelete(actor Actor, ids []uint) (*model.BatchDeleteResult, error) {
	var restored []int
	result, err := batchDelete(s.db, "order", ids, func(tx *gorm.DB, id uint) error {
		units, held, err := deleteOrder(tx, actor, id)
		if err != nil {
			return err
		}
		if held {
			restored = append(restored, units)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, units := range restored {
		metrics.RecordStockRestored(units)
	}
	return result, nil
}

// deleteOrder 고객은 본인의 대기 주문만, 관리자는 모든 주문을 삭제할 수 있다
func deleteOrder(tx *gorm.DB, actor Actor, id uint) (restored int, held bool, err error) {
	if actor.IsVendor() {
		return 0, false, ErrForbidden
	}

	var order model.Order
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, false, ErrOrderNotFound
		}
		return 0, false, err
	}

	if !actor.IsAdmin() {
		if order.UserID != actor.UserID {
			return 0, false, ErrForbidden
		}
		if order.State != model.OrderStatePending {
			return 0, false, ErrOrderNotDeletable
		}
	}

	held = order.State.HoldsStock()
	if held {
		if restored, err = restoreStock(tx, order.ID); err != nil {
			return 0, false, err
		}
	}

	if err := tx.Where("order_id = ?", order.ID).Delete(&model.OrderLine{}).Error; err != nil {
		return 0, false, err
	}
	result := tx.Where("id = ? AND state = ?", order.ID, order.State).Delete(&model.Order{})
	if result.Error != nil {
		return 0, false, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, false, ErrOrderNotFound
	}
	return restored, held, nil
}

// restoreStock 주문 항목 수량만큼 재고를 되돌린다. 삭제된 메뉴는 건너뛴다.
func restoreStock(tx *gorm.DB, orderID uint) (int, error) {
	var lines []model.OrderLine
	if err := tx.Where("order_id = ?", orderID).Find(&lines).Error; err != nil {
		return 0, err
	}

	units := 0
	for _, line := range lines {
		if line.ItemID == nil {
			continue
		}
		result := tx.Model(&model.Item{}).
			Where("id = ?", *line.ItemID).
			Update("stock_quantity", gorm.Expr("stock_quantity + ?", line.Quantity))
		if result.Error != nil {
			logger.Error("Failed to restore stock", result.Error, map[string]interface{}{
				"order_id": orderID,
				"item_id":  *line.ItemID,
			})
			return 0, result.Error
		}
		if result.RowsAffected > 0 {
			units += line.Quantity
		}
	}
	return units, nil
}

func checkOrderAccess(storeRepo repository.StoreRepository, actor Actor, order *model.Order) error {
	switch {
	case actor.IsAdmin():
		return nil
	case actor.IsCustomer():
		if order.UserID == actor.UserID {
			return nil
		}
	case actor.IsVendor():
		store, err := storeRepo.FindByID(order.StoreID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err == nil && store.OwnerID == actor.UserID {
			return nil
		}
	}

	logger.Warn("Order access forbidden", map[string]interface{}{
		"order_id": order.ID,
		"user_id":  actor.UserID,
		"role":     actor.Role,
	})
	return ErrForbidden
}

func (s *orderService) findView(id uint) (*model.OrderView, error) {
	view, err := s.orderRepo.FindViewByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return view, nil
}
