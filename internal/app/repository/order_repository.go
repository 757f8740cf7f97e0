package repository

import (
	"time"

	"github.com/ikkim/canteen-backend/internal/app/model"
	"github.com/ikkim/canteen-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderFilter struct {
	State   *model.OrderState
	StoreID *uint
	UserID  *uint
	Search  string // 매장명 또는 주문자명 부분 일치
	Page    model.PageQuery
}

// OrderExportRow 엑셀 내보내기용 주문 항목 한 줄
type OrderExportRow struct {
	OrderID   uint
	CreatedAt time.Time
	State     model.OrderState
	UserName  string
	StoreName string
	ItemName  string
	Quantity  int
	ItemPrice decimal.Decimal
}

type OrderRepository interface {
	FindByID(id uint) (*model.Order, error)
	FindViewByID(id uint) (*model.OrderView, error)
	List(filter OrderFilter) ([]model.OrderView, int64, error)
	ExportRows(filter OrderFilter) ([]OrderExportRow, error)
	Count(filter OrderFilter) (int64, error)
	Turnover(states ...model.OrderState) (decimal.Decimal, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) FindByID(id uint) (*model.Order, error) {
	logger.Debug("Finding order by ID in database", map[string]interface{}{
		"order_id": id,
	})

	var order model.Order
	if err := r.db.Preload("Lines").First(&order, id).Error; err != nil {
		logger.Debug("Order not found by ID", map[string]interface{}{
			"order_id": id,
			"error":    err.Error(),
		})
		return nil, err
	}

	logger.Debug("Order found by ID in database", map[string]interface{}{
		"order_id": order.ID,
		"state":    order.State,
	})
	return &order, nil
}

func (r *orderRepository) viewQuery() *gorm.DB {
	return r.db.Table("orders").
		Select("orders.*, users.username AS user_name, stores.name AS store_name").
		Joins("LEFT JOIN users ON users.id = orders.user_id").
		Joins("LEFT JOIN stores ON stores.id = orders.store_id")
}

// attachLines 주문별 항목을 한 번에 조회해 채움
func (r *orderRepository) attachLines(views []model.OrderView) error {
	if len(views) == 0 {
		return nil
	}

	ids := make([]uint, len(views))
	for i := range views {
		ids[i] = views[i].ID
		views[i].Items = []model.OrderLine{}
	}

	var lines []model.OrderLine
	if err := r.db.Where("order_id IN ?", ids).Order("id ASC").Find(&lines).Error; err != nil {
		return err
	}

	index := make(map[uint]int, len(views))
	for i := range views {
		index[views[i].ID] = i
	}
	for _, line := range lines {
		if i, ok := index[line.OrderID]; ok {
			views[i].Items = append(views[i].Items, line)
		}
	}
	return nil
}

func (r *orderRepository) FindViewByID(id uint) (*model.OrderView, error) {
	var views []model.OrderView
	if err := r.viewQuery().Where("orders.id = ?", id).Limit(1).Scan(&views).Error; err != nil {
		logger.Error("Failed to find order view", err, map[string]interface{}{
			"order_id": id,
		})
		return nil, err
	}
	if len(views) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	if err := r.attachLines(views); err != nil {
		logger.Error("Failed to load order lines", err, map[string]interface{}{
			"order_id": id,
		})
		return nil, err
	}
	return &views[0], nil
}

func (r *orderRepository) filtered(query *gorm.DB, filter OrderFilter) *gorm.DB {
	if filter.State != nil {
		query = query.Where("orders.state = ?", *filter.State)
	}
	if filter.StoreID != nil {
		query = query.Where("orders.store_id = ?", *filter.StoreID)
	}
	if filter.UserID != nil {
		query = query.Where("orders.user_id = ?", *filter.UserID)
	}
	if filter.Search != "" {
		like := likePattern(filter.Search)
		query = query.Where("orders.store_id IN (?) OR orders.user_id IN (?)",
			r.db.Model(&model.Store{}).Select("id").Where("LOWER(name) LIKE ?", like),
			r.db.Model(&model.User{}).Select("id").Where("LOWER(username) LIKE ?", like))
	}
	return query
}

func (r *orderRepository) List(filter OrderFilter) ([]model.OrderView, int64, error) {
	page := filter.Page.Normalize()
	logger.Debug("Listing orders", map[string]interface{}{
		"state":    filter.State,
		"store_id": filter.StoreID,
		"user_id":  filter.UserID,
		"search":   filter.Search,
		"skip":     page.Skip,
		"limit":    page.Limit,
	})

	total, err := r.Count(filter)
	if err != nil {
		return nil, 0, err
	}

	var views []model.OrderView
	if err := r.filtered(r.viewQuery(), filter).
		Order("orders.id DESC").
		Offset(page.Skip).Limit(page.Limit).
		Scan(&views).Error; err != nil {
		logger.Error("Failed to list orders", err)
		return nil, 0, err
	}

	if err := r.attachLines(views); err != nil {
		logger.Error("Failed to load order lines", err)
		return nil, 0, err
	}

	logger.Debug("Orders listed", map[string]interface{}{
		"count": len(views),
		"total": total,
	})
	return views, total, nil
}

func (r *orderRepository) Count(filter OrderFilter) (int64, error) {
	var total int64
	if err := r.filtered(r.db.Model(&model.Order{}), filter).Count(&total).Error; err != nil {
		logger.Error("Failed to count orders", err)
		return 0, err
	}
	return total, nil
}

func (r *orderRepository) ExportRows(filter OrderFilter) ([]OrderExportRow, error) {
	logger.Debug("Loading order export rows", map[string]interface{}{
		"state":    filter.State,
		"store_id": filter.StoreID,
	})

	query := r.db.Table("order_lines").
		Select("orders.id AS order_id, orders.created_at AS created_at, orders.state AS state, " +
			"users.username AS user_name, stores.name AS store_name, " +
			"order_lines.item_name AS item_name, order_lines.quantity AS quantity, order_lines.item_price AS item_price").
		Joins("JOIN orders ON orders.id = order_lines.order_id").
		Joins("LEFT JOIN users ON users.id = orders.user_id").
		Joins("LEFT JOIN stores ON stores.id = orders.store_id")

	var rows []OrderExportRow
	if err := r.filtered(query, filter).Order("orders.id ASC, order_lines.id ASC").Scan(&rows).Error; err != nil {
		logger.Error("Failed to load order export rows", err)
		return nil, err
	}
	return rows, nil
}

// Turnover 지정 상태 주문의 스냅샷 단가 * 수량 합계
func (r *orderRepository) Turnover(states ...model.OrderState) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}

	err := r.db.Table("order_lines").
		Select("COALESCE(SUM(order_lines.item_price * order_lines.quantity), 0) AS total").
		Joins("JOIN orders ON orders.id = order_lines.order_id").
		Where("orders.state IN ?", states).
		Scan(&result).Error
	if err != nil {
		logger.Error("Failed to sum turnover", err)
		return decimal.Zero, err
	}
	return result.Total, nil
}
