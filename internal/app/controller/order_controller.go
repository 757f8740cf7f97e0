package controller

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/canteen-backend/internal/app/model"
	"github.com/ikkim/canteen-backend/internal/app/repository"
	"github.com/ikkim/canteen-backend/internal/app/service"
	apperrors "github.com/ikkim/canteen-backend/internal/errors"
	"github.com/ikkim/canteen-backend/internal/middleware"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type OrderController struct {
	orderService service.OrderService
}

func NewOrderController(orderService service.OrderService) *OrderController {
	return &OrderController{
		orderService: orderService,
	}
}

type OrderLineRequest struct {
	ItemID   uint `json:"item_id" binding:"required"`
	Quantity int  `json:"quantity" binding:"required,min=1"`
}

type CreateOrderRequest struct {
	StoreID      uint               `json:"store_id" binding:"required"`
	Items        []OrderLineRequest `json:"items" binding:"required,min=1,dive"`
	ContactPhone string             `json:"contact_phone" binding:"max=50"`
	PickupTime   string             `json:"pickup_time" binding:"max=50"`
}

type UpdateOrderStateRequest struct {
	State model.OrderState `json:"state" binding:"required"`
}

// CreateOrder 주문 생성 (재고 차감 포함)
// POST /order
func (ctrl *OrderController) CreateOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid order request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.InvalidInput(c)
		return
	}

	lines := make([]service.OrderLineInput, len(req.Items))
	for i, item := range req.Items {
		lines[i] = service.OrderLineInput{
			ItemID:   item.ItemID,
			Quantity: item.Quantity,
		}
	}

	order, err := ctrl.orderService.Create(actor, service.OrderInput{
		StoreID:      req.StoreID,
		Items:        lines,
		ContactPhone: req.ContactPhone,
		PickupTime:   req.PickupTime,
	})
	if err != nil {
		respondServiceError(c, err, "create order")
		return
	}

	log.Info("Order created", map[string]interface{}{
		"order_id": order.ID,
		"user_id":  actor.UserID,
	})
	c.JSON(http.StatusCreated, order)
}

// ListOrders 역할에 따라 조회 범위가 제한된다
// GET /order?skip&limit&state&store_id&user_id&search
func (ctrl *OrderController) ListOrders(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	filter, ok := bindOrderFilter(c)
	if !ok {
		return
	}

	orders, err := ctrl.orderService.List(actor, filter)
	if err != nil {
		respondServiceError(c, err, "list orders")
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GET /order/my?skip&limit&state
func (ctrl *OrderController) ListMyOrders(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	filter, ok := bindOrderFilter(c)
	if !ok {
		return
	}

	orders, err := ctrl.orderService.ListMine(actor, filter)
	if err != nil {
		respondServiceError(c, err, "list my orders")
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GET /order/store/my?skip&limit&state&search
func (ctrl *OrderController) ListMyStoreOrders(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	filter, ok := bindOrderFilter(c)
	if !ok {
		return
	}

	orders, err := ctrl.orderService.ListStoreMine(actor, filter)
	if err != nil {
		respondServiceError(c, err, "list store orders")
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GET /order/:id
func (ctrl *OrderController) GetOrder(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id", "order")
	if !ok {
		return
	}

	order, err := ctrl.orderService.Get(actor, id)
	if err != nil {
		respondServiceError(c, err, "get order")
		return
	}
	c.JSON(http.StatusOK, order)
}

// UpdateOrderState 상태 전이 (취소 시 재고 복원)
// PUT /order/:id
func (ctrl *OrderController) UpdateOrderState(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id", "order")
	if !ok {
		return
	}

	var req UpdateOrderStateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.InvalidInput(c)
		return
	}

	order, err := ctrl.orderService.UpdateState(actor, id, req.State)
	if err != nil {
		respondServiceError(c, err, "update order state")
		return
	}

	log.Info("Order state updated", map[string]interface{}{
		"order_id": id,
		"state":    order.State,
		"actor_id": actor.UserID,
	})
	c.JSON(http.StatusOK, order)
}

// DELETE /order/:id
func (ctrl *OrderController) DeleteOrder(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id", "order")
	if !ok {
		return
	}

	if err := ctrl.orderService.Delete(actor, id); err != nil {
		respondServiceError(c, err, "delete order")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Order deleted",
	})
}

// POST /order/batch-delete
func (ctrl *OrderController) BatchDeleteOrders(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req BatchDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.InvalidInput(c)
		return
	}

	result, err := ctrl.orderService.BatchDelete(actor, req.IDs)
	if err != nil {
		respondServiceError(c, err, "batch delete orders")
		return
	}
	c.JSON(http.StatusOK, result)
}

// ExportOrders 주문 항목 엑셀 다운로드
// GET /order/export?state&store_id
func (ctrl *OrderController) ExportOrders(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	filter, ok := bindOrderFilter(c)
	if !ok {
		return
	}

	data, err := ctrl.orderService.Export(actor, filter)
	if err != nil {
		respondServiceError(c, err, "export orders")
		return
	}

	filename := fmt.Sprintf("orders_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}

func bindOrderFilter(c *gin.Context) (repository.OrderFilter, bool) {
	var filter repository.OrderFilter

	page, ok := bindPage(c)
	if !ok {
		return filter, false
	}
	filter.Page = page
	filter.Search = c.Query("search")

	if filter.StoreID, ok = optionalUint(c, "store_id"); !ok {
		return filter, false
	}
	if filter.UserID, ok = optionalUint(c, "user_id"); !ok {
		return filter, false
	}
	if raw := c.Query("state"); raw != "" {
		state := model.OrderState(raw)
		if !state.Valid() {
			apperrors.BadRequest(c, apperrors.ValidationInvalidState, "Invalid state")
			return filter, false
		}
		filter.State = &state
	}
	return filter, true
}
