package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/canteen-backend/internal/app/repository"
	"github.com/ikkim/canteen-backend/internal/app/service"
	apperrors "github.com/ikkim/canteen-backend/internal/errors"
	"github.com/ikkim/canteen-backend/internal/middleware"
	"github.com/shopspring/decimal"
)

type ItemController struct {
	itemService service.ItemService
}

func NewItemController(itemService service.ItemService) *ItemController {
	return &ItemController{
		itemService: itemService,
	}
}

type CreateItemRequest struct {
	StoreID     uint             `json:"store_id" binding:"required"`
	Name        string           `json:"name" binding:"required,max=100"`
	Description string           `json:"description"`
	ImageURL    string           `json:"image_url" binding:"max=255"`
	Price       *decimal.Decimal `json:"price" binding:"required"`
	Quantity    int              `json:"quantity" binding:"min=0"`
}

type UpdateItemRequest struct {
	Name        *string          `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string          `json:"description"`
	ImageURL    *string          `json:"image_url" binding:"omitempty,max=255"`
	Price       *decimal.Decimal `json:"price"`
	Quantity    *int             `json:"quantity" binding:"omitempty,min=0"`
}

// CreateItem 메뉴 등록 (승인된 매장만 가능)
// POST /item
func (ctrl *ItemController) CreateItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid item creation request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.InvalidInput(c)
		return
	}

	item, err := ctrl.itemService.Create(actor, service.ItemInput{
		StoreID:     req.StoreID,
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Price:       *req.Price,
		Quantity:    req.Quantity,
	})
	if err != nil {
		respondServiceError(c, err, "create item")
		return
	}
	c.JSON(http.StatusCreated, item)
}

// ListItems
// GET /item?skip&limit&store_id&store_name&item_name&description&min_price&max_price&in_stock
func (ctrl *ItemController) ListItems(c *gin.Context) {
	page, ok := bindPage(c)
	if !ok {
		return
	}
	storeID, ok := optionalUint(c, "store_id")
	if !ok {
		return
	}

	filter := repository.ItemFilter{
		StoreID:     storeID,
		StoreName:   c.Query("store_name"),
		ItemName:    c.Query("item_name"),
		Description: c.Query("description"),
		Page:        page,
	}

	if filter.MinPrice, ok = optionalDecimal(c, "min_price"); !ok {
		return
	}
	if filter.MaxPrice, ok = optionalDecimal(c, "max_price"); !ok {
		return
	}
	if raw := c.Query("in_stock"); raw != "" {
		inStock, err := strconv.ParseBool(raw)
		if err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid in_stock")
			return
		}
		filter.InStock = &inStock
	}

	items, err := ctrl.itemService.List(optionalActor(c), filter)
	if err != nil {
		respondServiceError(c, err, "list items")
		return
	}
	c.JSON(http.StatusOK, items)
}

// GET /item/store/:store_id
func (ctrl *ItemController) ListStoreItems(c *gin.Context) {
	storeID, ok := parseID(c, "store_id", "store")
	if !ok {
		return
	}
	page, ok := bindPage(c)
	if !ok {
		return
	}

	items, err := ctrl.itemService.ListByStore(storeID, page)
	if err != nil {
		respondServiceError(c, err, "list store items")
		return
	}
	c.JSON(http.StatusOK, items)
}

// GET /item/:id
func (ctrl *ItemController) GetItem(c *gin.Context) {
	id, ok := parseID(c, "id", "item")
	if !ok {
		return
	}

	item, err := ctrl.itemService.Get(id)
	if err != nil {
		respondServiceError(c, err, "get item")
		return
	}
	c.JSON(http.StatusOK, item)
}

// PUT /item/:id
func (ctrl *ItemController) UpdateItem(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id", "item")
	if !ok {
		return
	}

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.InvalidInput(c)
		return
	}

	item, err := ctrl.itemService.Update(actor, id, service.ItemMutation{
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Price:       req.Price,
		Quantity:    req.Quantity,
	})
	if err != nil {
		respondServiceError(c, err, "update item")
		return
	}
	c.JSON(http.StatusOK, item)
}

// DELETE /item/:id
func (ctrl *ItemController) DeleteItem(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id", "item")
	if !ok {
		return
	}

	if err := ctrl.itemService.Delete(actor, id); err != nil {
		respondServiceError(c, err, "delete item")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Item deleted",
	})
}

// POST /item/batch-delete
func (ctrl *ItemController) BatchDeleteItems(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req BatchDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.InvalidInput(c)
		return
	}

	result, err := ctrl.itemService.BatchDelete(actor, req.IDs)
	if err != nil {
		respondServiceError(c, err, "batch delete items")
		return
	}
	c.JSON(http.StatusOK, result)
}

func optionalDecimal(c *gin.Context, key string) (*decimal.Decimal, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid "+key)
		return nil, false
	}
	return &v, true
}
