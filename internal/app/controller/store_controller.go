package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/canteen-backend/internal/app/model"
	"github.com/ikkim/canteen-backend/internal/app/repository"
	"github.com/ikkim/canteen-backend/internal/app/service"
	apperrors "github.com/ikkim/canteen-backend/internal/errors"
	"github.com/ikkim/canteen-backend/internal/middleware"
)

type StoreController struct {
	storeService service.StoreService
}

func NewStoreController(storeService service.StoreService) *StoreController {
	return &StoreController{
		storeService: storeService,
	}
}

type CreateStoreRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description"`
	Address     string `json:"address" binding:"max=255"`
	Phone       string `json:"phone" binding:"max=50"`
	Hours       string `json:"hours" binding:"max=100"`
	ImageURL    string `json:"image_url" binding:"max=255"`
}

type UpdateStoreRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description"`
	Address     *string `json:"address" binding:"omitempty,max=255"`
	Phone       *string `json:"phone" binding:"omitempty,max=50"`
	Hours       *string `json:"hours" binding:"omitempty,max=100"`
	ImageURL    *string `json:"image_url" binding:"omitempty,max=255"`
}

type ReviewStoreRequest struct {
	State model.StoreState `json:"state" binding:"required"`
}

// CreateStore 업체 매장 등록 (심사 대기 상태로 생성)
// POST /store
func (ctrl *StoreController) CreateStore(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req CreateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid store creation request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.InvalidInput(c)
		return
	}

	store, err := ctrl.storeService.Create(actor, service.StoreInput{
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
		Phone:       req.Phone,
		Hours:       req.Hours,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		respondServiceError(c, err, "create store")
		return
	}
	c.JSON(http.StatusCreated, store)
}

// ListStores
// GET /store?skip&limit&state&search&owner_id
func (ctrl *StoreController) ListStores(c *gin.Context) {
	page, ok := bindPage(c)
	if !ok {
		return
	}
	ownerID, ok := optionalUint(c, "owner_id")
	if !ok {
		return
	}

	filter := repository.StoreFilter{
		OwnerID: ownerID,
		Search:  c.Query("search"),
		Page:    page,
	}
	if raw := c.Query("state"); raw != "" {
		state := model.StoreState(raw)
		if !state.Valid() {
			apperrors.BadRequest(c, apperrors.ValidationInvalidState, "Invalid state")
			return
		}
		filter.State = &state
	}

	stores, err := ctrl.storeService.List(filter)
	if err != nil {
		respondServiceError(c, err, "list stores")
		return
	}
	c.JSON(http.StatusOK, stores)
}

// GET /store/admin/pending
func (ctrl *StoreController) ListPendingStores(c *gin.Context) {
	page, ok := bindPage(c)
	if !ok {
		return
	}

	stores, err := ctrl.storeService.ListPending(page)
	if err != nil {
		respondServiceError(c, err, "list pending stores")
		return
	}
	c.JSON(http.StatusOK, stores)
}

// GET /store/my
func (ctrl *StoreController) GetMyStore(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	store, err := ctrl.storeService.GetMine(actor)
	if err != nil {
		respondServiceError(c, err, "get my store")
		return
	}
	c.JSON(http.StatusOK, store)
}

// GET /store/:id
func (ctrl *StoreController) GetStore(c *gin.Context) {
	id, ok := parseID(c, "id", "store")
	if !ok {
		return
	}

	store, err := ctrl.storeService.Get(id)
	if err != nil {
		respondServiceError(c, err, "get store")
		return
	}
	c.JSON(http.StatusOK, store)
}

// UpdateStore 업체가 수정하면 다시 심사 대기로 돌아간다
// PUT /store/:id
func (ctrl *StoreController) UpdateStore(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id", "store")
	if !ok {
		return
	}

	var req UpdateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.InvalidInput(c)
		return
	}

	store, err := ctrl.storeService.Update(actor, id, service.StoreMutation{
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
		Phone:       req.Phone,
		Hours:       req.Hours,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		respondServiceError(c, err, "update store")
		return
	}
	c.JSON(http.StatusOK, store)
}

// DELETE /store/:id
func (ctrl *StoreController) DeleteStore(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id", "store")
	if !ok {
		return
	}

	if err := ctrl.storeService.Delete(actor, id); err != nil {
		respondServiceError(c, err, "delete store")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Store deleted",
	})
}

// ReviewStore 관리자 심사
// POST /store/:id/review
func (ctrl *StoreController) ReviewStore(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseID(c, "id", "store")
	if !ok {
		return
	}

	var req ReviewStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.InvalidInput(c)
		return
	}

	store, err := ctrl.storeService.Review(id, req.State)
	if err != nil {
		respondServiceError(c, err, "review store")
		return
	}

	log.Info("Store reviewed", map[string]interface{}{
		"store_id": id,
		"state":    req.State,
	})
	c.JSON(http.StatusOK, store)
}
