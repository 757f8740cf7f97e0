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

type CommentController struct {
	commentService service.CommentService
}

func NewCommentController(commentService service.CommentService) *CommentController {
	return &CommentController{
		commentService: commentService,
	}
}

type CreateCommentRequest struct {
	StoreID uint   `json:"store_id" binding:"required"`
	Content string `json:"content" binding:"required,max=2000"`
}

type UpdateCommentRequest struct {
	Content string `json:"content" binding:"required,max=2000"`
}

type ReviewCommentRequest struct {
	State model.CommentState `json:"state" binding:"required"`
}

// CreateComment 매장 리뷰 작성 (심사 후 게시)
// POST /comment
func (ctrl *CommentController) CreateComment(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.InvalidInput(c)
		return
	}

	comment, err := ctrl.commentService.Create(actor, req.StoreID, req.Content)
	if err != nil {
		respondServiceError(c, err, "create comment")
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// GET /comment?skip&limit&store_id&state&search
func (ctrl *CommentController) ListComments(c *gin.Context) {
	page, ok := bindPage(c)
	if !ok {
		return
	}
	storeID, ok := optionalUint(c, "store_id")
	if !ok {
		return
	}

	filter := repository.CommentFilter{
		StoreID: storeID,
		Search:  c.Query("search"),
		Page:    page,
	}
	if raw := c.Query("state"); raw != "" {
		state := model.CommentState(raw)
		if !state.Valid() {
			apperrors.BadRequest(c, apperrors.ValidationInvalidState, "Invalid state")
			return
		}
		filter.State = &state
	}

	comments, err := ctrl.commentService.List(filter)
	if err != nil {
		respondServiceError(c, err, "list comments")
		return
	}
	c.JSON(http.StatusOK, comments)
}

// GET /comment/store/:store_id
func (ctrl *CommentController) ListStoreComments(c *gin.Context) {
	storeID, ok := parseID(c, "store_id", "store")
	if !ok {
		return
	}
	page, ok := bindPage(c)
	if !ok {
		return
	}

	comments, err := ctrl.commentService.ListByStore(storeID, page)
	if err != nil {
		respondServiceError(c, err, "list store comments")
		return
	}
	c.JSON(http.StatusOK, comments)
}

// GET /comment/my
func (ctrl *CommentController) ListMyComments(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	page, ok := bindPage(c)
	if !ok {
		return
	}

	comments, err := ctrl.commentService.ListMine(actor, page)
	if err != nil {
		respondServiceError(c, err, "list my comments")
		return
	}
	c.JSON(http.StatusOK, comments)
}

// GET /comment/admin/pending
func (ctrl *CommentController) ListPendingComments(c *gin.Context) {
	page, ok := bindPage(c)
	if !ok {
		return
	}

	comments, err := ctrl.commentService.ListPending(page)
	if err != nil {
		respondServiceError(c, err, "list pending comments")
		return
	}
	c.JSON(http.StatusOK, comments)
}

// GET /comment/:id
func (ctrl *CommentController) GetComment(c *gin.Context) {
	id, ok := parseID(c, "id", "comment")
	if !ok {
		return
	}

	comment, err := ctrl.commentService.Get(id)
	if err != nil {
		respondServiceError(c, err, "get comment")
		return
	}
	c.JSON(http.StatusOK, comment)
}

// PUT /comment/:id
func (ctrl *CommentController) UpdateComment(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id", "comment")
	if !ok {
		return
	}

	var req UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.InvalidInput(c)
		return
	}

	comment, err := ctrl.commentService.Update(actor, id, req.Content)
	if err != nil {
		respondServiceError(c, err, "update comment")
		return
	}
	c.JSON(http.StatusOK, comment)
}

// DELETE /comment/:id
func (ctrl *CommentController) DeleteComment(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id", "comment")
	if !ok {
		return
	}

	if err := ctrl.commentService.Delete(actor, id); err != nil {
		respondServiceError(c, err, "delete comment")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Comment deleted",
	})
}

// POST /comment/batch-delete
func (ctrl *CommentController) BatchDeleteComments(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req BatchDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.InvalidInput(c)
		return
	}

	result, err := ctrl.commentService.BatchDelete(actor, req.IDs)
	if err != nil {
		respondServiceError(c, err, "batch delete comments")
		return
	}
	c.JSON(http.StatusOK, result)
}

// POST /comment/:id/review
func (ctrl *CommentController) ReviewComment(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseID(c, "id", "comment")
	if !ok {
		return
	}

	var req ReviewCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.InvalidInput(c)
		return
	}

	comment, err := ctrl.commentService.Review(id, req.State)
	if err != nil {
		respondServiceError(c, err, "review comment")
		return
	}

	log.Info("Comment reviewed", map[string]interface{}{
		"comment_id": id,
		"state":      req.State,
	})
	c.JSON(http.StatusOK, comment)
}
