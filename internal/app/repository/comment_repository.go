package repository

import (
	"time"

	"github.com/ikkim/canteen-backend/internal/app/model"
	"github.com/ikkim/canteen-backend/pkg/logger"
	"gorm.io/gorm"
)

type CommentFilter struct {
	State   *model.CommentState
	StoreID *uint
	UserID  *uint
	Search  string // 내용, 매장명, 작성자명 부분 일치
	Page    model.PageQuery
}

type CommentRepository interface {
	Create(comment *model.Comment) error
	FindByID(id uint) (*model.Comment, error)
	FindViewByID(id uint) (*model.CommentView, error)
	List(filter CommentFilter) ([]model.CommentView, int64, error)
	CountByState(state model.CommentState) (int64, error)
	Update(comment *model.Comment) error
	UpdateState(id uint, state model.CommentState, reviewTime time.Time) error
	Delete(id uint) error
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(comment *model.Comment) error {
	logger.Debug("Creating comment in database", map[string]interface{}{
		"user_id":  comment.UserID,
		"store_id": comment.StoreID,
	})

	if err := r.db.Create(comment).Error; err != nil {
		logger.Error("Failed to create comment in database", err, map[string]interface{}{
			"user_id":  comment.UserID,
			"store_id": comment.StoreID,
		})
		return err
	}

	logger.Debug("Comment created in database", map[string]interface{}{
		"comment_id": comment.ID,
	})
	return nil
}

func (r *commentRepository) FindByID(id uint) (*model.Comment, error) {
	var comment model.Comment
	if err := r.db.First(&comment, id).Error; err != nil {
		logger.Debug("Comment not found by ID", map[string]interface{}{
			"comment_id": id,
			"error":      err.Error(),
		})
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) viewQuery() *gorm.DB {
	return r.db.Table("comments").
		Select("comments.*, users.username AS user_name, stores.name AS store_name").
		Joins("LEFT JOIN users ON users.id = comments.user_id").
		Joins("LEFT JOIN stores ON stores.id = comments.store_id")
}

func (r *commentRepository) FindViewByID(id uint) (*model.CommentView, error) {
	var views []model.CommentView
	if err := r.viewQuery().Where("comments.id = ?", id).Limit(1).Scan(&views).Error; err != nil {
		logger.Error("Failed to find comment view", err, map[string]interface{}{
			"comment_id": id,
		})
		return nil, err
	}
	if len(views) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &views[0], nil
}

func (r *commentRepository) filtered(query *gorm.DB, filter CommentFilter) *gorm.DB {
	if filter.State != nil {
		query = query.Where("comments.state = ?", *filter.State)
	}
	if filter.StoreID != nil {
		query = query.Where("comments.store_id = ?", *filter.StoreID)
	}
	if filter.UserID != nil {
		query = query.Where("comments.user_id = ?", *filter.UserID)
	}
	if filter.Search != "" {
		like := likePattern(filter.Search)
		query = query.Where("LOWER(comments.content) LIKE ? OR comments.store_id IN (?) OR comments.user_id IN (?)",
			like,
			r.db.Model(&model.Store{}).Select("id").Where("LOWER(name) LIKE ?", like),
			r.db.Model(&model.User{}).Select("id").Where("LOWER(username) LIKE ?", like))
	}
	return query
}

func (r *commentRepository) List(filter CommentFilter) ([]model.CommentView, int64, error) {
	page := filter.Page.Normalize()
	logger.Debug("Listing comments", map[string]interface{}{
		"state":    filter.State,
		"store_id": filter.StoreID,
		"user_id":  filter.UserID,
		"skip":     page.Skip,
		"limit":    page.Limit,
	})

	var total int64
	if err := r.filtered(r.db.Model(&model.Comment{}), filter).Count(&total).Error; err != nil {
		logger.Error("Failed to count comments", err)
		return nil, 0, err
	}

	var views []model.CommentView
	if err := r.filtered(r.viewQuery(), filter).
		Order("comments.id DESC").
		Offset(page.Skip).Limit(page.Limit).
		Scan(&views).Error; err != nil {
		logger.Error("Failed to list comments", err)
		return nil, 0, err
	}

	logger.Debug("Comments listed", map[string]interface{}{
		"count": len(views),
		"total": total,
	})
	return views, total, nil
}

func (r *commentRepository) CountByState(state model.CommentState) (int64, error) {
	var count int64
	if err := r.db.Model(&model.Comment{}).Where("state = ?", state).Count(&count).Error; err != nil {
		logger.Error("Failed to count comments by state", err, map[string]interface{}{
			"state": state,
		})
		return 0, err
	}
	return count, nil
}

func (r *commentRepository) Update(comment *model.Comment) error {
	logger.Debug("Updating comment in database", map[string]interface{}{
		"comment_id": comment.ID,
	})

	if err := r.db.Save(comment).Error; err != nil {
		logger.Error("Failed to update comment in database", err, map[string]interface{}{
			"comment_id": comment.ID,
		})
		return err
	}
	return nil
}

func (r *commentRepository) UpdateState(id uint, state model.CommentState, reviewTime time.Time) error {
	logger.Debug("Updating comment state in database", map[string]interface{}{
		"comment_id": id,
		"state":      state,
	})

	result := r.db.Model(&model.Comment{}).Where("id = ?", id).Updates(map[string]interface{}{
		"state":       state,
		"review_time": reviewTime,
	})
	if result.Error != nil {
		logger.Error("Failed to update comment state in database", result.Error, map[string]interface{}{
			"comment_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *commentRepository) Delete(id uint) error {
	logger.Debug("Deleting comment from database", map[string]interface{}{
		"comment_id": id,
	})

	result := r.db.Delete(&model.Comment{}, id)
	if result.Error != nil {
		logger.Error("Failed to delete comment from database", result.Error, map[string]interface{}{
			"comment_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
