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

type CommentService interface {
	Create(actor Actor, storeID uint, content string) (*model.CommentView, error)
	List(filter repository.CommentFilter) (model.Page[model.CommentView], error)
	ListByStore(storeID uint, page model.PageQuery) (model.Page[model.CommentView], error)
	ListMine(actor Actor, page model.PageQuery) (model.Page[model.CommentView], error)
	ListPending(page model.PageQuery) (model.Page[model.CommentView], error)
	Get(id uint) (*model.CommentView, error)
	Update(actor Actor, id uint, content string) (*model.CommentView, error)
	Delete(actor Actor, id uint) error
	BatchDelete(actor Actor, ids []uint) (*model.BatchDeleteResult, error)
	Review(id uint, state model.CommentState) (*model.CommentView, error)
}

type commentService struct {
	db          *gorm.DB
	commentRepo repository.CommentRepository
	storeRepo   repository.StoreRepository
	now         func() time.Time
}

func NewCommentService(db *gorm.DB, commentRepo repository.CommentRepository, storeRepo repository.StoreRepository) CommentService {
	return &commentService{
		db:          db,
		commentRepo: commentRepo,
		storeRepo:   storeRepo,
		now:         time.Now,
	}
}

func (s *commentService) Create(actor Actor, storeID uint, content string) (*model.CommentView, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	if _, err := s.storeRepo.FindByID(storeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, err
	}

	comment := &model.Comment{
		Content: content,
		State:   model.CommentStatePending,
		UserID:  actor.UserID,
		StoreID: storeID,
	}
	if err := s.commentRepo.Create(comment); err != nil {
		return nil, err
	}

	logger.Info("Comment created, awaiting review", map[string]interface{}{
		"comment_id": comment.ID,
		"store_id":   storeID,
		"user_id":    actor.UserID,
	})
	return s.Get(comment.ID)
}

// List state 가 없으면 게시된 리뷰만 조회
func (s *commentService) List(filter repository.CommentFilter) (model.Page[model.CommentView], error) {
	if filter.State == nil {
		approved := model.CommentStateApproved
		filter.State = &approved
	}
	return s.list(filter)
}

func (s *commentService) ListByStore(storeID uint, page model.PageQuery) (model.Page[model.CommentView], error) {
	if _, err := s.storeRepo.FindByID(storeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Page[model.CommentView]{}, ErrStoreNotFound
		}
		return model.Page[model.CommentView]{}, err
	}

	approved := model.CommentStateApproved
	return s.list(repository.CommentFilter{StoreID: &storeID, State: &approved, Page: page})
}

func (s *commentService) ListMine(actor Actor, page model.PageQuery) (model.Page[model.CommentView], error) {
	return s.list(repository.CommentFilter{UserID: &actor.UserID, Page: page})
}

func (s *commentService) ListPending(page model.PageQuery) (model.Page[model.CommentView], error) {
	pending := model.CommentStatePending
	return s.list(repository.CommentFilter{State: &pending, Page: page})
}

func (s *commentService) list(filter repository.CommentFilter) (model.Page[model.CommentView], error) {
	filter.Page = filter.Page.Normalize()
	comments, total, err := s.commentRepo.List(filter)
	if err != nil {
		return model.Page[model.CommentView]{}, err
	}
	return model.NewPage(comments, total, filter.Page), nil
}

func (s *commentService) Get(id uint) (*model.CommentView, error) {
	comment, err := s.commentRepo.FindViewByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return comment, nil
}

// Update 작성자만 수정할 수 있고 수정하면 다시 심사 대기 상태가 된다
func (s *commentService) Update(actor Actor, id uint, content string) (*model.CommentView, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	comment, err := s.commentRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	if comment.UserID != actor.UserID {
		logger.Warn("Comment update forbidden", map[string]interface{}{
			"comment_id": id,
			"user_id":    actor.UserID,
		})
		return nil, ErrForbidden
	}

	comment.Content = content
	comment.State = model.CommentStatePending
	comment.ReviewTime = nil
	if err := s.commentRepo.Update(comment); err != nil {
		return nil, err
	}

	logger.Info("Comment updated, awaiting review", map[string]interface{}{
		"comment_id": id,
	})
	return s.Get(id)
}

func (s *commentService) Delete(actor Actor, id uint) error {
	if err := deleteComment(s.commentRepo, actor, id); err != nil {
		return err
	}

	logger.Info("Comment deleted", map[string]interface{}{
		"comment_id": id,
		"user_id":    actor.UserID,
	})
	return nil
}

func (s *commentService) BatchDelete(actor Actor, ids []uint) (*model.BatchDeleteResult, error) {
	return batchDelete(s.db, "comment", ids, func(tx *gorm.DB, id uint) error {
		return deleteComment(repository.NewCommentRepository(tx), actor, id)
	})
}

func deleteComment(repo repository.CommentRepository, actor Actor, id uint) error {
	comment, err := repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return err
	}
	if !actor.IsAdmin() && comment.UserID != actor.UserID {
		logger.Warn("Comment delete forbidden", map[string]interface{}{
			"comment_id": id,
			"user_id":    actor.UserID,
		})
		return ErrForbidden
	}

	if err := repo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return err
	}
	return nil
}

func (s *commentService) Review(id uint, state model.CommentState) (*model.CommentView, error) {
	if !state.Valid() {
		return nil, ErrInvalidState
	}

	if err := s.commentRepo.UpdateState(id, state, s.now()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}

	logger.Info("Comment reviewed", map[string]interface{}{
		"comment_id": id,
		"state":      state,
	})
	return s.Get(id)
}
