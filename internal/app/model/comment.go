package model

import (
	"time"
)

type CommentState string // 리뷰 심사 상태

const (
	CommentStatePending  CommentState = "pending"  // 심사 대기
	CommentStateApproved CommentState = "approved" // 게시
	CommentStateRejected CommentState = "rejected" // 반려
)

func (s CommentState) Valid() bool {
	switch s {
	case CommentStatePending, CommentStateApproved, CommentStateRejected:
		return true
	}
	return false
}

type Comment struct {
	ID          uint         `gorm:"primarykey" json:"id"`                                           // 리뷰 ID
	Content     string       `gorm:"type:text;not null" json:"content"`                              // 내용
	State       CommentState `gorm:"type:varchar(20);default:'pending';index;not null" json:"state"` // 심사 상태
	PublishTime time.Time    `gorm:"autoCreateTime" json:"publish_time"`                             // 작성 시각
	ReviewTime  *time.Time   `json:"review_time"`                                                    // 심사 시각
	UserID      uint         `gorm:"not null;index" json:"user_id"`                                  // 작성자 ID
	StoreID     uint         `gorm:"not null;index" json:"store_id"`                                 // 매장 ID

	User  User  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`  // 작성자 정보
	Store Store `gorm:"foreignKey:StoreID;constraint:OnDelete:CASCADE" json:"-"` // 매장 정보
}

func (Comment) TableName() string {
	return "comments"
}
