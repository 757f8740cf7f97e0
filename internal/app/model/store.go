package model

import (
	"time"
)

type StoreState string // 매장 심사 상태

const (
	StoreStatePending  StoreState = "pending"  // 심사 대기
	StoreStateApproved StoreState = "approved" // 영업 중 (심사 통과)
	StoreStateDisabled StoreState = "disabled" // 비활성화
)

func (s StoreState) Valid() bool {
	switch s {
	case StoreStatePending, StoreStateApproved, StoreStateDisabled:
		return true
	}
	return false
}

type Store struct {
	ID          uint       `gorm:"primarykey" json:"id"`                                           // 매장 ID
	Name        string     `gorm:"size:255;not null;index" json:"name"`                            // 매장명
	Description string     `gorm:"type:text" json:"description"`                                   // 매장 소개
	Address     string     `gorm:"size:255;not null" json:"address"`                               // 주소
	Phone       string     `gorm:"size:50;not null" json:"phone"`                                  // 연락처
	Hours       string     `gorm:"size:100" json:"hours"`                                          // 영업 시간 (예: "10:00-20:00")
	ImageURL    string     `gorm:"size:255" json:"image_url"`                                      // 매장 이미지
	State       StoreState `gorm:"type:varchar(20);default:'pending';index;not null" json:"state"` // 심사 상태
	PublishTime time.Time  `gorm:"autoCreateTime" json:"publish_time"`                             // 등록 시각
	ReviewTime  *time.Time `json:"review_time"`                                                    // 심사 시각
	OwnerID     uint       `gorm:"not null;uniqueIndex" json:"owner_id"`                           // 소유 업체 ID (업체당 1개)

	Owner User `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"` // 소유자 정보
}

func (Store) TableName() string {
	return "stores"
}
