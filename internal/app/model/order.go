package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderState string // 주문 상태

const (
	OrderStatePending   OrderState = "pending"   // 접수 대기
	OrderStateApproved  OrderState = "approved"  // 업체 수락
	OrderStateCompleted OrderState = "completed" // 수령 완료
	OrderStateCancelled OrderState = "cancelled" // 취소
)

func (s OrderState) Valid() bool {
	switch s {
	case OrderStatePending, OrderStateApproved, OrderStateCompleted, OrderStateCancelled:
		return true
	}
	return false
}

// HoldsStock 재고를 점유 중인 상태인지 (취소 시 재고 복구 대상)
func (s OrderState) HoldsStock() bool {
	return s == OrderStatePending || s == OrderStateApproved
}

type Order struct {
	ID           uint            `gorm:"primarykey" json:"id"`                                           // 주문 ID
	UserID       uint            `gorm:"not null;index" json:"user_id"`                                  // 주문자 ID
	StoreID      uint            `gorm:"not null;index" json:"store_id"`                                 // 매장 ID
	State        OrderState      `gorm:"type:varchar(20);default:'pending';index;not null" json:"state"` // 주문 상태
	TotalAmount  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`                // 주문 총액 (스냅샷 단가 기준)
	ContactPhone string          `gorm:"size:50" json:"contact_phone,omitempty"`                         // 연락처
	PickupTime   string          `gorm:"size:50" json:"pickup_time,omitempty"`                           // 희망 수령 시간
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"create_time"`                              // 주문 시각
	ReviewTime   *time.Time      `json:"review_time"`                                                    // 상태 변경 시각

	User  User        `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`  // 주문자 정보
	Store Store       `gorm:"foreignKey:StoreID;constraint:OnDelete:CASCADE" json:"-"` // 매장 정보
	Lines []OrderLine `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"-"` // 주문 항목
}

func (Order) TableName() string {
	return "orders"
}

// OrderLine 주문 항목. 단가와 메뉴명은 주문 시점 값으로 고정된다.
type OrderLine struct {
	ID        uint            `gorm:"primarykey" json:"id"`                          // 주문 항목 ID
	OrderID   uint            `gorm:"not null;index" json:"order_id"`                // 주문 ID
	ItemID    *uint           `gorm:"index" json:"item_id"`                          // 메뉴 ID (메뉴 삭제 시 null)
	ItemName  string          `gorm:"size:255;not null" json:"item_name"`            // 메뉴명 스냅샷
	Quantity  int             `gorm:"not null" json:"quantity"`                      // 수량
	ItemPrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"item_price"` // 단가 스냅샷

	Item *Item `gorm:"foreignKey:ItemID;constraint:OnDelete:SET NULL" json:"-"` // 메뉴 정보
}

func (OrderLine) TableName() string {
	return "order_lines"
}

// Subtotal 단가 * 수량
func (l OrderLine) Subtotal() decimal.Decimal {
	return l.ItemPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
