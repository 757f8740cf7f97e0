package model

import (
	"github.com/shopspring/decimal"
)

type Item struct {
	ID            uint            `gorm:"primarykey" json:"id"`                     // 메뉴 ID
	Name          string          `gorm:"size:255;not null;index" json:"name"`      // 메뉴명
	Description   string          `gorm:"type:text" json:"description"`             // 설명
	ImageURL      string          `gorm:"size:255" json:"image_url"`                // 이미지
	Price         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"` // 현재 판매가
	StockQuantity int             `gorm:"not null;default:0" json:"quantity"`       // 재고 수량
	StoreID       uint            `gorm:"not null;index" json:"store_id"`           // 매장 ID

	Store Store `gorm:"foreignKey:StoreID;constraint:OnDelete:CASCADE" json:"-"` // 매장 정보
}

func (Item) TableName() string {
	return "items"
}
