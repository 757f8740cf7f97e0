package model

// 목록/상세 응답용 조회 모델 (연관 엔티티 이름을 함께 반환)

type StoreView struct {
	Store
	OwnerName string `json:"owner_name"`
}

type ItemView struct {
	Item
	StoreName string `json:"store_name"`
}

type OrderView struct {
	Order
	UserName  string      `json:"user_name"`
	StoreName string      `json:"store_name"`
	Items     []OrderLine `gorm:"-" json:"items"`
}

type CommentView struct {
	Comment
	UserName  string `json:"user_name"`
	StoreName string `json:"store_name"`
}
