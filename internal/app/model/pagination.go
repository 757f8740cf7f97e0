package model

const (
	DefaultPageLimit = 100
	MaxPageLimit     = 500
)

// PageQuery skip/limit 기반 페이지 요청
type PageQuery struct {
	Skip  int `form:"skip"`
	Limit int `form:"limit"`
}

// Normalize 음수 skip, 범위를 벗어난 limit 보정
func (q PageQuery) Normalize() PageQuery {
	if q.Skip < 0 {
		q.Skip = 0
	}
	if q.Limit <= 0 {
		q.Limit = DefaultPageLimit
	}
	if q.Limit > MaxPageLimit {
		q.Limit = MaxPageLimit
	}
	return q
}

// Current 1부터 시작하는 현재 페이지 번호
func (q PageQuery) Current() int {
	q = q.Normalize()
	return q.Skip/q.Limit + 1
}

// Page 목록 응답 공통 형식
type Page[T any] struct {
	Records []T   `json:"records"`
	Total   int64 `json:"total"`
	Current int   `json:"current"`
	Size    int   `json:"size"`
}

func NewPage[T any](records []T, total int64, q PageQuery) Page[T] {
	q = q.Normalize()
	if records == nil {
		records = []T{}
	}
	return Page[T]{
		Records: records,
		Total:   total,
		Current: q.Current(),
		Size:    q.Limit,
	}
}

// BatchDeleteResult 일괄 삭제 결과 (부분 성공 허용)
type BatchDeleteResult struct {
	SuccessCount int    `json:"success_count"`
	FailedCount  int    `json:"failed_count"`
	FailedIDs    []uint `json:"failed_ids"`
	Message      string `json:"message"`
}
