package request

import "blib-backend/internal/domain/borrow"

type BorrowRequest struct {
	SubscriberID int `json:"subscriber_id" binding:"required"`
	CopyID       int `json:"copy_id" binding:"required"`
}

type ExtendRequest struct {
	Days int `json:"days"`
}

// EffectiveDays falls back to the standard extension length.
func (r ExtendRequest) EffectiveDays() int {
	if r.Days <= 0 {
		return borrow.ExtensionDays
	}
	return r.Days
}

type OrderRequest struct {
	SubscriberID int `json:"subscriber_id" binding:"required"`
	TitleID      int `json:"title_id" binding:"required"`
}

type FreezeRequest struct {
	Reason string `json:"reason"`
}
