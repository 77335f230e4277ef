package response

import (
	"time"

	"blib-backend/internal/usecase/queries"
)

type SubscriberResponse struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	Email  string `json:"email"`
	Status string `json:"status"`
}

func NewSubscriberResponse(v queries.SubscriberView) SubscriberResponse {
	return SubscriberResponse{
		ID:     v.ID,
		Name:   v.Name,
		Phone:  v.Phone,
		Email:  v.Email,
		Status: v.Status,
	}
}

func NewSubscriberResponses(views []queries.SubscriberView) []SubscriberResponse {
	resps := make([]SubscriberResponse, 0, len(views))
	for _, v := range views {
		resps = append(resps, NewSubscriberResponse(v))
	}
	return resps
}

type BorrowResponse struct {
	CopyID       int    `json:"copy_id"`
	TitleID      int    `json:"title_id"`
	TitleName    string `json:"title_name"`
	DateOfBorrow string `json:"date_of_borrow"`
	DueDate      string `json:"due_date"`
}

func NewBorrowResponses(views []queries.BorrowView) []BorrowResponse {
	resps := make([]BorrowResponse, 0, len(views))
	for _, v := range views {
		resps = append(resps, BorrowResponse{
			CopyID:       v.CopyID,
			TitleID:      v.TitleID,
			TitleName:    v.TitleName,
			DateOfBorrow: v.DateOfBorrow.Format(time.DateOnly),
			DueDate:      v.DueDate.Format(time.DateOnly),
		})
	}
	return resps
}

type OrderResponse struct {
	ID         int     `json:"id"`
	TitleID    int     `json:"title_id"`
	TitleName  string  `json:"title_name"`
	CopyID     *int    `json:"copy_id,omitempty"`
	OrderDate  string  `json:"order_date"`
	ArriveDate *string `json:"arrive_date,omitempty"`
}

func NewOrderResponses(views []queries.OrderView) []OrderResponse {
	resps := make([]OrderResponse, 0, len(views))
	for _, v := range views {
		resp := OrderResponse{
			ID:        v.ID,
			TitleID:   v.TitleID,
			TitleName: v.TitleName,
			CopyID:    v.CopyID,
			OrderDate: v.OrderDate.Format(time.DateOnly),
		}
		if v.ArriveDate != nil {
			d := v.ArriveDate.Format(time.DateOnly)
			resp.ArriveDate = &d
		}
		resps = append(resps, resp)
	}
	return resps
}

type ActivityResponse struct {
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
}

func NewActivityResponses(views []queries.ActivityView) []ActivityResponse {
	resps := make([]ActivityResponse, 0, len(views))
	for _, v := range views {
		resps = append(resps, ActivityResponse{
			Type:        v.Type,
			Description: v.Description,
			Date:        v.Date,
		})
	}
	return resps
}

type NoticeResponse struct {
	ID        int64     `json:"id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

func NewNoticeResponses(views []queries.NoticeView) []NoticeResponse {
	resps := make([]NoticeResponse, 0, len(views))
	for _, v := range views {
		resps = append(resps, NoticeResponse{
			ID:        v.ID,
			Message:   v.Message,
			CreatedAt: v.CreatedAt,
		})
	}
	return resps
}
