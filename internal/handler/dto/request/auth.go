package request

type LoginRequest struct {
	SubscriberID int    `json:"subscriber_id" binding:"required"`
	Password     string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	SubscriberID int    `json:"subscriber_id" binding:"required"`
	Name         string `json:"name" binding:"required"`
	Phone        string `json:"phone" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
}

type UpdateDetailsRequest struct {
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone" binding:"required"`
}
