package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"blib-backend/internal/domain/subscriber"
	reqdto "blib-backend/internal/handler/dto/request"
	resdto "blib-backend/internal/handler/dto/response"
	"blib-backend/internal/handler/middleware"
	"blib-backend/internal/usecase/commands"
	"blib-backend/internal/usecase/queries"
)

type SubscriberHandler struct {
	accounts    commands.AccountCommands
	subscribers queries.SubscriberQueries
}

func NewSubscriberHandler(accounts commands.AccountCommands, subscribers queries.SubscriberQueries) *SubscriberHandler {
	return &SubscriberHandler{
		accounts:    accounts,
		subscribers: subscribers,
	}
}

func (h *SubscriberHandler) Register(c *gin.Context) {
	var req reqdto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	sub := subscriber.Subscriber{
		ID:    req.SubscriberID,
		Name:  req.Name,
		Phone: req.Phone,
		Email: req.Email,
	}
	if err := h.accounts.Register(c.Request.Context(), sub); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

func (h *SubscriberHandler) UpdateDetails(c *gin.Context) {
	subscriberID, ok := intParam(c, "id")
	if !ok {
		return
	}
	if !requireSelfOrLibrarian(c, subscriberID) {
		return
	}

	var req reqdto.UpdateDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	actor := subscriber.ActorSelf
	if middleware.IsLibrarian(c) {
		actor, _ = middleware.GetRole(c)
	}

	if err := h.accounts.UpdateDetails(c.Request.Context(), subscriberID, req.Email, req.Phone, actor); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SubscriberHandler) Get(c *gin.Context) {
	subscriberID, ok := intParam(c, "id")
	if !ok {
		return
	}
	if !requireSelfOrLibrarian(c, subscriberID) {
		return
	}

	sub, err := h.subscribers.Get(c.Request.Context(), subscriberID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.NewSubscriberResponse(*sub))
}

func (h *SubscriberHandler) All(c *gin.Context) {
	subs, err := h.subscribers.All(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.NewSubscriberResponses(subs))
}

func (h *SubscriberHandler) Borrows(c *gin.Context) {
	subscriberID, ok := intParam(c, "id")
	if !ok {
		return
	}
	if !requireSelfOrLibrarian(c, subscriberID) {
		return
	}

	borrows, err := h.subscribers.ActiveBorrows(c.Request.Context(), subscriberID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.NewBorrowResponses(borrows))
}

func (h *SubscriberHandler) Orders(c *gin.Context) {
	subscriberID, ok := intParam(c, "id")
	if !ok {
		return
	}
	if !requireSelfOrLibrarian(c, subscriberID) {
		return
	}

	orders, err := h.subscribers.ActiveOrders(c.Request.Context(), subscriberID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.NewOrderResponses(orders))
}

func (h *SubscriberHandler) History(c *gin.Context) {
	subscriberID, ok := intParam(c, "id")
	if !ok {
		return
	}
	if !requireSelfOrLibrarian(c, subscriberID) {
		return
	}

	history, err := h.subscribers.History(c.Request.Context(), subscriberID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.NewActivityResponses(history))
}
