package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"blib-backend/internal/domain/subscriber"
	reqdto "blib-backend/internal/handler/dto/request"
	"blib-backend/internal/handler/middleware"
	"blib-backend/internal/usecase/commands"
)

type CirculationHandler struct {
	circulation commands.CirculationCommands
	orders      commands.OrderCommands
}

func NewCirculationHandler(circulation commands.CirculationCommands, orders commands.OrderCommands) *CirculationHandler {
	return &CirculationHandler{
		circulation: circulation,
		orders:      orders,
	}
}

func (h *CirculationHandler) Borrow(c *gin.Context) {
	var req reqdto.BorrowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	if err := h.circulation.Borrow(c.Request.Context(), req.SubscriberID, req.CopyID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

func (h *CirculationHandler) Extend(c *gin.Context) {
	copyID, ok := intParam(c, "copyId")
	if !ok {
		return
	}

	var req reqdto.ExtendRequest
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
	requesterID, _ := middleware.GetUserID(c)

	if err := h.circulation.Extend(c.Request.Context(), copyID, req.EffectiveDays(), requesterID, actor); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CirculationHandler) Return(c *gin.Context) {
	copyID, ok := intParam(c, "copyId")
	if !ok {
		return
	}

	if err := h.circulation.Return(c.Request.Context(), copyID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CirculationHandler) Order(c *gin.Context) {
	var req reqdto.OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}
	if !requireSelfOrLibrarian(c, req.SubscriberID) {
		return
	}

	if err := h.orders.Order(c.Request.Context(), req.SubscriberID, req.TitleID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusCreated)
}
