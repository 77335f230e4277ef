package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	reqdto "blib-backend/internal/handler/dto/request"
	resdto "blib-backend/internal/handler/dto/response"
	"blib-backend/internal/usecase/commands"
)

type AuthHandler struct {
	accounts commands.AccountCommands
}

func NewAuthHandler(accounts commands.AccountCommands) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req reqdto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.accounts.Login(c.Request.Context(), req.SubscriberID, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.LoginResponse{
		AccessToken: result.Token,
		Role:        result.Role,
	})
}
