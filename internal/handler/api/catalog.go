package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	resdto "blib-backend/internal/handler/dto/response"
	"blib-backend/internal/usecase/queries"
)

type CatalogHandler struct {
	catalog queries.CatalogQueries
}

func NewCatalogHandler(catalog queries.CatalogQueries) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

func (h *CatalogHandler) Search(c *gin.Context) {
	keyword := c.Query("q")

	titles, err := h.catalog.Search(c.Request.Context(), keyword)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.NewTitleResponses(titles))
}

func (h *CatalogHandler) GetTitle(c *gin.Context) {
	titleID, ok := intParam(c, "titleId")
	if !ok {
		return
	}

	title, err := h.catalog.GetTitle(c.Request.Context(), titleID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.NewTitleResponse(*title))
}

func (h *CatalogHandler) Copies(c *gin.Context) {
	titleID, ok := intParam(c, "titleId")
	if !ok {
		return
	}

	copies, err := h.catalog.CopiesByTitle(c.Request.Context(), titleID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.NewCopyResponses(copies))
}
