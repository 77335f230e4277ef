package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	reqdto "blib-backend/internal/handler/dto/request"
	resdto "blib-backend/internal/handler/dto/response"
	"blib-backend/internal/usecase/commands"
	"blib-backend/internal/usecase/queries"
)

// LibrarianHandler groups the staff-only surface: account status, notices
// and report retrieval.
type LibrarianHandler struct {
	status         commands.StatusCommands
	noticeCommands commands.NoticeCommands
	notices        queries.NoticeQueries
	reports        queries.ReportQueries
}

func NewLibrarianHandler(
	status commands.StatusCommands,
	noticeCommands commands.NoticeCommands,
	notices queries.NoticeQueries,
	reports queries.ReportQueries,
) *LibrarianHandler {
	return &LibrarianHandler{
		status:         status,
		noticeCommands: noticeCommands,
		notices:        notices,
		reports:        reports,
	}
}

func (h *LibrarianHandler) Freeze(c *gin.Context) {
	subscriberID, ok := intParam(c, "id")
	if !ok {
		return
	}

	var req reqdto.FreezeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}
	if req.Reason == "" {
		req.Reason = "frozen by librarian"
	}

	if err := h.status.Freeze(c.Request.Context(), subscriberID, req.Reason); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *LibrarianHandler) Unfreeze(c *gin.Context) {
	subscriberID, ok := intParam(c, "id")
	if !ok {
		return
	}

	if err := h.status.Unfreeze(c.Request.Context(), subscriberID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *LibrarianHandler) Notices(c *gin.Context) {
	notices, err := h.notices.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.NewNoticeResponses(notices))
}

func (h *LibrarianHandler) ClearNotices(c *gin.Context) {
	if err := h.noticeCommands.ClearNotices(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *LibrarianHandler) Report(c *gin.Context) {
	kind := c.Param("kind")
	year, ok := intParam(c, "year")
	if !ok {
		return
	}
	month, ok := intParam(c, "month")
	if !ok {
		return
	}

	doc, err := h.reports.Get(c.Request.Context(), kind, year, month)
	if err != nil {
		if errors.Is(err, queries.ErrReportNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Report not found",
			})
			return
		}
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", doc)
}
