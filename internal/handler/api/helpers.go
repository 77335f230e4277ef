package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"blib-backend/internal/handler/middleware"
	"blib-backend/internal/pkg/errs"
)

func intParam(c *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid " + name + " parameter",
		})
		return 0, false
	}
	return v, true
}

// requireSelfOrLibrarian lets a subscriber act only on their own account
// while librarians act on anyone's.
func requireSelfOrLibrarian(c *gin.Context, subscriberID int) bool {
	if middleware.IsLibrarian(c) {
		return true
	}
	userID, ok := middleware.GetUserID(c)
	if !ok || userID != subscriberID {
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Access denied",
		})
		return false
	}
	return true
}

// rejectionStatus maps a business-rule rejection to an HTTP status; store
// failures fall through to 500.
func rejectionStatus(err error) (int, string, bool) {
	switch {
	case errors.Is(err, errs.ErrSubscriberNotFound),
		errors.Is(err, errs.ErrTitleNotFound),
		errors.Is(err, errs.ErrCopyNotFound),
		errors.Is(err, errs.ErrBorrowNotFound):
		return http.StatusNotFound, err.Error(), true
	case errors.Is(err, errs.ErrSubscriberFrozen),
		errors.Is(err, errs.ErrTitleBorrowed),
		errors.Is(err, errs.ErrCopyBorrowed),
		errors.Is(err, errs.ErrOrderedByOther),
		errors.Is(err, errs.ErrExtensionWindowClosed),
		errors.Is(err, errs.ErrBorrowOverdue),
		errors.Is(err, errs.ErrTitleOrdered),
		errors.Is(err, errs.ErrTitleAlreadyOrdered),
		errors.Is(err, errs.ErrCopiesAvailable),
		errors.Is(err, errs.ErrOrderBacklogFull):
		return http.StatusConflict, err.Error(), true
	case errors.Is(err, errs.ErrSubscriberExists):
		return http.StatusConflict, err.Error(), true
	case errors.Is(err, errs.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid subscriber number or password", true
	default:
		return 0, "", false
	}
}

func respondError(c *gin.Context, err error) {
	if status, msg, ok := rejectionStatus(err); ok {
		c.JSON(status, gin.H{"error": msg})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{
		"error": "Internal server error",
	})
}
