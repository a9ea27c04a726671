package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/phtrivia/phtrivia-backend/internal/http/handlers/common"
	repocommon "github.com/phtrivia/phtrivia-backend/internal/repository/common"
	"github.com/phtrivia/phtrivia-backend/internal/service"
)

// NotificationHandler serves the persisted notification feed.
type NotificationHandler struct {
	svc *service.NotificationService
}

func NewNotificationHandler(svc *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

// List handles GET /notifications.
func (h *NotificationHandler) List(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	limit, offset := common.GetPagination(c)
	notifications, err := h.svc.List(c.Request.Context(), userID, limit, offset)
	if err != nil {
		c.Error(err)
		common.RespondInternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

// MarkRead handles POST /notifications/:id/read.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.svc.MarkRead(c.Request.Context(), userID, id); err != nil {
		if errors.Is(err, repocommon.ErrNotFound) {
			common.RespondNotFound(c, "notification not found")
			return
		}
		c.Error(err)
		common.RespondInternalError(c, "")
		return
	}

	common.RespondSuccess(c, http.StatusOK, "notification marked as read", nil)
}
