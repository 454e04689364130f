package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"invoiceservice/internal/app/dto"
	"invoiceservice/internal/app/http/middleware"
	"invoiceservice/internal/domain/notification"
)

func (h *Handler) NotificationList(c *gin.Context) {
	opts := notification.ListOptions{
		UnreadOnly: c.Query("unreadOnly") == "true",
	}
	if v, err := strconv.Atoi(c.Query("limit")); err == nil {
		opts.Limit = v
	}
	if v, err := strconv.Atoi(c.Query("page")); err == nil {
		opts.Page = v
	}

	items, page, err := h.NotificationSvc.ListForUser(c.Request.Context(), c.GetString(middleware.UserIDKey), opts)
	if err != nil {
		h.writeError(c, err)
		return
	}

	res := dto.NotificationList{
		Items: make([]dto.Notification, 0, len(items)),
		Pagination: dto.Pagination{
			Total: page.Total,
			Page:  page.Page,
			Pages: page.Pages,
		},
	}
	for _, n := range items {
		res.Items = append(res.Items, notificationDTO(n))
	}

	c.JSON(http.StatusOK, res)
}

func (h *Handler) NotificationMarkRead(c *gin.Context) {
	n, err := h.NotificationSvc.MarkAsRead(c.Request.Context(), c.GetString(middleware.UserIDKey), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, notificationDTO(n))
}

func (h *Handler) NotificationMarkAllRead(c *gin.Context) {
	updated, err := h.NotificationSvc.MarkAllAsRead(c.Request.Context(), c.GetString(middleware.UserIDKey))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MarkAllReadResponse{
		Message: "All notifications marked as read",
		Updated: updated,
	})
}

func notificationDTO(n notification.Notification) dto.Notification {
	return dto.Notification{
		ID:         n.ID,
		UserID:     n.UserID,
		Type:       string(n.Type),
		Title:      n.Title,
		Message:    n.Message,
		EntityType: n.EntityType,
		EntityID:   n.EntityID,
		IsRead:     n.IsRead,
		CreatedAt:  n.CreatedAt,
		UpdatedAt:  n.UpdatedAt,
	}
}
