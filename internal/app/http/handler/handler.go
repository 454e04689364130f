package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"invoiceservice/internal/domain/customer"
	"invoiceservice/internal/domain/invoice"
	"invoiceservice/internal/domain/notification"
	"invoiceservice/internal/domain/user"
)

type Handler struct {
	UserSvc         user.Service
	CustomerSvc     customer.Service
	InvoiceSvc      invoice.Service
	NotificationSvc notification.Service
	Log             *zap.Logger
}

func New(
	userSvc user.Service,
	customerSvc customer.Service,
	invoiceSvc invoice.Service,
	notificationSvc notification.Service,
	log *zap.Logger,
) *Handler {
	return &Handler{
		UserSvc:         userSvc,
		CustomerSvc:     customerSvc,
		InvoiceSvc:      invoiceSvc,
		NotificationSvc: notificationSvc,
		Log:             log,
	}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
