package httpapi

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"invoiceservice/internal/app/http/handler"
	"invoiceservice/internal/app/http/middleware"
)

func NewRouter(h *handler.Handler, jwtSecret []byte, log *zap.Logger) *gin.Engine {
	r := gin.New()

	r.Use(
		gin.Recovery(),
		middleware.ZapLogger(log),
		middleware.ZapRecovery(log),
	)

	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)

	authed := r.Group("/")
	authed.Use(middleware.Auth(jwtSecret))

	authed.POST("/customers", h.CustomerCreate)
	authed.GET("/customers", h.CustomerList)

	authed.POST("/invoices", h.InvoiceCreate)
	authed.GET("/invoices", h.InvoiceList)
	authed.GET("/invoices/:id", h.InvoiceGet)
	authed.PUT("/invoices/:id/status", h.InvoiceUpdateStatus)

	authed.GET("/notifications", h.NotificationList)
	authed.PATCH("/notifications/:id/read", h.NotificationMarkRead)
	authed.PATCH("/notifications/read-all", h.NotificationMarkAllRead)

	return r
}
