package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"invoiceservice/internal/app/dto"
	"invoiceservice/internal/app/http/middleware"
	"invoiceservice/internal/domain/invoice"
)

type invoiceItemBody struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

func (h *Handler) InvoiceCreate(c *gin.Context) {
	var body struct {
		CustomerID string            `json:"customerId"`
		Items      []invoiceItemBody `json:"items"`
		Date       *time.Time        `json:"date"`
		Tax        float64           `json:"tax"`
		Status     string            `json:"status"`
	}

	if err := c.ShouldBindJSON(&body); err != nil {
		h.badRequest(c, "invalid JSON")
		return
	}

	if body.CustomerID == "" || len(body.Items) == 0 {
		h.badRequest(c, "customerId and items are required")
		return
	}

	items := make([]invoice.ItemInput, 0, len(body.Items))
	for _, it := range body.Items {
		if it.Name == "" || it.Quantity < 1 || it.Price < 0 {
			h.badRequest(c, "each item needs a name, a positive quantity and a non-negative price")
			return
		}
		items = append(items, invoice.ItemInput{
			Name:     it.Name,
			Quantity: it.Quantity,
			Price:    it.Price,
		})
	}

	in := invoice.CreateInput{
		CustomerID: body.CustomerID,
		Items:      items,
		Tax:        body.Tax,
		Status:     invoice.Status(body.Status),
	}
	if body.Date != nil {
		in.Date = *body.Date
	}

	created, err := h.InvoiceSvc.Create(c.Request.Context(), c.GetString(middleware.UserIDKey), in)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, invoiceDTO(created))
}

func (h *Handler) InvoiceGet(c *gin.Context) {
	inv, err := h.InvoiceSvc.GetByID(c.Request.Context(), c.GetString(middleware.UserIDKey), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, invoiceDTO(inv))
}

func (h *Handler) InvoiceList(c *gin.Context) {
	list, err := h.InvoiceSvc.ListForUser(c.Request.Context(), c.GetString(middleware.UserIDKey))
	if err != nil {
		h.writeError(c, err)
		return
	}

	res := make([]dto.Invoice, 0, len(list))
	for _, inv := range list {
		res = append(res, invoiceDTO(inv))
	}

	c.JSON(http.StatusOK, res)
}

func (h *Handler) InvoiceUpdateStatus(c *gin.Context) {
	var body struct {
		Status string `json:"status"`
	}

	if err := c.ShouldBindJSON(&body); err != nil {
		h.badRequest(c, "invalid JSON")
		return
	}

	if body.Status == "" {
		h.badRequest(c, "status is required")
		return
	}

	inv, err := h.InvoiceSvc.UpdateStatus(
		c.Request.Context(),
		c.GetString(middleware.UserIDKey),
		c.Param("id"),
		invoice.Status(body.Status),
	)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, invoiceDTO(inv))
}

func invoiceDTO(inv invoice.Invoice) dto.Invoice {
	items := make([]dto.InvoiceItem, 0, len(inv.Items))
	for _, it := range inv.Items {
		items = append(items, dto.InvoiceItem{
			Name:     it.Name,
			Quantity: it.Quantity,
			Price:    it.Price,
		})
	}

	return dto.Invoice{
		ID:            inv.ID,
		UserID:        inv.UserID,
		CustomerID:    inv.CustomerID,
		InvoiceNumber: inv.InvoiceNumber,
		Date:          inv.Date,
		Status:        string(inv.Status),
		Items:         items,
		Subtotal:      inv.Subtotal,
		Tax:           inv.Tax,
		Total:         inv.Total,
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
	}
}
