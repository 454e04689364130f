package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"invoiceservice/internal/app/dto"
	"invoiceservice/internal/app/http/middleware"
	"invoiceservice/internal/domain/customer"
)

func (h *Handler) CustomerCreate(c *gin.Context) {
	var body struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Phone   string `json:"phone"`
		Address string `json:"address"`
	}

	if err := c.ShouldBindJSON(&body); err != nil {
		h.badRequest(c, "invalid JSON")
		return
	}

	created, err := h.CustomerSvc.Create(c.Request.Context(), c.GetString(middleware.UserIDKey), customer.Customer{
		Name:    body.Name,
		Email:   body.Email,
		Phone:   body.Phone,
		Address: body.Address,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, customerDTO(created))
}

func (h *Handler) CustomerList(c *gin.Context) {
	list, err := h.CustomerSvc.ListForUser(c.Request.Context(), c.GetString(middleware.UserIDKey))
	if err != nil {
		h.writeError(c, err)
		return
	}

	res := make([]dto.Customer, 0, len(list))
	for _, cust := range list {
		res = append(res, customerDTO(cust))
	}

	c.JSON(http.StatusOK, res)
}

func customerDTO(c customer.Customer) dto.Customer {
	return dto.Customer{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		CreatedAt: c.CreatedAt,
	}
}
