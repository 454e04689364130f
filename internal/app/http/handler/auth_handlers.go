package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"invoiceservice/internal/app/dto"
	"invoiceservice/internal/domain/user"
)

func (h *Handler) Register(c *gin.Context) {
	var body struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.ShouldBindJSON(&body); err != nil {
		h.badRequest(c, "invalid JSON")
		return
	}

	u, token, err := h.UserSvc.Register(c.Request.Context(), body.Name, body.Email, body.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, authResponse(u, token))
}

func (h *Handler) Login(c *gin.Context) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.ShouldBindJSON(&body); err != nil {
		h.badRequest(c, "invalid JSON")
		return
	}

	if body.Email == "" || body.Password == "" {
		h.badRequest(c, "email and password are required")
		return
	}

	u, token, err := h.UserSvc.Login(c.Request.Context(), body.Email, body.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, authResponse(u, token))
}

func authResponse(u user.User, token string) dto.AuthResponse {
	return dto.AuthResponse{
		Token: token,
		User: dto.User{
			ID:    u.ID,
			Name:  u.Name,
			Email: u.Email,
		},
	}
}
