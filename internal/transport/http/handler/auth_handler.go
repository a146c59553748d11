package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SangramSaha/capsule/internal/feature/auth"
	resp "github.com/SangramSaha/capsule/internal/transport/http/response"
)

type Authenticator interface {
	Login(ctx context.Context, email, password, name string) (*auth.LoginResult, error)
}

type AuthHandler struct {
	svc Authenticator
}

func NewAuthHandler(svc Authenticator) *AuthHandler { return &AuthHandler{svc: svc} }

// Login POST /api/auth/login：查不到邮箱就自动注册并发 token
func (h *AuthHandler) Login(c *gin.Context) {
	var in struct {
		Email    string `json:"email"    binding:"required,email"`
		Password string `json:"password" binding:"required"`
		Name     string `json:"name"     binding:"omitempty,max=64"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Fail(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	out, err := h.svc.Login(c.Request.Context(), in.Email, in.Password, in.Name)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			resp.Fail(c, http.StatusUnauthorized, "Invalid credentials", nil)
			return
		}
		resp.Fail(c, http.StatusInternalServerError, "Login failed", nil)
		return
	}
	c.JSON(http.StatusOK, out)
}
