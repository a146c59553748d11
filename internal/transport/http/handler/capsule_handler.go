package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SangramSaha/capsule/internal/domain"
	"github.com/SangramSaha/capsule/internal/feature/capsule"
	mdw "github.com/SangramSaha/capsule/internal/transport/http/middleware"
	resp "github.com/SangramSaha/capsule/internal/transport/http/response"
)

type CapsuleOps interface {
	Create(ctx context.Context, userID string, in capsule.CreateInput) error
	List(ctx context.Context, userID string) ([]domain.Capsule, error)
}

type CapsuleHandler struct {
	svc CapsuleOps
}

func NewCapsuleHandler(svc CapsuleOps) *CapsuleHandler { return &CapsuleHandler{svc: svc} }

// Create POST /api/capsules/create：body 原样入库，只认登录态里的 userId
func (h *CapsuleHandler) Create(c *gin.Context) {
	var in capsule.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Fail(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.svc.Create(c.Request.Context(), c.GetString(mdw.KeyUserID), in); err != nil {
		// 落库失败不向外暴露细节
		resp.Fail(c, http.StatusInternalServerError, "Error creating capsule", nil)
		return
	}
	resp.Message(c, http.StatusCreated, "Capsule created successfully")
}

// List GET /api/capsules：走旁路缓存，返回裸数组
func (h *CapsuleHandler) List(c *gin.Context) {
	out, err := h.svc.List(c.Request.Context(), c.GetString(mdw.KeyUserID))
	if err != nil {
		resp.Fail(c, http.StatusInternalServerError, "Error fetching capsules", nil)
		return
	}
	if out == nil {
		out = []domain.Capsule{}
	}
	c.JSON(http.StatusOK, out)
}
