package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SangramSaha/capsule/internal/core/auth"
	resp "github.com/SangramSaha/capsule/internal/transport/http/response"
)

const KeyUserID = "userId"

// AuthJWT 网关：Authorization 头直接放裸 token（历史原因，没有 Bearer 前缀）。
// 缺头 401，解析失败 400，两种情况对调用方都是拒绝访问。
func AuthJWT(j *auth.JWTer) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		if token == "" {
			resp.Fail(c, http.StatusUnauthorized, "No token provided", nil)
			return
		}
		claims, err := j.Parse(token)
		if err != nil {
			resp.Fail(c, http.StatusBadRequest, "Invalid token", err)
			return
		}
		c.Set(KeyUserID, claims.UID)
		c.Next()
	}
}
