package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/SangramSaha/capsule/internal/core/auth"
	"github.com/SangramSaha/capsule/internal/transport/http/handler"
	mdw "github.com/SangramSaha/capsule/internal/transport/http/middleware"
)

func NewAPIEngine(
	l *zap.Logger,
	jwter *auth.JWTer,
	authH *handler.AuthHandler,
	uploadH *handler.UploadHandler,
	capsuleH *handler.CapsuleHandler,
) *gin.Engine {
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(32<<20), // 上传接口要带文件，放宽到 32MB
		mdw.Timeout(30*time.Second),
		ginzap.RecoveryWithZap(l, true),
		mdw.Metrics(),
		mdw.AccessLog(l),
		cors.Default(),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.POST("/auth/login", authH.Login)

	// 鉴权分组
	authed := api.Group("")
	authed.Use(mdw.AuthJWT(jwter))
	authed.POST("/upload", uploadH.Upload)
	authed.POST("/capsules/create", capsuleH.Create)
	authed.GET("/capsules", capsuleH.List)

	return r
}
