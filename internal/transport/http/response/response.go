package response

import "github.com/gin-gonic/gin"

// 错误统一走 {message, error} 信封；成功响应各接口自己定义形状
type ErrBody struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

func Fail(c *gin.Context, status int, msg string, err error) {
	body := ErrBody{Message: msg}
	if err != nil {
		body.Error = err.Error()
	}
	c.AbortWithStatusJSON(status, body)
}

func Message(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"message": msg})
}
