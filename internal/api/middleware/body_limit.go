package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"alpimi-planner/backend/pkg/response"
)

// BodyLimit 请求体大小限制中间件
// 声明了 Content-Length 且超限时直接返回 413；分块传输由 MaxBytesReader 在读取时截断
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes <= 0 || c.Request.Body == nil {
			c.Next()
			return
		}

		if c.Request.ContentLength > maxBytes {
			response.Error(c, http.StatusRequestEntityTooLarge, 10005, "请求体过大")
			c.Abort()
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
