package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

func DBMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("db", db)
		c.Next()
	}
}

// DepsMiddleware gắn các service dùng chung vào context cho controller
func DepsMiddleware(deps interface{}) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("deps", deps)
		c.Next()
	}
}

// RateLimit chặn request khi limiter hết lượt
func RateLimit(limiter *rate.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Thử quá nhiều lần, vui lòng đợi rồi thử lại"})
			c.Abort()
			return
		}
		c.Next()
	}
}
