package controllers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vnkhanh/study-schedule-backend/services"
	"github.com/vnkhanh/study-schedule-backend/utils"
)

// Header chứa Gemini API key do người dùng nhập trong phiên; không lưu, không log
const APIKeyHeader = "X-Gemini-Api-Key"

// Deps là các service dùng chung, được gắn vào gin.Context qua middleware.DepsMiddleware
type Deps struct {
	DB        *gorm.DB
	Stores    *services.Stores
	Extractor *services.Extractor
	Navigator *services.Navigator
	Files     services.FileStorage
	Passcode  *utils.PasscodeVerifier
	JWTSecret string
	TokenTTL  time.Duration
	Location  *time.Location
	Now       func() time.Time
	Stats     func() map[string]int
}

func getDeps(c *gin.Context) *Deps {
	return c.MustGet("deps").(*Deps)
}

func (d *Deps) today() time.Time {
	now := time.Now
	if d.Now != nil {
		now = d.Now
	}
	loc := d.Location
	if loc == nil {
		loc = time.UTC
	}
	return now().In(loc)
}

// respondError ánh xạ lỗi nghiệp vụ sang HTTP status
func respondError(c *gin.Context, err error) {
	status, body := errorResponse(err)
	c.JSON(status, body)
}

func errorResponse(err error) (int, gin.H) {
	var (
		verr *services.ValidationError
		perr *services.ParseError
		uerr *services.UpstreamError
		serr *services.StoreError
	)
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, gin.H{"error": verr.Msg, "field": verr.Field}
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound, gin.H{"error": "Không tìm thấy dữ liệu"}
	case errors.Is(err, services.ErrInvalidTransition):
		return http.StatusConflict, gin.H{"error": err.Error()}
	case errors.As(err, &perr):
		return http.StatusUnprocessableEntity, gin.H{"error": perr.Error()}
	case errors.As(err, &uerr):
		status := http.StatusBadGateway
		if uerr.Status == http.StatusGatewayTimeout {
			status = http.StatusGatewayTimeout
		}
		return status, gin.H{"error": uerr.Error(), "upstreamStatus": uerr.Status}
	case errors.As(err, &serr):
		return http.StatusInternalServerError, gin.H{"error": "Lỗi lưu trữ dữ liệu"}
	default:
		log.Printf("Lỗi không xác định: %v", err)
		return http.StatusInternalServerError, gin.H{"error": "Lỗi máy chủ"}
	}
}
