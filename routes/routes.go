package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/vnkhanh/study-schedule-backend/controllers"
	"github.com/vnkhanh/study-schedule-backend/middleware"
	"github.com/vnkhanh/study-schedule-backend/ws"
)

func SetupRouter(r *gin.Engine, deps *controllers.Deps) *gin.Engine {
	r.Use(middleware.DBMiddleware(deps.DB), middleware.DepsMiddleware(deps))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
	r.GET("/health", controllers.HealthCheck)

	api := r.Group("/api")

	// 5 lần thử liên tiếp, sau đó 1 lần mỗi 10 giây
	unlockLimiter := rate.NewLimiter(rate.Every(10*time.Second), 5)
	auth := api.Group("/auth")
	{
		auth.POST("/unlock", middleware.RateLimit(unlockLimiter), controllers.UnlockSettings)
	}

	view := api.Group("/view")
	{
		view.Use(middleware.OptionalAuthMiddleware(deps.JWTSecret))
		view.GET("", controllers.GetView)
		view.POST("/:transition", controllers.TransitionView)
	}

	// Dashboard: chỉ đọc
	api.GET("/dashboard", controllers.GetDashboard)
	api.GET("/subjects", controllers.GetSubjects)
	api.GET("/materials", controllers.GetMaterials)
	api.GET("/materials/export", controllers.ExportMaterials)

	// Settings: cần token
	settings := api.Group("")
	{
		settings.Use(middleware.AuthMiddleware(deps.JWTSecret))

		//Quản lý môn học
		settings.POST("/subjects", controllers.CreateSubject)
		settings.DELETE("/subjects/:id", controllers.DeleteSubject)

		//Quản lý material
		settings.POST("/materials", controllers.CreateMaterial)
		settings.DELETE("/materials/:id", controllers.DeleteMaterial)
		settings.POST("/uploads", controllers.UploadMaterialFile)

		//Tạo material bằng Gemini
		settings.POST("/extractions", controllers.ExtractMaterials)
		settings.POST("/extractions/file", controllers.ExtractMaterialsFromFile)
	}

	r.GET("/ws/dashboard", ws.HandleDashboardWebSocket)

	return r
}
