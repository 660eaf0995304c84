package main

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/vnkhanh/study-schedule-backend/config"
	"github.com/vnkhanh/study-schedule-backend/controllers"
	"github.com/vnkhanh/study-schedule-backend/routes"
	"github.com/vnkhanh/study-schedule-backend/services"
	"github.com/vnkhanh/study-schedule-backend/utils"
	"github.com/vnkhanh/study-schedule-backend/ws"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("Không tìm thấy file .env")
	}

	cfg := config.Load()
	config.InitDB(cfg)

	passcode, err := utils.NewPasscodeVerifier(cfg.SettingsPasscode, cfg.SettingsPasscodeHash)
	if err != nil {
		log.Fatal("SETTINGS_PASSCODE_HASH không hợp lệ: ", err)
	}
	if !passcode.Configured() {
		log.Println("Chưa cấu hình SETTINGS_PASSCODE, khu vực settings sẽ bị khoá")
	}
	if cfg.JWTSecret == "" {
		log.Println("Chưa cấu hình JWT_SECRET, không thể cấp settings token")
	}

	stores := services.NewStores(config.DB, cfg.Location)
	stores.Notify = ws.H.NotifyChange

	deps := &controllers.Deps{
		DB:        config.DB,
		Stores:    stores,
		Extractor: services.NewExtractor(services.NewGeminiGenerator(cfg.GeminiModel, cfg.GeminiAPIKey), cfg.ExtractionTimeout),
		Navigator: services.NewNavigator(),
		Passcode:  passcode,
		JWTSecret: cfg.JWTSecret,
		TokenTTL:  cfg.SettingsTokenTTL,
		Location:  cfg.Location,
		Stats:     ws.H.GetStats,
	}

	if storage := utils.NewSupabaseStorage(cfg.SupabaseURL, cfg.SupabaseKey, cfg.SupabaseBucket); storage != nil {
		deps.Files = storage
		stores.Files = storage
		utils.StartUploadCleanupJob(config.DB, storage, cfg.UploadRetention)
	} else {
		log.Println("Chưa cấu hình Supabase, tắt upload file")
	}

	r := gin.Default()

	//Bật CORS
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Auth-Token", controllers.APIKeyHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
	}))
	r = routes.SetupRouter(r, deps)

	r.GET("/", func(c *gin.Context) {
		c.String(200, "Study schedule server is running")
	})

	log.Println("Server running at Port:" + cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
