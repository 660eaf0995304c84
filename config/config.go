package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vnkhanh/study-schedule-backend/models"
)

var DB *gorm.DB

type Config struct {
	Port     string
	DBHost   string
	DBPort   string
	DBUser   string
	DBPass   string
	DBName   string
	DBDebug  bool
	Location *time.Location

	CORSOrigins []string

	GeminiAPIKey      string
	GeminiModel       string
	ExtractionTimeout time.Duration

	SettingsPasscode     string
	SettingsPasscodeHash string
	JWTSecret            string
	SettingsTokenTTL     time.Duration

	SupabaseURL     string
	SupabaseKey     string
	SupabaseBucket  string
	UploadRetention time.Duration
}

// Load đọc cấu hình từ biến môi trường (sau khi godotenv.Load đã chạy)
func Load() Config {
	tz := getenv("APP_TIMEZONE", "Asia/Ho_Chi_Minh")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("APP_TIMEZONE %q không hợp lệ, dùng UTC: %v", tz, err)
		loc = time.UTC
	}

	return Config{
		Port:     getenv("PORT", "8080"),
		DBHost:   os.Getenv("DB_HOST"),
		DBPort:   getenv("DB_PORT", "5432"),
		DBUser:   os.Getenv("DB_USER"),
		DBPass:   os.Getenv("DB_PASSWORD"),
		DBName:   os.Getenv("DB_NAME"),
		DBDebug:  getenvBool("DB_DEBUG", false),
		Location: loc,

		CORSOrigins: splitList(getenv("CORS_ORIGINS", "http://localhost:5173")),

		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		GeminiModel:       getenv("GEMINI_MODEL", "gemini-2.0-flash"),
		ExtractionTimeout: getenvDuration("EXTRACTION_TIMEOUT", 45*time.Second),

		SettingsPasscode:     os.Getenv("SETTINGS_PASSCODE"),
		SettingsPasscodeHash: os.Getenv("SETTINGS_PASSCODE_HASH"),
		JWTSecret:            os.Getenv("JWT_SECRET"),
		SettingsTokenTTL:     getenvDuration("SETTINGS_TOKEN_TTL", 12*time.Hour),

		SupabaseURL:     strings.TrimRight(os.Getenv("SUPABASE_URL"), "/"),
		SupabaseKey:     os.Getenv("SUPABASE_KEY"),
		SupabaseBucket:  getenv("SUPABASE_BUCKET", "uploads"),
		UploadRetention: getenvDuration("UPLOAD_RETENTION", 24*time.Hour),
	}
}

func (c Config) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=%s",
		c.DBHost, c.DBUser, c.DBPass, c.DBName, c.DBPort, c.Location.String(),
	)
}

func InitDB(cfg Config) {
	logLevel := logger.Warn
	if cfg.DBDebug {
		logLevel = logger.Info
	}

	// Kết nối DB với logger
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		log.Fatal("Không thể kết nối database:", err)
	}

	DB = db

	// Lấy *sql.DB để config connection pooling
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("Không thể lấy sql.DB từ gorm:", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := Migrate(DB); err != nil {
		log.Fatal("autoMigrate lỗi: ", err)
	}
	log.Println("postgreSQL connected & migrated successfully!")
}

// Migrate tạo/cập nhật bảng cho các model
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Subject{},
		&models.Material{},
		&models.Upload{},
	)
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getenvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	if val := os.Getenv(key + "_SECONDS"); val != "" {
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}

func splitList(val string) []string {
	var out []string
	for _, part := range strings.Split(val, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
