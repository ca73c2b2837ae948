package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"salescheck/constants"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Env         string
	LogLevel    string
	StoreDriver string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	MongoURI      string
	MongoDatabase string

	RedisAddr     string
	RedisUser     string
	RedisPassword string

	AccessTokenSecret  string
	AccessTokenMinutes int
	GoogleClientID     string
	AdminEmails        []string

	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string

	CloudinaryURL string

	GeocoderProvider string
	GeocoderURL      string
	GoongAPIKey      string
	GeocoderTimeout  time.Duration

	GeolocationTimeout time.Duration
	GeolocationMaxAge  time.Duration

	Timezone       *time.Location
	DefaultLocale  string
	FormResetDelay time.Duration
}

func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}
}

func GetEnv(key string) string {
	return os.Getenv(key)
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Load đọc .env (nếu có) rồi đọc cấu hình từ biến môi trường
func Load() (*Config, error) {
	LoadEnv()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("ENV", "dev"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		StoreDriver: strings.ToLower(getEnv("STORE_DRIVER", constants.StoreDriverPostgres)),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     getEnv("DB_NAME", "salescheck"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		MongoURI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGODB_DATABASE", "salescheck"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisUser:     os.Getenv("REDIS_USER"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		AccessTokenSecret: os.Getenv("SECRET_KEY_ACCESS_TOKEN"),
		GoogleClientID:    os.Getenv("GOOGLE_CLIENT_ID"),
		AdminEmails:       splitList(os.Getenv("ADMIN_EMAILS")),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getEnv("SMTP_PORT", "587"),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:     os.Getenv("SMTP_FROM"),

		CloudinaryURL: os.Getenv("CLOUDINARY_URL"),

		GeocoderProvider: strings.ToLower(getEnv("GEOCODER_PROVIDER", constants.GeocoderNominatim)),
		GeocoderURL:      os.Getenv("GEOCODER_URL"),
		GoongAPIKey:      os.Getenv("GOONG_API_KEY"),

		DefaultLocale: getEnv("DEFAULT_LOCALE", "en"),
	}

	var err error
	if cfg.AccessTokenMinutes, err = getInt("ACCESS_TOKEN_MINUTES", constants.DefaultAccessTokenMins); err != nil {
		return nil, err
	}
	if cfg.GeocoderTimeout, err = getDuration("GEOCODER_TIMEOUT", 8*time.Second); err != nil {
		return nil, err
	}
	if cfg.GeolocationTimeout, err = getDuration("GEOLOCATION_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}
	if cfg.GeolocationMaxAge, err = getDuration("GEOLOCATION_MAX_AGE", 0); err != nil {
		return nil, err
	}
	if cfg.FormResetDelay, err = getDuration("FORM_RESET_DELAY", constants.DefaultFormResetDelay); err != nil {
		return nil, err
	}
	if cfg.Timezone, err = time.LoadLocation(getEnv("APP_TIMEZONE", "Asia/Kolkata")); err != nil {
		return nil, fmt.Errorf("APP_TIMEZONE: %w", err)
	}

	switch cfg.StoreDriver {
	case constants.StoreDriverPostgres, constants.StoreDriverMongo, constants.StoreDriverMemory:
	default:
		return nil, fmt.Errorf("STORE_DRIVER: unknown driver %q", cfg.StoreDriver)
	}
	if cfg.AccessTokenSecret == "" {
		if cfg.Env == "prod" {
			return nil, fmt.Errorf("SECRET_KEY_ACCESS_TOKEN is required in prod")
		}
		log.Println("Warning: SECRET_KEY_ACCESS_TOKEN not set, using an insecure development key")
		cfg.AccessTokenSecret = "dev-insecure-secret"
	}

	return cfg, nil
}

// ConnectCloudinary trả về nil khi chưa cấu hình CLOUDINARY_URL
func ConnectCloudinary(url string) (*cloudinary.Cloudinary, error) {
	if url == "" {
		return nil, nil
	}
	cld, err := cloudinary.NewFromURL(url)
	if err != nil {
		return nil, fmt.Errorf("Lỗi khi khởi tạo Cloudinary: %w", err)
	}
	return cld, nil
}
