package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App          AppConfig
	Database     DatabaseConfig
	SMTP         SMTPConfig
	VNPay        VNPayConfig
	Judge        JudgeConfig
	BankTransfer BankTransferConfig
	Scheduler    SchedulerConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	JwtSecret          string
	EmailTopic         string
}

type DatabaseConfig struct {
	Connection string
	LogLevel   string // silent, error, warn, info
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type VNPayConfig struct {
	URL           string
	TmnCode       string
	HashSecret    string
	ReturnURL     string
	ExpireMinutes int
}

type JudgeConfig struct {
	BaseURL string
	Host    string
	APIKey  string
	Timeout time.Duration
}

// BankTransferConfig holds the static instructions shown for manual transfers.
type BankTransferConfig struct {
	BankID        string // VietQR bank bin / short name
	BankName      string
	AccountNumber string
	AccountName   string
	Branch        string
}

type SchedulerConfig struct {
	ReconcileSpec   string
	StalePendingTTL time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:4200"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:4200"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			JwtSecret:          getEnv("JWT_SECRET", ""),
			EmailTopic:         getEnv("ENROLLMENT_EMAIL_TOPIC", "ENROLLMENT_EMAIL"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
			LogLevel:   getEnv("DB_LOG_LEVEL", "warn"),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "LearnHub"),
		},
		VNPay: VNPayConfig{
			URL:           getEnv("VNPAY_URL", "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html"),
			TmnCode:       getEnv("VNPAY_TMN_CODE", ""),
			HashSecret:    getEnv("VNPAY_HASH_SECRET", ""),
			ReturnURL:     getEnv("VNPAY_RETURN_URL", "http://localhost:4200/payment/vnpay-return"),
			ExpireMinutes: getEnvAsInt("VNPAY_EXPIRE_MINUTES", 15),
		},
		Judge: JudgeConfig{
			BaseURL: getEnv("JUDGE0_API_URL", "https://judge0-ce.p.rapidapi.com"),
			Host:    getEnv("JUDGE0_API_HOST", "judge0-ce.p.rapidapi.com"),
			APIKey:  getEnv("JUDGE0_API_KEY", ""),
			Timeout: getEnvAsDuration("JUDGE0_TIMEOUT", 30*time.Second),
		},
		BankTransfer: BankTransferConfig{
			BankID:        getEnv("BANK_ID", "970436"),
			BankName:      getEnv("BANK_NAME", "Vietcombank"),
			AccountNumber: getEnv("BANK_ACCOUNT_NUMBER", ""),
			AccountName:   getEnv("BANK_ACCOUNT_NAME", ""),
			Branch:        getEnv("BANK_BRANCH", ""),
		},
		Scheduler: SchedulerConfig{
			ReconcileSpec:   getEnv("RECONCILE_CRON", "*/5 * * * *"),
			StalePendingTTL: getEnvAsDuration("STALE_PENDING_TTL", 30*time.Minute),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
