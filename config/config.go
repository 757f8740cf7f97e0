package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server       ServerConfig       `yaml:"server"`
	Database     DatabaseConfig     `yaml:"database"`
	JWT          JWTConfig          `yaml:"jwt"`
	CORS         CORSConfig         `yaml:"cors"`
	SMTP         SMTPConfig         `yaml:"smtp"`
	Verification VerificationConfig `yaml:"verification"`
	Redis        RedisConfig        `yaml:"redis"`
	S3           S3Config           `yaml:"s3"`
	Admin        AdminConfig        `yaml:"admin"`
}

type ServerConfig struct {
	Port        string `yaml:"port"`
	GinMode     string `yaml:"gin_mode"`
	Environment string `yaml:"environment"`
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`
}

type DatabaseConfig struct {
	Host         string `yaml:"host"`
	Port         string `yaml:"port"`
	User         string `yaml:"user"`
	Password     string `yaml:"password"`
	DBName       string `yaml:"dbname"`
	SSLMode      string `yaml:"sslmode"`
	MaxIdleConns int    `yaml:"max_idle_conns"`
	MaxOpenConns int    `yaml:"max_open_conns"`
}

type JWTConfig struct {
	Secret             string        `yaml:"secret"`
	AccessTokenExpiry  time.Duration `yaml:"access_token_expiry"`
	RefreshTokenExpiry time.Duration `yaml:"refresh_token_expiry"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// SMTPConfig 인증 메일 발송 서버 설정 (Host가 비어 있으면 개발 모드로 로그만 남김)
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
	UseTLS   bool   `yaml:"use_tls"`
}

type VerificationConfig struct {
	CodeLength      int           `yaml:"code_length"`
	CodeExpiry      time.Duration `yaml:"code_expiry"`
	CleanupSchedule string        `yaml:"cleanup_schedule"` // cron 표현식, 비어 있으면 비활성화
}

type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type S3Config struct {
	Region          string `yaml:"region"`
	Bucket          string `yaml:"bucket"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	BaseURL         string `yaml:"base_url"` // CloudFront or S3 direct URL
}

// AdminConfig 최초 마이그레이션 시 생성되는 기본 관리자 계정
type AdminConfig struct {
	Username string `yaml:"username"`
	Email    string `yaml:"email"`
	Phone    string `yaml:"phone"`
	Password string `yaml:"password"`
}

// Default 기본 설정값
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        "8080",
			GinMode:     "debug",
			Environment: "development",
			LogLevel:    "",
			LogFormat:   "console",
		},
		Database: DatabaseConfig{
			Host:         "localhost",
			Port:         "5432",
			User:         "postgres",
			Password:     "postgres",
			DBName:       "canteen",
			SSLMode:      "disable",
			MaxIdleConns: 10,
			MaxOpenConns: 100,
		},
		JWT: JWTConfig{
			Secret:             "your-secret-key",
			AccessTokenExpiry:  30 * time.Minute,
			RefreshTokenExpiry: 168 * time.Hour,
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		SMTP: SMTPConfig{
			Port:   587,
			UseTLS: true,
		},
		Verification: VerificationConfig{
			CodeLength:      6,
			CodeExpiry:      10 * time.Minute,
			CleanupSchedule: "@every 1h",
		},
		Redis: RedisConfig{
			Host: "localhost",
			Port: "6379",
		},
		S3: S3Config{
			Region: "ap-northeast-2",
			Bucket: "canteen-uploads",
		},
		Admin: AdminConfig{
			Username: "admin",
			Email:    "admin@ordersystem.com",
			Phone:    "10086",
			Password: "admin123456",
		},
	}
}

// Load 설정 로드 순서: 기본값 -> config.yaml -> 환경변수
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := Default()

	path := getEnv("CONFIG_FILE", "config.yaml")
	if err := loadYAML(path, config); err != nil {
		return nil, err
	}

	applyEnv(config)

	if config.Verification.CodeLength <= 0 {
		return nil, fmt.Errorf("verification code length must be positive, got %d", config.Verification.CodeLength)
	}

	return config, nil
}

func loadYAML(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(c *Config) {
	c.Server.Port = getEnv("SERVER_PORT", c.Server.Port)
	c.Server.GinMode = getEnv("GIN_MODE", c.Server.GinMode)
	c.Server.Environment = getEnv("ENVIRONMENT", c.Server.Environment)
	c.Server.LogLevel = getEnv("LOG_LEVEL", c.Server.LogLevel)
	c.Server.LogFormat = getEnv("LOG_FORMAT", c.Server.LogFormat)

	c.Database.Host = getEnv("DB_HOST", c.Database.Host)
	c.Database.Port = getEnv("DB_PORT", c.Database.Port)
	c.Database.User = getEnv("DB_USER", c.Database.User)
	c.Database.Password = getEnv("DB_PASSWORD", c.Database.Password)
	c.Database.DBName = getEnv("DB_NAME", c.Database.DBName)
	c.Database.SSLMode = getEnv("DB_SSLMODE", c.Database.SSLMode)
	c.Database.MaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", c.Database.MaxIdleConns)
	c.Database.MaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", c.Database.MaxOpenConns)

	c.JWT.Secret = getEnv("JWT_SECRET", c.JWT.Secret)
	c.JWT.AccessTokenExpiry = getEnvDuration("JWT_ACCESS_TOKEN_EXPIRY", c.JWT.AccessTokenExpiry)
	c.JWT.RefreshTokenExpiry = getEnvDuration("JWT_REFRESH_TOKEN_EXPIRY", c.JWT.RefreshTokenExpiry)

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		c.CORS.AllowedOrigins = parseSlice(origins)
	}

	c.SMTP.Host = getEnv("SMTP_HOST", c.SMTP.Host)
	c.SMTP.Port = getEnvInt("SMTP_PORT", c.SMTP.Port)
	c.SMTP.User = getEnv("SMTP_USER", c.SMTP.User)
	c.SMTP.Password = getEnv("SMTP_PASSWORD", c.SMTP.Password)
	c.SMTP.From = getEnv("SMTP_FROM", c.SMTP.From)
	c.SMTP.UseTLS = getEnvBool("SMTP_USE_TLS", c.SMTP.UseTLS)

	c.Verification.CodeLength = getEnvInt("VERIFICATION_CODE_LENGTH", c.Verification.CodeLength)
	c.Verification.CodeExpiry = getEnvDuration("VERIFICATION_CODE_EXPIRY", c.Verification.CodeExpiry)
	if v, ok := os.LookupEnv("VERIFICATION_CLEANUP_SCHEDULE"); ok {
		c.Verification.CleanupSchedule = v
	}

	c.Redis.Enabled = getEnvBool("REDIS_ENABLED", c.Redis.Enabled)
	c.Redis.Host = getEnv("REDIS_HOST", c.Redis.Host)
	c.Redis.Port = getEnv("REDIS_PORT", c.Redis.Port)
	c.Redis.Password = getEnv("REDIS_PASSWORD", c.Redis.Password)
	c.Redis.DB = getEnvInt("REDIS_DB", c.Redis.DB)

	c.S3.Region = getEnv("AWS_REGION", c.S3.Region)
	c.S3.Bucket = getEnv("AWS_S3_BUCKET", c.S3.Bucket)
	c.S3.AccessKeyID = getEnv("AWS_ACCESS_KEY_ID", c.S3.AccessKeyID)
	c.S3.SecretAccessKey = getEnv("AWS_SECRET_ACCESS_KEY", c.S3.SecretAccessKey)
	c.S3.BaseURL = getEnv("AWS_S3_BASE_URL", c.S3.BaseURL)

	c.Admin.Username = getEnv("ADMIN_USERNAME", c.Admin.Username)
	c.Admin.Email = getEnv("ADMIN_EMAIL", c.Admin.Email)
	c.Admin.Phone = getEnv("ADMIN_PHONE", c.Admin.Phone)
	c.Admin.Password = getEnv("ADMIN_PASSWORD", c.Admin.Password)
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Invalid integer %s for %s, using default %d", value, key, defaultValue)
		return defaultValue
	}
	return n
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Invalid boolean %s for %s, using default %t", value, key, defaultValue)
		return defaultValue
	}
	return b
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Invalid duration %s for %s, using default %s", value, key, defaultValue)
		return defaultValue
	}
	return duration
}

func parseSlice(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
