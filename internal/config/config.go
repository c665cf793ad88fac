package config

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

// VerificationMode selects how email ownership is proven.
const (
	VerificationModeCode  = "code"  // 6-digit code mailed to the user
	VerificationModeToken = "token" // signed link token mailed to the user
)

type ServerConfig struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	Env       string `yaml:"env"`
	PublicURL string `yaml:"public_url"` // base URL used in emailed links
}

type DatabaseConfig struct {
	DSN string `yaml:"url"`
}

type EmailConfig struct {
	SMTPHost     string `yaml:"smtp_host"`
	SMTPPort     int    `yaml:"smtp_port"`
	SMTPUsername string `yaml:"smtp_user"`
	SMTPPassword string `yaml:"smtp_password"`
	FromEmail    string `yaml:"from_email"`
	FromName     string `yaml:"from_name"`
	UseSSL       bool   `yaml:"use_ssl"`
	TemplatesDir string `yaml:"templates_dir"`
}

type JWTConfig struct {
	Secret   string `yaml:"secret"`
	TTLHours int    `yaml:"ttl_hours"`
}

type VerificationConfig struct {
	Mode           string `yaml:"mode"`             // "code" or "token"
	CodeTTLMinutes int    `yaml:"code_ttl_minutes"` // expiry for code mode
	TokenTTLHours  int    `yaml:"token_ttl_hours"`  // embedded expiry for token mode
}

type Config struct {
	Server       ServerConfig       `yaml:"server"`
	Database     DatabaseConfig     `yaml:"database"`
	Email        EmailConfig        `yaml:"email"`
	JWT          JWTConfig          `yaml:"jwt"`
	Verification VerificationConfig `yaml:"verification"`

	FirstAdminEmail    string `yaml:"first_admin_email"`
	FirstAdminPassword string `yaml:"first_admin_password"`
}

var AppConfig *Config

// LoadConfig populates AppConfig. When DATABASE_URL is set the whole
// configuration is taken from environment variables (the path the test
// harness uses); otherwise it is read from the yaml file at CONFIG_PATH.
func LoadConfig() {
	var cfg Config

	dbURL := os.Getenv("DATABASE_URL")

	if dbURL == "" {
		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}

		f, err := os.Open(configPath)
		if err != nil {
			log.Fatalf("Failed to open config file at %s: %v", configPath, err)
		}
		defer f.Close()

		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			log.Fatalf("Failed to parse config file at %s: %v", configPath, err)
		}

		applyDefaults(&cfg)
		AppConfig = &cfg
		return
	}

	cfg.Database.DSN = dbURL
	cfg.Server.Env = os.Getenv("SERVER_ENV")
	cfg.Server.Port, _ = strconv.Atoi(os.Getenv("SERVER_PORT"))
	cfg.Server.PublicURL = os.Getenv("PUBLIC_URL")
	cfg.JWT.Secret = os.Getenv("JWT_SECRET")

	cfg.Email.SMTPHost = os.Getenv("SMTP_HOST")
	cfg.Email.SMTPPort, _ = strconv.Atoi(os.Getenv("SMTP_PORT"))
	cfg.Email.SMTPUsername = os.Getenv("SMTP_USER")
	cfg.Email.SMTPPassword = os.Getenv("SMTP_PASSWORD")
	cfg.Email.FromEmail = os.Getenv("FROM_EMAIL")
	cfg.Email.TemplatesDir = os.Getenv("TEMPLATES_DIR")

	cfg.Verification.Mode = os.Getenv("VERIFICATION_MODE")
	cfg.FirstAdminEmail = os.Getenv("FIRST_ADMIN_EMAIL")
	cfg.FirstAdminPassword = os.Getenv("FIRST_ADMIN_PASSWORD")

	applyDefaults(&cfg)
	AppConfig = &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.PublicURL == "" {
		cfg.Server.PublicURL = "https://fixer.app"
	}
	if cfg.JWT.TTLHours == 0 {
		cfg.JWT.TTLHours = 24
	}
	if cfg.Verification.Mode == "" {
		cfg.Verification.Mode = VerificationModeCode
	}
	if cfg.Verification.CodeTTLMinutes == 0 {
		cfg.Verification.CodeTTLMinutes = 5
	}
	if cfg.Verification.TokenTTLHours == 0 {
		cfg.Verification.TokenTTLHours = 24
	}
	if cfg.Email.FromName == "" {
		cfg.Email.FromName = "Fixer"
	}
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}
