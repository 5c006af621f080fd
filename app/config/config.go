package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator"
	"github.com/gofiber/storage/s3/v2"
	"github.com/spf13/viper"

	"jobboard/pkg/utils"
)

// TODO: Move into a separate package
var Validate *validator.Validate

type Config struct {
	ServerPort int    `mapstructure:"SERVER_PORT"`
	DataDir    string `mapstructure:"DATA_DIR"`
	JWTSecret  string `mapstructure:"JWT_SECRET"`
	Origin     string `mapstructure:"ORIGIN"`

	AdminEmail    string `mapstructure:"ADMIN_EMAIL"`
	AdminPassword string `mapstructure:"ADMIN_PASSWORD"`

	MailgunAPIKey  string `mapstructure:"MAILGUN_API_KEY"`
	MailgunDomain  string `mapstructure:"MAILGUN_DOMAIN"`
	MailgunAPIBase string `mapstructure:"MAILGUN_API_BASE"`

	TwilioAccountSID       string `mapstructure:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken        string `mapstructure:"TWILIO_AUTH_TOKEN"`
	TwilioVerifyServiceSID string `mapstructure:"TWILIO_VERIFY_SERVICE_SID"`

	S3Endpoint  string `mapstructure:"S3_ENDPOINT"`
	S3Region    string `mapstructure:"S3_REGION"`
	S3Bucket    string `mapstructure:"S3_BUCKET"`
	S3AccessKey string `mapstructure:"S3_ACCESS_KEY"`
	S3SecretKey string `mapstructure:"S3_SECRET_KEY"`
}

func Load() (*Config, error) {
	viper.SetDefault("SERVER_PORT", 4_000)
	viper.SetDefault("DATA_DIR", "data")
	viper.SetDefault("JWT_SECRET", utils.GenerateRandomString(32))
	viper.SetDefault("ORIGIN", "http://localhost:8080")

	viper.AutomaticEnv()

	viper.BindEnv("ADMIN_EMAIL")
	viper.BindEnv("ADMIN_PASSWORD")

	viper.BindEnv("MAILGUN_API_KEY")
	viper.BindEnv("MAILGUN_DOMAIN")
	viper.BindEnv("MAILGUN_API_BASE")

	viper.BindEnv("TWILIO_ACCOUNT_SID")
	viper.BindEnv("TWILIO_AUTH_TOKEN")
	viper.BindEnv("TWILIO_VERIFY_SERVICE_SID")

	viper.BindEnv("S3_ENDPOINT")
	viper.BindEnv("S3_REGION")
	viper.BindEnv("S3_BUCKET")
	viper.BindEnv("S3_ACCESS_KEY")
	viper.BindEnv("S3_SECRET_KEY")

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/jobboard/")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil, fmt.Errorf("missing admin bootstrap credentials")
	}

	// TODO: Move this to somewhere else
	Validate = validator.New()

	return &cfg, nil
}

// IsProduction reports whether the deployment serves a cross-site HTTPS
// frontend, which flips the session cookie to SameSite=None; Secure.
func (cfg *Config) IsProduction() bool {
	return strings.HasPrefix(cfg.Origin, "https://")
}

// HasTwilio reports whether the mobile verification provider is configured.
func (cfg *Config) HasTwilio() bool {
	return cfg.TwilioAccountSID != "" && cfg.TwilioAuthToken != "" && cfg.TwilioVerifyServiceSID != ""
}

// HasMailgun reports whether email delivery is configured.
func (cfg *Config) HasMailgun() bool {
	return cfg.MailgunAPIKey != "" && cfg.MailgunDomain != ""
}

func (cfg *Config) Storage() *s3.Storage {
	return s3.New(s3.Config{
		Bucket:   cfg.S3Bucket,
		Endpoint: cfg.S3Endpoint,
		Region:   cfg.S3Region,
		Reset:    false,
		Credentials: s3.Credentials{
			AccessKey:       cfg.S3AccessKey,
			SecretAccessKey: cfg.S3SecretKey,
		},
	})
}
