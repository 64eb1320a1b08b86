package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	Port    int    `yaml:"port"`
	GinMode string `yaml:"gin_mode"`
}

type TelegramConfig struct {
	Token         string  `yaml:"token"`
	APIURL        string  `yaml:"api_url"`
	WebhookSecret string  `yaml:"webhook_secret"`
	AdminChatIDs  []int64 `yaml:"admin_chat_ids"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr       string `yaml:"addr"`
	Password   string `yaml:"password"`
	DB         int    `yaml:"db"`
	SessionTTL string `yaml:"session_ttl"`
}

type SchedulerConfig struct {
	Hour     int    `yaml:"hour"`
	Timezone string `yaml:"timezone"`
}

type TwilioConfig struct {
	AccountSID string `yaml:"account_sid"`
	AuthToken  string `yaml:"auth_token"`
	FromNumber string `yaml:"from_number"`
}

type CasbinConfig struct {
	ModelPath string `yaml:"model_path"`
}

type ConfigFile struct {
	App       AppConfig       `yaml:"app"`
	Telegram  TelegramConfig  `yaml:"telegram"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Twilio    TwilioConfig    `yaml:"twilio"`
	Casbin    CasbinConfig    `yaml:"casbin"`
}

type Config struct {
	Port            string
	GinMode         string
	BotToken        string
	BotAPIURL       string
	WebhookSecret   string
	AdminChatIDs    []int64
	DSN             string
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	SessionTTL      time.Duration
	SchedulerHour   int
	Timezone        *time.Location
	TwilioSID       string
	TwilioToken     string
	TwilioFrom      string
	CasbinModelPath string
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func Load() (*Config, error) {
	path := env("CONFIG_PATH", "config/config.yml")
	configFile, err := loadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	sessionTTL := 24 * time.Hour
	if configFile.Redis.SessionTTL != "" {
		sessionTTL, err = time.ParseDuration(configFile.Redis.SessionTTL)
		if err != nil {
			return nil, fmt.Errorf("invalid session TTL: %w", err)
		}
	}

	tz := configFile.Scheduler.Timezone
	if tz == "" {
		tz = "UTC"
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid scheduler timezone %q: %w", tz, err)
	}

	cfg := &Config{
		Port:            fmt.Sprintf("%d", configFile.App.Port),
		GinMode:         configFile.App.GinMode,
		BotToken:        env("BOT_TOKEN", configFile.Telegram.Token),
		BotAPIURL:       configFile.Telegram.APIURL,
		WebhookSecret:   env("WEBHOOK_SECRET", configFile.Telegram.WebhookSecret),
		AdminChatIDs:    configFile.Telegram.AdminChatIDs,
		DSN:             env("DATABASE_DSN", configFile.Database.DSN),
		RedisAddr:       env("REDIS_ADDR", configFile.Redis.Addr),
		RedisPassword:   configFile.Redis.Password,
		RedisDB:         configFile.Redis.DB,
		SessionTTL:      sessionTTL,
		SchedulerHour:   configFile.Scheduler.Hour,
		Timezone:        loc,
		TwilioSID:       configFile.Twilio.AccountSID,
		TwilioToken:     configFile.Twilio.AuthToken,
		TwilioFrom:      configFile.Twilio.FromNumber,
		CasbinModelPath: configFile.Casbin.ModelPath,
	}

	if ids := os.Getenv("ADMIN_CHAT_IDS"); ids != "" {
		parsed, err := parseAdminIDs(ids)
		if err != nil {
			return nil, err
		}
		cfg.AdminChatIDs = parsed
	}
	if cfg.BotAPIURL == "" {
		cfg.BotAPIURL = "https://api.telegram.org"
	}

	return cfg, nil
}

func loadConfigFile(path string) (*ConfigFile, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(bytes, &config); err != nil {
		return nil, fmt.Errorf("could not parse config yaml: %w", err)
	}

	return &config, nil
}

func parseAdminIDs(s string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid admin chat id %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
