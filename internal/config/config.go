package config

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`

	JWT struct {
		Secret string `yaml:"secret"`
		TTL    int    `yaml:"ttl"` // minutes
	} `yaml:"jwt"`

	Admin struct {
		Email    string `yaml:"email"`
		Password string `yaml:"password"`
	} `yaml:"admin"`

	Storage struct {
		Type            string `yaml:"type"`      // local, cloudflare_r2
		BasePath        string `yaml:"base_path"` // For local storage
		BaseURL         string `yaml:"base_url"`  // Public URL base
		UploadsBucket   string `yaml:"uploads_bucket"`
		IconsBucket     string `yaml:"icons_bucket"`
		AccessKey       string `yaml:"access_key"`
		SecretKey       string `yaml:"secret_key"`
		Endpoint        string `yaml:"endpoint"`
		CacheControlAge int    `yaml:"cache_control_age"` // seconds
	} `yaml:"storage"`

	Upload struct {
		MaxSize      int64    `yaml:"max_size"`      // Max file size in bytes
		AllowedTypes []string `yaml:"allowed_types"` // Allowed MIME types
	} `yaml:"upload"`
}

var AppConfig *Config

func LoadConfig() {
	var cfg Config

	dbURL := os.Getenv("DATABASE_URL")

	if dbURL == "" {
		log.Println("Загрузка из config.yaml")

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

	log.Println("Загрузка конфигурации из переменных окружения")

	cfg.Database.DSN = dbURL
	cfg.Server.Env = os.Getenv("SERVER_ENV")
	cfg.Server.Port, _ = strconv.Atoi(os.Getenv("SERVER_PORT"))
	cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	cfg.JWT.TTL = 60
	cfg.Admin.Email = os.Getenv("ADMIN_EMAIL")
	cfg.Admin.Password = os.Getenv("ADMIN_PASSWORD")

	cfg.Storage.Type = "local"
	cfg.Storage.BasePath = "./uploads"
	cfg.Storage.BaseURL = "/api/v1/files"

	applyDefaults(&cfg)
	AppConfig = &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Storage.UploadsBucket == "" {
		cfg.Storage.UploadsBucket = "uploads"
	}
	if cfg.Storage.IconsBucket == "" {
		cfg.Storage.IconsBucket = "tech-stacks"
	}
	if cfg.Storage.CacheControlAge == 0 {
		cfg.Storage.CacheControlAge = 3600
	}
	if cfg.Upload.MaxSize == 0 {
		cfg.Upload.MaxSize = 10 * 1024 * 1024 // 10MB
	}
	if len(cfg.Upload.AllowedTypes) == 0 {
		cfg.Upload.AllowedTypes = []string{
			"image/jpeg", "image/png", "image/gif", "image/webp",
			"image/svg+xml",
		}
	}
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}
