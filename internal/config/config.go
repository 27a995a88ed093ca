package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Database struct {
	Driver         string `yaml:"driver"` // postgres или sqlite
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	User           string `yaml:"user"`
	Password       string `yaml:"password"`
	DBName         string `yaml:"dbname"`
	SSLMode        string `yaml:"sslmode"`
	FilePath       string `yaml:"file_path"` // путь к файлу базы для sqlite
	MigrationsPath string `yaml:"migrations_path"`
}

type Logger struct {
	Level string `yaml:"level"`
	Sink  string `yaml:"sink"`
}

type Telegram struct {
	Token    string  `yaml:"token"`
	AdminIDs []int64 `yaml:"admin_ids"`
}

type Storage struct {
	PhotosPath  string `yaml:"photos_path"`
	ContentPath string `yaml:"content_path"`
}

type AppConfig struct {
	Logger   Logger   `yaml:"log"`
	Telegram Telegram `yaml:"telegram"`
	Database Database `yaml:"database"`
	Storage  Storage  `yaml:"storage"`
}

func NewConfig(path string) (*AppConfig, error) {
	// .env не обязателен, но из него можно переопределить секреты
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %v", err)
	}

	var appConfig AppConfig
	if err := yaml.Unmarshal(data, &appConfig); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %v", err)
	}

	if token := os.Getenv("BOT_TOKEN"); token != "" {
		appConfig.Telegram.Token = token
	}
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		appConfig.Database.Password = password
	}

	if appConfig.Database.Driver == "" {
		appConfig.Database.Driver = "sqlite"
	}
	if appConfig.Storage.PhotosPath == "" {
		appConfig.Storage.PhotosPath = "./data/photos"
	}
	if appConfig.Storage.ContentPath == "" {
		appConfig.Storage.ContentPath = "./data/content"
	}

	return &appConfig, nil
}

// IsAdminID проверяет, входит ли telegram id в список админов из конфига.
// Используется только при первом контакте, дальше роль читается из users.is_admin.
func (c *AppConfig) IsAdminID(telegramID int64) bool {
	for _, id := range c.Telegram.AdminIDs {
		if id == telegramID {
			return true
		}
	}
	return false
}
