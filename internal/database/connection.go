package database

import (
	"fmt"

	"github.com/setum77/myconfbot-sub000/internal/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // драйвер для PostgreSQL
	"go.uber.org/zap"
	_ "modernc.org/sqlite" // встраиваемый файловый движок
)

// NewConnection создает подключение к базе данных. Движок выбирается
// конфигурацией: postgres (клиент-серверный) или sqlite (файловый).
// Весь остальной код работает одинаково с обоими: запросы используют
// плейсхолдеры $N, которые понимают оба драйвера.
func NewConnection(cfg config.Database, logger *zap.Logger) (*sqlx.DB, error) {
	var (
		db  *sqlx.DB
		err error
	)

	switch cfg.Driver {
	case "postgres":
		dsn := fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
		)
		db, err = sqlx.Connect("postgres", dsn)
		if err == nil {
			db.SetMaxOpenConns(25)
			db.SetMaxIdleConns(5)
		}
	case "sqlite":
		db, err = sqlx.Connect("sqlite", cfg.FilePath)
		if err == nil {
			// файловый движок не любит конкурентных писателей
			db.SetMaxOpenConns(1)
			_, err = db.Exec("PRAGMA foreign_keys = ON")
		}
	default:
		return nil, fmt.Errorf("неизвестный драйвер базы данных: %q", cfg.Driver)
	}

	if err != nil {
		logger.Error("Ошибка подключения к базе данных",
			zap.Error(err),
			zap.String("driver", cfg.Driver),
		)
		return nil, fmt.Errorf("не удалось подключиться к базе данных: %w", err)
	}

	if err := db.Ping(); err != nil {
		logger.Error("Ошибка проверки подключения к базе данных", zap.Error(err))
		return nil, fmt.Errorf("не удалось проверить подключение к базе данных: %w", err)
	}

	logger.Info("Успешное подключение к базе данных", zap.String("driver", cfg.Driver))
	return db, nil
}
