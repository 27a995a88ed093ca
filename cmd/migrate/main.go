package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/setum77/myconfbot-sub000/internal/config"
	"github.com/setum77/myconfbot-sub000/internal/database"

	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "./config/config.yaml", "Путь к файлу конфигурации")
	flag.Parse()

	// Загружаем конфигурацию
	cfg, err := config.NewConfig(*configPath)
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	// Подключаемся к базе данных
	db, err := database.NewConnection(cfg.Database, zap.NewNop())
	if err != nil {
		log.Fatalf("Ошибка подключения к базе данных: %v", err)
	}
	defer db.Close()

	// Выполняем миграцию
	if err := database.Migrate(db, cfg.Database.Driver); err != nil {
		log.Fatalf("Ошибка выполнения миграции: %v", err)
	}

	fmt.Println("Миграция успешно выполнена")
}
