package main

import (
	"flag"
	"log"
	"os"

	"github.com/setum77/myconfbot-sub000/internal/app"
)

func main() {
	// Флаги для запуска миграций
	runMigrations := flag.Bool("migrate", true, "Запустить миграции базы данных")
	configPath := flag.String("config", "./config/config.yaml", "Путь к файлу конфигурации")
	flag.Parse()

	// Проверка существования файла конфигурации
	_, err := os.Stat(*configPath)
	if os.IsNotExist(err) {
		log.Fatalf("Конфигурационный файл не найден: %s", *configPath)
	}

	log.Printf("Запуск приложения с параметрами:\n")
	log.Printf("- Конфигурационный файл: %s\n", *configPath)
	log.Printf("- Запуск миграций: %v\n", *runMigrations)

	if err := app.Run(*configPath, *runMigrations); err != nil {
		log.Fatal(err)
	}
}
