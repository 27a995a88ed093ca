package app

import (
	"github.com/setum77/myconfbot-sub000/internal/bot"
	"github.com/setum77/myconfbot-sub000/internal/catalog"
	"github.com/setum77/myconfbot-sub000/internal/config"
	"github.com/setum77/myconfbot-sub000/internal/content"
	"github.com/setum77/myconfbot-sub000/internal/database"
	"github.com/setum77/myconfbot-sub000/internal/logger"
	"github.com/setum77/myconfbot-sub000/internal/orders"
	"github.com/setum77/myconfbot-sub000/internal/photostore"
	"github.com/setum77/myconfbot-sub000/internal/telegram"
	"github.com/setum77/myconfbot-sub000/internal/wizard"

	"go.uber.org/zap"
)

// Run собирает все зависимости и запускает бота
func Run(configPath string, migrate bool) error {
	// Загружаем конфигурацию
	cfg, err := config.NewConfig(configPath)
	if err != nil {
		return err
	}

	// Инициализируем логгер
	logger, err := logger.New(cfg.Logger)
	if err != nil {
		zap.L().Error("не удалось создать логгер", zap.Error(err))
		return err
	}

	// Подключаемся к базе данных
	db, err := database.NewConnection(cfg.Database, logger)
	if err != nil {
		logger.Error("не удалось подключиться к базе данных", zap.Error(err))
		return err
	}

	if migrate {
		if err := database.Migrate(db, cfg.Database.Driver); err != nil {
			logger.Error("не удалось применить миграции", zap.Error(err))
			return err
		}
		logger.Info("миграции применены")
	}

	// Инициализируем репозитории
	userRepo := database.NewUserRepository(db, logger)
	catalogRepo := database.NewCatalogRepository(db, logger)
	orderRepo := database.NewOrderRepository(db, logger)

	// Файловые хранилища: фотографии и редактируемые страницы
	photos, err := photostore.New(cfg.Storage.PhotosPath, logger)
	if err != nil {
		logger.Error("не удалось подготовить хранилище фотографий", zap.Error(err))
		return err
	}
	contentStore, err := content.NewStore(cfg.Storage.ContentPath)
	if err != nil {
		logger.Error("не удалось подготовить хранилище контента", zap.Error(err))
		return err
	}

	// Бизнес-слой
	catalogManager := catalog.NewManager(catalogRepo, photos, logger)
	orderManager := orders.NewManager(orderRepo, catalogRepo, logger)

	// Диалоговое состояние и мастера
	stores, err := bot.NewStores()
	if err != nil {
		logger.Error("не удалось создать хранилища состояния", zap.Error(err))
		return err
	}
	orderWizard := wizard.NewOrderWizard(stores.OrderWizard, catalogManager, orderManager, logger)
	productWizard := wizard.NewProductWizard(stores.ProductSetup, catalogManager, logger)

	// Инициализируем Telegram клиент
	tgClient := telegram.NewTelegramClient(cfg.Telegram.Token)

	// Инициализируем основной сервис бота
	botService := bot.NewService(
		tgClient,
		logger,
		cfg,
		stores,
		userRepo,
		catalogManager,
		orderManager,
		contentStore,
		photos,
		orderWizard,
		productWizard,
	)

	// Запускаем бота
	if err := botService.Start(); err != nil {
		logger.Error("ошибка запуска бота", zap.Error(err))
		return err
	}

	return nil
}
