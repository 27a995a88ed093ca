package bot

import (
	"github.com/setum77/myconfbot-sub000/internal/catalog"
	"github.com/setum77/myconfbot-sub000/internal/config"
	"github.com/setum77/myconfbot-sub000/internal/content"
	"github.com/setum77/myconfbot-sub000/internal/database"
	"github.com/setum77/myconfbot-sub000/internal/models"
	"github.com/setum77/myconfbot-sub000/internal/orders"
	"github.com/setum77/myconfbot-sub000/internal/photostore"
	"github.com/setum77/myconfbot-sub000/internal/state"
	"github.com/setum77/myconfbot-sub000/internal/wizard"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// TelegramClient - интерфейс для взаимодействия с Telegram API
type TelegramClient interface {
	SendMessage(chatID int64, text string) error
	SendMarkdownMessage(chatID int64, text string) error
	SendMessageWithKeyboard(chatID int64, text string, keyboard tgbotapi.ReplyKeyboardMarkup) error
	SendMessageWithInlineKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) error
	SendPhoto(chatID int64, path, caption string) error
	SendPhotoGroup(chatID int64, paths []string, caption string) error
	EditMessage(chatID int64, messageID int, text string) error
	DeleteMessage(chatID int64, messageID int) error
	AckCallback(callbackID, toast string) error
	DownloadPhoto(photoRef string) ([]byte, error)

	StartBot() (chan models.IncomingMessage, chan models.CallbackQuery, error)
}

// Stores - независимые пространства диалогового состояния.
// Один пользователь может числиться сразу в нескольких - это допущение
// исходного поведения, а не гарантия.
type Stores struct {
	Conversation *state.Store[ProfileRecord]
	Management   *state.Store[ManageRecord]
	OrderWizard  *state.Store[wizard.OrderRecord]
	ProductSetup *state.Store[wizard.ProductRecord]
}

// NewStores создает все пространства состояния
func NewStores() (*Stores, error) {
	conversation, err := state.NewStore[ProfileRecord]()
	if err != nil {
		return nil, err
	}
	management, err := state.NewStore[ManageRecord]()
	if err != nil {
		return nil, err
	}
	orderWizard, err := state.NewStore[wizard.OrderRecord]()
	if err != nil {
		return nil, err
	}
	productSetup, err := state.NewStore[wizard.ProductRecord]()
	if err != nil {
		return nil, err
	}
	return &Stores{
		Conversation: conversation,
		Management:   management,
		OrderWizard:  orderWizard,
		ProductSetup: productSetup,
	}, nil
}

// Service - основной сервис бота
type Service struct {
	telegram      TelegramClient
	logger        *zap.Logger
	cfg           *config.AppConfig
	stores        *Stores
	users         *database.UserRepository
	catalog       *catalog.Manager
	orders        *orders.Manager
	content       *content.Store
	photos        *photostore.Storage
	orderWizard   *wizard.OrderWizard
	productWizard *wizard.ProductWizard
}

// NewService - создает новый экземпляр основного сервиса бота
func NewService(
	telegram TelegramClient,
	logger *zap.Logger,
	cfg *config.AppConfig,
	stores *Stores,
	users *database.UserRepository,
	catalogManager *catalog.Manager,
	orderManager *orders.Manager,
	contentStore *content.Store,
	photos *photostore.Storage,
	orderWizard *wizard.OrderWizard,
	productWizard *wizard.ProductWizard,
) *Service {
	return &Service{
		telegram:      telegram,
		logger:        logger,
		cfg:           cfg,
		stores:        stores,
		users:         users,
		catalog:       catalogManager,
		orders:        orderManager,
		content:       contentStore,
		photos:        photos,
		orderWizard:   orderWizard,
		productWizard: productWizard,
	}
}

// Start - запускает обработку сообщений и callback-запросов
func (s *Service) Start() error {
	messagesChan, callbacksChan, err := s.telegram.StartBot()
	if err != nil {
		s.logger.Error("ошибка при запуске бота",
			zap.Error(err),
		)
		return err
	}

	// Нажатия на кнопки обрабатываются в отдельной горутине
	go func() {
		for callback := range callbacksChan {
			s.logger.Info("получен callback-запрос",
				zap.String("data", callback.Data),
				zap.Int64("user_id", callback.UserID),
			)

			if err := s.HandleCallback(callback); err != nil {
				s.logger.Error("ошибка при обработке callback-запроса",
					zap.Error(err),
					zap.String("data", callback.Data),
					zap.Int64("user_id", callback.UserID),
				)
				s.telegram.SendMessage(callback.ChatID, errTryLater)
			}
		}
	}()

	for message := range messagesChan {
		s.logger.Info("получено сообщение",
			zap.Int64("chat_id", message.ChatID),
			zap.String("text", message.Text),
		)

		if err := s.HandleMessage(message); err != nil {
			s.logger.Error("ошибка при обработке сообщения",
				zap.Error(err),
				zap.Int64("chat_id", message.ChatID),
			)
			s.telegram.SendMessage(message.ChatID, errTryLater)
		}
	}

	return nil
}

// notifyAdmins рассылает сообщение всем админам
func (s *Service) notifyAdmins(text string) {
	admins, err := s.users.ListAdmins()
	if err != nil {
		s.logger.Error("не удалось получить список админов", zap.Error(err))
		return
	}
	for _, admin := range admins {
		if err := s.telegram.SendMessage(admin.TelegramID, text); err != nil {
			s.logger.Warn("не удалось уведомить админа",
				zap.Error(err),
				zap.Int64("telegram_id", admin.TelegramID),
			)
		}
	}
}
