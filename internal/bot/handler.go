package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/setum77/myconfbot-sub000/internal/database"
	"github.com/setum77/myconfbot-sub000/internal/models"
	"github.com/setum77/myconfbot-sub000/internal/wizard"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// ProfileRecord - состояние редактирования профиля (пространство "диалог")
type ProfileRecord struct {
	Field string // full_name, phone или address
}

// HandleMessage - основной обработчик входящих сообщений.
// Сначала выясняем, не находится ли пользователь в середине диалога,
// и только потом трактуем текст как команду.
func (s *Service) HandleMessage(msg models.IncomingMessage) error {
	user, err := s.users.EnsureUser(msg.TelegramID, msg.FullName, s.cfg.IsAdminID(msg.TelegramID))
	if err != nil {
		return err
	}

	// Фотографии нужны мастеру товара и шагу статуса заказа
	if msg.PhotoRef != "" {
		if handled, err := s.handleIncomingPhoto(user, msg); handled || err != nil {
			return err
		}
	}

	// Маршрутизация по активным диалогам. Мастера ключуются по id
	// пользователя в базе: заказ создается от его имени.
	if s.orderWizard.InProgress(user.ID) {
		outcome, err := s.orderWizard.Handle(user.ID, msg.Text)
		if err != nil {
			return err
		}
		if outcome.Done {
			s.notifyAdmins(fmt.Sprintf("🔔 Новый заказ №%d от %s", outcome.OrderID, user.FullName))
		}
		return s.sendOutcome(msg.ChatID, user.IsAdmin, outcome)
	}

	if user.IsAdmin && s.productWizard.InProgress(user.ID) {
		outcome, err := s.productWizard.Handle(user.ID, msg.Text)
		if err != nil {
			return err
		}
		return s.sendOutcome(msg.ChatID, user.IsAdmin, outcome)
	}

	// Пространство "управление" используют и админы, и клиенты,
	// пишущие сообщение по заказу
	if _, inManagement := s.stores.Management.Get(user.TelegramID); inManagement {
		return s.handleManageInput(user, msg)
	}

	if record, editing := s.stores.Conversation.Get(user.TelegramID); editing {
		return s.handleProfileInput(user, msg, record)
	}

	return s.handleCommand(user, msg)
}

// handleCommand обрабатывает команды и кнопки главного меню
func (s *Service) handleCommand(user models.User, msg models.IncomingMessage) error {
	switch {
	case strings.HasPrefix(msg.Text, "/start"):
		return s.sendWelcome(msg.ChatID, user)
	case msg.Text == buttonCatalog:
		return s.sendCatalog(msg.ChatID)
	case msg.Text == buttonMyOrders:
		return s.sendMyOrders(msg.ChatID, user)
	case msg.Text == buttonAbout:
		return s.sendContentPage(msg.ChatID, "about")
	case msg.Text == buttonDelivery:
		return s.sendContentPage(msg.ChatID, "delivery")
	case msg.Text == buttonPayment:
		return s.sendContentPage(msg.ChatID, "payment")
	case msg.Text == buttonProfile:
		return s.sendProfile(msg.ChatID, user)
	case user.IsAdmin && msg.Text == buttonAdmin:
		return s.telegram.SendMessageWithKeyboard(msg.ChatID, "Админка:", adminKeyboard())
	case user.IsAdmin && msg.Text == buttonAdmBack:
		return s.telegram.SendMessageWithKeyboard(msg.ChatID, "Главное меню:", mainKeyboard(true))
	case user.IsAdmin && msg.Text == buttonAdmCategories:
		return s.sendAdminCategories(msg.ChatID)
	case user.IsAdmin && msg.Text == buttonAdmNewProduct:
		outcome, err := s.productWizard.Start(user.ID)
		if err != nil {
			return err
		}
		return s.sendOutcome(msg.ChatID, true, outcome)
	case user.IsAdmin && msg.Text == buttonAdmOrders:
		return s.sendAdminOrders(msg.ChatID)
	case user.IsAdmin && msg.Text == buttonAdmContent:
		return s.sendContentMenu(msg.ChatID)
	}

	return s.telegram.SendMessage(msg.ChatID, "Не понимаю. Отправьте /start, чтобы открыть меню.")
}

func (s *Service) sendWelcome(chatID int64, user models.User) error {
	text := fmt.Sprintf("Здравствуйте, %s! 🧁\nЗдесь можно посмотреть каталог, оформить заказ и следить за его статусом.", user.FullName)
	return s.telegram.SendMessageWithKeyboard(chatID, text, mainKeyboard(user.IsAdmin))
}

func (s *Service) sendCatalog(chatID int64) error {
	categories, err := s.catalog.Categories()
	if err != nil {
		return err
	}
	if len(categories) == 0 {
		return s.telegram.SendMessage(chatID, "Каталог пока пуст")
	}
	return s.telegram.SendMessageWithInlineKeyboard(chatID, "Выберите категорию:", categoriesInline(categories))
}

func (s *Service) sendMyOrders(chatID int64, user models.User) error {
	userOrders, err := s.orders.OrdersByUser(user.ID)
	if err != nil {
		return err
	}
	if len(userOrders) == 0 {
		return s.telegram.SendMessage(chatID, "У вас пока нет заказов")
	}

	for _, order := range userOrders {
		status, err := s.orders.CurrentStatus(order.ID)
		if err != nil {
			return err
		}
		if err := s.telegram.SendMessageWithInlineKeyboard(
			chatID,
			renderOrderLine(order, status.Status),
			customerOrderInline(order.ID),
		); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) sendContentPage(chatID int64, slug string) error {
	text, err := s.content.Get(slug)
	if err != nil {
		return err
	}
	if text == "" {
		text = "Страница пока не заполнена"
	}
	return s.telegram.SendMarkdownMessage(chatID, text)
}

func (s *Service) sendProfile(chatID int64, user models.User) error {
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✏️ Имя", "profile_edit:full_name"),
			tgbotapi.NewInlineKeyboardButtonData("📞 Телефон", "profile_edit:phone"),
			tgbotapi.NewInlineKeyboardButtonData("🏠 Адрес", "profile_edit:address"),
		),
	)
	return s.telegram.SendMessageWithInlineKeyboard(chatID, renderProfile(user), keyboard)
}

// handleProfileInput - ввод нового значения поля профиля
func (s *Service) handleProfileInput(user models.User, msg models.IncomingMessage, record ProfileRecord) error {
	if wizard.IsCancel(msg.Text) {
		s.stores.Conversation.Clear(user.TelegramID)
		return s.telegram.SendMessageWithKeyboard(msg.ChatID, "Редактирование отменено", mainKeyboard(user.IsAdmin))
	}

	minLen := 2
	if record.Field == "address" {
		minLen = 5
	}
	value, err := wizard.ValidateText(msg.Text, minLen, false)
	if err != nil {
		var vErr *wizard.ValidationError
		if errors.As(err, &vErr) {
			return s.telegram.SendMessage(msg.ChatID, vErr.Msg)
		}
		return err
	}

	found, err := s.users.UpdateProfileField(user.ID, record.Field, value)
	if err != nil {
		return err
	}
	if !found {
		s.stores.Conversation.Clear(user.TelegramID)
		return s.telegram.SendMessage(msg.ChatID, errTryLater)
	}

	s.stores.Conversation.Clear(user.TelegramID)
	return s.telegram.SendMessageWithKeyboard(msg.ChatID, "Сохранено ✅", mainKeyboard(user.IsAdmin))
}

// handleIncomingPhoto передает фотографию активному диалогу, который её ждет.
// Возвращает handled=false, если фотографию никто не ждал.
func (s *Service) handleIncomingPhoto(user models.User, msg models.IncomingMessage) (bool, error) {
	if user.IsAdmin && s.productWizard.InProgress(user.ID) {
		data, err := s.telegram.DownloadPhoto(msg.PhotoRef)
		if err != nil {
			s.logger.Error("не удалось скачать фотографию",
				zap.Error(err),
				zap.Int64("telegram_id", user.TelegramID),
			)
			return true, s.telegram.SendMessage(msg.ChatID, "Не удалось получить фотографию, попробуйте еще раз")
		}
		outcome, err := s.productWizard.HandlePhoto(user.ID, data)
		if err != nil {
			return true, err
		}
		return true, s.sendOutcome(msg.ChatID, user.IsAdmin, outcome)
	}

	if user.IsAdmin {
		if record, ok := s.stores.Management.Get(user.TelegramID); ok {
			switch record.Action {
			case ManageOrderStatusPhoto:
				return true, s.handleStatusPhoto(user, msg, record)
			case ManagePhotoAdd:
				return true, s.handleProductPhotoAdd(user, msg, record)
			}
		}
	}

	return false, nil
}

// sendOutcome превращает результат шага мастера в сообщения
func (s *Service) sendOutcome(chatID int64, isAdmin bool, outcome wizard.Outcome) error {
	if outcome.Prompt != nil {
		if len(outcome.Prompt.Options) == 0 {
			return s.telegram.SendMessage(chatID, outcome.Prompt.Text)
		}
		return s.telegram.SendMessageWithKeyboard(chatID, outcome.Prompt.Text, promptKeyboard(outcome.Prompt.Options))
	}

	text := outcome.Text
	if text == "" {
		text = "Готово"
	}
	return s.telegram.SendMessageWithKeyboard(chatID, text, mainKeyboard(isAdmin))
}

// HandleCallback обрабатывает нажатия инлайн-кнопок
func (s *Service) HandleCallback(cb models.CallbackQuery) error {
	defer s.telegram.AckCallback(cb.ID, "")

	user, err := s.users.GetByTelegramID(cb.UserID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return s.telegram.SendMessage(cb.ChatID, "Отправьте /start, чтобы начать")
		}
		return err
	}

	action, arg, _ := strings.Cut(cb.Data, ":")
	switch action {
	case "cat":
		return s.sendCategoryProducts(cb.ChatID, user, arg)
	case "order_new":
		productID, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return nil
		}
		outcome, err := s.orderWizard.Start(user.ID, productID)
		if err != nil {
			return err
		}
		return s.sendOutcome(cb.ChatID, user.IsAdmin, outcome)
	case "order_history":
		return s.sendOrderHistory(cb.ChatID, arg)
	case "order_notes":
		return s.sendOrderNotes(cb.ChatID, arg)
	case "order_note":
		orderID, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return nil
		}
		s.stores.Management.Set(user.TelegramID, ManageRecord{Action: ManageOrderReply, OrderID: orderID})
		return s.telegram.SendMessage(cb.ChatID, "Напишите сообщение по заказу:")
	case "profile_edit":
		s.stores.Conversation.Set(user.TelegramID, ProfileRecord{Field: arg})
		return s.telegram.SendMessage(cb.ChatID, "Введите новое значение:")
	}

	if user.IsAdmin {
		return s.handleAdminCallback(user, cb, action, arg)
	}

	return nil
}

// sendCategoryProducts показывает товары категории: карточка + фото + кнопки
func (s *Service) sendCategoryProducts(chatID int64, user models.User, arg string) error {
	categoryID, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return nil
	}

	products, err := s.catalog.ProductsByCategory(categoryID)
	if err != nil {
		return err
	}
	if len(products) == 0 {
		return s.telegram.SendMessage(chatID, "В этой категории пока нет товаров")
	}

	for _, product := range products {
		if !product.IsAvailable && !user.IsAdmin {
			continue
		}

		caption := renderProduct(product)
		if product.CoverPhotoPath != nil {
			if err := s.telegram.SendPhoto(chatID, *product.CoverPhotoPath, caption); err != nil {
				s.logger.Warn("не удалось отправить фотографию товара",
					zap.Error(err),
					zap.Int64("product_id", product.ID),
				)
				if err := s.telegram.SendMessage(chatID, caption); err != nil {
					return err
				}
			}
		} else {
			if err := s.telegram.SendMessage(chatID, caption); err != nil {
				return err
			}
		}

		keyboard := productInline(product)
		if user.IsAdmin {
			keyboard = adminProductInline(product)
		}
		if len(keyboard.InlineKeyboard) > 0 {
			if err := s.telegram.SendMessageWithInlineKeyboard(chatID, "Действия:", keyboard); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Service) sendOrderHistory(chatID int64, arg string) error {
	orderID, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return nil
	}
	events, err := s.orders.History(orderID)
	if err != nil {
		return err
	}
	return s.telegram.SendMessage(chatID, renderHistory(events))
}

func (s *Service) sendOrderNotes(chatID int64, arg string) error {
	orderID, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return nil
	}
	notes, err := s.orders.Notes(orderID)
	if err != nil {
		return err
	}

	authors := make(map[int64]models.User, len(notes))
	for _, note := range notes {
		if _, seen := authors[note.UserID]; seen {
			continue
		}
		author, err := s.users.GetByID(note.UserID)
		if err != nil {
			continue
		}
		authors[note.UserID] = author
	}

	return s.telegram.SendMessage(chatID, renderNotes(notes, authors))
}
