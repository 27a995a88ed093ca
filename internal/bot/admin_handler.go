package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/setum77/myconfbot-sub000/internal/catalog"
	"github.com/setum77/myconfbot-sub000/internal/content"
	"github.com/setum77/myconfbot-sub000/internal/database"
	"github.com/setum77/myconfbot-sub000/internal/models"
	"github.com/setum77/myconfbot-sub000/internal/wizard"

	"go.uber.org/zap"
)

// ManageAction - какой ввод ожидается в пространстве "управление"
type ManageAction int

const (
	ManageNone ManageAction = iota
	ManageCategoryCreateName
	ManageCategoryCreateDesc
	ManageCategoryRename
	ManageCategoryDesc
	ManageProductField
	ManagePhotoAdd
	ManagePhotoMain
	ManagePhotoDelete
	ManageOrderStatusPhoto
	ManageOrderCost
	ManageOrderDeliveryType
	ManageOrderDeliveryAddress
	ManageOrderReady
	ManageOrderAmount
	ManageOrderNotes
	ManageOrderReply
	ManageContentEdit
)

// ManageRecord - состояние точечной операции админа (и ответа клиента
// по заказу). В отличие от мастеров тут всегда один шаг ввода,
// реже два.
type ManageRecord struct {
	Action     ManageAction
	CategoryID int64
	ProductID  int64
	OrderID    int64
	Field      string             // колонка товара для правки
	Status     models.OrderStatus // новый статус, ждущий комментария или фото
	Slug       string             // страница контента
	Text       string             // перенос значения между двумя шагами
}

// handleAdminCallback - инлайн-кнопки, доступные только админу
func (s *Service) handleAdminCallback(user models.User, cb models.CallbackQuery, action, arg string) error {
	switch action {
	case "adm_cat_new":
		s.stores.Management.Set(user.TelegramID, ManageRecord{Action: ManageCategoryCreateName})
		return s.telegram.SendMessage(cb.ChatID, "Название новой категории:")

	case "adm_cat_rename":
		return s.expectForID(user, cb.ChatID, arg, "Новое название категории:", func(id int64) ManageRecord {
			return ManageRecord{Action: ManageCategoryRename, CategoryID: id}
		})

	case "adm_cat_desc":
		return s.expectForID(user, cb.ChatID, arg, "Новое описание категории:", func(id int64) ManageRecord {
			return ManageRecord{Action: ManageCategoryDesc, CategoryID: id}
		})

	case "adm_cat_delete":
		return s.deleteCategory(cb.ChatID, arg)

	case "adm_prod_edit":
		productID, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return nil
		}
		return s.telegram.SendMessageWithInlineKeyboard(cb.ChatID, "Что изменить?", productFieldsInline(productID))

	case "adm_prod_field":
		idRaw, field, ok := strings.Cut(arg, ":")
		if !ok {
			return nil
		}
		return s.expectForID(user, cb.ChatID, idRaw, "Новое значение:", func(id int64) ManageRecord {
			return ManageRecord{Action: ManageProductField, ProductID: id, Field: field}
		})

	case "adm_prod_toggle":
		return s.toggleProduct(cb.ChatID, arg)

	case "adm_prod_photos":
		return s.sendProductPhotosMenu(cb.ChatID, arg)

	case "adm_prod_delete":
		return s.deleteProduct(cb.ChatID, arg)

	case "adm_photo_add":
		return s.expectForID(user, cb.ChatID, arg, "Пришлите фотографию:", func(id int64) ManageRecord {
			return ManageRecord{Action: ManagePhotoAdd, ProductID: id}
		})

	case "adm_photo_main":
		return s.expectForID(user, cb.ChatID, arg, "Номер фотографии, которая станет главной:", func(id int64) ManageRecord {
			return ManageRecord{Action: ManagePhotoMain, ProductID: id}
		})

	case "adm_photo_del":
		return s.expectForID(user, cb.ChatID, arg, "Номер фотографии для удаления:", func(id int64) ManageRecord {
			return ManageRecord{Action: ManagePhotoDelete, ProductID: id}
		})

	case "adm_order_status":
		orderID, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return nil
		}
		return s.telegram.SendMessageWithInlineKeyboard(cb.ChatID, "Новый статус:", orderStatusesInline(orderID))

	case "adm_set_status":
		idRaw, statusRaw, ok := strings.Cut(arg, ":")
		if !ok {
			return nil
		}
		orderID, err := strconv.ParseInt(idRaw, 10, 64)
		if err != nil {
			return nil
		}
		status := models.OrderStatus(statusRaw)
		if !status.Valid() {
			return nil
		}
		s.stores.Management.Set(user.TelegramID, ManageRecord{
			Action:  ManageOrderStatusPhoto,
			OrderID: orderID,
			Status:  status,
		})
		return s.telegram.SendMessageWithKeyboard(cb.ChatID,
			"Комментарий или фото к статусу (или «Пропустить»):",
			promptKeyboard([]string{wizard.ButtonSkip, wizard.ButtonCancel}))

	case "adm_order_cost":
		return s.expectForID(user, cb.ChatID, arg, "Новая стоимость, ₽:", func(id int64) ManageRecord {
			return ManageRecord{Action: ManageOrderCost, OrderID: id}
		})

	case "adm_order_delivery":
		orderID, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return nil
		}
		s.stores.Management.Set(user.TelegramID, ManageRecord{Action: ManageOrderDeliveryType, OrderID: orderID})
		return s.telegram.SendMessageWithKeyboard(cb.ChatID, "Способ получения:",
			promptKeyboard([]string{
				models.DeliveryTypeDelivery.Title(),
				models.DeliveryTypePickup.Title(),
				wizard.ButtonCancel,
			}))

	case "adm_order_ready":
		return s.expectForID(user, cb.ChatID, arg, "Дата и время готовности (ДД.ММ.ГГГГ ЧЧ:ММ):", func(id int64) ManageRecord {
			return ManageRecord{Action: ManageOrderReady, OrderID: id}
		})

	case "adm_order_amount":
		return s.expectOrderAmount(user, cb.ChatID, arg)

	case "adm_order_payment":
		orderID, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return nil
		}
		return s.telegram.SendMessageWithInlineKeyboard(cb.ChatID, "Статус оплаты:", paymentStatusesInline(orderID))

	case "adm_set_payment":
		return s.setPaymentStatus(cb.ChatID, arg)

	case "adm_order_notes":
		return s.expectForID(user, cb.ChatID, arg, "Заметки по заказу (видны только админам):", func(id int64) ManageRecord {
			return ManageRecord{Action: ManageOrderNotes, OrderID: id}
		})

	case "adm_order_reply":
		return s.expectForID(user, cb.ChatID, arg, "Сообщение клиенту:", func(id int64) ManageRecord {
			return ManageRecord{Action: ManageOrderReply, OrderID: id}
		})

	case "adm_order_open":
		return s.sendAdminOrderCard(cb.ChatID, arg)

	case "adm_content":
		if !content.ValidSlug(arg) {
			return nil
		}
		current, err := s.content.Get(arg)
		if err != nil {
			return err
		}
		s.stores.Management.Set(user.TelegramID, ManageRecord{Action: ManageContentEdit, Slug: arg})
		text := fmt.Sprintf("Страница «%s». Пришлите новый текст целиком.", content.Title(arg))
		if current != "" {
			text += "\n\nСейчас:\n" + current
		}
		return s.telegram.SendMessage(cb.ChatID, text)
	}

	return nil
}

// expectForID разбирает id из callback-данных, запоминает ожидание ввода
// и задает вопрос
func (s *Service) expectForID(user models.User, chatID int64, arg, question string, record func(id int64) ManageRecord) error {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return nil
	}
	s.stores.Management.Set(user.TelegramID, record(id))
	return s.telegram.SendMessageWithKeyboard(chatID, question, promptKeyboard([]string{wizard.ButtonCancel}))
}

// expectOrderAmount спрашивает количество или вес в зависимости от единицы товара
func (s *Service) expectOrderAmount(user models.User, chatID int64, arg string) error {
	orderID, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return nil
	}
	details, err := s.orders.Details(orderID)
	if err != nil {
		return err
	}
	question := "Новое количество:"
	if details.Product.Unit.ByWeight() {
		question = "Новый вес, г:"
	}
	s.stores.Management.Set(user.TelegramID, ManageRecord{Action: ManageOrderAmount, OrderID: orderID})
	return s.telegram.SendMessageWithKeyboard(chatID, question, promptKeyboard([]string{wizard.ButtonCancel}))
}

// handleManageInput - текстовый ввод для отложенной операции админа.
// Ошибки валидации не сбрасывают ожидание: вопрос задается снова.
func (s *Service) handleManageInput(user models.User, msg models.IncomingMessage) error {
	record, ok := s.stores.Management.Get(user.TelegramID)
	if !ok {
		return nil
	}

	if wizard.IsCancel(msg.Text) {
		s.stores.Management.Clear(user.TelegramID)
		return s.telegram.SendMessageWithKeyboard(msg.ChatID, "Отменено", mainKeyboard(user.IsAdmin))
	}

	done := func(text string) error {
		s.stores.Management.Clear(user.TelegramID)
		return s.telegram.SendMessageWithKeyboard(msg.ChatID, text, mainKeyboard(user.IsAdmin))
	}
	retry := func(text string) error {
		return s.telegram.SendMessage(msg.ChatID, text)
	}

	switch record.Action {
	case ManageCategoryCreateName:
		name, err := wizard.ValidateText(msg.Text, 2, false)
		if err != nil {
			return s.replyValidation(msg.ChatID, err)
		}
		record.Action = ManageCategoryCreateDesc
		record.Text = name
		s.stores.Management.Set(user.TelegramID, record)
		return s.telegram.SendMessageWithKeyboard(msg.ChatID, "Описание категории (или «Пропустить»):",
			promptKeyboard([]string{wizard.ButtonSkip, wizard.ButtonCancel}))

	case ManageCategoryCreateDesc:
		description, err := wizard.ValidateText(msg.Text, 0, true)
		if err != nil {
			return s.replyValidation(msg.ChatID, err)
		}
		if _, err := s.catalog.CreateCategory(record.Text, description); err != nil {
			if errors.Is(err, database.ErrDuplicateCategory) {
				return retry("Категория с таким названием уже есть, введите другое название:")
			}
			return err
		}
		return done("Категория создана ✅")

	case ManageCategoryRename:
		name, err := wizard.ValidateText(msg.Text, 2, false)
		if err != nil {
			return s.replyValidation(msg.ChatID, err)
		}
		if err := s.catalog.RenameCategory(record.CategoryID, name); err != nil {
			if errors.Is(err, database.ErrDuplicateCategory) {
				return retry("Такое название уже занято, введите другое:")
			}
			return err
		}
		return done("Категория переименована ✅")

	case ManageCategoryDesc:
		description, err := wizard.ValidateText(msg.Text, 0, true)
		if err != nil {
			return s.replyValidation(msg.ChatID, err)
		}
		if err := s.catalog.UpdateCategoryDescription(record.CategoryID, description); err != nil {
			return err
		}
		return done("Описание обновлено ✅")

	case ManageProductField:
		return s.updateProductField(user, msg, record)

	case ManagePhotoMain:
		number, err := strconv.Atoi(strings.TrimSpace(msg.Text))
		if err != nil {
			return retry("Нужен номер фотографии из списка")
		}
		if err := s.catalog.SetMainPhoto(record.ProductID, number); err != nil {
			if errors.Is(err, catalog.ErrBadPhotoNumber) {
				return retry("Фотографии с таким номером нет, попробуйте другой")
			}
			return err
		}
		return done("Главная фотография назначена ✅")

	case ManagePhotoDelete:
		number, err := strconv.Atoi(strings.TrimSpace(msg.Text))
		if err != nil {
			return retry("Нужен номер фотографии из списка")
		}
		if err := s.catalog.DeletePhoto(record.ProductID, number); err != nil {
			if errors.Is(err, catalog.ErrBadPhotoNumber) {
				return retry("Фотографии с таким номером нет, попробуйте другой")
			}
			return err
		}
		return done("Фотография удалена ✅")

	case ManagePhotoAdd:
		return retry("Жду фотографию. Пришлите изображение или нажмите «Отмена»")

	case ManageOrderStatusPhoto:
		notes := ""
		if !wizard.IsSkip(msg.Text) {
			notes = strings.TrimSpace(msg.Text)
		}
		if err := s.orders.AddStatusEvent(record.OrderID, record.Status, notes, nil); err != nil {
			return err
		}
		s.notifyOrderCustomer(record.OrderID,
			fmt.Sprintf("🔔 Статус заказа №%d: %s", record.OrderID, record.Status.Title()))
		return done("Статус обновлен ✅")

	case ManageOrderCost:
		cost, err := wizard.ParseNonNegativeNumber(msg.Text)
		if err != nil {
			return s.replyValidation(msg.ChatID, err)
		}
		if err := s.orders.SetTotalCost(record.OrderID, cost); err != nil {
			return err
		}
		return done("Стоимость обновлена ✅")

	case ManageOrderDeliveryType:
		deliveryType, ok := models.ParseDeliveryType(msg.Text)
		if !ok {
			return retry("Выберите «Доставка» или «Самовывоз»")
		}
		if deliveryType == models.DeliveryTypePickup {
			if err := s.orders.SetDelivery(record.OrderID, deliveryType, ""); err != nil {
				return err
			}
			return done("Получение изменено на самовывоз ✅")
		}
		record.Action = ManageOrderDeliveryAddress
		s.stores.Management.Set(user.TelegramID, record)
		return retry("Адрес доставки:")

	case ManageOrderDeliveryAddress:
		address, err := wizard.ValidateText(msg.Text, 5, false)
		if err != nil {
			return s.replyValidation(msg.ChatID, err)
		}
		if err := s.orders.SetDelivery(record.OrderID, models.DeliveryTypeDelivery, address); err != nil {
			return err
		}
		return done("Доставка и адрес сохранены ✅")

	case ManageOrderReady:
		readyAt, err := parseReadyDateTime(msg.Text, time.Now())
		if err != nil {
			return s.replyValidation(msg.ChatID, err)
		}
		if err := s.orders.SetReadyAt(record.OrderID, readyAt); err != nil {
			return err
		}
		return done("Время готовности обновлено ✅")

	case ManageOrderAmount:
		return s.updateOrderAmount(msg, record, done, retry)

	case ManageOrderNotes:
		if err := s.orders.SetAdminNotes(record.OrderID, strings.TrimSpace(msg.Text)); err != nil {
			return err
		}
		return done("Заметки сохранены ✅")

	case ManageOrderReply:
		return s.addOrderNote(user, msg, record, done)

	case ManageContentEdit:
		if err := s.content.Set(record.Slug, msg.Text); err != nil {
			return err
		}
		return done(fmt.Sprintf("Страница «%s» обновлена ✅", content.Title(record.Slug)))
	}

	s.stores.Management.Clear(user.TelegramID)
	return nil
}

func (s *Service) updateProductField(user models.User, msg models.IncomingMessage, record ManageRecord) error {
	var value interface{}
	switch record.Field {
	case "price", "quantity":
		number, err := wizard.ParseNonNegativeNumber(msg.Text)
		if err != nil {
			return s.replyValidation(msg.ChatID, err)
		}
		value = number
	default:
		text, err := wizard.ValidateText(msg.Text, 2, false)
		if err != nil {
			return s.replyValidation(msg.ChatID, err)
		}
		value = text
	}

	found, err := s.catalog.UpdateProductField(record.ProductID, record.Field, value)
	if err != nil {
		return err
	}

	s.stores.Management.Clear(user.TelegramID)
	if !found {
		return s.telegram.SendMessageWithKeyboard(msg.ChatID, "Товар не найден", mainKeyboard(true))
	}
	return s.telegram.SendMessageWithKeyboard(msg.ChatID, "Товар обновлен ✅", mainKeyboard(true))
}

// updateOrderAmount правит количество или вес в зависимости от единицы товара
func (s *Service) updateOrderAmount(msg models.IncomingMessage, record ManageRecord, done, retry func(string) error) error {
	details, err := s.orders.Details(record.OrderID)
	if err != nil {
		return err
	}

	value, err := wizard.ParsePositiveNumber(msg.Text)
	if err != nil {
		return s.replyValidation(msg.ChatID, err)
	}

	if details.Product.Unit.ByWeight() {
		if err := s.orders.SetWeight(record.OrderID, value); err != nil {
			return err
		}
		return done(fmt.Sprintf("Вес обновлен: %g г ✅", value))
	}

	if err := s.orders.SetQuantity(record.OrderID, value); err != nil {
		return err
	}
	return done(fmt.Sprintf("Количество обновлено: %g ✅", value))
}

// addOrderNote - сообщение в переписку по заказу, от клиента или админа
func (s *Service) addOrderNote(user models.User, msg models.IncomingMessage, record ManageRecord, done func(string) error) error {
	order, err := s.orders.Order(record.OrderID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return done("Заказ не найден")
		}
		return err
	}

	// Клиент пишет только по своим заказам
	if !user.IsAdmin && order.UserID != user.ID {
		s.stores.Management.Clear(user.TelegramID)
		return nil
	}

	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return s.telegram.SendMessage(msg.ChatID, "Сообщение пустое, напишите текст:")
	}

	if err := s.orders.AddNote(record.OrderID, user.ID, text); err != nil {
		return err
	}

	if user.IsAdmin {
		s.notifyOrderCustomer(record.OrderID,
			fmt.Sprintf("💬 Сообщение по заказу №%d:\n%s", record.OrderID, text))
	} else {
		s.notifyAdmins(fmt.Sprintf("💬 Клиент %s пишет по заказу №%d:\n%s", user.FullName, record.OrderID, text))
	}
	return done("Сообщение отправлено ✅")
}

// handleStatusPhoto - фотография, приложенная к новому статусу заказа
func (s *Service) handleStatusPhoto(user models.User, msg models.IncomingMessage, record ManageRecord) error {
	data, err := s.telegram.DownloadPhoto(msg.PhotoRef)
	if err != nil {
		s.logger.Error("не удалось скачать фотографию статуса",
			zap.Error(err),
			zap.Int64("order_id", record.OrderID),
		)
		return s.telegram.SendMessage(msg.ChatID, "Не удалось получить фотографию, попробуйте еще раз")
	}

	path, err := s.photos.SaveOrderPhoto(record.OrderID, data)
	if err != nil {
		return err
	}

	if err := s.orders.AddStatusEvent(record.OrderID, record.Status, strings.TrimSpace(msg.Text), &path); err != nil {
		return err
	}

	s.notifyOrderCustomer(record.OrderID,
		fmt.Sprintf("🔔 Статус заказа №%d: %s", record.OrderID, record.Status.Title()))

	s.stores.Management.Clear(user.TelegramID)
	return s.telegram.SendMessageWithKeyboard(msg.ChatID, "Статус с фотографией сохранен ✅", mainKeyboard(true))
}

// handleProductPhotoAdd - фотография для уже существующего товара
func (s *Service) handleProductPhotoAdd(user models.User, msg models.IncomingMessage, record ManageRecord) error {
	data, err := s.telegram.DownloadPhoto(msg.PhotoRef)
	if err != nil {
		return s.telegram.SendMessage(msg.ChatID, "Не удалось получить фотографию, попробуйте еще раз")
	}

	if _, err := s.catalog.AddPhoto(record.ProductID, data, false); err != nil {
		return err
	}

	s.stores.Management.Clear(user.TelegramID)
	return s.telegram.SendMessageWithKeyboard(msg.ChatID, "Фотография добавлена ✅", mainKeyboard(true))
}

// ---- Экраны админки ----

func (s *Service) sendAdminCategories(chatID int64) error {
	categories, err := s.catalog.Categories()
	if err != nil {
		return err
	}

	for _, category := range categories {
		text := category.Name
		if category.Description != "" {
			text += "\n" + category.Description
		}
		if err := s.telegram.SendMessageWithInlineKeyboard(chatID, text, categoryAdminInline(category)); err != nil {
			return err
		}
	}

	return s.telegram.SendMessageWithInlineKeyboard(chatID, "Категории:", newCategoryInline())
}

func (s *Service) sendAdminOrders(chatID int64) error {
	allOrders, err := s.orders.AllOrders()
	if err != nil {
		return err
	}
	if len(allOrders) == 0 {
		return s.telegram.SendMessage(chatID, "Заказов пока нет")
	}

	for _, order := range allOrders {
		status, err := s.orders.CurrentStatus(order.ID)
		if err != nil {
			return err
		}
		if err := s.telegram.SendMessageWithInlineKeyboard(
			chatID,
			renderOrderLine(order, status.Status),
			openOrderInline(order.ID),
		); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) sendAdminOrderCard(chatID int64, arg string) error {
	orderID, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return nil
	}

	details, err := s.orders.Details(orderID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return s.telegram.SendMessage(chatID, "Заказ не найден")
		}
		return err
	}

	return s.telegram.SendMessageWithInlineKeyboard(chatID, renderOrderDetails(details, true), orderAdminInline(orderID))
}

func (s *Service) sendContentMenu(chatID int64) error {
	return s.telegram.SendMessageWithInlineKeyboard(chatID, "Какую страницу редактируем?", contentPagesInline(s.content.List()))
}

func (s *Service) sendProductPhotosMenu(chatID int64, arg string) error {
	productID, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return nil
	}

	photos, err := s.catalog.Photos(productID)
	if err != nil {
		return err
	}

	if len(photos) == 0 {
		return s.telegram.SendMessageWithInlineKeyboard(chatID, "У товара пока нет фотографий", photoActionsInline(productID, 0))
	}

	paths := make([]string, 0, len(photos))
	for _, photo := range photos {
		paths = append(paths, photo.PhotoPath)
	}
	if err := s.telegram.SendPhotoGroup(chatID, paths, "Фотографии товара, главная первой"); err != nil {
		s.logger.Warn("не удалось отправить альбом фотографий",
			zap.Error(err),
			zap.Int64("product_id", productID),
		)
	}

	return s.telegram.SendMessageWithInlineKeyboard(chatID,
		fmt.Sprintf("Всего фотографий: %d. Номера идут по порядку альбома.", len(photos)),
		photoActionsInline(productID, len(photos)))
}

// ---- Операции без ожидания ввода ----

func (s *Service) deleteCategory(chatID int64, arg string) error {
	categoryID, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return nil
	}

	if err := s.catalog.DeleteCategory(categoryID); err != nil {
		var hasProducts *database.CategoryHasProductsError
		if errors.As(err, &hasProducts) {
			return s.telegram.SendMessage(chatID,
				fmt.Sprintf("В категории еще %d товар(ов). Сначала перенесите или удалите их.", hasProducts.Count))
		}
		if errors.Is(err, database.ErrNotFound) {
			return s.telegram.SendMessage(chatID, "Категория не найдена")
		}
		return err
	}
	return s.telegram.SendMessage(chatID, "Категория удалена ✅")
}

func (s *Service) toggleProduct(chatID int64, arg string) error {
	productID, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return nil
	}

	product, err := s.catalog.Product(productID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return s.telegram.SendMessage(chatID, "Товар не найден")
		}
		return err
	}

	if _, err := s.catalog.SetAvailability(productID, !product.IsAvailable); err != nil {
		return err
	}

	if product.IsAvailable {
		return s.telegram.SendMessage(chatID, "Товар снят с продажи")
	}
	return s.telegram.SendMessage(chatID, "Товар возвращен в продажу ✅")
}

func (s *Service) deleteProduct(chatID int64, arg string) error {
	productID, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return nil
	}

	if err := s.catalog.DeleteProduct(productID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return s.telegram.SendMessage(chatID, "Товар не найден")
		}
		return err
	}
	return s.telegram.SendMessage(chatID, "Товар и его фотографии удалены ✅")
}

func (s *Service) setPaymentStatus(chatID int64, arg string) error {
	idRaw, statusRaw, ok := strings.Cut(arg, ":")
	if !ok {
		return nil
	}
	orderID, err := strconv.ParseInt(idRaw, 10, 64)
	if err != nil {
		return nil
	}

	status := models.PaymentStatus(statusRaw)
	if err := s.orders.SetPaymentStatus(orderID, status); err != nil {
		return err
	}

	s.notifyOrderCustomer(orderID,
		fmt.Sprintf("💳 Оплата по заказу №%d: %s", orderID, status.Title()))
	return s.telegram.SendMessage(chatID, "Статус оплаты обновлен ✅")
}

// notifyOrderCustomer шлет сообщение клиенту заказа; сбой не прерывает операцию
func (s *Service) notifyOrderCustomer(orderID int64, text string) {
	order, err := s.orders.Order(orderID)
	if err != nil {
		s.logger.Warn("не удалось загрузить заказ для уведомления", zap.Error(err), zap.Int64("order_id", orderID))
		return
	}
	customer, err := s.users.GetByID(order.UserID)
	if err != nil {
		s.logger.Warn("не удалось найти клиента заказа", zap.Error(err), zap.Int64("order_id", orderID))
		return
	}
	if err := s.telegram.SendMessage(customer.TelegramID, text); err != nil {
		s.logger.Warn("не удалось уведомить клиента",
			zap.Error(err),
			zap.Int64("telegram_id", customer.TelegramID),
		)
	}
}

// replyValidation показывает ошибку ввода, не трогая состояние
func (s *Service) replyValidation(chatID int64, err error) error {
	var vErr *wizard.ValidationError
	if errors.As(err, &vErr) {
		return s.telegram.SendMessage(chatID, vErr.Msg)
	}
	return err
}

// parseReadyDateTime разбирает "ДД.ММ.ГГГГ ЧЧ:ММ" с теми же правилами,
// что и в мастере заказа: дата не в прошлом, время в рабочем окне
func parseReadyDateTime(raw string, now time.Time) (time.Time, error) {
	dateRaw, timeRaw, ok := strings.Cut(strings.TrimSpace(raw), " ")
	if !ok {
		return time.Time{}, &wizard.ValidationError{Msg: "Нужны дата и время: ДД.ММ.ГГГГ ЧЧ:ММ, например 25.12.2026 14:00"}
	}

	date, err := wizard.ParseDate(dateRaw, now, false)
	if err != nil {
		return time.Time{}, err
	}

	hour, minute, err := wizard.ParseWorkTime(timeRaw)
	if err != nil {
		return time.Time{}, err
	}

	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, now.Location()), nil
}
