package bot

import (
	"fmt"

	"github.com/setum77/myconfbot-sub000/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Кнопки главного меню
const (
	buttonCatalog  = "🎂 Каталог"
	buttonMyOrders = "📦 Мои заказы"
	buttonAbout    = "ℹ️ О нас"
	buttonDelivery = "🚚 Доставка"
	buttonPayment  = "💳 Оплата"
	buttonProfile  = "👤 Профиль"
	buttonAdmin    = "🛠 Админка"
)

// Кнопки админского меню
const (
	buttonAdmCategories = "📁 Категории"
	buttonAdmNewProduct = "➕ Новый товар"
	buttonAdmOrders     = "📋 Все заказы"
	buttonAdmContent    = "📝 Тексты"
	buttonAdmBack       = "⬅️ Главное меню"
)

const errTryLater = "Что-то пошло не так, попробуйте позже."

// mainKeyboard - главное меню, для админов с дополнительной кнопкой
func mainKeyboard(isAdmin bool) tgbotapi.ReplyKeyboardMarkup {
	rows := [][]tgbotapi.KeyboardButton{
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(buttonCatalog),
			tgbotapi.NewKeyboardButton(buttonMyOrders),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(buttonAbout),
			tgbotapi.NewKeyboardButton(buttonDelivery),
			tgbotapi.NewKeyboardButton(buttonPayment),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(buttonProfile),
		),
	}
	if isAdmin {
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(buttonAdmin),
		))
	}

	keyboard := tgbotapi.NewReplyKeyboard(rows...)
	keyboard.ResizeKeyboard = true
	return keyboard
}

func adminKeyboard() tgbotapi.ReplyKeyboardMarkup {
	keyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(buttonAdmCategories),
			tgbotapi.NewKeyboardButton(buttonAdmNewProduct),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(buttonAdmOrders),
			tgbotapi.NewKeyboardButton(buttonAdmContent),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(buttonAdmBack),
		),
	)
	keyboard.ResizeKeyboard = true
	return keyboard
}

// promptKeyboard строит клавиатуру из вариантов ответа шага мастера
func promptKeyboard(options []string) tgbotapi.ReplyKeyboardMarkup {
	rows := make([][]tgbotapi.KeyboardButton, 0, len(options))
	for _, option := range options {
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(option)))
	}
	keyboard := tgbotapi.NewReplyKeyboard(rows...)
	keyboard.ResizeKeyboard = true
	return keyboard
}

// categoriesInline - категории каталога для клиента
func categoriesInline(categories []models.Category) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(categories))
	for _, category := range categories {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(category.Name, fmt.Sprintf("cat:%d", category.ID)),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// productInline - кнопка заказа под карточкой товара
func productInline(product models.Product) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{}
	if product.IsAvailable {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🛒 Заказать", fmt.Sprintf("order_new:%d", product.ID)),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// adminProductInline - действия админа над товаром
func adminProductInline(product models.Product) tgbotapi.InlineKeyboardMarkup {
	availability := "🚫 Снять с продажи"
	if !product.IsAvailable {
		availability = "✅ Вернуть в продажу"
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✏️ Изменить", fmt.Sprintf("adm_prod_edit:%d", product.ID)),
			tgbotapi.NewInlineKeyboardButtonData(availability, fmt.Sprintf("adm_prod_toggle:%d", product.ID)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🖼 Фото", fmt.Sprintf("adm_prod_photos:%d", product.ID)),
			tgbotapi.NewInlineKeyboardButtonData("🗑 Удалить", fmt.Sprintf("adm_prod_delete:%d", product.ID)),
		),
	)
}

// productFieldsInline - выбор поля товара для правки
func productFieldsInline(productID int64) tgbotapi.InlineKeyboardMarkup {
	field := func(label, name string) tgbotapi.InlineKeyboardButton {
		return tgbotapi.NewInlineKeyboardButtonData(label, fmt.Sprintf("adm_prod_field:%d:%s", productID, name))
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(field("Название", "name"), field("Описание", "short_description")),
		tgbotapi.NewInlineKeyboardRow(field("Цена", "price"), field("Количество", "quantity")),
	)
}

// newCategoryInline - единственная кнопка создания категории
func newCategoryInline() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➕ Новая категория", "adm_cat_new:0"),
		),
	)
}

// photoActionsInline - управление фотографиями товара
func photoActionsInline(productID int64, photoCount int) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➕ Добавить", fmt.Sprintf("adm_photo_add:%d", productID)),
		),
	}
	if photoCount > 0 {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⭐ Главная", fmt.Sprintf("adm_photo_main:%d", productID)),
			tgbotapi.NewInlineKeyboardButtonData("🗑 Удалить", fmt.Sprintf("adm_photo_del:%d", productID)),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// openOrderInline - кнопка раскрытия карточки заказа в списке админа
func openOrderInline(orderID int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Открыть", fmt.Sprintf("adm_order_open:%d", orderID)),
		),
	)
}

// contentPagesInline - страницы контента для редактирования
func contentPagesInline(pages map[string]string) tgbotapi.InlineKeyboardMarkup {
	// фиксированный порядок, чтобы меню не прыгало
	order := []string{"about", "delivery", "payment"}
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(pages))
	for _, slug := range order {
		title, ok := pages[slug]
		if !ok {
			continue
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(title, "adm_content:"+slug),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// categoryAdminInline - действия админа над категорией
func categoryAdminInline(category models.Category) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✏️ Переименовать", fmt.Sprintf("adm_cat_rename:%d", category.ID)),
			tgbotapi.NewInlineKeyboardButtonData("📝 Описание", fmt.Sprintf("adm_cat_desc:%d", category.ID)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 Удалить", fmt.Sprintf("adm_cat_delete:%d", category.ID)),
		),
	)
}

// orderAdminInline - действия админа над заказом
func orderAdminInline(orderID int64) tgbotapi.InlineKeyboardMarkup {
	action := func(label, name string) tgbotapi.InlineKeyboardButton {
		return tgbotapi.NewInlineKeyboardButtonData(label, fmt.Sprintf("adm_order_%s:%d", name, orderID))
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(action("🔄 Статус", "status"), action("💰 Стоимость", "cost")),
		tgbotapi.NewInlineKeyboardRow(action("🚚 Получение", "delivery"), action("🗓 Готовность", "ready")),
		tgbotapi.NewInlineKeyboardRow(action("⚖️ Кол-во/вес", "amount"), action("💳 Оплата", "payment")),
		tgbotapi.NewInlineKeyboardRow(action("📝 Заметки", "notes"), action("💬 Ответить", "reply")),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📜 История", fmt.Sprintf("order_history:%d", orderID)),
			tgbotapi.NewInlineKeyboardButtonData("💬 Переписка", fmt.Sprintf("order_notes:%d", orderID)),
		),
	)
}

// orderStatusesInline - выбор нового статуса заказа
func orderStatusesInline(orderID int64) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(models.AllOrderStatuses()))
	for _, status := range models.AllOrderStatuses() {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				status.Title(),
				fmt.Sprintf("adm_set_status:%d:%s", orderID, status),
			),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// paymentStatusesInline - выбор статуса оплаты
func paymentStatusesInline(orderID int64) tgbotapi.InlineKeyboardMarkup {
	statuses := []models.PaymentStatus{
		models.PaymentStatusUnpaid,
		models.PaymentStatusAwaiting,
		models.PaymentStatusPaid,
	}
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(statuses))
	for _, status := range statuses {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				status.Title(),
				fmt.Sprintf("adm_set_payment:%d:%s", orderID, status),
			),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// customerOrderInline - действия клиента над своим заказом
func customerOrderInline(orderID int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📜 История", fmt.Sprintf("order_history:%d", orderID)),
			tgbotapi.NewInlineKeyboardButtonData("💬 Переписка", fmt.Sprintf("order_notes:%d", orderID)),
			tgbotapi.NewInlineKeyboardButtonData("✍️ Написать", fmt.Sprintf("order_note:%d", orderID)),
		),
	)
}
