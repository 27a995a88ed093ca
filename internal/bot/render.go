package bot

import (
	"fmt"
	"strings"

	"github.com/setum77/myconfbot-sub000/internal/models"
	"github.com/setum77/myconfbot-sub000/internal/wizard"
)

// renderProduct - карточка товара для клиента
func renderProduct(product models.Product) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🎂 %s\n", product.Name)
	if product.ShortDescription != "" {
		fmt.Fprintf(&b, "%s\n", product.ShortDescription)
	}
	fmt.Fprintf(&b, "Цена: %.2f ₽ за %g %s\n", product.Price, product.Quantity, product.Unit.Title())
	fmt.Fprintf(&b, "Оплата: %s", product.PaymentType.Title())
	if !product.IsAvailable {
		b.WriteString("\n⛔ Сейчас недоступен для заказа")
	}
	return b.String()
}

// renderOrderDetails - заказ со всеми связями, для клиента и для админа
func renderOrderDetails(d models.OrderDetails, forAdmin bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📦 Заказ №%d\n", d.Order.ID)
	fmt.Fprintf(&b, "Статус: %s\n", d.Status.Status.Title())
	fmt.Fprintf(&b, "Товар: %s (%s)\n", d.Product.Name, d.Category.Name)

	if d.Order.WeightGrams != nil {
		fmt.Fprintf(&b, "Вес: %g г\n", *d.Order.WeightGrams)
	} else if d.Order.Quantity != nil {
		fmt.Fprintf(&b, "Количество: %g %s\n", *d.Order.Quantity, d.Product.Unit.Title())
	}

	if d.Order.ReadyAt != nil {
		fmt.Fprintf(&b, "Готовность: %s\n", d.Order.ReadyAt.Format(wizard.DateLayout+" "+wizard.TimeLayout))
	}

	receive := d.Order.DeliveryType.Title()
	if d.Order.DeliveryAddress != nil {
		receive += ", " + *d.Order.DeliveryAddress
	}
	fmt.Fprintf(&b, "Получение: %s\n", receive)
	fmt.Fprintf(&b, "Стоимость: %.2f ₽\n", d.Order.TotalCost)
	fmt.Fprintf(&b, "Оплата: %s (%s)", d.Order.PaymentType.Title(), d.Order.PaymentStatus.Title())

	if forAdmin {
		fmt.Fprintf(&b, "\nКлиент: %s", d.User.FullName)
		if d.User.Phone != "" {
			fmt.Fprintf(&b, ", %s", d.User.Phone)
		}
		if d.Order.AdminNotes != "" {
			fmt.Fprintf(&b, "\nЗаметки: %s", d.Order.AdminNotes)
		}
		if d.FirstNote != nil {
			fmt.Fprintf(&b, "\nПервое сообщение: %s", d.FirstNote.NoteText)
		}
	}

	return b.String()
}

// renderHistory - история статусов заказа по порядку добавления
func renderHistory(events []models.OrderStatusEvent) string {
	var b strings.Builder
	b.WriteString("📜 История заказа:\n")
	for _, event := range events {
		fmt.Fprintf(&b, "• %s — %s", event.CreatedAt.Format("02.01.2006 15:04"), event.Status.Title())
		if event.AdminNotes != "" {
			fmt.Fprintf(&b, " (%s)", event.AdminNotes)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderNotes - переписка по заказу; роль автора выводится из is_admin
func renderNotes(notes []models.OrderNote, authors map[int64]models.User) string {
	if len(notes) == 0 {
		return "Сообщений по заказу пока нет"
	}

	var b strings.Builder
	b.WriteString("💬 Переписка по заказу:\n")
	for _, note := range notes {
		role := "Клиент"
		if author, ok := authors[note.UserID]; ok && author.IsAdmin {
			role = "Кондитер"
		}
		fmt.Fprintf(&b, "%s [%s]: %s\n", role, note.CreatedAt.Format("02.01 15:04"), note.NoteText)
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderOrderLine - краткая строка заказа для списков
func renderOrderLine(order models.Order, status models.OrderStatus) string {
	return fmt.Sprintf("№%d — %s, %.2f ₽, %s",
		order.ID, order.CreatedAt.Format("02.01.2006"), order.TotalCost, status.Title())
}

// renderProfile - профиль пользователя
func renderProfile(user models.User) string {
	var b strings.Builder
	fmt.Fprintf(&b, "👤 %s\n", user.FullName)
	if user.Phone != "" {
		fmt.Fprintf(&b, "Телефон: %s\n", user.Phone)
	}
	if user.Address != "" {
		fmt.Fprintf(&b, "Адрес: %s\n", user.Address)
	}
	if user.Characteristics != "" {
		fmt.Fprintf(&b, "Заметки: %s\n", user.Characteristics)
	}
	return strings.TrimRight(b.String(), "\n")
}
