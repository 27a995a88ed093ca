// Package wizard реализует пошаговые диалоги: оформление заказа клиентом
// и создание товара админом. Каждый шаг - один обмен сообщениями,
// продолжение диалога хранится в state.Store, а не в горутине.
package wizard

import "strings"

// Служебные кнопки, доступные на шагах мастера
const (
	ButtonCancel         = "❌ Отмена"
	ButtonBackToQuantity = "⬅️ К количеству"
	ButtonSkip           = "Пропустить"
	ButtonConfirm        = "✅ Подтвердить"
	ButtonNext           = "Далее"
	ButtonPhotosDone     = "Готово"
)

// Prompt - инструкция отображения для транспортного слоя: текст вопроса
// и кнопки ответов. Пустой список кнопок означает свободный ввод.
type Prompt struct {
	Text    string
	Options []string
}

// Outcome - результат обработки одного сообщения мастером
type Outcome struct {
	Prompt    *Prompt // следующий вопрос (или тот же при ошибке валидации)
	Done      bool    // диалог завершен успешно
	Cancelled bool    // диалог отменен, ничего не записано (кроме оговоренного черновика товара)
	Text      string  // сообщение завершения или ошибки
	OrderID   int64   // заполняется мастером заказа при завершении
	ProductID int64   // заполняется мастером товара после сохранения черновика
}

func normalize(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// IsCancel распознает отмену в любом виде: кнопка, текст, команда
func IsCancel(raw string) bool {
	switch normalize(raw) {
	case normalize(ButtonCancel), "отмена", "/cancel":
		return true
	}
	return false
}

func isBackToQuantity(raw string) bool {
	switch normalize(raw) {
	case normalize(ButtonBackToQuantity), "к количеству":
		return true
	}
	return false
}

// IsSkip распознает пропуск необязательного шага
func IsSkip(raw string) bool {
	switch normalize(raw) {
	case "пропустить", "skip", "-":
		return true
	}
	return false
}
