package wizard

import (
	"strconv"
	"strings"
	"time"
)

// Формат дат и времени, который бот показывает и принимает
const (
	DateLayout = "02.01.2006"
	TimeLayout = "15:04"
)

// Рабочее окно кондитерской: готовность заказа назначается внутри него
const (
	WorkDayOpenHour  = 9
	WorkDayCloseHour = 21
)

// ValidationError - ошибка пользовательского ввода. Всегда обрабатывается
// на месте: тот же вопрос задается снова с пояснением, состояние диалога
// не меняется.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func invalid(msg string) *ValidationError {
	return &ValidationError{Msg: msg}
}

// ParsePositiveNumber принимает положительное число, запятая как
// десятичный разделитель тоже подходит
func ParsePositiveNumber(raw string) (float64, error) {
	norm := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	value, err := strconv.ParseFloat(norm, 64)
	if err != nil {
		return 0, invalid("Нужно число, например 2 или 1.5")
	}
	if value <= 0 {
		return 0, invalid("Число должно быть больше нуля")
	}
	return value, nil
}

// ParseNonNegativeNumber принимает число, ноль допустим
func ParseNonNegativeNumber(raw string) (float64, error) {
	norm := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	value, err := strconv.ParseFloat(norm, 64)
	if err != nil {
		return 0, invalid("Нужно число, например 1500 или 99.90")
	}
	if value < 0 {
		return 0, invalid("Число не может быть отрицательным")
	}
	return value, nil
}

// ParseDate принимает дату в формате ДД.ММ.ГГГГ не раньше сегодняшней.
// При strictlyAfter дата должна быть строго позже сегодняшней,
// то есть самое раннее - завтра.
func ParseDate(raw string, now time.Time, strictlyAfter bool) (time.Time, error) {
	date, err := time.ParseInLocation(DateLayout, strings.TrimSpace(raw), now.Location())
	if err != nil {
		return time.Time{}, invalid("Дата нужна в формате ДД.ММ.ГГГГ, например 25.12.2026")
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if strictlyAfter {
		if !date.After(today) {
			return time.Time{}, invalid("Самая ранняя дата готовности - завтра")
		}
	} else if date.Before(today) {
		return time.Time{}, invalid("Дата не может быть в прошлом")
	}

	return date, nil
}

// ParseWorkTime принимает время ЧЧ:ММ внутри рабочего окна 09:00-21:00
// включительно
func ParseWorkTime(raw string) (hour, minute int, err error) {
	parsed, parseErr := time.Parse(TimeLayout, strings.TrimSpace(raw))
	if parseErr != nil {
		return 0, 0, invalid("Время нужно в формате ЧЧ:ММ, например 14:30")
	}

	hour, minute = parsed.Hour(), parsed.Minute()
	if hour < WorkDayOpenHour || hour > WorkDayCloseHour || (hour == WorkDayCloseHour && minute > 0) {
		return 0, 0, invalid("Мы работаем с 09:00 до 21:00, выберите время в этом окне")
	}
	return hour, minute, nil
}

// ValidateText проверяет минимальную длину текста. Для необязательных полей
// ввод "пропустить" означает пустое значение.
func ValidateText(raw string, minLen int, optional bool) (string, error) {
	if optional && IsSkip(raw) {
		return "", nil
	}

	text := strings.TrimSpace(raw)
	if len([]rune(text)) < minLen {
		return "", invalid("Слишком коротко, нужно хотя бы " + strconv.Itoa(minLen) + " символа(ов)")
	}
	return text, nil
}

// ParseChoice сопоставляет ввод с одним из допустимых вариантов без учёта
// регистра. При несовпадении тот же набор вариантов предлагается снова.
func ParseChoice(raw string, allowed []string) (string, error) {
	norm := normalize(raw)
	for _, option := range allowed {
		if norm == normalize(option) {
			return option, nil
		}
	}
	return "", invalid("Выберите один из вариантов: " + strings.Join(allowed, ", "))
}
