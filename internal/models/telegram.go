package models

// IncomingMessage - уже разобранное входящее сообщение от пользователя
type IncomingMessage struct {
	ChatID     int64
	TelegramID int64
	Text       string
	Username   string
	FullName   string
	PhotoRef   string // file_id самой крупной фотографии, если она есть
	MessageID  int
}

// CallbackQuery - нажатие на инлайн-кнопку
type CallbackQuery struct {
	ID          string // ID callback запроса
	UserID      int64  // ID пользователя, который нажал на кнопку
	UserName    string // Имя пользователя
	UserLogin   string // Логин пользователя в Telegram
	MessageID   int    // ID сообщения, в котором была нажата кнопка
	ChatID      int64  // ID чата, где был нажат callback
	Data        string // Данные callback запроса (например, "order_status:12")
	MessageText string // Текст сообщения
}
