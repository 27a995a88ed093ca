package telegram

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/setum77/myconfbot-sub000/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type TelegramClient struct {
	bot *tgbotapi.BotAPI
}

func NewTelegramClient(token string) *TelegramClient {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		log.Printf("error creating telegram client: %v", err)
	}

	return &TelegramClient{
		bot: bot,
	}
}

func (t *TelegramClient) SendMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := t.bot.Send(msg)
	return err
}

func (t *TelegramClient) SendMarkdownMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	_, err := t.bot.Send(msg)
	return err
}

func (t *TelegramClient) SendMessageWithKeyboard(chatID int64, text string, keyboard tgbotapi.ReplyKeyboardMarkup) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	_, err := t.bot.Send(msg)
	return err
}

func (t *TelegramClient) SendMessageWithInlineKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	_, err := t.bot.Send(msg)
	return err
}

// SendPhoto отправляет фотографию с диска с подписью
func (t *TelegramClient) SendPhoto(chatID int64, path, caption string) error {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FilePath(path))
	photo.Caption = caption
	_, err := t.bot.Send(photo)
	return err
}

// SendPhotoGroup отправляет альбом фотографий, подпись у первой
func (t *TelegramClient) SendPhotoGroup(chatID int64, paths []string, caption string) error {
	if len(paths) == 0 {
		return nil
	}
	if len(paths) == 1 {
		return t.SendPhoto(chatID, paths[0], caption)
	}

	media := make([]interface{}, 0, len(paths))
	for i, path := range paths {
		item := tgbotapi.NewInputMediaPhoto(tgbotapi.FilePath(path))
		if i == 0 {
			item.Caption = caption
		}
		media = append(media, item)
	}

	group := tgbotapi.NewMediaGroup(chatID, media)
	_, err := t.bot.SendMediaGroup(group)
	return err
}

func (t *TelegramClient) EditMessage(chatID int64, messageID int, text string) error {
	editMsg := tgbotapi.NewEditMessageText(chatID, messageID, text)
	_, err := t.bot.Send(editMsg)
	return err
}

func (t *TelegramClient) DeleteMessage(chatID int64, messageID int) error {
	_, err := t.bot.Request(tgbotapi.NewDeleteMessage(chatID, messageID))
	return err
}

// AckCallback снимает индикатор загрузки с кнопки, опционально показывая toast
func (t *TelegramClient) AckCallback(callbackID, toast string) error {
	_, err := t.bot.Request(tgbotapi.NewCallback(callbackID, toast))
	return err
}

// DownloadPhoto скачивает присланную фотографию по file_id
func (t *TelegramClient) DownloadPhoto(photoRef string) ([]byte, error) {
	url, err := t.bot.GetFileDirectURL(photoRef)
	if err != nil {
		return nil, fmt.Errorf("не удалось получить ссылку на файл: %w", err)
	}

	resp, err := http.Get(url)
	if err != nil {
		return nil, fmt.Errorf("не удалось скачать файл: %w", err)
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

// StartBot запускает long polling и возвращает каналы уже разобранных
// сообщений и callback-запросов
func (t *TelegramClient) StartBot() (chan models.IncomingMessage, chan models.CallbackQuery, error) {
	// Удаляем вебхук перед запуском Long Polling
	_, err := t.bot.Request(tgbotapi.DeleteWebhookConfig{})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to delete webhook: %v", err)
	}

	// Пауза для стабилизации соединения
	time.Sleep(1 * time.Second)

	messages := make(chan models.IncomingMessage)
	callbacks := make(chan models.CallbackQuery)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := t.bot.GetUpdatesChan(u)

	go func() {
		for update := range updates {
			if update.Message != nil {
				from := update.Message.From
				fullName := from.FirstName
				if from.LastName != "" {
					fullName += " " + from.LastName
				}

				incoming := models.IncomingMessage{
					ChatID:     update.Message.Chat.ID,
					TelegramID: from.ID,
					Text:       update.Message.Text,
					Username:   from.UserName,
					FullName:   fullName,
					MessageID:  update.Message.MessageID,
				}

				// фотографии приходят набором размеров, берем самый крупный
				if len(update.Message.Photo) > 0 {
					incoming.PhotoRef = update.Message.Photo[len(update.Message.Photo)-1].FileID
					if incoming.Text == "" {
						incoming.Text = update.Message.Caption
					}
				}

				messages <- incoming
			}

			if update.CallbackQuery != nil {
				from := update.CallbackQuery.From
				userName := from.FirstName
				if from.LastName != "" {
					userName += " " + from.LastName
				}

				callbacks <- models.CallbackQuery{
					ID:          update.CallbackQuery.ID,
					UserID:      from.ID,
					UserName:    userName,
					UserLogin:   from.UserName,
					MessageID:   update.CallbackQuery.Message.MessageID,
					ChatID:      update.CallbackQuery.Message.Chat.ID,
					Data:        update.CallbackQuery.Data,
					MessageText: update.CallbackQuery.Message.Text,
				}
			}
		}
	}()

	return messages, callbacks, nil
}
