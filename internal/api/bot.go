package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	app "dlfx/internal/application"
	"dlfx/internal/domain/entity"
)

const (
	msgStart = `👋 Привет! Я помогаю быстро посмотреть медицинские изображения перед подачей в модель.

📋 Команды:
/normalize — привести изображение к 8-битному RGB
/tags — показать теги DICOM-файла
/rounding — режим округления (truncate или nearest)
/help — справка
/cancel — отменить текущую операцию`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ Выберите /normalize или /tags
2️⃣ Отправьте файл документом (без сжатия), чтобы сохранить разрядность
3️⃣ Получите PNG с растянутым диапазоном или список тегов

💡 Поддерживаются PNG, JPEG, TIFF, BMP и DICOM.
Изображения с 2 или 4 каналами не поддерживаются.`

	msgAwaitingImage   = "📸 Отправьте изображение или DICOM-файл документом."
	msgAwaitingDicom   = "📄 Отправьте DICOM-файл документом."
	msgCancelled       = "❌ Операция отменена."
	msgChooseAction    = "Выберите действие: /normalize или /tags."
	msgUnknownCommand  = "❓ Неизвестная команда. Используйте /help для справки."
	msgProcessing      = "⏳ Обрабатываю файл..."
	msgProcessingError = "⚠️ Не удалось обработать файл."
	msgRoundingUsage   = "Использование: /rounding truncate или /rounding nearest"
	msgNoTags          = "ℹ️ В файле нет тегов."

	// maxMessageLen — ограничение Telegram на длину текста сообщения.
	maxMessageLen = 4096
)

// Bot представляет Telegram-бота
type Bot struct {
	api     *tgbotapi.BotAPI
	users   *app.UserService
	preview *app.PreviewService
}

// NewBot создаёт нового бота
func NewBot(token string, users *app.UserService, preview *app.PreviewService) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	log.Printf("Authorized on account %s", api.Self.UserName)

	return &Bot{
		api:     api,
		users:   users,
		preview: preview,
	}, nil
}

// Run запускает основной цикл обработки сообщений до отмены контекста
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	user, err := b.users.Get(ctx, msg.From.ID, msg.Chat.ID)
	if err != nil {
		log.Printf("Error getting user: %v", err)
		return
	}

	if msg.IsCommand() {
		b.handleCommand(ctx, msg, user)
		return
	}

	fileID := incomingFileID(msg)
	if fileID == "" || !user.Awaits() {
		b.sendMessage(msg.Chat.ID, msgChooseAction)
		return
	}

	b.handleFile(ctx, msg, user, fileID)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	var err error
	switch msg.Command() {
	case "start":
		_, err = b.users.Cancel(ctx, user.ID, user.ChatID)
		b.sendMessage(msg.Chat.ID, msgStart)

	case "help":
		b.sendMessage(msg.Chat.ID, msgHelp)

	case "normalize":
		_, err = b.users.BeginNormalize(ctx, user.ID, user.ChatID)
		b.sendMessage(msg.Chat.ID, msgAwaitingImage)

	case "tags":
		_, err = b.users.BeginTags(ctx, user.ID, user.ChatID)
		b.sendMessage(msg.Chat.ID, msgAwaitingDicom)

	case "rounding":
		mode, parseErr := entity.ParseRoundingMode(strings.TrimSpace(msg.CommandArguments()))
		if parseErr != nil || msg.CommandArguments() == "" {
			b.sendMessage(msg.Chat.ID, msgRoundingUsage)
			return
		}
		_, err = b.users.SetRounding(ctx, user.ID, user.ChatID, mode)
		b.sendMessage(msg.Chat.ID, fmt.Sprintf("Режим округления: %s", mode))

	case "cancel":
		_, err = b.users.Cancel(ctx, user.ID, user.ChatID)
		b.sendMessage(msg.Chat.ID, msgCancelled)

	default:
		b.sendMessage(msg.Chat.ID, msgUnknownCommand)
	}

	if err != nil {
		log.Printf("Error updating user %d: %v", user.ID, err)
	}
}

// handleFile скачивает присланный файл и выполняет ожидаемую операцию
func (b *Bot) handleFile(ctx context.Context, msg *tgbotapi.Message, user *entity.User, fileID string) {
	b.sendMessage(msg.Chat.ID, msgProcessing)

	data, err := b.downloadFile(ctx, fileID)
	if err != nil {
		log.Printf("Error downloading file: %v", err)
		b.sendMessage(msg.Chat.ID, msgProcessingError)
		if _, err := b.users.Cancel(ctx, user.ID, user.ChatID); err != nil {
			log.Printf("Error updating user %d: %v", user.ID, err)
		}
		return
	}
	log.Printf("Received file from %d: %d bytes", user.ID, len(data))

	switch user.State {
	case entity.StateAwaitingImage:
		b.replyNormalized(ctx, msg, user, data)
	case entity.StateAwaitingDicom:
		b.replyTags(ctx, msg, user, data)
	}
}

func (b *Bot) replyNormalized(ctx context.Context, msg *tgbotapi.Message, user *entity.User, data []byte) {
	out, err := b.preview.Normalize(ctx, user.ID, user.ChatID, data)
	if err != nil {
		log.Printf("Error normalizing image: %v", err)
		b.sendMessage(msg.Chat.ID, describeError(err))
		return
	}

	doc := tgbotapi.NewDocument(msg.Chat.ID, tgbotapi.FileBytes{Name: "normalized.png", Bytes: out.PNG})
	doc.Caption = fmt.Sprintf("✅ Исходная форма %v, округление %s", out.SourceShape, out.Rounding)
	if _, err := b.api.Send(doc); err != nil {
		log.Printf("Error sending document: %v", err)
	}
}

func (b *Bot) replyTags(ctx context.Context, msg *tgbotapi.Message, user *entity.User, data []byte) {
	fields, err := b.preview.Tags(ctx, user.ID, user.ChatID, data)
	if err != nil {
		log.Printf("Error reading tags: %v", err)
		b.sendMessage(msg.Chat.ID, msgProcessingError)
		return
	}
	b.sendMessage(msg.Chat.ID, tagsReply(fields))
}

// tagsReply форматирует теги для сообщения; Telegram не принимает пустой текст.
func tagsReply(fields []entity.MetadataField) string {
	if len(fields) == 0 {
		return msgNoTags
	}
	return app.FormatFields(fields, maxMessageLen)
}

// describeError объясняет пользователю причину отказа
func describeError(err error) string {
	var shapeErr *entity.UnsupportedShapeError
	if errors.As(err, &shapeErr) {
		return "⚠️ " + shapeErr.Error()
	}
	if errors.Is(err, entity.ErrEmptyImage) {
		return "⚠️ Пустое изображение."
	}
	return msgProcessingError
}

// incomingFileID возвращает идентификатор файла из документа или фото
func incomingFileID(msg *tgbotapi.Message) string {
	if msg.Document != nil {
		return msg.Document.FileID
	}
	if len(msg.Photo) > 0 {
		// Берём фото с максимальным разрешением
		return msg.Photo[len(msg.Photo)-1].FileID
	}
	return ""
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.Link(b.api.Token), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Error sending message: %v", err)
	}
}
