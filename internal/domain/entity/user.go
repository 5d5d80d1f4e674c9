package entity

// UserState состояние пользователя в диалоге с ботом
type UserState string

const (
	StateMainMenu      UserState = "main_menu"      // В главном меню
	StateAwaitingImage UserState = "awaiting_image" // Ожидание изображения для нормализации
	StateAwaitingDicom UserState = "awaiting_dicom" // Ожидание DICOM-файла для чтения тегов
	StateProcessing    UserState = "processing"     // Обработка файла
)

// User представляет пользователя бота
type User struct {
	ID        int64        // Telegram User ID
	ChatID    int64        // Telegram Chat ID
	State     UserState    // Текущее состояние пользователя
	Rounding  RoundingMode // Режим округления; пусто — режим из конфигурации
	Processed int          // Сколько файлов обработано за сессию
}

// NewUser создаёт нового пользователя с начальным состоянием
func NewUser(userID, chatID int64) *User {
	return &User{
		ID:     userID,
		ChatID: chatID,
		State:  StateMainMenu,
	}
}

// SetState обновляет состояние пользователя
func (u *User) SetState(state UserState) {
	u.State = state
}

// Awaits сообщает, ждёт ли бот от пользователя файл.
func (u *User) Awaits() bool {
	return u.State == StateAwaitingImage || u.State == StateAwaitingDicom
}
