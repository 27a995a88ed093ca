package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/setum77/myconfbot-sub000/internal/models"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// UserRepository представляет репозиторий для работы с пользователями
type UserRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewUserRepository создает новый репозиторий пользователей
func NewUserRepository(db *sqlx.DB, logger *zap.Logger) *UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger,
	}
}

// EnsureUser создает пользователя при первом контакте или обновляет имя.
// Флаг is_admin выставляется один раз по списку админов из конфига
// и дальше живет своей жизнью в базе.
func (r *UserRepository) EnsureUser(telegramID int64, fullName string, isAdmin bool) (models.User, error) {
	query := `
        INSERT INTO users (telegram_id, full_name, is_admin)
        VALUES ($1, $2, $3)
        ON CONFLICT (telegram_id) DO UPDATE SET
            full_name = EXCLUDED.full_name
    `

	_, err := r.db.Exec(query, telegramID, fullName, isAdmin)
	if err != nil {
		r.logger.Error("Ошибка при создании/обновлении пользователя",
			zap.Error(err),
			zap.Int64("telegram_id", telegramID),
		)
		return models.User{}, err
	}

	return r.GetByTelegramID(telegramID)
}

func (r *UserRepository) GetByTelegramID(telegramID int64) (models.User, error) {
	var user models.User
	query := `SELECT * FROM users WHERE telegram_id = $1`

	err := r.db.Get(&user, query, telegramID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		r.logger.Error("Ошибка при получении пользователя",
			zap.Error(err),
			zap.Int64("telegram_id", telegramID),
		)
		return models.User{}, err
	}

	return user, nil
}

func (r *UserRepository) GetByID(id int64) (models.User, error) {
	var user models.User
	query := `SELECT * FROM users WHERE id = $1`

	err := r.db.Get(&user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		r.logger.Error("Ошибка при получении пользователя",
			zap.Error(err),
			zap.Int64("user_id", id),
		)
		return models.User{}, err
	}

	return user, nil
}

// Колонки профиля, которые разрешено править по одной
var userProfileColumns = map[string]string{
	"full_name":       "full_name",
	"phone":           "phone",
	"address":         "address",
	"characteristics": "characteristics",
	"photo_path":      "photo_path",
}

// UpdateProfileField точечно обновляет одно поле профиля
func (r *UserRepository) UpdateProfileField(id int64, field string, value interface{}) (bool, error) {
	column, ok := userProfileColumns[field]
	if !ok {
		return false, fmt.Errorf("недопустимое поле профиля: %q", field)
	}

	query := fmt.Sprintf(`UPDATE users SET %s = $1 WHERE id = $2`, column)
	result, err := r.db.Exec(query, value, id)
	if err != nil {
		r.logger.Error("Ошибка при обновлении поля профиля",
			zap.Error(err),
			zap.Int64("user_id", id),
			zap.String("field", field),
		)
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected > 0, nil
}

// ListAdmins возвращает всех админов для рассылки уведомлений о новых заказах
func (r *UserRepository) ListAdmins() ([]models.User, error) {
	var admins []models.User
	query := `SELECT * FROM users WHERE is_admin = TRUE`

	err := r.db.Select(&admins, query)
	if err != nil {
		r.logger.Error("Ошибка при получении списка админов", zap.Error(err))
		return nil, err
	}

	return admins, nil
}
