// Package photostore отвечает за файлы фотографий на диске.
// Остальной код оперирует только строками путей.
package photostore

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const dirPermissions = 0o755

// Storage раскладывает фотографии по директориям товаров и заказов
type Storage struct {
	root   string
	logger *zap.Logger
}

func New(root string, logger *zap.Logger) (*Storage, error) {
	if err := os.MkdirAll(root, dirPermissions); err != nil {
		return nil, fmt.Errorf("не удалось создать директорию фотографий: %w", err)
	}
	return &Storage{root: root, logger: logger}, nil
}

// SaveProductPhoto сохраняет фотографию товара и возвращает путь к файлу
func (s *Storage) SaveProductPhoto(productID int64, data []byte) (string, error) {
	return s.save(filepath.Join("products", fmt.Sprintf("%d", productID)), data)
}

// SaveOrderPhoto сохраняет фотографию-подтверждение статуса заказа
func (s *Storage) SaveOrderPhoto(orderID int64, data []byte) (string, error) {
	return s.save(filepath.Join("orders", fmt.Sprintf("%d", orderID)), data)
}

// SaveUserPhoto сохраняет фотографию профиля пользователя
func (s *Storage) SaveUserPhoto(userID int64, data []byte) (string, error) {
	return s.save(filepath.Join("users", fmt.Sprintf("%d", userID)), data)
}

func (s *Storage) save(subdir string, data []byte) (string, error) {
	dir := filepath.Join(s.root, subdir)
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return "", fmt.Errorf("не удалось создать директорию %s: %w", dir, err)
	}

	path := filepath.Join(dir, uuid.NewString()+".jpg")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("не удалось записать файл фотографии: %w", err)
	}

	return path, nil
}

// Delete убирает один файл. Отсутствующий файл не считается ошибкой.
func (s *Storage) Delete(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("Не удалось удалить файл фотографии",
			zap.Error(err),
			zap.String("path", path),
		)
		return err
	}
	return nil
}

// DeleteProductDir убирает директорию товара вместе со всеми файлами
func (s *Storage) DeleteProductDir(productID int64) error {
	dir := filepath.Join(s.root, "products", fmt.Sprintf("%d", productID))
	if err := os.RemoveAll(dir); err != nil {
		s.logger.Warn("Не удалось удалить директорию товара",
			zap.Error(err),
			zap.String("dir", dir),
		)
		return err
	}
	return nil
}
