// Package catalog - управление категориями, товарами и их фотографиями
package catalog

import (
	"errors"

	"github.com/setum77/myconfbot-sub000/internal/database"
	"github.com/setum77/myconfbot-sub000/internal/models"
	"github.com/setum77/myconfbot-sub000/internal/photostore"

	"go.uber.org/zap"
)

// ErrBadPhotoNumber - номер фотографии вне списка фотографий товара
var ErrBadPhotoNumber = errors.New("фотографии с таким номером нет")

// Manager - бизнес-слой каталога поверх репозитория и файлового хранилища
type Manager struct {
	repo   *database.CatalogRepository
	photos *photostore.Storage
	logger *zap.Logger
}

func NewManager(repo *database.CatalogRepository, photos *photostore.Storage, logger *zap.Logger) *Manager {
	return &Manager{
		repo:   repo,
		photos: photos,
		logger: logger,
	}
}

// ---- Категории ----

func (m *Manager) CreateCategory(name, description string) (int64, error) {
	return m.repo.CreateCategory(name, description)
}

func (m *Manager) RenameCategory(id int64, name string) error {
	return m.repo.RenameCategory(id, name)
}

func (m *Manager) UpdateCategoryDescription(id int64, description string) error {
	return m.repo.UpdateCategoryDescription(id, description)
}

func (m *Manager) DeleteCategory(id int64) error {
	return m.repo.DeleteCategory(id)
}

func (m *Manager) Category(id int64) (models.Category, error) {
	return m.repo.GetCategory(id)
}

func (m *Manager) CategoryByName(name string) (models.Category, error) {
	return m.repo.GetCategoryByName(name)
}

func (m *Manager) Categories() ([]models.Category, error) {
	return m.repo.ListCategories()
}

// ---- Товары ----

// CreateProduct сохраняет товар. Поля проверяет мастер создания,
// здесь только границы хранилища (цена и количество неотрицательны).
func (m *Manager) CreateProduct(p models.Product) (int64, error) {
	return m.repo.CreateProduct(p)
}

func (m *Manager) UpdateProductField(id int64, field string, value interface{}) (bool, error) {
	return m.repo.UpdateProductField(id, field, value)
}

func (m *Manager) SetAvailability(id int64, available bool) (bool, error) {
	return m.repo.UpdateProductField(id, "is_available", available)
}

func (m *Manager) Product(id int64) (models.Product, error) {
	return m.repo.GetProduct(id)
}

func (m *Manager) ProductsByCategory(categoryID int64) ([]models.Product, error) {
	return m.repo.ProductsByCategory(categoryID)
}

// DeleteProduct удаляет товар, строки его фотографий, файлы и директорию товара
func (m *Manager) DeleteProduct(id int64) error {
	paths, err := m.repo.DeleteProduct(id)
	if err != nil {
		return err
	}

	for _, path := range paths {
		m.photos.Delete(path)
	}
	m.photos.DeleteProductDir(id)

	m.logger.Info("Товар удален",
		zap.Int64("product_id", id),
		zap.Int("photos_removed", len(paths)),
	)
	return nil
}

// ---- Фотографии ----

// AddPhoto сохраняет файл и регистрирует фотографию у товара.
// Если строку в базе создать не удалось, файл убирается.
func (m *Manager) AddPhoto(productID int64, data []byte, isMain bool) (int64, error) {
	path, err := m.photos.SaveProductPhoto(productID, data)
	if err != nil {
		return 0, err
	}

	id, err := m.repo.AddPhoto(productID, path, isMain)
	if err != nil {
		m.photos.Delete(path)
		return 0, err
	}
	return id, nil
}

// Photos возвращает фотографии товара: главная первой
func (m *Manager) Photos(productID int64) ([]models.ProductPhoto, error) {
	return m.repo.ListPhotos(productID)
}

// SetMainPhoto назначает главную фотографию по номеру из списка (с единицы)
func (m *Manager) SetMainPhoto(productID int64, number int) error {
	photo, err := m.photoByNumber(productID, number)
	if err != nil {
		return err
	}
	return m.repo.SetMainPhoto(productID, photo.ID)
}

// DeletePhoto удаляет фотографию по номеру из списка (с единицы).
// Если удалена главная, главной становится следующая оставшаяся.
func (m *Manager) DeletePhoto(productID int64, number int) error {
	photo, err := m.photoByNumber(productID, number)
	if err != nil {
		return err
	}

	path, err := m.repo.DeletePhoto(productID, photo.ID)
	if err != nil {
		return err
	}
	return m.photos.Delete(path)
}

func (m *Manager) photoByNumber(productID int64, number int) (models.ProductPhoto, error) {
	photos, err := m.repo.ListPhotos(productID)
	if err != nil {
		return models.ProductPhoto{}, err
	}
	if number < 1 || number > len(photos) {
		return models.ProductPhoto{}, ErrBadPhotoNumber
	}
	return photos[number-1], nil
}
