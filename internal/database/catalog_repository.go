package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/setum77/myconfbot-sub000/internal/models"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// CatalogRepository представляет репозиторий для категорий, товаров и их фотографий
type CatalogRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewCatalogRepository создает новый репозиторий каталога
func NewCatalogRepository(db *sqlx.DB, logger *zap.Logger) *CatalogRepository {
	return &CatalogRepository{
		db:     db,
		logger: logger,
	}
}

// ---- Категории ----

// CreateCategory создает категорию. Имя уникально без учёта регистра.
func (r *CatalogRepository) CreateCategory(name, description string) (int64, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		r.logger.Error("Ошибка при начале транзакции", zap.Error(err))
		return 0, err
	}
	defer tx.Rollback()

	var count int
	err = tx.Get(&count, `SELECT COUNT(*) FROM categories WHERE LOWER(name) = LOWER($1)`, name)
	if err != nil {
		r.logger.Error("Ошибка при проверке уникальности категории", zap.Error(err))
		return 0, err
	}
	if count > 0 {
		return 0, ErrDuplicateCategory
	}

	var id int64
	err = tx.Get(&id,
		`INSERT INTO categories (name, description) VALUES ($1, $2) RETURNING id`,
		name, description,
	)
	if err != nil {
		r.logger.Error("Ошибка при создании категории",
			zap.Error(err),
			zap.String("name", name),
		)
		return 0, err
	}

	if err = tx.Commit(); err != nil {
		r.logger.Error("Ошибка при фиксации транзакции", zap.Error(err))
		return 0, err
	}

	return id, nil
}

// RenameCategory переименовывает категорию с той же проверкой уникальности
func (r *CatalogRepository) RenameCategory(id int64, name string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		r.logger.Error("Ошибка при начале транзакции", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	var count int
	err = tx.Get(&count,
		`SELECT COUNT(*) FROM categories WHERE LOWER(name) = LOWER($1) AND id <> $2`,
		name, id,
	)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicateCategory
	}

	result, err := tx.Exec(`UPDATE categories SET name = $1 WHERE id = $2`, name, id)
	if err != nil {
		r.logger.Error("Ошибка при переименовании категории",
			zap.Error(err),
			zap.Int64("category_id", id),
		)
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return tx.Commit()
}

func (r *CatalogRepository) UpdateCategoryDescription(id int64, description string) error {
	result, err := r.db.Exec(`UPDATE categories SET description = $1 WHERE id = $2`, description, id)
	if err != nil {
		r.logger.Error("Ошибка при обновлении описания категории",
			zap.Error(err),
			zap.Int64("category_id", id),
		)
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteCategory удаляет категорию. Блокируется, пока на неё ссылается хоть один товар.
func (r *CatalogRepository) DeleteCategory(id int64) error {
	tx, err := r.db.Beginx()
	if err != nil {
		r.logger.Error("Ошибка при начале транзакции", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	var count int
	err = tx.Get(&count, `SELECT COUNT(*) FROM products WHERE category_id = $1`, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return &CategoryHasProductsError{Count: count}
	}

	result, err := tx.Exec(`DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Ошибка при удалении категории",
			zap.Error(err),
			zap.Int64("category_id", id),
		)
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return tx.Commit()
}

func (r *CatalogRepository) GetCategory(id int64) (models.Category, error) {
	var category models.Category
	err := r.db.Get(&category, `SELECT * FROM categories WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Category{}, ErrNotFound
		}
		return models.Category{}, err
	}
	return category, nil
}

func (r *CatalogRepository) GetCategoryByName(name string) (models.Category, error) {
	var category models.Category
	err := r.db.Get(&category, `SELECT * FROM categories WHERE LOWER(name) = LOWER($1)`, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Category{}, ErrNotFound
		}
		return models.Category{}, err
	}
	return category, nil
}

func (r *CatalogRepository) ListCategories() ([]models.Category, error) {
	var categories []models.Category
	err := r.db.Select(&categories, `SELECT * FROM categories ORDER BY name`)
	if err != nil {
		r.logger.Error("Ошибка при получении списка категорий", zap.Error(err))
		return nil, err
	}
	return categories, nil
}

// ---- Товары ----

// CreateProduct создает товар. Поля уже проверены мастером создания,
// на границе хранилища повторно проверяются только цена и количество.
func (r *CatalogRepository) CreateProduct(p models.Product) (int64, error) {
	if p.Price < 0 {
		return 0, fmt.Errorf("цена не может быть отрицательной: %f", p.Price)
	}
	if p.Quantity < 0 {
		return 0, fmt.Errorf("количество не может быть отрицательным: %f", p.Quantity)
	}

	now := time.Now()
	var id int64
	err := r.db.Get(&id, `
        INSERT INTO products (
            name, category_id, short_description, price, unit, quantity,
            is_available, payment_type, cover_photo_path, created_at, updated_at
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        RETURNING id`,
		p.Name, p.CategoryID, p.ShortDescription, p.Price, p.Unit, p.Quantity,
		p.IsAvailable, p.PaymentType, p.CoverPhotoPath, now, now,
	)
	if err != nil {
		r.logger.Error("Ошибка при создании товара",
			zap.Error(err),
			zap.String("name", p.Name),
		)
		return 0, err
	}

	return id, nil
}

// Колонки товара, которые разрешено править по одной
var productColumns = map[string]string{
	"name":              "name",
	"category_id":       "category_id",
	"short_description": "short_description",
	"price":             "price",
	"unit":              "unit",
	"quantity":          "quantity",
	"is_available":      "is_available",
	"payment_type":      "payment_type",
	"cover_photo_path":  "cover_photo_path",
}

// UpdateProductField точечно обновляет одно поле товара.
// Возвращает false, если товара нет.
func (r *CatalogRepository) UpdateProductField(id int64, field string, value interface{}) (bool, error) {
	column, ok := productColumns[field]
	if !ok {
		return false, fmt.Errorf("недопустимое поле товара: %q", field)
	}

	query := fmt.Sprintf(`UPDATE products SET %s = $1, updated_at = $2 WHERE id = $3`, column)
	result, err := r.db.Exec(query, value, time.Now(), id)
	if err != nil {
		r.logger.Error("Ошибка при обновлении поля товара",
			zap.Error(err),
			zap.Int64("product_id", id),
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

func (r *CatalogRepository) GetProduct(id int64) (models.Product, error) {
	var product models.Product
	err := r.db.Get(&product, `SELECT * FROM products WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Product{}, ErrNotFound
		}
		return models.Product{}, err
	}
	return product, nil
}

func (r *CatalogRepository) ProductsByCategory(categoryID int64) ([]models.Product, error) {
	var products []models.Product
	err := r.db.Select(&products,
		`SELECT * FROM products WHERE category_id = $1 ORDER BY name`, categoryID)
	if err != nil {
		r.logger.Error("Ошибка при получении товаров категории",
			zap.Error(err),
			zap.Int64("category_id", categoryID),
		)
		return nil, err
	}
	return products, nil
}

// DeleteProduct удаляет товар вместе со строками фотографий.
// Возвращает пути файлов, которые должен убрать вызывающий.
func (r *CatalogRepository) DeleteProduct(id int64) ([]string, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		r.logger.Error("Ошибка при начале транзакции", zap.Error(err))
		return nil, err
	}
	defer tx.Rollback()

	var paths []string
	err = tx.Select(&paths, `SELECT photo_path FROM product_photos WHERE product_id = $1`, id)
	if err != nil {
		return nil, err
	}

	if _, err = tx.Exec(`DELETE FROM product_photos WHERE product_id = $1`, id); err != nil {
		return nil, err
	}

	result, err := tx.Exec(`DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Ошибка при удалении товара",
			zap.Error(err),
			zap.Int64("product_id", id),
		)
		return nil, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rowsAffected == 0 {
		return nil, ErrNotFound
	}

	if err = tx.Commit(); err != nil {
		r.logger.Error("Ошибка при фиксации транзакции", zap.Error(err))
		return nil, err
	}

	return paths, nil
}

// ---- Фотографии товара ----

// AddPhoto добавляет фотографию. Первая фотография товара становится главной
// независимо от флага; если новая фотография главная, прежняя перестает ею быть.
// Обложка товара синхронизируется с главной фотографией.
func (r *CatalogRepository) AddPhoto(productID int64, path string, isMain bool) (int64, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		r.logger.Error("Ошибка при начале транзакции", zap.Error(err))
		return 0, err
	}
	defer tx.Rollback()

	var existing int
	err = tx.Get(&existing, `SELECT COUNT(*) FROM product_photos WHERE product_id = $1`, productID)
	if err != nil {
		return 0, err
	}
	if existing == 0 {
		isMain = true
	}

	if isMain {
		if _, err = tx.Exec(
			`UPDATE product_photos SET is_main = FALSE WHERE product_id = $1`, productID); err != nil {
			return 0, err
		}
	}

	var id int64
	err = tx.Get(&id, `
        INSERT INTO product_photos (product_id, photo_path, is_main, order_index)
        VALUES ($1, $2, $3, $4)
        RETURNING id`,
		productID, path, isMain, existing,
	)
	if err != nil {
		r.logger.Error("Ошибка при добавлении фотографии",
			zap.Error(err),
			zap.Int64("product_id", productID),
		)
		return 0, err
	}

	if isMain {
		if _, err = tx.Exec(
			`UPDATE products SET cover_photo_path = $1 WHERE id = $2`, path, productID); err != nil {
			return 0, err
		}
	}

	if err = tx.Commit(); err != nil {
		r.logger.Error("Ошибка при фиксации транзакции", zap.Error(err))
		return 0, err
	}

	return id, nil
}

// ListPhotos возвращает фотографии товара: сначала главная, потом по порядку добавления
func (r *CatalogRepository) ListPhotos(productID int64) ([]models.ProductPhoto, error) {
	var photos []models.ProductPhoto
	err := r.db.Select(&photos, `
        SELECT * FROM product_photos
        WHERE product_id = $1
        ORDER BY is_main DESC, order_index, id`,
		productID,
	)
	if err != nil {
		r.logger.Error("Ошибка при получении фотографий товара",
			zap.Error(err),
			zap.Int64("product_id", productID),
		)
		return nil, err
	}
	return photos, nil
}

// SetMainPhoto делает фотографию главной, снимая флаг с прежней
func (r *CatalogRepository) SetMainPhoto(productID, photoID int64) error {
	tx, err := r.db.Beginx()
	if err != nil {
		r.logger.Error("Ошибка при начале транзакции", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	var path string
	err = tx.Get(&path,
		`SELECT photo_path FROM product_photos WHERE id = $1 AND product_id = $2`,
		photoID, productID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	if _, err = tx.Exec(
		`UPDATE product_photos SET is_main = FALSE WHERE product_id = $1`, productID); err != nil {
		return err
	}
	if _, err = tx.Exec(
		`UPDATE product_photos SET is_main = TRUE WHERE id = $1`, photoID); err != nil {
		return err
	}
	if _, err = tx.Exec(
		`UPDATE products SET cover_photo_path = $1 WHERE id = $2`, path, productID); err != nil {
		return err
	}

	return tx.Commit()
}

// DeletePhoto удаляет фотографию. Если удалена главная, главной становится
// следующая оставшаяся; если фотографий не осталось, обложка товара очищается.
// Возвращает путь удаленного файла.
func (r *CatalogRepository) DeletePhoto(productID, photoID int64) (string, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		r.logger.Error("Ошибка при начале транзакции", zap.Error(err))
		return "", err
	}
	defer tx.Rollback()

	var removed models.ProductPhoto
	err = tx.Get(&removed,
		`SELECT * FROM product_photos WHERE id = $1 AND product_id = $2`,
		photoID, productID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}

	if _, err = tx.Exec(`DELETE FROM product_photos WHERE id = $1`, photoID); err != nil {
		return "", err
	}

	if removed.IsMain {
		var next models.ProductPhoto
		err = tx.Get(&next, `
            SELECT * FROM product_photos
            WHERE product_id = $1
            ORDER BY order_index, id
            LIMIT 1`,
			productID,
		)
		switch {
		case err == nil:
			if _, err = tx.Exec(
				`UPDATE product_photos SET is_main = TRUE WHERE id = $1`, next.ID); err != nil {
				return "", err
			}
			if _, err = tx.Exec(
				`UPDATE products SET cover_photo_path = $1 WHERE id = $2`,
				next.PhotoPath, productID); err != nil {
				return "", err
			}
		case errors.Is(err, sql.ErrNoRows):
			if _, err = tx.Exec(
				`UPDATE products SET cover_photo_path = NULL WHERE id = $1`, productID); err != nil {
				return "", err
			}
		default:
			return "", err
		}
	}

	if err = tx.Commit(); err != nil {
		r.logger.Error("Ошибка при фиксации транзакции", zap.Error(err))
		return "", err
	}

	return removed.PhotoPath, nil
}
