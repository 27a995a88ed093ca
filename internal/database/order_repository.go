package database

import (
	"database/sql"
	"errors"
	"time"

	"github.com/setum77/myconfbot-sub000/internal/models"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// OrderRepository представляет репозиторий для работы с заказами,
// историей их статусов и перепиской
type OrderRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewOrderRepository создает новый репозиторий заказов
func NewOrderRepository(db *sqlx.DB, logger *zap.Logger) *OrderRepository {
	return &OrderRepository{
		db:     db,
		logger: logger,
	}
}

// CreateOrder создает заказ вместе с первой записью истории статусов ("новый")
// в одной транзакции. У любого заказа история непуста с момента создания.
func (r *OrderRepository) CreateOrder(order models.Order) (int64, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		r.logger.Error("Ошибка при начале транзакции", zap.Error(err))
		return 0, err
	}
	defer tx.Rollback()

	now := time.Now()
	var id int64
	err = tx.Get(&id, `
        INSERT INTO orders (
            user_id, product_id, quantity, weight_grams, delivery_type,
            delivery_address, created_at, ready_at, total_cost,
            payment_type, payment_status, admin_notes
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
        RETURNING id`,
		order.UserID, order.ProductID, order.Quantity, order.WeightGrams,
		order.DeliveryType, order.DeliveryAddress, now, order.ReadyAt,
		order.TotalCost, order.PaymentType, order.PaymentStatus, order.AdminNotes,
	)
	if err != nil {
		r.logger.Error("Ошибка при создании заказа",
			zap.Error(err),
			zap.Int64("user_id", order.UserID),
		)
		return 0, err
	}

	_, err = tx.Exec(`
        INSERT INTO order_status_events (order_id, status, created_at, admin_notes)
        VALUES ($1, $2, $3, '')`,
		id, models.OrderStatusNew, now,
	)
	if err != nil {
		r.logger.Error("Ошибка при создании начального статуса заказа",
			zap.Error(err),
			zap.Int64("order_id", id),
		)
		return 0, err
	}

	if err = tx.Commit(); err != nil {
		r.logger.Error("Ошибка при фиксации транзакции", zap.Error(err))
		return 0, err
	}

	return id, nil
}

func (r *OrderRepository) GetOrder(id int64) (models.Order, error) {
	var order models.Order
	err := r.db.Get(&order, `SELECT * FROM orders WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Order{}, ErrNotFound
		}
		r.logger.Error("Ошибка при получении заказа",
			zap.Error(err),
			zap.Int64("order_id", id),
		)
		return models.Order{}, err
	}
	return order, nil
}

func (r *OrderRepository) ListByUser(userID int64) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Select(&orders,
		`SELECT * FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		r.logger.Error("Ошибка при получении заказов пользователя",
			zap.Error(err),
			zap.Int64("user_id", userID),
		)
		return nil, err
	}
	return orders, nil
}

func (r *OrderRepository) ListAll() ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Select(&orders, `SELECT * FROM orders ORDER BY created_at DESC`)
	if err != nil {
		r.logger.Error("Ошибка при получении всех заказов", zap.Error(err))
		return nil, err
	}
	return orders, nil
}

// ---- История статусов ----

// AddStatusEvent добавляет запись в историю статусов. Записи никогда
// не перезаписываются, порядок переходов не ограничивается: единственная
// точка входа, где при необходимости можно будет добавить граф переходов.
func (r *OrderRepository) AddStatusEvent(orderID int64, status models.OrderStatus, adminNotes string, photoPath *string) error {
	var exists int
	err := r.db.Get(&exists, `SELECT COUNT(*) FROM orders WHERE id = $1`, orderID)
	if err != nil {
		return err
	}
	if exists == 0 {
		return ErrNotFound
	}

	_, err = r.db.Exec(`
        INSERT INTO order_status_events (order_id, status, created_at, admin_notes, photo_path)
        VALUES ($1, $2, $3, $4, $5)`,
		orderID, status, time.Now(), adminNotes, photoPath,
	)
	if err != nil {
		r.logger.Error("Ошибка при добавлении статуса заказа",
			zap.Error(err),
			zap.Int64("order_id", orderID),
			zap.String("status", string(status)),
		)
		return err
	}

	return nil
}

// CurrentStatus возвращает последнюю запись истории. Текущий статус - это
// производное чтение, отдельной колонки, которую нужно поддерживать, нет.
func (r *OrderRepository) CurrentStatus(orderID int64) (models.OrderStatusEvent, error) {
	var event models.OrderStatusEvent
	err := r.db.Get(&event, `
        SELECT * FROM order_status_events
        WHERE order_id = $1
        ORDER BY created_at DESC, id DESC
        LIMIT 1`,
		orderID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.OrderStatusEvent{}, ErrNotFound
		}
		return models.OrderStatusEvent{}, err
	}
	return event, nil
}

func (r *OrderRepository) StatusHistory(orderID int64) ([]models.OrderStatusEvent, error) {
	var events []models.OrderStatusEvent
	err := r.db.Select(&events, `
        SELECT * FROM order_status_events
        WHERE order_id = $1
        ORDER BY created_at, id`,
		orderID,
	)
	if err != nil {
		r.logger.Error("Ошибка при получении истории статусов",
			zap.Error(err),
			zap.Int64("order_id", orderID),
		)
		return nil, err
	}
	return events, nil
}

// ---- Переписка по заказу ----

func (r *OrderRepository) AddNote(orderID, userID int64, text string) error {
	var exists int
	err := r.db.Get(&exists, `SELECT COUNT(*) FROM orders WHERE id = $1`, orderID)
	if err != nil {
		return err
	}
	if exists == 0 {
		return ErrNotFound
	}

	_, err = r.db.Exec(`
        INSERT INTO order_notes (order_id, user_id, note_text, created_at)
        VALUES ($1, $2, $3, $4)`,
		orderID, userID, text, time.Now(),
	)
	if err != nil {
		r.logger.Error("Ошибка при добавлении сообщения к заказу",
			zap.Error(err),
			zap.Int64("order_id", orderID),
		)
		return err
	}
	return nil
}

func (r *OrderRepository) Notes(orderID int64) ([]models.OrderNote, error) {
	var notes []models.OrderNote
	err := r.db.Select(&notes, `
        SELECT * FROM order_notes
        WHERE order_id = $1
        ORDER BY created_at, id`,
		orderID,
	)
	if err != nil {
		r.logger.Error("Ошибка при получении переписки по заказу",
			zap.Error(err),
			zap.Int64("order_id", orderID),
		)
		return nil, err
	}
	return notes, nil
}

// ---- Поля, редактируемые админом ----

func (r *OrderRepository) UpdateTotalCost(orderID int64, cost float64) error {
	return r.patch(orderID, `UPDATE orders SET total_cost = $1 WHERE id = $2`, cost)
}

func (r *OrderRepository) UpdateReadyAt(orderID int64, readyAt time.Time) error {
	return r.patch(orderID, `UPDATE orders SET ready_at = $1 WHERE id = $2`, readyAt)
}

func (r *OrderRepository) UpdatePaymentStatus(orderID int64, status models.PaymentStatus) error {
	return r.patch(orderID, `UPDATE orders SET payment_status = $1 WHERE id = $2`, status)
}

func (r *OrderRepository) UpdateAdminNotes(orderID int64, notes string) error {
	return r.patch(orderID, `UPDATE orders SET admin_notes = $1 WHERE id = $2`, notes)
}

// UpdateDelivery меняет способ получения. Для самовывоза адрес обнуляется
// тем же запросом, наполовину обновленного заказа не бывает.
func (r *OrderRepository) UpdateDelivery(orderID int64, deliveryType models.DeliveryType, address *string) error {
	result, err := r.db.Exec(
		`UPDATE orders SET delivery_type = $1, delivery_address = $2 WHERE id = $3`,
		deliveryType, address, orderID,
	)
	if err != nil {
		r.logger.Error("Ошибка при обновлении доставки заказа",
			zap.Error(err),
			zap.Int64("order_id", orderID),
		)
		return err
	}
	return r.checkAffected(result)
}

// UpdateQuantity задает количество, одновременно обнуляя вес
func (r *OrderRepository) UpdateQuantity(orderID int64, quantity float64) error {
	result, err := r.db.Exec(
		`UPDATE orders SET quantity = $1, weight_grams = NULL WHERE id = $2`,
		quantity, orderID,
	)
	if err != nil {
		return err
	}
	return r.checkAffected(result)
}

// UpdateWeight задает вес в граммах, одновременно обнуляя количество
func (r *OrderRepository) UpdateWeight(orderID int64, weightGrams float64) error {
	result, err := r.db.Exec(
		`UPDATE orders SET weight_grams = $1, quantity = NULL WHERE id = $2`,
		weightGrams, orderID,
	)
	if err != nil {
		return err
	}
	return r.checkAffected(result)
}

func (r *OrderRepository) patch(orderID int64, query string, value interface{}) error {
	result, err := r.db.Exec(query, value, orderID)
	if err != nil {
		r.logger.Error("Ошибка при обновлении поля заказа",
			zap.Error(err),
			zap.Int64("order_id", orderID),
		)
		return err
	}
	return r.checkAffected(result)
}

func (r *OrderRepository) checkAffected(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ---- Жадная сборка для слоя отображения ----

// GetOrderDetails собирает заказ со всеми связями за одно обращение.
// Результат - обычные структуры: к моменту, когда слой отображения
// доберется до данных, никакой открытой сессии БД уже нет.
func (r *OrderRepository) GetOrderDetails(orderID int64) (models.OrderDetails, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		r.logger.Error("Ошибка при начале транзакции", zap.Error(err))
		return models.OrderDetails{}, err
	}
	defer tx.Rollback()

	var details models.OrderDetails

	err = tx.Get(&details.Order, `SELECT * FROM orders WHERE id = $1`, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.OrderDetails{}, ErrNotFound
		}
		return models.OrderDetails{}, err
	}

	if err = tx.Get(&details.User,
		`SELECT * FROM users WHERE id = $1`, details.Order.UserID); err != nil {
		return models.OrderDetails{}, err
	}

	if err = tx.Get(&details.Product,
		`SELECT * FROM products WHERE id = $1`, details.Order.ProductID); err != nil {
		return models.OrderDetails{}, err
	}

	if err = tx.Get(&details.Category,
		`SELECT * FROM categories WHERE id = $1`, details.Product.CategoryID); err != nil {
		return models.OrderDetails{}, err
	}

	if err = tx.Get(&details.Status, `
        SELECT * FROM order_status_events
        WHERE order_id = $1
        ORDER BY created_at DESC, id DESC
        LIMIT 1`,
		orderID,
	); err != nil {
		return models.OrderDetails{}, err
	}

	var firstNote models.OrderNote
	err = tx.Get(&firstNote, `
        SELECT * FROM order_notes
        WHERE order_id = $1
        ORDER BY created_at, id
        LIMIT 1`,
		orderID,
	)
	switch {
	case err == nil:
		details.FirstNote = &firstNote
	case errors.Is(err, sql.ErrNoRows):
		// переписки может не быть
	default:
		return models.OrderDetails{}, err
	}

	if err = tx.Commit(); err != nil {
		return models.OrderDetails{}, err
	}

	return details, nil
}
