// Package orders - жизненный цикл заказа: создание, история статусов,
// переписка и поля, которые админ правит после создания.
package orders

import (
	"errors"
	"fmt"
	"time"

	"github.com/setum77/myconfbot-sub000/internal/database"
	"github.com/setum77/myconfbot-sub000/internal/models"

	"go.uber.org/zap"
)

var (
	// ErrNegativeCost - попытка задать отрицательную стоимость
	ErrNegativeCost = errors.New("стоимость не может быть отрицательной")

	// ErrAddressRequired - для доставки нужен адрес
	ErrAddressRequired = errors.New("для доставки нужно указать адрес")

	// ErrNotPositive - количество и вес должны быть положительными
	ErrNotPositive = errors.New("значение должно быть положительным числом")
)

// Manager - единственная точка входа для всех изменений заказа
type Manager struct {
	repo    *database.OrderRepository
	catalog *database.CatalogRepository
	logger  *zap.Logger
}

func NewManager(repo *database.OrderRepository, catalog *database.CatalogRepository, logger *zap.Logger) *Manager {
	return &Manager{
		repo:    repo,
		catalog: catalog,
		logger:  logger,
	}
}

// PlaceOrderParams - результат мастера оформления заказа
type PlaceOrderParams struct {
	UserID          int64
	ProductID       int64
	Quantity        *float64
	WeightGrams     *float64
	DeliveryType    models.DeliveryType
	DeliveryAddress *string
	ReadyAt         *time.Time
	CustomerNote    string
}

// PlaceOrder создает заказ на завершении мастера. Стоимость считается здесь
// и замораживается; условия оплаты копируются с товара; начальная запись
// истории ("новый") появляется в той же транзакции, что и заказ.
func (m *Manager) PlaceOrder(p PlaceOrderParams) (int64, error) {
	product, err := m.catalog.GetProduct(p.ProductID)
	if err != nil {
		return 0, err
	}

	order := models.Order{
		UserID:          p.UserID,
		ProductID:       p.ProductID,
		Quantity:        p.Quantity,
		WeightGrams:     p.WeightGrams,
		DeliveryType:    p.DeliveryType,
		DeliveryAddress: p.DeliveryAddress,
		ReadyAt:         p.ReadyAt,
		TotalCost:       TotalCost(product, p.Quantity, p.WeightGrams),
		PaymentType:     product.PaymentType,
		PaymentStatus:   product.PaymentType.InitialPaymentStatus(),
	}

	orderID, err := m.repo.CreateOrder(order)
	if err != nil {
		return 0, err
	}

	if p.CustomerNote != "" {
		if err := m.repo.AddNote(orderID, p.UserID, p.CustomerNote); err != nil {
			m.logger.Warn("Не удалось сохранить комментарий к заказу",
				zap.Error(err),
				zap.Int64("order_id", orderID),
			)
		}
	}

	m.logger.Info("Создан заказ",
		zap.Int64("order_id", orderID),
		zap.Int64("user_id", p.UserID),
		zap.Int64("product_id", p.ProductID),
		zap.Float64("total_cost", order.TotalCost),
	)

	return orderID, nil
}

// TotalCost считает стоимость: цена указана за product.Quantity единиц.
// Для штучных товаров доля - это количество, для весовых - вес в граммах
// против знаменателя, переведенного в граммы.
func TotalCost(product models.Product, quantity, weightGrams *float64) float64 {
	denominator := product.Quantity
	if denominator <= 0 {
		denominator = 1
	}

	if product.Unit.ByWeight() {
		if weightGrams == nil {
			return 0
		}
		grams := denominator * float64(product.Unit.UnitGrams())
		return product.Price * *weightGrams / grams
	}

	if quantity == nil {
		return 0
	}
	return product.Price * *quantity / denominator
}

// ---- История статусов ----

// AddStatusEvent добавляет запись истории. Набор меток фиксирован, но любой
// статус может следовать за любым: админ свободно исправляет ошибки.
func (m *Manager) AddStatusEvent(orderID int64, status models.OrderStatus, adminNotes string, photoPath *string) error {
	if !status.Valid() {
		return fmt.Errorf("неизвестный статус заказа: %q", status)
	}
	return m.repo.AddStatusEvent(orderID, status, adminNotes, photoPath)
}

// CurrentStatus возвращает последнюю запись истории
func (m *Manager) CurrentStatus(orderID int64) (models.OrderStatusEvent, error) {
	return m.repo.CurrentStatus(orderID)
}

func (m *Manager) History(orderID int64) ([]models.OrderStatusEvent, error) {
	return m.repo.StatusHistory(orderID)
}

// ---- Переписка ----

// AddNote добавляет сообщение в переписку по заказу. Доступно и клиенту,
// и любому админу; роль автора выводится из users.is_admin при чтении.
func (m *Manager) AddNote(orderID, authorUserID int64, text string) error {
	return m.repo.AddNote(orderID, authorUserID, text)
}

func (m *Manager) Notes(orderID int64) ([]models.OrderNote, error) {
	return m.repo.Notes(orderID)
}

// ---- Чтение ----

func (m *Manager) Order(orderID int64) (models.Order, error) {
	return m.repo.GetOrder(orderID)
}

// Details возвращает заказ со всеми связями одной плоской структурой
func (m *Manager) Details(orderID int64) (models.OrderDetails, error) {
	return m.repo.GetOrderDetails(orderID)
}

func (m *Manager) OrdersByUser(userID int64) ([]models.Order, error) {
	return m.repo.ListByUser(userID)
}

func (m *Manager) AllOrders() ([]models.Order, error) {
	return m.repo.ListAll()
}

// ---- Поля, редактируемые админом ----

func (m *Manager) SetTotalCost(orderID int64, cost float64) error {
	if cost < 0 {
		return ErrNegativeCost
	}
	return m.repo.UpdateTotalCost(orderID, cost)
}

// SetDelivery меняет способ получения. Для самовывоза адрес очищается,
// для доставки он обязателен.
func (m *Manager) SetDelivery(orderID int64, deliveryType models.DeliveryType, address string) error {
	if !deliveryType.Valid() {
		return fmt.Errorf("неизвестный способ получения: %q", deliveryType)
	}

	if deliveryType == models.DeliveryTypePickup {
		return m.repo.UpdateDelivery(orderID, deliveryType, nil)
	}

	if len([]rune(address)) < 5 {
		return ErrAddressRequired
	}
	return m.repo.UpdateDelivery(orderID, deliveryType, &address)
}

func (m *Manager) SetReadyAt(orderID int64, readyAt time.Time) error {
	return m.repo.UpdateReadyAt(orderID, readyAt)
}

// SetQuantity задает количество; вес при этом обнуляется
func (m *Manager) SetQuantity(orderID int64, quantity float64) error {
	if quantity <= 0 {
		return ErrNotPositive
	}
	return m.repo.UpdateQuantity(orderID, quantity)
}

// SetWeight задает вес в граммах; количество при этом обнуляется
func (m *Manager) SetWeight(orderID int64, weightGrams float64) error {
	if weightGrams <= 0 {
		return ErrNotPositive
	}
	return m.repo.UpdateWeight(orderID, weightGrams)
}

func (m *Manager) SetPaymentStatus(orderID int64, status models.PaymentStatus) error {
	if !status.Valid() {
		return fmt.Errorf("неизвестный статус оплаты: %q", status)
	}
	return m.repo.UpdatePaymentStatus(orderID, status)
}

func (m *Manager) SetAdminNotes(orderID int64, notes string) error {
	return m.repo.UpdateAdminNotes(orderID, notes)
}
