package models

import "strings"

// OrderStatus - метка статуса в истории заказа. Набор фиксирован,
// но порядок переходов не ограничен: админ может исправить любую ошибку.
type OrderStatus string

const (
	OrderStatusNew        OrderStatus = "new"
	OrderStatusInProgress OrderStatus = "in_progress"
	OrderStatusReady      OrderStatus = "ready"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

var orderStatusTitles = map[OrderStatus]string{
	OrderStatusNew:        "Новый",
	OrderStatusInProgress: "В работе",
	OrderStatusReady:      "Готов",
	OrderStatusCompleted:  "Завершён",
	OrderStatusCancelled:  "Отменён",
}

func (s OrderStatus) Valid() bool {
	_, ok := orderStatusTitles[s]
	return ok
}

func (s OrderStatus) Title() string {
	if title, ok := orderStatusTitles[s]; ok {
		return title
	}
	return string(s)
}

// AllOrderStatuses возвращает набор статусов в порядке обычного жизненного цикла
func AllOrderStatuses() []OrderStatus {
	return []OrderStatus{
		OrderStatusNew,
		OrderStatusInProgress,
		OrderStatusReady,
		OrderStatusCompleted,
		OrderStatusCancelled,
	}
}

// ParseOrderStatus принимает как код, так и русскую подпись с кнопки
func ParseOrderStatus(raw string) (OrderStatus, bool) {
	norm := strings.ToLower(strings.TrimSpace(raw))
	for status, title := range orderStatusTitles {
		if norm == string(status) || norm == strings.ToLower(title) {
			return status, true
		}
	}
	return "", false
}

// PaymentStatus - состояние оплаты заказа
type PaymentStatus string

const (
	PaymentStatusUnpaid   PaymentStatus = "unpaid"
	PaymentStatusAwaiting PaymentStatus = "awaiting_prepayment"
	PaymentStatusPaid     PaymentStatus = "paid"
)

var paymentStatusTitles = map[PaymentStatus]string{
	PaymentStatusUnpaid:   "Не оплачен",
	PaymentStatusAwaiting: "Ожидает предоплаты",
	PaymentStatusPaid:     "Оплачен",
}

func (s PaymentStatus) Valid() bool {
	_, ok := paymentStatusTitles[s]
	return ok
}

func (s PaymentStatus) Title() string {
	if title, ok := paymentStatusTitles[s]; ok {
		return title
	}
	return string(s)
}

func ParsePaymentStatus(raw string) (PaymentStatus, bool) {
	norm := strings.ToLower(strings.TrimSpace(raw))
	for status, title := range paymentStatusTitles {
		if norm == string(status) || norm == strings.ToLower(title) {
			return status, true
		}
	}
	return "", false
}

// PaymentType - условия предоплаты, задаются на товаре и копируются в заказ
type PaymentType string

const (
	PaymentTypePrepay50  PaymentType = "prepay_50"
	PaymentTypePrepay100 PaymentType = "prepay_100"
	PaymentTypePostpay   PaymentType = "postpay"
)

var paymentTypeTitles = map[PaymentType]string{
	PaymentTypePrepay50:  "Предоплата 50%",
	PaymentTypePrepay100: "Предоплата 100%",
	PaymentTypePostpay:   "Оплата после получения",
}

func (t PaymentType) Valid() bool {
	_, ok := paymentTypeTitles[t]
	return ok
}

func (t PaymentType) Title() string {
	if title, ok := paymentTypeTitles[t]; ok {
		return title
	}
	return string(t)
}

// InitialPaymentStatus - статус оплаты нового заказа по условиям предоплаты
func (t PaymentType) InitialPaymentStatus() PaymentStatus {
	if t == PaymentTypePostpay {
		return PaymentStatusUnpaid
	}
	return PaymentStatusAwaiting
}

func ParsePaymentType(raw string) (PaymentType, bool) {
	norm := strings.ToLower(strings.TrimSpace(raw))
	for pt, title := range paymentTypeTitles {
		if norm == string(pt) || norm == strings.ToLower(title) {
			return pt, true
		}
	}
	return "", false
}

// DeliveryType - способ получения заказа
type DeliveryType string

const (
	DeliveryTypeDelivery DeliveryType = "delivery"
	DeliveryTypePickup   DeliveryType = "pickup"
)

var deliveryTypeTitles = map[DeliveryType]string{
	DeliveryTypeDelivery: "Доставка",
	DeliveryTypePickup:   "Самовывоз",
}

func (t DeliveryType) Valid() bool {
	_, ok := deliveryTypeTitles[t]
	return ok
}

func (t DeliveryType) Title() string {
	if title, ok := deliveryTypeTitles[t]; ok {
		return title
	}
	return string(t)
}

func ParseDeliveryType(raw string) (DeliveryType, bool) {
	norm := strings.ToLower(strings.TrimSpace(raw))
	for dt, title := range deliveryTypeTitles {
		if norm == string(dt) || norm == strings.ToLower(title) {
			return dt, true
		}
	}
	return "", false
}

// MeasurementUnit - единица измерения товара, знаменатель цены
type MeasurementUnit string

const (
	UnitPiece MeasurementUnit = "pcs"
	UnitKg    MeasurementUnit = "kg"
	UnitGram  MeasurementUnit = "g"
	UnitLiter MeasurementUnit = "l"
	UnitMl    MeasurementUnit = "ml"
	UnitPack  MeasurementUnit = "pack"
)

var unitTitles = map[MeasurementUnit]string{
	UnitPiece: "шт",
	UnitKg:    "кг",
	UnitGram:  "г",
	UnitLiter: "л",
	UnitMl:    "мл",
	UnitPack:  "упак",
}

func (u MeasurementUnit) Valid() bool {
	_, ok := unitTitles[u]
	return ok
}

func (u MeasurementUnit) Title() string {
	if title, ok := unitTitles[u]; ok {
		return title
	}
	return string(u)
}

// ByWeight - заказывается ли товар в граммах, а не в штуках
func (u MeasurementUnit) ByWeight() bool {
	return u == UnitKg || u == UnitGram
}

// UnitGrams - сколько граммов в одной единице измерения (для весовых единиц)
func (u MeasurementUnit) UnitGrams() int {
	switch u {
	case UnitKg:
		return 1000
	case UnitGram:
		return 1
	default:
		return 0
	}
}

func ParseMeasurementUnit(raw string) (MeasurementUnit, bool) {
	norm := strings.ToLower(strings.TrimSpace(raw))
	for unit, title := range unitTitles {
		if norm == string(unit) || norm == strings.ToLower(title) {
			return unit, true
		}
	}
	return "", false
}
