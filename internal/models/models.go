package models

import "time"

// User - пользователь бота. Создаётся при первом контакте и никогда не удаляется.
type User struct {
	ID              int64   `db:"id"`
	TelegramID      int64   `db:"telegram_id"`
	FullName        string  `db:"full_name"`
	Phone           string  `db:"phone"`
	Address         string  `db:"address"`
	IsAdmin         bool    `db:"is_admin"`
	Characteristics string  `db:"characteristics"`
	PhotoPath       *string `db:"photo_path"`
}

// Category - категория товаров. Имя уникально без учёта регистра.
type Category struct {
	ID          int64  `db:"id"`
	Name        string `db:"name"`
	Description string `db:"description"`
}

// Product - товар кондитерской. Цена указывается за Quantity единиц измерения.
type Product struct {
	ID               int64           `db:"id"`
	Name             string          `db:"name"`
	CategoryID       int64           `db:"category_id"`
	ShortDescription string          `db:"short_description"`
	Price            float64         `db:"price"`
	Unit             MeasurementUnit `db:"unit"`
	Quantity         float64         `db:"quantity"`
	IsAvailable      bool            `db:"is_available"`
	PaymentType      PaymentType     `db:"payment_type"`
	CoverPhotoPath   *string         `db:"cover_photo_path"`
	CreatedAt        time.Time       `db:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at"`
}

// ProductPhoto - фотография товара. Не более одной главной на товар.
type ProductPhoto struct {
	ID         int64  `db:"id"`
	ProductID  int64  `db:"product_id"`
	PhotoPath  string `db:"photo_path"`
	IsMain     bool   `db:"is_main"`
	OrderIndex int    `db:"order_index"`
}

// Order - заказ. Большинство полей замораживается при создании,
// админ может править только узкий набор полей (см. OrderRepository).
type Order struct {
	ID              int64         `db:"id"`
	UserID          int64         `db:"user_id"`
	ProductID       int64         `db:"product_id"`
	Quantity        *float64      `db:"quantity"`
	WeightGrams     *float64      `db:"weight_grams"`
	DeliveryType    DeliveryType  `db:"delivery_type"`
	DeliveryAddress *string       `db:"delivery_address"`
	CreatedAt       time.Time     `db:"created_at"`
	ReadyAt         *time.Time    `db:"ready_at"`
	TotalCost       float64       `db:"total_cost"`
	PaymentType     PaymentType   `db:"payment_type"`
	PaymentStatus   PaymentStatus `db:"payment_status"`
	AdminNotes      string        `db:"admin_notes"`
}

// OrderStatusEvent - запись в истории статусов заказа. Только добавление,
// текущий статус заказа = последняя запись по created_at.
type OrderStatusEvent struct {
	ID         int64       `db:"id"`
	OrderID    int64       `db:"order_id"`
	Status     OrderStatus `db:"status"`
	CreatedAt  time.Time   `db:"created_at"`
	AdminNotes string      `db:"admin_notes"`
	PhotoPath  *string     `db:"photo_path"`
}

// OrderNote - сообщение в переписке по заказу. Роль автора (админ/клиент)
// выводится из User.IsAdmin, отдельно не хранится.
type OrderNote struct {
	ID        int64     `db:"id"`
	OrderID   int64     `db:"order_id"`
	UserID    int64     `db:"user_id"`
	NoteText  string    `db:"note_text"`
	CreatedAt time.Time `db:"created_at"`
}

// OrderDetails - заказ со всеми связями, собранный одним запросом.
// Обычные поля вместо ленивых связей: сессия БД закрывается до того,
// как результат доберётся до слоя отображения.
type OrderDetails struct {
	Order     Order
	User      User
	Product   Product
	Category  Category
	Status    OrderStatusEvent
	FirstNote *OrderNote
}
