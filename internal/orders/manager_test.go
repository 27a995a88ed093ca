package orders

import (
	"testing"
	"time"

	"github.com/setum77/myconfbot-sub000/internal/database"
	"github.com/setum77/myconfbot-sub000/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

type fixture struct {
	manager *Manager
	catalog *database.CatalogRepository
	userID  int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := sqlx.Connect("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	db.SetMaxOpenConns(1)
	_, err = db.Exec("PRAGMA foreign_keys = ON")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, "sqlite"))

	logger := zap.NewNop()
	catalogRepo := database.NewCatalogRepository(db, logger)
	orderRepo := database.NewOrderRepository(db, logger)

	user, err := database.NewUserRepository(db, logger).EnsureUser(100, "Анна", false)
	require.NoError(t, err)

	return &fixture{
		manager: NewManager(orderRepo, catalogRepo, logger),
		catalog: catalogRepo,
		userID:  user.ID,
	}
}

func (f *fixture) product(t *testing.T, unit models.MeasurementUnit, price, quantity float64, paymentType models.PaymentType) int64 {
	t.Helper()

	categoryID, err := f.catalog.CreateCategory("Торты "+string(unit), "")
	require.NoError(t, err)

	id, err := f.catalog.CreateProduct(models.Product{
		Name:        "Медовик",
		CategoryID:  categoryID,
		Price:       price,
		Unit:        unit,
		Quantity:    quantity,
		IsAvailable: true,
		PaymentType: paymentType,
	})
	require.NoError(t, err)
	return id
}

func ptr(v float64) *float64 { return &v }

func TestTotalCost(t *testing.T) {
	piece := models.Product{Price: 1500, Unit: models.UnitPiece, Quantity: 1}
	assert.Equal(t, 3000.0, TotalCost(piece, ptr(2), nil))

	// цена за 6 штук
	box := models.Product{Price: 900, Unit: models.UnitPiece, Quantity: 6}
	assert.Equal(t, 450.0, TotalCost(box, ptr(3), nil))

	// цена за килограмм, заказ в граммах
	kg := models.Product{Price: 2000, Unit: models.UnitKg, Quantity: 1}
	assert.Equal(t, 1000.0, TotalCost(kg, nil, ptr(500)))

	// цена за 100 граммов
	grams := models.Product{Price: 150, Unit: models.UnitGram, Quantity: 100}
	assert.Equal(t, 450.0, TotalCost(grams, nil, ptr(300)))

	// нулевой знаменатель трактуется как единица
	broken := models.Product{Price: 100, Unit: models.UnitPiece, Quantity: 0}
	assert.Equal(t, 200.0, TotalCost(broken, ptr(2), nil))

	// недостающая величина не роняет расчет
	assert.Equal(t, 0.0, TotalCost(kg, ptr(2), nil))
	assert.Equal(t, 0.0, TotalCost(piece, nil, ptr(500)))
}

func TestPlaceOrderFreezesCostAndPayment(t *testing.T) {
	f := newFixture(t)
	productID := f.product(t, models.UnitPiece, 1500, 1, models.PaymentTypePrepay50)

	orderID, err := f.manager.PlaceOrder(PlaceOrderParams{
		UserID:       f.userID,
		ProductID:    productID,
		Quantity:     ptr(2),
		DeliveryType: models.DeliveryTypePickup,
		CustomerNote: "Без орехов",
	})
	require.NoError(t, err)

	order, err := f.manager.Order(orderID)
	require.NoError(t, err)
	assert.Equal(t, 3000.0, order.TotalCost)
	assert.Equal(t, models.PaymentTypePrepay50, order.PaymentType)
	assert.Equal(t, models.PaymentStatusAwaiting, order.PaymentStatus)

	// цена товара меняется, стоимость заказа заморожена
	_, err = f.catalog.UpdateProductField(productID, "price", 9999.0)
	require.NoError(t, err)
	order, err = f.manager.Order(orderID)
	require.NoError(t, err)
	assert.Equal(t, 3000.0, order.TotalCost)

	notes, err := f.manager.Notes(orderID)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "Без орехов", notes[0].NoteText)
}

func TestPlaceOrderPostpayStartsUnpaid(t *testing.T) {
	f := newFixture(t)
	productID := f.product(t, models.UnitKg, 2000, 1, models.PaymentTypePostpay)

	orderID, err := f.manager.PlaceOrder(PlaceOrderParams{
		UserID:       f.userID,
		ProductID:    productID,
		WeightGrams:  ptr(500),
		DeliveryType: models.DeliveryTypePickup,
	})
	require.NoError(t, err)

	order, err := f.manager.Order(orderID)
	require.NoError(t, err)
	assert.Equal(t, 1000.0, order.TotalCost)
	assert.Equal(t, models.PaymentStatusUnpaid, order.PaymentStatus)
}

func TestAddStatusEventValidation(t *testing.T) {
	f := newFixture(t)
	productID := f.product(t, models.UnitPiece, 1500, 1, models.PaymentTypePrepay50)
	orderID, err := f.manager.PlaceOrder(PlaceOrderParams{
		UserID: f.userID, ProductID: productID, Quantity: ptr(1),
		DeliveryType: models.DeliveryTypePickup,
	})
	require.NoError(t, err)

	assert.Error(t, f.manager.AddStatusEvent(orderID, "shipped", "", nil))

	require.NoError(t, f.manager.AddStatusEvent(orderID, models.OrderStatusInProgress, "", nil))
	current, err := f.manager.CurrentStatus(orderID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusInProgress, current.Status)

	history, err := f.manager.History(orderID)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestSetDeliveryRules(t *testing.T) {
	f := newFixture(t)
	productID := f.product(t, models.UnitPiece, 1500, 1, models.PaymentTypePrepay50)
	orderID, err := f.manager.PlaceOrder(PlaceOrderParams{
		UserID: f.userID, ProductID: productID, Quantity: ptr(1),
		DeliveryType: models.DeliveryTypePickup,
	})
	require.NoError(t, err)

	assert.ErrorIs(t, f.manager.SetDelivery(orderID, models.DeliveryTypeDelivery, "кор"), ErrAddressRequired)

	require.NoError(t, f.manager.SetDelivery(orderID, models.DeliveryTypeDelivery, "ул. Ленина, д. 1"))
	order, err := f.manager.Order(orderID)
	require.NoError(t, err)
	require.NotNil(t, order.DeliveryAddress)

	// адрес, переданный вместе с самовывозом, игнорируется и очищается
	require.NoError(t, f.manager.SetDelivery(orderID, models.DeliveryTypePickup, "куда-то"))
	order, err = f.manager.Order(orderID)
	require.NoError(t, err)
	assert.Nil(t, order.DeliveryAddress)
}

func TestAmountSettersAreExclusive(t *testing.T) {
	f := newFixture(t)
	productID := f.product(t, models.UnitPiece, 1500, 1, models.PaymentTypePrepay50)
	orderID, err := f.manager.PlaceOrder(PlaceOrderParams{
		UserID: f.userID, ProductID: productID, Quantity: ptr(2),
		DeliveryType: models.DeliveryTypePickup,
	})
	require.NoError(t, err)

	assert.ErrorIs(t, f.manager.SetQuantity(orderID, 0), ErrNotPositive)
	assert.ErrorIs(t, f.manager.SetWeight(orderID, -5), ErrNotPositive)

	require.NoError(t, f.manager.SetWeight(orderID, 700))
	order, err := f.manager.Order(orderID)
	require.NoError(t, err)
	assert.Nil(t, order.Quantity)
	require.NotNil(t, order.WeightGrams)
	assert.Equal(t, 700.0, *order.WeightGrams)
}

func TestAdminPatches(t *testing.T) {
	f := newFixture(t)
	productID := f.product(t, models.UnitPiece, 1500, 1, models.PaymentTypePrepay50)
	orderID, err := f.manager.PlaceOrder(PlaceOrderParams{
		UserID: f.userID, ProductID: productID, Quantity: ptr(1),
		DeliveryType: models.DeliveryTypePickup,
	})
	require.NoError(t, err)

	assert.ErrorIs(t, f.manager.SetTotalCost(orderID, -1), ErrNegativeCost)
	require.NoError(t, f.manager.SetTotalCost(orderID, 1200))

	readyAt := time.Date(2026, 9, 2, 14, 0, 0, 0, time.Local)
	require.NoError(t, f.manager.SetReadyAt(orderID, readyAt))
	require.NoError(t, f.manager.SetPaymentStatus(orderID, models.PaymentStatusPaid))
	assert.Error(t, f.manager.SetPaymentStatus(orderID, "refunded"))
	require.NoError(t, f.manager.SetAdminNotes(orderID, "постоянный клиент"))

	order, err := f.manager.Order(orderID)
	require.NoError(t, err)
	assert.Equal(t, 1200.0, order.TotalCost)
	require.NotNil(t, order.ReadyAt)
	assert.Equal(t, models.PaymentStatusPaid, order.PaymentStatus)
	assert.Equal(t, "постоянный клиент", order.AdminNotes)

	assert.ErrorIs(t, f.manager.SetTotalCost(999, 10), database.ErrNotFound)
}

func TestPlaceOrderMissingProduct(t *testing.T) {
	f := newFixture(t)

	_, err := f.manager.PlaceOrder(PlaceOrderParams{
		UserID: f.userID, ProductID: 999, Quantity: ptr(1),
		DeliveryType: models.DeliveryTypePickup,
	})
	assert.ErrorIs(t, err, database.ErrNotFound)
}
