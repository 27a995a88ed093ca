package database

import (
	"testing"

	"github.com/setum77/myconfbot-sub000/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// newTestDB поднимает чистую базу в памяти со свежей схемой
func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := sqlx.Connect("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	db.SetMaxOpenConns(1)
	_, err = db.Exec("PRAGMA foreign_keys = ON")
	require.NoError(t, err)

	require.NoError(t, Migrate(db, "sqlite"))
	return db
}

func seedCategory(t *testing.T, repo *CatalogRepository, name string) int64 {
	t.Helper()
	id, err := repo.CreateCategory(name, "")
	require.NoError(t, err)
	return id
}

func seedProduct(t *testing.T, repo *CatalogRepository, categoryID int64) int64 {
	t.Helper()
	id, err := repo.CreateProduct(models.Product{
		Name:        "Медовик",
		CategoryID:  categoryID,
		Price:       1500,
		Unit:        models.UnitPiece,
		Quantity:    1,
		IsAvailable: true,
		PaymentType: models.PaymentTypePrepay50,
	})
	require.NoError(t, err)
	return id
}

// ---- Пользователи ----

func TestEnsureUserUpsert(t *testing.T) {
	repo := NewUserRepository(newTestDB(t), zap.NewNop())

	user, err := repo.EnsureUser(100, "Анна", true)
	require.NoError(t, err)
	assert.True(t, user.IsAdmin)
	assert.Equal(t, "Анна", user.FullName)

	// повторный контакт обновляет имя, но не трогает роль
	user, err = repo.EnsureUser(100, "Анна Иванова", false)
	require.NoError(t, err)
	assert.True(t, user.IsAdmin)
	assert.Equal(t, "Анна Иванова", user.FullName)
}

func TestUpdateProfileField(t *testing.T) {
	repo := NewUserRepository(newTestDB(t), zap.NewNop())

	user, err := repo.EnsureUser(100, "Анна", false)
	require.NoError(t, err)

	found, err := repo.UpdateProfileField(user.ID, "phone", "+79001234567")
	require.NoError(t, err)
	assert.True(t, found)

	updated, err := repo.GetByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "+79001234567", updated.Phone)

	// произвольные колонки через этот метод не правятся
	_, err = repo.UpdateProfileField(user.ID, "is_admin", true)
	assert.Error(t, err)

	found, err = repo.UpdateProfileField(999, "phone", "x")
	require.NoError(t, err)
	assert.False(t, found)
}

// ---- Категории ----

func TestCreateCategoryDuplicateCaseInsensitive(t *testing.T) {
	repo := NewCatalogRepository(newTestDB(t), zap.NewNop())

	_, err := repo.CreateCategory("Торты", "")
	require.NoError(t, err)

	_, err = repo.CreateCategory("торты", "")
	assert.ErrorIs(t, err, ErrDuplicateCategory)
}

func TestRenameCategory(t *testing.T) {
	repo := NewCatalogRepository(newTestDB(t), zap.NewNop())

	id := seedCategory(t, repo, "Торты")
	seedCategory(t, repo, "Пирожные")

	assert.ErrorIs(t, repo.RenameCategory(id, "ПИРОЖНЫЕ"), ErrDuplicateCategory)

	// переименование в собственное имя с другим регистром допустимо
	require.NoError(t, repo.RenameCategory(id, "ТОРТЫ"))

	category, err := repo.GetCategory(id)
	require.NoError(t, err)
	assert.Equal(t, "ТОРТЫ", category.Name)
}

func TestDeleteCategoryWithProducts(t *testing.T) {
	repo := NewCatalogRepository(newTestDB(t), zap.NewNop())

	id := seedCategory(t, repo, "Торты")
	seedProduct(t, repo, id)

	err := repo.DeleteCategory(id)
	var hasProducts *CategoryHasProductsError
	require.ErrorAs(t, err, &hasProducts)
	assert.Equal(t, 1, hasProducts.Count)

	// после удаления товара категория удаляется
	_, err = repo.DeleteProduct(seedOnlyProductID(t, repo, id))
	require.NoError(t, err)
	require.NoError(t, repo.DeleteCategory(id))
	_, err = repo.GetCategory(id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func seedOnlyProductID(t *testing.T, repo *CatalogRepository, categoryID int64) int64 {
	t.Helper()
	products, err := repo.ProductsByCategory(categoryID)
	require.NoError(t, err)
	require.Len(t, products, 1)
	return products[0].ID
}

// ---- Фотографии товара ----

func TestAddPhotoFirstBecomesMain(t *testing.T) {
	repo := NewCatalogRepository(newTestDB(t), zap.NewNop())
	productID := seedProduct(t, repo, seedCategory(t, repo, "Торты"))

	// первая фотография становится главной независимо от флага
	_, err := repo.AddPhoto(productID, "a.jpg", false)
	require.NoError(t, err)

	photos, err := repo.ListPhotos(productID)
	require.NoError(t, err)
	require.Len(t, photos, 1)
	assert.True(t, photos[0].IsMain)

	product, err := repo.GetProduct(productID)
	require.NoError(t, err)
	require.NotNil(t, product.CoverPhotoPath)
	assert.Equal(t, "a.jpg", *product.CoverPhotoPath)
}

func TestSetMainPhotoSwitchesSingleMain(t *testing.T) {
	repo := NewCatalogRepository(newTestDB(t), zap.NewNop())
	productID := seedProduct(t, repo, seedCategory(t, repo, "Торты"))

	_, err := repo.AddPhoto(productID, "a.jpg", false)
	require.NoError(t, err)
	secondID, err := repo.AddPhoto(productID, "b.jpg", false)
	require.NoError(t, err)

	require.NoError(t, repo.SetMainPhoto(productID, secondID))

	photos, err := repo.ListPhotos(productID)
	require.NoError(t, err)
	require.Len(t, photos, 2)

	mainCount := 0
	for _, photo := range photos {
		if photo.IsMain {
			mainCount++
			assert.Equal(t, "b.jpg", photo.PhotoPath)
		}
	}
	assert.Equal(t, 1, mainCount)

	// главная идет первой в списке
	assert.Equal(t, "b.jpg", photos[0].PhotoPath)

	product, err := repo.GetProduct(productID)
	require.NoError(t, err)
	require.NotNil(t, product.CoverPhotoPath)
	assert.Equal(t, "b.jpg", *product.CoverPhotoPath)
}

func TestDeleteMainPhotoPromotesNext(t *testing.T) {
	repo := NewCatalogRepository(newTestDB(t), zap.NewNop())
	productID := seedProduct(t, repo, seedCategory(t, repo, "Торты"))

	firstID, err := repo.AddPhoto(productID, "a.jpg", false)
	require.NoError(t, err)
	_, err = repo.AddPhoto(productID, "b.jpg", false)
	require.NoError(t, err)

	path, err := repo.DeletePhoto(productID, firstID)
	require.NoError(t, err)
	assert.Equal(t, "a.jpg", path)

	photos, err := repo.ListPhotos(productID)
	require.NoError(t, err)
	require.Len(t, photos, 1)
	assert.True(t, photos[0].IsMain)

	product, err := repo.GetProduct(productID)
	require.NoError(t, err)
	require.NotNil(t, product.CoverPhotoPath)
	assert.Equal(t, "b.jpg", *product.CoverPhotoPath)
}

func TestDeleteLastPhotoClearsCover(t *testing.T) {
	repo := NewCatalogRepository(newTestDB(t), zap.NewNop())
	productID := seedProduct(t, repo, seedCategory(t, repo, "Торты"))

	photoID, err := repo.AddPhoto(productID, "a.jpg", false)
	require.NoError(t, err)

	_, err = repo.DeletePhoto(productID, photoID)
	require.NoError(t, err)

	product, err := repo.GetProduct(productID)
	require.NoError(t, err)
	assert.Nil(t, product.CoverPhotoPath)
}

// ---- Заказы ----

func seedOrder(t *testing.T, db *sqlx.DB) (orderRepo *OrderRepository, orderID, userID, productID int64) {
	t.Helper()

	users := NewUserRepository(db, zap.NewNop())
	catalogRepo := NewCatalogRepository(db, zap.NewNop())
	orderRepo = NewOrderRepository(db, zap.NewNop())

	user, err := users.EnsureUser(100, "Анна", false)
	require.NoError(t, err)
	userID = user.ID

	productID = seedProduct(t, catalogRepo, seedCategory(t, catalogRepo, "Торты"))

	quantity := 2.0
	orderID, err = orderRepo.CreateOrder(models.Order{
		UserID:        userID,
		ProductID:     productID,
		Quantity:      &quantity,
		DeliveryType:  models.DeliveryTypePickup,
		TotalCost:     3000,
		PaymentType:   models.PaymentTypePrepay50,
		PaymentStatus: models.PaymentStatusAwaiting,
	})
	require.NoError(t, err)
	return orderRepo, orderID, userID, productID
}

func TestCreateOrderSeedsHistory(t *testing.T) {
	repo, orderID, _, _ := seedOrder(t, newTestDB(t))

	events, err := repo.StatusHistory(orderID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, models.OrderStatusNew, events[0].Status)

	current, err := repo.CurrentStatus(orderID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusNew, current.Status)
}

func TestStatusHistoryAppendOnly(t *testing.T) {
	repo, orderID, _, _ := seedOrder(t, newTestDB(t))

	require.NoError(t, repo.AddStatusEvent(orderID, models.OrderStatusInProgress, "замешиваем", nil))
	require.NoError(t, repo.AddStatusEvent(orderID, models.OrderStatusReady, "", nil))
	// возврат на прежний статус не запрещен
	require.NoError(t, repo.AddStatusEvent(orderID, models.OrderStatusInProgress, "доделываем декор", nil))

	events, err := repo.StatusHistory(orderID)
	require.NoError(t, err)
	assert.Len(t, events, 4)

	current, err := repo.CurrentStatus(orderID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusInProgress, current.Status)
	assert.Equal(t, "доделываем декор", current.AdminNotes)

	assert.ErrorIs(t, repo.AddStatusEvent(999, models.OrderStatusReady, "", nil), ErrNotFound)
}

func TestUpdateQuantityAndWeightAreExclusive(t *testing.T) {
	repo, orderID, _, _ := seedOrder(t, newTestDB(t))

	require.NoError(t, repo.UpdateWeight(orderID, 500))
	order, err := repo.GetOrder(orderID)
	require.NoError(t, err)
	require.NotNil(t, order.WeightGrams)
	assert.Equal(t, 500.0, *order.WeightGrams)
	assert.Nil(t, order.Quantity)

	require.NoError(t, repo.UpdateQuantity(orderID, 3))
	order, err = repo.GetOrder(orderID)
	require.NoError(t, err)
	require.NotNil(t, order.Quantity)
	assert.Equal(t, 3.0, *order.Quantity)
	assert.Nil(t, order.WeightGrams)
}

func TestUpdateDelivery(t *testing.T) {
	repo, orderID, _, _ := seedOrder(t, newTestDB(t))

	address := "ул. Ленина, д. 1"
	require.NoError(t, repo.UpdateDelivery(orderID, models.DeliveryTypeDelivery, &address))
	order, err := repo.GetOrder(orderID)
	require.NoError(t, err)
	require.NotNil(t, order.DeliveryAddress)
	assert.Equal(t, address, *order.DeliveryAddress)

	// самовывоз очищает адрес тем же запросом
	require.NoError(t, repo.UpdateDelivery(orderID, models.DeliveryTypePickup, nil))
	order, err = repo.GetOrder(orderID)
	require.NoError(t, err)
	assert.Nil(t, order.DeliveryAddress)
}

func TestOrderNotes(t *testing.T) {
	repo, orderID, userID, _ := seedOrder(t, newTestDB(t))

	require.NoError(t, repo.AddNote(orderID, userID, "Без орехов, пожалуйста"))
	require.NoError(t, repo.AddNote(orderID, userID, "И надпись «С юбилеем»"))

	notes, err := repo.Notes(orderID)
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "Без орехов, пожалуйста", notes[0].NoteText)

	assert.ErrorIs(t, repo.AddNote(999, userID, "x"), ErrNotFound)
}

func TestGetOrderDetails(t *testing.T) {
	db := newTestDB(t)
	repo, orderID, userID, productID := seedOrder(t, db)

	require.NoError(t, repo.AddNote(orderID, userID, "первое сообщение"))
	require.NoError(t, repo.AddNote(orderID, userID, "второе сообщение"))

	details, err := repo.GetOrderDetails(orderID)
	require.NoError(t, err)
	assert.Equal(t, orderID, details.Order.ID)
	assert.Equal(t, userID, details.User.ID)
	assert.Equal(t, productID, details.Product.ID)
	assert.Equal(t, "Торты", details.Category.Name)
	assert.Equal(t, models.OrderStatusNew, details.Status.Status)
	require.NotNil(t, details.FirstNote)
	assert.Equal(t, "первое сообщение", details.FirstNote.NoteText)

	_, err = repo.GetOrderDetails(999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetOrderDetailsWithoutNotes(t *testing.T) {
	repo, orderID, _, _ := seedOrder(t, newTestDB(t))

	details, err := repo.GetOrderDetails(orderID)
	require.NoError(t, err)
	assert.Nil(t, details.FirstNote)
}
