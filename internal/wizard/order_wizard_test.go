package wizard

import (
	"testing"
	"time"

	"github.com/setum77/myconfbot-sub000/internal/database"
	"github.com/setum77/myconfbot-sub000/internal/models"
	"github.com/setum77/myconfbot-sub000/internal/orders"
	"github.com/setum77/myconfbot-sub000/internal/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeCatalog struct {
	products map[int64]models.Product
}

func (f *fakeCatalog) Product(id int64) (models.Product, error) {
	product, ok := f.products[id]
	if !ok {
		return models.Product{}, database.ErrNotFound
	}
	return product, nil
}

type fakePlacer struct {
	placed []orders.PlaceOrderParams
	nextID int64
}

func (f *fakePlacer) PlaceOrder(p orders.PlaceOrderParams) (int64, error) {
	f.placed = append(f.placed, p)
	f.nextID++
	return f.nextID, nil
}

func newTestOrderWizard(t *testing.T, products map[int64]models.Product) (*OrderWizard, *fakePlacer) {
	t.Helper()

	store, err := state.NewStore[OrderRecord]()
	require.NoError(t, err)

	placer := &fakePlacer{}
	w := NewOrderWizard(store, &fakeCatalog{products: products}, placer, zap.NewNop())
	w.now = func() time.Time {
		return time.Date(2026, 8, 31, 12, 0, 0, 0, time.Local)
	}
	return w, placer
}

func pieceCake() models.Product {
	return models.Product{
		ID:          1,
		Name:        "Медовик",
		Price:       1500,
		Unit:        models.UnitPiece,
		Quantity:    1,
		IsAvailable: true,
		PaymentType: models.PaymentTypePrepay50,
	}
}

func weightCake() models.Product {
	return models.Product{
		ID:          2,
		Name:        "Наполеон",
		Price:       2000,
		Unit:        models.UnitKg,
		Quantity:    1,
		IsAvailable: true,
		PaymentType: models.PaymentTypePostpay,
	}
}

func TestOrderWizardHappyPathDelivery(t *testing.T) {
	w, placer := newTestOrderWizard(t, map[int64]models.Product{1: pieceCake()})

	outcome, err := w.Start(10, 1)
	require.NoError(t, err)
	require.NotNil(t, outcome.Prompt)
	assert.True(t, w.InProgress(10))

	steps := []string{
		"2",                 // количество
		"01.09.2026",        // дата
		"14:00",             // время
		"Доставка",          // способ получения
		"ул. Ленина, д. 1",  // адрес
		ButtonNext,          // условия оплаты показаны
		"Надпись «С юбилеем»", // пожелания
	}
	for _, input := range steps {
		outcome, err = w.Handle(10, input)
		require.NoError(t, err)
		require.NotNil(t, outcome.Prompt, "шаг %q", input)
		assert.Empty(t, placer.placed, "до подтверждения ничего не создается")
	}

	outcome, err = w.Handle(10, ButtonConfirm)
	require.NoError(t, err)
	assert.True(t, outcome.Done)
	assert.Equal(t, int64(1), outcome.OrderID)
	assert.False(t, w.InProgress(10))

	require.Len(t, placer.placed, 1)
	params := placer.placed[0]
	assert.Equal(t, int64(10), params.UserID)
	assert.Equal(t, int64(1), params.ProductID)
	require.NotNil(t, params.Quantity)
	assert.Equal(t, 2.0, *params.Quantity)
	assert.Nil(t, params.WeightGrams)
	assert.Equal(t, models.DeliveryTypeDelivery, params.DeliveryType)
	require.NotNil(t, params.DeliveryAddress)
	assert.Equal(t, "ул. Ленина, д. 1", *params.DeliveryAddress)
	require.NotNil(t, params.ReadyAt)
	assert.Equal(t, 14, params.ReadyAt.Hour())
	assert.Equal(t, "Надпись «С юбилеем»", params.CustomerNote)
}

func TestOrderWizardWeightProductPickup(t *testing.T) {
	w, placer := newTestOrderWizard(t, map[int64]models.Product{2: weightCake()})

	_, err := w.Start(20, 2)
	require.NoError(t, err)

	for _, input := range []string{"500", "01.09.2026", "10:00", "Самовывоз", ButtonNext, "Пропустить"} {
		_, err = w.Handle(20, input)
		require.NoError(t, err)
	}

	outcome, err := w.Handle(20, ButtonConfirm)
	require.NoError(t, err)
	assert.True(t, outcome.Done)

	require.Len(t, placer.placed, 1)
	params := placer.placed[0]
	require.NotNil(t, params.WeightGrams)
	assert.Equal(t, 500.0, *params.WeightGrams)
	assert.Nil(t, params.Quantity)
	assert.Equal(t, models.DeliveryTypePickup, params.DeliveryType)
	assert.Nil(t, params.DeliveryAddress)
	assert.Empty(t, params.CustomerNote)
}

func TestOrderWizardValidationKeepsState(t *testing.T) {
	w, placer := newTestOrderWizard(t, map[int64]models.Product{1: pieceCake()})

	_, err := w.Start(30, 1)
	require.NoError(t, err)

	// неверный ввод: тот же вопрос с пояснением, состояние не двигается
	outcome, err := w.Handle(30, "много")
	require.NoError(t, err)
	require.NotNil(t, outcome.Prompt)
	assert.Contains(t, outcome.Prompt.Text, "Нужно число")

	record, ok := w.store.Get(30)
	require.True(t, ok)
	assert.Equal(t, OrderStateQuantity, record.State)

	outcome, err = w.Handle(30, "3")
	require.NoError(t, err)
	record, _ = w.store.Get(30)
	assert.Equal(t, OrderStateDate, record.State)
	assert.Empty(t, placer.placed)
}

func TestOrderWizardBackToQuantity(t *testing.T) {
	w, _ := newTestOrderWizard(t, map[int64]models.Product{1: pieceCake()})

	_, err := w.Start(40, 1)
	require.NoError(t, err)

	for _, input := range []string{"2", "01.09.2026", "14:00"} {
		_, err = w.Handle(40, input)
		require.NoError(t, err)
	}
	record, _ := w.store.Get(40)
	require.Equal(t, OrderStateDelivery, record.State)

	// обратное ребро работает с любой глубины
	outcome, err := w.Handle(40, ButtonBackToQuantity)
	require.NoError(t, err)
	require.NotNil(t, outcome.Prompt)

	record, _ = w.store.Get(40)
	assert.Equal(t, OrderStateQuantity, record.State)
}

func TestOrderWizardCancelWritesNothing(t *testing.T) {
	w, placer := newTestOrderWizard(t, map[int64]models.Product{1: pieceCake()})

	_, err := w.Start(50, 1)
	require.NoError(t, err)
	for _, input := range []string{"2", "01.09.2026", "14:00", "Самовывоз"} {
		_, err = w.Handle(50, input)
		require.NoError(t, err)
	}

	outcome, err := w.Handle(50, ButtonCancel)
	require.NoError(t, err)
	assert.True(t, outcome.Cancelled)
	assert.False(t, w.InProgress(50))
	assert.Empty(t, placer.placed)
}

func TestOrderWizardUnavailableProduct(t *testing.T) {
	product := pieceCake()
	product.IsAvailable = false
	w, _ := newTestOrderWizard(t, map[int64]models.Product{1: product})

	outcome, err := w.Start(60, 1)
	require.NoError(t, err)
	assert.True(t, outcome.Cancelled)
	assert.False(t, w.InProgress(60))
}

func TestOrderWizardProductRemovedMidFlow(t *testing.T) {
	catalog := &fakeCatalog{products: map[int64]models.Product{1: pieceCake()}}
	store, err := state.NewStore[OrderRecord]()
	require.NoError(t, err)
	w := NewOrderWizard(store, catalog, &fakePlacer{}, zap.NewNop())
	w.now = func() time.Time { return time.Date(2026, 8, 31, 12, 0, 0, 0, time.Local) }

	_, err = w.Start(70, 1)
	require.NoError(t, err)
	_, err = w.Handle(70, "2")
	require.NoError(t, err)

	delete(catalog.products, 1)

	outcome, err := w.Handle(70, "01.09.2026")
	require.NoError(t, err)
	assert.True(t, outcome.Cancelled)
	assert.False(t, w.InProgress(70))
}
