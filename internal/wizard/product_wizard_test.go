package wizard

import (
	"testing"

	"github.com/setum77/myconfbot-sub000/internal/catalog"
	"github.com/setum77/myconfbot-sub000/internal/database"
	"github.com/setum77/myconfbot-sub000/internal/models"
	"github.com/setum77/myconfbot-sub000/internal/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeProductCatalog struct {
	categories []models.Category
	created    []models.Product
	photos     map[int64]int
	mainPhoto  map[int64]int
}

func newFakeProductCatalog(categories ...models.Category) *fakeProductCatalog {
	return &fakeProductCatalog{
		categories: categories,
		photos:     make(map[int64]int),
		mainPhoto:  make(map[int64]int),
	}
}

func (f *fakeProductCatalog) Categories() ([]models.Category, error) {
	return f.categories, nil
}

func (f *fakeProductCatalog) CategoryByName(name string) (models.Category, error) {
	for _, category := range f.categories {
		if category.Name == name {
			return category, nil
		}
	}
	return models.Category{}, database.ErrNotFound
}

func (f *fakeProductCatalog) CreateProduct(p models.Product) (int64, error) {
	f.created = append(f.created, p)
	return int64(len(f.created)), nil
}

func (f *fakeProductCatalog) AddPhoto(productID int64, data []byte, isMain bool) (int64, error) {
	f.photos[productID]++
	return int64(f.photos[productID]), nil
}

func (f *fakeProductCatalog) SetMainPhoto(productID int64, number int) error {
	if number < 1 || number > f.photos[productID] {
		return catalog.ErrBadPhotoNumber
	}
	f.mainPhoto[productID] = number
	return nil
}

func newTestProductWizard(t *testing.T, cat ProductCatalog) *ProductWizard {
	t.Helper()
	store, err := state.NewStore[ProductRecord]()
	require.NoError(t, err)
	return NewProductWizard(store, cat, zap.NewNop())
}

func fillDraftSteps() []string {
	return []string{
		"Медовик",          // название
		"Торты",            // категория
		"Классический мед", // описание
		"1500",             // цена
		"шт",               // единица
		"1",                // за какое количество
		"Предоплата 50%",   // условия оплаты
		"Да",               // доступность
	}
}

func TestProductWizardDraftSavedOnlyAtConfirm(t *testing.T) {
	cat := newFakeProductCatalog(models.Category{ID: 1, Name: "Торты"})
	w := newTestProductWizard(t, cat)

	_, err := w.Start(1)
	require.NoError(t, err)

	for _, input := range fillDraftSteps() {
		_, err = w.Handle(1, input)
		require.NoError(t, err)
		assert.Empty(t, cat.created, "черновик не сохраняется до подтверждения")
	}

	outcome, err := w.Handle(1, ButtonConfirm)
	require.NoError(t, err)
	require.Len(t, cat.created, 1)
	assert.Equal(t, int64(1), outcome.ProductID)

	draft := cat.created[0]
	assert.Equal(t, "Медовик", draft.Name)
	assert.Equal(t, int64(1), draft.CategoryID)
	assert.Equal(t, 1500.0, draft.Price)
	assert.Equal(t, models.UnitPiece, draft.Unit)
	assert.Equal(t, models.PaymentTypePrepay50, draft.PaymentType)
	assert.True(t, draft.IsAvailable)
}

func TestProductWizardCancelBeforeConfirmSavesNothing(t *testing.T) {
	cat := newFakeProductCatalog(models.Category{ID: 1, Name: "Торты"})
	w := newTestProductWizard(t, cat)

	_, err := w.Start(2)
	require.NoError(t, err)
	_, err = w.Handle(2, "Медовик")
	require.NoError(t, err)

	outcome, err := w.Handle(2, ButtonCancel)
	require.NoError(t, err)
	assert.True(t, outcome.Cancelled)
	assert.Empty(t, cat.created)
	assert.False(t, w.InProgress(2))
}

func TestProductWizardCancelAfterDraftKeepsProduct(t *testing.T) {
	cat := newFakeProductCatalog(models.Category{ID: 1, Name: "Торты"})
	w := newTestProductWizard(t, cat)

	_, err := w.Start(3)
	require.NoError(t, err)
	for _, input := range fillDraftSteps() {
		_, err = w.Handle(3, input)
		require.NoError(t, err)
	}
	_, err = w.Handle(3, ButtonConfirm)
	require.NoError(t, err)

	// отмена на шаге фотографий: черновик уже в базе и остается там
	outcome, err := w.Handle(3, ButtonCancel)
	require.NoError(t, err)
	assert.True(t, outcome.Cancelled)
	assert.Equal(t, int64(1), outcome.ProductID)
	assert.Len(t, cat.created, 1)
}

func TestProductWizardBackEdge(t *testing.T) {
	cat := newFakeProductCatalog(models.Category{ID: 1, Name: "Торты"})
	w := newTestProductWizard(t, cat)

	_, err := w.Start(4)
	require.NoError(t, err)
	_, err = w.Handle(4, "Медовик")
	require.NoError(t, err)

	record, _ := w.store.Get(4)
	require.Equal(t, ProductStateCategory, record.State)

	_, err = w.Handle(4, ButtonBack)
	require.NoError(t, err)
	record, _ = w.store.Get(4)
	assert.Equal(t, ProductStateName, record.State)
}

func TestProductWizardPhotosAndMainSelection(t *testing.T) {
	cat := newFakeProductCatalog(models.Category{ID: 1, Name: "Торты"})
	w := newTestProductWizard(t, cat)

	_, err := w.Start(5)
	require.NoError(t, err)
	for _, input := range fillDraftSteps() {
		_, err = w.Handle(5, input)
		require.NoError(t, err)
	}
	_, err = w.Handle(5, ButtonConfirm)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		outcome, err := w.HandlePhoto(5, []byte("jpeg"))
		require.NoError(t, err)
		require.NotNil(t, outcome.Prompt)
	}
	assert.Equal(t, 3, cat.photos[1])

	// больше одной фотографии: предлагается выбрать главную
	outcome, err := w.Handle(5, ButtonPhotosDone)
	require.NoError(t, err)
	require.NotNil(t, outcome.Prompt)

	// номер вне списка: тот же вопрос снова
	outcome, err = w.Handle(5, "9")
	require.NoError(t, err)
	require.NotNil(t, outcome.Prompt)
	assert.True(t, w.InProgress(5))

	outcome, err = w.Handle(5, "2")
	require.NoError(t, err)
	assert.True(t, outcome.Done)
	assert.Equal(t, 2, cat.mainPhoto[1])
	assert.False(t, w.InProgress(5))
}

func TestProductWizardSinglePhotoSkipsMainSelection(t *testing.T) {
	cat := newFakeProductCatalog(models.Category{ID: 1, Name: "Торты"})
	w := newTestProductWizard(t, cat)

	_, err := w.Start(6)
	require.NoError(t, err)
	for _, input := range fillDraftSteps() {
		_, err = w.Handle(6, input)
		require.NoError(t, err)
	}
	_, err = w.Handle(6, ButtonConfirm)
	require.NoError(t, err)

	_, err = w.HandlePhoto(6, []byte("jpeg"))
	require.NoError(t, err)

	outcome, err := w.Handle(6, ButtonPhotosDone)
	require.NoError(t, err)
	assert.True(t, outcome.Done)
	assert.False(t, w.InProgress(6))
}

func TestProductWizardRequiresCategory(t *testing.T) {
	w := newTestProductWizard(t, newFakeProductCatalog())

	outcome, err := w.Start(7)
	require.NoError(t, err)
	assert.True(t, outcome.Cancelled)
	assert.False(t, w.InProgress(7))
}

func TestProductWizardUnknownCategoryReprompts(t *testing.T) {
	cat := newFakeProductCatalog(models.Category{ID: 1, Name: "Торты"})
	w := newTestProductWizard(t, cat)

	_, err := w.Start(8)
	require.NoError(t, err)
	_, err = w.Handle(8, "Медовик")
	require.NoError(t, err)

	outcome, err := w.Handle(8, "Пирожные")
	require.NoError(t, err)
	require.NotNil(t, outcome.Prompt)
	assert.Contains(t, outcome.Prompt.Text, "Такой категории нет")

	record, _ := w.store.Get(8)
	assert.Equal(t, ProductStateCategory, record.State)
}
