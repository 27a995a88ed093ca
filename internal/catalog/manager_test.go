package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/setum77/myconfbot-sub000/internal/database"
	"github.com/setum77/myconfbot-sub000/internal/models"
	"github.com/setum77/myconfbot-sub000/internal/photostore"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()

	db, err := sqlx.Connect("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	db.SetMaxOpenConns(1)
	_, err = db.Exec("PRAGMA foreign_keys = ON")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, "sqlite"))

	logger := zap.NewNop()
	photos, err := photostore.New(t.TempDir(), logger)
	require.NoError(t, err)

	return NewManager(database.NewCatalogRepository(db, logger), photos, logger)
}

func seedProduct(t *testing.T, m *Manager) int64 {
	t.Helper()

	categoryID, err := m.CreateCategory("Торты", "")
	require.NoError(t, err)

	productID, err := m.CreateProduct(models.Product{
		Name:        "Медовик",
		CategoryID:  categoryID,
		Price:       1500,
		Unit:        models.UnitPiece,
		Quantity:    1,
		IsAvailable: true,
		PaymentType: models.PaymentTypePrepay50,
	})
	require.NoError(t, err)
	return productID
}

func TestAddPhotoWritesFileAndRow(t *testing.T) {
	m := newTestManager(t)
	productID := seedProduct(t, m)

	_, err := m.AddPhoto(productID, []byte("jpeg-данные"), false)
	require.NoError(t, err)

	photos, err := m.Photos(productID)
	require.NoError(t, err)
	require.Len(t, photos, 1)
	assert.True(t, photos[0].IsMain)

	data, err := os.ReadFile(photos[0].PhotoPath)
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg-данные"), data)
}

func TestSetMainPhotoByNumber(t *testing.T) {
	m := newTestManager(t)
	productID := seedProduct(t, m)

	_, err := m.AddPhoto(productID, []byte("a"), false)
	require.NoError(t, err)
	_, err = m.AddPhoto(productID, []byte("b"), false)
	require.NoError(t, err)

	// номера считаются по списку, где главная идет первой
	require.NoError(t, m.SetMainPhoto(productID, 2))

	photos, err := m.Photos(productID)
	require.NoError(t, err)
	assert.True(t, photos[0].IsMain)

	assert.ErrorIs(t, m.SetMainPhoto(productID, 5), ErrBadPhotoNumber)
	assert.ErrorIs(t, m.SetMainPhoto(productID, 0), ErrBadPhotoNumber)
}

func TestDeletePhotoRemovesFile(t *testing.T) {
	m := newTestManager(t)
	productID := seedProduct(t, m)

	_, err := m.AddPhoto(productID, []byte("a"), false)
	require.NoError(t, err)
	_, err = m.AddPhoto(productID, []byte("b"), false)
	require.NoError(t, err)

	photos, err := m.Photos(productID)
	require.NoError(t, err)
	removedPath := photos[0].PhotoPath

	require.NoError(t, m.DeletePhoto(productID, 1))

	_, err = os.Stat(removedPath)
	assert.True(t, os.IsNotExist(err))

	photos, err = m.Photos(productID)
	require.NoError(t, err)
	require.Len(t, photos, 1)
	assert.True(t, photos[0].IsMain)
}

func TestDeleteProductRemovesDirectory(t *testing.T) {
	m := newTestManager(t)
	productID := seedProduct(t, m)

	_, err := m.AddPhoto(productID, []byte("a"), false)
	require.NoError(t, err)

	photos, err := m.Photos(productID)
	require.NoError(t, err)
	productDir := filepath.Dir(photos[0].PhotoPath)

	require.NoError(t, m.DeleteProduct(productID))

	_, err = m.Product(productID)
	assert.ErrorIs(t, err, database.ErrNotFound)
	_, err = os.Stat(productDir)
	assert.True(t, os.IsNotExist(err))
}

func TestSetAvailability(t *testing.T) {
	m := newTestManager(t)
	productID := seedProduct(t, m)

	found, err := m.SetAvailability(productID, false)
	require.NoError(t, err)
	assert.True(t, found)

	product, err := m.Product(productID)
	require.NoError(t, err)
	assert.False(t, product.IsAvailable)

	found, err = m.SetAvailability(999, false)
	require.NoError(t, err)
	assert.False(t, found)
}
