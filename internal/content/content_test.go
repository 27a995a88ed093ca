package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreGetSet(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	// отсутствующая страница - пустой текст, а не ошибка
	text, err := store.Get("about")
	require.NoError(t, err)
	assert.Empty(t, text)

	require.NoError(t, store.Set("about", "Печем торты с 2015 года"))
	text, err = store.Get("about")
	require.NoError(t, err)
	assert.Equal(t, "Печем торты с 2015 года", text)

	// новый текст целиком заменяет старый
	require.NoError(t, store.Set("about", "Новый текст"))
	text, err = store.Get("about")
	require.NoError(t, err)
	assert.Equal(t, "Новый текст", text)
}

func TestKnownPages(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	pages := store.List()
	assert.Len(t, pages, 3)
	assert.Equal(t, "О нас", pages["about"])

	assert.True(t, ValidSlug("delivery"))
	assert.True(t, ValidSlug("PAYMENT"))
	assert.False(t, ValidSlug("contacts"))

	assert.Equal(t, "Доставка", Title("delivery"))
	assert.Equal(t, "unknown", Title("unknown"))
}
