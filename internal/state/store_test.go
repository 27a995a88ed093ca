package state

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dialog struct {
	Step int
	Text string
}

func TestStoreSetGetClear(t *testing.T) {
	store, err := NewStore[dialog]()
	require.NoError(t, err)

	_, ok := store.Get(1)
	assert.False(t, ok)

	store.Set(1, dialog{Step: 2, Text: "привет"})
	got, ok := store.Get(1)
	require.True(t, ok)
	assert.Equal(t, 2, got.Step)
	assert.Equal(t, "привет", got.Text)

	store.Clear(1)
	_, ok = store.Get(1)
	assert.False(t, ok)
}

func TestStoreLastSetWins(t *testing.T) {
	store, err := NewStore[dialog]()
	require.NoError(t, err)

	store.Set(7, dialog{Step: 1})
	store.Set(7, dialog{Step: 5})

	got, ok := store.Get(7)
	require.True(t, ok)
	assert.Equal(t, 5, got.Step)
	assert.Equal(t, 1, store.Len())
}

func TestStoreIndependentUsers(t *testing.T) {
	store, err := NewStore[dialog]()
	require.NoError(t, err)

	store.Set(1, dialog{Step: 1})
	store.Set(2, dialog{Step: 2})
	store.Clear(1)

	_, ok := store.Get(1)
	assert.False(t, ok)
	got, ok := store.Get(2)
	require.True(t, ok)
	assert.Equal(t, 2, got.Step)
}

func TestStoreLastTouched(t *testing.T) {
	store, err := NewStore[dialog]()
	require.NoError(t, err)

	_, ok := store.LastTouched(3)
	assert.False(t, ok)

	before := time.Now()
	store.Set(3, dialog{Step: 1})
	touched, ok := store.LastTouched(3)
	require.True(t, ok)
	assert.False(t, touched.Before(before))
}

func TestStoreConcurrentAccess(t *testing.T) {
	store, err := NewStore[dialog]()
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			store.Set(id, dialog{Step: int(id)})
			store.Get(id)
			store.Clear(id)
		}(int64(i))
	}
	wg.Wait()

	assert.Equal(t, 0, store.Len())
}
