package blob

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_PutGet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	err := s.Put(ctx, "a/b", Object{Content: []byte("hello"), ContentType: "text/plain", Metadata: map[string]string{"x": "1"}})
	require.NoError(t, err)

	obj, err := s.Get(ctx, "a/b")
	require.NoError(t, err)
	require.NotNil(t, obj)
	assert.Equal(t, []byte("hello"), obj.Content)
	assert.Equal(t, "text/plain", obj.ContentType)
	assert.Equal(t, "1", obj.Metadata["x"])
}

func TestMemoryStore_GetMissing(t *testing.T) {
	obj, err := NewMemoryStore().Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, obj)
}

func TestMemoryStore_Overwrite(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Put(ctx, "k", Object{Content: []byte("v1"), ContentType: "text/plain"}))
	require.NoError(t, s.Put(ctx, "k", Object{Content: []byte("v2"), ContentType: "text/plain"}))

	obj, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), obj.Content)
}

func TestMemoryStore_DeleteAndList(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Put(ctx, "p/1", Object{Content: []byte("1")}))
	require.NoError(t, s.Put(ctx, "p/2", Object{Content: []byte("2")}))
	require.NoError(t, s.Put(ctx, "q/3", Object{Content: []byte("3")}))

	keys, err := s.ListKeys(ctx, "p/")
	require.NoError(t, err)
	assert.Equal(t, []string{"p/1", "p/2"}, keys)

	// deleting an absent key alongside a present one is fine
	require.NoError(t, s.Delete(ctx, []string{"p/1", "p/missing"}))

	keys, err = s.ListKeys(ctx, "p/")
	require.NoError(t, err)
	assert.Equal(t, []string{"p/2"}, keys)
}

func TestMemoryStore_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Put(ctx, "k", Object{Content: []byte("abc")}))

	obj, err := s.Get(ctx, "k")
	require.NoError(t, err)
	obj.Content[0] = 'X'

	again, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), again.Content)
}
