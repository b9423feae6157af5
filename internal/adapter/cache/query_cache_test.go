package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"reciperag/internal/domain"
	"reciperag/internal/port"
)

var _ port.DocumentBackend = (*CachedBackend)(nil)

func docs(titles ...string) []domain.Document {
	out := make([]domain.Document, len(titles))
	for i, t := range titles {
		out[i] = domain.Document{Title: t, Content: t + " body"}
	}
	return out
}

func TestQueryCache_GetPut(t *testing.T) {
	c := NewQueryCache(10, time.Minute)

	_, ok := c.Get("soup", 3)
	assert.False(t, ok)

	c.Put("soup", 3, docs("a", "b"))
	got, ok := c.Get("soup", 3)
	require.True(t, ok)
	assert.Equal(t, docs("a", "b"), got)

	_, ok = c.Get("soup", 4)
	assert.False(t, ok, "k is part of the key")
}

func TestQueryCache_ReturnsCopies(t *testing.T) {
	c := NewQueryCache(10, time.Minute)
	c.Put("soup", 3, docs("a"))

	got, _ := c.Get("soup", 3)
	got[0].Title = "changed"

	again, _ := c.Get("soup", 3)
	assert.Equal(t, "a", again[0].Title)
}

func TestQueryCache_LRUEviction(t *testing.T) {
	c := NewQueryCache(2, time.Minute)
	c.Put("one", 1, docs("1"))
	c.Put("two", 1, docs("2"))

	// touch "one" so "two" becomes the eviction candidate
	_, ok := c.Get("one", 1)
	require.True(t, ok)

	c.Put("three", 1, docs("3"))
	assert.Equal(t, 2, c.Size())

	_, ok = c.Get("two", 1)
	assert.False(t, ok)
	_, ok = c.Get("one", 1)
	assert.True(t, ok)
	_, ok = c.Get("three", 1)
	assert.True(t, ok)
}

func TestQueryCache_TTL(t *testing.T) {
	c := NewQueryCache(10, time.Minute)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Put("soup", 3, docs("a"))
	now = now.Add(30 * time.Second)
	_, ok := c.Get("soup", 3)
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok = c.Get("soup", 3)
	assert.False(t, ok)
	assert.Equal(t, 0, c.Size())
}

func TestQueryCache_Invalidate(t *testing.T) {
	c := NewQueryCache(10, time.Minute)
	c.Put("a", 1, docs("a"))
	c.Put("b", 1, docs("b"))

	c.Invalidate()
	assert.Equal(t, 0, c.Size())
	_, ok := c.Get("a", 1)
	assert.False(t, ok)
}

type countingBackend struct {
	calls int
	docs  []domain.Document
	err   error
}

func (b *countingBackend) RetrieveDocuments(string, int) ([]domain.Document, error) {
	b.calls++
	if b.err != nil {
		return nil, b.err
	}
	return b.docs, nil
}

func (b *countingBackend) RequiredEnvVars() []string { return []string{"TOKEN"} }

func TestCachedBackend_Hit(t *testing.T) {
	inner := &countingBackend{docs: docs("x", "y")}
	b := NewCachedBackend(inner, NewQueryCache(10, time.Minute), nil)

	first, err := b.RetrieveDocuments("bread", 2)
	require.NoError(t, err)
	second, err := b.RetrieveDocuments("bread", 2)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.calls)
}

func TestCachedBackend_ErrorsNotCached(t *testing.T) {
	inner := &countingBackend{err: errors.New("timeout")}
	b := NewCachedBackend(inner, NewQueryCache(10, time.Minute), nil)

	_, err := b.RetrieveDocuments("bread", 2)
	require.Error(t, err)

	inner.err = nil
	inner.docs = docs("x")
	got, err := b.RetrieveDocuments("bread", 2)
	require.NoError(t, err)
	assert.Equal(t, docs("x"), got)
	assert.Equal(t, 2, inner.calls)
}

func TestCachedBackend_RequiredEnvVars(t *testing.T) {
	b := NewCachedBackend(&countingBackend{}, NewQueryCache(1, time.Minute), nil)
	assert.Equal(t, []string{"TOKEN"}, b.RequiredEnvVars())
}
