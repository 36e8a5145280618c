package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_CreateStampsTimestamps(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	id, err := s.Create(ctx, "events", Document{"title": "GopherCon"}, "")
	require.NoError(t, err)
	assert.Len(t, id, 15)

	doc, err := s.GetOne(ctx, "events", id)
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, "GopherCon", doc["title"])
	assert.IsType(t, time.Time{}, doc["createdAt"])
	assert.IsType(t, time.Time{}, doc["updatedAt"])
}

func TestMemoryStore_CreateWithExplicitID(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	id, err := s.Create(ctx, "profiles", Document{"name": "Dana"}, "user1")
	require.NoError(t, err)
	assert.Equal(t, "user1", id)

	_, err = s.Create(ctx, "profiles", Document{"name": "Omar"}, "user1")
	assert.ErrorIs(t, err, ErrExists)
}

func TestMemoryStore_GetOneMissingIsNilNil(t *testing.T) {
	s := NewMemoryStore()

	doc, err := s.GetOne(context.Background(), "events", "nope")
	assert.NoError(t, err)
	assert.Nil(t, doc)
}

func TestMemoryStore_GetManyFilters(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, err := s.Create(ctx, "attendees", Document{"eventId": "e1", "name": "Dana", "points": 30}, "")
	require.NoError(t, err)
	_, err = s.Create(ctx, "attendees", Document{"eventId": "e1", "name": "Omar", "points": 10}, "")
	require.NoError(t, err)
	_, err = s.Create(ctx, "attendees", Document{"eventId": "e2", "name": "Ravi", "points": 50}, "")
	require.NoError(t, err)

	docs, err := s.GetMany(ctx, "attendees", Query{Filters: []Filter{Eq("eventId", "e1")}})
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	docs, err = s.GetMany(ctx, "attendees", Query{Filters: []Filter{Gte("points", 30)}})
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	docs, err = s.GetMany(ctx, "attendees", Query{
		Filters: []Filter{{Field: "name", Op: OpContains, Value: "an"}},
	})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "Dana", docs[0]["name"])
}

func TestMemoryStore_GetManySortAndLimit(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	for _, p := range []int{10, 50, 30} {
		_, err := s.Create(ctx, "leaderboards", Document{"eventId": "e1", "points": p}, "")
		require.NoError(t, err)
	}

	docs, err := s.GetMany(ctx, "leaderboards", Query{Sort: "-points", Limit: 2})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, 50, docs[0]["points"])
	assert.Equal(t, 30, docs[1]["points"])
}

func TestMemoryStore_UpdateIgnoresProtectedFields(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	id, err := s.Create(ctx, "events", Document{"title": "Old"}, "")
	require.NoError(t, err)

	before, err := s.GetOne(ctx, "events", id)
	require.NoError(t, err)

	err = s.Update(ctx, "events", id, Document{"title": "New", "id": "hijack", "createdAt": time.Unix(0, 0)})
	require.NoError(t, err)

	after, err := s.GetOne(ctx, "events", id)
	require.NoError(t, err)
	assert.Equal(t, "New", after["title"])
	assert.Equal(t, id, after["id"])
	assert.Equal(t, before["createdAt"], after["createdAt"])
}

func TestMemoryStore_UpdateMissing(t *testing.T) {
	s := NewMemoryStore()

	err := s.Update(context.Background(), "events", "nope", Document{"title": "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_MutateReadModifyWrite(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	id, err := s.Create(ctx, "attendees", Document{"points": 10}, "")
	require.NoError(t, err)

	err = s.Mutate(ctx, "attendees", id, func(doc Document) (Document, error) {
		points, _ := doc["points"].(int)
		return Document{"points": points + 5}, nil
	})
	require.NoError(t, err)

	doc, err := s.GetOne(ctx, "attendees", id)
	require.NoError(t, err)
	assert.Equal(t, 15, doc["points"])
}

func TestMemoryStore_MutateNilPartialIsNoop(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	id, err := s.Create(ctx, "attendees", Document{"points": 10}, "")
	require.NoError(t, err)

	err = s.Mutate(ctx, "attendees", id, func(doc Document) (Document, error) {
		return nil, nil
	})
	require.NoError(t, err)

	doc, err := s.GetOne(ctx, "attendees", id)
	require.NoError(t, err)
	assert.Equal(t, 10, doc["points"])
}

func TestMemoryStore_MutatePropagatesCallbackError(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	id, err := s.Create(ctx, "attendees", Document{}, "")
	require.NoError(t, err)

	boom := errors.New("boom")
	err = s.Mutate(ctx, "attendees", id, func(Document) (Document, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)

	err = s.Mutate(ctx, "attendees", "missing", func(Document) (Document, error) {
		return nil, nil
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_GetOneReturnsCopy(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	id, err := s.Create(ctx, "events", Document{"title": "Original"}, "")
	require.NoError(t, err)

	doc, err := s.GetOne(ctx, "events", id)
	require.NoError(t, err)
	doc["title"] = "Mutated"

	fresh, err := s.GetOne(ctx, "events", id)
	require.NoError(t, err)
	assert.Equal(t, "Original", fresh["title"])
}

func TestDecodeToDocumentRoundTrip(t *testing.T) {
	type sample struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	}

	doc, err := ToDocument(&sample{ID: "abc", Title: "Keynote"})
	require.NoError(t, err)
	_, hasID := doc["id"]
	assert.False(t, hasID, "id is managed by the store")

	doc["id"] = "abc"
	var out sample
	require.NoError(t, Decode(doc, &out))
	assert.Equal(t, "abc", out.ID)
	assert.Equal(t, "Keynote", out.Title)
}
