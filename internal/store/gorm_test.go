package store

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"lostfound/internal/db"
	"lostfound/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *GormStore {
	t.Helper()
	gdb, err := db.OpenSQLite(filepath.Join(t.TempDir(), "items.db"))
	require.NoError(t, err)
	s, err := NewGormStore(gdb)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}

func sampleItem(user string, tags ...string) models.Item {
	return models.Item{
		Kind:        models.KindLost,
		Description: "Blue backpack",
		Location:    "Library",
		Date:        "2024-01-01",
		Time:        "14:00",
		ReportedBy:  user,
		Tags:        tags,
	}
}

func TestGormStore_CreateAssignsIDAndTimestamps(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	got, err := s.Create(ctx, sampleItem("bob", "Electronics", "Books"))
	require.NoError(t, err)

	assert.NotEmpty(t, got.ID)
	assert.False(t, got.CreatedAt.IsZero())
	assert.Equal(t, got.CreatedAt, got.UpdatedAt)
	assert.Equal(t, []string{"Electronics", "Books"}, got.Tags)
	assert.Empty(t, got.Image)
}

func TestGormStore_CreateRejectsMissingFields(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	cases := map[string]func(*models.Item){
		"type":        func(i *models.Item) { i.Kind = "" },
		"description": func(i *models.Item) { i.Description = "   " },
		"location":    func(i *models.Item) { i.Location = "" },
		"date":        func(i *models.Item) { i.Date = "" },
		"time":        func(i *models.Item) { i.Time = "" },
		"reportedBy":  func(i *models.Item) { i.ReportedBy = "" },
	}
	for field, mutate := range cases {
		item := sampleItem("bob")
		mutate(&item)
		_, err := s.Create(ctx, item)

		var ve *ValidationError
		require.ErrorAs(t, err, &ve, field)
		assert.Equal(t, field, ve.Field)
	}

	bad := sampleItem("bob")
	bad.Kind = "stolen"
	_, err := s.Create(ctx, bad)
	assert.True(t, IsValidation(err))

	all, err := s.FindAll(ctx, Filter{})
	require.NoError(t, err)
	assert.Empty(t, all, "rejected items must not be stored")
}

func TestGormStore_FindAllOrderAndTagFilter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	first, err := s.Create(ctx, sampleItem("bob", "Electronics", "Books"))
	require.NoError(t, err)
	second, err := s.Create(ctx, sampleItem("alice", "Clothing"))
	require.NoError(t, err)
	third, err := s.Create(ctx, sampleItem("carol", "Books", "Books"))
	require.NoError(t, err)

	all, err := s.FindAll(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{first.ID, second.ID, third.ID}, []string{all[0].ID, all[1].ID, all[2].ID})
	assert.Equal(t, []string{"Books", "Books"}, all[2].Tags, "duplicates are kept")

	books, err := s.FindAll(ctx, Filter{Tag: "Books"})
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, first.ID, books[0].ID)
	assert.Equal(t, third.ID, books[1].ID)

	lower, err := s.FindAll(ctx, Filter{Tag: "books"})
	require.NoError(t, err)
	assert.Empty(t, lower, "tag match is case-sensitive")
}

func TestGormStore_FindByUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Create(ctx, sampleItem("bob"))
	require.NoError(t, err)
	_, err = s.Create(ctx, sampleItem("Bob"))
	require.NoError(t, err)

	got, err := s.FindByUser(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "bob", got[0].ReportedBy)

	none, err := s.FindByUser(ctx, "alice")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestGormStore_ConcurrentCreates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.Create(ctx, sampleItem(fmt.Sprintf("user-%d", i), "Books", fmt.Sprintf("t%d", i)))
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	all, err := s.FindAll(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, all, n)
	for _, it := range all {
		require.Len(t, it.Tags, 2)
		assert.Equal(t, "Books", it.Tags[0])
	}
}

func TestGormStore_ReturnsCopies(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	in := sampleItem("bob", "Books")
	_, err := s.Create(ctx, in)
	require.NoError(t, err)
	in.Tags[0] = "mutated"

	all, err := s.FindAll(ctx, Filter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Books"}, all[0].Tags)
}
