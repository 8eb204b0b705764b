package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/shoplens/shoplens"
	"github.com/shoplens/shoplens/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRecordCache_PutGet(t *testing.T) {
	t.Parallel()

	cache, err := sqlite.NewRecordCache(openDB(t), 0)
	require.NoError(t, err)

	ctx := context.Background()
	url := "https://www.amazon.in/dp/B0CACHE01"
	rec := &shoplens.ProductRecord{
		Title:       shoplens.String("Wireless Mouse"),
		Price:       shoplens.String("₹799"),
		Description: shoplens.String("A compact wireless mouse."),
		Images:      []string{"https://img.example.com/mouse.jpg"},
		Source:      shoplens.PlatformAmazon,
		OriginalURL: url,
		ScrapedAt:   time.Now().UTC(),
	}

	require.NoError(t, cache.Put(ctx, url, rec))

	got, err := cache.Get(ctx, url)
	require.NoError(t, err)
	assert.Equal(t, "Wireless Mouse", *got.Title)
	assert.Equal(t, "₹799", *got.Price)
	assert.Equal(t, rec.Images, got.Images)
	assert.Equal(t, shoplens.PlatformAmazon, got.Source)
	assert.Equal(t, url, got.OriginalURL)
}

func TestRecordCache_Miss(t *testing.T) {
	t.Parallel()

	cache, err := sqlite.NewRecordCache(openDB(t), 0)
	require.NoError(t, err)

	_, err = cache.Get(context.Background(), "https://www.amazon.in/dp/B0NOSUCH1")
	require.Error(t, err)
	assert.Equal(t, shoplens.ENOTFOUND, shoplens.ErrorCode(err))
}

func TestRecordCache_Expiry(t *testing.T) {
	t.Parallel()

	cache, err := sqlite.NewRecordCache(openDB(t), 24*time.Hour)
	require.NoError(t, err)

	ctx := context.Background()
	url := "https://www.amazon.in/dp/B0EXPIRED"
	rec := &shoplens.ProductRecord{
		Title:     shoplens.String("Stale Kettle"),
		ScrapedAt: time.Now().UTC().Add(-25 * time.Hour),
	}
	require.NoError(t, cache.Put(ctx, url, rec))

	_, err = cache.Get(ctx, url)
	require.Error(t, err)
	assert.Equal(t, shoplens.ENOTFOUND, shoplens.ErrorCode(err))
}

func TestRecordCache_Overwrite(t *testing.T) {
	t.Parallel()

	cache, err := sqlite.NewRecordCache(openDB(t), 0)
	require.NoError(t, err)

	ctx := context.Background()
	url := "https://www.flipkart.com/p/itmREWRITE"

	first := &shoplens.ProductRecord{
		Title:     shoplens.String("Old Title"),
		Price:     shoplens.String("₹100"),
		ScrapedAt: time.Now().UTC(),
	}
	require.NoError(t, cache.Put(ctx, url, first))

	second := &shoplens.ProductRecord{
		Title:     shoplens.String("New Title"),
		ScrapedAt: time.Now().UTC(),
	}
	require.NoError(t, cache.Put(ctx, url, second))

	got, err := cache.Get(ctx, url)
	require.NoError(t, err)
	assert.Equal(t, "New Title", *got.Title)
	// Replacement is whole-record, so fields absent from the new record
	// do not survive from the old one.
	assert.Nil(t, got.Price)
}

func TestRecordCache_NilRecord(t *testing.T) {
	t.Parallel()

	cache, err := sqlite.NewRecordCache(openDB(t), 0)
	require.NoError(t, err)

	err = cache.Put(context.Background(), "https://www.amazon.in/dp/B0NIL0001", nil)
	require.Error(t, err)
	assert.Equal(t, shoplens.EINVALID, shoplens.ErrorCode(err))
}

func TestRecordCache_SeedsFilterFromExistingRows(t *testing.T) {
	t.Parallel()

	dbPath := t.TempDir() + "/cache.db"
	db := sqlite.NewDB(dbPath)
	require.NoError(t, db.Open())

	ctx := context.Background()
	url := "https://www.myntra.com/shoes/1234"
	rec := &shoplens.ProductRecord{
		Title:     shoplens.String("Running Shoes"),
		ScrapedAt: time.Now().UTC(),
	}

	cache, err := sqlite.NewRecordCache(db, 0)
	require.NoError(t, err)
	require.NoError(t, cache.Put(ctx, url, rec))
	require.NoError(t, db.Close())

	// A fresh cache over the same file must still find the row even
	// though its in-memory filter was built after the write.
	db = sqlite.NewDB(dbPath)
	require.NoError(t, db.Open())
	defer db.Close()

	reopened, err := sqlite.NewRecordCache(db, 0)
	require.NoError(t, err)

	got, err := reopened.Get(ctx, url)
	require.NoError(t, err)
	assert.Equal(t, "Running Shoes", *got.Title)
}
