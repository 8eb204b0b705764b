package sqlite

import (
	"context"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/shoplens/shoplens"
	"github.com/shoplens/shoplens/bloom"
)

// Compile-time interface verification.
var _ shoplens.RecordCache = (*RecordCache)(nil)

// expectedRecords sizes the bloom filter fronting the store.
const expectedRecords = 100_000

// RecordCache implements shoplens.RecordCache using SQLite. A bloom filter
// seeded from the existing rows fronts the store, so lookups for
// never-cached URLs skip the database entirely.
type RecordCache struct {
	db     *DB
	ttl    time.Duration
	filter *bloom.Filter
}

// NewRecordCache creates a RecordCache with the given TTL. Zero means
// shoplens.DefaultCacheTTL.
func NewRecordCache(db *DB, ttl time.Duration) (*RecordCache, error) {
	if ttl == 0 {
		ttl = shoplens.DefaultCacheTTL
	}
	c := &RecordCache{
		db:     db,
		ttl:    ttl,
		filter: bloom.NewFilter(expectedRecords, 0.01),
	}
	if err := c.seedFilter(context.Background()); err != nil {
		return nil, err
	}
	return c, nil
}

// seedFilter loads existing hashes so the filter's "definitely absent"
// answer holds for rows written by earlier runs.
func (c *RecordCache) seedFilter(ctx context.Context) error {
	rows, err := c.db.QueryContext(ctx, `SELECT url_hash FROM records`)
	if err != nil {
		return shoplens.Errorf(shoplens.EINTERNAL, "seeding cache filter: %v", err)
	}
	defer rows.Close()
	for rows.Next() {
		var hash string
		if err := rows.Scan(&hash); err != nil {
			return shoplens.Errorf(shoplens.EINTERNAL, "seeding cache filter: %v", err)
		}
		c.filter.Add(hash)
	}
	return rows.Err()
}

// hashURL computes xxHash of the URL and returns a hex string.
func hashURL(url string) string {
	h := xxhash.Sum64String(url)
	b := make([]byte, 8)
	b[0] = byte(h >> 56)
	b[1] = byte(h >> 48)
	b[2] = byte(h >> 40)
	b[3] = byte(h >> 32)
	b[4] = byte(h >> 24)
	b[5] = byte(h >> 16)
	b[6] = byte(h >> 8)
	b[7] = byte(h)
	return hex.EncodeToString(b)
}

// Get returns the cached record for the URL. Entries older than the TTL
// are misses.
func (c *RecordCache) Get(ctx context.Context, url string) (*shoplens.ProductRecord, error) {
	hash := hashURL(url)
	if !c.filter.Test(hash) {
		return nil, shoplens.Errorf(shoplens.ENOTFOUND, "no cached record for %q", url)
	}

	var scrapedAt, payload string
	err := c.db.QueryRowContext(ctx, `
		SELECT scraped_at, record FROM records WHERE url_hash = ?
	`, hash).Scan(&scrapedAt, &payload)
	if err == sql.ErrNoRows {
		return nil, shoplens.Errorf(shoplens.ENOTFOUND, "no cached record for %q", url)
	}
	if err != nil {
		return nil, shoplens.Errorf(shoplens.EINTERNAL, "reading cache: %v", err)
	}

	ts, err := time.Parse(time.RFC3339, scrapedAt)
	if err != nil {
		return nil, shoplens.Errorf(shoplens.EINTERNAL, "parsing cache timestamp: %v", err)
	}
	if time.Since(ts) >= c.ttl {
		return nil, shoplens.Errorf(shoplens.ENOTFOUND, "cached record for %q expired", url)
	}

	var rec shoplens.ProductRecord
	if err := json.Unmarshal([]byte(payload), &rec); err != nil {
		return nil, shoplens.Errorf(shoplens.EINTERNAL, "decoding cached record: %v", err)
	}
	return &rec, nil
}

// Put stores the record for the URL, replacing any previous entry.
func (c *RecordCache) Put(ctx context.Context, url string, record *shoplens.ProductRecord) error {
	if record == nil {
		return shoplens.Errorf(shoplens.EINVALID, "record required")
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return shoplens.Errorf(shoplens.EINTERNAL, "encoding record: %v", err)
	}

	scrapedAt := record.ScrapedAt
	if scrapedAt.IsZero() {
		scrapedAt = time.Now().UTC()
	}

	hash := hashURL(url)
	_, err = c.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO records (url_hash, url, scraped_at, record)
		VALUES (?, ?, ?, ?)
	`, hash, url, scrapedAt.Format(time.RFC3339), string(payload))
	if err != nil {
		return shoplens.Errorf(shoplens.EINTERNAL, "writing cache: %v", err)
	}
	c.filter.Add(hash)
	return nil
}
