package shoplens

import (
	"context"
	"time"
)

// DefaultCacheTTL is how long a cached record stays fresh.
const DefaultCacheTTL = 24 * time.Hour

// RecordCache stores extraction results keyed by source URL. Entries are
// whole-record overwrites, never updated in place; an entry older than the
// TTL is a miss. Storage growth beyond TTL expiry is unbounded, as nothing
// evicts rows.
type RecordCache interface {
	// Get returns the cached record for the URL.
	// Returns ENOTFOUND on a miss or an expired entry.
	Get(ctx context.Context, url string) (*ProductRecord, error)

	// Put stores the record for the URL, replacing any previous entry.
	Put(ctx context.Context, url string, record *ProductRecord) error
}
