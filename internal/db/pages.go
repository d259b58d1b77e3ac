package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// DefaultPageCacheTTL is how long a fetched landing page stays fresh.
const DefaultPageCacheTTL = 7 * 24 * time.Hour

// CachedPage is a fetched product landing page stored for reuse.
type CachedPage struct {
	ID         uuid.UUID
	ProductID  *uuid.UUID
	URL        string
	RawHTML    *string
	ParsedText *string
	HTTPStatus *int
	FetchedAt  time.Time
	ExpiresAt  time.Time
}

// UpsertPage stores a fetched page, replacing any previous entry for the URL.
func (db *DB) UpsertPage(ctx context.Context, page *CachedPage, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultPageCacheTTL
	}
	err := db.pool.QueryRow(ctx,
		`INSERT INTO page_cache (product_id, url, raw_html, parsed_text, http_status, fetched_at, expires_at)
		 VALUES ($1, $2, $3, $4, $5, NOW(), NOW() + $6)
		 ON CONFLICT (url) DO UPDATE SET
		     product_id = EXCLUDED.product_id,
		     raw_html = EXCLUDED.raw_html,
		     parsed_text = EXCLUDED.parsed_text,
		     http_status = EXCLUDED.http_status,
		     fetched_at = NOW(),
		     expires_at = NOW() + $6
		 RETURNING id, fetched_at, expires_at`,
		page.ProductID, page.URL, page.RawHTML, page.ParsedText, page.HTTPStatus, ttl,
	).Scan(&page.ID, &page.FetchedAt, &page.ExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to cache page: %w", err)
	}
	return nil
}

// GetFreshPage retrieves a cached page that has not expired. Returns nil
// when there is no fresh entry for the URL.
func (db *DB) GetFreshPage(ctx context.Context, url string) (*CachedPage, error) {
	var p CachedPage
	err := db.pool.QueryRow(ctx,
		`SELECT id, product_id, url, raw_html, parsed_text, http_status, fetched_at, expires_at
		 FROM page_cache WHERE url = $1 AND expires_at > NOW()`,
		url,
	).Scan(&p.ID, &p.ProductID, &p.URL, &p.RawHTML, &p.ParsedText, &p.HTTPStatus, &p.FetchedAt, &p.ExpiresAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read page cache: %w", err)
	}
	return &p, nil
}

// ExpirePage marks a cached page stale so the next fetch goes to the network.
func (db *DB) ExpirePage(ctx context.Context, url string) error {
	if _, err := db.pool.Exec(ctx,
		`UPDATE page_cache SET expires_at = NOW() - INTERVAL '1 hour' WHERE url = $1`,
		url,
	); err != nil {
		return fmt.Errorf("failed to expire cached page: %w", err)
	}
	return nil
}
