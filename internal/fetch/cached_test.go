package fetch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mjagro/content-engine/internal/db"
)

func TestDerefHelpers(t *testing.T) {
	s := "nuts"
	assert.Equal(t, "nuts", derefString(&s))
	assert.Empty(t, derefString(nil))

	n := 200
	assert.Equal(t, 200, derefInt(&n))
	assert.Zero(t, derefInt(nil))
}

func TestDefaultCachedFetcherConfig(t *testing.T) {
	config := DefaultCachedFetcherConfig()

	require.NotNil(t, config)
	assert.Equal(t, db.DefaultPageCacheTTL, config.CacheTTL)
	assert.False(t, config.SkipCache)
	assert.NotNil(t, config.Options)
}

func TestNewCachedFetcher_NilConfig(t *testing.T) {
	fetcher := NewCachedFetcher(nil, nil)

	require.NotNil(t, fetcher)
	assert.Equal(t, db.DefaultPageCacheTTL, fetcher.cacheTTL)
	assert.NotNil(t, fetcher.options)
}

func TestNewCachedFetcher_ZeroValuesGetDefaults(t *testing.T) {
	fetcher := NewCachedFetcher(nil, &CachedFetcherConfig{})

	require.NotNil(t, fetcher)
	assert.NotZero(t, fetcher.cacheTTL)
	assert.NotNil(t, fetcher.options)
}
