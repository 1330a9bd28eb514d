package schema

import (
	"context"
	"fmt"
	"time"

	"verifiable-media-backend/internal/common/cache"
	apperrors "verifiable-media-backend/internal/common/errors"
	"verifiable-media-backend/internal/common/logger"
)

// CachedSource memoizes documents from another Source for ttl. Entries are
// keyed by domain version, so a version bump never serves old layouts.
type CachedSource struct {
	next          Source
	store         cache.Store
	ttl           time.Duration
	domainVersion string
}

func NewCachedSource(next Source, store cache.Store, ttl time.Duration, domainVersion string) *CachedSource {
	return &CachedSource{next: next, store: store, ttl: ttl, domainVersion: domainVersion}
}

func (s *CachedSource) Document(ctx context.Context, kind string) (Document, error) {
	doc, err := cache.GetOrSet(ctx, s.store, s.key(kind), s.ttl, func() (Document, error) {
		return s.next.Document(ctx, kind)
	})
	if err != nil {
		if apperrors.Is(err, apperrors.ErrCodeCacheError) && doc.PrimaryType != "" {
			logger.Warn().Err(err).Str("kind", kind).Msg("Schema cache write failed")
			return doc, nil
		}
		return Document{}, err
	}
	return doc, nil
}

// Invalidate drops every cached document of the current domain version.
func (s *CachedSource) Invalidate(ctx context.Context) error {
	if err := s.store.DeletePrefix(ctx, s.prefix()); err != nil {
		return apperrors.NewCacheError("invalidate schemas", err)
	}
	return nil
}

func (s *CachedSource) prefix() string {
	return fmt.Sprintf("schema:%s:", s.domainVersion)
}

func (s *CachedSource) key(kind string) string {
	return s.prefix() + kind
}
