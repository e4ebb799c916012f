package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"linkdash-be/internal/cache"
	"linkdash-be/internal/repository"
)

// ErrLinkNotFound signals a resolution miss. The resolver controller
// treats it exactly like a store error: degrade to the fallback redirect.
var ErrLinkNotFound = errors.New("link not found")

// ClickRecorder enqueues best-effort click accounting.
type ClickRecorder interface {
	Record(linkID string, at time.Time) bool
}

// ResolverService turns an inbound slug into a destination URL.
//
// Lookup is exact-then-suffix: first an equality match on the stored
// slug, then a single match on any short_url whose trailing path segment
// equals the slug (short urls are often stored as domain/slug compound
// strings). The is_active flag is deliberately not checked here; it is
// dashboard metadata and inactive links still resolve.
type ResolverService interface {
	Resolve(slug string) (string, error)
}

type resolverService struct {
	repo     repository.LinkRepository
	recorder ClickRecorder
	cache    cache.Cache
	ctx      context.Context
	cacheTTL time.Duration
}

// NewResolverService creates a new resolver. cacheClient may be nil.
func NewResolverService(repo repository.LinkRepository, recorder ClickRecorder, cacheClient cache.Cache) ResolverService {
	return &resolverService{
		repo:     repo,
		recorder: recorder,
		cache:    cacheClient,
		ctx:      context.Background(),
		cacheTTL: time.Hour,
	}
}

type cachedResolution struct {
	ID      string `json:"id"`
	FullURL string `json:"full_url"`
}

// Resolve returns the destination URL for a slug and enqueues click
// accounting. Accounting never delays or fails the caller.
func (s *resolverService) Resolve(slug string) (string, error) {
	if slug == "" {
		return "", ErrLinkNotFound
	}

	if s.cache != nil {
		var cached cachedResolution
		if err := s.cache.GetJSON(s.ctx, resolveKey(slug), &cached); err == nil && cached.FullURL != "" {
			s.recorder.Record(cached.ID, time.Now().UTC())
			return cached.FullURL, nil
		}
	}

	link, err := s.repo.GetBySlug(slug)
	if err != nil {
		return "", err
	}
	if link == nil {
		link, err = s.repo.GetBySlugSuffix(slug)
		if err != nil {
			return "", err
		}
	}
	if link == nil || link.FullURL == "" {
		return "", ErrLinkNotFound
	}

	if s.cache != nil {
		entry := cachedResolution{ID: link.ID, FullURL: link.FullURL}
		if err := s.cache.SetJSON(s.ctx, resolveKey(slug), entry, s.cacheTTL); err != nil {
			log.Printf("Warning: failed to cache resolution for slug %s: %v", slug, err)
		}
	}

	s.recorder.Record(link.ID, time.Now().UTC())

	return link.FullURL, nil
}

func resolveKey(slug string) string {
	return fmt.Sprintf("resolve:%s", slug)
}
