package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"linkdash-be/internal/cache"
	"linkdash-be/internal/entities"
	"linkdash-be/internal/models"
	"linkdash-be/internal/repository"
)

// ErrValidation marks caller errors that should surface as HTTP 400.
var ErrValidation = errors.New("validation failed")

// LinkService defines the business logic around link records. Ownership
// is enforced throughout: reads of another user's link behave like a
// miss, writes fail.
type LinkService interface {
	Create(payload *models.LinkPayload, userID, email string) (*entities.Link, error)
	Get(id, userID string) (*entities.Link, error)
	List(userID string) ([]*entities.Link, error)
	Update(id, userID string, req *models.UpdateLinkRequest) (*entities.Link, error)
	Delete(id, userID string) error
	Analytics(userID string) (*models.AnalyticsSummary, error)
}

type linkService struct {
	repo       repository.LinkRepository
	users      repository.UserRepository
	cache      cache.Cache
	ctx        context.Context
	siteOrigin string
}

// NewLinkService creates a new link service. cacheClient may be nil.
func NewLinkService(repo repository.LinkRepository, users repository.UserRepository, cacheClient cache.Cache, siteOrigin string) LinkService {
	return &linkService{
		repo:       repo,
		users:      users,
		cache:      cacheClient,
		ctx:        context.Background(),
		siteOrigin: siteOrigin,
	}
}

// generateSlug generates a random 8-character slug
func generateSlug() (string, error) {
	bytes := make([]byte, 6)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return base64.URLEncoding.EncodeToString(bytes)[:8], nil
}

// slugFromShortURL extracts the trailing path segment of a compound
// short url like "short.ly/abc123".
func slugFromShortURL(shortURL string) string {
	trimmed := strings.TrimRight(shortURL, "/")
	if i := strings.LastIndex(trimmed, "/"); i >= 0 {
		return trimmed[i+1:]
	}
	return ""
}

func (s *linkService) Create(payload *models.LinkPayload, userID, email string) (*entities.Link, error) {
	fullURL := strings.TrimSpace(payload.FullURL)
	if fullURL == "" {
		return nil, fmt.Errorf("%w: full_url is required", ErrValidation)
	}
	if parsed, err := url.Parse(fullURL); err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("%w: full_url must be an absolute URL", ErrValidation)
	}

	slug := strings.TrimSpace(payload.Slug)
	if slug == "" {
		slug = slugFromShortURL(payload.ShortURL)
	}
	if slug == "" {
		generated, err := generateSlug()
		if err != nil {
			return nil, err
		}
		slug = generated
	}

	shortURL := strings.TrimSpace(payload.ShortURL)
	if shortURL == "" {
		shortURL = fmt.Sprintf("%s/%s", strings.TrimRight(s.siteOrigin, "/"), slug)
	}

	isActive := true
	if payload.IsActive != nil {
		isActive = *payload.IsActive
	}

	// Ensure the owner row exists to satisfy the FK. Best-effort: a
	// failure here is logged and the insert is still attempted.
	if err := s.users.EnsureExists(userID, email); err != nil {
		log.Printf("Warning: failed to ensure user row for %s: %v", userID, err)
	}

	// The owner is always the authenticated caller; any caller-supplied
	// user_id has already been discarded.
	link := &entities.Link{
		ID:          uuid.NewString(),
		Slug:        slug,
		ShortURL:    shortURL,
		FullURL:     fullURL,
		IsActive:    isActive,
		Description: payload.Description,
		Favicon:     payload.Favicon,
		Tags:        payload.Tags,
		UserID:      &userID,
	}

	created, err := s.repo.Create(link)
	if err != nil {
		if strings.Contains(err.Error(), "unique") || strings.Contains(err.Error(), "duplicate") {
			return nil, fmt.Errorf("%w: slug %q is already taken", ErrValidation, slug)
		}
		return nil, err
	}

	return created, nil
}

// Get returns a link owned by the caller, or (nil, nil) when the id is
// unknown or owned by someone else.
func (s *linkService) Get(id, userID string) (*entities.Link, error) {
	link, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if link == nil || link.UserID == nil || *link.UserID != userID {
		return nil, nil
	}
	return link, nil
}

func (s *linkService) List(userID string) ([]*entities.Link, error) {
	return s.repo.ListByUser(userID)
}

func (s *linkService) Update(id, userID string, req *models.UpdateLinkRequest) (*entities.Link, error) {
	// Read the current slug first so a slug change invalidates the old
	// cache entry too.
	var oldSlug string
	if s.cache != nil {
		if existing, err := s.repo.GetByID(id); err == nil && existing != nil {
			oldSlug = existing.Slug
		}
	}

	update := &entities.LinkUpdate{
		Slug:        req.Slug,
		ShortURL:    req.ShortURL,
		FullURL:     req.FullURL,
		Clicks:      req.Clicks,
		IsActive:    req.IsActive,
		Description: req.Description,
		Favicon:     req.Favicon,
		Tags:        req.Tags,
	}

	updated, err := s.repo.Update(id, userID, update)
	if err != nil {
		return nil, err
	}

	s.invalidate(oldSlug, updated.Slug)

	return updated, nil
}

func (s *linkService) Delete(id, userID string) error {
	var slug string
	if s.cache != nil {
		if existing, err := s.repo.GetByID(id); err == nil && existing != nil {
			slug = existing.Slug
		}
	}

	if err := s.repo.Delete(id, userID); err != nil {
		return err
	}

	s.invalidate(slug, "")

	return nil
}

func (s *linkService) invalidate(slugs ...string) {
	if s.cache == nil {
		return
	}
	seen := make(map[string]bool)
	for _, slug := range slugs {
		if slug == "" || seen[slug] {
			continue
		}
		seen[slug] = true
		if err := s.cache.Delete(s.ctx, resolveKey(slug)); err != nil {
			log.Printf("Warning: failed to invalidate cache for slug %s: %v", slug, err)
		}
	}
}

func (s *linkService) Analytics(userID string) (*models.AnalyticsSummary, error) {
	links, err := s.repo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	summary := &models.AnalyticsSummary{
		LinkCount: len(links),
		PerLink:   make([]models.PerLinkClicks, 0, len(links)),
	}
	for _, link := range links {
		summary.TotalClicks += link.Clicks
		summary.PerLink = append(summary.PerLink, models.PerLinkClicks{
			ID:       link.ID,
			ShortURL: link.ShortURL,
			Clicks:   link.Clicks,
		})
	}

	return summary, nil
}
