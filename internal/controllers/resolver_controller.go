package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"linkdash-be/internal/service"
)

// FallbackPath is where unresolvable slugs land.
const FallbackPath = "/302"

// ResolverController serves GET /:slug. Visitors always get a redirect:
// lookup misses and store errors both degrade to the fallback path, never
// a 5xx. The only exception is missing required configuration, which
// answers 500 before any lookup is attempted.
type ResolverController struct {
	resolver service.ResolverService
	cfgErr   error
}

func NewResolverController(resolver service.ResolverService, cfgErr error) *ResolverController {
	return &ResolverController{
		resolver: resolver,
		cfgErr:   cfgErr,
	}
}

// Redirect handles GET /:slug
func (rc *ResolverController) Redirect(c *gin.Context) {
	if rc.cfgErr != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": rc.cfgErr.Error()})
		return
	}

	slug := c.Param("slug")

	destination, err := rc.resolver.Resolve(slug)
	if err != nil {
		if !errors.Is(err, service.ErrLinkNotFound) {
			log.Printf("Error resolving slug %s: %v", slug, err)
		}
		c.Redirect(http.StatusFound, FallbackPath)
		return
	}

	c.Redirect(http.StatusFound, destination)
}
