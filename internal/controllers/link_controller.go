package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"linkdash-be/internal/models"
	"linkdash-be/internal/repository"
	"linkdash-be/internal/service"
)

// LinkController serves the authenticated /api/links CRUD surface. Every
// response uses the {data, error} envelope.
type LinkController struct {
	linkService service.LinkService
	cfgErr      error
}

func NewLinkController(linkService service.LinkService, cfgErr error) *LinkController {
	return &LinkController{
		linkService: linkService,
		cfgErr:      cfgErr,
	}
}

// configured answers 500 with the config error before any backend call
// when required environment is missing.
func (lc *LinkController) configured(c *gin.Context) bool {
	if lc.cfgErr != nil {
		c.JSON(http.StatusInternalServerError, models.Err(lc.cfgErr.Error()))
		return false
	}
	return true
}

// Create handles POST /api/links
func (lc *LinkController) Create(c *gin.Context) {
	if !lc.configured(c) {
		return
	}

	var payload models.LinkPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, models.Err("Invalid request body"))
		return
	}

	userID := c.GetString("user_id")
	email := c.GetString("email")

	link, err := lc.linkService.Create(&payload, userID, email)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			c.JSON(http.StatusBadRequest, models.Err(err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, models.Err(err.Error()))
		return
	}

	c.JSON(http.StatusOK, models.Ok(link))
}

// List handles GET /api/links
func (lc *LinkController) List(c *gin.Context) {
	if !lc.configured(c) {
		return
	}

	links, err := lc.linkService.List(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.Err(err.Error()))
		return
	}

	c.JSON(http.StatusOK, models.Ok(links))
}

// Get handles GET /api/links/:id. An unknown or foreign id yields
// {data: null, error: null}, not a 404.
func (lc *LinkController) Get(c *gin.Context) {
	if !lc.configured(c) {
		return
	}

	link, err := lc.linkService.Get(c.Param("id"), c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.Err(err.Error()))
		return
	}
	if link == nil {
		c.JSON(http.StatusOK, models.Result{Data: nil, Error: nil})
		return
	}

	c.JSON(http.StatusOK, models.Ok(link))
}

// Update handles PATCH /api/links/:id
func (lc *LinkController) Update(c *gin.Context) {
	if !lc.configured(c) {
		return
	}

	var req models.UpdateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.Err("Invalid request body"))
		return
	}

	link, err := lc.linkService.Update(c.Param("id"), c.GetString("user_id"), &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, models.Err("Link not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, models.Err(err.Error()))
		return
	}

	c.JSON(http.StatusOK, models.Ok(link))
}

// Delete handles DELETE /api/links/:id
func (lc *LinkController) Delete(c *gin.Context) {
	if !lc.configured(c) {
		return
	}

	err := lc.linkService.Delete(c.Param("id"), c.GetString("user_id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, models.Err("Link not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, models.Err(err.Error()))
		return
	}

	c.JSON(http.StatusOK, models.Result{Data: nil, Error: nil})
}

// Analytics handles GET /api/analytics
func (lc *LinkController) Analytics(c *gin.Context) {
	if !lc.configured(c) {
		return
	}

	summary, err := lc.linkService.Analytics(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.Err(err.Error()))
		return
	}

	c.JSON(http.StatusOK, models.Ok(summary))
}
