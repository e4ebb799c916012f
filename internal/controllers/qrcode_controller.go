package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"

	"linkdash-be/internal/models"
	"linkdash-be/internal/service"
)

// QRCodeController renders a link's short URL as a QR code.
type QRCodeController struct {
	linkService service.LinkService
	siteOrigin  string
	cfgErr      error
}

func NewQRCodeController(linkService service.LinkService, siteOrigin string, cfgErr error) *QRCodeController {
	return &QRCodeController{
		linkService: linkService,
		siteOrigin:  siteOrigin,
		cfgErr:      cfgErr,
	}
}

// Generate handles GET /api/links/:id/qrcode
func (qc *QRCodeController) Generate(c *gin.Context) {
	if qc.cfgErr != nil {
		c.JSON(http.StatusInternalServerError, models.Err(qc.cfgErr.Error()))
		return
	}

	link, err := qc.linkService.Get(c.Param("id"), c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.Err(err.Error()))
		return
	}
	if link == nil {
		c.JSON(http.StatusNotFound, models.Err("Link not found"))
		return
	}

	shortURL := link.ShortURL
	if shortURL == "" {
		shortURL = strings.TrimRight(qc.siteOrigin, "/") + "/" + link.Slug
	}
	// Stored short urls may lack a scheme ("short.ly/abc123"); QR readers
	// need one.
	if !strings.Contains(shortURL, "://") {
		shortURL = "https://" + shortURL
	}

	pngData, err := qrcode.Encode(shortURL, qrcode.Medium, 256)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.Err("Failed to generate QR code"))
		return
	}

	c.Header("Content-Disposition", "inline; filename=qrcode.png")
	c.Data(http.StatusOK, "image/png", pngData)
}
