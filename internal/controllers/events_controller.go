package controllers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"linkdash-be/internal/models"
	"linkdash-be/internal/realtime"
	"linkdash-be/internal/service"
)

// EventsController streams per-link realtime click changes to dashboard
// clients over server-sent events.
type EventsController struct {
	linkService service.LinkService
	hub         *realtime.Hub
	cfgErr      error
}

func NewEventsController(linkService service.LinkService, hub *realtime.Hub, cfgErr error) *EventsController {
	return &EventsController{
		linkService: linkService,
		hub:         hub,
		cfgErr:      cfgErr,
	}
}

// Stream handles GET /api/links/:id/events
func (ec *EventsController) Stream(c *gin.Context) {
	if ec.cfgErr != nil {
		c.JSON(http.StatusInternalServerError, models.Err(ec.cfgErr.Error()))
		return
	}
	if ec.hub == nil {
		c.JSON(http.StatusInternalServerError, models.Err("Realtime feed not available."))
		return
	}

	link, err := ec.linkService.Get(c.Param("id"), c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.Err(err.Error()))
		return
	}
	if link == nil {
		c.JSON(http.StatusNotFound, models.Err("Link not found"))
		return
	}

	events, cancel := ec.hub.Subscribe(link.ID)
	defer cancel()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent(string(event.Kind), event)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
