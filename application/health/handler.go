package health

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mlop-ingest/internal/apperror"
)

type Handler struct {
	svc *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{svc: service}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)
}

func (h *Handler) HealthCheck(c *gin.Context) {
	sendText := c.MustGet("sendText").(func(int, string))
	sendError := c.MustGet("sendError").(func(*apperror.Error))

	if err := h.svc.CheckHealth(c.Request.Context()); err != nil {
		sendError(apperror.New(apperror.ServiceUnavailable, err.Error()))
		return
	}

	sendText(http.StatusOK, "OK")
}
