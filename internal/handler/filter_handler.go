package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/snehn77/Editor/internal/dto"
	"github.com/snehn77/Editor/pkg/response"
)

type filterService interface {
	Processes(ctx context.Context) ([]string, error)
	Layers(ctx context.Context, process string) ([]string, error)
	Operations(ctx context.Context, process, layer string) ([]string, error)
}

// FilterHandler serves selection options for new batches.
type FilterHandler struct {
	service filterService
}

// NewFilterHandler constructs the handler.
func NewFilterHandler(service filterService) *FilterHandler {
	return &FilterHandler{service: service}
}

// Processes godoc
// @Summary List processes
// @Tags Filters
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /filters/process [get]
func (h *FilterHandler) Processes(c *gin.Context) {
	h.respond(c)(h.service.Processes(c.Request.Context()))
}

// Layers godoc
// @Summary List layers of a process
// @Tags Filters
// @Produce json
// @Param process path string true "Process"
// @Success 200 {object} response.Envelope
// @Router /filters/layers/{process} [get]
func (h *FilterHandler) Layers(c *gin.Context) {
	h.respond(c)(h.service.Layers(c.Request.Context(), c.Param("process")))
}

// Operations godoc
// @Summary List operations of a process and layer
// @Tags Filters
// @Produce json
// @Param process path string true "Process"
// @Param layer path string true "Layer"
// @Success 200 {object} response.Envelope
// @Router /filters/operations/{process}/{layer} [get]
func (h *FilterHandler) Operations(c *gin.Context) {
	h.respond(c)(h.service.Operations(c.Request.Context(), c.Param("process"), c.Param("layer")))
}

func (h *FilterHandler) respond(c *gin.Context) func([]string, error) {
	return func(values []string, err error) {
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, dto.FilterOptions{Values: values}, nil)
	}
}
