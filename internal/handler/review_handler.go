package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/snehn77/Editor/internal/service"
	"github.com/snehn77/Editor/pkg/response"
)

type reviewService interface {
	Review(ctx context.Context, batchID string) (*service.ReviewResult, error)
}

// ReviewHandler serves the pre-submit comparison of a batch.
type ReviewHandler struct {
	service reviewService
}

// NewReviewHandler constructs the handler.
func NewReviewHandler(service reviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

// Review godoc
// @Summary Compare base rows with the drafted result
// @Tags Review
// @Produce json
// @Param batchId path string true "Batch ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /review/{batchId} [get]
func (h *ReviewHandler) Review(c *gin.Context) {
	result, err := h.service.Review(c.Request.Context(), c.Param("batchId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
