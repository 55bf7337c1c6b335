package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/snehn77/Editor/internal/dto"
	"github.com/snehn77/Editor/internal/models"
	appErrors "github.com/snehn77/Editor/pkg/errors"
	"github.com/snehn77/Editor/pkg/response"
)

type draftService interface {
	Get(ctx context.Context, batchID string) ([]models.Change, error)
	Replace(ctx context.Context, batchID string, changes []models.Change, username string) ([]models.Change, error)
	Merge(ctx context.Context, batchID string, incoming []models.Change, username string) ([]models.Change, error)
	Discard(ctx context.Context, batchID string) error
}

// DraftHandler manages a batch's unsubmitted change-set.
type DraftHandler struct {
	service draftService
}

// NewDraftHandler constructs the handler.
func NewDraftHandler(service draftService) *DraftHandler {
	return &DraftHandler{service: service}
}

// Get godoc
// @Summary Load the active draft of a batch
// @Tags Drafts
// @Produce json
// @Param batchId path string true "Batch ID"
// @Success 200 {object} response.Envelope
// @Router /drafts/{batchId} [get]
func (h *DraftHandler) Get(c *gin.Context) {
	batchID := c.Param("batchId")
	changes, err := h.service.Get(c.Request.Context(), batchID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, draftResponse(batchID, changes), nil)
}

// Save godoc
// @Summary Replace the draft of a batch
// @Tags Drafts
// @Accept json
// @Produce json
// @Param batchId path string true "Batch ID"
// @Param payload body dto.SaveDraftRequest true "Change-set"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /drafts/{batchId} [post]
func (h *DraftHandler) Save(c *gin.Context) {
	h.write(c, h.service.Replace)
}

// Merge godoc
// @Summary Reconcile incoming changes into the draft of a batch
// @Tags Drafts
// @Accept json
// @Produce json
// @Param batchId path string true "Batch ID"
// @Param payload body dto.SaveDraftRequest true "Changes"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /drafts/{batchId}/changes [post]
func (h *DraftHandler) Merge(c *gin.Context) {
	h.write(c, h.service.Merge)
}

// Discard godoc
// @Summary Discard the draft of a batch
// @Tags Drafts
// @Param batchId path string true "Batch ID"
// @Success 204
// @Router /drafts/{batchId} [delete]
func (h *DraftHandler) Discard(c *gin.Context) {
	if err := h.service.Discard(c.Request.Context(), c.Param("batchId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

type draftWriter func(ctx context.Context, batchID string, changes []models.Change, username string) ([]models.Change, error)

func (h *DraftHandler) write(c *gin.Context, apply draftWriter) {
	var req dto.SaveDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid change-set payload"))
		return
	}
	batchID := c.Param("batchId")
	saved, err := apply(c.Request.Context(), batchID, req.Changes, actingUser(c, req.Username))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, draftResponse(batchID, saved), nil)
}

func draftResponse(batchID string, changes []models.Change) dto.DraftResponse {
	if changes == nil {
		changes = []models.Change{}
	}
	return dto.DraftResponse{BatchID: batchID, Changes: changes, Count: len(changes)}
}
