package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/snehn77/Editor/internal/dto"
	"github.com/snehn77/Editor/internal/models"
	"github.com/snehn77/Editor/internal/service"
	appErrors "github.com/snehn77/Editor/pkg/errors"
	"github.com/snehn77/Editor/pkg/response"
)

type submissionService interface {
	Submit(ctx context.Context, batchID string, req service.SubmitRequest) (*models.HistoryRecord, error)
}

type submissionStatusReader interface {
	Status(ctx context.Context, changeID string) (*service.SubmissionStatus, error)
}

// SubmitHandler commits drafted batches.
type SubmitHandler struct {
	service submissionService
	status  submissionStatusReader
}

// NewSubmitHandler constructs the handler.
func NewSubmitHandler(service submissionService, status submissionStatusReader) *SubmitHandler {
	return &SubmitHandler{service: service, status: status}
}

// Submit godoc
// @Summary Submit the draft of a batch
// @Tags Submission
// @Accept json
// @Produce json
// @Param id path string true "Batch ID"
// @Param payload body dto.SubmitRequest false "Submitter and notes"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /submit/{id} [post]
func (h *SubmitHandler) Submit(c *gin.Context) {
	var req dto.SubmitRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid submission payload"))
			return
		}
	}
	record, err := h.service.Submit(c.Request.Context(), c.Param("id"), service.SubmitRequest{
		Username: actingUser(c, req.Username),
		Notes:    req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.SubmitResponse{
		ChangeID:      record.ChangeID,
		DocumentURL:   deref(record.DocumentURL),
		ExcelFilePath: deref(record.ExcelFilePath),
		Message:       "changes submitted successfully",
	})
}

// Status godoc
// @Summary Approval status of a submission
// @Tags Submission
// @Produce json
// @Param id path string true "Change ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /submit/{id}/status [get]
func (h *SubmitHandler) Status(c *gin.Context) {
	if h.status == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "history service not configured"))
		return
	}
	status, err := h.status.Status(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, status, nil)
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
