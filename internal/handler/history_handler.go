package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/snehn77/Editor/internal/dto"
	"github.com/snehn77/Editor/internal/models"
	"github.com/snehn77/Editor/internal/service"
	appErrors "github.com/snehn77/Editor/pkg/errors"
	"github.com/snehn77/Editor/pkg/response"
)

type historyService interface {
	List(ctx context.Context, filter models.HistoryFilter) ([]models.HistoryRecord, *models.Pagination, error)
	Get(ctx context.Context, changeID string) (*service.HistoryEntry, error)
	DocumentURL(ctx context.Context, changeID string) (string, error)
}

// HistoryHandler exposes the submission audit trail.
type HistoryHandler struct {
	service historyService
}

// NewHistoryHandler constructs the handler.
func NewHistoryHandler(service historyService) *HistoryHandler {
	return &HistoryHandler{service: service}
}

// List godoc
// @Summary List submissions
// @Tags History
// @Produce json
// @Param process query string false "Process"
// @Param status query string false "Pending, Approved or Rejected"
// @Param fromDate query string false "YYYY-MM-DD"
// @Param toDate query string false "YYYY-MM-DD (inclusive)"
// @Param page query int false "Page"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /history [get]
func (h *HistoryHandler) List(c *gin.Context) {
	var query dto.HistoryQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid history query"))
		return
	}
	filter := models.HistoryFilter{
		Process:  strings.TrimSpace(query.Process),
		Status:   models.ApprovalStatus(strings.TrimSpace(query.Status)),
		FromDate: query.FromDate,
		Page:     query.Page,
		PageSize: query.PageSize,
	}
	if query.ToDate != nil {
		// a bare date covers the whole day
		end := query.ToDate.Add(24*time.Hour - time.Nanosecond)
		filter.ToDate = &end
	}

	records, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, pagination)
}

// Get godoc
// @Summary Submission record with its details
// @Tags History
// @Produce json
// @Param changeId path string true "Change ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /history/{changeId} [get]
func (h *HistoryHandler) Get(c *gin.Context) {
	entry, err := h.service.Get(c.Request.Context(), c.Param("changeId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entry, nil)
}

// Excel godoc
// @Summary Download link of a submission workbook
// @Tags History
// @Produce json
// @Param changeId path string true "Change ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /history/{changeId}/excel [get]
func (h *HistoryHandler) Excel(c *gin.Context) {
	changeID := c.Param("changeId")
	url, err := h.service.DocumentURL(c.Request.Context(), changeID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.DocumentLink{ChangeID: changeID, DocumentURL: url}, nil)
}
