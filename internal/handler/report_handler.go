package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"creditpipe/internal/service"
)

// ReportHandler handles credit report submission and job endpoints.
type ReportHandler struct {
	extraction service.ExtractionService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(extraction service.ExtractionService) *ReportHandler {
	return &ReportHandler{extraction: extraction}
}

type submitReportRequest struct {
	Text string `json:"text" binding:"required"`
}

// Submit handles POST /reports. The report is queued for asynchronous
// extraction and the job is returned immediately.
func (h *ReportHandler) Submit(c *gin.Context) {
	userID, email, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var req submitReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "text is required")
		return
	}

	job, err := h.extraction.SubmitReport(c.Request.Context(), userID, email, req.Text)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondAccepted(c, job)
}

// SubmitSync handles POST /reports/sync. The report is extracted inline and
// the resulting tradelines are returned.
func (h *ReportHandler) SubmitSync(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var req submitReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "text is required")
		return
	}

	result, err := h.extraction.ExtractSync(c.Request.Context(), userID, req.Text)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{
		"tradelines": result.Tradelines,
		"warnings":   result.Warnings,
	})
}

// GetJob handles GET /reports/:id
func (h *ReportHandler) GetJob(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid job id")
		return
	}

	job, err := h.extraction.GetJob(c.Request.Context(), userID, jobID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, job)
}

// Retry handles POST /reports/:id/retry. Only failed jobs can be retried.
func (h *ReportHandler) Retry(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid job id")
		return
	}

	job, err := h.extraction.RetryJob(c.Request.Context(), userID, jobID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondAccepted(c, job)
}
