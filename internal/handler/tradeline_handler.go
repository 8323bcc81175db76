package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"creditpipe/internal/export"
	"creditpipe/internal/port"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 200
)

// TradelineHandler handles tradeline listing, export, and deletion.
type TradelineHandler struct {
	tlRepo port.TradelineRepository
}

// NewTradelineHandler creates a new TradelineHandler.
func NewTradelineHandler(tlRepo port.TradelineRepository) *TradelineHandler {
	return &TradelineHandler{tlRepo: tlRepo}
}

// List handles GET /tradelines with offset/limit pagination.
func (h *TradelineHandler) List(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	offset, limit := parsePagination(c)
	tls, total, err := h.tlRepo.ListByUser(c.Request.Context(), userID, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, tls, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// ListNegative handles GET /tradelines/negative
func (h *TradelineHandler) ListNegative(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	tls, err := h.tlRepo.ListNegativeByUser(c.Request.Context(), userID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, tls)
}

// Export handles GET /tradelines/export?format=csv|xlsx
func (h *TradelineHandler) Export(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	format := c.DefaultQuery("format", "csv")
	if format != "csv" && format != "xlsx" {
		RespondError(c, http.StatusBadRequest, "INVALID_FORMAT", "format must be csv or xlsx")
		return
	}

	tls, _, err := h.tlRepo.ListByUser(c.Request.Context(), userID, 0, maxPageLimit*10)
	if err != nil {
		HandleError(c, err)
		return
	}

	filename := export.BuildFilename("tradelines", format)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	if format == "xlsx" {
		data, err := export.WriteXLSX(tls)
		if err != nil {
			HandleError(c, err)
			return
		}
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
		return
	}

	var buf bytes.Buffer
	buf.Write(export.BOM)
	w := export.NewCSVWriter(&buf)
	if err := w.WriteHeader(); err != nil {
		HandleError(c, err)
		return
	}
	if err := w.WriteTradelines(tls); err != nil {
		HandleError(c, err)
		return
	}
	w.Flush()
	if err := w.Error(); err != nil {
		HandleError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// Delete handles DELETE /tradelines/:id
func (h *TradelineHandler) Delete(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid tradeline id")
		return
	}

	if err := h.tlRepo.Delete(c.Request.Context(), userID, id); err != nil {
		HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func parsePagination(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageLimit)))
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > maxPageLimit {
		limit = defaultPageLimit
	}
	return offset, limit
}
