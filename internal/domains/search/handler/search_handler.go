package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"aic-hub-backend/internal/domains/search"
	"aic-hub-backend/internal/shared/response"
)

type SearchHandler struct {
	service search.Service
}

func NewSearchHandler(service search.Service) *SearchHandler {
	return &SearchHandler{service: service}
}

// Search handles GET /search
func (h *SearchHandler) Search(c *gin.Context) {
	q := &search.Query{
		Q:    strings.TrimSpace(c.Query("q")),
		Type: c.DefaultQuery("type", "all"),
	}
	if tags := c.Query("tags"); tags != "" {
		q.Tags = strings.Split(tags, ",")
	}
	q.Skip, _ = strconv.Atoi(c.DefaultQuery("skip", "0"))
	q.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))

	if err := q.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid search query", err)
		return
	}

	resp, err := h.service.Search(c.Request.Context(), q)
	if err != nil {
		status, code, message := search.GetErrorResponse(err)
		response.ErrorResponse(c, status, code, message)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// Autocomplete handles GET /search/autocomplete
func (h *SearchHandler) Autocomplete(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	entries, err := h.service.Autocomplete(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		status, code, message := search.GetErrorResponse(err)
		response.ErrorResponse(c, status, code, message)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"suggestions": entries})
}

// Reindex handles POST /search/index
func (h *SearchHandler) Reindex(c *gin.Context) {
	var req search.ReindexRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request", err)
		return
	}

	if err := h.service.Reindex(c.Request.Context(), &req); err != nil {
		status, code, message := search.GetErrorResponse(err)
		response.ErrorResponse(c, status, code, message)
		return
	}

	response.Success(c, http.StatusAccepted, gin.H{"queued": true})
}
