package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"aic-hub-backend/internal/domains/tag"
	"aic-hub-backend/internal/shared/response"
)

type TagHandler struct {
	service tag.Service
}

func NewTagHandler(service tag.Service) *TagHandler {
	return &TagHandler{service: service}
}

// ListTags handles GET /tags
func (h *TagHandler) ListTags(c *gin.Context) {
	filter := &tag.ListFilter{
		Sort:     c.DefaultQuery("sort", "popular"),
		Category: c.DefaultQuery("category", "all"),
	}
	if limitStr := c.Query("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			filter.Limit = limit
		}
	}

	if err := filter.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid query parameters", err)
		return
	}

	tags, err := h.service.ListTags(c.Request.Context(), filter)
	if err != nil {
		status, code, message := tag.GetErrorResponse(err)
		response.ErrorResponse(c, status, code, message)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"tags": tags})
}

// GetTag handles GET /tags/:tag
func (h *TagHandler) GetTag(c *gin.Context) {
	result, err := h.service.GetTag(c.Request.Context(), c.Param("tag"))
	if err != nil {
		status, code, message := tag.GetErrorResponse(err)
		response.ErrorResponse(c, status, code, message)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// SuggestTags handles POST /tags/suggest
func (h *TagHandler) SuggestTags(c *gin.Context) {
	var req tag.SuggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request", err)
		return
	}

	result, err := h.service.SuggestTags(c.Request.Context(), &req)
	if err != nil {
		status, code, message := tag.GetErrorResponse(err)
		response.ErrorResponse(c, status, code, message)
		return
	}

	response.Success(c, http.StatusOK, result)
}
