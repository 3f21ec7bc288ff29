package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"aic-hub-backend/internal/domains/article"
	"aic-hub-backend/internal/shared/middleware"
	"aic-hub-backend/internal/shared/response"
)

type ArticleHandler struct {
	service article.Service
}

func NewArticleHandler(service article.Service) *ArticleHandler {
	return &ArticleHandler{service: service}
}

// Create handles POST /articles
func (h *ArticleHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	var req article.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request", err)
		return
	}

	resp, err := h.service.Create(c.Request.Context(), userID, &req)
	if err != nil {
		status, code, message := article.GetErrorResponse(err)
		response.ErrorResponse(c, status, code, message)
		return
	}

	response.Success(c, http.StatusCreated, resp)
}

// List handles GET /articles
func (h *ArticleHandler) List(c *gin.Context) {
	filter := &article.ListFilter{
		Author: c.Query("author"),
		Query:  c.Query("q"),
		Sort:   c.DefaultQuery("sort", "latest"),
	}
	if tags := c.Query("tags"); tags != "" {
		filter.Tags = strings.Split(tags, ",")
	}
	filter.Skip, _ = strconv.Atoi(c.DefaultQuery("skip", "0"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))

	resp, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		status, code, message := article.GetErrorResponse(err)
		response.ErrorResponse(c, status, code, message)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// Drafts handles GET /articles/drafts
func (h *ArticleHandler) Drafts(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	drafts, err := h.service.Drafts(c.Request.Context(), userID)
	if err != nil {
		status, code, message := article.GetErrorResponse(err)
		response.ErrorResponse(c, status, code, message)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"articles": drafts})
}

// GetBySlug handles GET /articles/:slug
func (h *ArticleHandler) GetBySlug(c *gin.Context) {
	viewerID, _ := middleware.GetUserID(c)

	resp, err := h.service.GetBySlug(c.Request.Context(), c.Param("slug"), viewerID)
	if err != nil {
		status, code, message := article.GetErrorResponse(err)
		response.ErrorResponse(c, status, code, message)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// Update handles PATCH /articles/:id
func (h *ArticleHandler) Update(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid article id")
		return
	}

	var req article.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request", err)
		return
	}

	resp, err := h.service.Update(c.Request.Context(), id, userID, &req)
	if err != nil {
		status, code, message := article.GetErrorResponse(err)
		response.ErrorResponse(c, status, code, message)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// Delete handles DELETE /articles/:id
func (h *ArticleHandler) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid article id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, userID); err != nil {
		status, code, message := article.GetErrorResponse(err)
		response.ErrorResponse(c, status, code, message)
		return
	}

	c.Status(http.StatusNoContent)
}

// Publish handles POST /articles/:id/publish
func (h *ArticleHandler) Publish(c *gin.Context) {
	h.transition(c, h.service.Publish)
}

// Unpublish handles POST /articles/:id/unpublish
func (h *ArticleHandler) Unpublish(c *gin.Context) {
	h.transition(c, h.service.Unpublish)
}

func (h *ArticleHandler) transition(c *gin.Context, op func(ctx context.Context, id, authorID uuid.UUID) (*article.Response, error)) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid article id")
		return
	}

	resp, err := op(c.Request.Context(), id, userID)
	if err != nil {
		status, code, message := article.GetErrorResponse(err)
		response.ErrorResponse(c, status, code, message)
		return
	}

	response.Success(c, http.StatusOK, resp)
}
