package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"aic-hub-backend/internal/domains/space"
	"aic-hub-backend/internal/shared/middleware"
	"aic-hub-backend/internal/shared/response"
)

type SpaceHandler struct {
	service space.Service
}

func NewSpaceHandler(service space.Service) *SpaceHandler {
	return &SpaceHandler{service: service}
}

// Create handles POST /spaces
func (h *SpaceHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	var req space.CreateRequest
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
		status, code, message := space.GetErrorResponse(err)
		response.ErrorResponse(c, status, code, message)
		return
	}

	response.Success(c, http.StatusCreated, resp)
}

// List handles GET /spaces
func (h *SpaceHandler) List(c *gin.Context) {
	viewerID, _ := middleware.GetUserID(c)

	filter := &space.ListFilter{
		Query:    c.Query("q"),
		MySpaces: c.Query("my_spaces") == "true",
		ViewerID: viewerID,
	}
	if tags := c.Query("tags"); tags != "" {
		filter.Tags = strings.Split(tags, ",")
	}
	filter.Skip, _ = strconv.Atoi(c.DefaultQuery("skip", "0"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))

	if filter.MySpaces && viewerID == uuid.Nil {
		response.Unauthorized(c, "authentication required")
		return
	}

	resp, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		status, code, message := space.GetErrorResponse(err)
		response.ErrorResponse(c, status, code, message)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// GetBySlug handles GET /spaces/:slug
func (h *SpaceHandler) GetBySlug(c *gin.Context) {
	viewerID, _ := middleware.GetUserID(c)

	resp, err := h.service.GetBySlug(c.Request.Context(), c.Param("id"), viewerID)
	if err != nil {
		status, code, message := space.GetErrorResponse(err)
		response.ErrorResponse(c, status, code, message)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// Update handles PATCH /spaces/:id
func (h *SpaceHandler) Update(c *gin.Context) {
	userID, id, ok := h.authAndID(c)
	if !ok {
		return
	}

	var req space.UpdateRequest
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
		status, code, message := space.GetErrorResponse(err)
		response.ErrorResponse(c, status, code, message)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// Delete handles DELETE /spaces/:id
func (h *SpaceHandler) Delete(c *gin.Context) {
	userID, id, ok := h.authAndID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, userID); err != nil {
		status, code, message := space.GetErrorResponse(err)
		response.ErrorResponse(c, status, code, message)
		return
	}

	c.Status(http.StatusNoContent)
}

// Join handles POST /spaces/:id/join
func (h *SpaceHandler) Join(c *gin.Context) {
	userID, id, ok := h.authAndID(c)
	if !ok {
		return
	}

	role, err := h.service.Join(c.Request.Context(), id, userID)
	if err != nil {
		status, code, message := space.GetErrorResponse(err)
		response.ErrorResponse(c, status, code, message)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"role": role})
}

// Leave handles POST /spaces/:id/leave
func (h *SpaceHandler) Leave(c *gin.Context) {
	userID, id, ok := h.authAndID(c)
	if !ok {
		return
	}

	if err := h.service.Leave(c.Request.Context(), id, userID); err != nil {
		status, code, message := space.GetErrorResponse(err)
		response.ErrorResponse(c, status, code, message)
		return
	}

	c.Status(http.StatusNoContent)
}

// Members handles GET /spaces/:id/members
func (h *SpaceHandler) Members(c *gin.Context) {
	viewerID, _ := middleware.GetUserID(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid space id")
		return
	}

	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	roleFilter := space.Role(c.Query("role"))

	members, total, err := h.service.Members(c.Request.Context(), id, viewerID, roleFilter, skip, limit)
	if err != nil {
		status, code, message := space.GetErrorResponse(err)
		response.ErrorResponse(c, status, code, message)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"members": members, "total": total})
}

// UpdateMemberRole handles PATCH /spaces/:id/members/:userId
func (h *SpaceHandler) UpdateMemberRole(c *gin.Context) {
	actorID, id, ok := h.authAndID(c)
	if !ok {
		return
	}
	memberID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		response.BadRequest(c, "Invalid user id")
		return
	}

	var req space.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request", err)
		return
	}

	if err := h.service.UpdateMemberRole(c.Request.Context(), id, actorID, memberID, req.Role); err != nil {
		status, code, message := space.GetErrorResponse(err)
		response.ErrorResponse(c, status, code, message)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"role": req.Role})
}

// ShareArticle handles POST /spaces/:id/articles
func (h *SpaceHandler) ShareArticle(c *gin.Context) {
	userID, id, ok := h.authAndID(c)
	if !ok {
		return
	}

	var req space.ShareArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request", err)
		return
	}

	if err := h.service.ShareArticle(c.Request.Context(), id, userID, &req); err != nil {
		status, code, message := space.GetErrorResponse(err)
		response.ErrorResponse(c, status, code, message)
		return
	}

	c.Status(http.StatusCreated)
}

// ListArticles handles GET /spaces/:id/articles
func (h *SpaceHandler) ListArticles(c *gin.Context) {
	viewerID, _ := middleware.GetUserID(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid space id")
		return
	}

	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	pinnedFirst := c.DefaultQuery("pinned_first", "true") != "false"

	articles, total, err := h.service.ListArticles(c.Request.Context(), id, viewerID, pinnedFirst, skip, limit)
	if err != nil {
		status, code, message := space.GetErrorResponse(err)
		response.ErrorResponse(c, status, code, message)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"articles": articles, "total": total})
}

// PinArticle handles PATCH /spaces/:id/articles/:articleId/pin
func (h *SpaceHandler) PinArticle(c *gin.Context) {
	actorID, id, ok := h.authAndID(c)
	if !ok {
		return
	}
	articleID, err := uuid.Parse(c.Param("articleId"))
	if err != nil {
		response.BadRequest(c, "Invalid article id")
		return
	}

	var req space.PinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}

	if err := h.service.PinArticle(c.Request.Context(), id, actorID, articleID, req.Pinned); err != nil {
		status, code, message := space.GetErrorResponse(err)
		response.ErrorResponse(c, status, code, message)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"pinned": req.Pinned})
}

// RemoveArticle handles DELETE /spaces/:id/articles/:articleId
func (h *SpaceHandler) RemoveArticle(c *gin.Context) {
	actorID, id, ok := h.authAndID(c)
	if !ok {
		return
	}
	articleID, err := uuid.Parse(c.Param("articleId"))
	if err != nil {
		response.BadRequest(c, "Invalid article id")
		return
	}

	if err := h.service.RemoveArticle(c.Request.Context(), id, actorID, articleID); err != nil {
		status, code, message := space.GetErrorResponse(err)
		response.ErrorResponse(c, status, code, message)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *SpaceHandler) authAndID(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return uuid.Nil, uuid.Nil, false
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid space id")
		return uuid.Nil, uuid.Nil, false
	}
	return userID, id, true
}
