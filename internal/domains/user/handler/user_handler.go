package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"aic-hub-backend/internal/domains/user"
	"aic-hub-backend/internal/shared/middleware"
	"aic-hub-backend/internal/shared/response"
)

type UserHandler struct {
	service user.Service
}

func NewUserHandler(service user.Service) *UserHandler {
	return &UserHandler{service: service}
}

// GetMe handles GET /users/me
func (h *UserHandler) GetMe(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	profile, err := h.service.GetMe(c.Request.Context(), userID)
	if err != nil {
		status, code, message := user.GetErrorResponse(err)
		response.ErrorResponse(c, status, code, message)
		return
	}

	response.Success(c, http.StatusOK, profile)
}

// UpdateMe handles PATCH /users/me
func (h *UserHandler) UpdateMe(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	var req user.UpdateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request", err)
		return
	}

	profile, err := h.service.UpdateMe(c.Request.Context(), userID, &req)
	if err != nil {
		status, code, message := user.GetErrorResponse(err)
		response.ErrorResponse(c, status, code, message)
		return
	}

	response.Success(c, http.StatusOK, profile)
}

// GetByUsername handles GET /users/:username
func (h *UserHandler) GetByUsername(c *gin.Context) {
	profile, err := h.service.GetByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		status, code, message := user.GetErrorResponse(err)
		response.ErrorResponse(c, status, code, message)
		return
	}

	response.Success(c, http.StatusOK, profile)
}

// ListUsers handles GET /users
func (h *UserHandler) ListUsers(c *gin.Context) {
	filter := &user.ListFilter{
		Query: c.Query("q"),
		Tag:   c.Query("tag"),
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.Limit = limit
	}
	if offset, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil && offset >= 0 {
		filter.Offset = offset
	}

	users, err := h.service.ListUsers(c.Request.Context(), filter)
	if err != nil {
		status, code, message := user.GetErrorResponse(err)
		response.ErrorResponse(c, status, code, message)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"users": users})
}

// CheckUsername handles POST /users/check-username
func (h *UserHandler) CheckUsername(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	var req user.CheckUsernameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request", err)
		return
	}

	result, err := h.service.CheckUsername(c.Request.Context(), userID, req.Username)
	if err != nil {
		status, code, message := user.GetErrorResponse(err)
		response.ErrorResponse(c, status, code, message)
		return
	}

	response.Success(c, http.StatusOK, result)
}
