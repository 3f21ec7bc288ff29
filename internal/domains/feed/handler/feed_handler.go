package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"aic-hub-backend/internal/domains/feed"
	"aic-hub-backend/internal/shared/middleware"
	"aic-hub-backend/internal/shared/response"
)

type FeedHandler struct {
	service feed.Service
}

func NewFeedHandler(service feed.Service) *FeedHandler {
	return &FeedHandler{service: service}
}

// Feed handles GET /feed
func (h *FeedHandler) Feed(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	req := &feed.FeedRequest{View: c.Query("view")}
	if tags := c.Query("tags"); tags != "" {
		req.Tags = strings.Split(tags, ",")
	}
	req.Skip, _ = strconv.Atoi(c.DefaultQuery("skip", "0"))
	req.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))

	resp, err := h.service.Feed(c.Request.Context(), userID, req)
	if err != nil {
		status, code, message := feed.GetErrorResponse(err)
		response.ErrorResponse(c, status, code, message)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// Trending handles GET /feed/trending
func (h *FeedHandler) Trending(c *gin.Context) {
	resp, err := h.service.Trending(c.Request.Context(), c.DefaultQuery("range", "24h"))
	if err != nil {
		status, code, message := feed.GetErrorResponse(err)
		response.ErrorResponse(c, status, code, message)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// Discover handles GET /feed/discover
func (h *FeedHandler) Discover(c *gin.Context) {
	resp, err := h.service.Discover(c.Request.Context())
	if err != nil {
		status, code, message := feed.GetErrorResponse(err)
		response.ErrorResponse(c, status, code, message)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// Activity handles GET /feed/activity
func (h *FeedHandler) Activity(c *gin.Context) {
	filter := &feed.ActivityFilter{}
	if actor := c.Query("user_id"); actor != "" {
		id, err := uuid.Parse(actor)
		if err != nil {
			response.BadRequest(c, "Invalid user id")
			return
		}
		filter.ActorID = id
	}
	if target := c.Query("target_id"); target != "" {
		id, err := uuid.Parse(target)
		if err != nil {
			response.BadRequest(c, "Invalid target id")
			return
		}
		filter.TargetID = id
	}
	filter.TargetType = feed.TargetType(c.Query("target_type"))
	filter.Skip, _ = strconv.Atoi(c.DefaultQuery("skip", "0"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))

	resp, err := h.service.Activity(c.Request.Context(), filter)
	if err != nil {
		status, code, message := feed.GetErrorResponse(err)
		response.ErrorResponse(c, status, code, message)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// Recommendations handles GET /feed/recommendations
func (h *FeedHandler) Recommendations(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	articles, err := h.service.Recommendations(c.Request.Context(), userID, limit)
	if err != nil {
		status, code, message := feed.GetErrorResponse(err)
		response.ErrorResponse(c, status, code, message)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"articles": articles})
}

// GetPreferences handles GET /feed/preferences
func (h *FeedHandler) GetPreferences(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	prefs, err := h.service.GetPreferences(c.Request.Context(), userID)
	if err != nil {
		status, code, message := feed.GetErrorResponse(err)
		response.ErrorResponse(c, status, code, message)
		return
	}

	response.Success(c, http.StatusOK, prefs)
}

// UpdatePreferences handles PATCH /feed/preferences
func (h *FeedHandler) UpdatePreferences(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	var req feed.UpdatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request", err)
		return
	}

	prefs, err := h.service.UpdatePreferences(c.Request.Context(), userID, &req)
	if err != nil {
		status, code, message := feed.GetErrorResponse(err)
		response.ErrorResponse(c, status, code, message)
		return
	}

	response.Success(c, http.StatusOK, prefs)
}

// RecordInteraction handles POST /feed/interactions
func (h *FeedHandler) RecordInteraction(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	var req feed.InteractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request", err)
		return
	}

	if err := h.service.RecordInteraction(c.Request.Context(), userID, &req); err != nil {
		status, code, message := feed.GetErrorResponse(err)
		response.ErrorResponse(c, status, code, message)
		return
	}

	c.Status(http.StatusAccepted)
}
