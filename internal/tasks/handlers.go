package tasks

import (
	"errors"
	"net/http"
	"strconv"

	"taskgate/internal/auth"
	"taskgate/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Handlers groups the protected task routes for dependency injection.
// Keep these thin: parse input, call the taskd client, return JSON.
// Identity has already been resolved by the access-token middleware.

type Handlers struct {
	Client *Client
}

type createTaskRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

type updateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

func (h Handlers) List(c *gin.Context) {
	status := c.Query("status")

	list, err := h.Client.List(c.Request.Context(), status)
	if err != nil {
		h.upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "task list", "tasks": list})
}

func (h Handlers) Create(c *gin.Context) {
	user, err := auth.CurrentUser(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}
	if req.Status == "" {
		req.Status = "new"
	}

	created, err := h.Client.Create(c.Request.Context(), NewTask{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		UserID:      user.ID,
	})
	if err != nil {
		h.upstreamError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "task created", "task": created})
}

func (h Handlers) Update(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}

	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	updated, err := h.Client.Update(c.Request.Context(), UpdateTask{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		h.upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "task updated", "task": updated})
}

func (h Handlers) Delete(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}

	deleted, err := h.Client.Delete(c.Request.Context(), id)
	if err != nil {
		h.upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "task deleted", "task": deleted})
}

func (h Handlers) upstreamError(c *gin.Context, err error) {
	if errors.Is(err, ErrNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}
	logger.FromGin(c).Error("taskd request failed", "err", err)
	c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": "task service unavailable"})
}

func taskID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return 0, false
	}
	return id, true
}
