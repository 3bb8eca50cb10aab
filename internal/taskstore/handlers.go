package taskstore

import (
	"errors"
	"net/http"
	"strconv"

	"taskgate/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Handlers exposes the CRUD surface the gateway proxies to.

type Handlers struct {
	Repo Repository
}

type createRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Status      string `json:"status"`
	UserID      *int64 `json:"user_id"`
}

type updateRequest struct {
	ID          int64  `json:"id" binding:"required"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

func (h Handlers) List(c *gin.Context) {
	list, err := h.Repo.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		h.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": list})
}

func (h Handlers) Create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}
	if req.Status == "" {
		req.Status = "new"
	}

	created, err := h.Repo.Create(c.Request.Context(), Task{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		UserID:      req.UserID,
	})
	if err != nil {
		h.storeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h Handlers) Update(c *gin.Context) {
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "id is required"})
		return
	}

	updated, err := h.Repo.Update(c.Request.Context(), Task{
		ID:          req.ID,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		h.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h Handlers) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}

	deleted, err := h.Repo.Delete(c.Request.Context(), id)
	if err != nil {
		h.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, deleted)
}

func (h Handlers) storeError(c *gin.Context, err error) {
	if errors.Is(err, ErrNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}
	logger.FromGin(c).Error("task store failed", "err", err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

// Register wires the CRUD routes onto a router.
func Register(r *gin.Engine, h Handlers) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/tasks", h.List)
	r.POST("/tasks", h.Create)
	r.PUT("/tasks", h.Update)
	r.DELETE("/tasks/:id", h.Delete)
}
