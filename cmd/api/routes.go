package main

import (
	"taskgate/internal/httpapi"
	"taskgate/internal/tasks"

	"github.com/gin-gonic/gin"
)

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic.
func registerRoutes(r *gin.Engine, authH httpapi.Handlers, taskH tasks.Handlers, authMW gin.HandlerFunc) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", authH.Register)
		authGroup.POST("/login", authH.Login)
		authGroup.POST("/refresh", authH.RefreshToken)
	}

	taskGroup := r.Group("/tasks")
	taskGroup.Use(authMW)
	{
		taskGroup.GET("", taskH.List)
		taskGroup.POST("", taskH.Create)
		taskGroup.PUT("/:id", taskH.Update)
		taskGroup.DELETE("/:id", taskH.Delete)
	}
}
