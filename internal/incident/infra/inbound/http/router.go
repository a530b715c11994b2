package http

import "github.com/gin-gonic/gin"

func RegisterIncidentRoutes(r *gin.Engine, handler *IncidentHandler) {
	history := r.Group("/history")
	{
		history.GET("/incident", handler.ListIncidents)
		history.GET("/incident/count", handler.CountIncidents)
	}
}
