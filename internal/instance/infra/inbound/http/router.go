package http

import "github.com/gin-gonic/gin"

func RegisterInstanceRoutes(r *gin.Engine, handler *InstanceHandler) {
	instances := r.Group("/process-instance")
	{
		instances.GET("", handler.ListInstances)
		instances.GET("/count", handler.CountInstances)
	}
}
