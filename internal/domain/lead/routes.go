package lead

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the lead endpoints
func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	leads := r.Group("/leads")
	{
		leads.GET("", handler.List)
		leads.POST("", handler.Create)
		leads.GET("/export", handler.Export)
		leads.POST("/import", handler.Import)
		leads.GET("/:id", handler.Get)
		leads.PUT("/:id", handler.Update)
		leads.DELETE("/:id", handler.Delete)
		leads.GET("/:id/summaries/export", handler.ExportSummaries)
	}
}
