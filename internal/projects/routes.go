package projects

import "github.com/gin-gonic/gin"

// RegisterRoutes registers project routes
func RegisterRoutes(r *gin.Engine, handler *Handler) {
	r.POST("/generate-milestones", handler.GenerateMilestones)
	r.POST("/create-project", handler.CreateProject)
	r.GET("/projects/:id/milestones", handler.ListMilestones)
}
