package verification

import "github.com/gin-gonic/gin"

// RegisterRoutes registers verification routes behind the auth middleware
func RegisterRoutes(r *gin.Engine, handler *Handler, requireAuth gin.HandlerFunc) {
	guarded := r.Group("/", requireAuth)
	{
		guarded.POST("/verify-milestone", handler.VerifyMilestone)
		guarded.POST("/milestones/:id/retry-settlement", handler.RetrySettlement)
		guarded.POST("/evidence-upload-url", handler.EvidenceUploadURL)
	}
}
