package contractors

import "github.com/gin-gonic/gin"

// RegisterRoutes registers contractor routes
func RegisterRoutes(r *gin.Engine, handler *Handler) {
	r.POST("/register", handler.Register)
	r.POST("/login", handler.Login)
}
