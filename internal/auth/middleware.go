package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// WalletKey is the context key under which the caller identity is stored.
const WalletKey = "wallet_address"

// RequireAuth gates a route group on a valid bearer token and stashes the
// resolved wallet address in the request context.
func RequireAuth(tokens *TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		wallet, err := tokens.Parse(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(WalletKey, wallet)
		c.Next()
	}
}

// CallerWallet returns the authenticated wallet address for the request.
func CallerWallet(c *gin.Context) string {
	return c.GetString(WalletKey)
}
