package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/sachinsingh018/networkqy/utils"
)

// WebSocketAuthMiddleware authenticates the upgrade request via a query
// token, since browsers cannot set headers on a WebSocket handshake.
func WebSocketAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.AbortWithStatus(401)
			return
		}

		claims, err := utils.ParseToken(token)
		if err != nil {
			c.AbortWithStatus(401)
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)
		c.Next()
	}
}
