package httpx

import (
	"github.com/gin-gonic/gin"
)

const secretHeader = "X-Telegram-Bot-Api-Secret-Token"

// BuildRouter wires the webhook endpoint and the health check. When secret
// is non-empty, webhook requests must carry the matching secret-token header
// Telegram sets for webhooks registered with a secret.
func BuildRouter(wh *WebhookHandler, secret string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	r.POST("/telegram/webhook", requireSecret(secret), wh.Handle)

	return r
}

func requireSecret(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret != "" && c.GetHeader(secretHeader) != secret {
			c.AbortWithStatusJSON(403, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}
