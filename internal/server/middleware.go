package server

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/atulbhartiproff/ai-video-summariser/internal/logger"
)

// CORS allows all origins. The service sits behind whatever frontend the
// operator deploys, so origin restrictions are left to the edge.
func CORS() gin.HandlerFunc {
	config := cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Content-Type", "X-Requested-With"},
	}
	return cors.New(config)
}

func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		log.Info(c.Request.Context(), "%s %s %d %s",
			c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
