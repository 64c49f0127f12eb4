package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"academos/internal/shared/logger"
	"academos/internal/shared/utils"
)

// Recovery converts panics into JSON 500 responses and logs the stack
func Recovery(log logger.Interface) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Errorw("panic recovered while handling request",
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
			"panic", recovered,
		)
		utils.ErrorResponse(c, http.StatusInternalServerError, "internal server error")
		c.Abort()
	})
}
