// internal/middleware/store.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/fragrance-catalog/internal/database"
	"github.com/javajoker/fragrance-catalog/internal/i18n"
	"github.com/javajoker/fragrance-catalog/internal/utils"
)

// RequireStore answers 503 while the store handle is degraded.
func RequireStore(store *database.Handle) gin.HandlerFunc {
	return func(c *gin.Context) {
		if store.Degraded() {
			utils.AbortWithError(c, http.StatusServiceUnavailable, "STORE_UNAVAILABLE",
				i18n.T(utils.GetLangFromContext(c), i18n.KeyStoreUnavailable))
			return
		}
		c.Next()
	}
}
