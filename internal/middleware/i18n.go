// internal/middleware/i18n.go
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/fragrance-catalog/internal/i18n"
	"github.com/javajoker/fragrance-catalog/internal/utils"
)

func I18nMiddleware(defaultLang string) gin.HandlerFunc {
	if defaultLang == "" {
		defaultLang = "en"
	}

	return func(c *gin.Context) {
		lang := negotiateLanguage(c.GetHeader("Accept-Language"), i18n.GetSupportedLanguages(), defaultLang)
		c.Set(utils.ContextLang, lang)
		c.Next()
	}
}

// negotiateLanguage picks the first listed language with a loaded catalogue.
// Handles headers like "fr-CA,fr;q=0.9,en;q=0.8"; q weights are ignored in
// favour of listing order.
func negotiateLanguage(header string, supported []string, fallback string) string {
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.Split(part, ";")[0])
		base := strings.ToLower(strings.SplitN(strings.ReplaceAll(tag, "_", "-"), "-", 2)[0])
		for _, lang := range supported {
			if base != "" && base == lang {
				return lang
			}
		}
	}
	return fallback
}
