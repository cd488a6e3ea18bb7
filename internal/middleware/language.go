package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/training-crm-api/internal/locale"
)

const contextLanguageKey = "language"

type languageSource interface {
	StoredLanguage(ctx context.Context) string
	DefaultLanguage() string
}

// Language resolves the response language once: ?lang, Accept-Language, stored preference, default.
func Language(source languageSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		var stored, fallback string
		if source != nil {
			stored = source.StoredLanguage(c.Request.Context())
			fallback = source.DefaultLanguage()
		}
		lang := locale.Resolve(c.Query("lang"), c.GetHeader("Accept-Language"), stored, fallback)
		c.Set(contextLanguageKey, lang)
		c.Header("Content-Language", string(lang))
		c.Next()
	}
}

// LanguageFrom returns the language chosen by Language, or the Kyrgyz default.
func LanguageFrom(c *gin.Context) locale.Language {
	if value, ok := c.Get(contextLanguageKey); ok {
		if lang, ok := value.(locale.Language); ok {
			return lang
		}
	}
	return locale.Kyrgyz
}
