package middleware

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"

	"taskbot/pkg/translator"
)

const langKey = "lang"

// LanguageMiddleware resolves the response language from Accept-Language.
// The first tag wins; a missing or unparsable header falls back to the
// bot's default language.
func LanguageMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := translator.DefaultLanguage()
		if tags, _, err := language.ParseAcceptLanguage(c.GetHeader("Accept-Language")); err == nil && len(tags) > 0 {
			base, _ := tags[0].Base()
			lang = base.String()
		}
		c.Set(langKey, lang)
		c.Next()
	}
}

func GetLang(c *gin.Context) string {
	if lang, exists := c.Get(langKey); exists {
		if s, ok := lang.(string); ok {
			return s
		}
	}
	return translator.DefaultLanguage()
}
