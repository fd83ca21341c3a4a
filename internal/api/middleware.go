package api

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"ticketlogger/server/internal/i18n"
	"ticketlogger/server/internal/models"
	"ticketlogger/server/internal/utils"
)

const (
	ctxUserID   = "userId"
	ctxUsername = "username"
	ctxRole     = "role"
	ctxLocale   = "locale"
	tokenCookie = "token"
)

// RequestLogger логирует все запросы
func RequestLogger(logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		logger.Printf("🌐 %s %s - Status: %d - Latency: %v", method, path, status, latency)
	}
}

// CORS для фронтенда
func CORS() gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	cfg.AllowAllOrigins = true
	cfg.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "Accept-Language"}
	return cors.New(cfg)
}

// Localize выбирает локаль: ?lang=, затем Accept-Language
func Localize(messages *i18n.Messages) gin.HandlerFunc {
	return func(c *gin.Context) {
		locale := c.Query("lang")
		if !messages.Supports(locale) {
			locale = messages.FromRequest(c.GetHeader("Accept-Language"))
		}
		c.Set(ctxLocale, locale)
		c.Next()
	}
}

func localeOf(c *gin.Context, messages *i18n.Messages) string {
	if locale := c.GetString(ctxLocale); locale != "" {
		return locale
	}
	return messages.DefaultLocale()
}

// TokenParser: проверка JWT (реализуется AuthService)
type TokenParser interface {
	Authenticate(token string) (*utils.Claims, error)
}

// Authenticate кладет пользователя в контекст, если токен валиден.
// Анонимный запрос идет дальше без роли.
func Authenticate(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ""
		if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
			token = strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		} else if cookie, err := c.Cookie(tokenCookie); err == nil {
			token = cookie
		}
		if token != "" {
			if claims, err := parser.Authenticate(token); err == nil {
				c.Set(ctxUserID, claims.UserID)
				c.Set(ctxUsername, claims.Username)
				c.Set(ctxRole, models.Role(claims.Role))
			}
		}
		c.Next()
	}
}

// RequireRoles пропускает пользователя с одной из ролей.
// Без ролей в списке достаточно быть авторизованным.
// Аноним получает 302 на /login, чужая роль 403.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, ok := c.Get(ctxRole)
		if !ok {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		if len(roles) == 0 {
			c.Next()
			return
		}
		role, _ := value.(models.Role)
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"view":  "error",
			"error": "access denied",
		})
	}
}
