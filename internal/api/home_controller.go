package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HomeController: публичные страницы и профиль
type HomeController struct {
	BaseController
}

func NewHomeController(base BaseController) *HomeController {
	return &HomeController{BaseController: base}
}

// Index GET /
func (hc *HomeController) Index(c *gin.Context) {
	hc.render(c, http.StatusOK, "index", gin.H{"username": c.GetString(ctxUsername)})
}

// Hello GET /hello
func (hc *HomeController) Hello(c *gin.Context) {
	hc.render(c, http.StatusOK, "hello", gin.H{"username": c.GetString(ctxUsername)})
}

// Me GET /me: любой авторизованный пользователь
func (hc *HomeController) Me(c *gin.Context) {
	role, _ := c.Get(ctxRole)
	hc.render(c, http.StatusOK, "me", gin.H{
		"userId":   c.GetUint(ctxUserID),
		"username": c.GetString(ctxUsername),
		"role":     role,
	})
}
