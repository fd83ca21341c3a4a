package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ticketlogger/server/internal/services"
)

// AuthController: вход и выход через форму, токен хранится в cookie
type AuthController struct {
	BaseController
	auth *services.AuthService
}

func NewAuthController(base BaseController, auth *services.AuthService) *AuthController {
	return &AuthController{BaseController: base, auth: auth}
}

type LoginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// LoginForm GET /login
func (ac *AuthController) LoginForm(c *gin.Context) {
	ac.render(c, http.StatusOK, "login", gin.H{})
}

// Login POST /login
func (ac *AuthController) Login(c *gin.Context) {
	var form LoginForm
	if err := c.ShouldBind(&form); err != nil {
		ac.redirectError(c, "/login", "msg.login.invalid")
		return
	}

	token, user, err := ac.auth.Login(c.Request.Context(), form.Username, form.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			ac.redirectError(c, "/login", "msg.login.invalid")
			return
		}
		ac.serverError(c, "Ошибка входа", err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(tokenCookie, token, int(ac.auth.TTL().Seconds()), "/", "", ac.secure, true)
	ac.logger.Printf("🔐 Пользователь %s вошел (%s)", user.Username, user.Role)
	c.Redirect(http.StatusFound, "/")
}

// Logout POST /logout
func (ac *AuthController) Logout(c *gin.Context) {
	c.SetCookie(tokenCookie, "", -1, "/", "", ac.secure, true)
	ac.redirectSuccess(c, "/login", "msg.login.logout")
}
