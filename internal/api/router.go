package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"ticketlogger/server/internal/i18n"
	"ticketlogger/server/internal/models"
	"ticketlogger/server/internal/services"
)

// RouterDeps: все, что нужно для сборки HTTP слоя
type RouterDeps struct {
	Messages      *i18n.Messages
	Flash         FlashStore
	Logger        *log.Logger
	SecureCookies bool
	// UploadDir раздается по /uploads, пусто: файлы хранятся не локально
	UploadDir string

	Auth         *services.AuthService
	Regions      *services.RegionService
	Provinces    *services.ProvinceService
	Supermarkets *services.SupermarketService
	Locations    *services.LocationService
	Categories   *services.CategoryService
	Dashboard    *services.DashboardService
	Hub          *Hub
}

// NewRouter собирает gin.Engine со всеми маршрутами
func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// Health check endpoint (до CORS и авторизации)
	r.GET("/api/v1/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "Ticket Logger",
			"version": "1.0.0",
		})
	})

	r.Use(RequestLogger(deps.Logger))
	r.Use(CORS())
	r.Use(Localize(deps.Messages))
	r.Use(Authenticate(deps.Auth))

	if deps.UploadDir != "" {
		r.Static("/uploads", deps.UploadDir)
	}

	base := NewBaseController(deps.Messages, deps.Flash, deps.Logger, deps.SecureCookies)

	home := NewHomeController(base)
	auth := NewAuthController(base, deps.Auth)
	r.GET("/", home.Index)
	r.GET("/hello", home.Hello)
	r.GET("/login", auth.LoginForm)
	r.POST("/login", auth.Login)
	r.POST("/logout", auth.Logout)
	r.GET("/me", RequireRoles(), home.Me)

	manager := r.Group("/", RequireRoles(models.RoleManager))
	registerCRUD(manager.Group("/regions"), NewRegionController(base, deps.Regions))
	registerCRUD(manager.Group("/provinces"), NewProvinceController(base, deps.Provinces))
	registerCRUD(manager.Group("/supermarkets"), NewSupermarketController(base, deps.Supermarkets))
	registerCRUD(manager.Group("/locations"), NewLocationController(base, deps.Locations))
	categories := NewCategoryController(base, deps.Categories)
	categoryGroup := manager.Group("/categories")
	registerCRUD(categoryGroup, categories)
	categoryGroup.GET("/tree", categories.Tree)

	admin := r.Group("/admin", RequireRoles(models.RoleAdmin))
	{
		adminController := NewAdminController(base, deps.Dashboard, deps.Hub)
		admin.GET("", adminController.Dashboard)
		admin.GET("/export", adminController.Export)
		admin.POST("/import/supermarkets", adminController.ImportSupermarkets)
		if deps.Hub != nil {
			admin.GET("/ws", NewWSController(deps.Hub, deps.Logger).ServeWS)
		}
	}

	// Остальное требует входа: аноним уходит на /login, авторизованный получает 404
	r.NoRoute(RequireRoles(), func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"view": "error", "error": "not found"})
	})

	return r
}

type crudController interface {
	List(c *gin.Context)
	NewForm(c *gin.Context)
	EditForm(c *gin.Context)
	Insert(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

func registerCRUD(g *gin.RouterGroup, ctrl crudController) {
	g.GET("", ctrl.List)
	g.GET("/new", ctrl.NewForm)
	g.GET("/edit", ctrl.EditForm)
	g.POST("/insert", ctrl.Insert)
	g.POST("/update", ctrl.Update)
	g.POST("/delete", ctrl.Delete)
}
