package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"ticketlogger/server/internal/models"
	"ticketlogger/server/internal/services"
)

// SupermarketController: CRUD сетей супермаркетов
type SupermarketController struct {
	BaseController
	service *services.SupermarketService
	routes  entityRoutes
}

func NewSupermarketController(base BaseController, service *services.SupermarketService) *SupermarketController {
	return &SupermarketController{
		BaseController: base,
		service:        service,
		routes:         entityRoutes{entity: "supermarket", list: "/supermarkets"},
	}
}

type SupermarketForm struct {
	ID   uint   `form:"id"`
	Name string `form:"name" binding:"required,max=100"`
}

func (f *SupermarketForm) trim() {
	f.Name = strings.TrimSpace(f.Name)
}

func (f *SupermarketForm) model() *models.Supermarket {
	return &models.Supermarket{ID: f.ID, Name: f.Name}
}

func (sc *SupermarketController) List(c *gin.Context) {
	supermarkets, err := sc.service.List(c.Request.Context())
	if err != nil {
		sc.serverError(c, "Ошибка получения супермаркетов", err)
		return
	}
	sc.render(c, http.StatusOK, "supermarket", gin.H{"listSupermarkets": supermarkets})
}

func (sc *SupermarketController) NewForm(c *gin.Context) {
	sc.render(c, http.StatusOK, "supermarket-form", gin.H{"supermarket": models.Supermarket{}})
}

func (sc *SupermarketController) EditForm(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		sc.redirectError(c, sc.routes.list, sc.routes.key("notFound"))
		return
	}
	supermarket, err := sc.service.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			sc.redirectError(c, sc.routes.list, sc.routes.key("notFound"))
			return
		}
		sc.serverError(c, "Ошибка получения супермаркета", err)
		return
	}
	sc.render(c, http.StatusOK, "supermarket-form", gin.H{"supermarket": supermarket})
}

func (sc *SupermarketController) Insert(c *gin.Context) {
	var form SupermarketForm
	if err := bindForm(c, &form); err != nil {
		sc.render(c, http.StatusBadRequest, "supermarket-form", gin.H{
			"supermarket": form.model(),
			"errors":      sc.validationErrors(c, "supermarket", err),
		})
		return
	}
	supermarket := form.model()
	supermarket.ID = 0
	if err := sc.service.Create(c.Request.Context(), supermarket); err != nil {
		sc.writeFailed(c, err, sc.routes, sc.routes.newForm())
		return
	}
	sc.redirectSuccess(c, sc.routes.list, sc.routes.key("insert.success"))
}

func (sc *SupermarketController) Update(c *gin.Context) {
	var form SupermarketForm
	if err := bindForm(c, &form); err != nil {
		sc.render(c, http.StatusBadRequest, "supermarket-form", gin.H{
			"supermarket": form.model(),
			"errors":      sc.validationErrors(c, "supermarket", err),
		})
		return
	}
	if form.ID == 0 {
		sc.redirectError(c, sc.routes.list, sc.routes.key("notFound"))
		return
	}
	if err := sc.service.Update(c.Request.Context(), form.model()); err != nil {
		sc.writeFailed(c, err, sc.routes, sc.routes.editForm(form.ID))
		return
	}
	sc.redirectSuccess(c, sc.routes.list, sc.routes.key("update.success"))
}

// Delete POST /supermarkets/delete?id=; супермаркет с локациями не удаляется
func (sc *SupermarketController) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		sc.redirectError(c, sc.routes.list, sc.routes.key("notFound"))
		return
	}
	if err := sc.service.Delete(c.Request.Context(), id); err != nil {
		sc.writeFailed(c, err, sc.routes, sc.routes.list)
		return
	}
	sc.redirectSuccess(c, sc.routes.list, sc.routes.key("delete.success"))
}
