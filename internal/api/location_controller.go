package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"ticketlogger/server/internal/models"
	"ticketlogger/server/internal/services"
)

// LocationController: CRUD адресов, в формах нужны провинции и супермаркеты
type LocationController struct {
	BaseController
	service *services.LocationService
	routes  entityRoutes
}

func NewLocationController(base BaseController, service *services.LocationService) *LocationController {
	return &LocationController{
		BaseController: base,
		service:        service,
		routes: entityRoutes{
			entity:        "location",
			list:          "/locations",
			invalidRefKey: "msg.location-controller.invalidReference",
		},
	}
}

type LocationForm struct {
	ID            uint   `form:"id"`
	Address       string `form:"address" binding:"required,max=255"`
	City          string `form:"city" binding:"required,max=100"`
	SupermarketID uint   `form:"supermarketId" binding:"required"`
	ProvinceID    uint   `form:"provinceId" binding:"required"`
}

func (f *LocationForm) trim() {
	f.Address = strings.TrimSpace(f.Address)
	f.City = strings.TrimSpace(f.City)
}

func (f *LocationForm) model() *models.Location {
	return &models.Location{
		ID:            f.ID,
		Address:       f.Address,
		City:          f.City,
		SupermarketID: f.SupermarketID,
		ProvinceID:    f.ProvinceID,
	}
}

func (lc *LocationController) List(c *gin.Context) {
	locations, err := lc.service.List(c.Request.Context())
	if err != nil {
		lc.serverError(c, "Ошибка получения локаций", err)
		return
	}
	lc.render(c, http.StatusOK, "location", gin.H{"listLocations": locations})
}

func (lc *LocationController) NewForm(c *gin.Context) {
	lc.renderForm(c, http.StatusOK, &models.Location{}, nil)
}

func (lc *LocationController) EditForm(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		lc.redirectError(c, lc.routes.list, lc.routes.key("notFound"))
		return
	}
	location, err := lc.service.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			lc.redirectError(c, lc.routes.list, lc.routes.key("notFound"))
			return
		}
		lc.serverError(c, "Ошибка получения локации", err)
		return
	}
	lc.renderForm(c, http.StatusOK, location, nil)
}

func (lc *LocationController) Insert(c *gin.Context) {
	var form LocationForm
	if err := bindForm(c, &form); err != nil {
		lc.renderForm(c, http.StatusBadRequest, form.model(), lc.validationErrors(c, "location", err))
		return
	}
	location := form.model()
	location.ID = 0
	if err := lc.service.Create(c.Request.Context(), location); err != nil {
		lc.writeFailed(c, err, lc.routes, lc.routes.newForm())
		return
	}
	lc.redirectSuccess(c, lc.routes.list, lc.routes.key("insert.success"))
}

func (lc *LocationController) Update(c *gin.Context) {
	var form LocationForm
	if err := bindForm(c, &form); err != nil {
		lc.renderForm(c, http.StatusBadRequest, form.model(), lc.validationErrors(c, "location", err))
		return
	}
	if form.ID == 0 {
		lc.redirectError(c, lc.routes.list, lc.routes.key("notFound"))
		return
	}
	if err := lc.service.Update(c.Request.Context(), form.model()); err != nil {
		lc.writeFailed(c, err, lc.routes, lc.routes.editForm(form.ID))
		return
	}
	lc.redirectSuccess(c, lc.routes.list, lc.routes.key("update.success"))
}

func (lc *LocationController) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		lc.redirectError(c, lc.routes.list, lc.routes.key("notFound"))
		return
	}
	if err := lc.service.Delete(c.Request.Context(), id); err != nil {
		lc.writeFailed(c, err, lc.routes, lc.routes.list)
		return
	}
	lc.redirectSuccess(c, lc.routes.list, lc.routes.key("delete.success"))
}

func (lc *LocationController) renderForm(c *gin.Context, status int, location *models.Location, errs gin.H) {
	data, err := lc.service.FormData(c.Request.Context())
	if err != nil {
		lc.serverError(c, "Ошибка получения справочников для формы локации", err)
		return
	}
	model := gin.H{
		"location":         location,
		"listProvinces":    data.Provinces,
		"listSupermarkets": data.Supermarkets,
	}
	if errs != nil {
		model["errors"] = errs
	}
	lc.render(c, status, "location-form", model)
}
