package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"ticketlogger/server/internal/models"
	"ticketlogger/server/internal/services"
)

// ProvinceController: CRUD провинций, в формах нужен список регионов
type ProvinceController struct {
	BaseController
	service *services.ProvinceService
	routes  entityRoutes
}

func NewProvinceController(base BaseController, service *services.ProvinceService) *ProvinceController {
	return &ProvinceController{
		BaseController: base,
		service:        service,
		routes: entityRoutes{
			entity:        "province",
			list:          "/provinces",
			invalidRefKey: "msg.province-controller.invalidRegion",
		},
	}
}

type ProvinceForm struct {
	ID       uint   `form:"id"`
	Code     string `form:"code" binding:"required,max=3"`
	Name     string `form:"name" binding:"required,max=100"`
	RegionID uint   `form:"regionId" binding:"required"`
}

func (f *ProvinceForm) trim() {
	f.Code = strings.TrimSpace(f.Code)
	f.Name = strings.TrimSpace(f.Name)
}

func (f *ProvinceForm) model() *models.Province {
	return &models.Province{
		ID:       f.ID,
		Code:     f.Code,
		Name:     f.Name,
		RegionID: f.RegionID,
	}
}

func (pc *ProvinceController) List(c *gin.Context) {
	provinces, err := pc.service.List(c.Request.Context())
	if err != nil {
		pc.serverError(c, "Ошибка получения провинций", err)
		return
	}
	pc.render(c, http.StatusOK, "province", gin.H{"listProvinces": provinces})
}

func (pc *ProvinceController) NewForm(c *gin.Context) {
	pc.renderForm(c, http.StatusOK, &models.Province{}, nil)
}

func (pc *ProvinceController) EditForm(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		pc.redirectError(c, pc.routes.list, pc.routes.key("notFound"))
		return
	}
	province, err := pc.service.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			pc.redirectError(c, pc.routes.list, pc.routes.key("notFound"))
			return
		}
		pc.serverError(c, "Ошибка получения провинции", err)
		return
	}
	pc.renderForm(c, http.StatusOK, province, nil)
}

func (pc *ProvinceController) Insert(c *gin.Context) {
	var form ProvinceForm
	if err := bindForm(c, &form); err != nil {
		pc.renderForm(c, http.StatusBadRequest, form.model(), pc.validationErrors(c, "province", err))
		return
	}
	province := form.model()
	province.ID = 0
	if err := pc.service.Create(c.Request.Context(), province); err != nil {
		pc.writeFailed(c, err, pc.routes, pc.routes.newForm())
		return
	}
	pc.redirectSuccess(c, pc.routes.list, pc.routes.key("insert.success"))
}

func (pc *ProvinceController) Update(c *gin.Context) {
	var form ProvinceForm
	if err := bindForm(c, &form); err != nil {
		pc.renderForm(c, http.StatusBadRequest, form.model(), pc.validationErrors(c, "province", err))
		return
	}
	if form.ID == 0 {
		pc.redirectError(c, pc.routes.list, pc.routes.key("notFound"))
		return
	}
	if err := pc.service.Update(c.Request.Context(), form.model()); err != nil {
		pc.writeFailed(c, err, pc.routes, pc.routes.editForm(form.ID))
		return
	}
	pc.redirectSuccess(c, pc.routes.list, pc.routes.key("update.success"))
}

func (pc *ProvinceController) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		pc.redirectError(c, pc.routes.list, pc.routes.key("notFound"))
		return
	}
	if err := pc.service.Delete(c.Request.Context(), id); err != nil {
		pc.writeFailed(c, err, pc.routes, pc.routes.list)
		return
	}
	pc.redirectSuccess(c, pc.routes.list, pc.routes.key("delete.success"))
}

func (pc *ProvinceController) renderForm(c *gin.Context, status int, province *models.Province, errs gin.H) {
	regions, err := pc.service.FormData(c.Request.Context())
	if err != nil {
		pc.serverError(c, "Ошибка получения регионов", err)
		return
	}
	model := gin.H{"province": province, "listRegions": regions}
	if errs != nil {
		model["errors"] = errs
	}
	pc.render(c, status, "province-form", model)
}
