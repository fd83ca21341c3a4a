package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"ticketlogger/server/internal/models"
	"ticketlogger/server/internal/services"
)

// RegionController: CRUD регионов
type RegionController struct {
	BaseController
	service *services.RegionService
	routes  entityRoutes
}

func NewRegionController(base BaseController, service *services.RegionService) *RegionController {
	return &RegionController{
		BaseController: base,
		service:        service,
		routes:         entityRoutes{entity: "region", list: "/regions"},
	}
}

// RegionForm: поля формы региона
type RegionForm struct {
	ID   uint   `form:"id"`
	Code string `form:"code" binding:"required,max=3"`
	Name string `form:"name" binding:"required,max=100"`
}

func (f *RegionForm) trim() {
	f.Code = strings.TrimSpace(f.Code)
	f.Name = strings.TrimSpace(f.Name)
}

func (f *RegionForm) model() *models.Region {
	return &models.Region{ID: f.ID, Code: f.Code, Name: f.Name}
}

// List GET /regions
func (rc *RegionController) List(c *gin.Context) {
	regions, err := rc.service.List(c.Request.Context())
	if err != nil {
		rc.serverError(c, "Ошибка получения регионов", err)
		return
	}
	rc.render(c, http.StatusOK, "region", gin.H{"listRegions": regions})
}

// NewForm GET /regions/new
func (rc *RegionController) NewForm(c *gin.Context) {
	rc.render(c, http.StatusOK, "region-form", gin.H{"region": models.Region{}})
}

// EditForm GET /regions/edit?id=
func (rc *RegionController) EditForm(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		rc.redirectError(c, rc.routes.list, rc.routes.key("notFound"))
		return
	}
	region, err := rc.service.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			rc.redirectError(c, rc.routes.list, rc.routes.key("notFound"))
			return
		}
		rc.serverError(c, "Ошибка получения региона", err)
		return
	}
	rc.render(c, http.StatusOK, "region-form", gin.H{"region": region})
}

// Insert POST /regions/insert
func (rc *RegionController) Insert(c *gin.Context) {
	var form RegionForm
	if err := bindForm(c, &form); err != nil {
		rc.render(c, http.StatusBadRequest, "region-form", gin.H{
			"region": form.model(),
			"errors": rc.validationErrors(c, "region", err),
		})
		return
	}
	region := form.model()
	region.ID = 0
	if err := rc.service.Create(c.Request.Context(), region); err != nil {
		rc.writeFailed(c, err, rc.routes, rc.routes.newForm())
		return
	}
	rc.redirectSuccess(c, rc.routes.list, rc.routes.key("insert.success"))
}

// Update POST /regions/update
func (rc *RegionController) Update(c *gin.Context) {
	var form RegionForm
	if err := bindForm(c, &form); err != nil {
		rc.render(c, http.StatusBadRequest, "region-form", gin.H{
			"region": form.model(),
			"errors": rc.validationErrors(c, "region", err),
		})
		return
	}
	if form.ID == 0 {
		rc.redirectError(c, rc.routes.list, rc.routes.key("notFound"))
		return
	}
	if err := rc.service.Update(c.Request.Context(), form.model()); err != nil {
		rc.writeFailed(c, err, rc.routes, rc.routes.editForm(form.ID))
		return
	}
	rc.redirectSuccess(c, rc.routes.list, rc.routes.key("update.success"))
}

// Delete POST /regions/delete?id=
func (rc *RegionController) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		rc.redirectError(c, rc.routes.list, rc.routes.key("notFound"))
		return
	}
	if err := rc.service.Delete(c.Request.Context(), id); err != nil {
		rc.writeFailed(c, err, rc.routes, rc.routes.list)
		return
	}
	rc.redirectSuccess(c, rc.routes.list, rc.routes.key("delete.success"))
}
