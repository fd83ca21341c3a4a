package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"ticketlogger/server/internal/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AdminController: панель администратора: сводка, выгрузка и загрузка XLSX
type AdminController struct {
	BaseController
	dashboard *services.DashboardService
	hub       *Hub
}

func NewAdminController(base BaseController, dashboard *services.DashboardService, hub *Hub) *AdminController {
	return &AdminController{BaseController: base, dashboard: dashboard, hub: hub}
}

// Dashboard GET /admin
func (ac *AdminController) Dashboard(c *gin.Context) {
	counts, err := ac.dashboard.Counts(c.Request.Context())
	if err != nil {
		ac.serverError(c, "Ошибка получения сводки", err)
		return
	}
	liveClients := 0
	if ac.hub != nil {
		liveClients = ac.hub.GetClientsCount()
	}
	ac.render(c, http.StatusOK, "admin", gin.H{
		"counts":      counts,
		"liveClients": liveClients,
	})
}

// Export GET /admin/export
func (ac *AdminController) Export(c *gin.Context) {
	data, err := ac.dashboard.ExportXLSX(c.Request.Context())
	if err != nil {
		ac.serverError(c, "Ошибка экспорта", err)
		return
	}
	filename := fmt.Sprintf("catalog-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}

// ImportSupermarkets POST /admin/import/supermarkets (multipart, поле file)
func (ac *AdminController) ImportSupermarkets(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"view":  "admin",
			"error": "file is required",
		})
		return
	}
	file, err := header.Open()
	if err != nil {
		ac.serverError(c, "Ошибка чтения файла импорта", err)
		return
	}
	defer file.Close()

	result, err := ac.dashboard.ImportSupermarketsXLSX(c.Request.Context(), file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"view":  "admin",
			"error": err.Error(),
		})
		return
	}
	ac.render(c, http.StatusOK, "admin-import", gin.H{"result": result})
}
