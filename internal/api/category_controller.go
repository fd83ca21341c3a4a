package api

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"ticketlogger/server/internal/models"
	"ticketlogger/server/internal/services"
)

// CategoryController: CRUD категорий с загрузкой изображения (imageFile)
type CategoryController struct {
	BaseController
	service *services.CategoryService
	routes  entityRoutes
}

func NewCategoryController(base BaseController, service *services.CategoryService) *CategoryController {
	return &CategoryController{
		BaseController: base,
		service:        service,
		routes: entityRoutes{
			entity:        "category",
			list:          "/categories",
			invalidRefKey: "msg.category-controller.invalidParent",
		},
	}
}

// CategoryForm: parentId = 0 или пусто: категория верхнего уровня
type CategoryForm struct {
	ID       uint   `form:"id"`
	Name     string `form:"name" binding:"required,max=255"`
	ParentID uint   `form:"parentId"`
}

func (f *CategoryForm) trim() {
	f.Name = strings.TrimSpace(f.Name)
}

func (f *CategoryForm) model() *models.Category {
	category := &models.Category{ID: f.ID, Name: f.Name}
	if f.ParentID != 0 {
		parent := f.ParentID
		category.ParentID = &parent
	}
	return category
}

func (cc *CategoryController) List(c *gin.Context) {
	categories, err := cc.service.List(c.Request.Context())
	if err != nil {
		cc.serverError(c, "Ошибка получения категорий", err)
		return
	}
	cc.render(c, http.StatusOK, "category", gin.H{"listCategories": categories})
}

// Tree GET /categories/tree
func (cc *CategoryController) Tree(c *gin.Context) {
	tree, err := cc.service.Tree(c.Request.Context())
	if err != nil {
		cc.serverError(c, "Ошибка построения дерева категорий", err)
		return
	}
	cc.render(c, http.StatusOK, "category-tree", gin.H{"tree": tree})
}

func (cc *CategoryController) NewForm(c *gin.Context) {
	cc.renderForm(c, http.StatusOK, &models.Category{}, nil)
}

func (cc *CategoryController) EditForm(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		cc.redirectError(c, cc.routes.list, cc.routes.key("notFound"))
		return
	}
	category, err := cc.service.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			cc.redirectError(c, cc.routes.list, cc.routes.key("notFound"))
			return
		}
		cc.serverError(c, "Ошибка получения категории", err)
		return
	}
	cc.renderForm(c, http.StatusOK, category, nil)
}

func (cc *CategoryController) Insert(c *gin.Context) {
	var form CategoryForm
	if err := bindForm(c, &form); err != nil {
		cc.renderForm(c, http.StatusBadRequest, form.model(), cc.validationErrors(c, "category", err))
		return
	}
	category := form.model()
	category.ID = 0
	if err := cc.service.Create(c.Request.Context(), category, imageFile(c)); err != nil {
		cc.writeFailed(c, err, cc.routes, cc.routes.newForm())
		return
	}
	cc.redirectSuccess(c, cc.routes.list, cc.routes.key("insert.success"))
}

func (cc *CategoryController) Update(c *gin.Context) {
	var form CategoryForm
	if err := bindForm(c, &form); err != nil {
		cc.renderForm(c, http.StatusBadRequest, form.model(), cc.validationErrors(c, "category", err))
		return
	}
	if form.ID == 0 {
		cc.redirectError(c, cc.routes.list, cc.routes.key("notFound"))
		return
	}
	if err := cc.service.Update(c.Request.Context(), form.model(), imageFile(c)); err != nil {
		cc.writeFailed(c, err, cc.routes, cc.routes.editForm(form.ID))
		return
	}
	cc.redirectSuccess(c, cc.routes.list, cc.routes.key("update.success"))
}

// Delete POST /categories/delete?id=: удаляет и файл изображения
func (cc *CategoryController) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		cc.redirectError(c, cc.routes.list, cc.routes.key("notFound"))
		return
	}
	if err := cc.service.Delete(c.Request.Context(), id); err != nil {
		cc.writeFailed(c, err, cc.routes, cc.routes.list)
		return
	}
	cc.redirectSuccess(c, cc.routes.list, cc.routes.key("delete.success"))
}

func (cc *CategoryController) renderForm(c *gin.Context, status int, category *models.Category, errs gin.H) {
	categories, err := cc.service.List(c.Request.Context())
	if err != nil {
		cc.serverError(c, "Ошибка получения категорий", err)
		return
	}
	model := gin.H{"category": category, "listCategories": categories}
	if errs != nil {
		model["errors"] = errs
	}
	cc.render(c, status, "category-form", model)
}

// imageFile: необязательная часть imageFile; пустой выбор файла игнорируется
func imageFile(c *gin.Context) *multipart.FileHeader {
	file, err := c.FormFile("imageFile")
	if err != nil || file == nil || file.Filename == "" {
		return nil
	}
	return file
}
