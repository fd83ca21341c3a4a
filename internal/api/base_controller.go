package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"ticketlogger/server/internal/i18n"
	"ticketlogger/server/internal/services"
)

// BaseController: общие части контроллеров справочников:
// модели представлений, флеш-сообщения, перевод ошибок сервисов в redirect.
type BaseController struct {
	messages *i18n.Messages
	flash    FlashStore
	logger   *log.Logger
	secure   bool
}

func NewBaseController(messages *i18n.Messages, flash FlashStore, logger *log.Logger, secureCookies bool) BaseController {
	return BaseController{messages: messages, flash: flash, logger: logger, secure: secureCookies}
}

// maxFormMemory: сколько multipart данных держать в памяти (как в gin)
const maxFormMemory = 32 << 20

// entityRoutes описывает пути и ключи сообщений одной сущности
type entityRoutes struct {
	entity        string // region, province ...
	list          string // /regions
	invalidRefKey string
}

func (r entityRoutes) key(suffix string) string {
	return fmt.Sprintf("msg.%s-controller.%s", r.entity, suffix)
}

func (r entityRoutes) newForm() string {
	return r.list + "/new"
}

func (r entityRoutes) editForm(id uint) string {
	return fmt.Sprintf("%s/edit?id=%d", r.list, id)
}

// t возвращает текст в локали запроса
func (b *BaseController) t(c *gin.Context, key string) string {
	return b.messages.Get(localeOf(c, b.messages), key)
}

// render отдает модель представления {"view": ..., ...} и добавляет флеш текущего запроса
func (b *BaseController) render(c *gin.Context, status int, view string, model gin.H) {
	body := gin.H{"view": view}
	for k, v := range model {
		body[k] = v
	}
	flash, err := popFlash(c, b.flash, b.secure)
	if err != nil {
		b.logger.Printf("⚠️ Не удалось прочитать флеш-сообщение: %v", err)
	}
	if flash != nil {
		if flash.SuccessMessage != "" {
			body["successMessage"] = flash.SuccessMessage
		}
		if flash.ErrorMessage != "" {
			body["errorMessage"] = flash.ErrorMessage
		}
	}
	c.JSON(status, body)
}

// redirectSuccess и redirectError: ответ 302 с флеш-сообщением по ключу
func (b *BaseController) redirectSuccess(c *gin.Context, location, key string) {
	b.redirect(c, location, Flash{SuccessMessage: b.t(c, key)})
}

func (b *BaseController) redirectError(c *gin.Context, location, key string) {
	b.redirect(c, location, Flash{ErrorMessage: b.t(c, key)})
}

func (b *BaseController) redirect(c *gin.Context, location string, flash Flash) {
	if err := pushFlash(c, b.flash, flash, b.secure); err != nil {
		b.logger.Printf("⚠️ Не удалось сохранить флеш-сообщение: %v", err)
	}
	c.Redirect(http.StatusFound, location)
}

// serverError: непредвиденная ошибка БД или хранилища
func (b *BaseController) serverError(c *gin.Context, action string, err error) {
	b.logger.Printf("❌ %s: %v", action, err)
	c.JSON(http.StatusInternalServerError, gin.H{
		"view":         "error",
		"errorMessage": b.t(c, "msg.error.generic"),
	})
}

// writeFailed переводит ошибку сервиса в redirect с флеш-сообщением.
// formPath: куда возвращать при конфликте и неверной ссылке.
func (b *BaseController) writeFailed(c *gin.Context, err error, routes entityRoutes, formPath string) {
	var conflict *services.ConflictError
	switch {
	case errors.As(err, &conflict):
		b.logger.Printf("⚠️ Конфликт %s: %v", routes.entity, err)
		b.redirectError(c, formPath, conflict.MessageKey)
	case errors.Is(err, services.ErrNotFound):
		b.redirectError(c, routes.list, routes.key("notFound"))
	case errors.Is(err, services.ErrInUse):
		b.logger.Printf("⚠️ Удаление %s отклонено: %v", routes.entity, err)
		b.redirectError(c, routes.list, routes.key("delete.inUse"))
	case errors.Is(err, services.ErrInvalidReference):
		b.redirectError(c, formPath, routes.invalidRefKey)
	case errors.Is(err, services.ErrCycle):
		b.redirectError(c, formPath, routes.key("cycle"))
	case errors.Is(err, services.ErrInvalidImage):
		b.redirectError(c, formPath, routes.key("invalidImage"))
	default:
		b.serverError(c, "Ошибка записи "+routes.entity, err)
	}
}

// catalogForm: форма справочника, которая обрезает пробелы в строковых полях
type catalogForm interface {
	trim()
}

// bindForm заполняет форму без проверки, обрезает пробелы и только потом валидирует,
// чтобы значение из одних пробелов не проходило required
func bindForm(c *gin.Context, form catalogForm) error {
	if err := c.Request.ParseMultipartForm(maxFormMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return err
	}
	if err := binding.MapFormWithTag(form, c.Request.Form, "form"); err != nil {
		return err
	}
	form.trim()
	return binding.Validator.ValidateStruct(form)
}

// validationErrors переводит ошибки binding в field -> текст.
// required на полях *ID дает notNull, на строках notEmpty; max дает size.
func (b *BaseController) validationErrors(c *gin.Context, entity string, err error) gin.H {
	result := gin.H{}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		result["form"] = err.Error()
		return result
	}
	for _, fe := range verrs {
		field := fe.Field()
		isRef := strings.HasSuffix(field, "ID") && field != "ID"
		name := strings.ToLower(strings.TrimSuffix(field, "ID"))
		if !isRef {
			name = strings.ToLower(field)
		}
		var suffix string
		switch fe.Tag() {
		case "required":
			suffix = "notEmpty"
			if isRef {
				suffix = "notNull"
			}
		case "max":
			suffix = "size"
		default:
			suffix = fe.Tag()
		}
		result[name] = b.t(c, fmt.Sprintf("msg.%s.%s.%s", entity, name, suffix))
	}
	return result
}

// parseID читает id из query, затем из тела формы
func parseID(c *gin.Context) (uint, bool) {
	raw := c.Query("id")
	if raw == "" {
		raw = c.PostForm("id")
	}
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
