package helper

import (
	"errors"
	"math"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"movie-catalog/logger"
	"movie-catalog/models"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"gopkg.in/go-playground/validator.v9"
	en_translations "gopkg.in/go-playground/validator.v9/translations/en"
)

const (
	RequestIDKey = "request_id"

	codeTypeSuccess      = `success`
	codeTypeBadRequest   = `badRequest`
	codeTypeValidation   = `validationError`
	codeTypeUnauthorized = `unAuthorized`
	codeTypeForbidden    = `forbidden`
	codeTypeNotFound     = `notFound`
	codeTypeConflict     = `conflict`
	codeTypeInternal     = `internalError`
)

// HTTPHelper ...
type HTTPHelper struct {
	Validate   *validator.Validate
	Translator ut.Translator
}

// NewHTTPHelper wires validator.v9 with English messages and the
// username/password rules shared with the services.
func NewHTTPHelper() *HTTPHelper {
	locale := en.New()
	uni := ut.New(locale, locale)
	trans, _ := uni.GetTranslator("en")

	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		logger.Warning("register validator translations failed:", err)
	}

	custom := []struct {
		tag     string
		message string
		fn      func(string) bool
	}{
		{"username", "{0} must be 3-20 characters of letters, digits or underscore", models.IsValidUsername},
		{"password", "{0} must be at least 8 characters with a digit, a lowercase and an uppercase letter", models.IsValidPassword},
	}
	for _, rule := range custom {
		rule := rule
		err := validate.RegisterValidation(rule.tag, func(fl validator.FieldLevel) bool {
			return rule.fn(fl.Field().String())
		})
		if err != nil {
			logger.Warning("register validation "+rule.tag+" failed:", err)
		}
		err = validate.RegisterTranslation(rule.tag, trans,
			func(t ut.Translator) error {
				return t.Add(rule.tag, rule.message, true)
			},
			func(t ut.Translator, fe validator.FieldError) string {
				msg, _ := t.T(rule.tag, fe.Field())
				return msg
			})
		if err != nil {
			logger.Warning("register translation "+rule.tag+" failed:", err)
		}
	}

	return &HTTPHelper{Validate: validate, Translator: trans}
}

// GetStatusCode ...
func (u *HTTPHelper) GetStatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var (
		notFound     models.ErrorNotFound
		invalid      models.ErrorInvalidArgument
		conflict     models.ErrorConflict
		forbidden    models.ErrorForbidden
		unauthorized models.ErrorUnauthorized
	)
	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &invalid):
		return http.StatusBadRequest
	case errors.As(err, &conflict):
		return http.StatusConflict
	case errors.As(err, &forbidden):
		return http.StatusForbidden
	case errors.As(err, &unauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func codeTypeFor(status int) string {
	switch status {
	case http.StatusBadRequest:
		return codeTypeBadRequest
	case http.StatusUnauthorized:
		return codeTypeUnauthorized
	case http.StatusForbidden:
		return codeTypeForbidden
	case http.StatusNotFound:
		return codeTypeNotFound
	case http.StatusConflict:
		return codeTypeConflict
	default:
		return codeTypeInternal
	}
}

// SendError ...
// Send error response to consumers.
func (u *HTTPHelper) SendError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"success":   false,
		"error":     message,
		"code_type": codeTypeFor(status),
	})
}

// SendErrorFromErr maps a service error to its status. Internal errors are
// logged with the request id and answered with a generic message.
func (u *HTTPHelper) SendErrorFromErr(c *gin.Context, err error) {
	status := u.GetStatusCode(err)
	if status == http.StatusInternalServerError {
		logger.Errorf("[%s] %s %s: %v", c.GetString(RequestIDKey), c.Request.Method, c.Request.URL.Path, err)
		u.SendError(c, status, "internal server error")
		return
	}
	u.SendError(c, status, err.Error())
}

// SendBadRequest ...
// Send bad request response to consumers.
func (u *HTTPHelper) SendBadRequest(c *gin.Context, message string) {
	u.SendError(c, http.StatusBadRequest, message)
}

// SendValidationError ...
// Send validation error response to consumers.
func (u *HTTPHelper) SendValidationError(c *gin.Context, validationErrors validator.ValidationErrors) {
	errorResponse := map[string][]string{}
	errorTranslation := validationErrors.Translate(u.Translator)
	messages := make([]string, 0, len(validationErrors))
	for _, err := range validationErrors {
		errKey := Underscore(err.StructField())
		msg := errorTranslation[err.Namespace()]
		errorResponse[errKey] = append(errorResponse[errKey], msg)
		messages = append(messages, msg)
	}

	c.JSON(http.StatusBadRequest, gin.H{
		"success":   false,
		"error":     strings.Join(messages, "; "),
		"code_type": codeTypeValidation,
		"details":   errorResponse,
	})
}

// SendUnauthorizedError ...
// Send unauthorized response to consumers.
func (u *HTTPHelper) SendUnauthorizedError(c *gin.Context, message string) {
	u.SendError(c, http.StatusUnauthorized, message)
}

func (u *HTTPHelper) SendForbiddenError(c *gin.Context, message string) {
	u.SendError(c, http.StatusForbidden, message)
}

// SendNotFoundError ...
// Send not found response to consumers.
func (u *HTTPHelper) SendNotFoundError(c *gin.Context, message string) {
	u.SendError(c, http.StatusNotFound, message)
}

// SendSuccess ...
// Send success response to consumers.
func (u *HTTPHelper) SendSuccess(c *gin.Context, message string, data interface{}) {
	u.SendResponse(c, http.StatusOK, message, data, nil)
}

func (u *HTTPHelper) SendCreated(c *gin.Context, message string, data interface{}) {
	u.SendResponse(c, http.StatusCreated, message, data, nil)
}

// SendPage sends one page of a listing with its pagination block.
func (u *HTTPHelper) SendPage(c *gin.Context, message string, data interface{}, page, limit, total int) {
	u.SendResponse(c, http.StatusOK, message, data, u.GeneratePaging(c, 0, 0, limit, page, total))
}

// SendResponse ...
// Send response
func (u *HTTPHelper) SendResponse(c *gin.Context, status int, message string, data interface{}, pagination map[string]interface{}) {
	if len(message) == 0 {
		message = codeTypeSuccess
	}
	body := gin.H{
		"success": true,
		"message": message,
		"data":    data,
	}
	if pagination != nil {
		body["pagination"] = pagination
	}
	c.JSON(status, body)
}

// BindJSON decodes and validates the request body. On failure the error
// response has already been written.
func (u *HTTPHelper) BindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		u.SendBadRequest(c, "invalid request body: "+err.Error())
		return false
	}
	if err := u.Validate.Struct(req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			u.SendValidationError(c, validationErrors)
			return false
		}
		u.SendBadRequest(c, err.Error())
		return false
	}
	return true
}

// ParamID reads a positive numeric path parameter.
func (u *HTTPHelper) ParamID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		u.SendBadRequest(c, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// QueryInt reads an optional integer query parameter.
func (u *HTTPHelper) QueryInt(c *gin.Context, name string, fallback int) (int, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return fallback, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		u.SendBadRequest(c, "invalid "+name)
		return 0, false
	}
	return v, true
}

func (u *HTTPHelper) EmptyJsonMap() map[string]interface{} {
	return make(map[string]interface{})
}

// get pagination URL
func (u *HTTPHelper) GetPagingUrl(c *gin.Context, page, limit int) string {
	r := c.Request
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	q := r.URL.Query()
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	return scheme + "://" + r.Host + r.URL.Path + "?" + q.Encode()
}

// Set paginantion response
func (u *HTTPHelper) GeneratePaging(c *gin.Context, prev, next, limit, page, totalRecord int) map[string]interface{} {

	prevURL, nextURL, firstURL, lastURL := "", "", "", ""

	totalPages := int(math.Ceil(float64(totalRecord) / float64(limit)))

	if page > 1 {
		prev = page - 1
	}
	if page < totalPages {
		next = page + 1
	} else {
		next = totalPages
	}

	if totalPages >= page && page > 1 {
		prevURL = u.GetPagingUrl(c, prev, limit)
	}

	if totalPages > page {
		nextURL = u.GetPagingUrl(c, next, limit)
	}

	if totalPages >= page && page > 1 {
		firstURL = u.GetPagingUrl(c, 1, limit)
	}

	if totalPages >= page && totalPages != page {
		lastURL = u.GetPagingUrl(c, totalPages, limit)
	}

	links := map[string]interface{}{
		"previous": prevURL,
		"next":     nextURL,
		"first":    firstURL,
		"last":     lastURL,
	}

	pagination := map[string]interface{}{
		"total_records": totalRecord,
		"per_page":      limit,
		"current_page":  page,
		"total_pages":   totalPages,
		"links":         links,
	}

	return pagination
}
