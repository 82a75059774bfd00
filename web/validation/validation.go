// Package validation decodes and checks request bodies and path parameters
// before controllers run, answering 400 with per-field messages on failure.
package validation

import (
	"errors"
	"net/http"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/quillpress/blog-api/util/json_util"
	"github.com/quillpress/blog-api/web/entity"
	"github.com/quillpress/blog-api/web/locale"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

const (
	bodyKey   = "validated_body"
	paramKeyP = "param:"
)

var usernameRegex = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

var validate = newValidator()

// Normalizer is implemented by requests that trim or lower-case their fields
// before validation.
type Normalizer interface {
	Normalize()
}

// MessageSource maps "field.tag" pairs to message ids.
type MessageSource interface {
	Messages() map[string]string
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernameRegex.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return hasLetterAndDigit(fl.Field().String())
	})
	return v
}

func hasLetterAndDigit(s string) bool {
	var letter, digit bool
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return letter && digit
}

// Struct runs the validator over v and returns one error per failing field.
func Struct(c *gin.Context, v any) []entity.FieldError {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []entity.FieldError{{Field: "body", Msg: err.Error(), Location: entity.LocationBody}}
	}

	messages := messagesOf(v)
	out := make([]entity.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, entity.FieldError{
			Field:    fe.Field(),
			Msg:      fieldMessage(c, messages, fe.Field(), fe.Tag()),
			Location: entity.LocationBody,
		})
	}
	return out
}

func messagesOf(v any) map[string]string {
	if ms, ok := v.(MessageSource); ok {
		return ms.Messages()
	}
	return nil
}

func fieldMessage(c *gin.Context, messages map[string]string, field, tag string) string {
	if id, ok := messages[field+"."+tag]; ok {
		return locale.I18n(c, id)
	}
	return locale.I18n(c, "validation.invalid", "Field=="+field)
}

// Abort answers 400 with the validation envelope.
func Abort(c *gin.Context, errs []entity.FieldError) {
	c.AbortWithStatusJSON(http.StatusBadRequest, entity.ErrorMsg{
		Message: locale.I18n(c, "error.validation"),
		Errors:  errs,
	})
}

// Body decodes the JSON body into a fresh T, normalizes and validates it, and
// stores it for BodyFrom. An empty body is validated as an empty object.
func Body[T any]() gin.HandlerFunc {
	return func(c *gin.Context) {
		req := new(T)
		if err := json_util.DecodeBody(c.Request.Body, req); err != nil && !errors.Is(err, json_util.ErrEmptyBody) {
			Abort(c, []entity.FieldError{decodeError(c, req, err)})
			return
		}
		if n, ok := any(req).(Normalizer); ok {
			n.Normalize()
		}
		if errs := Struct(c, req); len(errs) > 0 {
			Abort(c, errs)
			return
		}
		c.Set(bodyKey, req)
		c.Next()
	}
}

func decodeError(c *gin.Context, req any, err error) entity.FieldError {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		field := typeErr.Field
		if i := strings.LastIndexByte(field, '.'); i >= 0 {
			field = field[i+1:]
		}
		return entity.FieldError{
			Field:    field,
			Msg:      fieldMessage(c, messagesOf(req), field, "type"),
			Location: entity.LocationBody,
		}
	}
	return entity.FieldError{
		Field:    "body",
		Msg:      locale.I18n(c, "validation.body"),
		Location: entity.LocationBody,
	}
}

// BodyFrom returns the request stored by Body[T]. It panics when the route
// was registered without the matching middleware.
func BodyFrom[T any](c *gin.Context) *T {
	return c.MustGet(bodyKey).(*T)
}

// ParamID checks that each named path parameter is a positive integer.
func ParamID(names ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var errs []entity.FieldError
		for _, name := range names {
			raw := c.Param(name)
			id, err := strconv.Atoi(raw)
			if err != nil || id < 1 {
				errs = append(errs, entity.FieldError{
					Field:    name,
					Msg:      locale.I18n(c, "validation.param", "Param=="+name),
					Location: entity.LocationParams,
				})
				continue
			}
			c.Set(paramKeyP+name, id)
		}
		if len(errs) > 0 {
			Abort(c, errs)
			return
		}
		c.Next()
	}
}

// GetID returns a path parameter checked by ParamID.
func GetID(c *gin.Context, name string) int {
	return c.GetInt(paramKeyP + name)
}
