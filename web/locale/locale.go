// Package locale loads the embedded TOML message catalogues and resolves
// request-scoped localizers from the lang cookie or Accept-Language header.
package locale

import (
	"embed"
	"io/fs"
	"strings"
	"sync"

	"github.com/quillpress/blog-api/logger"

	"github.com/gin-gonic/gin"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"
)

//go:embed translation/*
var i18nFS embed.FS

const localizerKey = "localizer"

var (
	i18nBundle *i18n.Bundle
	initOnce   sync.Once
	initErr    error
)

// InitLocalizer parses the embedded catalogues. It is safe to call more than once.
func InitLocalizer() error {
	initOnce.Do(func() {
		bundle := i18n.NewBundle(language.MustParse("en-US"))
		bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)
		if initErr = parseTranslationFiles(i18nFS, bundle); initErr != nil {
			return
		}
		i18nBundle = bundle
	})
	return initErr
}

func createTemplateData(params []string, seperator ...string) map[string]any {
	sep := "=="
	if len(seperator) > 0 {
		sep = seperator[0]
	}

	templateData := make(map[string]any)
	for _, param := range params {
		parts := strings.SplitN(param, sep, 2)
		if len(parts) != 2 {
			continue
		}
		templateData[parts[0]] = parts[1]
	}
	return templateData
}

// NewLocalizer returns a localizer for the given language preferences,
// falling back to English.
func NewLocalizer(langs ...string) *i18n.Localizer {
	if err := InitLocalizer(); err != nil {
		logger.Error("i18n init failed:", err)
		return nil
	}
	return i18n.NewLocalizer(i18nBundle, langs...)
}

// Translate resolves key with params of the form "Name==value". The key
// itself is returned when no message matches.
func Translate(localizer *i18n.Localizer, key string, params ...string) string {
	if localizer == nil {
		return key
	}
	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: createTemplateData(params),
	})
	if err != nil {
		logger.Warningf("Failed to localize message %q: %v", key, err)
		return key
	}
	return msg
}

// I18n translates key using the localizer attached to the request, or
// English when none was attached.
func I18n(c *gin.Context, key string, params ...string) string {
	return Translate(FromContext(c), key, params...)
}

func FromContext(c *gin.Context) *i18n.Localizer {
	if c != nil {
		if v, ok := c.Get(localizerKey); ok {
			if l, ok := v.(*i18n.Localizer); ok {
				return l
			}
		}
	}
	return NewLocalizer()
}

func LocalizerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var lang string
		if cookie, err := c.Request.Cookie("lang"); err == nil {
			lang = cookie.Value
		} else {
			lang = c.GetHeader("Accept-Language")
		}

		c.Set(localizerKey, NewLocalizer(lang))
		c.Next()
	}
}

func parseTranslationFiles(i18nFS embed.FS, i18nBundle *i18n.Bundle) error {
	return fs.WalkDir(i18nFS, "translation",
		func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}

			data, err := i18nFS.ReadFile(path)
			if err != nil {
				return err
			}

			_, err = i18nBundle.ParseMessageFileBytes(data, path)
			return err
		})
}
