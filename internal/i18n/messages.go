package i18n

import (
	_ "embed"
	"fmt"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed messages.yaml
var defaultCatalog []byte

// Messages: локализованные тексты для флеш-сообщений и ошибок валидации.
// Передается в контроллеры явно, глобального экземпляра нет.
type Messages struct {
	catalogs      map[string]map[string]string
	defaultLocale string
	matcher       language.Matcher
	tags          []string
}

// Load читает встроенный каталог
func Load(defaultLocale string) (*Messages, error) {
	return Parse(defaultCatalog, defaultLocale)
}

// Parse разбирает YAML вида locale -> key -> text.
// Локаль по умолчанию ставится первой, чтобы matcher возвращал ее при отсутствии совпадений.
func Parse(data []byte, defaultLocale string) (*Messages, error) {
	var catalogs map[string]map[string]string
	if err := yaml.Unmarshal(data, &catalogs); err != nil {
		return nil, fmt.Errorf("parse messages: %w", err)
	}
	if _, ok := catalogs[defaultLocale]; !ok {
		return nil, fmt.Errorf("default locale %q not found in messages", defaultLocale)
	}

	tags := []string{defaultLocale}
	for locale := range catalogs {
		if locale != defaultLocale {
			tags = append(tags, locale)
		}
	}
	supported := make([]language.Tag, 0, len(tags))
	for _, t := range tags {
		supported = append(supported, language.Make(t))
	}

	return &Messages{
		catalogs:      catalogs,
		defaultLocale: defaultLocale,
		matcher:       language.NewMatcher(supported),
		tags:          tags,
	}, nil
}

// DefaultLocale возвращает локаль по умолчанию
func (m *Messages) DefaultLocale() string {
	return m.defaultLocale
}

// Get возвращает текст по ключу. Если в локали ключа нет, ищет в локали
// по умолчанию, затем возвращает сам ключ. args подставляются через fmt.Sprintf.
func (m *Messages) Get(locale, key string, args ...any) string {
	text, ok := m.catalogs[locale][key]
	if !ok {
		text, ok = m.catalogs[m.defaultLocale][key]
	}
	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(text, args...)
	}
	return text
}

// FromRequest выбирает поддерживаемую локаль по заголовку Accept-Language
func (m *Messages) FromRequest(acceptLanguage string) string {
	if acceptLanguage == "" {
		return m.defaultLocale
	}
	prefs, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(prefs) == 0 {
		return m.defaultLocale
	}
	_, index, confidence := m.matcher.Match(prefs...)
	if confidence == language.No {
		return m.defaultLocale
	}
	return m.tags[index]
}

// Supports сообщает, есть ли каталог для локали (параметр ?lang=)
func (m *Messages) Supports(locale string) bool {
	_, ok := m.catalogs[locale]
	return ok
}
