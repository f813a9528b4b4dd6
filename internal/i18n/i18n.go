// Package i18n provides the translated interface strings (navigation, headings,
// buttons) and negotiates the visitor's language.
package i18n

import (
	"embed"
	"fmt"
	"path"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localesFS embed.FS

// Default is the language every catalog falls back to
var Default = language.English

// Supported lists the languages with a catalog, default first
var Supported = []language.Tag{
	language.English,
	language.SimplifiedChinese,
	language.Vietnamese,
	language.Arabic,
}

var matcher = language.NewMatcher(Supported)

// Bundle holds every loaded catalog keyed by language tag
type Bundle struct {
	catalogs map[language.Tag]map[string]string
}

// Load reads all embedded catalogs
func Load() (*Bundle, error) {
	b := &Bundle{catalogs: make(map[language.Tag]map[string]string)}
	for _, tag := range Supported {
		file := path.Join("locales", tag.String()+".yaml")
		data, err := localesFS.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", file, err)
		}
		var entries map[string]string
		if err := yaml.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", file, err)
		}
		b.catalogs[tag] = entries
	}
	return b, nil
}

// MustLoad is Load for use at startup
func MustLoad() *Bundle {
	b, err := Load()
	if err != nil {
		panic(err)
	}
	return b
}

// Localizer translates keys for one language
type Localizer struct {
	tag     language.Tag
	primary map[string]string
	def     map[string]string
}

// For returns a Localizer for tag. Unsupported tags get the default language.
func (b *Bundle) For(tag language.Tag) *Localizer {
	primary, ok := b.catalogs[tag]
	if !ok {
		tag = Default
		primary = b.catalogs[Default]
	}
	return &Localizer{tag: tag, primary: primary, def: b.catalogs[Default]}
}

// T returns the translation for key, falling back to English and then the key
func (l *Localizer) T(key string) string {
	if v, ok := l.primary[key]; ok && v != "" {
		return v
	}
	if v, ok := l.def[key]; ok && v != "" {
		return v
	}
	return key
}

// Lang is the BCP 47 code for the html lang attribute
func (l *Localizer) Lang() string {
	return l.tag.String()
}

// Dir is the text direction for the html dir attribute
func (l *Localizer) Dir() string {
	base, _ := l.tag.Base()
	if base.String() == "ar" {
		return "rtl"
	}
	return "ltr"
}

// Tag is the language this Localizer serves
func (l *Localizer) Tag() language.Tag {
	return l.tag
}

// Parse maps an explicit choice such as "vi" or "zh-Hans" onto a supported tag.
// ok is false when the value is empty or does not name a supported language.
func Parse(value string) (language.Tag, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return Default, false
	}
	tag, err := language.Parse(value)
	if err != nil {
		return Default, false
	}
	_, index, confidence := matcher.Match(tag)
	if confidence < language.High {
		return Default, false
	}
	return Supported[index], true
}

// Match picks a supported language from an Accept-Language header
func Match(acceptLanguage string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return Default
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return Default
	}
	return Supported[index]
}

// Resolve applies the precedence query > cookie > Accept-Language > Default.
// fromQuery reports whether the query value was a supported choice, in which
// case the caller should persist it.
func Resolve(query, cookie, acceptLanguage string) (tag language.Tag, fromQuery bool) {
	if tag, ok := Parse(query); ok {
		return tag, true
	}
	if tag, ok := Parse(cookie); ok {
		return tag, false
	}
	return Match(acceptLanguage), false
}
