// Package i18n holds the storefront message catalog. Keys are the English
// messages; Kyrgyz is the default language, Russian the second one.
package i18n

import (
	"net/http"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const CookieName = "lang"

var (
	Kyrgyz  = language.Make("ky")
	Russian = language.Russian
	English = language.English

	supported = []language.Tag{Kyrgyz, Russian, English}
	matcher   = language.NewMatcher(supported)
)

type Localizer struct {
	tag language.Tag
	p   *message.Printer
}

// New returns a localizer for the closest supported language; unknown
// input falls back to Kyrgyz.
func New(lang string) *Localizer {
	tag := Kyrgyz
	if lang != "" {
		if t, err := language.Parse(lang); err == nil {
			_, idx, conf := matcher.Match(t)
			if conf != language.No {
				tag = supported[idx]
			}
		}
	}
	return &Localizer{tag: tag, p: message.NewPrinter(tag)}
}

// For picks the language from the lang cookie, then Accept-Language.
func For(r *http.Request) *Localizer {
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		return New(c.Value)
	}
	tags, _, err := language.ParseAcceptLanguage(r.Header.Get("Accept-Language"))
	if err != nil || len(tags) == 0 {
		return New("")
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return New("")
	}
	tag := supported[idx]
	return &Localizer{tag: tag, p: message.NewPrinter(tag)}
}

func (l *Localizer) T(key string, args ...any) string {
	return l.p.Sprintf(key, args...)
}

func (l *Localizer) Lang() string {
	base, _ := l.tag.Base()
	return base.String()
}
