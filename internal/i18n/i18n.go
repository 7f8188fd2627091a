// Package i18n loads the embedded message catalogues and hands out
// per-language Localizers. Callers pass the Localizer they were given; the
// package keeps no active language.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"sync"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/alexisbeaulieu97/signin/internal/domain/auth"
)

//go:embed locales/*.yaml
var localeFS embed.FS

// Supported language tags, in catalogue order.
var supported = []language.Tag{language.English, language.German}

var (
	bundleOnce sync.Once
	bundle     *goi18n.Bundle
	bundleErr  error
)

func loadBundle() (*goi18n.Bundle, error) {
	bundleOnce.Do(func() {
		b := goi18n.NewBundle(language.English)
		b.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)

		files, err := fs.ReadDir(localeFS, "locales")
		if err != nil {
			bundleErr = fmt.Errorf("read locales: %w", err)
			return
		}
		for _, f := range files {
			if f.IsDir() {
				continue
			}
			data, err := localeFS.ReadFile("locales/" + f.Name())
			if err != nil {
				bundleErr = fmt.Errorf("read locale %s: %w", f.Name(), err)
				return
			}
			if _, err := b.ParseMessageFileBytes(data, f.Name()); err != nil {
				bundleErr = fmt.Errorf("parse locale %s: %w", f.Name(), err)
				return
			}
		}
		bundle = b
	})
	return bundle, bundleErr
}

// Supported returns the language codes that have a catalogue.
func Supported() []string {
	out := make([]string, 0, len(supported))
	for _, tag := range supported {
		out = append(out, tag.String())
	}
	return out
}

// Localizer translates message IDs into one language.
type Localizer struct {
	tag       language.Tag
	localizer *goi18n.Localizer
}

// New returns a Localizer for lang. Unknown but well-formed tags fall back
// to the closest supported language, English by default.
func New(lang string) (*Localizer, error) {
	b, err := loadBundle()
	if err != nil {
		return nil, err
	}

	tag := language.English
	if lang != "" {
		parsed, err := language.Parse(lang)
		if err != nil {
			return nil, fmt.Errorf("invalid language %q: %w", lang, err)
		}
		tag, _, _ = language.NewMatcher(supported).Match(parsed)
		base, _ := tag.Base()
		tag = language.Make(base.String())
	}

	return &Localizer{
		tag:       tag,
		localizer: goi18n.NewLocalizer(b, tag.String()),
	}, nil
}

// MustNew is New for callers holding a known-good language code.
func MustNew(lang string) *Localizer {
	l, err := New(lang)
	if err != nil {
		panic(err)
	}
	return l
}

// Lang returns the language code in use.
func (l *Localizer) Lang() string {
	if l == nil {
		return language.English.String()
	}
	return l.tag.String()
}

// T translates messageID. Missing IDs come back unchanged.
func (l *Localizer) T(messageID string) string {
	return l.Tf(messageID, nil)
}

// Tf translates messageID, executing the message template with data.
func (l *Localizer) Tf(messageID string, data map[string]any) string {
	if l == nil || l.localizer == nil {
		return messageID
	}
	msg, err := l.localizer.Localize(&goi18n.LocalizeConfig{
		MessageID:    messageID,
		TemplateData: data,
	})
	if err != nil {
		return messageID
	}
	return msg
}

// Error returns the user-facing message for an error kind.
func (l *Localizer) Error(kind auth.ErrorKind) string {
	if kind == "" {
		return ""
	}
	return l.T("error." + string(kind))
}
