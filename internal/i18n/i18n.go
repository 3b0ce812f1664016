package i18n

import (
	"context"
	"embed"
	"encoding/json"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pkg/errors"
	"golang.org/x/text/language"
)

const (
	MsgOutOfStock          = "OutOfStock"
	MsgInsightUnavailable  = "InsightUnavailable"
	MsgEmptyCart           = "EmptyCart"
	MsgInsufficientPayment = "InsufficientPayment"
)

//go:embed locales/*.json
var locales embed.FS

type Translator struct {
	bundle   *goi18n.Bundle
	matcher  language.Matcher
	fallback language.Tag
}

// New loads the embedded catalogs. defaultLocale answers requests whose
// language matches none of them.
func New(defaultLocale string) (*Translator, error) {
	fallback, err := language.Parse(defaultLocale)
	if err != nil {
		return nil, errors.Wrapf(err, "parse default locale %q", defaultLocale)
	}

	bundle := goi18n.NewBundle(fallback)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)
	for _, file := range []string{"locales/active.en.json", "locales/active.id.json"} {
		if _, err := bundle.LoadMessageFileFS(locales, file); err != nil {
			return nil, errors.Wrapf(err, "load %s", file)
		}
	}

	return &Translator{
		bundle:   bundle,
		matcher:  language.NewMatcher(bundle.LanguageTags()),
		fallback: fallback,
	}, nil
}

// Match picks the supported language closest to an Accept-Language value.
func (t *Translator) Match(acceptLanguage string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return t.fallback
	}
	tag, _, confidence := t.matcher.Match(tags...)
	if confidence == language.No {
		return t.fallback
	}
	base, _ := tag.Base()
	return language.Make(base.String())
}

// T renders messageID. Unknown ids come back unchanged.
func (t *Translator) T(acceptLanguage, messageID string, data map[string]interface{}) string {
	loc := goi18n.NewLocalizer(t.bundle, t.Match(acceptLanguage).String(), t.fallback.String())
	msg, err := loc.Localize(&goi18n.LocalizeConfig{
		MessageID:    messageID,
		TemplateData: data,
	})
	if err != nil {
		return messageID
	}
	return msg
}

type languageKey struct{}

// WithLanguage stores the caller's Accept-Language value.
func WithLanguage(ctx context.Context, acceptLanguage string) context.Context {
	return context.WithValue(ctx, languageKey{}, acceptLanguage)
}

func LanguageFrom(ctx context.Context) string {
	lang, _ := ctx.Value(languageKey{}).(string)
	return lang
}
