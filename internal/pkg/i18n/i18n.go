package i18n

import (
	"embed"
	"encoding/json"
	"fmt"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

const (
	MsgAlertLowStock      = "AlertLowStock"
	MsgAlertOutOfStock    = "AlertOutOfStock"
	MsgPasswordResetTitle = "PasswordResetSubject"
	MsgPasswordResetBody  = "PasswordResetBody"
)

type Translator struct {
	bundle      *goi18n.Bundle
	defaultLang string
}

// New loads the embedded message files. defaultLang is used when the caller
// does not ask for a specific language.
func New(defaultLang string) (*Translator, error) {
	bundle := goi18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	files, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		if _, err := bundle.LoadMessageFileFS(localeFS, "locales/"+f.Name()); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", f.Name(), err)
		}
	}

	if defaultLang == "" {
		defaultLang = language.English.String()
	}
	return &Translator{bundle: bundle, defaultLang: defaultLang}, nil
}

// T renders messageID in lang. An unknown id is returned as is.
func (t *Translator) T(lang, messageID string, data map[string]interface{}) string {
	loc := goi18n.NewLocalizer(t.bundle, lang, t.defaultLang)
	msg, err := loc.Localize(&goi18n.LocalizeConfig{
		MessageID:    messageID,
		TemplateData: data,
	})
	if err != nil {
		return messageID
	}
	return msg
}

func (t *Translator) DefaultLanguage() string {
	return t.defaultLang
}
